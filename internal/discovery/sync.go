// Copyright © 2026 Floramesh Contributors
//
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package discovery

import (
	"context"

	"github.com/floramesh/floramesh/internal/i18n"
	"github.com/floramesh/floramesh/internal/log"
	"github.com/floramesh/floramesh/internal/wire"
	"github.com/floramesh/floramesh/pkg/eventstream"
	"github.com/floramesh/floramesh/pkg/fmtypes"
)

// Sync pulls all events published after the coordinator's cursor and folds
// them into the tracked state. Transient fetch failures are retried with
// backoff. The cursor only advances past an event once it has been applied,
// so an interrupted sync resumes where it stopped.
func (c *Coordinator) Sync(ctx context.Context) error {
	for {
		var batch []*fmtypes.Event
		err := c.fetchRetry.Do(ctx, "discovery fetch", func(attempt int) (bool, error) {
			var fetchErr error
			batch, fetchErr = c.events.Fetch(ctx, c.topicID, eventstream.FetchOptions{
				AfterSequence: c.lastSequence,
				Limit:         c.batchLimit,
				Order:         eventstream.FetchOrderAsc,
			})
			if fetchErr != nil {
				return true, i18n.WrapError(ctx, fetchErr, i18n.MsgFetchFailed, c.topicID)
			}
			return false, nil
		})
		if err != nil {
			return err
		}
		for _, event := range batch {
			if err := c.Apply(ctx, event); err != nil {
				return err
			}
		}
		if len(batch) < c.batchLimit || len(batch) == 0 {
			return nil
		}
	}
}

// Apply folds one event into the tracked state. Malformed or foreign-protocol
// events are logged and skipped, never aborting reconstruction.
func (c *Coordinator) Apply(ctx context.Context, event *fmtypes.Event) error {
	if event.Sequence <= c.lastSequence && c.lastSequence != 0 {
		log.L(ctx).Warnf("Skipping out-of-order event %d (cursor %d)", event.Sequence, c.lastSequence)
		return nil
	}
	c.lastSequence = event.Sequence

	env, err := wire.Decode(ctx, event)
	if err != nil {
		log.L(ctx).Warnf("Skipping event %d: %s", event.Sequence, err)
		return nil
	}
	if env.Protocol != wire.ProtocolDiscovery {
		log.L(ctx).Debugf("Ignoring '%s' event %d on discovery topic", env.Protocol, event.Sequence)
		return nil
	}

	discOp, err := wire.DecodeDiscoveryOp(ctx, env)
	if err != nil {
		log.L(ctx).Warnf("Skipping event %d: %s", event.Sequence, err)
		return nil
	}

	switch {
	case discOp.Announce != nil:
		c.handleAnnounce(ctx, event, discOp.Announce)
	case discOp.Propose != nil:
		c.handlePropose(ctx, event, discOp.Propose)
	case discOp.Respond != nil:
		c.handleRespond(ctx, event, discOp.Respond)
	case discOp.Complete != nil:
		c.handleComplete(ctx, event, discOp.Complete)
	case discOp.Withdraw != nil:
		c.handleWithdraw(ctx, event, discOp.Withdraw)
	}
	return nil
}

func (c *Coordinator) handleAnnounce(ctx context.Context, event *fmtypes.Event, data *wire.AnnounceData) {
	c.announcements[event.Sequence] = &fmtypes.Announcement{
		Sequence:  event.Sequence,
		Account:   data.Account,
		PetalName: data.PetalName,
		Priority:  data.Priority,
		Protocols: data.Protocols,
		Resources: data.Resources,
		ValidFor:  data.ValidFor,
		Observed:  fmtypes.Now(),
	}
	if data.Account == c.identity.Account {
		c.ownAnnounceSeq = event.Sequence
		c.hasAnnounced = true
	}
	log.L(ctx).Debugf("Tracked announcement %d from '%s'", event.Sequence, data.Account)
}

// handlePropose records a new proposal. A proposal this coordinator published
// itself was recorded optimistically at publish time, and is not reset when its
// own event replays - responses applied since must survive.
func (c *Coordinator) handlePropose(ctx context.Context, event *fmtypes.Event, data *wire.ProposeData) {
	if c.proposals[event.Sequence] != nil {
		log.L(ctx).Debugf("Proposal %d already tracked", event.Sequence)
		return
	}
	c.proposals[event.Sequence] = &fmtypes.Proposal{
		Sequence:  event.Sequence,
		Proposer:  data.Proposer,
		Members:   data.Members,
		Config:    data.Config,
		Responses: map[string]fmtypes.Decision{},
	}
	log.L(ctx).Infof("Tracked proposal %d from '%s' with %d members", event.Sequence, data.Proposer, len(data.Members))
}

// handleRespond replaces the responder's previous decision, if any, then
// re-evaluates readiness. A member changing accept to decline before quorum
// removes its acceptance.
func (c *Coordinator) handleRespond(ctx context.Context, event *fmtypes.Event, data *wire.RespondData) {
	proposal := c.proposals[data.ProposalSeq]
	if proposal == nil {
		log.L(ctx).Warnf("Response %d references unknown proposal %d", event.Sequence, data.ProposalSeq)
		return
	}
	proposal.Responses[data.Responder] = data.Decision
	log.L(ctx).Debugf("Recorded '%s' from '%s' on proposal %d (%d/%d accepts)",
		data.Decision, data.Responder, proposal.Sequence, proposal.AcceptanceCount(), len(proposal.Members)-1)

	if !proposal.Ready() {
		return
	}
	if proposal.Proposer != c.identity.Account {
		return
	}
	if c.formations[proposal.Sequence] != nil || c.queued[proposal.Sequence] {
		return
	}
	c.queued[proposal.Sequence] = true
	c.effects = append(c.effects, &FormationEffect{
		ID:          fmtypes.NewUUID(),
		ProposalSeq: proposal.Sequence,
	})
	log.L(ctx).Infof("Proposal %d reached quorum - formation queued", proposal.Sequence)
}

func (c *Coordinator) handleComplete(ctx context.Context, event *fmtypes.Event, data *wire.CompleteData) {
	c.recordFormation(ctx, data.ProposalSeq, data.ResourceAccountID, data.SubResources)
}

// handleWithdraw drops a tracked announcement, but only if the withdrawing
// account matches the announcement's owner
func (c *Coordinator) handleWithdraw(ctx context.Context, event *fmtypes.Event, data *wire.WithdrawData) {
	ann := c.announcements[data.AnnounceSeq]
	if ann == nil {
		log.L(ctx).Debugf("Withdraw %d references unknown announcement %d", event.Sequence, data.AnnounceSeq)
		return
	}
	if ann.Account != data.Account {
		log.L(ctx).Warnf("Withdraw %d by '%s' rejected - announcement %d belongs to '%s'",
			event.Sequence, data.Account, data.AnnounceSeq, ann.Account)
		return
	}
	delete(c.announcements, data.AnnounceSeq)
	if data.Account == c.identity.Account && data.AnnounceSeq == c.ownAnnounceSeq {
		c.hasAnnounced = false
		c.state = fmtypes.PetalStateWithdrawn
	}
	log.L(ctx).Debugf("Withdrew announcement %d", data.AnnounceSeq)
}
