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

// Package discovery tracks petal announcements, formation proposals and
// responses on a discovery topic, and forms the shared multi-party resource
// exactly once when enough members accept.
package discovery

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/floramesh/floramesh/internal/config"
	"github.com/floramesh/floramesh/internal/i18n"
	"github.com/floramesh/floramesh/internal/log"
	"github.com/floramesh/floramesh/internal/retry"
	"github.com/floramesh/floramesh/internal/wire"
	"github.com/floramesh/floramesh/pkg/eventstream"
	"github.com/floramesh/floramesh/pkg/fmtypes"
)

// Identity is the local participant's announced identity
type Identity struct {
	Account   string
	PetalName string
	Priority  int
	Protocols []string
	Resources fmtypes.JSONObject
}

// Coordinator is a per-participant replay machine over one discovery topic.
// All collections are owned exclusively by this instance, keyed by the stable
// sequence numbers the ordering layer assigned. Each participant replays the
// same public log independently and arrives at the same state by determinism,
// not by coordination.
type Coordinator struct {
	identity  Identity
	topicID   string
	events    eventstream.EventSource
	emitter   eventstream.MessageEmitter
	formation eventstream.FormationService

	fetchRetry       retry.Retry
	batchLimit       int
	formationTimeout time.Duration

	state          fmtypes.PetalState
	announcements  map[uint64]*fmtypes.Announcement
	proposals      map[uint64]*fmtypes.Proposal
	formations     map[uint64]*fmtypes.Formation
	ownAnnounceSeq uint64
	hasAnnounced   bool
	lastSequence   uint64

	// Pending effects produced by replay, executed by RunEffects. The
	// in-progress set guards the external creation call per proposal.
	effects    []*FormationEffect
	queued     map[uint64]bool
	inProgress map[uint64]bool
}

func NewCoordinator(ctx context.Context, identity Identity, topicID string, events eventstream.EventSource, emitter eventstream.MessageEmitter, formation eventstream.FormationService) *Coordinator {
	return &Coordinator{
		identity:  identity,
		topicID:   topicID,
		events:    events,
		emitter:   emitter,
		formation: formation,
		fetchRetry: retry.Retry{
			InitialDelay: time.Duration(config.GetUint(config.SyncRetryInitialDelayMS)) * time.Millisecond,
			MaximumDelay: time.Duration(config.GetUint(config.SyncRetryMaxDelayMS)) * time.Millisecond,
			Factor:       config.GetFloat64(config.SyncRetryFactor),
		},
		batchLimit:       config.GetInt(config.EventBatchLimit),
		formationTimeout: time.Duration(config.GetUint(config.FormationTimeoutMS)) * time.Millisecond,
		state:            fmtypes.PetalStateIdle,
		announcements:    map[uint64]*fmtypes.Announcement{},
		proposals:        map[uint64]*fmtypes.Proposal{},
		formations:       map[uint64]*fmtypes.Formation{},
		queued:           map[uint64]bool{},
		inProgress:       map[uint64]bool{},
	}
}

// State is the local participant's lifecycle state
func (c *Coordinator) State() fmtypes.PetalState {
	return c.state
}

// AnnounceAvailability broadcasts this petal's availability. The assigned
// sequence number keys the announcement for later withdrawal.
func (c *Coordinator) AnnounceAvailability(ctx context.Context, validFor int64) (uint64, error) {
	seq, err := c.publish(ctx, wire.OpAnnounce, &wire.AnnounceData{
		Account:   c.identity.Account,
		PetalName: c.identity.PetalName,
		Priority:  c.identity.Priority,
		Protocols: c.identity.Protocols,
		Resources: c.identity.Resources,
		ValidFor:  validFor,
	})
	if err != nil {
		return 0, err
	}
	c.announcements[seq] = &fmtypes.Announcement{
		Sequence:  seq,
		Account:   c.identity.Account,
		PetalName: c.identity.PetalName,
		Priority:  c.identity.Priority,
		Protocols: c.identity.Protocols,
		Resources: c.identity.Resources,
		ValidFor:  validFor,
		Observed:  fmtypes.Now(),
	}
	c.ownAnnounceSeq = seq
	c.hasAnnounced = true
	c.state = fmtypes.PetalStateAnnounced
	log.L(ctx).Infof("Announced petal '%s' at sequence %d", c.identity.PetalName, seq)
	return seq, nil
}

// ProposeFormation proposes a grouping of the given accounts, capturing each
// member's most recent tracked announcement where one exists
func (c *Coordinator) ProposeFormation(ctx context.Context, memberAccounts []string, proposalConfig fmtypes.ProposalConfig) (uint64, error) {
	if len(memberAccounts) == 0 {
		return 0, i18n.NewError(ctx, i18n.MsgProposalNeedsMembers)
	}
	members := make([]*fmtypes.ProposalMember, len(memberAccounts))
	for i, account := range memberAccounts {
		member := &fmtypes.ProposalMember{Account: account}
		if ann := c.latestAnnouncement(account); ann != nil {
			member.AnnounceSeq = ann.Sequence
			member.Priority = ann.Priority
		}
		members[i] = member
	}
	seq, err := c.publish(ctx, wire.OpPropose, &wire.ProposeData{
		Proposer: c.identity.Account,
		Members:  members,
		Config:   proposalConfig,
	})
	if err != nil {
		return 0, err
	}
	c.proposals[seq] = &fmtypes.Proposal{
		Sequence:  seq,
		Proposer:  c.identity.Account,
		Members:   members,
		Config:    proposalConfig,
		Responses: map[string]fmtypes.Decision{},
	}
	c.state = fmtypes.PetalStateProposing
	log.L(ctx).Infof("Proposed formation '%s' at sequence %d with %d members", proposalConfig.Name, seq, len(members))
	return seq, nil
}

// RespondToProposal answers a proposal this coordinator has already observed
// via sync. Accepting moves the local state to Forming.
func (c *Coordinator) RespondToProposal(ctx context.Context, proposalSeq uint64, decision fmtypes.Decision, reason string) (uint64, error) {
	proposal := c.proposals[proposalSeq]
	if proposal == nil {
		return 0, i18n.NewError(ctx, i18n.MsgProposalNotFound, proposalSeq)
	}
	seq, err := c.publish(ctx, wire.OpRespond, &wire.RespondData{
		ProposalSeq: proposalSeq,
		Responder:   c.identity.Account,
		Decision:    decision,
		Reason:      reason,
	})
	if err != nil {
		return 0, err
	}
	proposal.Responses[c.identity.Account] = decision
	if decision.Equals(fmtypes.DecisionAccept) {
		c.state = fmtypes.PetalStateForming
	}
	return seq, nil
}

// CompleteFormation broadcasts a successful formation and records it. Called
// by the effect driver once the external creation call succeeds.
func (c *Coordinator) CompleteFormation(ctx context.Context, proposalSeq uint64, resourceAccountID string, subResources fmtypes.SubResources) (uint64, error) {
	seq, err := c.publish(ctx, wire.OpComplete, &wire.CompleteData{
		ProposalSeq:       proposalSeq,
		ResourceAccountID: resourceAccountID,
		SubResources:      subResources,
	})
	if err != nil {
		return 0, err
	}
	c.recordFormation(ctx, proposalSeq, resourceAccountID, subResources)
	return seq, nil
}

// Withdraw removes this petal's own announcement from the topic
func (c *Coordinator) Withdraw(ctx context.Context, reason string) (uint64, error) {
	if !c.hasAnnounced {
		return 0, i18n.NewError(ctx, i18n.MsgNoOwnAnnouncement)
	}
	seq, err := c.publish(ctx, wire.OpWithdraw, &wire.WithdrawData{
		AnnounceSeq: c.ownAnnounceSeq,
		Account:     c.identity.Account,
		Reason:      reason,
	})
	if err != nil {
		return 0, err
	}
	delete(c.announcements, c.ownAnnounceSeq)
	c.state = fmtypes.PetalStateWithdrawn
	return seq, nil
}

// PetalFilters narrow a compatible-petal query
type PetalFilters struct {
	// Protocols that a candidate must all support
	Protocols []string
	// MinPriority excludes candidates below this priority
	MinPriority int
	// MaxMembers caps the result length (0 means no cap)
	MaxMembers int
}

// FindCompatiblePetals is a pure query over the tracked announcements,
// excluding this petal itself, sorted by priority descending
func (c *Coordinator) FindCompatiblePetals(filters PetalFilters) []*fmtypes.Announcement {
	matched := make([]*fmtypes.Announcement, 0, len(c.announcements))
	for _, ann := range c.announcements {
		if ann.Account == c.identity.Account {
			continue
		}
		if ann.Priority < filters.MinPriority {
			continue
		}
		compatible := true
		for _, p := range filters.Protocols {
			if !ann.HasProtocol(p) {
				compatible = false
				break
			}
		}
		if compatible {
			matched = append(matched, ann)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Priority != matched[j].Priority {
			return matched[i].Priority > matched[j].Priority
		}
		return matched[i].Sequence < matched[j].Sequence
	})
	if filters.MaxMembers > 0 && len(matched) > filters.MaxMembers {
		matched = matched[:filters.MaxMembers]
	}
	return matched
}

// GetProposal looks up a tracked proposal by its sequence number
func (c *Coordinator) GetProposal(proposalSeq uint64) *fmtypes.Proposal {
	return c.proposals[proposalSeq]
}

// GetFormation looks up a recorded formation by its proposal sequence number
func (c *Coordinator) GetFormation(proposalSeq uint64) *fmtypes.Formation {
	return c.formations[proposalSeq]
}

// ListAnnouncements returns the tracked announcements in sequence order
func (c *Coordinator) ListAnnouncements() []*fmtypes.Announcement {
	list := make([]*fmtypes.Announcement, 0, len(c.announcements))
	for _, ann := range c.announcements {
		list = append(list, ann)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Sequence < list[j].Sequence })
	return list
}

// ListProposals returns the tracked proposals in sequence order
func (c *Coordinator) ListProposals() []*fmtypes.Proposal {
	list := make([]*fmtypes.Proposal, 0, len(c.proposals))
	for _, p := range c.proposals {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Sequence < list[j].Sequence })
	return list
}

// ListFormations returns the recorded formations in proposal sequence order
func (c *Coordinator) ListFormations() []*fmtypes.Formation {
	list := make([]*fmtypes.Formation, 0, len(c.formations))
	for _, f := range c.formations {
		list = append(list, f)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ProposalSeq < list[j].ProposalSeq })
	return list
}

func (c *Coordinator) latestAnnouncement(account string) *fmtypes.Announcement {
	var latest *fmtypes.Announcement
	for _, ann := range c.announcements {
		if ann.Account == account && (latest == nil || ann.Sequence > latest.Sequence) {
			latest = ann
		}
	}
	return latest
}

func (c *Coordinator) publish(ctx context.Context, operation string, data interface{}) (uint64, error) {
	dataBytes, err := json.Marshal(data)
	if err == nil {
		var payload []byte
		payload, err = json.Marshal(&wire.Envelope{
			Protocol:  wire.ProtocolDiscovery,
			Operation: operation,
			Data:      dataBytes,
		})
		if err == nil {
			var seq uint64
			seq, err = c.emitter.Publish(ctx, c.topicID, payload)
			if err == nil {
				return seq, nil
			}
		}
	}
	return 0, i18n.WrapError(ctx, err, i18n.MsgPublishFailed, operation, c.topicID)
}

func (c *Coordinator) recordFormation(ctx context.Context, proposalSeq uint64, resourceAccountID string, subResources fmtypes.SubResources) {
	if c.formations[proposalSeq] != nil {
		log.L(ctx).Debugf("Formation for proposal %d already recorded", proposalSeq)
		return
	}
	formation := &fmtypes.Formation{
		ProposalSeq:       proposalSeq,
		ResourceAccountID: resourceAccountID,
		SubResources:      subResources,
		CreatedAt:         fmtypes.Now(),
	}
	if proposal := c.proposals[proposalSeq]; proposal != nil {
		formation.Members = proposal.Members
		formation.SigningThreshold = proposal.Config.SigningThreshold
	}
	c.formations[proposalSeq] = formation
	if formation.HasMember(c.identity.Account) {
		c.state = fmtypes.PetalStateActive
	}
	log.L(ctx).Infof("Formation for proposal %d recorded - resource account %s", proposalSeq, resourceAccountID)
}
