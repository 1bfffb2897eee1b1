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
	"github.com/floramesh/floramesh/pkg/fmtypes"
)

// FormationEffect is a queued intent to form the shared resource for a
// proposal that reached quorum during replay. Replay only ever queues effects,
// it never performs external calls itself - execution happens in RunEffects,
// so replaying the same log twice cannot double-create a resource.
type FormationEffect struct {
	ID          *fmtypes.UUID `json:"id"`
	ProposalSeq uint64        `json:"proposalSeq"`
	Consumed    bool          `json:"consumed"`
}

// PendingEffects returns the queued, unconsumed formation effects
func (c *Coordinator) PendingEffects() []*FormationEffect {
	pending := make([]*FormationEffect, 0, len(c.effects))
	for _, effect := range c.effects {
		if !effect.Consumed {
			pending = append(pending, effect)
		}
	}
	return pending
}

// RunEffects executes the queued formation effects. Each proposal is guarded
// by an in-progress marker for the duration of the external call, cleared on
// failure so that a later run can retry. A failed effect stays pending.
func (c *Coordinator) RunEffects(ctx context.Context) error {
	for _, effect := range c.effects {
		if effect.Consumed {
			continue
		}
		if err := c.runFormation(ctx, effect); err != nil {
			return err
		}
	}
	return nil
}

func (c *Coordinator) runFormation(ctx context.Context, effect *FormationEffect) error {
	l := log.L(ctx)
	if c.formations[effect.ProposalSeq] != nil {
		l.Debugf("Proposal %d already formed - consuming effect %s", effect.ProposalSeq, effect.ID)
		effect.Consumed = true
		delete(c.queued, effect.ProposalSeq)
		return nil
	}
	if c.inProgress[effect.ProposalSeq] {
		return i18n.NewError(ctx, i18n.MsgFormationInProgress, effect.ProposalSeq)
	}
	proposal := c.proposals[effect.ProposalSeq]
	if proposal == nil {
		return i18n.NewError(ctx, i18n.MsgProposalNotFound, effect.ProposalSeq)
	}

	c.inProgress[effect.ProposalSeq] = true
	createCtx, cancel := context.WithTimeout(ctx, c.formationTimeout)
	defer cancel()

	members := make([]string, len(proposal.Members))
	for i, m := range proposal.Members {
		members[i] = m.Account
	}
	l.Infof("Forming resource for proposal %d (%d members, threshold %d)",
		proposal.Sequence, len(members), proposal.Config.SigningThreshold)
	result, err := c.formation.Create(createCtx, members, proposal.Config.SigningThreshold, proposal.Config.Name)
	if err != nil {
		delete(c.inProgress, effect.ProposalSeq)
		return i18n.WrapError(ctx, err, i18n.MsgFormationFailed, effect.ProposalSeq)
	}

	if _, err := c.CompleteFormation(ctx, effect.ProposalSeq, result.ResourceAccountID, result.SubResources); err != nil {
		delete(c.inProgress, effect.ProposalSeq)
		return err
	}
	effect.Consumed = true
	delete(c.inProgress, effect.ProposalSeq)
	delete(c.queued, effect.ProposalSeq)
	return nil
}
