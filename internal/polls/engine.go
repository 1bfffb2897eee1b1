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

// Package polls replays one poll topic's register/manage/update/vote events
// into a single aggregate, reassembling chunked registrations on the way in.
package polls

import (
	"context"

	"github.com/floramesh/floramesh/internal/assembly"
	"github.com/floramesh/floramesh/internal/log"
	"github.com/floramesh/floramesh/internal/wire"
	"github.com/floramesh/floramesh/pkg/fmtypes"
)

// Engine folds the ordered events of one poll topic into its aggregate.
// It is owned by a single replay loop and is not safe for concurrent use.
type Engine struct {
	assembler    *assembly.Assembler
	state        *fmtypes.PollState
	lastSequence uint64
	anyApplied   bool
}

func NewEngine(ctx context.Context) *Engine {
	return &Engine{
		assembler: assembly.NewAssembler(),
		state: &fmtypes.PollState{
			Status:     fmtypes.PollStatusInactive,
			Results:    fmtypes.PollResults{OptionWeight: map[string]int64{}},
			VoteLedger: map[string][]fmtypes.VoteEntry{},
			Operations: []*fmtypes.PollOperation{},
			Errors:     []*fmtypes.PollError{},
		},
	}
}

// State is the current aggregate. Replaying the same ordered log from scratch
// always yields the same final aggregate.
func (e *Engine) State() *fmtypes.PollState {
	return e.state
}

// Replay applies a fetched batch in order
func (e *Engine) Replay(ctx context.Context, events []*fmtypes.Event) error {
	for _, event := range events {
		if err := e.Apply(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

// Apply folds one event into the aggregate. Protocol errors are logged and
// skipped - a single bad event never aborts reconstruction. Sequencing errors
// from chunk reassembly are returned, as they indicate a producer bug.
func (e *Engine) Apply(ctx context.Context, event *fmtypes.Event) error {
	if e.anyApplied && event.Sequence <= e.lastSequence {
		log.L(ctx).Warnf("Skipping out-of-order event %d (last processed %d)", event.Sequence, e.lastSequence)
		return nil
	}
	e.lastSequence = event.Sequence
	e.anyApplied = true

	env, err := wire.Decode(ctx, event)
	if err != nil {
		log.L(ctx).Warnf("Skipping event %d: %s", event.Sequence, err)
		return nil
	}
	if env.Protocol != wire.ProtocolPoll {
		log.L(ctx).Debugf("Ignoring '%s' event %d on poll topic", env.Protocol, event.Sequence)
		return nil
	}

	env, err = e.assembler.Ingest(ctx, env, event.Timestamp)
	if err != nil {
		return err
	}
	if env == nil {
		return nil // awaiting further chunks
	}

	pollOp, err := wire.DecodePollOp(ctx, env)
	if err != nil {
		log.L(ctx).Warnf("Skipping event %d: %s", event.Sequence, err)
		return nil
	}

	switch {
	case pollOp.Register != nil:
		e.applyRegister(ctx, event, pollOp.Register)
	case pollOp.Manage != nil:
		e.applyManage(ctx, event, pollOp.Manage)
	case pollOp.Update != nil:
		e.applyUpdate(ctx, event, pollOp.Update)
	case pollOp.Vote != nil:
		e.applyVote(ctx, event, pollOp.Vote)
	}
	return nil
}

// applyRegister sets the poll metadata exactly once. Later register events
// for the same poll are redundant, never an overwrite.
func (e *Engine) applyRegister(ctx context.Context, event *fmtypes.Event, data *wire.PollRegisterData) {
	if e.state.Registered() {
		log.L(ctx).Debugf("Redundant register at event %d ignored - poll already registered", event.Sequence)
		return
	}
	e.state.Metadata = data.Metadata.DeepCopy()
	e.state.Status = fmtypes.PollStatusInactive
	e.recordOperation(event, wire.OpRegister, "")
}

func (e *Engine) applyManage(ctx context.Context, event *fmtypes.Event, data *wire.PollManageData) {
	if !e.authorized(event, wire.OpManage, data.Account) {
		return
	}
	switch data.Action {
	case wire.ActionOpen:
		e.state.Status = fmtypes.PollStatusActive
	case wire.ActionPause:
		e.state.Status = fmtypes.PollStatusPaused
	case wire.ActionClose:
		e.state.Status = fmtypes.PollStatusClosed
	case wire.ActionCancel:
		e.state.Status = fmtypes.PollStatusCancelled
	}
	e.recordOperation(event, wire.OpManage, data.Account)
}

func (e *Engine) applyUpdate(ctx context.Context, event *fmtypes.Event, data *wire.PollUpdateData) {
	if !e.authorized(event, wire.OpUpdate, data.Account) {
		return
	}
	for k, v := range data.Change {
		e.state.Metadata[k] = v
	}
	e.recordOperation(event, wire.OpUpdate, data.Account)
}

// applyVote replaces any prior ballot for the account, then recomputes the
// results in full from the current ledger - switching a vote moves its
// weight instead of adding to it.
func (e *Engine) applyVote(ctx context.Context, event *fmtypes.Event, data *wire.PollVoteData) {
	entries := make([]fmtypes.VoteEntry, len(data.Entries))
	copy(entries, data.Entries)
	e.state.VoteLedger[data.Account] = entries

	results := fmtypes.PollResults{OptionWeight: map[string]int64{}}
	for _, ballot := range e.state.VoteLedger {
		for _, entry := range ballot {
			results.OptionWeight[entry.OptionID] += entry.Weight
			results.TotalWeight += entry.Weight
		}
	}
	e.state.Results = results
	e.recordOperation(event, wire.OpVote, data.Account)
}

// authorized gates manage/update to the poll author. Rejections are recorded
// in the aggregate's error list for audit - they are not faults, and the
// operation is simply not applied.
func (e *Engine) authorized(event *fmtypes.Event, operation, account string) bool {
	if !e.state.Registered() {
		e.recordError(event, operation, account, "poll is not registered")
		return false
	}
	if account != e.state.Author() {
		e.recordError(event, operation, account, "account is not the poll author")
		return false
	}
	return true
}

func (e *Engine) recordOperation(event *fmtypes.Event, operation, account string) {
	e.state.Operations = append(e.state.Operations, &fmtypes.PollOperation{
		Sequence:  event.Sequence,
		Operation: operation,
		Account:   account,
		Timestamp: event.Timestamp,
	})
}

func (e *Engine) recordError(event *fmtypes.Event, operation, account, reason string) {
	e.state.Errors = append(e.state.Errors, &fmtypes.PollError{
		Sequence:  event.Sequence,
		Operation: operation,
		Account:   account,
		Reason:    reason,
	})
}
