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

package wire

import (
	"context"

	"github.com/floramesh/floramesh/internal/i18n"
	"github.com/floramesh/floramesh/pkg/fmtypes"
)

// Poll lifecycle operations
const (
	OpRegister = "register"
	OpManage   = "manage"
	OpUpdate   = "update"
	OpVote     = "vote"
)

// Manage actions over a registered poll
const (
	ActionOpen   = "open"
	ActionPause  = "pause"
	ActionClose  = "close"
	ActionCancel = "cancel"
)

// PollRegisterData carries the (possibly reassembled) poll definition.
// The author field within the metadata is the authorization anchor for
// all later manage/update operations.
type PollRegisterData struct {
	Metadata fmtypes.JSONObject `json:"metadata"`
}

// PollManageData changes the status of a poll, author-only
type PollManageData struct {
	Account string `json:"account"`
	Action  string `json:"action"`
}

// PollUpdateData shallow-merges fields into the poll metadata, author-only
type PollUpdateData struct {
	Account string             `json:"account"`
	Change  fmtypes.JSONObject `json:"change"`
}

// PollVoteData replaces the voting account's ballot in full
type PollVoteData struct {
	Account string              `json:"account"`
	Entries []fmtypes.VoteEntry `json:"entries"`
}

// PollOp is the tagged union over the poll operation set
type PollOp struct {
	Op       string
	Register *PollRegisterData
	Manage   *PollManageData
	Update   *PollUpdateData
	Vote     *PollVoteData
}

// DecodePollOp converts a validated envelope into the poll union
func DecodePollOp(ctx context.Context, env *Envelope) (*PollOp, error) {
	op := &PollOp{Op: env.Operation}
	var err error
	switch env.Operation {
	case OpRegister:
		var d PollRegisterData
		if err = env.decodeData(ctx, &d); err == nil {
			op.Register = &d
		}
	case OpManage:
		var d PollManageData
		if err = env.decodeData(ctx, &d); err == nil {
			switch d.Action {
			case ActionOpen, ActionPause, ActionClose, ActionCancel:
				op.Manage = &d
			default:
				return nil, i18n.NewError(ctx, i18n.MsgOperationDataInvalid, env.Operation, "unknown action '"+d.Action+"'")
			}
		}
	case OpUpdate:
		var d PollUpdateData
		if err = env.decodeData(ctx, &d); err == nil {
			op.Update = &d
		}
	case OpVote:
		var d PollVoteData
		if err = env.decodeData(ctx, &d); err == nil {
			op.Vote = &d
		}
	default:
		return nil, i18n.NewError(ctx, i18n.MsgUnknownOperation, env.Operation, ProtocolPoll)
	}
	if err != nil {
		return nil, err
	}
	return op, nil
}
