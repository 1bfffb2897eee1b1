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

// Discovery coordination operations
const (
	OpAnnounce = "announce"
	OpPropose  = "propose"
	OpRespond  = "respond"
	OpComplete = "complete"
	OpWithdraw = "withdraw"
)

// AnnounceData broadcasts a petal's availability for formation
type AnnounceData struct {
	Account   string             `json:"account"`
	PetalName string             `json:"petalName"`
	Priority  int                `json:"priority"`
	Protocols []string           `json:"protocols,omitempty"`
	Resources fmtypes.JSONObject `json:"resources,omitempty"`
	ValidFor  int64              `json:"validFor,omitempty"`
}

// ProposeData proposes a grouping of announced petals
type ProposeData struct {
	Proposer string                    `json:"proposer"`
	Members  []*fmtypes.ProposalMember `json:"members"`
	Config   fmtypes.ProposalConfig    `json:"config"`
}

// RespondData is a member's decision on a proposal it has observed
type RespondData struct {
	ProposalSeq uint64           `json:"proposalSeq"`
	Responder   string           `json:"responder"`
	Decision    fmtypes.Decision `json:"decision"`
	Reason      string           `json:"reason,omitempty"`
}

// CompleteData records the successful formation of the shared resource
type CompleteData struct {
	ProposalSeq       uint64               `json:"proposalSeq"`
	ResourceAccountID string               `json:"resourceAccountId"`
	SubResources      fmtypes.SubResources `json:"subResources"`
}

// WithdrawData removes a previously made announcement
type WithdrawData struct {
	AnnounceSeq uint64 `json:"announceSeq"`
	Account     string `json:"account"`
	Reason      string `json:"reason,omitempty"`
}

// DiscoveryOp is the tagged union over the discovery operation set.
// Exactly one of the payload pointers is set, matching Op.
type DiscoveryOp struct {
	Op       string
	Announce *AnnounceData
	Propose  *ProposeData
	Respond  *RespondData
	Complete *CompleteData
	Withdraw *WithdrawData
}

// DecodeDiscoveryOp converts a validated envelope into the discovery union
func DecodeDiscoveryOp(ctx context.Context, env *Envelope) (*DiscoveryOp, error) {
	op := &DiscoveryOp{Op: env.Operation}
	var err error
	switch env.Operation {
	case OpAnnounce:
		var d AnnounceData
		if err = env.decodeData(ctx, &d); err == nil {
			if d.Priority < 0 || d.Priority > 1000 {
				return nil, i18n.NewError(ctx, i18n.MsgInvalidPriority, d.Priority)
			}
			op.Announce = &d
		}
	case OpPropose:
		var d ProposeData
		if err = env.decodeData(ctx, &d); err == nil {
			if len(d.Members) == 0 {
				return nil, i18n.NewError(ctx, i18n.MsgProposalNeedsMembers)
			}
			op.Propose = &d
		}
	case OpRespond:
		var d RespondData
		if err = env.decodeData(ctx, &d); err == nil {
			op.Respond = &d
		}
	case OpComplete:
		var d CompleteData
		if err = env.decodeData(ctx, &d); err == nil {
			op.Complete = &d
		}
	case OpWithdraw:
		var d WithdrawData
		if err = env.decodeData(ctx, &d); err == nil {
			op.Withdraw = &d
		}
	default:
		return nil, i18n.NewError(ctx, i18n.MsgUnknownOperation, env.Operation, ProtocolDiscovery)
	}
	if err != nil {
		return nil, err
	}
	return op, nil
}
