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

package fmtypes

// PetalState is the lifecycle state of the local participant in discovery coordination
type PetalState = FFEnum

var (
	// PetalStateIdle means no announcement has been made yet
	PetalStateIdle PetalState = ffEnum("petalstate", "idle")
	// PetalStateAnnounced means an availability announcement is live on the topic
	PetalStateAnnounced PetalState = ffEnum("petalstate", "announced")
	// PetalStateProposing means this petal has proposed a formation and is awaiting responses
	PetalStateProposing PetalState = ffEnum("petalstate", "proposing")
	// PetalStateForming means this petal has accepted a proposal, or its own proposal is ready
	PetalStateForming PetalState = ffEnum("petalstate", "forming")
	// PetalStateActive means a formation including this petal has completed
	PetalStateActive PetalState = ffEnum("petalstate", "active")
	// PetalStateWithdrawn means this petal withdrew its announcement
	PetalStateWithdrawn PetalState = ffEnum("petalstate", "withdrawn")
)

// Decision is a response to a formation proposal
type Decision = FFEnum

var (
	DecisionAccept  Decision = ffEnum("decision", "accept")
	DecisionDecline Decision = ffEnum("decision", "decline")
)

// Announcement tracks one availability broadcast, keyed by the sequence number
// of the announcing event. It lives until withdrawn - validFor is advisory
// metadata and is not enforced locally.
type Announcement struct {
	Sequence  uint64     `json:"sequence"`
	Account   string     `json:"account"`
	PetalName string     `json:"petalName"`
	Priority  int        `json:"priority"`
	Protocols []string   `json:"protocols,omitempty"`
	Resources JSONObject `json:"resources,omitempty"`
	ValidFor  int64      `json:"validFor,omitempty"`
	Observed  *FFTime    `json:"observed,omitempty"`
}

// HasProtocol checks membership of the announcement's protocol set
func (a *Announcement) HasProtocol(protocol string) bool {
	for _, p := range a.Protocols {
		if p == protocol {
			return true
		}
	}
	return false
}

// ProposalMember is one account named in a formation proposal, with the
// announcement details the proposer captured at propose time
type ProposalMember struct {
	Account     string `json:"account"`
	AnnounceSeq uint64 `json:"announceSeq,omitempty"`
	Priority    int    `json:"priority,omitempty"`
	Status      string `json:"status,omitempty"`
}

// ProposalConfig is the configuration of the shared resource to be formed.
// SigningThreshold only configures the multisig scheme of the formed resource,
// it plays no part in acceptance counting.
type ProposalConfig struct {
	Name             string `json:"name"`
	SigningThreshold int    `json:"signingThreshold"`
	Purpose          string `json:"purpose,omitempty"`
}

// Proposal tracks one formation proposal and the responses to it, keyed by
// the sequence number of the proposing event
type Proposal struct {
	Sequence  uint64              `json:"sequence"`
	Proposer  string              `json:"proposer"`
	Members   []*ProposalMember   `json:"members"`
	Config    ProposalConfig      `json:"config"`
	Responses map[string]Decision `json:"responses"`
}

// AcceptanceCount is the number of distinct responders that accepted.
// A responder that answered more than once is counted by its latest decision only.
func (p *Proposal) AcceptanceCount() int {
	accepts := 0
	for _, d := range p.Responses {
		if d.Equals(DecisionAccept) {
			accepts++
		}
	}
	return accepts
}

// Ready means every member apart from the proposer has explicitly accepted.
// The proposer's acceptance is implicit in having proposed.
func (p *Proposal) Ready() bool {
	return p.AcceptanceCount() >= len(p.Members)-1
}

// SubResources are the per-concern topics of a formed resource
type SubResources struct {
	Communication string `json:"communication,omitempty"`
	Transaction   string `json:"transaction,omitempty"`
	State         string `json:"state,omitempty"`
}

// Formation is created exactly once per proposal, when the acceptance quorum
// is met and the proposer's external creation call succeeds. Immutable once recorded.
type Formation struct {
	ProposalSeq       uint64            `json:"proposalSeq"`
	ResourceAccountID string            `json:"resourceAccountId"`
	SubResources      SubResources      `json:"subResources"`
	Members           []*ProposalMember `json:"members"`
	SigningThreshold  int               `json:"signingThreshold"`
	CreatedAt         *FFTime           `json:"createdAt,omitempty"`
}

// HasMember checks whether the given account is part of the formation
func (f *Formation) HasMember(account string) bool {
	for _, m := range f.Members {
		if m.Account == account {
			return true
		}
	}
	return false
}
