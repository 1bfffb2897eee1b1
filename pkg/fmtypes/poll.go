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

// PollStatus is the lifecycle status of a poll aggregate
type PollStatus = FFEnum

var (
	PollStatusInactive  PollStatus = ffEnum("pollstatus", "inactive")
	PollStatusActive    PollStatus = ffEnum("pollstatus", "active")
	PollStatusPaused    PollStatus = ffEnum("pollstatus", "paused")
	PollStatusClosed    PollStatus = ffEnum("pollstatus", "closed")
	PollStatusCancelled PollStatus = ffEnum("pollstatus", "cancelled")
)

// PollResults are recomputed in full from the current vote ledger on every
// vote event, so no incremental drift can accumulate
type PollResults struct {
	OptionWeight map[string]int64 `json:"optionWeight"`
	TotalWeight  int64            `json:"totalWeight"`
}

// VoteEntry is a single option/weight pair within one account's ballot
type VoteEntry struct {
	OptionID string `json:"optionId"`
	Weight   int64  `json:"weight"`
}

// PollOperation is an audit log entry for an applied poll operation
type PollOperation struct {
	Sequence  uint64 `json:"sequence"`
	Operation string `json:"operation"`
	Account   string `json:"account,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// PollError is a recorded rejection - for example a manage attempt by a
// non-author. These are audit entries, not faults.
type PollError struct {
	Sequence  uint64 `json:"sequence"`
	Operation string `json:"operation"`
	Account   string `json:"account,omitempty"`
	Reason    string `json:"reason"`
}

// PollState is the single aggregate reconstructed from one poll's event stream
type PollState struct {
	Metadata   JSONObject             `json:"metadata,omitempty"`
	Status     PollStatus             `json:"status"`
	Results    PollResults            `json:"results"`
	VoteLedger map[string][]VoteEntry `json:"voteLedger"`
	Operations []*PollOperation       `json:"operationLog"`
	Errors     []*PollError           `json:"errors"`
}

// Author is the account authorized for manage/update operations
func (ps *PollState) Author() string {
	if ps.Metadata == nil {
		return ""
	}
	return ps.Metadata.GetString("author")
}

// Registered means the (possibly reassembled) register event has been applied.
// Registration is first-write-wins and immutable thereafter.
func (ps *PollState) Registered() bool {
	return ps.Metadata != nil
}
