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

// Event is a single entry observed on a consensus topic. The sequence number is
// assigned exactly once by the ordering layer, and is the sole ordering key for
// replay - consensus timestamps are carried for information only.
type Event struct {
	Sequence  uint64   `json:"sequence"`
	Timestamp string   `json:"timestamp,omitempty"`
	Payer     string   `json:"payer,omitempty"`
	Payload   Byteable `json:"payload,omitempty"`
}
