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

// VersionStatus qualifies a version register in a skill registry
type VersionStatus = FFEnum

var (
	VersionStatusActive     VersionStatus = ffEnum("versionstatus", "active")
	VersionStatusDeprecated VersionStatus = ffEnum("versionstatus", "deprecated")
	VersionStatusYanked     VersionStatus = ffEnum("versionstatus", "yanked")
)

// RegistryRecord is the resolved view of a directory registration. The UID is
// the sequence number of the register event itself, and is the correlation key
// for subsequent update/delete events. Records are tombstoned, never purged.
type RegistryRecord struct {
	UID          uint64     `json:"uid"`
	OwnerAccount string     `json:"ownerAccount,omitempty"`
	Metadata     JSONObject `json:"metadata,omitempty"`
	Tombstoned   bool       `json:"tombstoned,omitempty"`
}

// VersionRecord is one competing version registration for a skill
type VersionRecord struct {
	Sequence uint64        `json:"sequence"`
	SkillUID uint64        `json:"skillUid"`
	Version  string        `json:"version"`
	Checksum string        `json:"checksum,omitempty"`
	Status   VersionStatus `json:"status,omitempty"`
}

// Selectable means the record competes for "latest" - status absent or active
func (vr *VersionRecord) Selectable() bool {
	return vr.Status == "" || vr.Status.Equals(VersionStatusActive)
}
