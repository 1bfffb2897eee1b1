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

package registry

import (
	"context"
	"sort"

	"github.com/Masterminds/semver/v3"

	"github.com/floramesh/floramesh/internal/log"
	"github.com/floramesh/floramesh/pkg/fmtypes"
)

// ListVersionRegisters returns the surviving, folded version records for a
// skill: register events grouped by their own sequence number, with status
// updates folded in ascending order, excluding any uid tombstoned by a
// qualifying delete.
func (r *Resolver) ListVersionRegisters(ctx context.Context, registryID string, skillUID uint64) ([]*fmtypes.VersionRecord, error) {
	events, err := r.fetchTopic(ctx, registryID)
	if err != nil {
		return nil, err
	}

	records := map[uint64]*fmtypes.VersionRecord{}
	for _, event := range events {
		regOp, ok := r.decodeRegistryEvent(ctx, event)
		if !ok {
			continue
		}
		switch {
		case regOp.Register != nil:
			if regOp.Register.SkillUID != skillUID || regOp.Register.Version == "" {
				continue
			}
			records[event.Sequence] = &fmtypes.VersionRecord{
				Sequence: event.Sequence,
				SkillUID: regOp.Register.SkillUID,
				Version:  regOp.Register.Version,
				Checksum: regOp.Register.Checksum,
				Status:   regOp.Register.Status,
			}
		case regOp.Update != nil:
			// An update overwrites only the status field, and only once the
			// registration it references exists below it in the ordering
			if vr, found := records[regOp.Update.UID]; found && event.Sequence > regOp.Update.UID && regOp.Update.Status != "" {
				vr.Status = regOp.Update.Status
			}
		case regOp.Delete != nil:
			if _, found := records[regOp.Delete.UID]; found && event.Sequence > regOp.Delete.UID {
				delete(records, regOp.Delete.UID)
			}
		}
	}

	list := make([]*fmtypes.VersionRecord, 0, len(records))
	for _, vr := range records {
		list = append(list, vr)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Sequence < list[j].Sequence })
	return list, nil
}

// GetLatestVersionRegister selects the maximum surviving record by semantic
// version precedence among records with status absent or active. Ties on the
// parsed version break to the larger sequence number. Records with an
// unparseable version rank beneath any parseable record, but remain as a
// fallback when nothing is comparable.
func (r *Resolver) GetLatestVersionRegister(ctx context.Context, registryID string, skillUID uint64) (*fmtypes.VersionRecord, error) {
	records, err := r.ListVersionRegisters(ctx, registryID, skillUID)
	if err != nil {
		return nil, err
	}

	var best *fmtypes.VersionRecord
	var bestVersion *semver.Version
	for _, vr := range records {
		if !vr.Selectable() {
			continue
		}
		parsed, parseErr := semver.StrictNewVersion(vr.Version)
		if parseErr != nil {
			log.L(ctx).Debugf("Version '%s' at sequence %d is not semver: %s", vr.Version, vr.Sequence, parseErr)
			if best == nil {
				best = vr // fallback only while nothing comparable exists
			}
			continue
		}
		switch {
		case bestVersion == nil:
			best, bestVersion = vr, parsed
		case parsed.GreaterThan(bestVersion):
			best, bestVersion = vr, parsed
		case parsed.Equal(bestVersion) && vr.Sequence > best.Sequence:
			best, bestVersion = vr, parsed
		}
	}
	return best, nil
}
