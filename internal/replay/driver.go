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

package replay

import (
	"context"

	"github.com/floramesh/floramesh/internal/config"
	"github.com/floramesh/floramesh/internal/discovery"
	"github.com/floramesh/floramesh/internal/i18n"
	"github.com/floramesh/floramesh/internal/polls"
	"github.com/floramesh/floramesh/internal/registry"
	"github.com/floramesh/floramesh/internal/wire"
	"github.com/floramesh/floramesh/pkg/eventstream"
	"github.com/floramesh/floramesh/pkg/fmtypes"
)

// DiscoveryReport is the reconstructed view of one discovery topic
type DiscoveryReport struct {
	State         fmtypes.PetalState      `json:"state"`
	Announcements []*fmtypes.Announcement `json:"announcements"`
	Proposals     []*fmtypes.Proposal     `json:"proposals"`
	Formations    []*fmtypes.Formation    `json:"formations"`
}

// RegistryReport is the reconstructed view of one registry topic
type RegistryReport struct {
	Versions []*fmtypes.VersionRecord `json:"versions"`
	Latest   *fmtypes.VersionRecord   `json:"latest,omitempty"`
}

// Run replays one captured topic through the engine for its protocol and
// returns the reconstructed state. Only a fetch path is needed, so the
// coordinator runs without an emitter or formation service.
func Run(ctx context.Context, capturePath, topicID, protocol string, skillUID uint64) (interface{}, error) {
	source, err := NewFileEventSource(ctx, capturePath)
	if err != nil {
		return nil, err
	}

	switch protocol {
	case wire.ProtocolDiscovery:
		coordinator := discovery.NewCoordinator(ctx, discovery.Identity{
			Account:   config.GetString(config.DiscoveryAccount),
			PetalName: config.GetString(config.DiscoveryPetalName),
			Priority:  config.GetInt(config.DiscoveryPriority),
			Protocols: config.GetStringSlice(config.DiscoveryProtocols),
		}, topicID, source, nil, nil)
		if err := coordinator.Sync(ctx); err != nil {
			return nil, err
		}
		return &DiscoveryReport{
			State:         coordinator.State(),
			Announcements: coordinator.ListAnnouncements(),
			Proposals:     coordinator.ListProposals(),
			Formations:    coordinator.ListFormations(),
		}, nil

	case wire.ProtocolPoll:
		engine := polls.NewEngine(ctx)
		batchLimit := config.GetInt(config.EventBatchLimit)
		var cursor uint64
		for {
			batch, err := source.Fetch(ctx, topicID, eventstream.FetchOptions{
				AfterSequence: cursor,
				Limit:         batchLimit,
				Order:         eventstream.FetchOrderAsc,
			})
			if err != nil {
				return nil, err
			}
			if err := engine.Replay(ctx, batch); err != nil {
				return nil, err
			}
			if len(batch) < batchLimit || len(batch) == 0 {
				return engine.State(), nil
			}
			cursor = batch[len(batch)-1].Sequence
		}

	case wire.ProtocolRegistry:
		resolver := registry.NewResolver(ctx, source)
		versions, err := resolver.ListVersionRegisters(ctx, topicID, skillUID)
		if err != nil {
			return nil, err
		}
		latest, err := resolver.GetLatestVersionRegister(ctx, topicID, skillUID)
		if err != nil {
			return nil, err
		}
		return &RegistryReport{Versions: versions, Latest: latest}, nil

	default:
		return nil, i18n.NewError(ctx, i18n.MsgUnknownProtocol, protocol)
	}
}
