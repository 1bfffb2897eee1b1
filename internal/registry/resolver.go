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

// Package registry computes the resolved, conflict-free view of registry
// entries from the ordered backlog of register/update/delete events.
package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/karlseguin/ccache"

	"github.com/floramesh/floramesh/internal/config"
	"github.com/floramesh/floramesh/internal/i18n"
	"github.com/floramesh/floramesh/internal/log"
	"github.com/floramesh/floramesh/internal/wire"
	"github.com/floramesh/floramesh/pkg/eventstream"
	"github.com/floramesh/floramesh/pkg/fmtypes"
)

// Resolver is a pure function of its input event slice - it owns no state
// beyond a bounded cache of previously resolved records
type Resolver struct {
	events     eventstream.EventSource
	batchLimit int
	cacheTTL   time.Duration
	cache      *ccache.Cache
}

func NewResolver(ctx context.Context, events eventstream.EventSource) *Resolver {
	return &Resolver{
		events:     events,
		batchLimit: config.GetInt(config.EventBatchLimit),
		cacheTTL:   time.Duration(config.GetInt(config.RegistryCacheTTLSeconds)) * time.Second,
		cache:      ccache.New(ccache.Configure().MaxSize(int64(config.GetInt(config.RegistryCacheSize)))),
	}
}

// ResolveRecord computes the record "as of now". Absence is a value: a nil
// record means either no register event carries this uid, or a qualifying
// delete tombstoned it - deletion is terminal the moment the forward scan
// encounters it.
func (r *Resolver) ResolveRecord(ctx context.Context, directoryID string, uid uint64) (*fmtypes.RegistryRecord, error) {
	record, err := r.resolve(ctx, directoryID, uid)
	if err != nil || record == nil || record.Tombstoned {
		return nil, err
	}
	return record, nil
}

func (r *Resolver) resolve(ctx context.Context, directoryID string, uid uint64) (*fmtypes.RegistryRecord, error) {
	cacheKey := fmt.Sprintf("%s/%d", directoryID, uid)
	if cached := r.cache.Get(cacheKey); cached != nil {
		cached.Extend(r.cacheTTL)
		return cached.Value().(*fmtypes.RegistryRecord), nil
	}

	events, err := r.fetchTopic(ctx, directoryID)
	if err != nil {
		return nil, err
	}

	var record *fmtypes.RegistryRecord
	for _, event := range events {
		regOp, ok := r.decodeRegistryEvent(ctx, event)
		if !ok {
			continue
		}

		if record == nil {
			// Still looking for the register that IS this uid. Anything with a
			// sequence number at or below the register's predates the
			// registration and cannot logically apply to it.
			if event.Sequence == uid && regOp.Register != nil {
				record = &fmtypes.RegistryRecord{
					UID:          uid,
					OwnerAccount: regOp.Register.OwnerAccount,
					Metadata:     regOp.Register.Metadata.DeepCopy(),
				}
			}
			continue
		}

		switch {
		case regOp.Delete != nil && regOp.Delete.UID == uid && event.Sequence > uid:
			// Terminal signal - later updates are not considered
			record.Tombstoned = true
			r.cache.Set(cacheKey, record, r.cacheTTL)
			return record, nil
		case regOp.Update != nil && regOp.Update.UID == uid && event.Sequence > uid:
			mergeRecord(record, regOp.Update)
		}
	}

	if record == nil {
		log.L(ctx).Debugf("No register with uid %d on directory '%s'", uid, directoryID)
		return nil, nil
	}
	r.cache.Set(cacheKey, record, r.cacheTTL)
	return record, nil
}

// mergeRecord shallow-merges an update into the running record. Later updates
// override the same field from earlier ones; fields absent from the update
// are left untouched.
func mergeRecord(record *fmtypes.RegistryRecord, update *wire.RegUpdateData) {
	if update.OwnerAccount != "" {
		record.OwnerAccount = update.OwnerAccount
	}
	if len(update.Metadata) > 0 {
		if record.Metadata == nil {
			record.Metadata = fmtypes.JSONObject{}
		}
		for k, v := range update.Metadata {
			record.Metadata[k] = v
		}
	}
}

// decodeRegistryEvent decodes one event, skipping anything that is not a
// well-formed registry message. A single bad event never aborts resolution.
func (r *Resolver) decodeRegistryEvent(ctx context.Context, event *fmtypes.Event) (*wire.RegistryOp, bool) {
	env, err := wire.Decode(ctx, event)
	if err != nil {
		log.L(ctx).Warnf("Skipping event %d: %s", event.Sequence, err)
		return nil, false
	}
	if env.Protocol != wire.ProtocolRegistry {
		return nil, false
	}
	regOp, err := wire.DecodeRegistryOp(ctx, env)
	if err != nil {
		log.L(ctx).Warnf("Skipping event %d: %s", event.Sequence, err)
		return nil, false
	}
	return regOp, true
}

// fetchTopic pages through the whole backlog of a topic in ascending sequence
// order. Ordering within each batch is the EventSource's contract.
func (r *Resolver) fetchTopic(ctx context.Context, topicID string) ([]*fmtypes.Event, error) {
	var all []*fmtypes.Event
	var cursor uint64
	for {
		batch, err := r.events.Fetch(ctx, topicID, eventstream.FetchOptions{
			AfterSequence: cursor,
			Limit:         r.batchLimit,
			Order:         eventstream.FetchOrderAsc,
		})
		if err != nil {
			return nil, i18n.WrapError(ctx, err, i18n.MsgFetchFailed, topicID)
		}
		all = append(all, batch...)
		if len(batch) < r.batchLimit || len(batch) == 0 {
			return all, nil
		}
		cursor = batch[len(batch)-1].Sequence
	}
}
