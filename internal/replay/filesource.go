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

// Package replay provides a file-backed event source for offline replay of
// captured topic logs, and the driver the CLI uses to reconstruct state from
// such a capture.
package replay

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"sort"

	"github.com/floramesh/floramesh/internal/i18n"
	"github.com/floramesh/floramesh/internal/log"
	"github.com/floramesh/floramesh/pkg/eventstream"
	"github.com/floramesh/floramesh/pkg/fmtypes"
)

// Capture is the on-disk shape of a recorded set of topic logs
type Capture struct {
	Topics map[string][]*fmtypes.Event `json:"topics"`
}

// FileEventSource serves captured events from a JSON file through the same
// seam a live mirror client would. Each topic's log must be strictly
// ascending in sequence - the capture stands in for the ordering layer, so a
// violation here is a broken capture, not a tolerable input.
type FileEventSource struct {
	topics map[string][]*fmtypes.Event
}

func NewFileEventSource(ctx context.Context, path string) (*FileEventSource, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, i18n.WrapError(ctx, err, i18n.MsgEventFileReadFailed, path)
	}
	var capture Capture
	if err := json.Unmarshal(data, &capture); err != nil {
		return nil, i18n.WrapError(ctx, err, i18n.MsgEventFileReadFailed, path)
	}
	for topicID, events := range capture.Topics {
		var last uint64
		for i, event := range events {
			if i > 0 && event.Sequence <= last {
				return nil, i18n.NewError(ctx, i18n.MsgEventsOutOfOrder, event.Sequence, last, topicID)
			}
			last = event.Sequence
		}
	}
	log.L(ctx).Infof("Loaded capture '%s' with %d topics", path, len(capture.Topics))
	return &FileEventSource{topics: capture.Topics}, nil
}

// Topics lists the topic IDs present in the capture, sorted
func (f *FileEventSource) Topics() []string {
	ids := make([]string, 0, len(f.topics))
	for id := range f.topics {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Fetch serves one page of the captured log, honoring the cursor, limit and
// order contract of the live source
func (f *FileEventSource) Fetch(ctx context.Context, topicID string, opts eventstream.FetchOptions) ([]*fmtypes.Event, error) {
	events := f.topics[topicID]
	matched := make([]*fmtypes.Event, 0, len(events))
	for _, event := range events {
		if event.Sequence > opts.AfterSequence {
			matched = append(matched, event)
		}
	}
	if opts.Order == eventstream.FetchOrderDesc {
		for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
			matched[i], matched[j] = matched[j], matched[i]
		}
	}
	if opts.Limit > 0 && len(matched) > opts.Limit {
		matched = matched[:opts.Limit]
	}
	return matched, nil
}
