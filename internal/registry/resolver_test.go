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
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/floramesh/floramesh/internal/config"
	"github.com/floramesh/floramesh/mocks/eventstreammocks"
	"github.com/floramesh/floramesh/pkg/fmtypes"
)

func newTestResolver(t *testing.T, events []*fmtypes.Event) (*Resolver, *eventstreammocks.EventSource) {
	config.Reset()
	mes := &eventstreammocks.EventSource{}
	mes.On("Fetch", mock.Anything, mock.Anything, mock.Anything).Return(events, nil)
	return NewResolver(context.Background(), mes), mes
}

func regEvent(seq uint64, op, data string) *fmtypes.Event {
	return &fmtypes.Event{
		Sequence: seq,
		Payer:    "0.0.1001",
		Payload:  fmtypes.Byteable(fmt.Sprintf(`{"p":"registry","op":"%s","data":%s}`, op, data)),
	}
}

func TestResolveRecordIgnoresPreRegisterThenMerges(t *testing.T) {
	r, _ := newTestResolver(t, []*fmtypes.Event{
		regEvent(90, "delete", `{"uid":100}`),
		regEvent(95, "update", `{"uid":100,"metadata":{"description":"early"}}`),
		regEvent(100, "register", `{"ownerAccount":"0.0.1001","metadata":{"name":"rec","description":"orig"}}`),
		regEvent(120, "update", `{"uid":100,"metadata":{"description":"X"}}`),
	})

	record, err := r.ResolveRecord(context.Background(), "0.0.700", 100)
	assert.NoError(t, err)
	assert.NotNil(t, record)
	assert.Equal(t, "X", record.Metadata.GetString("description"))
	assert.Equal(t, "rec", record.Metadata.GetString("name"))
	assert.Equal(t, "0.0.1001", record.OwnerAccount)
}

func TestResolveRecordDeleteIsTerminal(t *testing.T) {
	r, _ := newTestResolver(t, []*fmtypes.Event{
		regEvent(100, "register", `{"ownerAccount":"0.0.1001","metadata":{"name":"rec"}}`),
		regEvent(130, "delete", `{"uid":100}`),
		regEvent(140, "update", `{"uid":100,"metadata":{"name":"revived"}}`),
	})

	record, err := r.ResolveRecord(context.Background(), "0.0.700", 100)
	assert.NoError(t, err)
	assert.Nil(t, record)
}

func TestResolveRecordNotFound(t *testing.T) {
	r, _ := newTestResolver(t, []*fmtypes.Event{
		regEvent(50, "register", `{"ownerAccount":"0.0.1001"}`),
	})

	record, err := r.ResolveRecord(context.Background(), "0.0.700", 100)
	assert.NoError(t, err)
	assert.Nil(t, record)
}

func TestResolveRecordLaterUpdatesOverrideEarlier(t *testing.T) {
	r, _ := newTestResolver(t, []*fmtypes.Event{
		regEvent(100, "register", `{"ownerAccount":"0.0.1001","metadata":{"a":"1","b":"1"}}`),
		regEvent(110, "update", `{"uid":100,"metadata":{"a":"2"}}`),
		regEvent(120, "update", `{"uid":100,"ownerAccount":"0.0.2002","metadata":{"a":"3"}}`),
	})

	record, err := r.ResolveRecord(context.Background(), "0.0.700", 100)
	assert.NoError(t, err)
	assert.Equal(t, "3", record.Metadata.GetString("a"))
	assert.Equal(t, "1", record.Metadata.GetString("b"))
	assert.Equal(t, "0.0.2002", record.OwnerAccount)
}

func TestResolveRecordSkipsBadEvents(t *testing.T) {
	r, _ := newTestResolver(t, []*fmtypes.Event{
		{Sequence: 99, Payload: fmtypes.Byteable(`not json at all`)},
		regEvent(100, "register", `{"ownerAccount":"0.0.1001"}`),
		{Sequence: 110, Payload: fmtypes.Byteable(`{"p":"poll","op":"vote","data":{}}`)},
		regEvent(120, "update", `{"uid":100,"metadata":{"ok":true}}`),
	})

	record, err := r.ResolveRecord(context.Background(), "0.0.700", 100)
	assert.NoError(t, err)
	assert.True(t, record.Metadata.GetBool("ok"))
}

func TestResolveRecordCached(t *testing.T) {
	config.Reset()
	mes := &eventstreammocks.EventSource{}
	mes.On("Fetch", mock.Anything, mock.Anything, mock.Anything).Return([]*fmtypes.Event{
		regEvent(100, "register", `{"ownerAccount":"0.0.1001"}`),
	}, nil).Once()
	r := NewResolver(context.Background(), mes)

	record1, err := r.ResolveRecord(context.Background(), "0.0.700", 100)
	assert.NoError(t, err)
	record2, err := r.ResolveRecord(context.Background(), "0.0.700", 100)
	assert.NoError(t, err)
	assert.Same(t, record1, record2)
	mes.AssertExpectations(t)
}

func TestResolveRecordFetchError(t *testing.T) {
	config.Reset()
	mes := &eventstreammocks.EventSource{}
	mes.On("Fetch", mock.Anything, mock.Anything, mock.Anything).Return(nil, fmt.Errorf("pop"))
	r := NewResolver(context.Background(), mes)

	_, err := r.ResolveRecord(context.Background(), "0.0.700", 100)
	assert.Regexp(t, "FM10142", err)
}

func TestFetchTopicPages(t *testing.T) {
	config.Reset()
	config.Set(config.EventBatchLimit, 2)
	mes := &eventstreammocks.EventSource{}
	page1 := []*fmtypes.Event{
		regEvent(1, "register", `{"ownerAccount":"0.0.1001"}`),
		regEvent(2, "update", `{"uid":1,"metadata":{"page":"1"}}`),
	}
	page2 := []*fmtypes.Event{
		regEvent(3, "update", `{"uid":1,"metadata":{"page":"2"}}`),
	}
	mes.On("Fetch", mock.Anything, "0.0.700", mock.Anything).Return(page1, nil).Once()
	mes.On("Fetch", mock.Anything, "0.0.700", mock.Anything).Return(page2, nil).Once()
	r := NewResolver(context.Background(), mes)

	record, err := r.ResolveRecord(context.Background(), "0.0.700", 1)
	assert.NoError(t, err)
	assert.Equal(t, "2", record.Metadata.GetString("page"))
	mes.AssertExpectations(t)
}
