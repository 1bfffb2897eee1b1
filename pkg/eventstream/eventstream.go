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

// Package eventstream defines the interfaces of the external collaborators
// the replay engines depend on. The ledger itself - persistence, broadcast
// and agreement on ordering - lives behind these interfaces.
package eventstream

import (
	"context"

	"github.com/floramesh/floramesh/pkg/fmtypes"
)

// FetchOrder is the retrieval direction for a fetch
type FetchOrder string

const (
	// FetchOrderAsc returns events in ascending sequence order (state replay)
	FetchOrderAsc FetchOrder = "asc"
	// FetchOrderDesc returns events most-recent-first
	FetchOrderDesc FetchOrder = "desc"
)

// FetchOptions bound one fetch of a topic's events
type FetchOptions struct {
	// AfterSequence restricts the fetch to events with a strictly greater sequence number
	AfterSequence uint64
	// Limit caps the number of events returned (0 means implementation default)
	Limit int
	// Order is the retrieval direction
	Order FetchOrder
}

// EventSource supplies the ordered events of a consensus topic. Repeated calls
// with an increasing AfterSequence cursor must observe no gaps and no duplicate
// delivery within one response.
type EventSource interface {
	Fetch(ctx context.Context, topicID string, opts FetchOptions) ([]*fmtypes.Event, error)
}

// MessageEmitter publishes a message payload onto a topic. The ordering layer
// assigns and returns the sequence number.
type MessageEmitter interface {
	Publish(ctx context.Context, topicID string, payload []byte) (uint64, error)
}

// FormationResult is the outcome of a successful external resource creation
type FormationResult struct {
	ResourceAccountID string
	SubResources      fmtypes.SubResources
}

// FormationService performs the external, possibly slow, creation of the
// multi-party resource for a ready proposal. Failures must propagate as
// errors, not be swallowed.
type FormationService interface {
	Create(ctx context.Context, members []string, signingThreshold int, displayName string) (*FormationResult, error)
}
