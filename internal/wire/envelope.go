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

// Package wire performs the single validating conversion from raw event
// payload bytes into the tagged operation unions the engines consume.
// After this boundary, engine logic is exhaustively matched and cannot
// observe an invalid shape.
package wire

import (
	"context"
	"encoding/json"

	"github.com/floramesh/floramesh/internal/i18n"
	"github.com/floramesh/floramesh/pkg/fmtypes"
)

// Known protocol tags
const (
	ProtocolDiscovery = "flora"
	ProtocolPoll      = "poll"
	ProtocolRegistry  = "registry"
)

// ChunkInfo is the descriptor carried by chunkable operations when one logical
// message is split across multiple physical events
type ChunkInfo struct {
	UID    uint64 `json:"uid"`
	Index  int    `json:"index"`
	Length int    `json:"length"`
}

// Envelope is the logical shape every topic message carries: a protocol tag,
// an operation tag, and an operation-specific data object. Chunked messages
// carry the chunk descriptor plus the chunk body instead of data.
type Envelope struct {
	Protocol  string           `json:"p"`
	Operation string           `json:"op"`
	Data      fmtypes.Byteable `json:"data,omitempty"`
	Chunk     *ChunkInfo       `json:"chunk,omitempty"`
	Body      string           `json:"m,omitempty"`
}

// Chunked returns true when this envelope is one piece of a split message
func (e *Envelope) Chunked() bool {
	return e.Chunk != nil
}

// Decode parses and validates one event payload into an envelope. Any failure
// is a protocol error - the caller skips the event and carries on replaying.
func Decode(ctx context.Context, event *fmtypes.Event) (*Envelope, error) {
	if err := validateEnvelope(ctx, event.Payload); err != nil {
		return nil, err
	}
	var env Envelope
	if err := json.Unmarshal(event.Payload, &env); err != nil {
		return nil, i18n.WrapError(ctx, err, i18n.MsgMalformedPayload, event.Sequence, err)
	}
	switch env.Protocol {
	case ProtocolDiscovery, ProtocolPoll, ProtocolRegistry:
	default:
		return nil, i18n.NewError(ctx, i18n.MsgUnknownProtocol, env.Protocol)
	}
	return &env, nil
}

func (e *Envelope) decodeData(ctx context.Context, target interface{}) error {
	if err := json.Unmarshal(e.Data, target); err != nil {
		return i18n.NewError(ctx, i18n.MsgOperationDataInvalid, e.Operation, err)
	}
	return nil
}
