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

// Package assembly reconstructs logical messages that were split across
// multiple physical topic events, before they are handed to a state machine.
package assembly

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/floramesh/floramesh/internal/i18n"
	"github.com/floramesh/floramesh/internal/log"
	"github.com/floramesh/floramesh/internal/wire"
	"github.com/floramesh/floramesh/pkg/fmtypes"
)

// assemblyContext collects the chunks of one uid. All chunks of a uid must
// declare the same operation and length; indices within the uid may arrive
// in any order, and a resent index overwrites (last write wins).
type assemblyContext struct {
	uid         uint64
	protocol    string
	operation   string
	length      int
	chunks      []string
	filled      []bool
	remaining   int
	firstSeenAt *fmtypes.FFTime
	lastSeenAt  *fmtypes.FFTime
}

// Assembler reassembles chunked messages for a single topic. It is owned by
// one replay loop and is not safe for concurrent use.
type Assembler struct {
	contexts      map[uint64]*assemblyContext
	lastCompleted uint64
	anyCompleted  bool
}

func NewAssembler() *Assembler {
	return &Assembler{
		contexts: map[uint64]*assemblyContext{},
	}
}

// Ingest accepts one envelope. Unchunked envelopes pass straight through.
// For chunked envelopes it returns nil until the final piece arrives, then the
// reassembled envelope with the full operation data. Sequencing violations
// fail the specific assembly context and are returned as errors - they
// indicate a producer bug, not a recoverable condition.
func (a *Assembler) Ingest(ctx context.Context, env *wire.Envelope, timestamp string) (*wire.Envelope, error) {
	if !env.Chunked() {
		return env, nil
	}
	chunk := env.Chunk

	if a.anyCompleted && chunk.UID < a.lastCompleted {
		return nil, i18n.NewError(ctx, i18n.MsgChunkUIDNonMonotonic, chunk.UID, a.lastCompleted)
	}

	ac := a.contexts[chunk.UID]
	if ac == nil {
		if chunk.Length < 1 {
			return nil, i18n.NewError(ctx, i18n.MsgChunkLengthInvalid, chunk.UID, chunk.Length)
		}
		ac = &assemblyContext{
			uid:         chunk.UID,
			protocol:    env.Protocol,
			operation:   env.Operation,
			length:      chunk.Length,
			chunks:      make([]string, chunk.Length),
			filled:      make([]bool, chunk.Length),
			remaining:   chunk.Length,
			firstSeenAt: parseOrNow(ctx, timestamp),
		}
		a.contexts[chunk.UID] = ac
	}

	if env.Operation != ac.operation || env.Protocol != ac.protocol {
		return nil, i18n.NewError(ctx, i18n.MsgChunkOperationMismatch, chunk.UID, env.Operation, ac.operation)
	}
	if chunk.Length != ac.length {
		return nil, i18n.NewError(ctx, i18n.MsgChunkLengthMismatch, chunk.UID, chunk.Length, ac.length)
	}
	if chunk.Index >= ac.length {
		return nil, i18n.NewError(ctx, i18n.MsgChunkIndexOutOfRange, chunk.Index, chunk.UID, ac.length)
	}

	if !ac.filled[chunk.Index] {
		ac.remaining--
	} else {
		log.L(ctx).Debugf("Chunk %d of uid %d resent - overwriting", chunk.Index, chunk.UID)
	}
	ac.chunks[chunk.Index] = env.Body
	ac.filled[chunk.Index] = true
	ac.lastSeenAt = parseOrNow(ctx, timestamp)

	if ac.remaining > 0 {
		return nil, nil
	}
	return a.complete(ctx, ac)
}

// complete concatenates the chunk payloads in index order, parses the result
// as the operation's full data object, and consumes the context. A uid is
// consumed exactly once.
func (a *Assembler) complete(ctx context.Context, ac *assemblyContext) (*wire.Envelope, error) {
	delete(a.contexts, ac.uid)
	if !a.anyCompleted || ac.uid > a.lastCompleted {
		a.lastCompleted = ac.uid
	}
	a.anyCompleted = true

	joined := strings.Join(ac.chunks, "")
	var data fmtypes.Byteable
	if err := json.Unmarshal([]byte(joined), &data); err != nil {
		return nil, i18n.NewError(ctx, i18n.MsgChunkPayloadInvalid, ac.uid, err)
	}
	log.L(ctx).Debugf("Assembled %d chunks for uid %d op '%s'", ac.length, ac.uid, ac.operation)
	return &wire.Envelope{
		Protocol:  ac.protocol,
		Operation: ac.operation,
		Data:      data,
	}, nil
}

// Pending returns the number of incomplete assembly contexts
func (a *Assembler) Pending() int {
	return len(a.contexts)
}

func parseOrNow(ctx context.Context, timestamp string) *fmtypes.FFTime {
	if timestamp != "" {
		if t, err := fmtypes.ParseTimeString(timestamp); err == nil {
			return t
		}
		log.L(ctx).Debugf("Unparseable consensus timestamp '%s'", timestamp)
	}
	return fmtypes.Now()
}
