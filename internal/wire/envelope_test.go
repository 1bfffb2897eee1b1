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

package wire

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/floramesh/floramesh/pkg/fmtypes"
)

func testEvent(seq uint64, payload string) *fmtypes.Event {
	return &fmtypes.Event{
		Sequence:  seq,
		Timestamp: "1693526400.000000001",
		Payer:     "0.0.1001",
		Payload:   fmtypes.Byteable(payload),
	}
}

func TestDecodeSimpleEnvelope(t *testing.T) {
	env, err := Decode(context.Background(), testEvent(1, `{"p":"flora","op":"announce","data":{"account":"0.0.1001"}}`))
	assert.NoError(t, err)
	assert.Equal(t, ProtocolDiscovery, env.Protocol)
	assert.Equal(t, OpAnnounce, env.Operation)
	assert.False(t, env.Chunked())
}

func TestDecodeChunkedEnvelope(t *testing.T) {
	env, err := Decode(context.Background(), testEvent(2, `{"p":"poll","op":"register","chunk":{"uid":7,"index":1,"length":3},"m":"tadata chunk"}`))
	assert.NoError(t, err)
	assert.True(t, env.Chunked())
	assert.Equal(t, uint64(7), env.Chunk.UID)
	assert.Equal(t, 1, env.Chunk.Index)
	assert.Equal(t, 3, env.Chunk.Length)
	assert.Equal(t, "tadata chunk", env.Body)
}

func TestDecodeNotJSON(t *testing.T) {
	_, err := Decode(context.Background(), testEvent(3, `!json`))
	assert.Regexp(t, "FM10114", err)
}

func TestDecodeMissingOperation(t *testing.T) {
	_, err := Decode(context.Background(), testEvent(4, `{"p":"flora"}`))
	assert.Regexp(t, "FM10114", err)
}

func TestDecodeBadChunkDescriptor(t *testing.T) {
	_, err := Decode(context.Background(), testEvent(5, `{"p":"poll","op":"register","chunk":{"uid":7,"index":0}}`))
	assert.Regexp(t, "FM10114", err)
}

func TestDecodeUnknownProtocol(t *testing.T) {
	_, err := Decode(context.Background(), testEvent(6, `{"p":"telepathy","op":"announce"}`))
	assert.Regexp(t, "FM10111", err)
}
