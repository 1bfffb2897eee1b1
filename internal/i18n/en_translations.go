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

package i18n

var (
	MsgConfigFailed           = ffm("FM10101", "Failed to read config: %s")
	MsgContextCanceled        = ffm("FM10102", "Context cancelled")
	MsgTimeParseFail          = ffm("FM10103", "Cannot parse time as RFC3339 or unix timestamp: '%s'")
	MsgInvalidUUID            = ffm("FM10104", "Invalid UUID supplied")
	MsgMalformedPayload       = ffm("FM10110", "Event %d does not carry a valid topic message: %s")
	MsgUnknownProtocol        = ffm("FM10111", "Unknown protocol tag '%s'")
	MsgUnknownOperation       = ffm("FM10112", "Unknown operation '%s' for protocol '%s'")
	MsgSchemaLoadFailed       = ffm("FM10113", "Failed to initialize message envelope schema")
	MsgEnvelopeInvalid        = ffm("FM10114", "Message envelope failed validation: %s")
	MsgOperationDataInvalid   = ffm("FM10115", "Invalid '%s' operation data: %s")
	MsgChunkUIDNonMonotonic   = ffm("FM10120", "Chunk sequence uid %d is lower than already completed uid %d")
	MsgChunkOperationMismatch = ffm("FM10121", "Chunk for uid %d declares operation '%s', but the sequence was started with '%s'")
	MsgChunkLengthMismatch    = ffm("FM10122", "Chunk for uid %d declares length %d, but the sequence was started with length %d")
	MsgChunkIndexOutOfRange   = ffm("FM10123", "Chunk index %d out of range for uid %d with declared length %d")
	MsgChunkLengthInvalid     = ffm("FM10124", "Chunk sequence uid %d declares invalid length %d")
	MsgChunkPayloadInvalid    = ffm("FM10125", "Reassembled payload for uid %d could not be parsed: %s")
	MsgProposalNotFound       = ffm("FM10130", "Proposal with sequence %d has not been observed on the topic")
	MsgNoOwnAnnouncement      = ffm("FM10131", "No announcement has been made by this petal")
	MsgFormationFailed        = ffm("FM10132", "Formation of shared resource for proposal %d failed")
	MsgPublishFailed          = ffm("FM10133", "Failed to publish '%s' message to topic '%s'")
	MsgFormationInProgress    = ffm("FM10134", "Formation for proposal %d is already in progress")
	MsgInvalidPriority        = ffm("FM10135", "Priority %d outside the allowed range 0-1000")
	MsgProposalNeedsMembers   = ffm("FM10136", "A formation proposal requires at least one member account")
	MsgEventFileReadFailed    = ffm("FM10140", "Failed to read event capture file '%s'")
	MsgEventsOutOfOrder       = ffm("FM10141", "Event sequence %d out of order (last processed %d) on topic '%s'")
	MsgFetchFailed            = ffm("FM10142", "Failed to fetch events for topic '%s'")
)
