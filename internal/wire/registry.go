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

	"github.com/floramesh/floramesh/internal/i18n"
	"github.com/floramesh/floramesh/pkg/fmtypes"
)

// Registry operations. A register event's own sequence number becomes the
// record's UID - the register IS its own correlation id.
const (
	OpRegRegister = "register"
	OpRegUpdate   = "update"
	OpRegDelete   = "delete"
)

// RegRegisterData creates a directory or version record
type RegRegisterData struct {
	OwnerAccount string                `json:"ownerAccount,omitempty"`
	Metadata     fmtypes.JSONObject    `json:"metadata,omitempty"`
	SkillUID     uint64                `json:"skillUid,omitempty"`
	Version      string                `json:"version,omitempty"`
	Checksum     string                `json:"checksum,omitempty"`
	Status       fmtypes.VersionStatus `json:"status,omitempty"`
}

// RegUpdateData amends an existing record, referencing it by UID
type RegUpdateData struct {
	UID          uint64                `json:"uid"`
	OwnerAccount string                `json:"ownerAccount,omitempty"`
	Metadata     fmtypes.JSONObject    `json:"metadata,omitempty"`
	Status       fmtypes.VersionStatus `json:"status,omitempty"`
}

// RegDeleteData tombstones an existing record, referencing it by UID
type RegDeleteData struct {
	UID    uint64 `json:"uid"`
	Reason string `json:"reason,omitempty"`
}

// RegistryOp is the tagged union over the registry operation set
type RegistryOp struct {
	Op       string
	Register *RegRegisterData
	Update   *RegUpdateData
	Delete   *RegDeleteData
}

// DecodeRegistryOp converts a validated envelope into the registry union
func DecodeRegistryOp(ctx context.Context, env *Envelope) (*RegistryOp, error) {
	op := &RegistryOp{Op: env.Operation}
	var err error
	switch env.Operation {
	case OpRegRegister:
		var d RegRegisterData
		if err = env.decodeData(ctx, &d); err == nil {
			op.Register = &d
		}
	case OpRegUpdate:
		var d RegUpdateData
		if err = env.decodeData(ctx, &d); err == nil {
			op.Update = &d
		}
	case OpRegDelete:
		var d RegDeleteData
		if err = env.decodeData(ctx, &d); err == nil {
			op.Delete = &d
		}
	default:
		return nil, i18n.NewError(ctx, i18n.MsgUnknownOperation, env.Operation, ProtocolRegistry)
	}
	if err != nil {
		return nil, err
	}
	return op, nil
}
