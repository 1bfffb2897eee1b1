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
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/floramesh/floramesh/internal/i18n"
)

// envelopeSchema is the structural contract every topic message must meet
// before operation-specific decoding is attempted
const envelopeSchema = `{
	"type": "object",
	"required": ["p", "op"],
	"properties": {
		"p": { "type": "string", "minLength": 1 },
		"op": { "type": "string", "minLength": 1 },
		"data": {},
		"m": { "type": "string" },
		"chunk": {
			"type": "object",
			"required": ["uid", "index", "length"],
			"properties": {
				"uid": { "type": "integer", "minimum": 0 },
				"index": { "type": "integer", "minimum": 0 },
				"length": { "type": "integer", "minimum": 1 }
			}
		}
	}
}`

var compiledEnvelopeSchema *gojsonschema.Schema

func init() {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(envelopeSchema))
	if err != nil {
		panic(i18n.NewError(context.Background(), i18n.MsgSchemaLoadFailed))
	}
	compiledEnvelopeSchema = schema
}

func validateEnvelope(ctx context.Context, payload []byte) error {
	res, err := compiledEnvelopeSchema.Validate(gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return i18n.WrapError(ctx, err, i18n.MsgEnvelopeInvalid, "not parseable")
	}
	if !res.Valid() {
		errStrings := make([]string, len(res.Errors()))
		for i, e := range res.Errors() {
			errStrings[i] = e.String()
		}
		return i18n.NewError(ctx, i18n.MsgEnvelopeInvalid, strings.Join(errStrings, ","))
	}
	return nil
}
