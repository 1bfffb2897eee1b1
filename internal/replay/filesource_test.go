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

package replay

import (
	"context"
	"io/ioutil"
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/floramesh/floramesh/internal/config"
	"github.com/floramesh/floramesh/pkg/eventstream"
	"github.com/floramesh/floramesh/pkg/fmtypes"
)

func writeCapture(t *testing.T, content string) string {
	dir, err := ioutil.TempDir("", "replaytest")
	assert.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	file := path.Join(dir, "capture.json")
	assert.NoError(t, ioutil.WriteFile(file, []byte(content), 0644))
	return file
}

const pollCapture = `{
	"topics": {
		"0.0.800": [
			{"sequence": 1, "payer": "0.0.1001", "payload": {"p":"poll","op":"register","data":{"metadata":{"title":"t","author":"0.0.1001"}}}},
			{"sequence": 2, "payer": "0.0.1001", "payload": {"p":"poll","op":"manage","data":{"account":"0.0.1001","action":"open"}}},
			{"sequence": 3, "payer": "0.0.2002", "payload": {"p":"poll","op":"vote","data":{"account":"0.0.2002","entries":[{"optionId":"yes","weight":10}]}}}
		]
	}
}`

func TestFileEventSourceFetchPaging(t *testing.T) {
	file := writeCapture(t, pollCapture)
	source, err := NewFileEventSource(context.Background(), file)
	assert.NoError(t, err)
	assert.Equal(t, []string{"0.0.800"}, source.Topics())

	page, err := source.Fetch(context.Background(), "0.0.800", eventstream.FetchOptions{AfterSequence: 1, Limit: 1})
	assert.NoError(t, err)
	assert.Len(t, page, 1)
	assert.Equal(t, uint64(2), page[0].Sequence)

	latest, err := source.Fetch(context.Background(), "0.0.800", eventstream.FetchOptions{Limit: 1, Order: eventstream.FetchOrderDesc})
	assert.NoError(t, err)
	assert.Len(t, latest, 1)
	assert.Equal(t, uint64(3), latest[0].Sequence)
}

func TestFileEventSourceUnknownTopicEmpty(t *testing.T) {
	file := writeCapture(t, pollCapture)
	source, err := NewFileEventSource(context.Background(), file)
	assert.NoError(t, err)

	page, err := source.Fetch(context.Background(), "0.0.999", eventstream.FetchOptions{})
	assert.NoError(t, err)
	assert.Empty(t, page)
}

func TestFileEventSourceMissingFile(t *testing.T) {
	_, err := NewFileEventSource(context.Background(), "/not/a/real/path.json")
	assert.Regexp(t, "FM10140", err)
}

func TestFileEventSourceBadJSON(t *testing.T) {
	file := writeCapture(t, `!!`)
	_, err := NewFileEventSource(context.Background(), file)
	assert.Regexp(t, "FM10140", err)
}

func TestFileEventSourceOutOfOrderRejected(t *testing.T) {
	file := writeCapture(t, `{"topics":{"0.0.800":[{"sequence":5},{"sequence":4}]}}`)
	_, err := NewFileEventSource(context.Background(), file)
	assert.Regexp(t, "FM10141", err)
}

func TestRunPollReplay(t *testing.T) {
	config.Reset()
	file := writeCapture(t, pollCapture)

	result, err := Run(context.Background(), file, "0.0.800", "poll", 0)
	assert.NoError(t, err)

	state := result.(*fmtypes.PollState)
	assert.Equal(t, int64(10), state.Results.TotalWeight)
	assert.Equal(t, fmtypes.PollStatusActive, state.Status)
}

func TestRunUnknownProtocol(t *testing.T) {
	config.Reset()
	file := writeCapture(t, pollCapture)
	_, err := Run(context.Background(), file, "0.0.800", "bogus", 0)
	assert.Regexp(t, "FM10111", err)
}

func TestRunDiscoveryReplay(t *testing.T) {
	config.Reset()
	file := writeCapture(t, `{
		"topics": {
			"0.0.500": [
				{"sequence": 1, "payload": {"p":"flora","op":"announce","data":{"account":"0.0.1001","petalName":"one","priority":700}}},
				{"sequence": 2, "payload": {"p":"flora","op":"propose","data":{"proposer":"0.0.1001","members":[{"account":"0.0.1001"},{"account":"0.0.2002"}],"config":{"name":"g","signingThreshold":2}}}},
				{"sequence": 3, "payload": {"p":"flora","op":"respond","data":{"proposalSeq":2,"responder":"0.0.2002","decision":"accept"}}},
				{"sequence": 4, "payload": {"p":"flora","op":"complete","data":{"proposalSeq":2,"resourceAccountId":"0.0.9000","subResources":{}}}}
			]
		}
	}`)

	result, err := Run(context.Background(), file, "0.0.500", "flora", 0)
	assert.NoError(t, err)

	report := result.(*DiscoveryReport)
	assert.Len(t, report.Announcements, 1)
	assert.Len(t, report.Proposals, 1)
	assert.Len(t, report.Formations, 1)
	assert.Equal(t, "0.0.9000", report.Formations[0].ResourceAccountID)
}

func TestRunRegistryReplay(t *testing.T) {
	config.Reset()
	file := writeCapture(t, `{
		"topics": {
			"0.0.700": [
				{"sequence": 10, "payload": {"p":"registry","op":"register","data":{"skillUid":1,"version":"1.0.0"}}},
				{"sequence": 11, "payload": {"p":"registry","op":"register","data":{"skillUid":1,"version":"1.1.0"}}}
			]
		}
	}`)

	result, err := Run(context.Background(), file, "0.0.700", "registry", 1)
	assert.NoError(t, err)

	report := result.(*RegistryReport)
	assert.Len(t, report.Versions, 2)
	assert.Equal(t, "1.1.0", report.Latest.Version)
}
