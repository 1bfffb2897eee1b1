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

package discovery

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

func newTestCoordinator(t *testing.T) (*Coordinator, *eventstreammocks.EventSource, *eventstreammocks.MessageEmitter, *eventstreammocks.FormationService) {
	config.Reset()
	mes := &eventstreammocks.EventSource{}
	mme := &eventstreammocks.MessageEmitter{}
	mfs := &eventstreammocks.FormationService{}
	c := NewCoordinator(context.Background(), Identity{
		Account:   "0.0.1001",
		PetalName: "petal-one",
		Priority:  700,
		Protocols: []string{"hcs-12", "hcs-6"},
	}, "0.0.500", mes, mme, mfs)
	return c, mes, mme, mfs
}

func discEvent(seq uint64, payer, op, data string) *fmtypes.Event {
	return &fmtypes.Event{
		Sequence: seq,
		Payer:    payer,
		Payload:  fmtypes.Byteable(fmt.Sprintf(`{"p":"flora","op":"%s","data":%s}`, op, data)),
	}
}

func announceEvent(seq uint64, account, name string, priority int, protocols string) *fmtypes.Event {
	return discEvent(seq, account, "announce",
		fmt.Sprintf(`{"account":"%s","petalName":"%s","priority":%d,"protocols":%s}`, account, name, priority, protocols))
}

func TestAnnounceAvailability(t *testing.T) {
	c, _, mme, _ := newTestCoordinator(t)
	mme.On("Publish", mock.Anything, "0.0.500", mock.Anything).Return(uint64(5), nil)

	seq, err := c.AnnounceAvailability(context.Background(), 3600)
	assert.NoError(t, err)
	assert.Equal(t, uint64(5), seq)
	assert.Equal(t, fmtypes.PetalStateAnnounced, c.State())

	anns := c.ListAnnouncements()
	assert.Len(t, anns, 1)
	assert.Equal(t, "petal-one", anns[0].PetalName)
	mme.AssertExpectations(t)
}

func TestAnnouncePublishFail(t *testing.T) {
	c, _, mme, _ := newTestCoordinator(t)
	mme.On("Publish", mock.Anything, "0.0.500", mock.Anything).Return(uint64(0), fmt.Errorf("pop"))

	_, err := c.AnnounceAvailability(context.Background(), 0)
	assert.Regexp(t, "FM10133", err)
	assert.Equal(t, fmtypes.PetalStateIdle, c.State())
	assert.Empty(t, c.ListAnnouncements())
}

func TestWithdrawWithoutAnnouncement(t *testing.T) {
	c, _, _, _ := newTestCoordinator(t)
	_, err := c.Withdraw(context.Background(), "maintenance")
	assert.Regexp(t, "FM10131", err)
}

func TestWithdrawRemovesOwnAnnouncement(t *testing.T) {
	c, _, mme, _ := newTestCoordinator(t)
	mme.On("Publish", mock.Anything, "0.0.500", mock.Anything).Return(uint64(5), nil).Once()
	mme.On("Publish", mock.Anything, "0.0.500", mock.Anything).Return(uint64(9), nil).Once()

	_, err := c.AnnounceAvailability(context.Background(), 0)
	assert.NoError(t, err)
	seq, err := c.Withdraw(context.Background(), "done")
	assert.NoError(t, err)
	assert.Equal(t, uint64(9), seq)
	assert.Equal(t, fmtypes.PetalStateWithdrawn, c.State())
	assert.Empty(t, c.ListAnnouncements())
}

func TestProposeFormationNeedsMembers(t *testing.T) {
	c, _, _, _ := newTestCoordinator(t)
	_, err := c.ProposeFormation(context.Background(), nil, fmtypes.ProposalConfig{Name: "g"})
	assert.Regexp(t, "FM10136", err)
}

func TestProposeFormationCapturesAnnouncements(t *testing.T) {
	c, _, mme, _ := newTestCoordinator(t)
	assert.NoError(t, c.Apply(context.Background(), announceEvent(10, "0.0.2002", "petal-two", 800, `["hcs-12"]`)))
	mme.On("Publish", mock.Anything, "0.0.500", mock.Anything).Return(uint64(20), nil)

	seq, err := c.ProposeFormation(context.Background(), []string{"0.0.1001", "0.0.2002"}, fmtypes.ProposalConfig{
		Name:             "flora-group",
		SigningThreshold: 2,
	})
	assert.NoError(t, err)
	assert.Equal(t, fmtypes.PetalStateProposing, c.State())

	proposal := c.GetProposal(seq)
	assert.NotNil(t, proposal)
	assert.Equal(t, uint64(10), proposal.Members[1].AnnounceSeq)
	assert.Equal(t, 800, proposal.Members[1].Priority)
	assert.Zero(t, proposal.Members[0].AnnounceSeq)
}

func TestRespondToUnknownProposal(t *testing.T) {
	c, _, _, _ := newTestCoordinator(t)
	_, err := c.RespondToProposal(context.Background(), 99, fmtypes.DecisionAccept, "")
	assert.Regexp(t, "FM10130", err)
}

func TestRespondToProposalAccept(t *testing.T) {
	c, _, mme, _ := newTestCoordinator(t)
	assert.NoError(t, c.Apply(context.Background(), discEvent(20, "0.0.2002", "propose",
		`{"proposer":"0.0.2002","members":[{"account":"0.0.1001"},{"account":"0.0.2002"}],"config":{"name":"g","signingThreshold":2}}`)))
	mme.On("Publish", mock.Anything, "0.0.500", mock.Anything).Return(uint64(21), nil)

	_, err := c.RespondToProposal(context.Background(), 20, fmtypes.DecisionAccept, "")
	assert.NoError(t, err)
	assert.Equal(t, fmtypes.PetalStateForming, c.State())
	assert.Equal(t, 1, c.GetProposal(20).AcceptanceCount())
}

func TestFindCompatiblePetals(t *testing.T) {
	c, _, _, _ := newTestCoordinator(t)
	ctx := context.Background()
	assert.NoError(t, c.Apply(ctx, announceEvent(1, "0.0.1001", "self", 900, `["hcs-12"]`)))
	assert.NoError(t, c.Apply(ctx, announceEvent(2, "0.0.2002", "two", 800, `["hcs-12","hcs-6"]`)))
	assert.NoError(t, c.Apply(ctx, announceEvent(3, "0.0.3003", "three", 400, `["hcs-12"]`)))
	assert.NoError(t, c.Apply(ctx, announceEvent(4, "0.0.4004", "four", 800, `["hcs-6"]`)))
	assert.NoError(t, c.Apply(ctx, announceEvent(5, "0.0.5005", "five", 950, `["hcs-12","hcs-6"]`)))

	matched := c.FindCompatiblePetals(PetalFilters{Protocols: []string{"hcs-12"}, MinPriority: 500})
	assert.Len(t, matched, 2)
	assert.Equal(t, "five", matched[0].PetalName)
	assert.Equal(t, "two", matched[1].PetalName)

	capped := c.FindCompatiblePetals(PetalFilters{MaxMembers: 1})
	assert.Len(t, capped, 1)
	assert.Equal(t, "five", capped[0].PetalName)
}

func TestFindCompatiblePetalsPriorityTiebreak(t *testing.T) {
	c, _, _, _ := newTestCoordinator(t)
	ctx := context.Background()
	assert.NoError(t, c.Apply(ctx, announceEvent(2, "0.0.2002", "earlier", 800, `[]`)))
	assert.NoError(t, c.Apply(ctx, announceEvent(3, "0.0.3003", "later", 800, `[]`)))

	matched := c.FindCompatiblePetals(PetalFilters{})
	assert.Len(t, matched, 2)
	assert.Equal(t, "earlier", matched[0].PetalName)
}
