package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleCovers(t *testing.T) {
	assert.True(t, RoleOwner.Covers(RoleViewer))
	assert.True(t, RoleOwner.Covers(RoleEditor))
	assert.True(t, RoleOwner.Covers(RoleOwner))
	assert.True(t, RoleEditor.Covers(RoleViewer))
	assert.False(t, RoleEditor.Covers(RoleOwner))
	assert.False(t, RoleViewer.Covers(RoleEditor))
	assert.False(t, Role("stranger").Covers(RoleViewer))
}

func TestEventsPageHasMore(t *testing.T) {
	page := &EventsPage{Events: make([]*Event, 10), Total: 25, Limit: 10, Offset: 0}
	assert.True(t, page.HasMore())

	page.Offset = 20
	page.Events = make([]*Event, 5)
	assert.False(t, page.HasMore())
}

func TestParticipantStatusValid(t *testing.T) {
	assert.True(t, ParticipantAccepted.Valid())
	assert.False(t, ParticipantStatus("maybe").Valid())
}
