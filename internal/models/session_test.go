package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    SessionStatus
		to      SessionStatus
		allowed bool
	}{
		{"proposed to established", StatusProposed, StatusEstablished, true},
		{"established to confirmed", StatusEstablished, StatusConfirmed, true},
		{"confirmed to completed", StatusConfirmed, StatusCompleted, true},
		{"proposed to cancelled", StatusProposed, StatusCancelled, true},
		{"established to cancelled", StatusEstablished, StatusCancelled, true},
		{"confirmed to cancelled", StatusConfirmed, StatusCancelled, true},
		{"no skipping proposed to confirmed", StatusProposed, StatusConfirmed, false},
		{"no skipping proposed to completed", StatusProposed, StatusCompleted, false},
		{"no going back established to proposed", StatusEstablished, StatusProposed, false},
		{"completed is terminal", StatusCompleted, StatusProposed, false},
		{"completed cannot cancel", StatusCompleted, StatusCancelled, false},
		{"cancelled is terminal", StatusCancelled, StatusEstablished, false},
		{"cancelled cannot complete", StatusCancelled, StatusCompleted, false},
		{"no self transition", StatusProposed, StatusProposed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestSessionStatusTerminal(t *testing.T) {
	assert.False(t, StatusProposed.Terminal())
	assert.False(t, StatusEstablished.Terminal())
	assert.False(t, StatusConfirmed.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusCancelled.Terminal())
}

func TestSessionStatusValid(t *testing.T) {
	for _, s := range []SessionStatus{StatusProposed, StatusEstablished, StatusConfirmed, StatusCompleted, StatusCancelled} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, SessionStatus("frobnicated").Valid())
	assert.False(t, SessionStatus("").Valid())
}

func TestExpertiseLevelValid(t *testing.T) {
	for _, e := range []ExpertiseLevel{ExpertiseNovice, ExpertiseBeginner, ExpertiseIntermediate, ExpertiseAdvanced, ExpertiseExpert} {
		assert.True(t, e.Valid(), e)
	}
	assert.False(t, ExpertiseLevel("grandmaster").Valid())
}

func TestSessionHasPlayer(t *testing.T) {
	session := Session{Players: []User{{}, {}}}
	session.Players[0].ID = 7
	session.Players[1].ID = 9

	assert.True(t, session.HasPlayer(7))
	assert.True(t, session.HasPlayer(9))
	assert.False(t, session.HasPlayer(8))
}
