package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"submitted to accepted", StatusSubmitted, StatusAccepted, true},
		{"submitted to rejected", StatusSubmitted, StatusRejected, true},
		{"submitted to confirmed", StatusSubmitted, StatusConfirmed, false},
		{"submitted to not_attending", StatusSubmitted, StatusNotAttending, false},
		{"accepted to confirmed", StatusAccepted, StatusConfirmed, true},
		{"accepted to not_attending", StatusAccepted, StatusNotAttending, true},
		{"accepted to rejected", StatusAccepted, StatusRejected, false},
		{"accepted back to submitted", StatusAccepted, StatusSubmitted, false},
		{"confirmed to not_attending", StatusConfirmed, StatusNotAttending, true},
		{"confirmed back to accepted", StatusConfirmed, StatusAccepted, false},
		{"rejected is terminal", StatusRejected, StatusAccepted, false},
		{"not_attending is terminal", StatusNotAttending, StatusConfirmed, false},
		{"unknown status", Status("pending"), StatusAccepted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatusIsTerminal(t *testing.T) {
	assert.True(t, StatusRejected.IsTerminal())
	assert.True(t, StatusNotAttending.IsTerminal())
	assert.False(t, StatusSubmitted.IsTerminal())
	assert.False(t, StatusAccepted.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
}

func TestStatusIsValid(t *testing.T) {
	for _, s := range []Status{StatusSubmitted, StatusAccepted, StatusRejected, StatusConfirmed, StatusNotAttending} {
		assert.True(t, s.IsValid(), string(s))
	}
	assert.False(t, Status("waitlisted").IsValid())
	assert.False(t, Status("").IsValid())
}

func TestStatusPubliclyVisible(t *testing.T) {
	assert.False(t, StatusSubmitted.PubliclyVisible())
	assert.False(t, StatusRejected.PubliclyVisible())
	assert.True(t, StatusAccepted.PubliclyVisible())
	assert.True(t, StatusConfirmed.PubliclyVisible())
	assert.True(t, StatusNotAttending.PubliclyVisible())
}
