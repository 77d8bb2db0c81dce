package reservations

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusIsValid(t *testing.T) {
	assert.True(t, StatusHeld.IsValid())
	assert.True(t, StatusBooked.IsValid())
	assert.True(t, StatusCancelled.IsValid())
	assert.True(t, StatusExpired.IsValid())
	assert.False(t, Status("PENDING").IsValid())
	assert.False(t, Status("").IsValid())
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		status     Status
		terminal   bool
		active     bool
		canConfirm bool
		canCancel  bool
	}{
		{StatusHeld, false, true, true, true},
		{StatusBooked, false, true, false, true},
		{StatusCancelled, true, false, false, false},
		{StatusExpired, true, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.terminal, tt.status.IsTerminal())
			assert.Equal(t, tt.active, tt.status.IsActive())
			assert.Equal(t, tt.canConfirm, tt.status.CanConfirm())
			assert.Equal(t, tt.canCancel, tt.status.CanCancel())
		})
	}
}
