package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifiers(t *testing.T) {
	assert.True(t, IsNotFound(ErrMovieNotFound))
	assert.True(t, IsNotFound(ErrReservationNotFound))
	assert.True(t, IsValidation(ErrEmptySeatSelection))
	assert.True(t, IsValidation(ErrTheaterHasShowtimes))
	assert.True(t, IsConflict(ErrSeatsAlreadyReserved))
	assert.True(t, IsConflict(ErrShowtimeOverlap))
	assert.True(t, IsForbidden(ErrNotReservationOwner))
	assert.True(t, IsInvalidState(ErrHoldExpired))
	assert.True(t, IsInvalidState(ErrReservationTerminal))
}

func TestClassifiersAreDisjoint(t *testing.T) {
	assert.False(t, IsConflict(ErrMovieNotFound))
	assert.False(t, IsNotFound(ErrSeatsAlreadyReserved))
	assert.False(t, IsValidation(ErrHoldExpired))
	assert.False(t, IsForbidden(ErrShowtimeAlreadyStarted))
}

func TestClassifiersUnwrap(t *testing.T) {
	wrapped := fmt.Errorf("claiming seats: %w", ErrSeatsAlreadyReserved)
	assert.True(t, IsConflict(wrapped))
	assert.False(t, IsConflict(errors.New("claiming seats")))
}
