package notifications

import (
	"testing"

	"cinetix/internal/reservations"

	"github.com/stretchr/testify/assert"
)

func TestSubjectFor(t *testing.T) {
	assert.Equal(t, "Your seats are on hold", subjectFor(reservations.EventReservationCreated))
	assert.Equal(t, "Your tickets are confirmed", subjectFor(reservations.EventReservationConfirmed))
	assert.Equal(t, "Your reservation was cancelled", subjectFor(reservations.EventReservationCancelled))
	assert.Equal(t, "Your seat hold expired", subjectFor(reservations.EventReservationExpired))
	assert.Equal(t, "Reservation update", subjectFor("something.else"))
}
