package notifications

import (
	"encoding/json"
	"time"

	"cinetix/internal/reservations"
)

// ReservationEvent is the Kafka payload for a reservation lifecycle change.
type ReservationEvent struct {
	EventType     string    `json:"event_type"`
	ReservationID string    `json:"reservation_id"`
	UserID        string    `json:"user_id"`
	ShowtimeID    string    `json:"showtime_id"`
	Status        string    `json:"status"`
	TotalPrice    float64   `json:"total_price"`
	SeatCount     int       `json:"seat_count"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func NewReservationEvent(eventType string, reservation *reservations.Reservation) *ReservationEvent {
	return &ReservationEvent{
		EventType:     eventType,
		ReservationID: reservation.ID.String(),
		UserID:        reservation.UserID.String(),
		ShowtimeID:    reservation.ShowtimeID.String(),
		Status:        string(reservation.Status),
		TotalPrice:    reservation.TotalPrice,
		SeatCount:     len(reservation.Seats),
		OccurredAt:    time.Now(),
	}
}

func (e *ReservationEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// PartitionKey routes all events of one showtime to the same partition so
// consumers see its lifecycle in order.
func (e *ReservationEvent) PartitionKey() string {
	return e.ShowtimeID
}
