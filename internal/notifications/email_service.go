package notifications

import (
	"context"

	"cinetix/internal/reservations"
	"cinetix/pkg/logger"
)

// EmailService sends ticket emails for reservation events. The current
// implementation logs the email instead of talking to a mail provider.
type EmailService interface {
	SendReservationEmail(ctx context.Context, event *ReservationEvent) error
}

type logEmailService struct{}

func NewEmailService() EmailService {
	return &logEmailService{}
}

func (s *logEmailService) SendReservationEmail(ctx context.Context, event *ReservationEvent) error {
	subject := subjectFor(event.EventType)

	logger.Info("sending reservation email",
		"subject", subject,
		"user_id", event.UserID,
		"reservation_id", event.ReservationID,
		"status", event.Status,
		"seat_count", event.SeatCount,
		"total_price", event.TotalPrice)

	return nil
}

func subjectFor(eventType string) string {
	switch eventType {
	case reservations.EventReservationCreated:
		return "Your seats are on hold"
	case reservations.EventReservationConfirmed:
		return "Your tickets are confirmed"
	case reservations.EventReservationCancelled:
		return "Your reservation was cancelled"
	case reservations.EventReservationExpired:
		return "Your seat hold expired"
	default:
		return "Reservation update"
	}
}
