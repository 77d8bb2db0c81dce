package payments

import (
	"errors"
	"fmt"

	"cinetix/internal/reservations"
	"cinetix/internal/shared/errs"
	"cinetix/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReservationService is the slice of the reservation lifecycle the payment
// bridge drives.
type ReservationService interface {
	ConfirmReservation(id, actorID uuid.UUID, isAdmin bool) (*reservations.ReservationResponse, error)
	CancelReservation(id, actorID uuid.UUID, isAdmin bool) (*reservations.ReservationResponse, error)
}

type Service interface {
	SetReservationService(reservationService ReservationService)
	HandleWebhook(req WebhookRequest) (*PaymentResponse, error)
	GetReservationPayments(reservationID uuid.UUID) ([]PaymentResponse, error)
}

type service struct {
	repo               Repository
	reservationService ReservationService
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) SetReservationService(reservationService ReservationService) {
	s.reservationService = reservationService
}

// HandleWebhook records the provider event and applies its reservation
// transition. Replays of a provider ref are acknowledged without
// re-applying anything.
func (s *service) HandleWebhook(req WebhookRequest) (*PaymentResponse, error) {
	reservationID, err := uuid.Parse(req.ReservationID)
	if err != nil {
		return nil, fmt.Errorf("invalid reservation ID: %w", err)
	}

	if existing, err := s.repo.GetByProviderRef(req.ProviderRef); err == nil {
		response := existing.ToResponse()
		return &response, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up payment: %w", err)
	}

	payment := &Payment{
		ReservationID: reservationID,
		Provider:      req.Provider,
		ProviderRef:   req.ProviderRef,
		Amount:        req.Amount,
		Status:        statusForEvent(req.EventType),
	}

	if err := s.repo.Create(payment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Two replays raced; the first write wins.
			if existing, lookupErr := s.repo.GetByProviderRef(req.ProviderRef); lookupErr == nil {
				response := existing.ToResponse()
				return &response, nil
			}
			return nil, errs.ErrPaymentAlreadyProcessed
		}
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	if err := s.applyTransition(req.EventType, reservationID); err != nil {
		return nil, err
	}

	response := payment.ToResponse()
	return &response, nil
}

func (s *service) applyTransition(eventType string, reservationID uuid.UUID) error {
	switch eventType {
	case EventPaymentSucceeded:
		_, err := s.reservationService.ConfirmReservation(reservationID, uuid.Nil, true)
		return err

	case EventRefundIssued:
		_, err := s.reservationService.CancelReservation(reservationID, uuid.Nil, true)
		if errors.Is(err, errs.ErrReservationTerminal) {
			// Refund replayed after the reservation already left BOOKED
			return nil
		}
		return err

	case EventPaymentFailed, EventPaymentCanceled:
		// The hold stays HELD; the user may retry payment until the TTL
		// runs out.
		logger.Info("payment did not complete, hold kept", "reservation_id", reservationID, "event", eventType)
		return nil

	default:
		return fmt.Errorf("unsupported payment event type: %s", eventType)
	}
}

func (s *service) GetReservationPayments(reservationID uuid.UUID) ([]PaymentResponse, error) {
	payments, err := s.repo.GetByReservationID(reservationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}
	if len(payments) == 0 {
		return nil, errs.ErrPaymentNotFound
	}

	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = payments[i].ToResponse()
	}
	return responses, nil
}

func statusForEvent(eventType string) PaymentStatus {
	switch eventType {
	case EventPaymentSucceeded:
		return PaymentStatusSucceeded
	case EventPaymentFailed:
		return PaymentStatusFailed
	case EventPaymentCanceled:
		return PaymentStatusCanceled
	case EventRefundIssued:
		return PaymentStatusRefunded
	default:
		return PaymentStatusFailed
	}
}
