package payments

import (
	"testing"

	"cinetix/internal/reservations"
	"cinetix/internal/shared/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// MockRepository is a func-field mock of Repository.
type MockRepository struct {
	CreateFunc             func(payment *Payment) error
	GetByProviderRefFunc   func(providerRef string) (*Payment, error)
	GetByReservationIDFunc func(reservationID uuid.UUID) ([]Payment, error)
}

func (m *MockRepository) Create(payment *Payment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(payment)
	}
	payment.ID = uuid.New()
	return nil
}

func (m *MockRepository) GetByProviderRef(providerRef string) (*Payment, error) {
	if m.GetByProviderRefFunc != nil {
		return m.GetByProviderRefFunc(providerRef)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockRepository) GetByReservationID(reservationID uuid.UUID) ([]Payment, error) {
	if m.GetByReservationIDFunc != nil {
		return m.GetByReservationIDFunc(reservationID)
	}
	return nil, nil
}

// MockReservationService records the transitions the webhook applied.
type MockReservationService struct {
	ConfirmFunc func(id, actorID uuid.UUID, isAdmin bool) (*reservations.ReservationResponse, error)
	CancelFunc  func(id, actorID uuid.UUID, isAdmin bool) (*reservations.ReservationResponse, error)
	Confirmed   []uuid.UUID
	Cancelled   []uuid.UUID
}

func (m *MockReservationService) ConfirmReservation(id, actorID uuid.UUID, isAdmin bool) (*reservations.ReservationResponse, error) {
	m.Confirmed = append(m.Confirmed, id)
	if m.ConfirmFunc != nil {
		return m.ConfirmFunc(id, actorID, isAdmin)
	}
	return &reservations.ReservationResponse{ID: id.String()}, nil
}

func (m *MockReservationService) CancelReservation(id, actorID uuid.UUID, isAdmin bool) (*reservations.ReservationResponse, error) {
	m.Cancelled = append(m.Cancelled, id)
	if m.CancelFunc != nil {
		return m.CancelFunc(id, actorID, isAdmin)
	}
	return &reservations.ReservationResponse{ID: id.String()}, nil
}

func newTestService(repo Repository, rs *MockReservationService) Service {
	svc := NewService(repo)
	svc.SetReservationService(rs)
	return svc
}

func webhook(eventType string, reservationID uuid.UUID, ref string) WebhookRequest {
	return WebhookRequest{
		EventType:     eventType,
		Provider:      "stripe",
		ProviderRef:   ref,
		ReservationID: reservationID.String(),
		Amount:        23.50,
	}
}

func TestHandleWebhookSucceeded(t *testing.T) {
	reservationID := uuid.New()
	rs := &MockReservationService{}
	svc := newTestService(&MockRepository{}, rs)

	resp, err := svc.HandleWebhook(webhook(EventPaymentSucceeded, reservationID, "ch_123"))
	require.NoError(t, err)

	assert.Equal(t, PaymentStatusSucceeded, resp.Status)
	assert.Equal(t, []uuid.UUID{reservationID}, rs.Confirmed)
	assert.Empty(t, rs.Cancelled)
}

func TestHandleWebhookReplayIsIdempotent(t *testing.T) {
	reservationID := uuid.New()
	existing := &Payment{
		ID:            uuid.New(),
		ReservationID: reservationID,
		ProviderRef:   "ch_123",
		Status:        PaymentStatusSucceeded,
	}

	rs := &MockReservationService{}
	repo := &MockRepository{
		GetByProviderRefFunc: func(ref string) (*Payment, error) {
			return existing, nil
		},
	}
	svc := newTestService(repo, rs)

	resp, err := svc.HandleWebhook(webhook(EventPaymentSucceeded, reservationID, "ch_123"))
	require.NoError(t, err)

	// the replay is acknowledged without touching the reservation again
	assert.Equal(t, existing.ID.String(), resp.ID)
	assert.Empty(t, rs.Confirmed)
}

func TestHandleWebhookReplayRace(t *testing.T) {
	reservationID := uuid.New()
	existing := &Payment{ID: uuid.New(), ReservationID: reservationID, ProviderRef: "ch_123"}

	lookups := 0
	repo := &MockRepository{
		GetByProviderRefFunc: func(ref string) (*Payment, error) {
			lookups++
			if lookups == 1 {
				// the racing replay has not committed yet
				return nil, gorm.ErrRecordNotFound
			}
			return existing, nil
		},
		CreateFunc: func(payment *Payment) error {
			return gorm.ErrDuplicatedKey
		},
	}
	rs := &MockReservationService{}
	svc := newTestService(repo, rs)

	resp, err := svc.HandleWebhook(webhook(EventPaymentSucceeded, reservationID, "ch_123"))
	require.NoError(t, err)
	assert.Equal(t, existing.ID.String(), resp.ID)
	assert.Empty(t, rs.Confirmed)
}

func TestHandleWebhookFailedKeepsHold(t *testing.T) {
	reservationID := uuid.New()
	rs := &MockReservationService{}
	svc := newTestService(&MockRepository{}, rs)

	resp, err := svc.HandleWebhook(webhook(EventPaymentFailed, reservationID, "ch_456"))
	require.NoError(t, err)

	assert.Equal(t, PaymentStatusFailed, resp.Status)
	assert.Empty(t, rs.Confirmed)
	assert.Empty(t, rs.Cancelled)
}

func TestHandleWebhookRefund(t *testing.T) {
	reservationID := uuid.New()

	t.Run("cancels the booking", func(t *testing.T) {
		rs := &MockReservationService{}
		svc := newTestService(&MockRepository{}, rs)

		resp, err := svc.HandleWebhook(webhook(EventRefundIssued, reservationID, "re_1"))
		require.NoError(t, err)

		assert.Equal(t, PaymentStatusRefunded, resp.Status)
		assert.Equal(t, []uuid.UUID{reservationID}, rs.Cancelled)
	})

	t.Run("tolerates an already-terminal reservation", func(t *testing.T) {
		rs := &MockReservationService{
			CancelFunc: func(id, actorID uuid.UUID, isAdmin bool) (*reservations.ReservationResponse, error) {
				return nil, errs.ErrReservationTerminal
			},
		}
		svc := newTestService(&MockRepository{}, rs)

		_, err := svc.HandleWebhook(webhook(EventRefundIssued, reservationID, "re_2"))
		assert.NoError(t, err)
	})
}

func TestStatusForEvent(t *testing.T) {
	assert.Equal(t, PaymentStatusSucceeded, statusForEvent(EventPaymentSucceeded))
	assert.Equal(t, PaymentStatusFailed, statusForEvent(EventPaymentFailed))
	assert.Equal(t, PaymentStatusCanceled, statusForEvent(EventPaymentCanceled))
	assert.Equal(t, PaymentStatusRefunded, statusForEvent(EventRefundIssued))
}

func TestGetReservationPaymentsEmpty(t *testing.T) {
	svc := newTestService(&MockRepository{}, &MockReservationService{})

	_, err := svc.GetReservationPayments(uuid.New())
	assert.ErrorIs(t, err, errs.ErrPaymentNotFound)
}
