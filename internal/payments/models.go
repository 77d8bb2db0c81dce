package payments

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusSucceeded PaymentStatus = "SUCCEEDED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusCanceled  PaymentStatus = "CANCELED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

// Provider webhook event types.
const (
	EventPaymentSucceeded = "payment.succeeded"
	EventPaymentFailed    = "payment.failed"
	EventPaymentCanceled  = "payment.canceled"
	EventRefundIssued     = "refund.issued"
)

// Payment records the provider's verdict for a reservation. ProviderRef is
// the provider's own id for the charge; replays of the same webhook carry
// the same ref.
type Payment struct {
	ID            uuid.UUID     `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ReservationID uuid.UUID     `json:"reservation_id" gorm:"type:uuid;not null;index"`
	Provider      string        `json:"provider" gorm:"size:50"`
	ProviderRef   string        `json:"provider_ref" gorm:"uniqueIndex;not null;size:255"`
	Amount        float64       `json:"amount" gorm:"not null"`
	Status        PaymentStatus `json:"status" gorm:"type:varchar(20);not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type PaymentResponse struct {
	ID            string        `json:"id"`
	ReservationID string        `json:"reservation_id"`
	Provider      string        `json:"provider"`
	ProviderRef   string        `json:"provider_ref"`
	Amount        float64       `json:"amount"`
	Status        PaymentStatus `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
}

type WebhookRequest struct {
	EventType     string  `json:"event_type" binding:"required,oneof=payment.succeeded payment.failed payment.canceled refund.issued"`
	Provider      string  `json:"provider" binding:"max=50"`
	ProviderRef   string  `json:"provider_ref" binding:"required,max=255"`
	ReservationID string  `json:"reservation_id" binding:"required,uuid"`
	Amount        float64 `json:"amount" binding:"omitempty,min=0"`
}

func (p *Payment) ToResponse() PaymentResponse {
	return PaymentResponse{
		ID:            p.ID.String(),
		ReservationID: p.ReservationID.String(),
		Provider:      p.Provider,
		ProviderRef:   p.ProviderRef,
		Amount:        p.Amount,
		Status:        p.Status,
		CreatedAt:     p.CreatedAt,
	}
}

// TableName specifies the table name for GORM
func (Payment) TableName() string {
	return "payments"
}
