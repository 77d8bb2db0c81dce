package payments

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(payment *Payment) error
	GetByProviderRef(providerRef string) (*Payment, error)
	GetByReservationID(reservationID uuid.UUID) ([]Payment, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(payment *Payment) error {
	return r.db.Create(payment).Error
}

func (r *repository) GetByProviderRef(providerRef string) (*Payment, error) {
	var payment Payment
	err := r.db.Where("provider_ref = ?", providerRef).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *repository) GetByReservationID(reservationID uuid.UUID) ([]Payment, error) {
	var payments []Payment
	err := r.db.Where("reservation_id = ?", reservationID).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}
