package theaters

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(theater *Theater) error
	CreateWithSeats(theater *Theater, seats []Seat) error
	GetByID(id uuid.UUID) (*Theater, error)
	Update(id uuid.UUID, updates map[string]interface{}) (*Theater, error)
	Delete(id uuid.UUID) error
	GetAll() ([]Theater, error)
	CountSeats(theaterID uuid.UUID) (int64, error)
	CountShowtimes(theaterID uuid.UUID) (int64, error)

	CreateSeat(seat *Seat) error
	GetSeatByID(id uuid.UUID) (*Seat, error)
	GetSeats(theaterID uuid.UUID, query SeatListQuery) ([]Seat, int64, error)
	GetSeatsByIDs(theaterID uuid.UUID, seatIDs []uuid.UUID) ([]Seat, error)
	DeleteSeat(id uuid.UUID) error
	CountSeatReservations(seatID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(theater *Theater) error {
	return r.db.Create(theater).Error
}

// CreateWithSeats creates the theater and its seat grid in one transaction
// so a failed grid leaves no half-created theater behind.
func (r *repository) CreateWithSeats(theater *Theater, seats []Seat) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(theater).Error; err != nil {
			return err
		}
		if len(seats) == 0 {
			return nil
		}
		for i := range seats {
			seats[i].TheaterID = theater.ID
		}
		return tx.CreateInBatches(seats, 200).Error
	})
}

func (r *repository) GetByID(id uuid.UUID) (*Theater, error) {
	var theater Theater
	err := r.db.Where("id = ?", id).First(&theater).Error
	if err != nil {
		return nil, err
	}
	return &theater, nil
}

func (r *repository) Update(id uuid.UUID, updates map[string]interface{}) (*Theater, error) {
	var theater Theater

	if err := r.db.Where("id = ?", id).First(&theater).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&theater).Updates(updates).Error; err != nil {
		return nil, err
	}

	if err := r.db.Where("id = ?", id).First(&theater).Error; err != nil {
		return nil, err
	}

	return &theater, nil
}

func (r *repository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("theater_id = ?", id).Delete(&Seat{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&Theater{}).Error
	})
}

func (r *repository) GetAll() ([]Theater, error) {
	var theaters []Theater
	err := r.db.Order("name ASC").Find(&theaters).Error
	return theaters, err
}

func (r *repository) CountSeats(theaterID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&Seat{}).Where("theater_id = ?", theaterID).Count(&count).Error
	return count, err
}

// CountShowtimes queries through the table name to avoid importing the
// showtimes package.
func (r *repository) CountShowtimes(theaterID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Table("showtimes").Where("theater_id = ?", theaterID).Count(&count).Error
	return count, err
}

func (r *repository) CreateSeat(seat *Seat) error {
	return r.db.Create(seat).Error
}

func (r *repository) GetSeatByID(id uuid.UUID) (*Seat, error) {
	var seat Seat
	err := r.db.Where("id = ?", id).First(&seat).Error
	if err != nil {
		return nil, err
	}
	return &seat, nil
}

func (r *repository) GetSeats(theaterID uuid.UUID, query SeatListQuery) ([]Seat, int64, error) {
	var seats []Seat
	var totalCount int64

	db := r.db.Model(&Seat{}).Where("theater_id = ?", theaterID)

	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	if query.Page == 0 {
		query.Page = 1
	}
	if query.Limit == 0 {
		query.Limit = 100
	}

	offset := (query.Page - 1) * query.Limit

	err := db.Order("row ASC, number ASC").
		Offset(offset).
		Limit(query.Limit).
		Find(&seats).Error

	return seats, totalCount, err
}

func (r *repository) GetSeatsByIDs(theaterID uuid.UUID, seatIDs []uuid.UUID) ([]Seat, error) {
	var seats []Seat
	err := r.db.Where("theater_id = ? AND id IN ?", theaterID, seatIDs).Find(&seats).Error
	return seats, err
}

func (r *repository) DeleteSeat(id uuid.UUID) error {
	return r.db.Where("id = ?", id).Delete(&Seat{}).Error
}

// CountSeatReservations counts reservation rows that still reference the
// seat, released or not, so booking history is never orphaned.
func (r *repository) CountSeatReservations(seatID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Table("reservation_seats").Where("seat_id = ?", seatID).Count(&count).Error
	return count, err
}
