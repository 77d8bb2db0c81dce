package showtimes

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(showtime *Showtime) error
	GetByID(id uuid.UUID) (*Showtime, error)
	Delete(id uuid.UUID) error
	GetAll(query ShowtimeListQuery) ([]Showtime, int64, error)
	FindOverlapping(theaterID uuid.UUID, start, end time.Time) ([]Showtime, error)
	CountTheaterSeats(theaterID uuid.UUID) (int64, error)
	CountActiveReservedSeats(showtimeID uuid.UUID) (int64, error)
	GetSeatStatuses(showtimeID, theaterID uuid.UUID) ([]SeatStatusRow, error)
	CountActiveReservations(showtimeID uuid.UUID) (int64, error)
}

// SeatStatusRow is a seat joined with its active reservation, if any.
type SeatStatusRow struct {
	ID         uuid.UUID
	Label      string
	Row        string
	Number     int
	Type       string
	ExtraPrice float64
	Status     *string
	ExpiresAt  *time.Time
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(showtime *Showtime) error {
	return r.db.Create(showtime).Error
}

func (r *repository) GetByID(id uuid.UUID) (*Showtime, error) {
	var showtime Showtime
	err := r.db.Preload("Movie").Preload("Theater").Where("id = ?", id).First(&showtime).Error
	if err != nil {
		return nil, err
	}
	return &showtime, nil
}

func (r *repository) Delete(id uuid.UUID) error {
	return r.db.Where("id = ?", id).Delete(&Showtime{}).Error
}

func (r *repository) GetAll(query ShowtimeListQuery) ([]Showtime, int64, error) {
	var showtimes []Showtime
	var totalCount int64

	db := r.db.Model(&Showtime{})

	if query.MovieID != "" {
		db = db.Where("movie_id = ?", query.MovieID)
	}

	if query.Date != "" {
		if day, err := time.Parse("2006-01-02", query.Date); err == nil {
			db = db.Where("start_time >= ? AND start_time < ?", day, day.Add(24*time.Hour))
		}
	}

	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	if query.Page == 0 {
		query.Page = 1
	}
	if query.Limit == 0 {
		query.Limit = 10
	}

	offset := (query.Page - 1) * query.Limit

	err := db.Preload("Movie").Preload("Theater").
		Order("start_time ASC").
		Offset(offset).
		Limit(query.Limit).
		Find(&showtimes).Error

	return showtimes, totalCount, err
}

// FindOverlapping returns shows in the theater whose [start, end) window
// intersects the given one. Back-to-back shows sharing a boundary instant
// do not overlap.
func (r *repository) FindOverlapping(theaterID uuid.UUID, start, end time.Time) ([]Showtime, error) {
	var showtimes []Showtime
	err := r.db.Where("theater_id = ? AND start_time < ? AND end_time > ?", theaterID, end, start).
		Find(&showtimes).Error
	return showtimes, err
}

func (r *repository) CountTheaterSeats(theaterID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Table("seats").Where("theater_id = ?", theaterID).Count(&count).Error
	return count, err
}

// CountActiveReservedSeats counts seats taken by an unreleased claim whose
// reservation is BOOKED or a still-live HELD.
func (r *repository) CountActiveReservedSeats(showtimeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Table("reservation_seats rs").
		Joins("JOIN reservations r ON r.id = rs.reservation_id").
		Where("rs.showtime_id = ? AND rs.released_at IS NULL", showtimeID).
		Where("r.status = 'BOOKED' OR (r.status = 'HELD' AND r.expires_at > ?)", time.Now()).
		Count(&count).Error
	return count, err
}

func (r *repository) GetSeatStatuses(showtimeID, theaterID uuid.UUID) ([]SeatStatusRow, error) {
	var rows []SeatStatusRow
	err := r.db.Table("seats").
		Select("seats.id, seats.label, seats.row, seats.number, seats.type, seats.extra_price, r.status, r.expires_at").
		Joins("LEFT JOIN reservation_seats rs ON rs.seat_id = seats.id AND rs.showtime_id = ? AND rs.released_at IS NULL", showtimeID).
		Joins("LEFT JOIN reservations r ON r.id = rs.reservation_id").
		Where("seats.theater_id = ?", theaterID).
		Order("seats.row ASC, seats.number ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) CountActiveReservations(showtimeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Table("reservations").
		Where("showtime_id = ? AND status IN ('HELD', 'BOOKED')", showtimeID).
		Count(&count).Error
	return count, err
}
