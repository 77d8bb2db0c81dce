package reservations

import (
	"time"

	"cinetix/internal/showtimes"
	"cinetix/internal/theaters"

	"github.com/google/uuid"
)

type Reservation struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	UserID     uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	ShowtimeID uuid.UUID `json:"showtime_id" gorm:"type:uuid;not null;index"`
	Status     Status    `json:"status" gorm:"type:varchar(20);not null;default:'HELD';index"`
	TotalPrice float64   `json:"total_price" gorm:"not null;check:total_price >= 0"`

	// ExpiresAt bounds the HELD window; ignored once the reservation is
	// BOOKED.
	ExpiresAt   time.Time  `json:"expires_at" gorm:"not null;index"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	Seats    []ReservationSeat   `json:"seats" gorm:"foreignKey:ReservationID"`
	Showtime *showtimes.Showtime `json:"-" gorm:"foreignKey:ShowtimeID"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// ReservationSeat is one claimed seat. ShowtimeID is denormalized from the
// parent so the partial unique index on (showtime_id, seat_id) among rows
// with released_at IS NULL can guard double-booking at the storage level.
type ReservationSeat struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ReservationID  uuid.UUID `json:"reservation_id" gorm:"type:uuid;not null;index"`
	ShowtimeID     uuid.UUID `json:"showtime_id" gorm:"type:uuid;not null"`
	SeatID         uuid.UUID `json:"seat_id" gorm:"type:uuid;not null"`
	PriceAtBooking float64   `json:"price_at_booking" gorm:"not null"`

	// ReleasedAt is stamped when the claim is cancelled or expired,
	// freeing the (showtime_id, seat_id) slot.
	ReleasedAt *time.Time `json:"released_at,omitempty"`

	Seat *theaters.Seat `json:"-" gorm:"foreignKey:SeatID"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

type CreateReservationRequest struct {
	ShowtimeID string   `json:"showtime_id" binding:"required,uuid"`
	SeatIDs    []string `json:"seat_ids" binding:"required,min=1,max=10,dive,uuid"`
}

type ReservedSeatInfo struct {
	SeatID         string  `json:"seat_id"`
	Label          string  `json:"label"`
	Row            string  `json:"row"`
	Number         int     `json:"number"`
	PriceAtBooking float64 `json:"price_at_booking"`
	ExtraPrice     float64 `json:"extra_price"`
}

type ReservationResponse struct {
	ID          string             `json:"id"`
	UserID      string             `json:"user_id"`
	ShowtimeID  string             `json:"showtime_id"`
	Status      Status             `json:"status"`
	TotalPrice  float64            `json:"total_price"`
	ExpiresAt   time.Time          `json:"expires_at"`
	CancelledAt *time.Time         `json:"cancelled_at,omitempty"`
	Seats       []ReservedSeatInfo `json:"seats"`
	Showtime    *ShowtimeSummary   `json:"showtime,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

type ShowtimeSummary struct {
	MovieTitle  string    `json:"movie_title,omitempty"`
	TheaterName string    `json:"theater_name,omitempty"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
}

type ReservationListQuery struct {
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Status string `form:"status" binding:"omitempty,oneof=HELD BOOKED CANCELLED EXPIRED"`
}

type PaginatedReservations struct {
	Reservations []ReservationResponse `json:"reservations"`
	TotalCount   int64                 `json:"total_count"`
	Page         int                   `json:"page"`
	Limit        int                   `json:"limit"`
	TotalPages   int                   `json:"total_pages"`
}

func (r *Reservation) ToResponse() ReservationResponse {
	seats := make([]ReservedSeatInfo, len(r.Seats))
	for i, rs := range r.Seats {
		info := ReservedSeatInfo{
			SeatID:         rs.SeatID.String(),
			PriceAtBooking: rs.PriceAtBooking,
		}
		if rs.Seat != nil {
			info.Label = rs.Seat.Label
			info.Row = rs.Seat.Row
			info.Number = rs.Seat.Number
			info.ExtraPrice = rs.Seat.ExtraPrice
		}
		seats[i] = info
	}

	resp := ReservationResponse{
		ID:          r.ID.String(),
		UserID:      r.UserID.String(),
		ShowtimeID:  r.ShowtimeID.String(),
		Status:      r.Status,
		TotalPrice:  r.TotalPrice,
		ExpiresAt:   r.ExpiresAt,
		CancelledAt: r.CancelledAt,
		Seats:       seats,
		CreatedAt:   r.CreatedAt,
	}

	if r.Showtime != nil {
		summary := &ShowtimeSummary{
			StartTime: r.Showtime.StartTime,
			EndTime:   r.Showtime.EndTime,
		}
		if r.Showtime.Movie != nil {
			summary.MovieTitle = r.Showtime.Movie.Title
		}
		if r.Showtime.Theater != nil {
			summary.TheaterName = r.Showtime.Theater.Name
		}
		resp.Showtime = summary
	}

	return resp
}

// TableName specifies the table name for GORM
func (Reservation) TableName() string {
	return "reservations"
}

// TableName specifies the table name for GORM
func (ReservationSeat) TableName() string {
	return "reservation_seats"
}
