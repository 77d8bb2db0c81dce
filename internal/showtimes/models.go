package showtimes

import (
	"time"

	"cinetix/internal/movies"
	"cinetix/internal/theaters"

	"github.com/google/uuid"
)

type Showtime struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	MovieID   uuid.UUID `json:"movie_id" gorm:"type:uuid;not null;index"`
	TheaterID uuid.UUID `json:"theater_id" gorm:"type:uuid;not null;index"`
	StartTime time.Time `json:"start_time" gorm:"not null;index"`
	EndTime   time.Time `json:"end_time" gorm:"not null"`
	Price     float64   `json:"price" gorm:"not null;check:price >= 0"`

	Movie   *movies.Movie     `json:"-" gorm:"foreignKey:MovieID"`
	Theater *theaters.Theater `json:"-" gorm:"foreignKey:TheaterID"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type ShowtimeResponse struct {
	ID             string    `json:"id"`
	MovieID        string    `json:"movie_id"`
	MovieTitle     string    `json:"movie_title,omitempty"`
	TheaterID      string    `json:"theater_id"`
	TheaterName    string    `json:"theater_name,omitempty"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	Price          float64   `json:"price"`
	TotalSeats     int64     `json:"total_seats"`
	AvailableSeats int64     `json:"available_seats"`
	CreatedAt      time.Time `json:"created_at"`
}

type CreateShowtimeRequest struct {
	MovieID   string    `json:"movie_id" binding:"required,uuid"`
	TheaterID string    `json:"theater_id" binding:"required,uuid"`
	StartTime time.Time `json:"start_time" binding:"required"`
	// EndTime is optional; when omitted it is derived from the movie's
	// runtime.
	EndTime time.Time `json:"end_time"`
	Price   float64   `json:"price"`
}

type ShowtimeListQuery struct {
	Page    int    `form:"page" binding:"omitempty,min=1"`
	Limit   int    `form:"limit" binding:"omitempty,min=1,max=100"`
	MovieID string `form:"movie_id" binding:"omitempty,uuid"`
	Date    string `form:"date"` // YYYY-MM-DD
}

type PaginatedShowtimes struct {
	Showtimes  []ShowtimeResponse `json:"showtimes"`
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}

// Seat map

type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "AVAILABLE"
	SeatStatusHeld      SeatStatus = "HELD"
	SeatStatusBooked    SeatStatus = "BOOKED"
)

type SeatMapEntry struct {
	SeatID     string     `json:"seat_id"`
	Label      string     `json:"label"`
	Row        string     `json:"row"`
	Number     int        `json:"number"`
	Type       string     `json:"type"`
	ExtraPrice float64    `json:"extra_price"`
	Status     SeatStatus `json:"status"`
}

type SeatMapResponse struct {
	ShowtimeID     string         `json:"showtime_id"`
	Seats          []SeatMapEntry `json:"seats"`
	TotalSeats     int            `json:"total_seats"`
	AvailableSeats int            `json:"available_seats"`
}

func (st *Showtime) ToResponse(totalSeats, reservedSeats int64) ShowtimeResponse {
	available := totalSeats - reservedSeats
	if available < 0 {
		available = 0
	}

	resp := ShowtimeResponse{
		ID:             st.ID.String(),
		MovieID:        st.MovieID.String(),
		TheaterID:      st.TheaterID.String(),
		StartTime:      st.StartTime,
		EndTime:        st.EndTime,
		Price:          st.Price,
		TotalSeats:     totalSeats,
		AvailableSeats: available,
		CreatedAt:      st.CreatedAt,
	}
	if st.Movie != nil {
		resp.MovieTitle = st.Movie.Title
	}
	if st.Theater != nil {
		resp.TheaterName = st.Theater.Name
	}
	return resp
}

// TableName specifies the table name for GORM
func (Showtime) TableName() string {
	return "showtimes"
}
