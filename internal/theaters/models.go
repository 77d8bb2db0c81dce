package theaters

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type SeatType string

const (
	SeatTypeStandard   SeatType = "STANDARD"
	SeatTypePremium    SeatType = "PREMIUM"
	SeatTypeRecliner   SeatType = "RECLINER"
	SeatTypeWheelchair SeatType = "WHEELCHAIR"
)

func (t SeatType) IsValid() bool {
	switch t {
	case SeatTypeStandard, SeatTypePremium, SeatTypeRecliner, SeatTypeWheelchair:
		return true
	}
	return false
}

type Theater struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name     string    `json:"name" gorm:"uniqueIndex;not null;size:255"`
	Location string    `json:"location" gorm:"size:255"`

	Seats []Seat `json:"-" gorm:"foreignKey:TheaterID;constraint:OnDelete:CASCADE;"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Seat is a physical seat in a theater. Label is unique per theater;
// the same label can exist in different theaters.
type Seat struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	TheaterID  uuid.UUID `json:"theater_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_theater_seat_label"`
	Label      string    `json:"label" gorm:"not null;size:10;uniqueIndex:idx_theater_seat_label"`
	Row        string    `json:"row" gorm:"not null;size:5"`
	Number     int       `json:"number" gorm:"not null;check:number > 0"`
	Type       SeatType  `json:"type" gorm:"type:varchar(20);default:'STANDARD'"`
	ExtraPrice float64   `json:"extra_price" gorm:"default:0;check:extra_price >= 0"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type TheaterResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	SeatCount int64     `json:"seat_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SeatResponse struct {
	ID         string   `json:"id"`
	TheaterID  string   `json:"theater_id"`
	Label      string   `json:"label"`
	Row        string   `json:"row"`
	Number     int      `json:"number"`
	Type       SeatType `json:"type"`
	ExtraPrice float64  `json:"extra_price"`
}

type CreateTheaterRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=255"`
	Location string `json:"location" binding:"max=255"`

	// Optional seat grid generated at creation time. Rows are labelled
	// A..Z; seats run 1..SeatsPerRow within each row.
	Rows        int `json:"rows" binding:"omitempty,min=1,max=26"`
	SeatsPerRow int `json:"seats_per_row" binding:"omitempty,min=1,max=50"`
}

type UpdateTheaterRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=255"`
	Location *string `json:"location" binding:"omitempty,max=255"`
}

type AddSeatRequest struct {
	Row        string   `json:"row" binding:"required,min=1,max=5"`
	Number     int      `json:"number" binding:"required,min=1"`
	Type       SeatType `json:"type" binding:"omitempty,oneof=STANDARD PREMIUM RECLINER WHEELCHAIR"`
	ExtraPrice float64  `json:"extra_price" binding:"omitempty,min=0"`
}

type SeatListQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=500"`
}

type PaginatedSeats struct {
	Seats      []SeatResponse `json:"seats"`
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}

func (t *Theater) ToResponse(seatCount int64) TheaterResponse {
	return TheaterResponse{
		ID:        t.ID.String(),
		Name:      t.Name,
		Location:  t.Location,
		SeatCount: seatCount,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func (s *Seat) ToResponse() SeatResponse {
	return SeatResponse{
		ID:         s.ID.String(),
		TheaterID:  s.TheaterID.String(),
		Label:      s.Label,
		Row:        s.Row,
		Number:     s.Number,
		Type:       s.Type,
		ExtraPrice: s.ExtraPrice,
	}
}

// BuildSeatLabel derives the canonical label from row and number, e.g. "A12".
func BuildSeatLabel(row string, number int) string {
	return fmt.Sprintf("%s%d", row, number)
}

// TableName specifies the table name for GORM
func (Theater) TableName() string {
	return "theaters"
}

// TableName specifies the table name for GORM
func (Seat) TableName() string {
	return "seats"
}
