package movies

import (
	"time"

	"github.com/google/uuid"
)

type Movie struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Title           string    `json:"title" gorm:"not null;size:255"`
	Description     string    `json:"description" gorm:"type:text"`
	DurationMinutes int       `json:"duration_minutes" gorm:"not null;check:duration_minutes > 0"`
	Genre           string    `json:"genre" gorm:"size:100;index"`
	Rating          string    `json:"rating" gorm:"size:10"`
	PosterURL       string    `json:"poster_url" gorm:"size:500"`
	ReleaseDate     time.Time `json:"release_date"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type MovieResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	DurationMinutes int       `json:"duration_minutes"`
	Genre           string    `json:"genre"`
	Rating          string    `json:"rating"`
	PosterURL       string    `json:"poster_url"`
	ReleaseDate     time.Time `json:"release_date"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type CreateMovieRequest struct {
	Title           string    `json:"title" binding:"required,min=1,max=255"`
	Description     string    `json:"description" binding:"max=2000"`
	DurationMinutes int       `json:"duration_minutes" binding:"required,min=1,max=600"`
	Genre           string    `json:"genre" binding:"max=100"`
	Rating          string    `json:"rating" binding:"omitempty,oneof=G PG PG-13 R NC-17"`
	PosterURL       string    `json:"poster_url" binding:"omitempty,url"`
	ReleaseDate     time.Time `json:"release_date"`
}

type UpdateMovieRequest struct {
	Title           *string    `json:"title" binding:"omitempty,min=1,max=255"`
	Description     *string    `json:"description" binding:"omitempty,max=2000"`
	DurationMinutes *int       `json:"duration_minutes" binding:"omitempty,min=1,max=600"`
	Genre           *string    `json:"genre" binding:"omitempty,max=100"`
	Rating          *string    `json:"rating" binding:"omitempty,oneof=G PG PG-13 R NC-17"`
	PosterURL       *string    `json:"poster_url" binding:"omitempty,url"`
	ReleaseDate     *time.Time `json:"release_date"`
}

type MovieListQuery struct {
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Search string `form:"search"`
	Genre  string `form:"genre"`
}

type PaginatedMovies struct {
	Movies     []MovieResponse `json:"movies"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

func (m *Movie) ToResponse() MovieResponse {
	return MovieResponse{
		ID:              m.ID.String(),
		Title:           m.Title,
		Description:     m.Description,
		DurationMinutes: m.DurationMinutes,
		Genre:           m.Genre,
		Rating:          m.Rating,
		PosterURL:       m.PosterURL,
		ReleaseDate:     m.ReleaseDate,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// TableName specifies the table name for GORM
func (Movie) TableName() string {
	return "movies"
}
