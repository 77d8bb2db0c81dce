package movies

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(movie *Movie) error
	GetByID(id uuid.UUID) (*Movie, error)
	Update(id uuid.UUID, updates map[string]interface{}) (*Movie, error)
	Delete(id uuid.UUID) error
	GetAll(query MovieListQuery) ([]Movie, int64, error)
	CountShowtimes(movieID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(movie *Movie) error {
	return r.db.Create(movie).Error
}

func (r *repository) GetByID(id uuid.UUID) (*Movie, error) {
	var movie Movie
	err := r.db.Where("id = ?", id).First(&movie).Error
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

func (r *repository) Update(id uuid.UUID, updates map[string]interface{}) (*Movie, error) {
	var movie Movie

	if err := r.db.Where("id = ?", id).First(&movie).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&movie).Updates(updates).Error; err != nil {
		return nil, err
	}

	if err := r.db.Where("id = ?", id).First(&movie).Error; err != nil {
		return nil, err
	}

	return &movie, nil
}

func (r *repository) Delete(id uuid.UUID) error {
	return r.db.Where("id = ?", id).Delete(&Movie{}).Error
}

func (r *repository) GetAll(query MovieListQuery) ([]Movie, int64, error) {
	var movies []Movie
	var totalCount int64

	db := r.db.Model(&Movie{})

	if query.Search != "" {
		searchTerm := "%" + strings.ToLower(query.Search) + "%"
		db = db.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", searchTerm, searchTerm)
	}

	if query.Genre != "" {
		db = db.Where("LOWER(genre) = ?", strings.ToLower(query.Genre))
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

	err := db.Order("release_date DESC, title ASC").
		Offset(offset).
		Limit(query.Limit).
		Find(&movies).Error

	return movies, totalCount, err
}

// CountShowtimes counts showtimes referencing the movie. Queried through
// the table name to avoid importing the showtimes package.
func (r *repository) CountShowtimes(movieID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Table("showtimes").Where("movie_id = ?", movieID).Count(&count).Error
	return count, err
}
