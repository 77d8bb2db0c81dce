package movies

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"cinetix/internal/shared/constants"
	"cinetix/internal/shared/errs"
	"cinetix/pkg/cache"
	"cinetix/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service interface {
	SetCacheService(cacheService cache.Service)
	CreateMovie(req CreateMovieRequest) (*MovieResponse, error)
	GetMovieByID(id uuid.UUID) (*MovieResponse, error)
	UpdateMovie(id uuid.UUID, req UpdateMovieRequest) (*MovieResponse, error)
	DeleteMovie(id uuid.UUID) error
	GetAllMovies(query MovieListQuery) (*PaginatedMovies, error)
}

type service struct {
	repo         Repository
	cacheService cache.Service
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) setCache(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.Set(ctx, key, value, ttl); err != nil {
		logger.Warn("failed to cache movies", "key", key, "error", err)
	}
}

func (s *service) getCache(ctx context.Context, key string, dest interface{}) error {
	if s.cacheService == nil {
		return fmt.Errorf("cache service not available")
	}
	return s.cacheService.Get(ctx, key, dest)
}

func (s *service) invalidateMovieCache(ctx context.Context, movieID *uuid.UUID) {
	if s.cacheService == nil {
		return
	}

	patterns := []string{constants.PATTERN_INVALIDATE_MOVIES_ALL}
	if movieID != nil {
		patterns = append(patterns, constants.BuildMovieDetailKey(movieID.String())+"*")
	}

	for _, pattern := range patterns {
		if err := s.cacheService.DeletePattern(ctx, pattern); err != nil {
			logger.Warn("failed to invalidate movie cache", "pattern", pattern, "error", err)
		}
	}
}

func (s *service) CreateMovie(req CreateMovieRequest) (*MovieResponse, error) {
	movie := &Movie{
		Title:           req.Title,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Genre:           req.Genre,
		Rating:          req.Rating,
		PosterURL:       req.PosterURL,
		ReleaseDate:     req.ReleaseDate,
	}

	if err := s.repo.Create(movie); err != nil {
		return nil, fmt.Errorf("failed to create movie: %w", err)
	}

	s.invalidateMovieCache(context.Background(), nil)

	response := movie.ToResponse()
	return &response, nil
}

func (s *service) GetMovieByID(id uuid.UUID) (*MovieResponse, error) {
	ctx := context.Background()
	cacheKey := constants.BuildMovieDetailKey(id.String())

	var cached MovieResponse
	if err := s.getCache(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	movie, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrMovieNotFound
		}
		return nil, fmt.Errorf("failed to get movie: %w", err)
	}

	response := movie.ToResponse()
	s.setCache(ctx, cacheKey, response, constants.TTL_MOVIE_DETAIL)

	return &response, nil
}

func (s *service) UpdateMovie(id uuid.UUID, req UpdateMovieRequest) (*MovieResponse, error) {
	if _, err := s.repo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrMovieNotFound
		}
		return nil, fmt.Errorf("failed to get movie: %w", err)
	}

	updates := make(map[string]interface{})

	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.DurationMinutes != nil {
		updates["duration_minutes"] = *req.DurationMinutes
	}
	if req.Genre != nil {
		updates["genre"] = *req.Genre
	}
	if req.Rating != nil {
		updates["rating"] = *req.Rating
	}
	if req.PosterURL != nil {
		updates["poster_url"] = *req.PosterURL
	}
	if req.ReleaseDate != nil {
		updates["release_date"] = *req.ReleaseDate
	}
	updates["updated_at"] = time.Now()

	movie, err := s.repo.Update(id, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to update movie: %w", err)
	}

	s.invalidateMovieCache(context.Background(), &id)

	response := movie.ToResponse()
	return &response, nil
}

func (s *service) DeleteMovie(id uuid.UUID) error {
	if _, err := s.repo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.ErrMovieNotFound
		}
		return fmt.Errorf("failed to get movie: %w", err)
	}

	// Refuse deletion while showtimes still reference the movie
	count, err := s.repo.CountShowtimes(id)
	if err != nil {
		return fmt.Errorf("failed to check movie showtimes: %w", err)
	}
	if count > 0 {
		return errs.ErrMovieHasShowtimes
	}

	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete movie: %w", err)
	}

	s.invalidateMovieCache(context.Background(), &id)
	return nil
}

func (s *service) GetAllMovies(query MovieListQuery) (*PaginatedMovies, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	ctx := context.Background()
	cacheKey := constants.BuildMoviesListKey(query.Page, query.Limit, query.Genre, query.Search)

	var cached PaginatedMovies
	if err := s.getCache(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	movies, totalCount, err := s.repo.GetAll(query)
	if err != nil {
		return nil, fmt.Errorf("failed to get movies: %w", err)
	}

	responses := make([]MovieResponse, len(movies))
	for i, movie := range movies {
		responses[i] = movie.ToResponse()
	}

	totalPages := int(math.Ceil(float64(totalCount) / float64(query.Limit)))

	result := &PaginatedMovies{
		Movies:     responses,
		TotalCount: totalCount,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: totalPages,
	}

	s.setCache(ctx, cacheKey, result, constants.TTL_MOVIES_LIST)

	return result, nil
}
