package theaters

import (
	"errors"
	"fmt"
	"math"

	"cinetix/internal/shared/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service interface {
	CreateTheater(req CreateTheaterRequest) (*TheaterResponse, error)
	GetTheaterByID(id uuid.UUID) (*TheaterResponse, error)
	UpdateTheater(id uuid.UUID, req UpdateTheaterRequest) (*TheaterResponse, error)
	DeleteTheater(id uuid.UUID) error
	GetAllTheaters() ([]TheaterResponse, error)

	AddSeat(theaterID uuid.UUID, req AddSeatRequest) (*SeatResponse, error)
	GetSeats(theaterID uuid.UUID, query SeatListQuery) (*PaginatedSeats, error)
	DeleteSeat(theaterID, seatID uuid.UUID) error

	// GetSeatsForShowtime resolves a seat selection against a theater,
	// used by the reservations service.
	GetSeatsForShowtime(theaterID uuid.UUID, seatIDs []uuid.UUID) ([]Seat, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateTheater(req CreateTheaterRequest) (*TheaterResponse, error) {
	theater := &Theater{
		Name:     req.Name,
		Location: req.Location,
	}

	seats := buildSeatGrid(req.Rows, req.SeatsPerRow)

	if err := s.repo.CreateWithSeats(theater, seats); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.ErrDuplicateTheaterName
		}
		return nil, fmt.Errorf("failed to create theater: %w", err)
	}

	response := theater.ToResponse(int64(len(seats)))
	return &response, nil
}

func (s *service) GetTheaterByID(id uuid.UUID) (*TheaterResponse, error) {
	theater, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTheaterNotFound
		}
		return nil, fmt.Errorf("failed to get theater: %w", err)
	}

	seatCount, err := s.repo.CountSeats(id)
	if err != nil {
		return nil, fmt.Errorf("failed to count seats: %w", err)
	}

	response := theater.ToResponse(seatCount)
	return &response, nil
}

func (s *service) UpdateTheater(id uuid.UUID, req UpdateTheaterRequest) (*TheaterResponse, error) {
	if _, err := s.repo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTheaterNotFound
		}
		return nil, fmt.Errorf("failed to get theater: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}

	theater, err := s.repo.Update(id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.ErrDuplicateTheaterName
		}
		return nil, fmt.Errorf("failed to update theater: %w", err)
	}

	seatCount, err := s.repo.CountSeats(id)
	if err != nil {
		return nil, fmt.Errorf("failed to count seats: %w", err)
	}

	response := theater.ToResponse(seatCount)
	return &response, nil
}

func (s *service) DeleteTheater(id uuid.UUID) error {
	if _, err := s.repo.GetByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.ErrTheaterNotFound
		}
		return fmt.Errorf("failed to get theater: %w", err)
	}

	count, err := s.repo.CountShowtimes(id)
	if err != nil {
		return fmt.Errorf("failed to check theater showtimes: %w", err)
	}
	if count > 0 {
		return errs.ErrTheaterHasShowtimes
	}

	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete theater: %w", err)
	}

	return nil
}

func (s *service) GetAllTheaters() ([]TheaterResponse, error) {
	theaters, err := s.repo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get theaters: %w", err)
	}

	responses := make([]TheaterResponse, len(theaters))
	for i, theater := range theaters {
		seatCount, err := s.repo.CountSeats(theater.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count seats: %w", err)
		}
		responses[i] = theater.ToResponse(seatCount)
	}

	return responses, nil
}

func (s *service) AddSeat(theaterID uuid.UUID, req AddSeatRequest) (*SeatResponse, error) {
	if _, err := s.repo.GetByID(theaterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTheaterNotFound
		}
		return nil, fmt.Errorf("failed to get theater: %w", err)
	}

	seatType := req.Type
	if seatType == "" {
		seatType = SeatTypeStandard
	}

	seat := &Seat{
		TheaterID:  theaterID,
		Label:      BuildSeatLabel(req.Row, req.Number),
		Row:        req.Row,
		Number:     req.Number,
		Type:       seatType,
		ExtraPrice: req.ExtraPrice,
	}

	if err := s.repo.CreateSeat(seat); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.ErrDuplicateSeatLabel
		}
		return nil, fmt.Errorf("failed to create seat: %w", err)
	}

	response := seat.ToResponse()
	return &response, nil
}

func (s *service) GetSeats(theaterID uuid.UUID, query SeatListQuery) (*PaginatedSeats, error) {
	if _, err := s.repo.GetByID(theaterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTheaterNotFound
		}
		return nil, fmt.Errorf("failed to get theater: %w", err)
	}

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 100
	}

	seats, totalCount, err := s.repo.GetSeats(theaterID, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get seats: %w", err)
	}

	responses := make([]SeatResponse, len(seats))
	for i, seat := range seats {
		responses[i] = seat.ToResponse()
	}

	totalPages := int(math.Ceil(float64(totalCount) / float64(query.Limit)))

	return &PaginatedSeats{
		Seats:      responses,
		TotalCount: totalCount,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *service) DeleteSeat(theaterID, seatID uuid.UUID) error {
	seat, err := s.repo.GetSeatByID(seatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.ErrSeatNotFound
		}
		return fmt.Errorf("failed to get seat: %w", err)
	}
	if seat.TheaterID != theaterID {
		return errs.ErrSeatNotFound
	}

	count, err := s.repo.CountSeatReservations(seatID)
	if err != nil {
		return fmt.Errorf("failed to check seat reservations: %w", err)
	}
	if count > 0 {
		return errs.ErrSeatHasReservations
	}

	if err := s.repo.DeleteSeat(seatID); err != nil {
		return fmt.Errorf("failed to delete seat: %w", err)
	}

	return nil
}

func (s *service) GetSeatsForShowtime(theaterID uuid.UUID, seatIDs []uuid.UUID) ([]Seat, error) {
	seats, err := s.repo.GetSeatsByIDs(theaterID, seatIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve seats: %w", err)
	}
	if len(seats) != len(seatIDs) {
		return nil, errs.ErrSeatNotInTheater
	}
	return seats, nil
}

// buildSeatGrid generates a rows x seatsPerRow grid with rows labelled A..Z.
func buildSeatGrid(rows, seatsPerRow int) []Seat {
	if rows <= 0 || seatsPerRow <= 0 {
		return nil
	}

	seats := make([]Seat, 0, rows*seatsPerRow)
	for r := 0; r < rows; r++ {
		rowLabel := string(rune('A' + r))
		for n := 1; n <= seatsPerRow; n++ {
			seats = append(seats, Seat{
				Label:  BuildSeatLabel(rowLabel, n),
				Row:    rowLabel,
				Number: n,
				Type:   SeatTypeStandard,
			})
		}
	}
	return seats
}
