package reservations

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"cinetix/internal/shared/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// CreateWithClaim atomically claims the reservation's seats: lapsed
	// holds for the showtime are swept, active claims are checked, and
	// the reservation with its seat rows is inserted, all in one
	// serializable transaction.
	CreateWithClaim(reservation *Reservation) error

	GetByID(id uuid.UUID) (*Reservation, error)
	Confirm(id uuid.UUID) (*Reservation, error)
	Cancel(id uuid.UUID) (*Reservation, error)
	ExpireStaleHolds(batch int) ([]ExpiredHold, error)
	ListByUser(userID uuid.UUID, query ReservationListQuery) ([]Reservation, int64, error)
	ListByShowtime(showtimeID uuid.UUID) ([]Reservation, error)
}

// ExpiredHold identifies a hold the reaper released.
type ExpiredHold struct {
	ReservationID uuid.UUID
	ShowtimeID    uuid.UUID
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// claimAttempts bounds retries when the serializable claim transaction is
// aborted by the database.
const claimAttempts = 3

func (r *repository) CreateWithClaim(reservation *Reservation) error {
	seatIDs := make([]uuid.UUID, len(reservation.Seats))
	for i, seat := range reservation.Seats {
		seatIDs[i] = seat.SeatID
	}

	return claimWithRetry(func() error {
		return r.claimTx(reservation, seatIDs)
	})
}

func (r *repository) claimTx(reservation *Reservation, seatIDs []uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := expireHoldsTx(tx, reservation.ShowtimeID); err != nil {
			return err
		}

		// Active-claim pre-check. The partial unique index on
		// (showtime_id, seat_id) WHERE released_at IS NULL remains the
		// hard guard underneath it.
		var count int64
		err := tx.Table("reservation_seats rs").
			Joins("JOIN reservations res ON res.id = rs.reservation_id").
			Where("rs.showtime_id = ? AND rs.seat_id IN ? AND rs.released_at IS NULL", reservation.ShowtimeID, seatIDs).
			Where("res.status IN ('HELD', 'BOOKED')").
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return errs.ErrSeatsAlreadyReserved
		}

		if err := tx.Create(reservation).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errs.ErrSeatsAlreadyReserved
			}
			return err
		}

		return nil
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
}

// claimWithRetry re-runs a claim aborted with a serialization failure.
// A claim that still aborts after claimAttempts is losing to concurrent
// claims over the same seats, so it surfaces as a seat conflict rather
// than a raw storage error.
func claimWithRetry(claim func() error) error {
	var err error
	for attempt := 0; attempt < claimAttempts; attempt++ {
		err = claim()
		if !isSerializationFailure(err) {
			return err
		}
	}
	return errs.ErrSeatsAlreadyReserved
}

// isSerializationFailure matches the SQLSTATEs Postgres uses to abort one
// of two clashing transactions (serialization failure, deadlock). gorm's
// TranslateError has no mapping for either, so the state code is matched
// in the message like the showtime overlap constraint.
func isSerializationFailure(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 40001") || strings.Contains(msg, "SQLSTATE 40P01")
}

// lockedByID reads one reservation under FOR UPDATE so a racing confirm,
// cancel or reap serializes on the row instead of both seeing HELD.
func lockedByID(tx *gorm.DB, id uuid.UUID) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id)
}

func (r *repository) GetByID(id uuid.UUID) (*Reservation, error) {
	var reservation Reservation
	err := r.db.
		Preload("Seats").
		Preload("Seats.Seat").
		Preload("Showtime").
		Preload("Showtime.Movie").
		Preload("Showtime.Theater").
		Where("id = ?", id).
		First(&reservation).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *repository) Confirm(id uuid.UUID) (*Reservation, error) {
	var reservation Reservation

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := lockedByID(tx, id).First(&reservation).Error; err != nil {
			return err
		}

		// Confirming an already-booked reservation is a no-op
		if reservation.Status == StatusBooked {
			return nil
		}
		if !reservation.Status.CanConfirm() {
			return errs.ErrReservationTerminal
		}

		now := time.Now()
		if reservation.ExpiresAt.Before(now) {
			if err := markExpiredTx(tx, &reservation, now); err != nil {
				return err
			}
			return errs.ErrHoldExpired
		}

		// The HELD guard keeps a lost race from resurrecting a terminal
		// status even if the row lock is ever bypassed.
		result := confirmHeldTx(tx, reservation.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errs.ErrReservationTerminal
		}
		reservation.Status = StatusBooked
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *repository) Cancel(id uuid.UUID) (*Reservation, error) {
	var reservation Reservation

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := lockedByID(tx, id).First(&reservation).Error; err != nil {
			return err
		}

		if !reservation.Status.CanCancel() {
			return errs.ErrReservationTerminal
		}

		now := time.Now()
		result := cancelActiveTx(tx, reservation.ID, now)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errs.ErrReservationTerminal
		}
		if err := releaseSeatsTx(tx, reservation.ID, now); err != nil {
			return err
		}

		reservation.Status = StatusCancelled
		reservation.CancelledAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *repository) ExpireStaleHolds(batch int) ([]ExpiredHold, error) {
	var expired []ExpiredHold

	err := r.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		var stale []Reservation
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("status = ? AND expires_at <= ?", StatusHeld, now).
			Order("expires_at ASC").
			Limit(batch).
			Find(&stale).Error; err != nil {
			return err
		}
		if len(stale) == 0 {
			return nil
		}

		ids := make([]uuid.UUID, len(stale))
		for i, res := range stale {
			ids[i] = res.ID
			expired = append(expired, ExpiredHold{ReservationID: res.ID, ShowtimeID: res.ShowtimeID})
		}

		if err := tx.Model(&Reservation{}).
			Where("id IN ? AND status = ?", ids, StatusHeld).
			Update("status", StatusExpired).Error; err != nil {
			return err
		}

		return tx.Model(&ReservationSeat{}).
			Where("reservation_id IN ? AND released_at IS NULL", ids).
			Update("released_at", now).Error
	})
	if err != nil {
		return nil, err
	}
	return expired, nil
}

func (r *repository) ListByUser(userID uuid.UUID, query ReservationListQuery) ([]Reservation, int64, error) {
	var reservations []Reservation
	var totalCount int64

	db := r.db.Model(&Reservation{}).Where("user_id = ?", userID)

	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
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

	err := db.
		Preload("Seats").
		Preload("Seats.Seat").
		Preload("Showtime").
		Preload("Showtime.Movie").
		Preload("Showtime.Theater").
		Order("created_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&reservations).Error

	return reservations, totalCount, err
}

func (r *repository) ListByShowtime(showtimeID uuid.UUID) ([]Reservation, error) {
	var reservations []Reservation
	err := r.db.
		Preload("Seats").
		Preload("Seats.Seat").
		Where("showtime_id = ?", showtimeID).
		Order("created_at DESC").
		Find(&reservations).Error
	return reservations, err
}

// expireHoldsTx sweeps lapsed holds for one showtime inside the claim
// transaction, so the reaper interval never blocks a claim on seats whose
// hold already ran out.
func expireHoldsTx(tx *gorm.DB, showtimeID uuid.UUID) error {
	now := time.Now()

	var ids []uuid.UUID
	if err := tx.Model(&Reservation{}).
		Where("showtime_id = ? AND status = ? AND expires_at <= ?", showtimeID, StatusHeld, now).
		Pluck("id", &ids).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	if err := tx.Model(&Reservation{}).
		Where("id IN ?", ids).
		Update("status", StatusExpired).Error; err != nil {
		return err
	}

	return tx.Model(&ReservationSeat{}).
		Where("reservation_id IN ? AND released_at IS NULL", ids).
		Update("released_at", now).Error
}

// confirmHeldTx flips a reservation to BOOKED only while it is still HELD;
// zero rows affected means the hold was lost to a concurrent transition.
func confirmHeldTx(tx *gorm.DB, id uuid.UUID) *gorm.DB {
	return tx.Model(&Reservation{}).
		Where("id = ? AND status = ?", id, StatusHeld).
		Update("status", StatusBooked)
}

// cancelActiveTx flips a reservation to CANCELLED only from an active
// status, mirroring the confirmHeldTx guard.
func cancelActiveTx(tx *gorm.DB, id uuid.UUID, now time.Time) *gorm.DB {
	return tx.Model(&Reservation{}).
		Where("id = ? AND status IN ?", id, []Status{StatusHeld, StatusBooked}).
		Updates(map[string]interface{}{
			"status":       StatusCancelled,
			"cancelled_at": now,
		})
}

func markExpiredTx(tx *gorm.DB, reservation *Reservation, now time.Time) error {
	if err := tx.Model(reservation).
		Where("status = ?", StatusHeld).
		Update("status", StatusExpired).Error; err != nil {
		return err
	}
	reservation.Status = StatusExpired
	return releaseSeatsTx(tx, reservation.ID, now)
}

func releaseSeatsTx(tx *gorm.DB, reservationID uuid.UUID, now time.Time) error {
	return tx.Model(&ReservationSeat{}).
		Where("reservation_id = ? AND released_at IS NULL", reservationID).
		Update("released_at", now).Error
}
