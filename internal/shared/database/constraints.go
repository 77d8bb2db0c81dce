package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds the database constraints that carry the
// concurrency guarantees. The application-level pre-checks are fast-path
// rejections only; these constraints are the actual safety net.
func MigrateConstraints(db *gorm.DB) error {
	// One active claim per (showtime, seat). Cancelled and expired rows
	// keep their history but stop blocking once released_at is stamped.
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uniq_active_showtime_seat
		ON reservation_seats (showtime_id, seat_id)
		WHERE released_at IS NULL;
	`).Error
	if err != nil {
		return err
	}

	// A theater cannot host two showtimes with overlapping [start, end)
	// windows. Closes the race between the overlap pre-check and the
	// insert.
	err = db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist;`).Error
	if err != nil {
		return err
	}
	err = db.Exec(`
		DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1 FROM pg_constraint WHERE conname = 'excl_theater_showtime_overlap'
			) THEN
				ALTER TABLE showtimes
				ADD CONSTRAINT excl_theater_showtime_overlap
				EXCLUDE USING gist (
					theater_id WITH =,
					tsrange(start_time, end_time) WITH &&
				);
			END IF;
		END
		$$;
	`).Error
	if err != nil {
		return err
	}

	// Index for seat availability lookups during claims
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_reservation_seats_showtime_seat
		ON reservation_seats (showtime_id, seat_id);
	`).Error
	if err != nil {
		return err
	}

	// Index for the hold reaper's sweep over stale HELD rows
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_reservations_status_expires
		ON reservations (status, expires_at);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
