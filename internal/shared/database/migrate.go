package database

import (
	"cinetix/internal/movies"
	"cinetix/internal/payments"
	"cinetix/internal/reservations"
	"cinetix/internal/showtimes"
	"cinetix/internal/theaters"
	"cinetix/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&movies.Movie{},
		&theaters.Theater{},
		&theaters.Seat{},
		&showtimes.Showtime{},
		&reservations.Reservation{},
		&reservations.ReservationSeat{},
		&payments.Payment{},
	)
}
