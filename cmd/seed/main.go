package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"cinetix/internal/movies"
	"cinetix/internal/shared/config"
	"cinetix/internal/shared/database"
	"cinetix/internal/showtimes"
	"cinetix/internal/theaters"
	"cinetix/internal/users"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting CineTix Database Seeder...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	// Clean database
	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	// Seed data
	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"payments",
		"reservation_seats",
		"reservations",
		"showtimes",
		"seats",
		"theaters",
		"movies",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Exec("SET CONSTRAINTS ALL DEFERRED").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to defer constraints: %w", err)
	}

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	if err := tx.Exec("SET CONSTRAINTS ALL IMMEDIATE").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to restore constraints: %w", err)
	}

	return tx.Commit().Error
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	if _, err := s.SeedUsers(); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	movieIDs, err := s.SeedMovies()
	if err != nil {
		return fmt.Errorf("failed to seed movies: %w", err)
	}

	theaterIDs, err := s.SeedTheaters()
	if err != nil {
		return fmt.Errorf("failed to seed theaters: %w", err)
	}

	if err := s.SeedShowtimes(movieIDs, theaterIDs); err != nil {
		return fmt.Errorf("failed to seed showtimes: %w", err)
	}

	// Clear Redis cache to ensure fresh state
	if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
		log.Printf("Warning: Failed to clear Redis cache: %v", err)
	}

	return nil
}

// SeedUsers creates 1 admin and 2 regular users
func (s *Seeder) SeedUsers() (map[string]uuid.UUID, error) {
	fmt.Println("  👤 Seeding users...")

	userIDs := make(map[string]uuid.UUID)

	// All demo accounts share the password "qwerty"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("qwerty"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	usersData := []struct {
		key       string
		firstName string
		lastName  string
		email     string
		role      users.Role
	}{
		{"admin", "Admin", "User", "admin@cinetix.dev", users.RoleAdmin},
		{"user1", "Ava", "Martin", "ava@cinetix.dev", users.RoleUser},
		{"user2", "Noah", "Patel", "noah@cinetix.dev", users.RoleUser},
	}

	for _, userData := range usersData {
		user := users.User{
			ID:        uuid.New(),
			FirstName: userData.firstName,
			LastName:  userData.lastName,
			Email:     userData.email,
			Password:  string(hashedPassword),
			Role:      userData.role,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", userData.email, err)
		}

		userIDs[userData.key] = user.ID
		fmt.Printf("    ✅ Created user: %s (%s)\n", user.Email, user.Role)
	}

	return userIDs, nil
}

// SeedMovies creates the demo movie catalog
func (s *Seeder) SeedMovies() ([]uuid.UUID, error) {
	fmt.Println("  🎬 Seeding movies...")

	var movieIDs []uuid.UUID

	moviesData := []movies.Movie{
		{
			Title:           "Midnight Orbit",
			Description:     "A stranded crew races a decaying orbit to bring their station home.",
			DurationMinutes: 128,
			Genre:           "Sci-Fi",
			Rating:          "PG-13",
			ReleaseDate:     time.Date(2026, 6, 12, 0, 0, 0, 0, time.UTC),
		},
		{
			Title:           "The Last Reel",
			Description:     "A projectionist discovers an unfinished film that predicts the future.",
			DurationMinutes: 104,
			Genre:           "Drama",
			Rating:          "PG",
			ReleaseDate:     time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC),
		},
		{
			Title:           "Grift City",
			Description:     "Two rival con artists are forced into one last job together.",
			DurationMinutes: 117,
			Genre:           "Thriller",
			Rating:          "R",
			ReleaseDate:     time.Date(2026, 8, 7, 0, 0, 0, 0, time.UTC),
		},
	}

	for i := range moviesData {
		moviesData[i].ID = uuid.New()
		if err := s.db.PostgreSQL.Create(&moviesData[i]).Error; err != nil {
			return nil, fmt.Errorf("failed to create movie %s: %w", moviesData[i].Title, err)
		}
		movieIDs = append(movieIDs, moviesData[i].ID)
		fmt.Printf("    ✅ Created movie: %s (%d min)\n", moviesData[i].Title, moviesData[i].DurationMinutes)
	}

	return movieIDs, nil
}

// SeedTheaters creates demo theaters with full seat grids
func (s *Seeder) SeedTheaters() ([]uuid.UUID, error) {
	fmt.Println("  🏛️ Seeding theaters...")

	var theaterIDs []uuid.UUID

	theatersData := []struct {
		name        string
		location    string
		rows        int
		seatsPerRow int
	}{
		{"Grand Screen 1", "Downtown", 8, 12},
		{"Grand Screen 2", "Downtown", 6, 10},
		{"Riverside IMAX", "Riverside Mall", 10, 16},
	}

	for _, theaterData := range theatersData {
		theater := theaters.Theater{
			ID:       uuid.New(),
			Name:     theaterData.name,
			Location: theaterData.location,
		}

		var seats []theaters.Seat
		for r := 0; r < theaterData.rows; r++ {
			row := string(rune('A' + r))
			for n := 1; n <= theaterData.seatsPerRow; n++ {
				seatType := theaters.SeatTypeStandard
				extraPrice := 0.0
				// Last two rows are premium with a surcharge
				if r >= theaterData.rows-2 {
					seatType = theaters.SeatTypePremium
					extraPrice = 3.50
				}
				seats = append(seats, theaters.Seat{
					ID:         uuid.New(),
					TheaterID:  theater.ID,
					Label:      theaters.BuildSeatLabel(row, n),
					Row:        row,
					Number:     n,
					Type:       seatType,
					ExtraPrice: extraPrice,
				})
			}
		}

		tx := s.db.PostgreSQL.Begin()
		if err := tx.Create(&theater).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to create theater %s: %w", theater.Name, err)
		}
		if err := tx.CreateInBatches(seats, 200).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to create seats for %s: %w", theater.Name, err)
		}
		if err := tx.Commit().Error; err != nil {
			return nil, err
		}

		theaterIDs = append(theaterIDs, theater.ID)
		fmt.Printf("    ✅ Created theater: %s (%d seats)\n", theater.Name, len(seats))
	}

	return theaterIDs, nil
}

// SeedShowtimes schedules each movie across the demo theaters
func (s *Seeder) SeedShowtimes(movieIDs, theaterIDs []uuid.UUID) error {
	fmt.Println("  🕐 Seeding showtimes...")

	var moviesData []movies.Movie
	if err := s.db.PostgreSQL.Where("id IN ?", movieIDs).Find(&moviesData).Error; err != nil {
		return fmt.Errorf("failed to load movies: %w", err)
	}

	prices := []float64{9.50, 12.00, 15.50}
	created := 0

	// Three consecutive evening slots per theater per day, two days out
	for day := 1; day <= 2; day++ {
		base := time.Now().UTC().AddDate(0, 0, day).Truncate(24 * time.Hour).Add(17 * time.Hour)
		for ti, theaterID := range theaterIDs {
			slot := base
			for mi, movie := range moviesData {
				duration := time.Duration(movie.DurationMinutes) * time.Minute
				showtime := showtimes.Showtime{
					ID:        uuid.New(),
					MovieID:   movie.ID,
					TheaterID: theaterID,
					StartTime: slot,
					EndTime:   slot.Add(duration),
					Price:     prices[(ti+mi)%len(prices)],
				}

				if err := s.db.PostgreSQL.Create(&showtime).Error; err != nil {
					return fmt.Errorf("failed to create showtime for %s: %w", movie.Title, err)
				}
				created++

				// 15 minute turnaround between screenings
				slot = showtime.EndTime.Add(15 * time.Minute)
			}
		}
	}

	fmt.Printf("    ✅ Created %d showtimes\n", created)
	return nil
}
