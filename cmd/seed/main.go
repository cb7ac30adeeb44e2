package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"gorm.io/gorm"

	"carrental/internal/auth"
	"carrental/internal/config"
	"carrental/internal/db"
	"carrental/internal/model"
	"carrental/internal/repository"
	"carrental/internal/validator"
)

// SeedUser is one user entry of the fixture.
type SeedUser struct {
	Username string        `json:"username" validate:"required,max=255"`
	Password string        `json:"password" validate:"required,max=72"`
	Bookings []SeedBooking `json:"bookings" validate:"dive"`
}

// SeedBooking is one booking owned by a SeedUser.
type SeedBooking struct {
	CarName    string              `json:"carName" validate:"required,max=255"`
	Days       int                 `json:"days" validate:"required,min=1,max=365"`
	RentPerDay int                 `json:"rentPerDay" validate:"required,min=1,max=2000"`
	Status     model.BookingStatus `json:"status" validate:"omitempty,oneof=booked completed cancelled"`
}

func main() {
	source := flag.String("fixture", "cmd/seed/fixture.json", "path or http(s) URL of the seed fixture")
	flag.Parse()

	log.Println("Starting seed script...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close(gormDB)
	log.Println("Connected to database")

	// Run migrations to ensure schema is up to date
	if err := db.Migrate(gormDB, cfg.ResetDB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	log.Printf("Loading fixture from: %s", *source)
	users, err := loadFixture(*source)
	if err != nil {
		log.Fatalf("Failed to load fixture: %v", err)
	}
	log.Printf("Loaded %d users from fixture", len(users))

	seeder := &seeder{
		users:    repository.NewUserRepository(gormDB),
		bookings: repository.NewBookingRepository(gormDB),
		hasher:   auth.NewBcryptHasher(cfg.BcryptCost),
	}

	log.Println("Seeding users and bookings into database...")
	stats, err := seeder.seed(context.Background(), users)
	if err != nil {
		log.Fatalf("Failed to seed: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - Users created: %d", stats.users)
	log.Printf("  - Users skipped (already exist or invalid): %d", stats.skipped)
	log.Printf("  - Bookings created: %d", stats.bookings)
}

// loadFixture reads the fixture from a local file or, for http(s) sources, over the network.
func loadFixture(source string) ([]SeedUser, error) {
	var r io.ReadCloser
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		resp, err := http.Get(source)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch fixture: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fixture source returned status code: %d", resp.StatusCode)
		}
		r = resp.Body
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open fixture: %w", err)
		}
		r = f
	}
	defer r.Close()

	return parseFixture(r)
}

func parseFixture(r io.Reader) ([]SeedUser, error) {
	var users []SeedUser
	if err := json.NewDecoder(r).Decode(&users); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return users, nil
}

type seedStats struct {
	users    int
	skipped  int
	bookings int
}

type seeder struct {
	users    repository.UserRepository
	bookings repository.BookingRepository
	hasher   auth.PasswordHasher
}

// seed creates every fixture user that does not exist yet, together with its bookings.
// Existing users are left untouched so the command can be rerun.
func (s *seeder) seed(ctx context.Context, users []SeedUser) (seedStats, error) {
	var stats seedStats
	for _, item := range users {
		if err := validator.Struct(item); err != nil {
			log.Printf("Skipping invalid user %q: %v", item.Username, err)
			stats.skipped++
			continue
		}

		_, err := s.users.FindByUsername(ctx, item.Username)
		if err == nil {
			stats.skipped++
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return stats, fmt.Errorf("error checking user %s: %w", item.Username, err)
		}

		hash, err := s.hasher.Hash(item.Password)
		if err != nil {
			return stats, fmt.Errorf("error hashing password for %s: %w", item.Username, err)
		}
		user := &model.User{Username: item.Username, PasswordHash: hash}
		if err := s.users.Create(ctx, user); err != nil {
			return stats, fmt.Errorf("error creating user %s: %w", item.Username, err)
		}
		stats.users++

		for _, b := range item.Bookings {
			status := b.Status
			if status == "" {
				status = model.BookingStatusBooked
			}
			booking := &model.Booking{
				UserID:     user.ID,
				CarName:    b.CarName,
				Days:       b.Days,
				RentPerDay: b.RentPerDay,
				Status:     status,
			}
			if err := s.bookings.Create(ctx, booking); err != nil {
				return stats, fmt.Errorf("error creating booking for %s: %w", item.Username, err)
			}
			stats.bookings++
		}
	}
	return stats, nil
}
