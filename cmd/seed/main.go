package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"ticketflow/internal/events"
	"ticketflow/internal/shared/config"
	"ticketflow/internal/shared/database"
	"ticketflow/internal/shared/middleware"
	"ticketflow/internal/users"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db  *database.DB
	cfg *config.Config
}

func main() {
	fmt.Println("🌱 Starting TicketFlow Database Seeder...")

	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	db, err := database.InitDB(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db, cfg: cfg}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	seeded, err := seeder.SeedAll(ctx)
	if err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🔑 Development access tokens:")
	for _, u := range seeded {
		token, err := middleware.GenerateAccessToken(cfg.JWT.Secret, u, cfg.JWT.JWTExpiresIn)
		if err != nil {
			log.Fatalf("Failed to sign token for %s: %v", u.Email, err)
		}
		fmt.Printf("  %-9s %s\n    %s\n", u.Role, u.Email, token)
	}

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase empties every table, dependents first.
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"cancellations",
		"invitations",
		"tickets",
		"events",
		"users",
	}

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := s.db.PostgreSQL.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}
	return nil
}

// SeedAll seeds users and events and returns the created users.
func (s *Seeder) SeedAll(ctx context.Context) ([]*users.User, error) {
	seeded, err := s.SeedUsers()
	if err != nil {
		return nil, fmt.Errorf("failed to seed users: %w", err)
	}

	var providerID uuid.UUID
	for _, u := range seeded {
		if u.Role == users.RoleProvider {
			providerID = u.ID
			break
		}
	}
	if err := s.SeedEvents(providerID); err != nil {
		return nil, fmt.Errorf("failed to seed events: %w", err)
	}

	// Cached views and rate overrides start fresh
	if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
		log.Printf("Warning: Failed to clear Redis cache: %v", err)
	}
	return seeded, nil
}

// SeedUsers creates one user per role plus a second customer
func (s *Seeder) SeedUsers() ([]*users.User, error) {
	fmt.Println("  👤 Seeding users...")

	// every demo user signs in with "qwerty"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("qwerty"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	usersData := []struct {
		firstName string
		lastName  string
		email     string
		role      users.Role
	}{
		{"Admin", "User", "admin@ticketflow.dev", users.RoleAdmin},
		{"Paula", "Provider", "provider@ticketflow.dev", users.RoleProvider},
		{"Sam", "Staff", "staff@ticketflow.dev", users.RoleStaff},
		{"Casey", "Customer", "customer@ticketflow.dev", users.RoleCustomer},
		{"Jordan", "Lee", "jordan@ticketflow.dev", users.RoleCustomer},
	}

	var created []*users.User
	for _, userData := range usersData {
		user := &users.User{
			ID:        uuid.New(),
			FirstName: userData.firstName,
			LastName:  userData.lastName,
			Email:     userData.email,
			Password:  string(hashedPassword),
			Role:      userData.role,
		}
		if err := s.db.PostgreSQL.Create(user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", userData.email, err)
		}

		created = append(created, user)
		fmt.Printf("    ✅ Created user: %s (%s)\n", user.Email, user.Role)
	}
	return created, nil
}

// SeedEvents creates a handful of upcoming events owned by providerID.
func (s *Seeder) SeedEvents(providerID uuid.UUID) error {
	fmt.Println("  🎫 Seeding events...")

	now := time.Now().UTC().Truncate(time.Hour)
	eventsData := []struct {
		title   string
		venue   string
		price   string
		tickets int
		inDays  int
		hot     bool
	}{
		{"Summer Jazz Night", "Riverside Amphitheatre", "45.00", 200, 14, true},
		{"Go Meetup: Concurrency Patterns", "Innovation Hub, Room 2", "0", 60, 7, false},
		{"Indie Film Premiere", "Grand Cinema", "12.50", 120, 21, false},
		{"Sold Out Test Show", "Basement Club", "25.00", 1, 3, true},
	}

	for _, data := range eventsData {
		date := now.AddDate(0, 0, data.inDays)
		event := &events.Event{
			Title:            data.title,
			Description:      fmt.Sprintf("%s at %s.", data.title, data.venue),
			Date:             &date,
			Venue:            data.venue,
			TicketPrice:      decimal.RequireFromString(data.price),
			TotalTickets:     data.tickets,
			TicketsAvailable: data.tickets,
			IsHot:            data.hot,
			ProviderID:       providerID,
		}
		if err := s.db.PostgreSQL.Create(event).Error; err != nil {
			return fmt.Errorf("failed to create event %s: %w", data.title, err)
		}
		fmt.Printf("    ✅ Created event: %s (%d tickets at %s)\n", event.Title, event.TotalTickets, event.TicketPrice.StringFixed(2))
	}
	return nil
}
