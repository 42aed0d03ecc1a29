package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/alexedwards/argon2id"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	"github.com/PAUBookIt/book-it-backend/pkg/config"
	"github.com/PAUBookIt/book-it-backend/pkg/logger"
)

func main() {
	dir := flag.String("dir", "migrations", "directory with migration files")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		return
	}
	command := args[0]

	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		logger.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		logger.Error("Database ping failed", "error", err)
		os.Exit(1)
	}

	switch command {
	case "up":
		if err := goose.Up(db, *dir); err != nil {
			logger.Error("Migration up failed", "error", err)
			os.Exit(1)
		}
		logger.Info("Migrations applied")
	case "down":
		if err := goose.Down(db, *dir); err != nil {
			logger.Error("Migration down failed", "error", err)
			os.Exit(1)
		}
		logger.Info("Last migration rolled back")
	case "status":
		if err := goose.Status(db, *dir); err != nil {
			logger.Error("Migration status failed", "error", err)
			os.Exit(1)
		}
	case "seed-users":
		// Passwords are hashed here rather than baked into a migration file.
		if err := seedUsers(ctx, db); err != nil {
			logger.Error("User seeding failed", "error", err)
			os.Exit(1)
		}
		logger.Info("Bootstrap users seeded")
	default:
		fmt.Printf("Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}

type seedUser struct {
	role       string
	adminType  string
	normalType string
	name       string
	email      string
}

// seedUsers creates one account per role so a fresh deployment is usable
// without manual signup. Existing emails are left untouched.
func seedUsers(ctx context.Context, db *sql.DB) error {
	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		return fmt.Errorf("SEED_PASSWORD is not set")
	}

	hash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		return err
	}

	users := []seedUser{
		{role: "admin", adminType: "facility", name: "Facility Manager", email: "facility@pau.edu.ng"},
		{role: "admin", adminType: "security", name: "Security Desk", email: "security@pau.edu.ng"},
		{role: "admin", adminType: "student_affairs", name: "Student Affairs", email: "studentaffairs@pau.edu.ng"},
		{role: "normal", normalType: "student", name: "Demo Student", email: "student@pau.edu.ng"},
	}

	const q = `INSERT INTO users (role, admin_type, normal_type, name, email, password_hash, is_active)
	VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, $5, $6, true)
	ON CONFLICT (email) DO NOTHING`

	for _, u := range users {
		if _, err := db.ExecContext(ctx, q, u.role, u.adminType, u.normalType, u.name, u.email, hash); err != nil {
			return fmt.Errorf("seeding %s: %w", u.email, err)
		}
	}
	return nil
}

func usage() {
	fmt.Println("Usage: migrator [-dir migrations] COMMAND")
	fmt.Println("Commands:")
	fmt.Println("  up         - apply all pending migrations")
	fmt.Println("  down       - roll back the last migration")
	fmt.Println("  status     - show migration status")
	fmt.Println("  seed-users - create bootstrap accounts (requires SEED_PASSWORD)")
}
