package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"chat-history/config"
	"chat-history/internal/domain"
	"chat-history/internal/repository"
	"chat-history/internal/services"
	"chat-history/pkg/database"

	"gorm.io/gorm"
)

const usage = `
Chat History - Database CLI Tool

Usage:
  migrate [command] [flags]

Commands:
  up          Create or update the accounts, chat_sessions and chat_messages tables
  status      Show database connection status and row counts
  seed-dev    Seed demo accounts, sessions and messages and print access tokens
  truncate    Delete all rows (DANGEROUS)

Flags:
  -password string   Password for seeded accounts (default "Passw0rd!")

Examples:
  go run cmd/migrate/main.go up
  go run cmd/migrate/main.go seed-dev
  go run cmd/migrate/main.go status
`

func main() {
	password := flag.String("password", database.DefaultSeedConfig().Password, "Password for seeded accounts")

	flag.Usage = func() {
		fmt.Print(usage)
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	command := flag.Arg(0)

	cfg := config.LoadConfig()
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	switch command {
	case "up":
		runMigrationsUp(db)
	case "status":
		showStatus(db)
	case "seed-dev":
		runSeedDevelopment(db, cfg, *password)
	case "truncate":
		runTruncate(db)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}

func runMigrationsUp(db *gorm.DB) {
	log.Println("Running migrations UP...")

	if err := repository.InitSchema(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migrations completed successfully")
}

func showStatus(db *gorm.DB) {
	log.Println("Checking database status...")

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Database handle unavailable: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Database connection: OK")

	for _, table := range []string{"accounts", "chat_sessions", "chat_messages"} {
		if !database.TableExists(db, table) {
			log.Printf("Table %-15s does not exist", table)
			continue
		}
		count, err := database.GetTableCount(db, table)
		if err != nil {
			log.Printf("Error counting table %s: %v", table, err)
			continue
		}
		log.Printf("Table %-15s exists (%d rows)", table, count)
	}
}

func runSeedDevelopment(db *gorm.DB, cfg *config.Config, password string) {
	log.Println("Seeding database (development mode)...")

	seedCfg := database.DefaultSeedConfig()
	seedCfg.Password = password
	result, err := database.SeedDevelopment(db, seedCfg)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seed Summary:")
	log.Printf("   - Accounts: %d", len(result.Accounts))
	log.Printf("   - Sessions: %d", len(result.Sessions))
	log.Printf("   - Messages: %d", len(result.Messages))

	auth := services.NewAuthService(repository.NewAccountRepository(db), cfg)
	for _, a := range result.Accounts {
		token, _, err := auth.IssueAccessToken(domain.AccountPrincipal(a.ID))
		if err != nil {
			log.Fatalf("Issuing token for %s failed: %v", a.Username, err)
		}
		log.Printf("   - %s (id %d) token: %s", a.Username, a.ID, token)
	}
	guest, _, err := auth.IssueAccessToken(domain.GuestPrincipal())
	if err != nil {
		log.Fatalf("Issuing guest token failed: %v", err)
	}
	log.Printf("   - guest token: %s", guest)
	log.Println("Development seeding completed")
}

func runTruncate(db *gorm.DB) {
	log.Println("WARNING: This will delete all rows!")

	if err := database.TruncateAll(db); err != nil {
		log.Fatalf("Truncate failed: %v", err)
	}

	log.Println("All tables truncated")
}
