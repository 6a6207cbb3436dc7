package main

import (
	"log"
	"os"

	migrate "github.com/rubenv/sql-migrate"

	"github.com/johnquangdev/meeting-summarizer/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-summarizer/pkg/config"
)

// Applies the SQL migrations under migrations/ to the configured
// Postgres database. Run this before first boot and after pulling
// schema changes; the API process only auto-migrates outside
// production.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("connect to postgres: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("unwrap sql handle: %v", err)
	}

	source := &migrate.FileMigrationSource{Dir: "migrations"}
	applied, err := migrate.Exec(sqlDB, "postgres", source, migrate.Up)
	if err != nil {
		log.Fatalf("migrate up: %v", err)
	}

	log.Printf("✅ %d migration(s) applied", applied)
	os.Exit(0)
}
