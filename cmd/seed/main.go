// Command seed loads a deterministic synthetic spend batch into the
// database, for demos and local development without a real export file.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strconv"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"spendscope/adapters/postgres"
	"spendscope/domain/core"
	"spendscope/domain/spend"
	"spendscope/internal/migration"
	"spendscope/internal/testkit"
)

func main() {
	count := flag.Int("count", 200, "number of records to generate")
	seed := flag.Int64("seed", 42, "random seed")
	flag.Parse()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := migration.NewRunner().Run(ctx, db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	generatorConfig := testkit.DefaultSpendConfig()
	generatorConfig.RecordCount = *count
	generatorConfig.Seed = *seed
	generator := testkit.NewSpendDataGenerator(generatorConfig)
	records := generator.GenerateRecords()

	sessionRepo := postgres.NewSessionRepository(db)
	recordRepo := postgres.NewRecordRepository(db)

	session := &spend.Session{
		ID:        core.SessionID(core.NewID()),
		FileHash:  "seed-" + strconv.FormatInt(*seed, 10),
		FileName:  "synthetic_spend.csv",
		Period:    "2026",
		TotalRows: len(records),
		Status:    spend.SessionPending,
	}
	if err := sessionRepo.CreateSession(ctx, session); err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}

	inserted, err := recordRepo.InsertRecords(ctx, session.ID, records)
	if err != nil {
		log.Fatalf("Failed to insert records: %v", err)
	}
	if err := sessionRepo.UpdateSessionStatus(ctx, session.ID, spend.SessionCompleted, inserted, 0); err != nil {
		log.Fatalf("Failed to update session status: %v", err)
	}

	log.Printf("Seeded session %s with %d records", session.ID, inserted)
}
