package main

import (
	"context"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"spendscope/adapters/llm"
	"spendscope/adapters/postgres"
	"spendscope/app"
	"spendscope/internal"
	"spendscope/internal/api"
	"spendscope/internal/config"
	"spendscope/internal/errors"
	"spendscope/internal/migration"
	"spendscope/ports"
)

// initDatabase connects to PostgreSQL and applies migrations.
func initDatabase(appConfig *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	migrator := migration.NewRunner()
	if err := migrator.Run(context.Background(), db); err != nil {
		return nil, errors.Wrap(err, "database migration failed")
	}
	return db, nil
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := initDatabase(appConfig)
	if err != nil {
		log.Fatal("Failed to initialize database: ", err)
	}
	defer db.Close()

	logger := internal.DefaultLogger

	sessionRepo := postgres.NewSessionRepository(db)
	recordRepo := postgres.NewRecordRepository(db)
	costRepo := postgres.NewCostRepository(db)

	uploadService := app.NewUploadService(sessionRepo, recordRepo, appConfig.Upload.PreviewRows, logger)
	analyticsService := app.NewAnalyticsService(sessionRepo, recordRepo)
	costService := app.NewCostVarianceService(costRepo, logger)

	// Narrative reports need an API key; everything else runs without one.
	// The streamer stays a nil interface when disabled, so Enabled() is
	// accurate.
	var streamer ports.ReportStreamer
	if appConfig.AI.OpenAIKey != "" {
		client, err := llm.NewClient(llm.Config{
			APIKey:  appConfig.AI.OpenAIKey,
			BaseURL: appConfig.AI.BaseURL,
			Timeout: 120 * time.Second,
		})
		if err != nil {
			log.Fatalf("Failed to create LLM client: %v", err)
		}
		streamer = client
		log.Println("Narrative report generation enabled")
	} else {
		log.Println("OPENAI_API_KEY not set, narrative reports disabled")
	}

	reportService := app.NewReportService(analyticsService, streamer, app.ReportConfig{
		Model:       appConfig.AI.Model,
		MaxTokens:   appConfig.AI.MaxTokens,
		Temperature: appConfig.AI.Temperature,
	}, logger)

	server := api.NewServer(api.Config{
		Upload:       uploadService,
		Analytics:    analyticsService,
		Cost:         costService,
		Report:       reportService,
		MaxFileBytes: appConfig.Upload.MaxFileBytes,
	})

	log.Fatal(server.Start(appConfig.Server.Port))
}
