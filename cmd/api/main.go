package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"acquisition_valuation/pkg/api/analysis"
	"acquisition_valuation/pkg/config"
	"acquisition_valuation/pkg/core/ingest"
	"acquisition_valuation/pkg/core/pipeline"
	"acquisition_valuation/pkg/core/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg(".env file not found, assuming environment variables are set")
	}

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("ASSUMPTIONS_CONFIG"))
	if err != nil {
		logger.Fatal().Err(err).Msg("config load failed")
	}

	ctx := context.Background()
	provider := ingest.NewDemoProvider()

	opts := pipeline.Options{
		Financials:      provider,
		Classifier:      provider,
		Peers:           provider,
		Market:          cfg.Market,
		Deal:            cfg.Deal,
		ProjectionYears: cfg.ProjectionYears,
		Logger:          logger,
	}

	if url := os.Getenv("DATABASE_URL"); url != "" {
		pool, err := store.Connect(ctx, url)
		if err != nil {
			logger.Fatal().Err(err).Msg("database init failed")
		}
		defer pool.Close()
		opts.Sink = store.NewRunRepo(pool)
	}

	analysis.InitHandler(pipeline.New(opts))

	mux := http.NewServeMux()
	mux.HandleFunc("/api/analyze", analysis.HandleAnalyze)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logger.Info().Str("port", port).Msg("analysis API listening")
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}
