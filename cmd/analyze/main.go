package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"acquisition_valuation/pkg/config"
	"acquisition_valuation/pkg/core/ingest"
	"acquisition_valuation/pkg/core/pipeline"
	"acquisition_valuation/pkg/core/store"
)

func main() {
	acquirer := flag.String("acquirer", "ORCL2", "acquirer ticker")
	target := flag.String("target", "NMAD", "target ticker")
	configPath := flag.String("config", "config/assumptions.yaml", "assumption config file")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Info().Msg(".env file not found, assuming environment variables are set")
	}

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	cfg, err := config.Load(*configPath)
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

	coordinator := pipeline.New(opts)

	report, err := coordinator.Run(ctx, *acquirer, *target)
	if err != nil {
		logger.Error().Err(err).Msg("run failed")
	}

	out, merr := json.MarshalIndent(report, "", "  ")
	if merr != nil {
		logger.Fatal().Err(merr).Msg("report encoding failed")
	}
	fmt.Println(string(out))

	if err != nil {
		os.Exit(1)
	}
}
