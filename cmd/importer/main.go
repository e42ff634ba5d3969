// Command importer loads a JSON question bank into Postgres.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gokatarajesh/hotseat-trivia/internal/config"
	"github.com/gokatarajesh/hotseat-trivia/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/hotseat-trivia/internal/db/sqlc"
	"github.com/gokatarajesh/hotseat-trivia/internal/question"
)

func main() {
	var (
		file    = flag.String("file", "data/questions.json", "JSON question bank to import")
		timeout = flag.Duration("timeout", 30*time.Second, "Import timeout")
	)
	flag.Parse()

	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load("configs/.env")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if !cfg.Postgres.Enabled() {
		log.Fatal().Msg("PG_HOST environment variable is required")
	}

	records, err := question.NewFileSource(*file).Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("failed to read question bank")
	}

	params := make([]sqlcgen.UpsertQuestionParams, 0, len(records))
	skipped := 0
	for _, r := range records {
		q, err := r.Normalize()
		if err != nil {
			log.Warn().Err(err).Msg("skipping question")
			skipped++
			continue
		}
		params = append(params, question.UpsertParams(q))
	}

	pool, err := pgxpool.New(ctx, cfg.Postgres.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()

	repo := repository.NewQuestionRepository(sqlcgen.New(pool)).WithTxBeginner(pool)
	if err := repo.UpsertBatch(ctx, params); err != nil {
		log.Fatal().Err(err).Msg("failed to import questions")
	}

	total, err := repo.Count(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to count questions")
	}
	log.Info().
		Int("imported", len(params)).
		Int("skipped", skipped).
		Int64("total", total).
		Msg("question bank imported")
}
