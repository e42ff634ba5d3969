package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Question bank sources.
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
	SourceOpenTDB  = "opentdb"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"hotseat-trivia"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Game      Game
	Questions Questions
	Postgres  Postgres
	Redis     Redis
}

// Game groups table pacing and randomness.
type Game struct {
	CardCheckDelay  time.Duration `env:"GAME_CARD_CHECK_DELAY" envDefault:"100ms"`
	CardDisplay     time.Duration `env:"GAME_CARD_DISPLAY" envDefault:"3500ms"`
	CardLock        time.Duration `env:"GAME_CARD_LOCK" envDefault:"4s"`
	RevelationDelay time.Duration `env:"GAME_REVELATION_DELAY" envDefault:"3600ms"`
	FeedbackCorrect time.Duration `env:"GAME_FEEDBACK_CORRECT" envDefault:"2s"`
	FeedbackWrong   time.Duration `env:"GAME_FEEDBACK_WRONG" envDefault:"1500ms"`
	EasyBias        float64       `env:"GAME_EASY_BIAS" envDefault:"0.4"`
	// Seed fixes the random stream; 0 seeds from the clock.
	Seed uint32 `env:"GAME_SEED" envDefault:"0"`
}

// Questions selects where the bank comes from.
type Questions struct {
	Source         string        `env:"QUESTION_SOURCE" envDefault:"file"`
	File           string        `env:"QUESTION_FILE" envDefault:"data/questions.json"`
	ReloadInterval time.Duration `env:"QUESTION_RELOAD_INTERVAL" envDefault:"0s"`
	ReloadTimeout  time.Duration `env:"QUESTION_RELOAD_TIMEOUT" envDefault:"10s"`
	CacheTTL       time.Duration `env:"QUESTION_CACHE_TTL" envDefault:"30m"`
	OpenTDBURL     string        `env:"OPENTDB_URL" envDefault:"https://opentdb.com"`
	// OpenTDBAmount is fetched per tier, capped at 50 by the API.
	OpenTDBAmount int `env:"OPENTDB_AMOUNT" envDefault:"20"`
}

// Postgres captures connection info for the SQL database. An empty host
// disables it.
type Postgres struct {
	Host     string `env:"PG_HOST"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER"`
	Password string `env:"PG_PASSWORD"`
	Database string `env:"PG_DATABASE"`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
	MaxConns int    `env:"PG_MAX_CONNS" envDefault:"10"`
}

// Enabled reports whether a database is configured.
func (p Postgres) Enabled() bool {
	return p.Host != ""
}

// DSN returns a pgx connection string.
func (p Postgres) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=%d",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode, p.MaxConns)
}

// Redis holds the bank cache configuration. An empty address disables it.
type Redis struct {
	Addr     string `env:"REDIS_ADDR"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
}

// Enabled reports whether a cache is configured.
func (r Redis) Enabled() bool {
	return r.Addr != ""
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (a *App) Validate() error {
	var errs []error
	switch a.Questions.Source {
	case SourceFile:
		if a.Questions.File == "" {
			errs = append(errs, errors.New("QUESTION_FILE is required for the file source"))
		}
	case SourcePostgres:
		if !a.Postgres.Enabled() {
			errs = append(errs, errors.New("PG_HOST is required for the postgres source"))
		}
	case SourceOpenTDB:
		if a.Questions.OpenTDBAmount <= 0 {
			errs = append(errs, fmt.Errorf("OPENTDB_AMOUNT %d: want a positive count", a.Questions.OpenTDBAmount))
		}
	default:
		errs = append(errs, fmt.Errorf("QUESTION_SOURCE %q: want %s, %s or %s", a.Questions.Source, SourceFile, SourcePostgres, SourceOpenTDB))
	}
	if a.Game.EasyBias < 0 || a.Game.EasyBias > 1 {
		errs = append(errs, fmt.Errorf("GAME_EASY_BIAS %v: want a probability", a.Game.EasyBias))
	}
	return errors.Join(errs...)
}
