package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gokatarajesh/hotseat-trivia/internal/cards"
	"github.com/gokatarajesh/hotseat-trivia/internal/config"
	"github.com/gokatarajesh/hotseat-trivia/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/hotseat-trivia/internal/db/sqlc"
	"github.com/gokatarajesh/hotseat-trivia/internal/game"
	"github.com/gokatarajesh/hotseat-trivia/internal/logging"
	"github.com/gokatarajesh/hotseat-trivia/internal/match"
	"github.com/gokatarajesh/hotseat-trivia/internal/metrics"
	"github.com/gokatarajesh/hotseat-trivia/internal/question"
	"github.com/gokatarajesh/hotseat-trivia/internal/question/external"
	"github.com/gokatarajesh/hotseat-trivia/internal/random"
	"github.com/gokatarajesh/hotseat-trivia/internal/server"
	"github.com/gokatarajesh/hotseat-trivia/internal/shuffle"
	ws "github.com/gokatarajesh/hotseat-trivia/pkg/http/ws"
)

// Application aggregates shared infrastructure and the game table.
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server

	controller   *match.Controller
	hub          *ws.Hub
	reloadWorker *question.ReloadWorker
}

// New loads the question bank and wires the table, its HTTP and WebSocket
// surfaces and the optional Postgres and Redis backends.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	a := &Application{cfg: cfg, logger: logger}
	rec := metrics.New()

	if cfg.Postgres.Enabled() {
		pool, err := pgxpool.New(ctx, cfg.Postgres.DSN())
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.pool = pool
	}

	var cache question.BankCache
	if cfg.Redis.Enabled() {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		cache = question.NewCache(a.redis, cfg.Questions.CacheTTL)
	} else {
		logger.Warn().Msg("REDIS_ADDR not set; question bank cache disabled")
	}

	source, err := a.questionSource()
	if err != nil {
		a.close()
		return nil, err
	}

	questionSvc := question.NewService(source, cache, logger)
	bank, err := questionSvc.LoadAll(ctx)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("load questions: %w", err)
	}
	rec.BankSize(len(bank))

	rng := random.New(cfg.Game.Seed)
	a.controller = match.NewController(
		game.NewMachine(nil),
		question.NewSupply(questionSvc, question.NewDeck(rng)),
		shuffle.New(rng).WithEasyBias(cfg.Game.EasyBias),
		cards.NewResolver(nil, rng, logger),
		match.Options{
			Timings: match.Timings{
				CardCheckDelay:  cfg.Game.CardCheckDelay,
				CardDisplay:     cfg.Game.CardDisplay,
				CardLock:        cfg.Game.CardLock,
				RevelationDelay: cfg.Game.RevelationDelay,
				FeedbackCorrect: cfg.Game.FeedbackCorrect,
				FeedbackWrong:   cfg.Game.FeedbackWrong,
			},
			Metrics: rec,
		},
		logger,
	)

	a.reloadWorker = question.NewReloadWorker(
		questionSvc,
		cfg.Questions.ReloadInterval,
		cfg.Questions.ReloadTimeout,
		func(n int, err error) {
			rec.QuestionReload(n, err)
			if err != nil {
				return
			}
			rec.BankSize(n)
			a.controller.QuestionsReloaded()
		},
		logger,
	)

	a.hub = ws.NewHub(logger, ws.Hooks{
		OnConnect:    rec.ClientConnected,
		OnDisconnect: rec.ClientDisconnected,
	})
	wsHandler := match.NewHandler(a.controller, a.hub, logger)
	gameHandlers := match.NewHTTPHandlers(a.controller, a.reloadWorker, questionSvc, logger)

	a.http = server.NewHTTPServer(cfg, logger, a.pool, a.redis, server.Handlers{
		Metrics:   rec.Handler(),
		Routes:    gameHandlers.Routes(),
		WebSocket: wsHandler.HandleWebSocket,
	})
	return a, nil
}

func (a *Application) questionSource() (question.Source, error) {
	switch a.cfg.Questions.Source {
	case config.SourcePostgres:
		if a.pool == nil {
			return nil, errors.New("postgres question source requires PG_HOST")
		}
		repo := repository.NewQuestionRepository(sqlcgen.New(a.pool)).WithTxBeginner(a.pool)
		return question.NewStoreSource(repo), nil
	case config.SourceFile:
		return question.NewFileSource(a.cfg.Questions.File), nil
	case config.SourceOpenTDB:
		client := external.NewOpenTDBClient(a.cfg.Questions.OpenTDBURL, nil)
		return external.NewOpenTDBSource(client, a.cfg.Questions.OpenTDBAmount), nil
	}
	return nil, fmt.Errorf("unknown question source %q", a.cfg.Questions.Source)
}

// Run serves HTTP and the reload worker until a termination signal, then
// shuts everything down. SIGHUP reloads the question bank.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := a.reloadWorker.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-hup:
				a.logger.Info().Msg("SIGHUP received; reloading questions")
				a.reloadWorker.Trigger()
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
		defer cancel()
		if err := a.http.Shutdown(shutdownCtx); err != nil {
			a.logger.Error().Err(err).Msg("http shutdown error")
		}
		a.controller.Close()
		a.hub.CloseAll()
		return nil
	})

	err := g.Wait()
	a.close()
	a.logger.Info().Msg("shutdown complete")
	return err
}

func (a *Application) close() {
	if a.pool != nil {
		a.pool.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error().Err(err).Msg("redis shutdown error")
		}
	}
}
