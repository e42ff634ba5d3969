package server

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/hotseat-trivia/internal/config"
	"github.com/gokatarajesh/hotseat-trivia/internal/logging"
)

// WSUpgrader handles WebSocket upgrades. The table is meant to run on a
// trusted local network, so any origin is accepted.
var WSUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Handlers groups what the API mounts besides health checks. Nil fields are
// skipped.
type Handlers struct {
	Metrics   http.Handler
	Routes    map[string]http.HandlerFunc
	WebSocket http.HandlerFunc
}

// NewHTTPServer wires base routes (health, metrics, ping) and the game API.
// pool and redis may be nil when those backends are not configured.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, pool *pgxpool.Pool, redis *redis.Client, handlers Handlers) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewMux(logger, pool, redis, handlers),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// NewMux builds the router behind NewHTTPServer.
func NewMux(logger zerolog.Logger, pool *pgxpool.Pool, redis *redis.Client, handlers Handlers) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if handlers.Metrics != nil {
		mux.Handle("/metrics", handlers.Metrics)
	}

	mux.HandleFunc("/v1/ping", func(w http.ResponseWriter, r *http.Request) {
		if err := pingDependencies(r.Context(), pool, redis); err != nil {
			logger := logging.FromContext(r.Context())
			logger.Error().Err(err).Msg("dependency ping failed")
			http.Error(w, "upstream error", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	paths := make([]string, 0, len(handlers.Routes))
	for p := range handlers.Routes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		mux.HandleFunc(p, handlers.Routes[p])
	}

	if handlers.WebSocket != nil {
		mux.HandleFunc("/ws/game", handlers.WebSocket)
	} else {
		mux.HandleFunc("/ws/game", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "WebSocket handler not configured", http.StatusNotImplemented)
		})
	}

	return withRequestLogging(logger, mux)
}

func pingDependencies(ctx context.Context, pool *pgxpool.Pool, redis *redis.Client) error {
	if pool != nil {
		if err := pool.Ping(ctx); err != nil {
			return err
		}
	}
	if redis != nil {
		if err := redis.Ping(ctx).Err(); err != nil {
			return err
		}
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the hijacker for WebSocket upgrades.
func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

func withRequestLogging(logger zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqLogger := logger.With().Str("method", r.Method).Str("path", r.URL.Path).Logger()
		ctx := logging.IntoContext(r.Context(), reqLogger)

		if websocket.IsWebSocketUpgrade(r) {
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))
		reqLogger.Debug().
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request served")
	})
}
