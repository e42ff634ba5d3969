package question

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// ReloadFunc is told about every reload attempt.
type ReloadFunc func(count int, err error)

// ReloadWorker refreshes the bank on demand and, when an interval is set, on a
// timer.
type ReloadWorker struct {
	service  *Service
	requests chan struct{}
	interval time.Duration
	timeout  time.Duration
	onReload ReloadFunc
	logger   zerolog.Logger
}

func NewReloadWorker(service *Service, interval, timeout time.Duration, onReload ReloadFunc, logger zerolog.Logger) *ReloadWorker {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ReloadWorker{
		service:  service,
		requests: make(chan struct{}, 1),
		interval: interval,
		timeout:  timeout,
		onReload: onReload,
		logger:   logger.With().Str("component", "question_reload").Logger(),
	}
}

// Trigger asks for a reload. Requests made while one is queued are merged.
func (w *ReloadWorker) Trigger() {
	select {
	case w.requests <- struct{}{}:
	default:
	}
}

// Run processes reload requests until ctx is done.
func (w *ReloadWorker) Run(ctx context.Context) error {
	var tick <-chan time.Time
	if w.interval > 0 {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("question reload worker stopping")
			return ctx.Err()
		case <-w.requests:
			_, _ = w.ReloadNow(ctx)
		case <-tick:
			_, _ = w.ReloadNow(ctx)
		}
	}
}

// ReloadNow reloads the bank synchronously and reports the result to the
// reload callback.
func (w *ReloadWorker) ReloadNow(parent context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(parent, w.timeout)
	defer cancel()

	questions, err := w.service.Reload(ctx)
	if err != nil {
		w.logger.Warn().Err(err).Msg("question reload failed")
	}
	if w.onReload != nil {
		w.onReload(len(questions), err)
	}
	return len(questions), err
}
