package question

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/hotseat-trivia/internal/game"
)

// Service loads the question bank from its source, through the cache when one
// is configured, and keeps the last good copy in memory.
type Service struct {
	source Source
	cache  BankCache
	logger zerolog.Logger

	mu        sync.RWMutex
	questions []game.Question
	loadedAt  time.Time
}

// NewService builds a question service. cache may be nil.
func NewService(source Source, cache BankCache, logger zerolog.Logger) *Service {
	return &Service{
		source: source,
		cache:  cache,
		logger: logger.With().Str("component", "question").Str("source", source.Name()).Logger(),
	}
}

// LoadAll returns the bank, preferring the cache over the source.
func (s *Service) LoadAll(ctx context.Context) ([]game.Question, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, s.source.Name())
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Msg("question cache read failed")
		case ok && len(cached) > 0:
			s.store(cached)
			s.logger.Debug().Int("questions", len(cached)).Msg("question bank served from cache")
			return s.Questions(), nil
		}
	}
	return s.loadSource(ctx)
}

// Reload bypasses and refreshes the cache.
func (s *Service) Reload(ctx context.Context) ([]game.Question, error) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, s.source.Name()); err != nil {
			s.logger.Warn().Err(err).Msg("question cache invalidate failed")
		}
	}
	return s.loadSource(ctx)
}

// Questions returns the bank currently held in memory.
func (s *Service) Questions() []game.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.questions
}

// LoadedAt reports when the in-memory bank was last replaced.
func (s *Service) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

func (s *Service) loadSource(ctx context.Context) ([]game.Question, error) {
	records, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load question bank: %w", err)
	}

	questions := s.normalize(records)
	if len(questions) == 0 {
		return nil, fmt.Errorf("load question bank: %d records: %w", len(records), ErrEmptyBank)
	}
	s.store(questions)

	if s.cache != nil {
		if err := s.cache.Set(ctx, s.source.Name(), questions); err != nil {
			s.logger.Warn().Err(err).Msg("question cache write failed")
		}
	}
	s.logger.Info().Int("questions", len(questions)).Int("skipped", len(records)-len(questions)).Msg("question bank loaded")
	return questions, nil
}

func (s *Service) normalize(records []Record) []game.Question {
	seen := make(map[int]struct{}, len(records))
	questions := make([]game.Question, 0, len(records))
	for _, r := range records {
		q, err := r.Normalize()
		if err != nil {
			s.logger.Warn().Err(err).Msg("skipping invalid question")
			continue
		}
		if _, dup := seen[q.ID]; dup {
			s.logger.Warn().Int("question_id", q.ID).Msg("skipping duplicate question id")
			continue
		}
		seen[q.ID] = struct{}{}
		questions = append(questions, q)
	}
	return questions
}

func (s *Service) store(questions []game.Question) {
	s.mu.Lock()
	s.questions = questions
	s.loadedAt = time.Now()
	s.mu.Unlock()
}

// ByTier filters a bank down to one tier.
func ByTier(questions []game.Question, tier game.Tier) []game.Question {
	out := make([]game.Question, 0, len(questions)/3+1)
	for _, q := range questions {
		if q.Tier == tier {
			out = append(out, q)
		}
	}
	return out
}
