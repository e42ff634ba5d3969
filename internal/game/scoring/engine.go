package scoring

import "sort"

// RulesConfig holds the win and streak constants (defaults match the table rules).
type RulesConfig struct {
	SmallGroupMaxPlayers int // default: 2 (groups this size or smaller finish on the first arrival)
	SmallGroupArrivals   int // default: 1
	LargeGroupArrivals   int // default: 3
	PodiumSize           int // default: 3 (winners listed for larger groups)
	StreakOfferAt        int // default: 3 consecutive correct answers
	PointsPerCorrect     int // default: 1
}

// DefaultRulesConfig returns the production rules.
func DefaultRulesConfig() RulesConfig {
	return RulesConfig{
		SmallGroupMaxPlayers: 2,
		SmallGroupArrivals:   1,
		LargeGroupArrivals:   3,
		PodiumSize:           3,
		StreakOfferAt:        3,
		PointsPerCorrect:     1,
	}
}

// Engine evaluates scores and streaks. It is pure and safe for concurrent use.
type Engine struct {
	config RulesConfig
}

// NewEngine creates a rules engine; zero fields fall back to defaults.
func NewEngine(config RulesConfig) *Engine {
	def := DefaultRulesConfig()
	if config.SmallGroupMaxPlayers <= 0 {
		config.SmallGroupMaxPlayers = def.SmallGroupMaxPlayers
	}
	if config.SmallGroupArrivals <= 0 {
		config.SmallGroupArrivals = def.SmallGroupArrivals
	}
	if config.LargeGroupArrivals <= 0 {
		config.LargeGroupArrivals = def.LargeGroupArrivals
	}
	if config.PodiumSize <= 0 {
		config.PodiumSize = def.PodiumSize
	}
	if config.StreakOfferAt <= 0 {
		config.StreakOfferAt = def.StreakOfferAt
	}
	if config.PointsPerCorrect <= 0 {
		config.PointsPerCorrect = def.PointsPerCorrect
	}
	return &Engine{config: config}
}

// Config returns the effective rules.
func (e *Engine) Config() RulesConfig {
	return e.config
}

// Clamp floors a score at zero.
func Clamp(score int) int {
	if score < 0 {
		return 0
	}
	return score
}

// ApplyAnswer returns the new score and streak after an answer.
func (e *Engine) ApplyAnswer(score, streak int, isCorrect bool) (int, int) {
	if !isCorrect {
		return Clamp(score), 0
	}
	return Clamp(score + e.config.PointsPerCorrect), streak + 1
}

// OfferDue reports whether a streak has exactly reached the shared-bonus threshold.
func (e *Engine) OfferDue(streak int) bool {
	return streak == e.config.StreakOfferAt
}

// Rank returns player indices ordered by score descending. Equal scores keep
// turn order.
func Rank(scores []int) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	return order
}

// Evaluate applies the win rule. Small groups finish as soon as one player
// reaches the target and list everyone; larger groups wait for three arrivals
// and list the podium. Winners are indices into scores.
func (e *Engine) Evaluate(scores []int, target int) (finished bool, winners []int) {
	if len(scores) == 0 {
		return false, nil
	}

	atTarget := 0
	for _, s := range scores {
		if s >= target {
			atTarget++
		}
	}

	ranked := Rank(scores)
	if len(scores) <= e.config.SmallGroupMaxPlayers {
		if atTarget < e.config.SmallGroupArrivals {
			return false, nil
		}
		return true, ranked
	}

	if atTarget < e.config.LargeGroupArrivals {
		return false, nil
	}
	n := e.config.PodiumSize
	if n > len(ranked) {
		n = len(ranked)
	}
	return true, ranked[:n]
}

// Extremes returns the first-found highest and first-found lowest indices.
func Extremes(scores []int) (top, bottom int) {
	for i, s := range scores {
		if s > scores[top] {
			top = i
		}
		if s < scores[bottom] {
			bottom = i
		}
	}
	return top, bottom
}
