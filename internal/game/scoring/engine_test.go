package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyAnswer(t *testing.T) {
	engine := NewEngine(DefaultRulesConfig())

	score, streak := engine.ApplyAnswer(4, 1, true)
	assert.Equal(t, 5, score)
	assert.Equal(t, 2, streak)

	score, streak = engine.ApplyAnswer(5, 2, false)
	assert.Equal(t, 5, score)
	assert.Equal(t, 0, streak)
}

func TestOfferDueOnlyAtExactStreak(t *testing.T) {
	engine := NewEngine(RulesConfig{})
	assert.False(t, engine.OfferDue(2))
	assert.True(t, engine.OfferDue(3))
	assert.False(t, engine.OfferDue(4))
}

func TestRankIsStable(t *testing.T) {
	assert.Equal(t, []int{1, 0, 2, 3}, Rank([]int{5, 7, 5, 1}))
	assert.Equal(t, []int{0, 1, 2}, Rank([]int{3, 3, 3}))
}

func TestEvaluateSmallGroups(t *testing.T) {
	engine := NewEngine(DefaultRulesConfig())

	finished, winners := engine.Evaluate([]int{9}, 10)
	assert.False(t, finished)
	assert.Nil(t, winners)

	finished, winners = engine.Evaluate([]int{10}, 10)
	assert.True(t, finished)
	assert.Equal(t, []int{0}, winners)

	finished, winners = engine.Evaluate([]int{4, 10}, 10)
	assert.True(t, finished)
	assert.Equal(t, []int{1, 0}, winners)
}

func TestEvaluateLargeGroupsWaitForPodium(t *testing.T) {
	engine := NewEngine(DefaultRulesConfig())

	finished, _ := engine.Evaluate([]int{10, 12, 3, 1}, 10)
	assert.False(t, finished)

	finished, winners := engine.Evaluate([]int{10, 12, 3, 10}, 10)
	assert.True(t, finished)
	assert.Equal(t, []int{1, 0, 3}, winners)
}

func TestExtremes(t *testing.T) {
	top, bottom := Extremes([]int{8, 2, 5})
	assert.Equal(t, 0, top)
	assert.Equal(t, 1, bottom)

	top, bottom = Extremes([]int{4, 4, 4})
	assert.Equal(t, 0, top)
	assert.Equal(t, 0, bottom)

	top, bottom = Extremes([]int{1, 6, 6, 1})
	assert.Equal(t, 1, top)
	assert.Equal(t, 0, bottom)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, Clamp(-2))
	assert.Equal(t, 3, Clamp(3))
}
