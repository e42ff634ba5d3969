package shuffle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/hotseat-trivia/internal/game"
	"github.com/gokatarajesh/hotseat-trivia/internal/random"
)

// scripted replays fixed floats and always returns 0 from IntN.
type scripted struct {
	floats []float64
	ints   int
}

func (s *scripted) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.99
	}
	f := s.floats[0]
	s.floats = s.floats[1:]
	return f
}

func (s *scripted) IntN(int) int {
	s.ints++
	return 0
}

func mcQuestion(correct int) game.Question {
	return game.Question{
		ID:            1,
		Kind:          game.KindMultipleChoice,
		Prompt:        "capital of France?",
		Answers:       []string{"Paris", "Lyon", "Nice", "Lille"},
		CorrectAnswer: correct,
		Tier:          game.TierEasy,
	}
}

func TestMappingBijection(t *testing.T) {
	s := New(random.New(7))
	for _, tier := range game.Tiers {
		for correct := 0; correct < 4; correct++ {
			for i := 0; i < 200; i++ {
				q := mcQuestion(correct)
				l := s.Shuffle(q, tier)
				require.NoError(t, l.Mapping.Validate(4))

				d, ok := l.Mapping.Display(correct)
				require.True(t, ok)
				c, ok := l.Mapping.Canonical(d)
				require.True(t, ok)
				assert.Equal(t, correct, c)
				assert.Equal(t, q.Answers[correct], l.Answers[d])
			}
		}
	}
}

func TestTrueFalseNeverShuffled(t *testing.T) {
	src := &scripted{floats: []float64{0}}
	s := New(src)
	q := game.Question{ID: 2, Kind: game.KindTrueFalse, Answers: []string{"Vrai", "Faux"}, CorrectAnswer: 1, Tier: game.TierEasy}

	l := s.Shuffle(q, game.TierEasy)
	assert.Equal(t, Mapping{0, 1}, l.Mapping)
	assert.Equal(t, []string{"Vrai", "Faux"}, l.Answers)
	assert.Equal(t, 0, src.ints)
	assert.Len(t, src.floats, 1)
}

func TestEasyBiasPutsCorrectFirst(t *testing.T) {
	s := New(&scripted{floats: []float64{0.1}})
	l := s.Shuffle(mcQuestion(2), game.TierEasy)
	assert.Equal(t, 2, l.Mapping[0])
	assert.Equal(t, "Nice", l.Answers[0])
	require.NoError(t, l.Mapping.Validate(4))
}

func TestEasyBiasMissFallsBackToUniform(t *testing.T) {
	src := &scripted{floats: []float64{0.4}}
	s := New(src)
	l := s.Shuffle(mcQuestion(2), game.TierEasy)
	require.NoError(t, l.Mapping.Validate(4))
	assert.Equal(t, 3, src.ints)
}

func TestMediumNeverConsultsBias(t *testing.T) {
	src := &scripted{floats: []float64{0}}
	s := New(src)
	s.Shuffle(mcQuestion(0), game.TierMedium)
	assert.Len(t, src.floats, 1)
	assert.Equal(t, 3, src.ints)
}

func TestEasyBiasRate(t *testing.T) {
	s := New(random.New(42))
	const rounds = 20000
	first := 0
	for i := 0; i < rounds; i++ {
		if s.Shuffle(mcQuestion(3), game.TierEasy).Mapping[0] == 3 {
			first++
		}
	}
	// 0.4 + 0.6 * 0.25 = 0.55
	assert.InDelta(t, 0.55, float64(first)/rounds, 0.03)
}

func TestMappingLookupsOutOfRange(t *testing.T) {
	m := Identity(2)
	_, ok := m.Canonical(5)
	assert.False(t, ok)
	_, ok = m.Display(9)
	assert.False(t, ok)
	assert.Error(t, Mapping{0, 0}.Validate(2))
	assert.Error(t, Mapping{0}.Validate(2))
}
