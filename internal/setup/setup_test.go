package setup

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/hotseat-trivia/internal/game"
)

func seats(n int) []PlayerInput {
	in := make([]PlayerInput, n)
	for i := range in {
		in[i] = PlayerInput{Name: "Player", Tier: "medium"}
	}
	return in
}

func TestValidateAssignsIDsAndTiers(t *testing.T) {
	players, err := Validate(Request{
		TargetScore: 10,
		Players: []PlayerInput{
			{Name: "  Ruth ", Tier: "facile"},
			{Name: "Élisée", Tier: "HARD"},
			{Name: "Abel"},
		},
	})
	require.NoError(t, err)
	require.Len(t, players, 3)
	assert.Equal(t, game.Player{ID: 1, Name: "Ruth", Tier: game.TierEasy}, players[0])
	assert.Equal(t, game.TierHard, players[1].Tier)
	assert.Equal(t, game.TierEasy, players[2].Tier)
	assert.Equal(t, 3, players[2].ID)
}

func TestValidateBounds(t *testing.T) {
	cases := []struct {
		name  string
		req   Request
		field string
	}{
		{"no players", Request{TargetScore: 10}, "players"},
		{"too many players", Request{TargetScore: 10, Players: seats(9)}, "players"},
		{"target too low", Request{TargetScore: 4, Players: seats(2)}, "target_score"},
		{"target too high", Request{TargetScore: 51, Players: seats(2)}, "target_score"},
		{"empty name", Request{TargetScore: 10, Players: []PlayerInput{{Name: "   "}}}, "players[0].name"},
		{"long name", Request{TargetScore: 10, Players: []PlayerInput{{Name: strings.Repeat("a", 16)}}}, "players[0].name"},
		{"bad tier", Request{TargetScore: 10, Players: []PlayerInput{{Name: "a"}, {Name: "b", Tier: "expert"}}}, "players[1].tier"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Validate(tc.req)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestValidateEdgesAccepted(t *testing.T) {
	_, err := Validate(Request{TargetScore: 5, Players: seats(1)})
	assert.NoError(t, err)
	_, err = Validate(Request{TargetScore: 50, Players: seats(8)})
	assert.NoError(t, err)
	_, err = Validate(Request{TargetScore: 10, Players: []PlayerInput{{Name: "Méthuséleeeeeem"}}})
	assert.NoError(t, err, "15 runes is allowed even when longer in bytes")
}
