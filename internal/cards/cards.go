package cards

import (
	"fmt"

	"github.com/gokatarajesh/hotseat-trivia/internal/game"
)

// Kind names an event card.
type Kind string

// Card kinds in priority order.
const (
	KindRevelation Kind = "revelation"
	KindMiracle    Kind = "miracle"
	KindReversal   Kind = "reversal"
	KindBlessing   Kind = "blessing"
	KindTrial      Kind = "trial"
)

// Priority is the order in which thresholds are checked against a draw.
var Priority = []Kind{KindRevelation, KindMiracle, KindReversal, KindBlessing, KindTrial}

// Odds holds the independent firing threshold of every card for one tier.
type Odds struct {
	Revelation float64
	Miracle    float64
	Reversal   float64
	Blessing   float64
	Trial      float64
}

func (o Odds) threshold(k Kind) float64 {
	switch k {
	case KindRevelation:
		return o.Revelation
	case KindMiracle:
		return o.Miracle
	case KindReversal:
		return o.Reversal
	case KindBlessing:
		return o.Blessing
	case KindTrial:
		return o.Trial
	}
	return 0
}

// Table maps a tier to its odds.
type Table map[game.Tier]Odds

// DefaultTable returns the production probabilities.
func DefaultTable() Table {
	return Table{
		game.TierEasy:   {Revelation: 0.08, Miracle: 0.001, Reversal: 0.03, Blessing: 0.10, Trial: 0.005},
		game.TierMedium: {Revelation: 0.04, Miracle: 0.001, Reversal: 0.03, Blessing: 0.01, Trial: 0.01},
		game.TierHard:   {Revelation: 0, Miracle: 0.001, Reversal: 0.03, Blessing: 0.005, Trial: 0.10},
	}
}

// Info is what the presentation shows while a card is visible.
type Info struct {
	Kind     Kind   `json:"kind"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Message  string `json:"message"`
}

// Describe returns the display text of a card. delta is only used by trials.
func Describe(k Kind, delta int) Info {
	switch k {
	case KindRevelation:
		return Info{Kind: k, Title: "Divine Revelation", Subtitle: "The truth shines on you", Message: "2 answers eliminated"}
	case KindMiracle:
		return Info{Kind: k, Title: "Miracle", Subtitle: "An unexpected blessing", Message: "One point from victory!"}
	case KindReversal:
		return Info{Kind: k, Title: "The Last Shall Be First", Subtitle: "The order is reversed", Message: "First and last swap scores"}
	case KindBlessing:
		return Info{Kind: k, Title: "Blessing", Subtitle: "Grace is with you", Message: "+1 point"}
	case KindTrial:
		if delta == 0 {
			delta = -1
		}
		msg := fmt.Sprintf("%d point", delta)
		if delta < -1 {
			msg += "s"
		}
		return Info{Kind: k, Title: "Trial", Subtitle: "Your faith is tested", Message: msg}
	}
	return Info{Kind: k, Title: "Mystery Card"}
}
