package game

import (
	"fmt"
	"sync"

	"github.com/gokatarajesh/hotseat-trivia/internal/game/scoring"
)

// Transition is a request to change the session. Every transition is applied
// atomically by Machine.Apply.
type Transition interface {
	Name() string
}

// StartGame leaves Setup with players in turn order.
type StartGame struct {
	Players     []Player
	TargetScore int
}

// SetCurrentQuestion shows Question to the current player.
type SetCurrentQuestion struct {
	Question *Question
}

// AnswerQuestion scores the current player's answer and moves the turn on.
type AnswerQuestion struct {
	Correct bool
}

// ApplyCardEffect applies a drawn card to the scores.
type ApplyCardEffect struct {
	Effect CardEffect
}

// ResolveSharedBonusOffer gives the streak bonus to TargetPlayerID, or to
// nobody when it is nil.
type ResolveSharedBonusOffer struct {
	TargetPlayerID *int
}

// RestartGame replays with the same players, scores zeroed.
type RestartGame struct{}

// ResetToSetup discards the game and returns to Setup.
type ResetToSetup struct{}

func (StartGame) Name() string               { return "start_game" }
func (SetCurrentQuestion) Name() string      { return "set_current_question" }
func (AnswerQuestion) Name() string          { return "answer_question" }
func (ApplyCardEffect) Name() string         { return "apply_card_effect" }
func (ResolveSharedBonusOffer) Name() string { return "resolve_shared_bonus_offer" }
func (RestartGame) Name() string             { return "restart_game" }
func (ResetToSetup) Name() string            { return "reset_to_setup" }

// Outcome is the session after a transition plus the signals it produced.
type Outcome struct {
	Session     Session
	Advanced    bool // turn pointer moved to the next player
	OfferRaised bool // a shared bonus offer is now awaiting a decision
	Finished    bool // this transition ended the game
}

// Machine is the single authoritative owner of a game session.
type Machine struct {
	mu    sync.Mutex
	rules *scoring.Engine

	phase       Phase
	generation  uint64
	players     []Player
	current     int
	target      int
	question    *Question
	used        map[int]map[int]struct{}
	usedOrder   map[int][]int
	streak      map[int]int
	offer       bool
	offerPlayer int
	winners     []Player
}

// NewMachine returns a machine in the setup phase. A nil engine uses the
// default rules.
func NewMachine(rules *scoring.Engine) *Machine {
	if rules == nil {
		rules = scoring.NewEngine(scoring.DefaultRulesConfig())
	}
	m := &Machine{rules: rules}
	m.clear()
	return m
}

// Apply runs a transition. On error the session is left untouched.
func (m *Machine) Apply(t Transition) (Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var (
		out Outcome
		err error
	)
	switch tr := t.(type) {
	case StartGame:
		err = m.startGame(tr)
	case SetCurrentQuestion:
		err = m.setCurrentQuestion(tr.Question)
	case AnswerQuestion:
		out, err = m.answerQuestion(tr.Correct)
	case ApplyCardEffect:
		out, err = m.applyCardEffect(tr.Effect)
	case ResolveSharedBonusOffer:
		out, err = m.resolveOffer(tr.TargetPlayerID)
	case RestartGame:
		err = m.restart()
	case ResetToSetup:
		m.generation++
		m.clear()
	default:
		err = fmt.Errorf("unsupported transition %T", t)
	}
	if err != nil {
		return Outcome{}, err
	}

	out.Session = m.snapshot()
	return out, nil
}

// Snapshot returns the current session.
func (m *Machine) Snapshot() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

// StartGame applies a StartGame transition.
func (m *Machine) StartGame(players []Player, targetScore int) (Outcome, error) {
	return m.Apply(StartGame{Players: players, TargetScore: targetScore})
}

// SetCurrentQuestion applies a SetCurrentQuestion transition.
func (m *Machine) SetCurrentQuestion(q *Question) (Outcome, error) {
	return m.Apply(SetCurrentQuestion{Question: q})
}

// AnswerQuestion applies an AnswerQuestion transition.
func (m *Machine) AnswerQuestion(correct bool) (Outcome, error) {
	return m.Apply(AnswerQuestion{Correct: correct})
}

// ApplyCardEffect applies an ApplyCardEffect transition.
func (m *Machine) ApplyCardEffect(effect CardEffect) (Outcome, error) {
	return m.Apply(ApplyCardEffect{Effect: effect})
}

// ResolveSharedBonusOffer applies a ResolveSharedBonusOffer transition.
func (m *Machine) ResolveSharedBonusOffer(targetPlayerID *int) (Outcome, error) {
	return m.Apply(ResolveSharedBonusOffer{TargetPlayerID: targetPlayerID})
}

// RestartGame applies a RestartGame transition.
func (m *Machine) RestartGame() (Outcome, error) {
	return m.Apply(RestartGame{})
}

// ResetToSetup applies a ResetToSetup transition.
func (m *Machine) ResetToSetup() (Outcome, error) {
	return m.Apply(ResetToSetup{})
}

func (m *Machine) clear() {
	m.phase = PhaseSetup
	m.players = nil
	m.current = 0
	m.target = 0
	m.question = nil
	m.used = map[int]map[int]struct{}{}
	m.usedOrder = map[int][]int{}
	m.streak = map[int]int{}
	m.offer = false
	m.offerPlayer = 0
	m.winners = nil
}

func (m *Machine) startGame(tr StartGame) error {
	if m.phase != PhaseSetup {
		return fmt.Errorf("start game from %s: %w", m.phase, ErrInvalidPhase)
	}
	if len(tr.Players) == 0 {
		return ErrNoPlayers
	}
	if tr.TargetScore <= 0 {
		return fmt.Errorf("target score must be positive, got %d", tr.TargetScore)
	}

	seen := make(map[int]struct{}, len(tr.Players))
	players := make([]Player, len(tr.Players))
	for i, p := range tr.Players {
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("duplicate player id %d", p.ID)
		}
		seen[p.ID] = struct{}{}
		p.Score = 0
		players[i] = p
	}

	m.clear()
	m.generation++
	m.phase = PhaseInProgress
	m.players = players
	m.target = tr.TargetScore
	for _, p := range players {
		m.streak[p.ID] = 0
	}
	return nil
}

func (m *Machine) setCurrentQuestion(q *Question) error {
	if m.phase != PhaseInProgress {
		return fmt.Errorf("set question in %s: %w", m.phase, ErrInvalidPhase)
	}
	if m.offer {
		return ErrOfferPending
	}
	if q == nil {
		return fmt.Errorf("set question: nil question")
	}

	playerID := m.players[m.current].ID
	if _, used := m.used[playerID][q.ID]; used {
		return &DuplicateQuestionError{PlayerID: playerID, QuestionID: q.ID}
	}

	if m.used[playerID] == nil {
		m.used[playerID] = map[int]struct{}{}
	}
	m.used[playerID][q.ID] = struct{}{}
	m.usedOrder[playerID] = append(m.usedOrder[playerID], q.ID)
	m.question = q
	return nil
}

func (m *Machine) answerQuestion(correct bool) (Outcome, error) {
	if m.phase != PhaseInProgress {
		return Outcome{}, fmt.Errorf("answer in %s: %w", m.phase, ErrInvalidPhase)
	}
	if m.offer {
		return Outcome{}, ErrOfferPending
	}
	if m.question == nil {
		return Outcome{}, ErrNoCurrentQuestion
	}

	var out Outcome
	p := &m.players[m.current]
	score, streak := m.rules.ApplyAnswer(p.Score, m.streak[p.ID], correct)
	p.Score = score
	m.streak[p.ID] = streak
	m.question = nil

	switch {
	case m.rules.OfferDue(streak) && len(m.players) > 1:
		m.offer = true
		m.offerPlayer = p.ID
		out.OfferRaised = true
	case m.rules.OfferDue(streak):
		// Nobody to share with: the streak is spent and play moves on.
		m.streak[p.ID] = 0
		m.advance()
		out.Advanced = true
	default:
		m.advance()
		out.Advanced = true
	}

	if m.checkWin() {
		out.Finished = true
		out.OfferRaised = false
	}
	return out, nil
}

func (m *Machine) applyCardEffect(effect CardEffect) (Outcome, error) {
	if m.phase != PhaseInProgress {
		return Outcome{}, fmt.Errorf("card effect in %s: %w", m.phase, ErrInvalidPhase)
	}
	if m.offer {
		return Outcome{}, ErrOfferPending
	}

	p := &m.players[m.current]
	switch effect.Kind {
	case EffectDelta:
		p.Score = scoring.Clamp(p.Score + effect.Delta)
	case EffectMiracle:
		if floor := m.target - 1; p.Score < floor {
			p.Score = floor
		}
	case EffectReversal:
		top, bottom := scoring.Extremes(m.scores())
		if top != bottom {
			m.players[top].Score, m.players[bottom].Score = m.players[bottom].Score, m.players[top].Score
		}
	default:
		return Outcome{}, fmt.Errorf("%w: kind %d", ErrInvalidEffect, effect.Kind)
	}

	return Outcome{Finished: m.checkWin()}, nil
}

func (m *Machine) resolveOffer(targetID *int) (Outcome, error) {
	if !m.offer {
		return Outcome{}, ErrNoPendingOffer
	}

	target := -1
	if targetID != nil && *targetID != m.offerPlayer {
		target = m.indexOf(*targetID)
		if target < 0 {
			return Outcome{}, fmt.Errorf("resolve offer for %d: %w", *targetID, ErrUnknownPlayer)
		}
	}

	var out Outcome
	if target >= 0 {
		m.players[target].Score = scoring.Clamp(m.players[target].Score + m.rules.Config().PointsPerCorrect)
	}
	m.streak[m.offerPlayer] = 0
	m.offer = false
	m.offerPlayer = 0

	if m.checkWin() {
		out.Finished = true
		return out, nil
	}
	m.advance()
	out.Advanced = true
	return out, nil
}

func (m *Machine) restart() error {
	if m.phase != PhaseInProgress && m.phase != PhaseFinished {
		return fmt.Errorf("restart from %s: %w", m.phase, ErrInvalidPhase)
	}

	players := make([]Player, len(m.players))
	for i, p := range m.players {
		p.Score = 0
		players[i] = p
	}
	target := m.target

	m.clear()
	m.generation++
	m.phase = PhaseInProgress
	m.players = players
	m.target = target
	for _, p := range players {
		m.streak[p.ID] = 0
	}
	return nil
}

func (m *Machine) advance() {
	m.current = (m.current + 1) % len(m.players)
}

// checkWin finishes the game when the win rule holds; a pending offer is dropped.
func (m *Machine) checkWin() bool {
	finished, idx := m.rules.Evaluate(m.scores(), m.target)
	if !finished {
		return false
	}

	m.phase = PhaseFinished
	m.offer = false
	m.offerPlayer = 0
	m.question = nil
	m.winners = make([]Player, len(idx))
	for i, j := range idx {
		m.winners[i] = m.players[j]
	}
	return true
}

func (m *Machine) scores() []int {
	scores := make([]int, len(m.players))
	for i, p := range m.players {
		scores[i] = p.Score
	}
	return scores
}

func (m *Machine) indexOf(playerID int) int {
	for i, p := range m.players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

func (m *Machine) snapshot() Session {
	s := Session{
		Phase:                   m.phase,
		Generation:              m.generation,
		Players:                 append([]Player(nil), m.players...),
		CurrentPlayerIndex:      m.current,
		TargetScore:             m.target,
		CurrentQuestion:         m.question,
		UsedQuestionIDs:         make(map[int][]int, len(m.usedOrder)),
		ConsecutiveCorrect:      make(map[int]int, len(m.streak)),
		PendingSharedBonusOffer: m.offer,
		OfferPlayerID:           m.offerPlayer,
		GameFinished:            m.phase == PhaseFinished,
		Winners:                 append([]Player(nil), m.winners...),
	}
	for id, ids := range m.usedOrder {
		s.UsedQuestionIDs[id] = append([]int(nil), ids...)
	}
	for id, n := range m.streak {
		s.ConsecutiveCorrect[id] = n
	}
	return s
}
