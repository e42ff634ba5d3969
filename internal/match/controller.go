package match

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/hotseat-trivia/internal/cards"
	"github.com/gokatarajesh/hotseat-trivia/internal/game"
	"github.com/gokatarajesh/hotseat-trivia/internal/metrics"
	"github.com/gokatarajesh/hotseat-trivia/internal/question"
	"github.com/gokatarajesh/hotseat-trivia/internal/setup"
	"github.com/gokatarajesh/hotseat-trivia/internal/shuffle"
)

// QuestionSupply hands out the next question of a tier for which seen is false.
type QuestionSupply interface {
	Next(tier game.Tier, seen func(id int) bool) (game.Question, error)
	Reset()
}

// Listener receives the view after every change.
type Listener func(View)

// Options tune a Controller. Zero values use production defaults.
type Options struct {
	Timings   Timings
	Scheduler Scheduler
	Metrics   *metrics.Recorder
}

type task struct {
	timer Timer
}

type activeCard struct {
	info         cards.Info
	presentation uint64
	eliminated   []int
	revelation   *task
	hide         *task
	unlock       *task
}

// Controller drives one hot-seat table: it presents questions, runs card
// checks and delays scoring so the players can see feedback. Every mutation
// and every timer callback runs under a single lock.
type Controller struct {
	mu       sync.Mutex
	machine  *game.Machine
	supply   QuestionSupply
	shuffler *shuffle.Shuffler
	resolver *cards.Resolver
	sched    Scheduler
	timings  Timings
	metrics  *metrics.Recorder
	logger   zerolog.Logger

	// generation tags timers; a restart or reset invalidates every callback
	// scheduled before it.
	generation uuid.UUID
	tasks      map[*task]struct{}

	presentation uint64
	layout       *shuffle.Layout
	eliminated   []int
	check        *task
	card         *activeCard
	resolving    bool
	feedback     *Feedback
	scoring      *task
	blocked      string

	// sendMu is taken before mu is released so views reach listeners in
	// the order they were built.
	sendMu      sync.Mutex
	listenersMu sync.RWMutex
	listeners   []Listener
}

// NewController wires a controller around a machine in any phase.
func NewController(machine *game.Machine, supply QuestionSupply, shuffler *shuffle.Shuffler, resolver *cards.Resolver, opts Options, logger zerolog.Logger) *Controller {
	sched := opts.Scheduler
	if sched == nil {
		sched = ClockScheduler()
	}
	return &Controller{
		machine:    machine,
		supply:     supply,
		shuffler:   shuffler,
		resolver:   resolver,
		sched:      sched,
		timings:    opts.Timings.withDefaults(),
		metrics:    opts.Metrics,
		logger:     logger.With().Str("component", "match").Logger(),
		generation: uuid.New(),
		tasks:      make(map[*task]struct{}),
	}
}

// Subscribe registers a listener. Listeners are called in registration order,
// outside the table lock but one view at a time; they must not call back into
// the controller.
func (c *Controller) Subscribe(l Listener) {
	c.listenersMu.Lock()
	defer c.listenersMu.Unlock()
	c.listeners = append(c.listeners, l)
}

func (c *Controller) notify(v View) {
	c.listenersMu.RLock()
	defer c.listenersMu.RUnlock()
	for _, l := range c.listeners {
		l(v)
	}
}

// publishLocked builds the view, releases c.mu and notifies listeners.
func (c *Controller) publishLocked() View {
	v := c.viewLocked()
	c.sendMu.Lock()
	c.mu.Unlock()
	defer c.sendMu.Unlock()
	c.notify(v)
	return v
}

// mutate runs fn under the lock and broadcasts the resulting view.
func (c *Controller) mutate(fn func() error) (View, error) {
	c.mu.Lock()
	if err := fn(); err != nil {
		v := c.viewLocked()
		c.mu.Unlock()
		return v, err
	}
	return c.publishLocked(), nil
}

// View returns the current table.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// Start validates the setup form and begins a new game, discarding any game in
// progress.
func (c *Controller) Start(req setup.Request) (View, error) {
	players, err := setup.Validate(req)
	if err != nil {
		return View{}, err
	}
	return c.mutate(func() error {
		c.invalidate()
		if c.machine.Snapshot().Phase != game.PhaseSetup {
			if _, err := c.apply(game.ResetToSetup{}); err != nil {
				return err
			}
		}
		if _, err := c.apply(game.StartGame{Players: players, TargetScore: req.TargetScore}); err != nil {
			return err
		}
		c.supply.Reset()
		c.logger.Info().
			Int("players", len(players)).
			Int("target_score", req.TargetScore).
			Msg("game started")
		c.presentNext()
		return nil
	})
}

// SubmitAnswer records the answer at a display position. The answer is scored
// once the feedback delay has elapsed.
func (c *Controller) SubmitAnswer(display int) (View, error) {
	return c.mutate(func() error {
		s := c.machine.Snapshot()
		switch {
		case s.Phase != game.PhaseInProgress:
			return game.ErrInvalidPhase
		case s.PendingSharedBonusOffer:
			return game.ErrOfferPending
		case c.feedback != nil:
			return ErrAnswerInFlight
		case c.card != nil || c.resolving:
			return ErrCardInFlight
		case s.CurrentQuestion == nil || c.layout == nil:
			return game.ErrNoCurrentQuestion
		}

		canonical, ok := c.layout.Mapping.Canonical(display)
		if !ok || contains(c.eliminated, display) {
			return ErrInvalidAnswer
		}
		correctAt, _ := c.layout.Mapping.Display(s.CurrentQuestion.CorrectAnswer)

		c.cancel(c.check)
		c.check = nil

		correct := canonical == s.CurrentQuestion.CorrectAnswer
		c.feedback = &Feedback{Selected: display, Correct: correct, CorrectAnswer: correctAt}

		delay := c.timings.FeedbackWrong
		if correct {
			delay = c.timings.FeedbackCorrect
		}
		c.scoring = c.schedule(delay, func() { c.score(correct) })
		return nil
	})
}

func (c *Controller) score(correct bool) {
	c.scoring = nil
	c.feedback = nil
	c.layout = nil
	c.eliminated = nil

	out, err := c.apply(game.AnswerQuestion{Correct: correct})
	if err != nil {
		c.logger.Error().Err(err).Msg("answer rejected")
		return
	}
	switch {
	case out.Finished:
		c.finish(out.Session)
	case out.OfferRaised:
		c.clearCard()
		c.logger.Info().Int("player_id", out.Session.OfferPlayerID).Msg("shared bonus offered")
	default:
		c.presentNext()
	}
}

// ResolveOffer settles the pending shared bonus offer. A nil target skips it.
func (c *Controller) ResolveOffer(targetPlayerID *int) (View, error) {
	return c.mutate(func() error {
		out, err := c.apply(game.ResolveSharedBonusOffer{TargetPlayerID: targetPlayerID})
		if err != nil {
			return err
		}
		if out.Finished {
			c.finish(out.Session)
			return nil
		}
		c.presentNext()
		return nil
	})
}

// DismissCard closes the visible card. A pending revelation is applied at once.
func (c *Controller) DismissCard() (View, error) {
	return c.mutate(func() error {
		if c.card == nil {
			return ErrNoActiveCard
		}
		if c.card.revelation != nil {
			c.reveal(c.card.presentation, c.card.eliminated)
		}
		c.clearCard()
		return nil
	})
}

// NextQuestion presents a question when none is showing. It is how a table
// blocked by an exhausted pool retries after the bank grows.
func (c *Controller) NextQuestion() (View, error) {
	return c.mutate(func() error {
		s := c.machine.Snapshot()
		switch {
		case s.Phase != game.PhaseInProgress:
			return game.ErrInvalidPhase
		case s.PendingSharedBonusOffer:
			return game.ErrOfferPending
		case c.feedback != nil:
			return ErrAnswerInFlight
		case s.CurrentQuestion != nil:
			return nil
		}
		c.presentNext()
		return nil
	})
}

// QuestionsReloaded retries a blocked table after the bank changed.
func (c *Controller) QuestionsReloaded() {
	c.mu.Lock()
	if c.blocked == "" || c.machine.Snapshot().Phase != game.PhaseInProgress {
		c.mu.Unlock()
		return
	}
	c.presentNext()
	c.publishLocked()
}

// Restart replays the game with the same players and target.
func (c *Controller) Restart() (View, error) {
	return c.mutate(func() error {
		c.invalidate()
		if _, err := c.apply(game.RestartGame{}); err != nil {
			return err
		}
		c.supply.Reset()
		c.logger.Info().Msg("game restarted")
		c.presentNext()
		return nil
	})
}

// Reset abandons the game and returns to the setup form.
func (c *Controller) Reset() (View, error) {
	return c.mutate(func() error {
		c.invalidate()
		_, err := c.apply(game.ResetToSetup{})
		return err
	})
}

// Close cancels every pending timer.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidate()
}

func (c *Controller) apply(t game.Transition) (game.Outcome, error) {
	out, err := c.machine.Apply(t)
	c.metrics.Transition(t.Name(), err)
	if err != nil {
		c.logger.Debug().Err(err).Str("transition", t.Name()).Msg("transition rejected")
	}
	return out, err
}

func (c *Controller) presentNext() {
	s := c.machine.Snapshot()
	if s.Phase != game.PhaseInProgress || s.PendingSharedBonusOffer {
		return
	}
	p, ok := s.CurrentPlayer()
	if !ok {
		return
	}

	q, err := c.supply.Next(p.Tier, func(id int) bool { return s.HasUsed(p.ID, id) })
	if err != nil {
		if errors.Is(err, question.ErrExhaustedPool) {
			c.blocked = fmt.Sprintf("no unseen %s questions left for %s", p.Tier, p.Name)
			c.metrics.PoolExhausted(string(p.Tier))
			c.logger.Warn().Int("player_id", p.ID).Str("tier", string(p.Tier)).Msg("question pool exhausted")
			return
		}
		c.blocked = "question bank unavailable"
		c.logger.Error().Err(err).Msg("question supply failed")
		return
	}
	if _, err := c.apply(game.SetCurrentQuestion{Question: &q}); err != nil {
		c.blocked = err.Error()
		c.logger.Error().Err(err).Int("question_id", q.ID).Msg("question rejected")
		return
	}

	layout := c.shuffler.Shuffle(q, p.Tier)
	c.blocked = ""
	c.presentation++
	c.layout = &layout
	c.eliminated = nil

	presentation := c.presentation
	c.check = c.schedule(c.timings.CardCheckDelay, func() { c.runCardCheck(presentation) })
}

func (c *Controller) runCardCheck(presentation uint64) {
	c.check = nil
	if presentation != c.presentation || c.feedback != nil || c.layout == nil {
		return
	}
	s := c.machine.Snapshot()
	p, ok := s.CurrentPlayer()
	if !ok || s.CurrentQuestion == nil {
		return
	}

	guard := cards.Guard{
		CardVisible:   c.card != nil,
		CardResolving: c.resolving,
		Streak:        s.ConsecutiveCorrect[p.ID],
		OfferPending:  s.PendingSharedBonusOffer,
	}
	req := cards.Request{
		Tier:          p.Tier,
		QuestionKind:  s.CurrentQuestion.Kind,
		CorrectAnswer: s.CurrentQuestion.CorrectAnswer,
		Mapping:       c.layout.Mapping.Clone(),
		PlayerCount:   len(s.Players),
	}
	draw, ok := c.resolver.Check(guard, req)
	if !ok {
		return
	}

	c.metrics.CardFired(string(draw.Kind), string(p.Tier))
	c.logger.Info().
		Str("card", string(draw.Kind)).
		Int("player_id", p.ID).
		Msg("card drawn")

	card := &activeCard{info: draw.Info, presentation: presentation}
	c.card = card
	c.resolving = true

	if draw.Effect != nil {
		out, err := c.apply(game.ApplyCardEffect{Effect: *draw.Effect})
		if err != nil {
			c.logger.Error().Err(err).Str("card", string(draw.Kind)).Msg("card effect rejected")
		} else if out.Finished {
			c.finish(out.Session)
			return
		}
	}
	if draw.Eliminated != nil {
		card.eliminated = draw.Eliminated
		card.revelation = c.schedule(c.timings.RevelationDelay, func() {
			card.revelation = nil
			c.reveal(presentation, card.eliminated)
		})
	}
	card.hide = c.schedule(c.timings.CardDisplay, func() {
		card.hide = nil
		if c.card == card {
			c.card = nil
		}
	})
	card.unlock = c.schedule(c.timings.CardLock, func() {
		card.unlock = nil
		if c.card == card || c.card == nil {
			c.resolving = false
		}
	})
}

// reveal applies eliminations only to the presentation they were drawn for.
func (c *Controller) reveal(presentation uint64, eliminated []int) {
	if presentation != c.presentation || c.layout == nil {
		c.logger.Debug().Msg("stale revelation dropped")
		return
	}
	c.eliminated = append([]int(nil), eliminated...)
}

func (c *Controller) clearCard() {
	if c.card != nil {
		c.cancel(c.card.revelation)
		c.cancel(c.card.hide)
		c.cancel(c.card.unlock)
		c.card = nil
	}
	c.resolving = false
}

func (c *Controller) finish(s game.Session) {
	c.cancelAll()
	c.clearCard()
	c.check = nil
	c.scoring = nil
	c.feedback = nil
	c.layout = nil
	c.eliminated = nil
	c.blocked = ""
	c.metrics.GameFinished(len(s.Players))

	names := make([]string, 0, len(s.Winners))
	for _, w := range s.Winners {
		names = append(names, w.Name)
	}
	c.logger.Info().Strs("winners", names).Msg("game finished")
}

// invalidate drops every timer and all presentation state and starts a new
// generation.
func (c *Controller) invalidate() {
	c.cancelAll()
	c.generation = uuid.New()
	c.card = nil
	c.resolving = false
	c.check = nil
	c.scoring = nil
	c.feedback = nil
	c.layout = nil
	c.eliminated = nil
	c.blocked = ""
}

func (c *Controller) schedule(d time.Duration, fn func()) *task {
	t := &task{}
	gen := c.generation
	t.timer = c.sched.AfterFunc(d, func() {
		c.mu.Lock()
		if _, live := c.tasks[t]; !live || gen != c.generation {
			c.mu.Unlock()
			return
		}
		delete(c.tasks, t)
		fn()
		c.publishLocked()
	})
	c.tasks[t] = struct{}{}
	return t
}

func (c *Controller) cancel(t *task) {
	if t == nil {
		return
	}
	if _, ok := c.tasks[t]; ok {
		t.timer.Stop()
		delete(c.tasks, t)
	}
}

func (c *Controller) cancelAll() {
	for t := range c.tasks {
		t.timer.Stop()
	}
	c.tasks = make(map[*task]struct{})
}

func (c *Controller) viewLocked() View {
	s := c.machine.Snapshot()
	v := View{
		Generation:    c.generation.String(),
		CardResolving: c.resolving,
		Blocked:       c.blocked,
	}

	if s.CurrentQuestion != nil && c.layout != nil {
		v.Question = &QuestionView{
			ID:         s.CurrentQuestion.ID,
			Kind:       s.CurrentQuestion.Kind,
			Prompt:     s.CurrentQuestion.Prompt,
			Answers:    append([]string(nil), c.layout.Answers...),
			Eliminated: append([]int{}, c.eliminated...),
		}
	}
	s.CurrentQuestion = nil
	v.Session = s

	if c.card != nil {
		info := c.card.info
		v.Card = &info
	}
	if c.feedback != nil {
		f := *c.feedback
		v.Feedback = &f
	}
	if s.PendingSharedBonusOffer {
		v.OfferCandidates = s.OtherPlayers(s.OfferPlayerID)
	}
	return v
}

func contains(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
