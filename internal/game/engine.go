package game

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/popsauce/popquiz/internal/bank"
	"github.com/popsauce/popquiz/internal/metrics"
	"github.com/popsauce/popquiz/pkg/http/ws"
)

// Phase of the round state machine. Transitions are strictly linear per
// round: Idle -> Active -> Revealing -> Paused -> next Active or GameOver.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseActive
	PhaseRevealing
	PhasePaused
	PhaseGameOver
)

// Broadcaster fans messages out to clients. Implemented by *ws.Hub; tests
// substitute a recorder.
type Broadcaster interface {
	Broadcast(msg ws.Message)
	SendTo(id uuid.UUID, msg ws.Message) error
}

// Scheduler defers work. The production implementation re-dispatches the
// callback onto the controller loop, so timer fires are serialized with every
// other event.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// Config groups the engine's gameplay tunables.
type Config struct {
	RoundSeconds         int
	RevealDelay          time.Duration
	ResetDelay           time.Duration
	WinThreshold         int
	MatchTolerance       int
	MinContainmentLength int
	MaxNameLength        int
}

// DefaultConfig mirrors the documented env defaults.
func DefaultConfig() Config {
	return Config{
		RoundSeconds:         20,
		RevealDelay:          4 * time.Second,
		ResetDelay:           5 * time.Second,
		WinThreshold:         100,
		MatchTolerance:       4,
		MinContainmentLength: 4,
		MaxNameLength:        24,
	}
}

// Engine owns the single authoritative round state and drives one question's
// lifecycle: selection, countdown, early termination, reveal, pause, next
// round or game over. All methods must be called from the controller loop.
type Engine struct {
	cfg     Config
	bank    *bank.Bank
	matcher *Matcher
	scorer  *Scorer
	reg     *Registry
	sched   Scheduler
	out     Broadcaster
	metrics *metrics.Metrics
	logger  zerolog.Logger
	now     func() time.Time

	phase     Phase
	roundID   uint64
	roundNum  int
	question  bank.Record
	startedAt time.Time
	remaining int
	found     map[uuid.UUID]struct{}
}

// NewEngine wires the round state machine. Every collaborator is constructor
// injected; the engine reaches nothing ambient.
func NewEngine(cfg Config, b *bank.Bank, m *Matcher, s *Scorer, reg *Registry, sched Scheduler, out Broadcaster, mx *metrics.Metrics, logger zerolog.Logger) *Engine {
	return &Engine{
		cfg:     cfg,
		bank:    b,
		matcher: m,
		scorer:  s,
		reg:     reg,
		sched:   sched,
		out:     out,
		metrics: mx,
		logger:  logger,
		now:     time.Now,
		found:   make(map[uuid.UUID]struct{}),
	}
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase {
	return e.phase
}

// StartGame begins a fresh game. Only valid from Idle; anything else is a
// no-op, which makes concurrent double-starts harmless.
func (e *Engine) StartGame() {
	if e.phase != PhaseIdle {
		return
	}
	e.bank.ResetCycle()
	e.roundNum = 0
	e.startRound()
}

// startRound selects the next question and opens the countdown. Bumping
// roundID here invalidates any timer still pending from the previous round.
func (e *Engine) startRound() {
	e.roundID++
	e.roundNum++
	e.question = e.bank.PickNext()
	e.found = make(map[uuid.UUID]struct{})
	e.remaining = e.cfg.RoundSeconds
	e.startedAt = e.now()
	e.phase = PhaseActive

	e.metrics.RoundsStarted.Inc()
	e.logger.Info().Int("round", e.roundNum).Str("prompt", e.question.Prompt).Msg("round started")

	e.out.Broadcast(ws.NewMessage(ws.TypeQuestionBegan, ws.QuestionBeganPayload{
		Prompt:        e.question.Prompt,
		RoundNumber:   e.roundNum,
		TimeRemaining: e.remaining,
	}))
	e.scheduleTick()
}

func (e *Engine) scheduleTick() {
	id := e.roundID
	e.sched.After(time.Second, func() { e.tick(id) })
}

// tick handles one countdown second. A tick carrying a stale round id, or
// arriving outside Active, belongs to a round that already ended and is
// ignored.
func (e *Engine) tick(id uint64) {
	if id != e.roundID || e.phase != PhaseActive {
		return
	}
	e.remaining--
	e.out.Broadcast(ws.NewMessage(ws.TypeTimeUpdate, ws.TimeUpdatePayload{TimeRemaining: e.remaining}))
	if e.remaining <= 0 {
		e.reveal()
		return
	}
	e.scheduleTick()
}

// Submit routes an answer attempt through the matcher. Outside Active, from
// an unknown player, with empty text, or from a player who already found the
// answer, it is a no-op.
func (e *Engine) Submit(playerID uuid.UUID, text string) {
	if e.phase != PhaseActive {
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if _, joined := e.reg.Get(playerID); !joined {
		return
	}
	if _, done := e.found[playerID]; done {
		return
	}

	if !e.matcher.Match(text, e.question.Answer, e.question.Synonyms) {
		e.metrics.Answers.WithLabelValues(metrics.ResultWrong).Inc()
		e.out.Broadcast(ws.NewMessage(ws.TypeWrongAttempt, ws.WrongAttemptPayload{
			PlayerID: playerID.String(),
			Text:     text,
		}))
		return
	}

	first := len(e.found) == 0
	e.found[playerID] = struct{}{}
	elapsed := int(e.now().Sub(e.startedAt) / time.Second)
	points := e.scorer.Award(elapsed, first)
	e.reg.AddScore(playerID, points)

	e.metrics.Answers.WithLabelValues(metrics.ResultCorrect).Inc()
	e.logger.Info().
		Str("player_id", playerID.String()).
		Int("points", points).
		Int("elapsed_seconds", elapsed).
		Bool("first", first).
		Msg("correct answer")

	e.out.Broadcast(ws.NewMessage(ws.TypePlayerFound, ws.PlayerFoundPayload{
		PlayerID: playerID.String(),
		Found:    e.foundIDs(),
		Scores:   e.scores(),
	}))

	if len(e.found) == e.reg.Len() {
		e.reveal()
	}
}

// PlayerLeft removes a departed player from round bookkeeping. The
// everyone-answered check re-runs against the post-disconnect roster; an
// empty room aborts the game.
func (e *Engine) PlayerLeft(playerID uuid.UUID) {
	delete(e.found, playerID)

	if e.reg.Len() == 0 {
		if e.phase != PhaseIdle {
			e.roundID++ // invalidate pending timers
			e.phase = PhaseIdle
			e.roundNum = 0
			e.logger.Info().Msg("room empty, game aborted")
		}
		return
	}

	if e.phase == PhaseActive && len(e.found) > 0 && len(e.found) == e.reg.Len() {
		e.reveal()
	}
}

// reveal broadcasts the answer and schedules the pause. The roundID bump is
// the cancellation of the countdown: a pending tick sees a stale id and does
// nothing, so a duplicate reveal cannot happen.
func (e *Engine) reveal() {
	e.roundID++
	e.phase = PhaseRevealing
	e.out.Broadcast(ws.NewMessage(ws.TypeReveal, ws.RevealPayload{Answer: e.question.Answer}))

	id := e.roundID
	e.sched.After(e.cfg.RevealDelay, func() { e.revealElapsed(id) })
}

// revealElapsed enters Paused and decides continuation: game over past the
// win threshold, otherwise the next round.
func (e *Engine) revealElapsed(id uint64) {
	if id != e.roundID || e.phase != PhaseRevealing {
		return
	}
	e.phase = PhasePaused

	if winner, ok := e.reg.Top(); ok && winner.Score >= e.cfg.WinThreshold {
		e.gameOver(winner)
		return
	}
	e.startRound()
}

func (e *Engine) gameOver(winner Player) {
	e.phase = PhaseGameOver
	e.metrics.GamesCompleted.Inc()
	e.logger.Info().Str("winner", winner.Name).Int("score", winner.Score).Msg("game over")

	e.out.Broadcast(ws.NewMessage(ws.TypeGameOver, ws.GameOverPayload{
		WinnerName:  winner.Name,
		WinnerScore: winner.Score,
	}))

	id := e.roundID
	e.sched.After(e.cfg.ResetDelay, func() { e.resetFired(id) })
}

// resetFired returns the room to the lobby: scores zeroed, used set cleared.
func (e *Engine) resetFired(id uint64) {
	if id != e.roundID || e.phase != PhaseGameOver {
		return
	}
	e.reg.ResetScores()
	e.bank.ResetCycle()
	e.roundNum = 0
	e.phase = PhaseIdle
	e.out.Broadcast(ws.NewMessage(ws.TypePlayersUpdated, ws.PlayersUpdatedPayload{Players: wsPlayers(e.reg)}))
}

func (e *Engine) foundIDs() []string {
	ids := make([]string, 0, len(e.found))
	for id := range e.found {
		ids = append(ids, id.String())
	}
	return ids
}

func (e *Engine) scores() map[string]int {
	scores := make(map[string]int, e.reg.Len())
	for _, p := range e.reg.List() {
		scores[p.ID.String()] = p.Score
	}
	return scores
}

func wsPlayers(reg *Registry) []ws.Player {
	players := reg.List()
	out := make([]ws.Player, len(players))
	for i, p := range players {
		out[i] = ws.Player{ID: p.ID.String(), Name: p.Name, Score: p.Score}
	}
	return out
}
