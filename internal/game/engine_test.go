package game

import (
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popsauce/popquiz/internal/bank"
	"github.com/popsauce/popquiz/internal/metrics"
	"github.com/popsauce/popquiz/pkg/http/ws"
)

// recorder captures broadcast and unicast traffic for assertions.
type recorder struct {
	broadcasts []ws.Message
	unicasts   []ws.Message
}

func (r *recorder) Broadcast(msg ws.Message) { r.broadcasts = append(r.broadcasts, msg) }

func (r *recorder) SendTo(_ uuid.UUID, msg ws.Message) error {
	r.unicasts = append(r.unicasts, msg)
	return nil
}

func (r *recorder) byType(msgType string) []ws.Message {
	var out []ws.Message
	for _, m := range r.broadcasts {
		if m.Type == msgType {
			out = append(out, m)
		}
	}
	return out
}

func (r *recorder) lastOfType(t *testing.T, msgType string) ws.Message {
	t.Helper()
	msgs := r.byType(msgType)
	require.NotEmpty(t, msgs, "no %s broadcast recorded", msgType)
	return msgs[len(msgs)-1]
}

// manualScheduler queues callbacks so tests fire timers deterministically.
type manualScheduler struct {
	pending []func()
}

func (s *manualScheduler) After(_ time.Duration, fn func()) {
	s.pending = append(s.pending, fn)
}

func (s *manualScheduler) fireNext(t *testing.T) {
	t.Helper()
	require.NotEmpty(t, s.pending, "no pending timer to fire")
	fn := s.pending[0]
	s.pending = s.pending[1:]
	fn()
}

type testRig struct {
	engine *Engine
	reg    *Registry
	out    *recorder
	sched  *manualScheduler
	now    time.Time
}

func newTestRig(cfg Config, records []bank.Record) *testRig {
	rig := &testRig{
		reg:   NewRegistry(cfg.MaxNameLength),
		out:   &recorder{},
		sched: &manualScheduler{},
		now:   time.Unix(1_700_000_000, 0),
	}
	rig.engine = NewEngine(
		cfg,
		bank.New(records),
		NewMatcher(cfg.MatchTolerance, cfg.MinContainmentLength),
		NewScorer(),
		rig.reg,
		rig.sched,
		rig.out,
		metrics.New(prometheus.NewRegistry()),
		zerolog.New(io.Discard),
	)
	rig.engine.now = func() time.Time { return rig.now }
	return rig
}

func (r *testRig) advance(d time.Duration) {
	r.now = r.now.Add(d)
}

func (r *testRig) join(name string) uuid.UUID {
	id := uuid.New()
	r.reg.Join(id, name)
	return id
}

func decode[T any](t *testing.T, msg ws.Message) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(msg.Payload, &v))
	return v
}

func mathQuestion() []bank.Record {
	return []bank.Record{{Prompt: "2+2?", Answer: "4", Synonyms: []string{"quatre"}}}
}

func TestRoundEndsEarlyWhenEveryoneAnswers(t *testing.T) {
	rig := newTestRig(DefaultConfig(), mathQuestion())
	a := rig.join("alice")
	b := rig.join("bob")

	rig.engine.StartGame()
	require.Equal(t, PhaseActive, rig.engine.Phase())

	began := decode[ws.QuestionBeganPayload](t, rig.out.lastOfType(t, ws.TypeQuestionBegan))
	assert.Equal(t, "2+2?", began.Prompt)
	assert.Equal(t, 1, began.RoundNumber)
	assert.Equal(t, 20, began.TimeRemaining)

	rig.advance(time.Second)
	rig.engine.Submit(a, "4")
	assert.Equal(t, 10, rig.reg.ScoreOf(a), "first correct answer gets the maximum")
	assert.Equal(t, PhaseActive, rig.engine.Phase(), "round continues while bob is missing")

	found := decode[ws.PlayerFoundPayload](t, rig.out.lastOfType(t, ws.TypePlayerFound))
	assert.Equal(t, a.String(), found.PlayerID)
	assert.Equal(t, []string{a.String()}, found.Found)

	rig.advance(time.Second)
	rig.engine.Submit(b, "quatre")
	scoreB := rig.reg.ScoreOf(b)
	assert.Greater(t, scoreB, 0)
	assert.Less(t, scoreB, 10, "later correct answers score below the maximum")

	// Everyone answered: reveal fires without waiting for the countdown.
	require.Equal(t, PhaseRevealing, rig.engine.Phase())
	reveal := decode[ws.RevealPayload](t, rig.out.lastOfType(t, ws.TypeReveal))
	assert.Equal(t, "4", reveal.Answer)

	found = decode[ws.PlayerFoundPayload](t, rig.out.lastOfType(t, ws.TypePlayerFound))
	assert.ElementsMatch(t, []string{a.String(), b.String()}, found.Found)
	assert.Equal(t, 10, found.Scores[a.String()])
	assert.Equal(t, scoreB, found.Scores[b.String()])
}

func TestCountdownTimeoutReveals(t *testing.T) {
	rig := newTestRig(DefaultConfig(), mathQuestion())
	rig.join("alice")

	rig.engine.StartGame()
	for i := 0; i < 20; i++ {
		rig.sched.fireNext(t)
	}

	updates := rig.out.byType(ws.TypeTimeUpdate)
	require.Len(t, updates, 20)
	assert.Equal(t, 19, decode[ws.TimeUpdatePayload](t, updates[0]).TimeRemaining)
	assert.Equal(t, 0, decode[ws.TimeUpdatePayload](t, updates[19]).TimeRemaining)

	assert.Equal(t, PhaseRevealing, rig.engine.Phase())
	reveal := decode[ws.RevealPayload](t, rig.out.lastOfType(t, ws.TypeReveal))
	assert.Equal(t, "4", reveal.Answer)
}

func TestStaleTickIgnoredAfterEarlyReveal(t *testing.T) {
	rig := newTestRig(DefaultConfig(), mathQuestion())
	a := rig.join("alice")

	rig.engine.StartGame()
	rig.engine.Submit(a, "4") // sole player: immediate reveal
	require.Equal(t, PhaseRevealing, rig.engine.Phase())

	// The countdown tick scheduled at round start is still queued. Firing it
	// must not decrement the clock or emit anything: its round id is stale.
	rig.sched.fireNext(t)
	assert.Empty(t, rig.out.byType(ws.TypeTimeUpdate))
	assert.Len(t, rig.out.byType(ws.TypeReveal), 1)
	assert.Equal(t, PhaseRevealing, rig.engine.Phase())
}

func TestDisconnectMidRoundCompletesFoundSet(t *testing.T) {
	rig := newTestRig(DefaultConfig(), mathQuestion())
	a := rig.join("alice")
	b := rig.join("bob")

	rig.engine.StartGame()
	rig.engine.Submit(a, "4")
	require.Equal(t, PhaseActive, rig.engine.Phase())

	// Bob leaves before answering: the everyone-answered check must use the
	// post-disconnect roster.
	rig.reg.Leave(b)
	rig.engine.PlayerLeft(b)

	assert.Equal(t, PhaseRevealing, rig.engine.Phase())
	assert.Len(t, rig.out.byType(ws.TypeReveal), 1)
}

func TestDisconnectOfFoundPlayerDoesNotRevealAlone(t *testing.T) {
	rig := newTestRig(DefaultConfig(), mathQuestion())
	a := rig.join("alice")
	rig.join("bob")

	rig.engine.StartGame()
	rig.engine.Submit(a, "4")

	// The player who already answered leaves; bob still owes an answer.
	rig.reg.Leave(a)
	rig.engine.PlayerLeft(a)

	assert.Equal(t, PhaseActive, rig.engine.Phase())
	assert.Empty(t, rig.out.byType(ws.TypeReveal))
}

func TestEmptyRoomAbortsGame(t *testing.T) {
	rig := newTestRig(DefaultConfig(), mathQuestion())
	a := rig.join("alice")

	rig.engine.StartGame()
	rig.reg.Leave(a)
	rig.engine.PlayerLeft(a)

	assert.Equal(t, PhaseIdle, rig.engine.Phase())

	// The abandoned countdown tick is stale now.
	rig.sched.fireNext(t)
	assert.Empty(t, rig.out.byType(ws.TypeTimeUpdate))
}

func TestWinThresholdEndsGameAndResets(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WinThreshold = 10
	rig := newTestRig(cfg, mathQuestion())
	a := rig.join("alice")

	rig.engine.StartGame()
	rig.engine.Submit(a, "4") // 10 points, sole player: reveal
	require.Equal(t, PhaseRevealing, rig.engine.Phase())

	rig.sched.fireNext(t) // stale countdown tick
	rig.sched.fireNext(t) // reveal delay elapses

	assert.Equal(t, PhaseGameOver, rig.engine.Phase())
	over := decode[ws.GameOverPayload](t, rig.out.lastOfType(t, ws.TypeGameOver))
	assert.Equal(t, "alice", over.WinnerName)
	assert.Equal(t, 10, over.WinnerScore)

	rig.sched.fireNext(t) // reset delay elapses

	assert.Equal(t, PhaseIdle, rig.engine.Phase())
	assert.Equal(t, 0, rig.reg.ScoreOf(a), "scores reset to zero after game over")
	roster := decode[ws.PlayersUpdatedPayload](t, rig.out.lastOfType(t, ws.TypePlayersUpdated))
	require.Len(t, roster.Players, 1)
	assert.Equal(t, 0, roster.Players[0].Score)
}

func TestBelowThresholdStartsNextRound(t *testing.T) {
	rig := newTestRig(DefaultConfig(), mathQuestion())
	a := rig.join("alice")

	rig.engine.StartGame()
	rig.engine.Submit(a, "4")
	require.Equal(t, PhaseRevealing, rig.engine.Phase())

	rig.sched.fireNext(t) // stale countdown tick
	rig.sched.fireNext(t) // reveal delay elapses

	assert.Equal(t, PhaseActive, rig.engine.Phase())
	assert.Len(t, rig.out.byType(ws.TypeQuestionBegan), 2, "second round begins after the pause")
}

func TestStartGameNoOpOutsideIdle(t *testing.T) {
	rig := newTestRig(DefaultConfig(), mathQuestion())
	rig.join("alice")

	rig.engine.StartGame()
	rig.engine.StartGame() // double-start race: ignored

	assert.Len(t, rig.out.byType(ws.TypeQuestionBegan), 1)
}

func TestSubmitEdgeCases(t *testing.T) {
	rig := newTestRig(DefaultConfig(), mathQuestion())
	a := rig.join("alice")
	rig.join("bob")

	rig.engine.Submit(a, "4")
	assert.Equal(t, 0, rig.reg.ScoreOf(a), "submissions outside an active round are ignored")

	rig.engine.StartGame()

	rig.engine.Submit(uuid.New(), "4") // never joined
	assert.Empty(t, rig.out.byType(ws.TypePlayerFound))

	rig.engine.Submit(a, "   ") // whitespace only
	assert.Empty(t, rig.out.byType(ws.TypeWrongAttempt))
	assert.Empty(t, rig.out.byType(ws.TypePlayerFound))

	rig.engine.Submit(a, "seventeen")
	wrong := decode[ws.WrongAttemptPayload](t, rig.out.lastOfType(t, ws.TypeWrongAttempt))
	assert.Equal(t, a.String(), wrong.PlayerID)
	assert.Equal(t, "seventeen", wrong.Text)
	assert.Equal(t, 0, rig.reg.ScoreOf(a))

	rig.engine.Submit(a, "4")
	rig.engine.Submit(a, "4") // duplicate after success: ignored
	assert.Equal(t, 10, rig.reg.ScoreOf(a))
	assert.Len(t, rig.out.byType(ws.TypePlayerFound), 1)
}
