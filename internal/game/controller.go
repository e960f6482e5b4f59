package game

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/popsauce/popquiz/internal/bank"
	"github.com/popsauce/popquiz/internal/metrics"
	"github.com/popsauce/popquiz/pkg/http/ws"
)

// Controller is the root of the game: it exclusively owns one Engine and one
// Registry and exposes the inbound event surface. Every event (connect,
// join, start, submit, chat, disconnect, timer fire) is a closure pushed
// onto a single channel and handled to completion by one goroutine, so round
// state is never mutated concurrently.
type Controller struct {
	cfg     Config
	logger  zerolog.Logger
	reg     *Registry
	engine  *Engine
	out     Broadcaster
	metrics *metrics.Metrics
	events  chan func()
}

// NewController wires the registry, matcher, scorer and engine around the
// given bank and broadcaster.
func NewController(cfg Config, b *bank.Bank, out Broadcaster, mx *metrics.Metrics, logger zerolog.Logger) *Controller {
	c := &Controller{
		cfg:     cfg,
		logger:  logger,
		reg:     NewRegistry(cfg.MaxNameLength),
		out:     out,
		metrics: mx,
		events:  make(chan func(), 256),
	}
	matcher := NewMatcher(cfg.MatchTolerance, cfg.MinContainmentLength)
	c.engine = NewEngine(cfg, b, matcher, NewScorer(), c.reg, loopScheduler{dispatch: c.dispatch}, out, mx, logger)
	return c
}

// Run processes events until the context is canceled.
func (c *Controller) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-c.events:
			fn()
		}
	}
}

func (c *Controller) dispatch(fn func()) {
	c.events <- fn
}

// loopScheduler defers work back onto the controller loop, so timer callbacks
// are serialized with inbound events.
type loopScheduler struct {
	dispatch func(func())
}

func (s loopScheduler) After(d time.Duration, fn func()) {
	time.AfterFunc(d, func() { s.dispatch(fn) })
}

// Inbound event surface. Each method is safe to call from connection
// goroutines; the work happens on the loop.

// Connect syncs a fresh connection: current roster, and the running question
// if a round is active (late-joiner sync).
func (c *Controller) Connect(id uuid.UUID) { c.dispatch(func() { c.connect(id) }) }

// Join registers a player under the given display name.
func (c *Controller) Join(id uuid.UUID, name string) { c.dispatch(func() { c.join(id, name) }) }

// Start triggers a new game if none is running.
func (c *Controller) Start(id uuid.UUID) { c.dispatch(func() { c.start(id) }) }

// Submit routes an answer attempt into the round.
func (c *Controller) Submit(id uuid.UUID, text string) { c.dispatch(func() { c.engine.Submit(id, text) }) }

// Chat relays a chat line to everyone.
func (c *Controller) Chat(id uuid.UUID, text string) { c.dispatch(func() { c.chat(id, text) }) }

// Disconnect removes a departed connection's player.
func (c *Controller) Disconnect(id uuid.UUID) { c.dispatch(func() { c.disconnect(id) }) }

func (c *Controller) connect(id uuid.UUID) {
	if err := c.out.SendTo(id, ws.NewMessage(ws.TypePlayersUpdated, ws.PlayersUpdatedPayload{Players: wsPlayers(c.reg)})); err != nil {
		c.logger.Warn().Err(err).Str("conn_id", id.String()).Msg("roster sync failed")
	}
	if c.engine.Phase() == PhaseActive {
		if err := c.out.SendTo(id, ws.NewMessage(ws.TypeQuestionBegan, ws.QuestionBeganPayload{
			Prompt:        c.engine.question.Prompt,
			RoundNumber:   c.engine.roundNum,
			TimeRemaining: c.engine.remaining,
		})); err != nil {
			c.logger.Warn().Err(err).Str("conn_id", id.String()).Msg("question sync failed")
		}
	}
}

func (c *Controller) join(id uuid.UUID, name string) {
	p := c.reg.Join(id, name)
	c.metrics.ConnectedPlayers.Set(float64(c.reg.Len()))
	c.logger.Info().Str("player_id", id.String()).Str("name", p.Name).Msg("player joined")
	c.out.Broadcast(ws.NewMessage(ws.TypePlayersUpdated, ws.PlayersUpdatedPayload{Players: wsPlayers(c.reg)}))
}

func (c *Controller) start(id uuid.UUID) {
	if _, joined := c.reg.Get(id); !joined {
		return
	}
	c.engine.StartGame()
}

func (c *Controller) chat(id uuid.UUID, text string) {
	p, joined := c.reg.Get(id)
	if !joined || text == "" {
		return
	}
	c.out.Broadcast(ws.NewMessage(ws.TypeChat, ws.ChatBroadcastPayload{
		PlayerID: id.String(),
		Name:     p.Name,
		Text:     text,
	}))
}

func (c *Controller) disconnect(id uuid.UUID) {
	if !c.reg.Leave(id) {
		return
	}
	c.metrics.ConnectedPlayers.Set(float64(c.reg.Len()))
	c.logger.Info().Str("player_id", id.String()).Msg("player left")
	c.engine.PlayerLeft(id)
	c.out.Broadcast(ws.NewMessage(ws.TypePlayersUpdated, ws.PlayersUpdatedPayload{Players: wsPlayers(c.reg)}))
}
