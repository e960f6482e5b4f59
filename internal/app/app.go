package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/popsauce/popquiz/internal/bank"
	"github.com/popsauce/popquiz/internal/config"
	"github.com/popsauce/popquiz/internal/game"
	"github.com/popsauce/popquiz/internal/logging"
	"github.com/popsauce/popquiz/internal/metrics"
	"github.com/popsauce/popquiz/internal/server"
	"github.com/popsauce/popquiz/pkg/http/ws"
)

// Application aggregates the game controller and HTTP server.
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	http *http.Server
	ctrl *game.Controller
}

// New bootstraps config, logger, question bank, game controller and HTTP
// server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	records, err := bank.LoadCSV(cfg.Questions.CSVPath)
	if err != nil {
		// A missing or malformed question source is recoverable: fall back to
		// the built-in set rather than failing startup.
		logger.Warn().Err(err).Str("path", cfg.Questions.CSVPath).Msg("question source unavailable, using built-in set")
	}
	questionBank := bank.New(records)
	logger.Info().Int("questions", questionBank.Size()).Msg("question bank loaded")

	mx := metrics.New(prometheus.DefaultRegisterer)
	hub := ws.NewHub(logger)

	gameCfg := game.Config{
		RoundSeconds:         cfg.Game.RoundSeconds,
		RevealDelay:          cfg.Game.RevealDelay,
		ResetDelay:           cfg.Game.ResetDelay,
		WinThreshold:         cfg.Game.WinThreshold,
		MatchTolerance:       cfg.Game.MatchTolerance,
		MinContainmentLength: cfg.Game.MinContainmentLength,
		MaxNameLength:        cfg.Game.MaxNameLength,
	}
	ctrl := game.NewController(gameCfg, questionBank, hub, mx, logger)
	wsHandler := game.NewWSHandler(ctrl, hub, logger)

	httpServer := server.NewHTTPServer(cfg, logger, wsHandler.Handle)

	return &Application{
		cfg:    cfg,
		logger: logger,
		http:   httpServer,
		ctrl:   ctrl,
	}, nil
}

// Run starts the game loop and HTTP server, then waits for termination.
func (a *Application) Run(ctx context.Context) error {
	loopCtx, cancelLoop := context.WithCancel(ctx)
	defer cancelLoop()
	go a.ctrl.Run(loopCtx)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}
