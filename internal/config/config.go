package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"popquiz"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:3000"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"10s"`
	StaticDir               string        `env:"STATIC_DIR" envDefault:"web"`

	Questions Questions
	Game      Game
}

// Questions configures the question source.
type Questions struct {
	// CSVPath points at a CSV file with a header row. Column names are matched
	// case-insensitively: prompt from "question" or "prompt", answer from
	// "reponse", "réponse" or "answer", optional synonyms from "synonyms" or
	// "synonymes" (split on "|" or ";"). When the file is missing or empty the
	// server falls back to a built-in question set instead of failing startup.
	CSVPath string `env:"QUESTIONS_CSV" envDefault:"questions.csv"`
}

// Game groups gameplay tunables.
type Game struct {
	RoundSeconds         int           `env:"ROUND_SECONDS" envDefault:"20"`
	RevealDelay          time.Duration `env:"REVEAL_DELAY" envDefault:"4s"`
	ResetDelay           time.Duration `env:"GAME_OVER_RESET_DELAY" envDefault:"5s"`
	WinThreshold         int           `env:"WIN_THRESHOLD" envDefault:"100"`
	MatchTolerance       int           `env:"MATCH_TOLERANCE" envDefault:"4"`
	MinContainmentLength int           `env:"MIN_CONTAINMENT_LENGTH" envDefault:"4"`
	MaxNameLength        int           `env:"MAX_NAME_LENGTH" envDefault:"24"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Game.RoundSeconds < 1 {
		return nil, fmt.Errorf("ROUND_SECONDS must be at least 1, got %d", cfg.Game.RoundSeconds)
	}
	if cfg.Game.WinThreshold < 1 {
		return nil, fmt.Errorf("WIN_THRESHOLD must be at least 1, got %d", cfg.Game.WinThreshold)
	}
	return cfg, nil
}
