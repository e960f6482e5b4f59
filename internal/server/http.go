package server

import (
	"net/http"
	"os"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/popsauce/popquiz/internal/config"
)

// WSUpgrader handles WebSocket upgrades. The game is anonymous and
// short-lived, so any origin is accepted.
var WSUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// NewHTTPServer wires the base routes: health, metrics, the game websocket
// and optional static client assets.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, gameWSHandler http.HandlerFunc) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/ws", gameWSHandler)

	if cfg.StaticDir != "" {
		if info, err := os.Stat(cfg.StaticDir); err == nil && info.IsDir() {
			mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))
			logger.Info().Str("dir", cfg.StaticDir).Msg("serving static assets")
		} else {
			logger.Warn().Str("dir", cfg.StaticDir).Msg("static dir not found, skipping")
		}
	}

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}
}
