package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Answer result labels.
const (
	ResultCorrect = "correct"
	ResultWrong   = "wrong"
)

// Metrics exposes gameplay counters on the /metrics endpoint.
type Metrics struct {
	ConnectedPlayers prometheus.Gauge
	RoundsStarted    prometheus.Counter
	GamesCompleted   prometheus.Counter
	Answers          *prometheus.CounterVec
}

// New registers gameplay metrics against the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ConnectedPlayers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "popquiz",
			Name:      "connected_players",
			Help:      "Number of players currently joined to the game.",
		}),
		RoundsStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "popquiz",
			Name:      "rounds_started_total",
			Help:      "Total number of rounds started.",
		}),
		GamesCompleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "popquiz",
			Name:      "games_completed_total",
			Help:      "Total number of games that reached the win threshold.",
		}),
		Answers: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "popquiz",
			Name:      "answers_total",
			Help:      "Total answer submissions by result.",
		}, []string{"result"}),
	}
}
