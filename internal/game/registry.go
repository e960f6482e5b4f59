package game

import (
	"strings"

	"github.com/google/uuid"
)

// DefaultName is assigned when a player joins with an empty name.
const DefaultName = "guest"

// Player is a connected participant. Score only increases, except on an
// explicit game reset.
type Player struct {
	ID    uuid.UUID
	Name  string
	Score int
}

// Registry tracks connected players in join order. Like the rest of the game
// state it is mutated only from the controller loop.
type Registry struct {
	players    map[uuid.UUID]*Player
	order      []uuid.UUID
	maxNameLen int
}

// NewRegistry creates an empty registry. maxNameLen caps display names in
// runes.
func NewRegistry(maxNameLen int) *Registry {
	return &Registry{
		players:    make(map[uuid.UUID]*Player),
		maxNameLen: maxNameLen,
	}
}

// Join adds a player. The name is trimmed and length-capped; an empty name
// gets the default. Joining twice with the same id renames in place.
func (r *Registry) Join(id uuid.UUID, name string) *Player {
	name = strings.TrimSpace(name)
	if runes := []rune(name); len(runes) > r.maxNameLen {
		name = string(runes[:r.maxNameLen])
	}
	if name == "" {
		name = DefaultName
	}

	if p, exists := r.players[id]; exists {
		p.Name = name
		return p
	}

	p := &Player{ID: id, Name: name}
	r.players[id] = p
	r.order = append(r.order, id)
	return p
}

// Leave removes a player, reporting whether they were present.
func (r *Registry) Leave(id uuid.UUID) bool {
	if _, exists := r.players[id]; !exists {
		return false
	}
	delete(r.players, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns the player for id, if joined.
func (r *Registry) Get(id uuid.UUID) (*Player, bool) {
	p, exists := r.players[id]
	return p, exists
}

// List returns a snapshot of all players in join order.
func (r *Registry) List() []Player {
	out := make([]Player, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.players[id])
	}
	return out
}

// Len returns the number of joined players.
func (r *Registry) Len() int {
	return len(r.players)
}

// ScoreOf returns the score for id, zero if unknown.
func (r *Registry) ScoreOf(id uuid.UUID) int {
	if p, exists := r.players[id]; exists {
		return p.Score
	}
	return 0
}

// AddScore awards points to a player. Unknown ids are a no-op.
func (r *Registry) AddScore(id uuid.UUID, points int) {
	if p, exists := r.players[id]; exists && points > 0 {
		p.Score += points
	}
}

// ResetScores zeroes every score (game reset).
func (r *Registry) ResetScores() {
	for _, p := range r.players {
		p.Score = 0
	}
}

// Top returns the highest-scoring player; ties go to the earliest joiner.
func (r *Registry) Top() (Player, bool) {
	var best *Player
	for _, id := range r.order {
		p := r.players[id]
		if best == nil || p.Score > best.Score {
			best = p
		}
	}
	if best == nil {
		return Player{}, false
	}
	return *best, true
}
