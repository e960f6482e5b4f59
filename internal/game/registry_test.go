package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinNormalizesNames(t *testing.T) {
	r := NewRegistry(8)

	p := r.Join(uuid.New(), "  alice  ")
	assert.Equal(t, "alice", p.Name)

	p = r.Join(uuid.New(), "")
	assert.Equal(t, DefaultName, p.Name)

	p = r.Join(uuid.New(), "   ")
	assert.Equal(t, DefaultName, p.Name)

	p = r.Join(uuid.New(), "abcdefghijklmnop")
	assert.Equal(t, "abcdefgh", p.Name, "names are capped at the configured length")
}

func TestJoinTwiceRenamesInPlace(t *testing.T) {
	r := NewRegistry(24)
	id := uuid.New()

	r.Join(id, "alice")
	r.AddScore(id, 5)
	p := r.Join(id, "alicia")

	assert.Equal(t, "alicia", p.Name)
	assert.Equal(t, 5, p.Score, "rejoin keeps the score")
	assert.Equal(t, 1, r.Len())
}

func TestListPreservesJoinOrder(t *testing.T) {
	r := NewRegistry(24)
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	r.Join(a, "a")
	r.Join(b, "b")
	r.Join(c, "c")

	list := r.List()
	require.Len(t, list, 3)
	assert.Equal(t, []uuid.UUID{a, b, c}, []uuid.UUID{list[0].ID, list[1].ID, list[2].ID})

	r.Leave(b)
	list = r.List()
	require.Len(t, list, 2)
	assert.Equal(t, []uuid.UUID{a, c}, []uuid.UUID{list[0].ID, list[1].ID})
}

func TestLeave(t *testing.T) {
	r := NewRegistry(24)
	id := uuid.New()
	r.Join(id, "alice")

	assert.True(t, r.Leave(id))
	assert.False(t, r.Leave(id), "second leave is a no-op")
	assert.Equal(t, 0, r.Len())
}

func TestScoring(t *testing.T) {
	r := NewRegistry(24)
	id := uuid.New()
	r.Join(id, "alice")

	r.AddScore(id, 10)
	r.AddScore(id, 4)
	assert.Equal(t, 14, r.ScoreOf(id))

	r.AddScore(uuid.New(), 99) // unknown id is a no-op
	assert.Equal(t, 0, r.ScoreOf(uuid.New()))

	r.ResetScores()
	assert.Equal(t, 0, r.ScoreOf(id))
}

func TestTopTieGoesToEarliestJoiner(t *testing.T) {
	r := NewRegistry(24)

	_, ok := r.Top()
	assert.False(t, ok, "empty registry has no top player")

	a, b := uuid.New(), uuid.New()
	r.Join(a, "alice")
	r.Join(b, "bob")
	r.AddScore(a, 10)
	r.AddScore(b, 10)

	top, ok := r.Top()
	require.True(t, ok)
	assert.Equal(t, a, top.ID)

	r.AddScore(b, 1)
	top, _ = r.Top()
	assert.Equal(t, b, top.ID)
}
