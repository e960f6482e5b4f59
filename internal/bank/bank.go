package bank

import (
	"math/rand"
)

// Record is a single question. Immutable once loaded.
type Record struct {
	Prompt   string
	Answer   string // normalized: trimmed, lowercase
	Synonyms []string
}

// Bank holds the ordered question set and tracks which prompts were already
// played in the current cycle. It is not safe for concurrent use: the game
// loop is its only caller.
type Bank struct {
	records []Record
	used    map[string]struct{}
	last    string
}

// New builds a bank from the given records. An empty slice falls back to the
// built-in default set so the bank is never empty.
func New(records []Record) *Bank {
	if len(records) == 0 {
		records = Defaults()
	}
	return &Bank{
		records: records,
		used:    make(map[string]struct{}),
	}
}

// Size returns the number of records in the bank.
func (b *Bank) Size() int {
	return len(b.records)
}

// PickNext selects a question uniformly at random among records not yet played
// this cycle. When the cycle is exhausted the used set is cleared and the pick
// excludes the prompt just played, so a prompt never repeats within a cycle or
// back to back across the cycle seam unless the bank has exactly one record.
// The excluded prompt stays eligible for the rest of the new cycle.
func (b *Bank) PickNext() Record {
	available := b.available()
	if len(available) == 0 {
		b.ResetCycle()
		available = b.available()
		if len(available) > 1 {
			available = withoutPrompt(available, b.last)
		}
	}

	chosen := available[rand.Intn(len(available))]
	b.used[chosen.Prompt] = struct{}{}
	b.last = chosen.Prompt
	return chosen
}

// ResetCycle clears the used set, allowing every prompt again.
func (b *Bank) ResetCycle() {
	b.used = make(map[string]struct{})
}

func withoutPrompt(records []Record, prompt string) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.Prompt != prompt {
			out = append(out, r)
		}
	}
	return out
}

func (b *Bank) available() []Record {
	remaining := make([]Record, 0, len(b.records))
	for _, r := range b.records {
		if _, played := b.used[r.Prompt]; !played {
			remaining = append(remaining, r)
		}
	}
	return remaining
}
