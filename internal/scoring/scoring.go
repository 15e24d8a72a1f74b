// Package scoring keeps the history of finished runs per deck.
package scoring

import (
	"fmt"
	"time"
)

// VictoryBonus is added to the credits of a run that hacked the target.
const VictoryBonus = 1000

// Score rates a finished run.
func Score(victory bool, credits int) int {
	if victory {
		return credits + VictoryBonus
	}
	return credits
}

// Tracker records the outcome of runs with one deck.
type Tracker struct {
	deck    string
	storage RunStorage
	history History
	last    *RunEntry
	now     func() time.Time
}

// NewTracker loads the deck's history from storage.
func NewTracker(deck string, storage RunStorage) (*Tracker, error) {
	all, err := storage.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("could not load run history: %w", err)
	}
	return &Tracker{
		deck:    deck,
		storage: storage,
		history: newHistory(deck, all),
		now:     time.Now,
	}, nil
}

// Record stores a finished run and returns it. The history is reloaded so
// runs recorded by other processes are kept.
func (t *Tracker) Record(victory bool, credits, turn int, seed int64) (RunEntry, error) {
	entry := RunEntry{
		Deck:      t.deck,
		Victory:   victory,
		Credits:   credits,
		Turn:      turn,
		Seed:      seed,
		Score:     Score(victory, credits),
		Timestamp: t.now().Format(time.RFC3339),
	}

	all, err := t.storage.LoadAll()
	if err != nil {
		return RunEntry{}, fmt.Errorf("could not load runs for saving: %w", err)
	}
	all = append(all, entry)
	if err := t.storage.SaveAll(all); err != nil {
		return RunEntry{}, err
	}
	t.history = newHistory(t.deck, all)
	t.last = &entry
	return entry, nil
}

// History returns the deck's runs.
func (t *Tracker) History() History { return t.history }

// Best returns the best run with this deck, or nil.
func (t *Tracker) Best() *RunEntry { return t.history.Best }

// GotBest reports whether the last recorded run is at least as good as
// every other run with the deck.
func (t *Tracker) GotBest() bool {
	if t.last == nil || t.history.Best == nil {
		return false
	}
	return t.last.Score >= t.history.Best.Score
}
