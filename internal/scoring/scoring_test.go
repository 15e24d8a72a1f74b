package scoring

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// MockRunStorage keeps runs in memory.
type MockRunStorage struct {
	Entries []RunEntry
	err     error
}

func (m *MockRunStorage) LoadAll() ([]RunEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	return append([]RunEntry(nil), m.Entries...), nil
}

func (m *MockRunStorage) SaveAll(entries []RunEntry) error {
	if m.err != nil {
		return m.err
	}
	m.Entries = entries
	return nil
}

func TestScore(t *testing.T) {
	if got := Score(false, 40); got != 40 {
		t.Errorf("loss score %d", got)
	}
	if got := Score(true, 40); got != 40+VictoryBonus {
		t.Errorf("win score %d", got)
	}
}

func TestNewTrackerFiltersByDeck(t *testing.T) {
	storage := &MockRunStorage{Entries: []RunEntry{
		{Deck: "Starter", Score: 30, Turn: 9},
		{Deck: "Operator", Score: 500},
		{Deck: "Starter", Score: 80, Turn: 12},
		{Deck: "Starter", Score: 80, Turn: 7},
	}}
	tr, err := NewTracker("Starter", storage)
	if err != nil {
		t.Fatal(err)
	}
	h := tr.History()
	if h.Attempts != 3 {
		t.Errorf("attempts %d, want 3", h.Attempts)
	}
	if tr.Best() == nil || tr.Best().Turn != 7 {
		t.Errorf("best %+v, want the 7-turn run", tr.Best())
	}
	if top := h.Top(5); len(top) != 3 || top[2].Score != 30 {
		t.Errorf("top %+v", top)
	}
}

func TestRecord(t *testing.T) {
	storage := &MockRunStorage{Entries: []RunEntry{{Deck: "Starter", Score: 100}}}
	tr, err := NewTracker("Starter", storage)
	if err != nil {
		t.Fatal(err)
	}
	tr.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	entry, err := tr.Record(false, 20, 11, 7)
	if err != nil {
		t.Fatal(err)
	}
	if entry.Score != 20 || entry.Timestamp != "2026-01-02T03:04:05Z" {
		t.Errorf("entry %+v", entry)
	}
	if tr.GotBest() {
		t.Error("20 beat 100")
	}
	if len(storage.Entries) != 2 {
		t.Errorf("stored %d runs", len(storage.Entries))
	}

	if _, err := tr.Record(true, 5, 20, 8); err != nil {
		t.Fatal(err)
	}
	if !tr.GotBest() || tr.History().Wins() != 1 || tr.History().Attempts != 3 {
		t.Errorf("after win: best %v wins %d attempts %d", tr.GotBest(), tr.History().Wins(), tr.History().Attempts)
	}
}

func TestStorageErrors(t *testing.T) {
	boom := errors.New("disk on fire")
	if _, err := NewTracker("Starter", &MockRunStorage{err: boom}); !errors.Is(err, boom) {
		t.Errorf("NewTracker: %v", err)
	}

	storage := &MockRunStorage{}
	tr, err := NewTracker("Starter", storage)
	if err != nil {
		t.Fatal(err)
	}
	storage.err = boom
	if _, err := tr.Record(true, 1, 1, 1); !errors.Is(err, boom) {
		t.Errorf("Record: %v", err)
	}
	if tr.GotBest() {
		t.Error("failed record counted")
	}
}

func TestJSONFileStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "runs.json")
	storage := NewJSONFileStorageAt(path)

	entries, err := storage.LoadAll()
	if err != nil || len(entries) != 0 {
		t.Fatalf("missing file: %v %v", entries, err)
	}

	want := []RunEntry{
		{Deck: "Starter", Victory: true, Credits: 50, Score: 1050},
		{Deck: "Operator", Credits: 10, Score: 10},
	}
	if err := storage.SaveAll(want); err != nil {
		t.Fatal(err)
	}
	got, err := storage.LoadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("round trip %+v", got)
	}
}

func TestJSONFileStorageCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.json")
	if err := os.WriteFile(path, []byte("{\"deck\": \"Starter\"}\nnot json\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewJSONFileStorageAt(path).LoadAll(); err == nil {
		t.Error("corrupt file loaded")
	}
}
