package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/peterkuimelis/netbreach/internal/game"
	"github.com/peterkuimelis/netbreach/internal/scoring"
)

type memStorage struct {
	entries []scoring.RunEntry
}

func (m *memStorage) LoadAll() ([]scoring.RunEntry, error) {
	return append([]scoring.RunEntry(nil), m.entries...), nil
}

func (m *memStorage) SaveAll(entries []scoring.RunEntry) error {
	m.entries = entries
	return nil
}

func newTestModel(t *testing.T) (*Model, *memStorage) {
	t.Helper()
	engine, err := game.NewEngine(game.Config{Seed: 42, NoShuffle: true})
	if err != nil {
		t.Fatal(err)
	}
	storage := &memStorage{}
	tracker, err := scoring.NewTracker(engine.DeckName(), storage)
	if err != nil {
		t.Fatal(err)
	}
	m := New(Options{Engine: engine, Tracker: tracker})
	drive(t, m, m.Init())
	return m, storage
}

// drive runs commands until playback settles. Speed 0 makes every tick
// command return its message immediately.
func drive(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	for i := 0; cmd != nil; i++ {
		if i > 1000 {
			t.Fatal("playback did not settle")
		}
		_, cmd = m.Update(cmd())
	}
}

func press(t *testing.T, m *Model, keys ...string) {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd := m.Update(msg)
		drive(t, m, cmd)
	}
}

func TestInitStartsRun(t *testing.T) {
	m, _ := newTestModel(t)
	s := m.engine.Snapshot()
	if s.Phase != game.PhasePlaying || s.Turn != 1 {
		t.Fatalf("phase %s turn %d", s.Phase, s.Turn)
	}
	if m.playing {
		t.Error("still playing after drive")
	}
	view := m.View()
	if !strings.Contains(view, "Turn 1") || !strings.Contains(view, s.Hand[0].Name) {
		t.Errorf("view missing turn or hand:\n%s", view)
	}
}

func TestSelectRotateDeselect(t *testing.T) {
	m, _ := newTestModel(t)
	hand := m.engine.Snapshot().Hand

	press(t, m, "1")
	if got := m.engine.Snapshot().SelectedCardID; got != hand[0].ID {
		t.Fatalf("selected %q, want %q", got, hand[0].ID)
	}
	press(t, m, "r", "r")
	if got := m.engine.Snapshot().Rotation; got != 180 {
		t.Errorf("rotation %d", got)
	}
	press(t, m, "1")
	if s := m.engine.Snapshot(); s.SelectedCardID != "" || s.Rotation != 0 {
		t.Errorf("second pick did not deselect: %q %d", s.SelectedCardID, s.Rotation)
	}
	press(t, m, "9")
	if m.status == "" {
		t.Error("picking a missing card set no status")
	}
}

func TestCursorStaysOnGrid(t *testing.T) {
	m, _ := newTestModel(t)
	g := m.engine.Snapshot().Grid

	press(t, m, "left", "up")
	if m.cursor != (game.Coordinate{}) {
		t.Errorf("cursor %v", m.cursor)
	}
	for i := 0; i < 20; i++ {
		press(t, m, "right", "down")
	}
	if m.cursor != (game.Coordinate{X: g.Cols() - 1, Y: g.Rows() - 1}) {
		t.Errorf("cursor %v", m.cursor)
	}
	press(t, m, "h", "k")
	if m.cursor != (game.Coordinate{X: g.Cols() - 2, Y: g.Rows() - 2}) {
		t.Errorf("vim keys: cursor %v", m.cursor)
	}
}

func TestEndTurnKey(t *testing.T) {
	m, _ := newTestModel(t)
	press(t, m, "e")
	if s := m.engine.Snapshot(); s.Turn != 2 || s.Stats.Trace != 2 {
		t.Errorf("turn %d trace %d", s.Turn, s.Stats.Trace)
	}
}

func TestEnterNeedsSelection(t *testing.T) {
	m, _ := newTestModel(t)
	press(t, m, "enter")
	if m.status == "" {
		t.Error("enter with nothing selected set no status")
	}
	if m.engine.Snapshot().Phase != game.PhasePlaying {
		t.Error("phase changed")
	}
}

func TestInputIgnoredDuringPlayback(t *testing.T) {
	engine, err := game.NewEngine(game.Config{Seed: 42, NoShuffle: true})
	if err != nil {
		t.Fatal(err)
	}
	engine.Dispatch(game.InitializeGame())
	m := New(Options{Engine: engine, Speed: 1})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	if cmd == nil || !m.playing {
		t.Fatal("end turn did not start playback")
	}
	queued := m.seq.Len()
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	if m.seq.Len() != queued {
		t.Errorf("queued %d steps while playing, had %d", m.seq.Len(), queued)
	}
	if engine.Snapshot().Turn != 1 {
		t.Error("planned steps committed before playback")
	}

	// Stepping by hand commits the turn.
	for m.playing {
		m.Update(stepMsg{})
	}
	if engine.Snapshot().Turn != 2 {
		t.Errorf("turn %d after playback", engine.Snapshot().Turn)
	}
}

func TestFinishedRunIsRecordedOnce(t *testing.T) {
	m, storage := newTestModel(t)
	for i := 0; i < 60 && !m.engine.Snapshot().Phase.Terminal(); i++ {
		press(t, m, "e")
	}
	s := m.engine.Snapshot()
	if s.Phase != game.PhaseGameOver {
		t.Fatalf("phase %s after ending turns", s.Phase)
	}
	if len(storage.entries) != 1 || storage.entries[0].Victory {
		t.Fatalf("recorded %+v", storage.entries)
	}
	if !strings.Contains(m.View(), "CONNECTION LOST") {
		t.Error("outcome banner missing")
	}

	press(t, m, "e", "e")
	if len(storage.entries) != 1 {
		t.Errorf("recorded %d runs", len(storage.entries))
	}

	press(t, m, "n")
	if s := m.engine.Snapshot(); s.Phase != game.PhasePlaying || s.Turn != 1 {
		t.Errorf("new run: phase %s turn %d", s.Phase, s.Turn)
	}
}

func TestQuitKey(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}
