package log

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// EventLogger is the interface for logging game events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	mu     sync.Mutex
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]GameEvent(nil), l.events...)
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range l.Events() {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// CountSfx returns how many events carried the given sound cue.
func (l *MemoryLogger) CountSfx(sfx Sfx) int {
	return CountSfx(l.Events(), sfx)
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	events := l.Events()
	if len(events) == 0 {
		return GameEvent{}
	}
	return events[len(events)-1]
}

// Drain returns the events logged so far and forgets them.
func (l *MemoryLogger) Drain() []GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.events
	l.events = nil
	return out
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- FuncLogger: forwards each event to a callback ---

// FuncLogger adapts a function into an EventLogger. It keeps no history.
type FuncLogger func(GameEvent)

func (f FuncLogger) Log(event GameEvent) { f(event) }
func (f FuncLogger) Events() []GameEvent { return nil }

// --- Formatting ---

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	phase := e.Phase
	// Pad phase to 18 chars for alignment
	for len(phase) < 18 {
		phase += " "
	}
	line := fmt.Sprintf("T%-2d %s| %s", e.Turn, phase, e.Details)
	if e.Sfx != SfxNone {
		line += fmt.Sprintf("  [%s]", e.Sfx)
	}
	return line
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// CountSfx returns how many of events carried the given sound cue.
func CountSfx(events []GameEvent, sfx Sfx) int {
	n := 0
	for _, e := range events {
		if e.Sfx == sfx {
			n++
		}
	}
	return n
}

// MaxDuration returns the longest nominal duration among events.
func MaxDuration(events []GameEvent) int {
	best := 0
	for _, e := range events {
		best = max(best, e.DurationMs)
	}
	return best
}

// --- Helper constructors for common events ---

func NewSelectEvent(turn int, phase string, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventSelect,
		Sfx:     SfxSelect,
		Card:    cardName,
		Details: fmt.Sprintf("Selected %s", cardName),
	}
}

func NewCutEvent(turn int, phase string, cells int, anchor string) GameEvent {
	return GameEvent{
		Turn:       turn,
		Phase:      phase,
		Type:       EventCut,
		Sfx:        SfxCut,
		DurationMs: DurationCut,
		Details:    fmt.Sprintf("Cut %d cells at %s", cells, anchor),
	}
}

func NewRejectedEvent(turn int, phase string, reason string) GameEvent {
	return GameEvent{
		Turn:       turn,
		Phase:      phase,
		Type:       EventRejected,
		Sfx:        SfxError,
		DurationMs: DurationError,
		Details:    fmt.Sprintf("Rejected: %s", reason),
	}
}

func NewHackEvent(turn int, phase string, serverName string, credits int) GameEvent {
	return GameEvent{
		Turn:       turn,
		Phase:      phase,
		Type:       EventHack,
		Sfx:        SfxHack,
		DurationMs: DurationHack,
		Card:       serverName,
		Details:    fmt.Sprintf("%s hacked (+%d credits)", serverName, credits),
	}
}

func NewPenaltyEvent(turn int, phase string, serverName string, penalty string, value int) GameEvent {
	return GameEvent{
		Turn:       turn,
		Phase:      phase,
		Type:       EventPenalty,
		Sfx:        SfxError,
		DurationMs: DurationError,
		Card:       serverName,
		Details:    fmt.Sprintf("%s countermeasure: %s %d", serverName, penalty, value),
	}
}

func NewTrashEvent(turn int, phase string, cardName string, from string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventTrash,
		Card:    cardName,
		Details: fmt.Sprintf("%s is trashed from %s", cardName, from),
	}
}

func NewResetEvent(turn int, phase string, recovered int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventReset,
		Sfx:     SfxReset,
		Details: fmt.Sprintf("System reset: %d cards return to hand", recovered),
	}
}

func NewRebootEvent(turn int, phase string, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventReboot,
		Sfx:     SfxReset,
		Card:    cardName,
		Details: fmt.Sprintf("Emergency reboot with %s", cardName),
	}
}

func NewShuffleEvent(turn int, phase string, cards int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventShuffle,
		Details: fmt.Sprintf("Discard pile shuffled into deck (%d cards)", cards),
	}
}

func NewTurnEvent(turn int, trace int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "PLAYING",
		Type:    EventNewTurn,
		Details: fmt.Sprintf("=== Turn %d (trace %d) ===", turn, trace),
	}
}

func NewGameOverEvent(turn int, reason string) GameEvent {
	return GameEvent{
		Turn:       turn,
		Phase:      "GAME_OVER",
		Type:       EventGameOver,
		Sfx:        SfxGameOver,
		DurationMs: DurationGameOver,
		Details:    fmt.Sprintf("Connection lost (%s)", reason),
	}
}

func NewVictoryEvent(turn int) GameEvent {
	return GameEvent{
		Turn:       turn,
		Phase:      "VICTORY",
		Type:       EventVictory,
		Sfx:        SfxVictory,
		DurationMs: DurationVictory,
		Details:    "Mainframe breached",
	}
}

func NewDroppedEvent(turn int, phase string, effect string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventDropped,
		Details: fmt.Sprintf("No mechanic for %s; dropped", effect),
	}
}
