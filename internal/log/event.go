package log

// EventType enumerates all observable game events.
type EventType int

const (
	EventSelect EventType = iota
	EventCut
	EventRejected
	EventHack
	EventPenalty
	EventTrash
	EventReset
	EventReboot
	EventShuffle
	EventNewTurn
	EventGameOver
	EventVictory
	EventDropped // effect with no mechanic, removed from the queue
)

func (e EventType) String() string {
	switch e {
	case EventSelect:
		return "Select"
	case EventCut:
		return "Cut"
	case EventRejected:
		return "Rejected"
	case EventHack:
		return "Hack"
	case EventPenalty:
		return "Penalty"
	case EventTrash:
		return "Trash"
	case EventReset:
		return "Reset"
	case EventReboot:
		return "Reboot"
	case EventShuffle:
		return "Shuffle"
	case EventNewTurn:
		return "NewTurn"
	case EventGameOver:
		return "GameOver"
	case EventVictory:
		return "Victory"
	case EventDropped:
		return "Dropped"
	default:
		return "Unknown"
	}
}

// Sfx names a sound cue understood by the audio layer.
type Sfx string

const (
	SfxNone     Sfx = ""
	SfxSelect   Sfx = "select"
	SfxCut      Sfx = "cut"
	SfxError    Sfx = "error"
	SfxHack     Sfx = "hack"
	SfxReset    Sfx = "reset"
	SfxGameOver Sfx = "game_over"
	SfxVictory  Sfx = "victory"
)

// Nominal cue durations in milliseconds.
const (
	DurationCut      = 800
	DurationError    = 600
	DurationHack     = 500
	DurationGameOver = 1500
	DurationVictory  = 2000
)

// TopicSfx is the bus topic for events carrying a sound cue.
const TopicSfx = "AUDIO_PLAY_SFX"

// TopicLog is the bus topic for purely informational events.
const TopicLog = "LOG"

// GameEvent represents a single observable event in a session.
type GameEvent struct {
	Seq        int       // monotonic sequence number
	Turn       int       // which turn (1-based)
	Phase      string    // phase name when the event was produced
	Type       EventType // event type
	Sfx        Sfx       // sound cue, if any
	DurationMs int       // nominal presentation time
	Card       string    // card or server name (if applicable)
	Details    string    // human-readable detail string
}

// Topic returns the bus topic the event is published under.
func (e GameEvent) Topic() string {
	if e.Sfx != SfxNone {
		return TopicSfx
	}
	return TopicLog
}
