package net

import "github.com/peterkuimelis/netbreach/internal/game"

// Message types for the JSON protocol over TCP. Every client message is
// answered with zero or more "notify"/"error" messages followed by exactly
// one "state" message.

const (
	MsgWelcome  = "welcome"
	MsgNotify   = "notify"
	MsgError    = "error"
	MsgState    = "state"
	MsgGameOver = "game_over"

	MsgJoin   = "join"
	MsgAction = "action"
	MsgSync   = "state"
	MsgQuit   = "quit"
)

// --- Server → Client messages ---

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type string `json:"type"`

	// For "notify"
	Event *EventView `json:"event,omitempty"`

	// For "state" and "welcome"
	State *StateView `json:"state,omitempty"`

	// For "error"
	Error string `json:"error,omitempty"`

	// For "game_over"
	Victory bool   `json:"victory,omitempty"`
	Result  string `json:"result,omitempty"`
}

// EventView is a game cue as sent to clients.
type EventView struct {
	Seq        int    `json:"seq"`
	Turn       int    `json:"turn"`
	Phase      string `json:"phase"`
	Type       string `json:"type"`
	Topic      string `json:"topic"` // AUDIO_PLAY_SFX or LOG
	Sfx        string `json:"sfx,omitempty"`
	DurationMs int    `json:"duration_ms,omitempty"`
	Card       string `json:"card,omitempty"`
	Details    string `json:"details"`
}

// StateView is the whole session as a client sees it.
type StateView struct {
	Turn     int    `json:"turn"`
	Phase    string `json:"phase"`
	Rotation int    `json:"rotation"`

	Grid    [][]CellView `json:"grid"`
	Servers []ServerView `json:"servers"`
	Deep    []string     `json:"deep,omitempty"` // names of queued servers

	Hand         []CardView `json:"hand"`
	DeckCount    int        `json:"deck_count"`
	DiscardCount int        `json:"discard_count"`
	TrashCount   int        `json:"trash_count"`
	MaxHandSize  int        `json:"max_hand_size"`

	Hardware    int `json:"hardware"`
	MaxHardware int `json:"max_hardware"`
	Trace       int `json:"trace"`
	Credits     int `json:"credits"`

	SelectedCard    string           `json:"selected_card,omitempty"`
	ActiveCard      string           `json:"active_card,omitempty"`
	Pending         []string         `json:"pending,omitempty"`
	Queue           []string         `json:"queue,omitempty"`
	ReprogramSource *game.Coordinate `json:"reprogram_source,omitempty"`
	Awaiting        string           `json:"awaiting,omitempty"` // what input the head effect needs
}

// CellView is one grid cell.
type CellView struct {
	Color  string `json:"color"`
	Symbol string `json:"symbol,omitempty"`
	Broken bool   `json:"broken,omitempty"`
}

// ServerView is one active server.
type ServerView struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Difficulty      int            `json:"difficulty"`
	Status          string         `json:"status"`
	Requirements    map[string]int `json:"requirements"`
	Progress        map[string]int `json:"progress"`
	Countermeasures map[string]int `json:"countermeasures,omitempty"`
	Penalty         string         `json:"penalty"`
	PenaltyValue    int            `json:"penalty_value"`
	Target          bool           `json:"target,omitempty"`
}

// CardView describes a card in hand.
type CardView struct {
	Index   int      `json:"index"` // 1-based position in hand
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Color   string   `json:"color"`
	Effects []string `json:"effects"`
}

// --- Client → Server messages ---

// ClientMessage is the envelope for all client-to-server messages.
type ClientMessage struct {
	Type string `json:"type"`

	// For "join" (initial handshake)
	DeckNumber int `json:"deck_number,omitempty"`

	// For "action": the action name (INITIALIZE_GAME, PLAY_CARD, ...)
	Action string `json:"action,omitempty"`
	Card   int    `json:"card,omitempty"`    // 1-based hand index
	CardID string `json:"card_id,omitempty"` // alternative to Card
	Effect int    `json:"effect,omitempty"`  // 1-based pending effect index
	X      int    `json:"x,omitempty"`
	Y      int    `json:"y,omitempty"`

	Source *game.Coordinate `json:"source,omitempty"`
	Dest   *game.Coordinate `json:"dest,omitempty"`
}
