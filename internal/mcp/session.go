package mcp

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/peterkuimelis/netbreach/internal/game"
	"github.com/peterkuimelis/netbreach/internal/log"
	bnet "github.com/peterkuimelis/netbreach/internal/net"
)

// ToolResponse is the JSON envelope returned by all MCP tools.
type ToolResponse struct {
	Events   []bnet.EventView `json:"events"`
	State    *bnet.StateView  `json:"state,omitempty"`
	Next     []string         `json:"next,omitempty"` // tools that can change the state now
	Ignored  string           `json:"ignored,omitempty"`
	GameOver bool             `json:"game_over"`
	Victory  bool             `json:"victory,omitempty"`
	Result   string           `json:"result,omitempty"`
	Deck     string           `json:"deck,omitempty"`
	Seed     int64            `json:"seed,omitempty"`
}

// GameSession holds the state of a single MCP run.
type GameSession struct {
	engine *game.Engine
	ctrl   *MCPController

	mu     sync.Mutex
	events []bnet.EventView
}

// NewGameSession builds an engine from cfg and starts a run on it.
func NewGameSession(cfg game.Config) (*GameSession, error) {
	engine, err := game.NewEngine(cfg)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}
	sess := &GameSession{engine: engine}
	sess.ctrl = NewMCPController(sess)
	engine.Subscribe(log.FuncLogger(func(e log.GameEvent) {
		sess.appendEvent(bnet.NewEventView(e))
	}))
	engine.Dispatch(game.InitializeGame())
	return sess, nil
}

// appendEvent adds an event to the session's event log. Thread-safe.
func (s *GameSession) appendEvent(ev bnet.EventView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

// drainEvents returns all accumulated events and clears the buffer.
func (s *GameSession) drainEvents() []bnet.EventView {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.events
	s.events = nil
	if events == nil {
		events = []bnet.EventView{}
	}
	return events
}

// response builds a ToolResponse with the accumulated events and the
// current state.
func (s *GameSession) response() *ToolResponse {
	snap := s.engine.Snapshot()
	resp := &ToolResponse{
		Events: s.drainEvents(),
		State:  bnet.BuildStateView(snap, s.engine.Rules().Network),
		Next:   nextTools(snap),
	}
	if snap.Phase.Terminal() {
		resp.GameOver = true
		resp.Victory = snap.Phase == game.PhaseVictory
		resp.Result = fmt.Sprintf("%s on turn %d with %d credits", snap.Phase, snap.Turn, snap.Stats.Credits)
	}
	return resp
}

// over reports whether the run has ended.
func (s *GameSession) over() bool {
	return s.engine.Phase().Terminal()
}

// nextTools lists the tools that can act in the snapshot's phase.
func nextTools(s game.Snapshot) []string {
	switch s.Phase {
	case game.PhasePlaying:
		return []string{"select_card", "rotate_card", "play_card", "end_turn", "reboot"}
	case game.PhaseEffectOrdering:
		return []string{"queue_effect", "confirm_order", "finish_card"}
	case game.PhaseEffectResolution:
		head, ok := s.HeadEffect()
		if !ok || head.Effect == nil {
			return []string{"finish_card"}
		}
		switch head.Effect.Kind() {
		case game.KindCut:
			return []string{"rotate_card", "resolve_cut", "finish_card"}
		case game.KindReprogram:
			return []string{"select_reprogram_source", "resolve_reprogram", "finish_card"}
		default:
			return []string{"resolve_system_reset", "finish_card"}
		}
	}
	return []string{"new_game"}
}

// respondJSON marshals a ToolResponse to a JSON string.
func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
