package mcp

import (
	"context"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/peterkuimelis/netbreach/internal/game"
	bnet "github.com/peterkuimelis/netbreach/internal/net"
	"go.uber.org/zap"
)

var (
	// sessionMu guards activeSession; tool calls may arrive concurrently.
	sessionMu sync.Mutex
	// activeSession is the singleton run (one per stdio process).
	activeSession *GameSession
)

// config is the engine configuration new_game starts from, set by main.
var config game.Config

// SetRules sets the rules new runs are played under.
func SetRules(r *game.Rules) {
	config.Rules = r
}

// SetSeed fixes the RNG seed of new runs; 0 picks one per run.
func SetSeed(seed int64) {
	config.Seed = seed
}

// SetLogger sets the diagnostics logger handed to every engine.
func SetLogger(l *zap.Logger) {
	config.Logger = l
}

// RegisterTools adds all game tools to the MCP server.
func RegisterTools(s *server.MCPServer) {
	s.AddTool(newGameTool(), handleNewGame)
	s.AddTool(getGameStateTool(), handleGetGameState)
	s.AddTool(selectCardTool(), handleSelectCard)
	s.AddTool(rotateCardTool(), simpleAction(game.RotateCard))
	s.AddTool(playCardTool(), handlePlayCard)
	s.AddTool(queueEffectTool(), handleQueueEffect)
	s.AddTool(confirmOrderTool(), simpleAction(game.ConfirmEffectOrder))
	s.AddTool(resolveCutTool(), handleResolveCut)
	s.AddTool(selectReprogramSourceTool(), handleSelectReprogramSource)
	s.AddTool(resolveReprogramTool(), handleResolveReprogram)
	s.AddTool(resolveSystemResetTool(), simpleAction(game.ResolveSystemReset))
	s.AddTool(finishCardTool(), simpleAction(game.FinishCardResolution))
	s.AddTool(endTurnTool(), simpleAction(game.EndTurn))
	s.AddTool(rebootTool(), handleReboot)
}

// --- Tool definitions ---

func newGameTool() mcp.Tool {
	return mcp.NewTool("new_game",
		mcp.WithDescription("Start a new run: breach the server network and hack the target node before trace reaches 100% "+
			"or hardware fails. Returns the opening state. Refuses while a run is still in progress unless restart is true."),
		mcp.WithNumber("deck", mcp.Description("Deck number (1-indexed from the rules file). Defaults to 1.")),
		mcp.WithBoolean("restart", mcp.Description("Abandon a run in progress")),
	)
}

func getGameStateTool() mcp.Tool {
	return mcp.NewTool("get_game_state",
		mcp.WithDescription("Get the current state and any events accumulated since the last call. Read-only."),
	)
}

func selectCardTool() mcp.Tool {
	return mcp.NewTool("select_card",
		mcp.WithDescription("Select a hand card to preview its pattern, or 0 to deselect. Selecting resets rotation."),
		mcp.WithNumber("card", mcp.Required(), mcp.Description("1-based hand index, 0 to deselect")),
	)
}

func rotateCardTool() mcp.Tool {
	return mcp.NewTool("rotate_card",
		mcp.WithDescription("Rotate the cut pattern 90 degrees clockwise. Applies to the next cut resolved."),
	)
}

func playCardTool() mcp.Tool {
	return mcp.NewTool("play_card",
		mcp.WithDescription("Play a hand card. A card with several effects enters ordering: queue each effect, then confirm_order."),
		mcp.WithNumber("card", mcp.Required(), mcp.Description("1-based hand index")),
	)
}

func queueEffectTool() mcp.Tool {
	return mcp.NewTool("queue_effect",
		mcp.WithDescription("Move a pending effect to the end of the resolution queue."),
		mcp.WithNumber("effect", mcp.Required(), mcp.Description("1-based index into the pending list")),
	)
}

func confirmOrderTool() mcp.Tool {
	return mcp.NewTool("confirm_order",
		mcp.WithDescription("Start resolving the queued effects. Every pending effect must be queued first."),
	)
}

func resolveCutTool() mcp.Tool {
	return mcp.NewTool("resolve_cut",
		mcp.WithDescription("Resolve the CUT at the head of the queue with the pattern anchored at (x, y). "+
			"Every pattern cell must land on an intact cell or the cut is rejected."),
		mcp.WithNumber("x", mcp.Required(), mcp.Description("Anchor column")),
		mcp.WithNumber("y", mcp.Required(), mcp.Description("Anchor row")),
	)
}

func selectReprogramSourceTool() mcp.Tool {
	return mcp.NewTool("select_reprogram_source",
		mcp.WithDescription("Pick the source cell for the REPROGRAM at the head of the queue."),
		mcp.WithNumber("x", mcp.Required(), mcp.Description("Source column")),
		mcp.WithNumber("y", mcp.Required(), mcp.Description("Source row")),
	)
}

func resolveReprogramTool() mcp.Tool {
	return mcp.NewTool("resolve_reprogram",
		mcp.WithDescription("Swap color and symbol between the source and (x, y). Uses the picked source unless "+
			"source_x and source_y are given."),
		mcp.WithNumber("x", mcp.Required(), mcp.Description("Destination column")),
		mcp.WithNumber("y", mcp.Required(), mcp.Description("Destination row")),
		mcp.WithNumber("source_x", mcp.Description("Source column")),
		mcp.WithNumber("source_y", mcp.Description("Source row")),
	)
}

func resolveSystemResetTool() mcp.Tool {
	return mcp.NewTool("resolve_system_reset",
		mcp.WithDescription("Resolve the SYSTEM_RESET at the head of the queue."),
	)
}

func finishCardTool() mcp.Tool {
	return mcp.NewTool("finish_card",
		mcp.WithDescription("Finish the card being resolved, skipping any effects left in the queue. The card is discarded."),
	)
}

func endTurnTool() mcp.Tool {
	return mcp.NewTool("end_turn",
		mcp.WithDescription("End the turn: apply server countermeasures, refill the grid and hand, and raise trace."),
	)
}

func rebootTool() mcp.Tool {
	return mcp.NewTool("reboot",
		mcp.WithDescription("Emergency reboot: discard a SYS/RESET card from hand to recover the discard pile, at a heavier trace cost."),
		mcp.WithNumber("card", mcp.Required(), mcp.Description("1-based hand index of a SYS/RESET card")),
	)
}

// --- Tool handlers ---

func currentSession() *GameSession {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	return activeSession
}

func handleNewGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionMu.Lock()
	defer sessionMu.Unlock()

	if activeSession != nil && !activeSession.over() && !request.GetBool("restart", false) {
		return mcp.NewToolResultError("A run is in progress. Pass restart=true to abandon it."), nil
	}

	cfg := config
	cfg.Deck = request.GetInt("deck", 1)
	if cfg.Deck < 1 {
		return mcp.NewToolResultError("deck must be >= 1"), nil
	}

	sess, err := NewGameSession(cfg)
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start run: %v", err), nil
	}
	activeSession = sess

	resp := sess.response()
	resp.Deck = sess.engine.DeckName()
	resp.Seed = sess.engine.Seed()
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handleGetGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := currentSession()
	if sess == nil {
		return mcp.NewToolResultError("No run is active. Use new_game first."), nil
	}
	return mcp.NewToolResultText(respondJSON(sess.response())), nil
}

// simpleAction handles tools that take no arguments.
func simpleAction(action func() game.Action) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sess := currentSession()
		if sess == nil {
			return mcp.NewToolResultError("No run is active. Use new_game first."), nil
		}
		return mcp.NewToolResultText(respondJSON(sess.ctrl.Do(action()))), nil
	}
}

// submit handles tools whose arguments need resolving against the state.
func submit(msg bnet.ClientMessage) (*mcp.CallToolResult, error) {
	sess := currentSession()
	if sess == nil {
		return mcp.NewToolResultError("No run is active. Use new_game first."), nil
	}
	resp, err := sess.ctrl.Submit(msg)
	if err != nil {
		return mcp.NewToolResultErrorf("Invalid arguments: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handleSelectCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return submit(bnet.ClientMessage{Action: game.ActionSelectCard.String(), Card: request.GetInt("card", 0)})
}

func handlePlayCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return submit(bnet.ClientMessage{Action: game.ActionPlayCard.String(), Card: request.GetInt("card", 0)})
}

func handleReboot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return submit(bnet.ClientMessage{Action: game.ActionReboot.String(), Card: request.GetInt("card", 0)})
}

func handleQueueEffect(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return submit(bnet.ClientMessage{Action: game.ActionQueueEffect.String(), Effect: request.GetInt("effect", 0)})
}

func handleResolveCut(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return submit(bnet.ClientMessage{
		Action: game.ActionResolveCut.String(),
		X:      request.GetInt("x", -1),
		Y:      request.GetInt("y", -1),
	})
}

func handleSelectReprogramSource(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return submit(bnet.ClientMessage{
		Action: game.ActionSelectReprogramSource.String(),
		X:      request.GetInt("x", -1),
		Y:      request.GetInt("y", -1),
	})
}

func handleResolveReprogram(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	msg := bnet.ClientMessage{
		Action: game.ActionResolveReprogram.String(),
		Dest:   &game.Coordinate{X: request.GetInt("x", -1), Y: request.GetInt("y", -1)},
	}
	sx, sy := request.GetInt("source_x", -1), request.GetInt("source_y", -1)
	if sx >= 0 && sy >= 0 {
		msg.Source = &game.Coordinate{X: sx, Y: sy}
	}
	return submit(msg)
}
