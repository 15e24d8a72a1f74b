package mcp

import (
	"fmt"

	"github.com/peterkuimelis/netbreach/internal/game"
	bnet "github.com/peterkuimelis/netbreach/internal/net"
)

// MCPController turns tool arguments into engine actions. Hand and effect
// indices are 1-based, as shown in the state's hand list.
type MCPController struct {
	session *GameSession
}

// NewMCPController creates a controller for the given session.
func NewMCPController(session *GameSession) *MCPController {
	return &MCPController{session: session}
}

// Submit resolves msg against the committed snapshot and dispatches it.
func (c *MCPController) Submit(msg bnet.ClientMessage) (*ToolResponse, error) {
	msg.Type = bnet.MsgAction
	a, err := bnet.ToAction(msg, c.session.engine.Snapshot())
	if err != nil {
		return nil, err
	}
	return c.Do(a), nil
}

// Do dispatches a and reports the events it produced. An action the
// current phase does not accept leaves the state untouched and is flagged
// in Ignored.
func (c *MCPController) Do(a game.Action) *ToolResponse {
	phase := c.session.engine.Phase()
	d := c.session.engine.Dispatch(a)
	resp := c.session.response()
	if d.Empty() {
		resp.Ignored = fmt.Sprintf("%s had no effect in phase %s", a.Kind, phase)
	}
	return resp
}
