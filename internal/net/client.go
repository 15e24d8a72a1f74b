package net

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
)

// Client connects to a game server and provides a terminal REPL.
type Client struct {
	conn net.Conn
	in   io.Reader
	out  io.Writer
}

// Connect connects to a server, sends the deck choice, and runs the REPL.
func Connect(ctx context.Context, addr string, deckNumber int) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	// Send join message with deck choice
	enc := json.NewEncoder(conn)
	if err := enc.Encode(ClientMessage{Type: MsgJoin, DeckNumber: deckNumber}); err != nil {
		return fmt.Errorf("send join: %w", err)
	}

	client := &Client{conn: conn, in: os.Stdin, out: os.Stdout}
	return client.RunREPL(ctx)
}

// RunREPL reads server messages and answers every board update with a
// command read from the terminal.
func (c *Client) RunREPL(ctx context.Context) error {
	dec := json.NewDecoder(c.conn)
	enc := json.NewEncoder(c.conn)
	reader := bufio.NewReader(c.in)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		var msg ServerMessage
		if err := dec.Decode(&msg); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read message: %w", err)
		}

		switch msg.Type {
		case MsgWelcome:
			fmt.Fprintf(c.out, "Connected (%s). Type help for commands.\n", msg.Result)

		case MsgNotify:
			c.renderEvent(msg.Event)

		case MsgError:
			fmt.Fprintf(c.out, "! %s\n", msg.Error)

		case MsgGameOver:
			title := "CONNECTION LOST"
			if msg.Victory {
				title = "MAINFRAME BREACHED"
			}
			fmt.Fprintln(c.out)
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			fmt.Fprintf(c.out, "          %s\n", title)
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			fmt.Fprintln(c.out, msg.Result)
			fmt.Fprintln(c.out, "Type new for another run or quit.")

		case MsgState:
			c.renderState(msg.State)
			cmd, err := c.readCommand(reader)
			if err != nil {
				// Input closed: leave cleanly.
				cmd = ClientMessage{Type: MsgQuit}
			}
			if err := enc.Encode(cmd); err != nil {
				return fmt.Errorf("send command: %w", err)
			}
			if cmd.Type == MsgQuit {
				return nil
			}
		}
	}
}

func (c *Client) readCommand(reader *bufio.Reader) (ClientMessage, error) {
	for {
		fmt.Fprint(c.out, "> ")
		line, err := reader.ReadString('\n')
		if err != nil && strings.TrimSpace(line) == "" {
			return ClientMessage{}, err
		}
		msg, perr := ParseCommand(line)
		switch {
		case errors.Is(perr, ErrHelp):
			fmt.Fprintln(c.out, Usage)
		case perr != nil:
			fmt.Fprintf(c.out, "%v\n", perr)
		default:
			return msg, nil
		}
		if err != nil {
			return ClientMessage{}, err
		}
	}
}

func (c *Client) renderEvent(ev *EventView) {
	if ev == nil {
		return
	}
	// Format like the TextLogger
	phase := ev.Phase
	for len(phase) < 18 {
		phase += " "
	}
	fmt.Fprintf(c.out, "T%-2d %s| %s\n", ev.Turn, phase, ev.Details)
}

func (c *Client) renderState(sv *StateView) {
	if sv == nil {
		return
	}
	out := c.out

	fmt.Fprintln(out)
	fmt.Fprintln(out, "╔══════════════════════════════════════════════════════╗")
	fmt.Fprintf(out, "║  HW %d/%d  TRACE %d%%  CREDITS %d\n", sv.Hardware, sv.MaxHardware, sv.Trace, sv.Credits)
	for _, srv := range sv.Servers {
		fmt.Fprintf(out, "║  %s\n", FormatServer(srv))
	}
	if len(sv.Deep) > 0 {
		fmt.Fprintf(out, "║  queued: %s\n", strings.Join(sv.Deep, ", "))
	}
	fmt.Fprintln(out, "║──────────────────────────────────────────────────────")
	for _, line := range FormatGrid(sv.Grid) {
		fmt.Fprintf(out, "║  %s\n", line)
	}
	fmt.Fprintln(out, "╚══════════════════════════════════════════════════════╝")

	fmt.Fprintf(out, "Turn %d | %s | Deck %d  Discard %d  Trash %d\n",
		sv.Turn, sv.Phase, sv.DeckCount, sv.DiscardCount, sv.TrashCount)

	if len(sv.Hand) > 0 {
		fmt.Fprintf(out, "Hand: ")
		for _, cv := range sv.Hand {
			mark := ""
			if cv.Name == sv.SelectedCard && sv.SelectedCard != "" {
				mark = "*"
			}
			fmt.Fprintf(out, "[%d] %s%s  ", cv.Index, cv.Name, mark)
		}
		fmt.Fprintln(out)
	}
	if sv.Rotation != 0 {
		fmt.Fprintf(out, "Rotation: %d°\n", sv.Rotation)
	}
	if len(sv.Pending) > 0 {
		fmt.Fprintln(out, "Pending effects:")
		for i, e := range sv.Pending {
			fmt.Fprintf(out, "  %d) %s\n", i+1, e)
		}
	}
	if len(sv.Queue) > 0 {
		fmt.Fprintf(out, "Queue: %s\n", strings.Join(sv.Queue, " → "))
	}
	if sv.Awaiting != "" && sv.Phase == "EFFECT_RESOLUTION" {
		fmt.Fprintf(out, "Awaiting %s", sv.Awaiting)
		if sv.ReprogramSource != nil {
			fmt.Fprintf(out, " (source %s)", sv.ReprogramSource)
		}
		fmt.Fprintln(out)
	}
}

// FormatServer renders a server on one line.
func FormatServer(srv ServerView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-26s d%d ", srv.Name, srv.Difficulty)
	for _, color := range SortedKeys(srv.Requirements) {
		fmt.Fprintf(&b, "%s %d/%d ", color, srv.Progress[color], srv.Requirements[color])
	}
	for _, sym := range SortedKeys(srv.Countermeasures) {
		fmt.Fprintf(&b, "[%s×%d] ", sym, srv.Countermeasures[sym])
	}
	fmt.Fprintf(&b, "!%s %d", srv.Penalty, srv.PenaltyValue)
	if srv.Target {
		b.WriteString(" ◆TARGET")
	}
	return b.String()
}

var symbolMarks = map[string]string{"SHIELD": "s", "EYE": "e", "SKULL": "k"}

// FormatGrid renders the grid as text rows with a coordinate header.
func FormatGrid(grid [][]CellView) []string {
	if len(grid) == 0 {
		return nil
	}
	lines := make([]string, 0, len(grid)+1)
	var head strings.Builder
	head.WriteString("   ")
	for x := range grid[0] {
		fmt.Fprintf(&head, " %d ", x)
	}
	lines = append(lines, head.String())
	for y, row := range grid {
		var b strings.Builder
		fmt.Fprintf(&b, "%d |", y)
		for _, cell := range row {
			if cell.Broken {
				b.WriteString(" · ")
				continue
			}
			mark := symbolMarks[cell.Symbol]
			if mark == "" {
				mark = " "
			}
			fmt.Fprintf(&b, " %s%s", cell.Color[:1], mark)
		}
		lines = append(lines, b.String())
	}
	return lines
}
