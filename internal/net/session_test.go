package net

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/peterkuimelis/netbreach/internal/game"
	"golang.org/x/time/rate"
)

type testConn struct {
	t    *testing.T
	conn net.Conn
	enc  *json.Encoder
	dec  *json.Decoder
	done chan error
}

func startSession(t *testing.T, limiter *rate.Limiter) *testConn {
	t.Helper()
	engine, err := game.NewEngine(game.Config{Seed: 42, NoShuffle: true})
	if err != nil {
		t.Fatal(err)
	}
	host, client := net.Pipe()
	t.Cleanup(func() {
		host.Close()
		client.Close()
	})
	tc := &testConn{
		t:    t,
		conn: client,
		enc:  json.NewEncoder(client),
		dec:  json.NewDecoder(client),
		done: make(chan error, 1),
	}
	go func() {
		tc.done <- NewSession(host, engine, limiter, nil).Serve(context.Background())
	}()
	return tc
}

// untilState collects messages up to and including the next state message.
func (tc *testConn) untilState() ([]ServerMessage, *StateView) {
	tc.t.Helper()
	tc.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msgs []ServerMessage
	for {
		var msg ServerMessage
		if err := tc.dec.Decode(&msg); err != nil {
			tc.t.Fatalf("decode: %v", err)
		}
		msgs = append(msgs, msg)
		if msg.Type == MsgState {
			return msgs, msg.State
		}
	}
}

func (tc *testConn) send(msg ClientMessage) {
	tc.t.Helper()
	tc.conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
	if err := tc.enc.Encode(msg); err != nil {
		tc.t.Fatalf("encode: %v", err)
	}
}

func countType(msgs []ServerMessage, typ string) int {
	n := 0
	for _, m := range msgs {
		if m.Type == typ {
			n++
		}
	}
	return n
}

func TestSessionOpensWithInitializedRun(t *testing.T) {
	tc := startSession(t, nil)
	msgs, sv := tc.untilState()

	if msgs[0].Type != MsgWelcome {
		t.Errorf("first message %q, want welcome", msgs[0].Type)
	}
	if countType(msgs, MsgNotify) == 0 {
		t.Error("no cues forwarded for the opening turn")
	}
	if sv.Phase != "PLAYING" || sv.Turn != 1 {
		t.Errorf("phase %s turn %d", sv.Phase, sv.Turn)
	}
	if len(sv.Hand) != 4 || sv.Hand[0].Index != 1 {
		t.Errorf("hand %+v", sv.Hand)
	}
	if len(sv.Grid) == 0 || len(sv.Servers) == 0 {
		t.Error("board missing from state")
	}
}

func TestSessionEndTurn(t *testing.T) {
	tc := startSession(t, nil)
	tc.untilState()

	tc.send(ClientMessage{Type: MsgAction, Action: "END_TURN"})
	msgs, sv := tc.untilState()
	if sv.Turn != 2 || sv.Trace != 2 {
		t.Errorf("turn %d trace %d, want 2 and 2", sv.Turn, sv.Trace)
	}
	if countType(msgs, MsgNotify) == 0 {
		t.Error("end turn produced no cues")
	}

	tc.send(ClientMessage{Type: MsgQuit})
	select {
	case err := <-tc.done:
		if err != nil {
			t.Errorf("Serve: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("session did not stop on quit")
	}
}

func TestSessionErrorsStillAnswerWithState(t *testing.T) {
	tc := startSession(t, nil)
	tc.untilState()

	cases := []ClientMessage{
		{Type: "bogus"},
		{Type: MsgAction, Action: "PLAY_CARD", Card: 9},
		{Type: MsgAction, Action: "NOT_AN_ACTION"},
	}
	for _, msg := range cases {
		tc.send(msg)
		msgs, sv := tc.untilState()
		if countType(msgs, MsgError) != 1 {
			t.Errorf("%+v: got %d errors", msg, countType(msgs, MsgError))
		}
		if sv.Turn != 1 {
			t.Errorf("%+v changed the turn to %d", msg, sv.Turn)
		}
	}

	tc.send(ClientMessage{Type: MsgSync})
	msgs, _ := tc.untilState()
	if len(msgs) != 1 {
		t.Errorf("sync answered with %d messages", len(msgs))
	}
}

func TestSessionRateLimit(t *testing.T) {
	tc := startSession(t, rate.NewLimiter(0, 1))
	tc.untilState()

	tc.send(ClientMessage{Type: MsgAction, Action: "END_TURN"})
	_, sv := tc.untilState()
	if sv.Turn != 2 {
		t.Fatalf("first action refused: turn %d", sv.Turn)
	}

	tc.send(ClientMessage{Type: MsgAction, Action: "END_TURN"})
	msgs, sv := tc.untilState()
	if countType(msgs, MsgError) != 1 || sv.Turn != 2 {
		t.Errorf("second action not limited: %d errors, turn %d", countType(msgs, MsgError), sv.Turn)
	}
}

func TestPlayLocal(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("help\nend\nbogus\nquit\n")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := PlayLocal(ctx, game.Config{Seed: 7, NoShuffle: true}, in, &out)
	if err != nil {
		t.Fatalf("PlayLocal: %v", err)
	}
	text := out.String()
	for _, want := range []string{"Connected", "Commands:", "Turn 1 |", "Turn 2 |", "unknown command"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestFormatGrid(t *testing.T) {
	lines := FormatGrid([][]CellView{
		{{Color: "RED"}, {Color: "BLUE", Symbol: "SKULL"}},
		{{Color: "GREEN", Broken: true}, {Color: "YELLOW", Symbol: "EYE"}},
	})
	want := []string{
		"    0  1 ",
		"0 | R  Bk",
		"1 | ·  Ye",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %q", lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: %q, want %q", i, lines[i], want[i])
		}
	}
}
