package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/peterkuimelis/netbreach/internal/game"
	bnet "github.com/peterkuimelis/netbreach/internal/net"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(NewServer(Config{Seed: 42}))
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, v any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: %s", url, resp.Status)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type %q", ct)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatal(err)
	}
}

func TestCardsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	var cards []CardInfo
	getJSON(t, ts.URL+"/api/cards", &cards)

	if len(cards) != len(game.CardRegistry) {
		t.Fatalf("got %d cards, want %d", len(cards), len(game.CardRegistry))
	}
	byName := map[string]CardInfo{}
	for _, c := range cards {
		byName[c.Name] = c
	}
	if c := byName["SYS/RESET"]; !c.Reset || c.Color != "RED" {
		t.Errorf("SYS/RESET: %+v", c)
	}
	if c := byName["Splice"]; len(c.Effects) != 2 {
		t.Errorf("Splice effects %v", c.Effects)
	}
}

func TestDecksEndpoint(t *testing.T) {
	ts := newTestServer(t)
	var decks []DeckInfo
	getJSON(t, ts.URL+"/api/decks", &decks)

	rules := game.DefaultRules()
	if len(decks) != len(rules.Decks) {
		t.Fatalf("got %d decks, want %d", len(decks), len(rules.Decks))
	}
	if decks[0].Number != 1 || decks[0].Size != rules.Decks[0].Size() {
		t.Errorf("deck 1: %+v", decks[0])
	}
}

func TestNetworkEndpoint(t *testing.T) {
	ts := newTestServer(t)
	var nodes []NodeInfo
	getJSON(t, ts.URL+"/api/network", &nodes)

	targets, starting := 0, 0
	for _, n := range nodes {
		if n.Target {
			targets++
		}
		if n.Starting {
			starting++
		}
	}
	if targets == 0 || starting == 0 {
		t.Errorf("%d targets, %d starting nodes", targets, starting)
	}
}

func wsURL(ts *httptest.Server, query string) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws" + query
}

func readUntilState(t *testing.T, ctx context.Context, c *websocket.Conn) []bnet.ServerMessage {
	t.Helper()
	var msgs []bnet.ServerMessage
	for {
		_, data, err := c.Read(ctx)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var msg bnet.ServerMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("bad frame %q: %v", data, err)
		}
		msgs = append(msgs, msg)
		if msg.Type == bnet.MsgState {
			return msgs
		}
	}
}

func TestWebSocketRun(t *testing.T) {
	ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, _, err := websocket.Dial(ctx, wsURL(ts, "?deck=1"), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer c.CloseNow()

	msgs := readUntilState(t, ctx, c)
	if msgs[0].Type != bnet.MsgWelcome {
		t.Errorf("first frame %q", msgs[0].Type)
	}
	if st := msgs[len(msgs)-1].State; st.Turn != 1 || st.Phase != "PLAYING" {
		t.Fatalf("opening state %+v", st)
	}

	var sessions []SessionInfo
	getJSON(t, ts.URL+"/api/sessions", &sessions)
	if len(sessions) != 1 || sessions[0].ID == "" {
		t.Errorf("sessions %+v", sessions)
	}

	data, _ := json.Marshal(bnet.ClientMessage{Type: bnet.MsgAction, Action: "END_TURN"})
	if err := c.Write(ctx, websocket.MessageText, data); err != nil {
		t.Fatal(err)
	}
	msgs = readUntilState(t, ctx, c)
	if st := msgs[len(msgs)-1].State; st.Turn != 2 || st.Trace != 2 {
		t.Errorf("after end turn: turn %d trace %d", st.Turn, st.Trace)
	}

	data, _ = json.Marshal(bnet.ClientMessage{Type: bnet.MsgQuit})
	if err := c.Write(ctx, websocket.MessageText, data); err != nil {
		t.Fatal(err)
	}
	if _, _, err := c.Read(ctx); websocket.CloseStatus(err) != websocket.StatusNormalClosure {
		t.Errorf("close after quit: %v", err)
	}
}

func TestWebSocketRejectsUnknownDeck(t *testing.T) {
	ts := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, q := range []string{"?deck=99", "?deck=abc"} {
		_, resp, err := websocket.Dial(ctx, wsURL(ts, q), nil)
		if err == nil {
			t.Fatalf("%s: dial succeeded", q)
		}
		if resp == nil || resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: response %v", q, resp)
		}
	}
}
