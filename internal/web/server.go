package web

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/peterkuimelis/netbreach/internal/game"
	bnet "github.com/peterkuimelis/netbreach/internal/net"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// CardInfo is the JSON representation of a card for the /api/cards endpoint.
type CardInfo struct {
	Name    string   `json:"name"`
	Color   string   `json:"color"`
	Effects []string `json:"effects"`
	Reset   bool     `json:"reset,omitempty"` // can be used for an emergency reboot
}

// DeckInfo is the JSON representation of a deck for the /api/decks endpoint.
type DeckInfo struct {
	Number int      `json:"number"`
	Name   string   `json:"name"`
	Size   int      `json:"size"`
	Cards  []string `json:"cards"`
}

// NodeInfo is one server template for the /api/network endpoint.
type NodeInfo struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Difficulty int      `json:"difficulty"`
	Edges      []string `json:"edges,omitempty"`
	Starting   bool     `json:"starting,omitempty"`
	Target     bool     `json:"target,omitempty"`
}

// SessionInfo describes a live websocket run.
type SessionInfo struct {
	ID      string    `json:"id"`
	Deck    string    `json:"deck"`
	Started time.Time `json:"started"`
}

// Config configures a Server.
type Config struct {
	Rules      *game.Rules // nil means game.DefaultRules()
	Seed       int64       // 0 seeds every run from the clock
	ActionRate rate.Limit  // per-socket actions per second; 0 means bnet.DefaultActionRate
	Logger     *zap.Logger
}

// Server is the netbreach HTTP API and websocket play endpoint.
type Server struct {
	rules  *game.Rules
	seed   int64
	limit  rate.Limit
	logger *zap.Logger
	mux    *http.ServeMux

	mu       sync.Mutex
	sessions map[string]SessionInfo
}

// NewServer creates a new web server.
func NewServer(cfg Config) *Server {
	s := &Server{
		rules:    cfg.Rules,
		seed:     cfg.Seed,
		limit:    cfg.ActionRate,
		logger:   cfg.Logger,
		mux:      http.NewServeMux(),
		sessions: make(map[string]SessionInfo),
	}
	if s.rules == nil {
		s.rules = game.DefaultRules()
	}
	if s.limit == 0 {
		s.limit = bnet.DefaultActionRate
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("GET /api/cards", s.handleCards)
	s.mux.HandleFunc("GET /api/decks", s.handleDecks)
	s.mux.HandleFunc("GET /api/network", s.handleNetwork)
	s.mux.HandleFunc("GET /api/sessions", s.handleSessions)

	// One run per socket
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	var cards []CardInfo
	for _, name := range game.CardNames() {
		c := game.LookupCard(name)
		ci := CardInfo{Name: name, Color: c.Color.String(), Reset: c.HasSystemReset()}
		for _, e := range c.Effects {
			ci.Effects = append(ci.Effects, e.String())
		}
		cards = append(cards, ci)
	}
	writeJSON(w, cards)
}

func (s *Server) handleDecks(w http.ResponseWriter, r *http.Request) {
	var decks []DeckInfo
	for i, d := range s.rules.Decks {
		di := DeckInfo{
			Number: i + 1,
			Name:   d.Name,
			Size:   d.Size(),
		}
		// Unique card names for display
		seen := make(map[string]bool)
		for _, c := range d.Cards {
			if !seen[c.Name] {
				di.Cards = append(di.Cards, c.Name)
				seen[c.Name] = true
			}
		}
		decks = append(decks, di)
	}
	writeJSON(w, decks)
}

func (s *Server) handleNetwork(w http.ResponseWriter, r *http.Request) {
	network := s.rules.Network
	starting := make(map[string]bool, len(network.Starting))
	for _, id := range network.Starting {
		starting[id] = true
	}
	nodes := make([]NodeInfo, 0, len(network.Order))
	for _, id := range network.Order {
		n := network.Nodes[id]
		nodes = append(nodes, NodeInfo{
			ID:         id,
			Name:       n.Template.Name,
			Difficulty: n.Template.Difficulty,
			Edges:      n.Edges,
			Starting:   starting[id],
			Target:     n.IsTarget,
		})
	}
	writeJSON(w, nodes)
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	list := make([]SessionInfo, 0, len(s.sessions))
	for _, info := range s.sessions {
		list = append(list, info)
	}
	s.mu.Unlock()
	sort.Slice(list, func(i, j int) bool { return list[i].Started.Before(list[j].Started) })
	writeJSON(w, list)
}

// handleWebSocket plays one run over the socket using the TCP protocol:
// JSON client messages in, notify/error/state messages out, one per frame.
// The deck is chosen with ?deck=N.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	deck := 1
	if v := r.URL.Query().Get("deck"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "deck must be a number", http.StatusBadRequest)
			return
		}
		deck = n
	}

	id := uuid.NewString()
	logger := s.logger.With(zap.String("session", id))
	engine, err := game.NewEngine(game.Config{
		Rules:  s.rules,
		Deck:   deck,
		Seed:   s.seed,
		Logger: logger,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		logger.Warn("websocket accept", zap.Error(err))
		return
	}
	defer wsConn.CloseNow()

	s.track(SessionInfo{ID: id, Deck: engine.DeckName(), Started: time.Now()})
	defer s.untrack(id)
	logger.Info("session started", zap.String("deck", engine.DeckName()), zap.Int64("seed", engine.Seed()))

	ctx := r.Context()
	conn := websocket.NetConn(ctx, wsConn, websocket.MessageText)
	sess := bnet.NewSession(conn, engine, rate.NewLimiter(s.limit, bnet.DefaultActionBurst), logger)
	if err := sess.Serve(ctx); err != nil && ctx.Err() == nil {
		logger.Info("session ended", zap.Error(err))
		wsConn.Close(websocket.StatusInternalError, "session error")
		return
	}
	wsConn.Close(websocket.StatusNormalClosure, "run ended")
}

func (s *Server) track(info SessionInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[info.ID] = info
}

func (s *Server) untrack(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// ListenAndServe starts the HTTP server and shuts it down when ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.mux}
	stop := context.AfterFunc(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	})
	defer stop()

	s.logger.Info("listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
