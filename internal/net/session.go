package net

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/peterkuimelis/netbreach/internal/game"
	"github.com/peterkuimelis/netbreach/internal/log"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Default per-connection action budget.
const (
	DefaultActionRate  = 20 // actions per second
	DefaultActionBurst = 40
)

// Session plays one engine over a connection. Engine cues are forwarded as
// "notify" messages as they are committed.
type Session struct {
	conn    net.Conn
	enc     *json.Encoder
	dec     *json.Decoder
	engine  *game.Engine
	limiter *rate.Limiter
	logger  *zap.Logger
	mu      sync.Mutex // guards enc
	over    bool       // terminal result already announced
}

// NewSession wires engine to conn. limiter may be nil for the default budget.
func NewSession(conn net.Conn, engine *game.Engine, limiter *rate.Limiter, logger *zap.Logger) *Session {
	if limiter == nil {
		limiter = rate.NewLimiter(DefaultActionRate, DefaultActionBurst)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{
		conn:    conn,
		enc:     json.NewEncoder(conn),
		dec:     json.NewDecoder(conn),
		engine:  engine,
		limiter: limiter,
		logger:  logger,
	}
	engine.Subscribe(log.FuncLogger(func(e log.GameEvent) {
		ev := NewEventView(e)
		if err := s.send(ServerMessage{Type: MsgNotify, Event: &ev}); err != nil {
			s.logger.Debug("notify failed", zap.Error(err))
		}
	}))
	return s
}

// send writes one message. Safe for concurrent use.
func (s *Session) send(msg ServerMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(msg)
}

func (s *Session) sendState() error {
	snap := s.engine.Snapshot()
	if err := s.send(ServerMessage{Type: MsgState, State: BuildStateView(snap, s.engine.Rules().Network)}); err != nil {
		return fmt.Errorf("send state: %w", err)
	}
	return nil
}

// Serve answers client messages until the client quits, the connection
// drops or ctx is cancelled.
func (s *Session) Serve(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { s.conn.Close() })
	defer stop()

	if err := s.send(ServerMessage{Type: MsgWelcome, Result: fmt.Sprintf("deck %s, seed %d", s.engine.DeckName(), s.engine.Seed())}); err != nil {
		return fmt.Errorf("send welcome: %w", err)
	}
	if s.engine.Phase() == game.PhaseMenu {
		s.engine.Dispatch(game.InitializeGame())
	}
	if err := s.sendState(); err != nil {
		return err
	}

	for {
		var msg ClientMessage
		if err := s.dec.Decode(&msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("recv: %w", err)
		}

		switch msg.Type {
		case MsgQuit:
			return nil
		case MsgSync:
		case MsgAction:
			s.handleAction(msg)
		default:
			_ = s.send(ServerMessage{Type: MsgError, Error: fmt.Sprintf("unknown message type %q", msg.Type)})
		}
		if err := s.sendState(); err != nil {
			return err
		}
	}
}

func (s *Session) handleAction(msg ClientMessage) {
	if !s.limiter.Allow() {
		_ = s.send(ServerMessage{Type: MsgError, Error: "too many actions; slow down"})
		return
	}
	a, err := ToAction(msg, s.engine.Snapshot())
	if err != nil {
		_ = s.send(ServerMessage{Type: MsgError, Error: err.Error()})
		return
	}
	if a.Kind == game.ActionInitializeGame {
		s.over = false
	}
	d := s.engine.Dispatch(a)
	s.logger.Debug("action", zap.Stringer("action", a), zap.Int("events", len(d.Events)))

	phase := s.engine.Phase()
	if phase.Terminal() && !s.over {
		s.over = true
		snap := s.engine.Snapshot()
		result := fmt.Sprintf("%s on turn %d with %d credits", phase, snap.Turn, snap.Stats.Credits)
		_ = s.send(ServerMessage{Type: MsgGameOver, Victory: phase == game.PhaseVictory, Result: result})
	}
}
