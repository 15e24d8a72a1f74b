package net

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"

	"github.com/peterkuimelis/netbreach/internal/game"
	"github.com/peterkuimelis/netbreach/internal/log"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Server hosts a run for one TCP client. The host terminal follows along
// through a text log of every cue.
type Server struct {
	Rules  *game.Rules
	Port   string
	Seed   int64
	Limit  rate.Limit // actions per second; 0 means DefaultActionRate
	Logger *zap.Logger
	Out    io.Writer // host log; nil means stdout
}

// Run starts the server, waits for a client to join, then serves its run.
func (s *Server) Run(ctx context.Context) error {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	out := s.Out
	if out == nil {
		out = os.Stdout
	}

	ln, err := net.Listen("tcp", ":"+s.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	defer ln.Close()

	fmt.Fprintf(out, "Waiting for a runner on port %s...\n", s.Port)
	logger.Info("listening", zap.String("addr", ln.Addr().String()))

	// Accept exactly one connection (the joiner)
	conn, err := ln.Accept()
	if err != nil {
		return fmt.Errorf("accept: %w", err)
	}
	defer conn.Close()

	fmt.Fprintf(out, "Runner connected from %s\n", conn.RemoteAddr())
	return s.serveConn(ctx, conn, out, logger)
}

func (s *Server) serveConn(ctx context.Context, conn net.Conn, out io.Writer, logger *zap.Logger) error {
	// Read the joiner's deck choice
	dec := json.NewDecoder(conn)
	var joinMsg ClientMessage
	if err := dec.Decode(&joinMsg); err != nil {
		return fmt.Errorf("read join message: %w", err)
	}
	if joinMsg.Type != MsgJoin {
		return fmt.Errorf("expected join, got %q", joinMsg.Type)
	}

	engine, err := game.NewEngine(game.Config{
		Rules:  s.Rules,
		Deck:   joinMsg.DeckNumber,
		Seed:   s.Seed,
		Logger: logger,
		Events: log.NewTextLogger(out),
	})
	if err != nil {
		_ = json.NewEncoder(conn).Encode(ServerMessage{Type: MsgError, Error: err.Error()})
		return fmt.Errorf("create engine: %w", err)
	}
	fmt.Fprintf(out, "Runner chose deck %s\n", engine.DeckName())

	limit := s.Limit
	if limit == 0 {
		limit = DefaultActionRate
	}
	sess := NewSession(conn, engine, rate.NewLimiter(limit, DefaultActionBurst), logger)
	sess.dec = dec // keep anything buffered after the join message
	return sess.Serve(ctx)
}

// PlayLocal runs a session and a REPL over an in-memory pipe, for solo play
// without a listener.
func PlayLocal(ctx context.Context, cfg game.Config, in io.Reader, out io.Writer) error {
	engine, err := game.NewEngine(cfg)
	if err != nil {
		return err
	}
	hostConn, clientConn := net.Pipe()
	defer hostConn.Close()
	defer clientConn.Close()

	errCh := make(chan error, 2)
	go func() {
		errCh <- NewSession(hostConn, engine, nil, cfg.Logger).Serve(ctx)
	}()
	go func() {
		client := &Client{conn: clientConn, in: in, out: out}
		errCh <- client.RunREPL(ctx)
	}()

	// Wait for either side to finish
	return <-errCh
}
