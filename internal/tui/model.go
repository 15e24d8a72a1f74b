// Package tui is the terminal front end. Actions are planned against the
// engine and played back step by step on a tick, so each cut, hack and
// penalty stays on screen for its cue's duration.
package tui

import (
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/peterkuimelis/netbreach/internal/game"
	"github.com/peterkuimelis/netbreach/internal/log"
	"github.com/peterkuimelis/netbreach/internal/playback"
	"github.com/peterkuimelis/netbreach/internal/scoring"
	"go.uber.org/zap"
)

// logLines is how many recent cues the view shows.
const logLines = 6

// Options configures a Model.
type Options struct {
	Engine  *game.Engine
	Tracker *scoring.Tracker // nil disables run history
	Speed   float64          // playback delay factor; 0 applies steps at once
	Logger  *zap.Logger
}

// Model is the bubbletea model for one terminal session.
type Model struct {
	engine  *game.Engine
	seq     *playback.Sequencer
	cues    *log.MemoryLogger
	tracker *scoring.Tracker
	speed   float64
	logger  *zap.Logger

	keys keyMap
	help help.Model

	cursor   game.Coordinate
	status   string
	playing  bool // a step tick is scheduled
	recorded bool // the finished run went to the tracker
	lastRun  *scoring.RunEntry
}

type stepMsg struct{}

// New builds a model around opts.Engine.
func New(opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Model{
		engine:  opts.Engine,
		seq:     playback.New(opts.Engine, opts.Speed, logger),
		cues:    log.NewMemoryLogger(),
		tracker: opts.Tracker,
		speed:   opts.Speed,
		logger:  logger,
		keys:    defaultKeys(),
		help:    help.New(),
	}
	m.engine.Subscribe(m.cues)
	return m
}

func (m *Model) Init() tea.Cmd {
	if m.engine.Phase() == game.PhaseMenu {
		return m.dispatch(game.InitializeGame())
	}
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stepMsg:
		hold, ok := m.seq.Step()
		if !ok {
			m.playing = false
			m.settle()
			return m, nil
		}
		return m, m.tick(hold + m.scaled(playback.PreWait))

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		if m.playing {
			return m, nil
		}
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	s := m.engine.Snapshot()
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(s.Grid, 0, -1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(s.Grid, 0, 1)
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(s.Grid, -1, 0)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(s.Grid, 1, 0)

	case key.Matches(msg, m.keys.Pick):
		n, _ := strconv.Atoi(msg.String())
		return m.pick(s, n)
	case key.Matches(msg, m.keys.Act):
		return m.act(s)
	case key.Matches(msg, m.keys.Rotate):
		return m.dispatch(game.RotateCard())
	case key.Matches(msg, m.keys.Finish):
		return m.dispatch(game.FinishCardResolution())
	case key.Matches(msg, m.keys.EndTurn):
		return m.dispatch(game.EndTurn())
	case key.Matches(msg, m.keys.Cancel):
		return m.dispatch(game.DeselectCard())
	case key.Matches(msg, m.keys.Reboot):
		if s.SelectedCardID == "" {
			m.status = "select a SYS/RESET card first"
			return nil
		}
		return m.dispatch(game.Reboot(s.SelectedCardID))
	case key.Matches(msg, m.keys.NewGame):
		m.recorded, m.lastRun = false, nil
		m.cues.Drain()
		return m.dispatch(game.InitializeGame())
	}
	return nil
}

// pick selects hand card n while playing, or queues pending effect n while
// ordering. Picking the selected card again deselects it.
func (m *Model) pick(s game.Snapshot, n int) tea.Cmd {
	switch s.Phase {
	case game.PhasePlaying:
		if n > len(s.Hand) {
			m.status = "no card " + strconv.Itoa(n)
			return nil
		}
		id := s.Hand[n-1].ID
		if id == s.SelectedCardID {
			return m.dispatch(game.DeselectCard())
		}
		return m.dispatch(game.SelectCard(id))
	case game.PhaseEffectOrdering:
		if n > len(s.PendingEffects) {
			m.status = "no pending effect " + strconv.Itoa(n)
			return nil
		}
		return m.dispatch(game.QueueEffect(n - 1))
	}
	return nil
}

// act is the context action bound to enter.
func (m *Model) act(s game.Snapshot) tea.Cmd {
	switch s.Phase {
	case game.PhasePlaying:
		if s.SelectedCardID == "" {
			m.status = "select a card first (1-9)"
			return nil
		}
		return m.dispatch(game.PlayCard(s.SelectedCardID))
	case game.PhaseEffectOrdering:
		return m.dispatch(game.ConfirmEffectOrder())
	case game.PhaseEffectResolution:
		head, ok := s.HeadEffect()
		if !ok || head.Effect == nil {
			return m.dispatch(game.FinishCardResolution())
		}
		switch head.Effect.Kind() {
		case game.KindCut:
			return m.dispatch(game.ResolveCut(m.cursor.X, m.cursor.Y))
		case game.KindReprogram:
			if s.ReprogramSource == nil {
				return m.dispatch(game.SelectReprogramSource(m.cursor.X, m.cursor.Y))
			}
			return m.dispatch(game.ResolveReprogramTo(m.cursor))
		default:
			return m.dispatch(game.ResolveSystemReset())
		}
	}
	// MENU or a finished run
	m.recorded, m.lastRun = false, nil
	return m.dispatch(game.InitializeGame())
}

// dispatch plans a against the committed state and queues the steps for
// playback. Nothing is committed until the steps are played.
func (m *Model) dispatch(a game.Action) tea.Cmd {
	steps := m.engine.Plan(a)
	m.logger.Debug("planned", zap.Stringer("action", a), zap.Int("steps", len(steps)))
	m.seq.Enqueue(steps...)
	if m.playing || m.seq.Len() == 0 {
		return nil
	}
	m.playing = true
	return m.tick(m.scaled(playback.PreWait))
}

func (m *Model) tick(d time.Duration) tea.Cmd {
	if d <= 0 {
		return func() tea.Msg { return stepMsg{} }
	}
	return tea.Tick(d, func(time.Time) tea.Msg { return stepMsg{} })
}

func (m *Model) scaled(d time.Duration) time.Duration {
	return time.Duration(float64(d) * m.speed)
}

// settle runs once playback has caught up with the engine.
func (m *Model) settle() {
	s := m.engine.Snapshot()
	m.clampCursor(s.Grid)
	if !s.Phase.Terminal() || m.recorded || m.tracker == nil {
		return
	}
	m.recorded = true
	entry, err := m.tracker.Record(s.Phase == game.PhaseVictory, s.Stats.Credits, s.Turn, m.engine.Seed())
	if err != nil {
		m.logger.Warn("could not record run", zap.Error(err))
		m.status = "run history not saved: " + err.Error()
		return
	}
	m.lastRun = &entry
}

func (m *Model) moveCursor(g game.Grid, dx, dy int) {
	m.cursor.X += dx
	m.cursor.Y += dy
	m.clampCursor(g)
}

func (m *Model) clampCursor(g game.Grid) {
	m.cursor.X = max(0, min(m.cursor.X, g.Cols()-1))
	m.cursor.Y = max(0, min(m.cursor.Y, g.Rows()-1))
}
