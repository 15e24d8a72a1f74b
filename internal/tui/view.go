package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterkuimelis/netbreach/internal/game"
	"github.com/peterkuimelis/netbreach/internal/log"
	bnet "github.com/peterkuimelis/netbreach/internal/net"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	hackStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	selectStyle  = lipgloss.NewStyle().Reverse(true)
	targetStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("6")).Padding(0, 1)
	victoryStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	lostStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

var cellColors = map[game.Color]lipgloss.Color{
	game.ColorRed:    lipgloss.Color("1"),
	game.ColorBlue:   lipgloss.Color("4"),
	game.ColorGreen:  lipgloss.Color("2"),
	game.ColorYellow: lipgloss.Color("3"),
	game.ColorPurple: lipgloss.Color("5"),
}

var symbolGlyphs = map[game.Symbol]string{
	game.SymbolNone:   "·",
	game.SymbolShield: "◈",
	game.SymbolEye:    "◉",
	game.SymbolSkull:  "☠",
}

func (m *Model) View() string {
	s := m.engine.Snapshot()
	if s.Phase == game.PhaseMenu {
		return titleStyle.Render("NETBREACH") + "\n\nbooting...\n"
	}
	sv := bnet.BuildStateView(s, m.engine.Rules().Network)

	var b strings.Builder
	b.WriteString(m.renderHeader(sv))
	b.WriteString("\n")
	b.WriteString(m.renderServers(sv))
	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render(m.renderGrid(s)),
		"  ",
		m.renderHand(s, sv),
	))
	b.WriteString("\n")
	b.WriteString(m.renderLog())

	if s.Phase.Terminal() {
		b.WriteString("\n")
		b.WriteString(m.renderOutcome(s))
	}
	if m.status != "" {
		b.WriteString("\n" + errorStyle.Render(m.status))
	}
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderHeader(sv *bnet.StateView) string {
	hw := strings.Repeat("■", max(sv.Hardware, 0)) + strings.Repeat("□", max(sv.MaxHardware-sv.Hardware, 0))
	const traceWidth = 20
	filled := min(sv.Trace*traceWidth/100, traceWidth)
	trace := strings.Repeat("█", filled) + strings.Repeat("░", traceWidth-filled)
	return fmt.Sprintf("%s  Turn %d  %s\nHW %s  TRACE %s %d%%  CREDITS %d  DECK %d  DISCARD %d  TRASH %d",
		titleStyle.Render("NETBREACH"), sv.Turn, dimStyle.Render(sv.Phase),
		hw, trace, sv.Trace, sv.Credits, sv.DeckCount, sv.DiscardCount, sv.TrashCount)
}

func (m *Model) renderServers(sv *bnet.StateView) string {
	var lines []string
	for _, srv := range sv.Servers {
		line := bnet.FormatServer(srv)
		if srv.Target {
			line = targetStyle.Render(line)
		}
		lines = append(lines, line)
	}
	if len(sv.Deep) > 0 {
		lines = append(lines, dimStyle.Render("queued: "+strings.Join(sv.Deep, ", ")))
	}
	return strings.Join(lines, "\n")
}

// previewPattern is the rotated footprint the next cut would use, if any.
func previewPattern(s game.Snapshot) game.Pattern {
	var effects []game.Effect
	switch s.Phase {
	case game.PhaseEffectResolution:
		if head, ok := s.HeadEffect(); ok && head.Effect != nil {
			effects = []game.Effect{head.Effect}
		}
	case game.PhasePlaying:
		if c, ok := s.SelectedCard(); ok {
			effects = c.Effects
		}
	}
	for _, e := range effects {
		if cut, ok := e.(game.CutEffect); ok {
			return cut.Pattern.Rotate(s.Rotation)
		}
	}
	return nil
}

func (m *Model) renderGrid(s game.Snapshot) string {
	preview := map[game.Coordinate]bool{}
	for _, off := range previewPattern(s) {
		preview[game.Coordinate{X: m.cursor.X + off.X, Y: m.cursor.Y + off.Y}] = true
	}
	fits := game.CheckPatternFit(s.Grid, previewPattern(s), m.cursor.X, m.cursor.Y)

	var b strings.Builder
	for y, row := range s.Grid {
		for x, cell := range row {
			at := game.Coordinate{X: x, Y: y}
			glyph := " " + symbolGlyphs[cell.Symbol] + " "
			if at == m.cursor {
				glyph = "[" + symbolGlyphs[cell.Symbol] + "]"
			}
			if s.ReprogramSource != nil && *s.ReprogramSource == at {
				glyph = "<" + symbolGlyphs[cell.Symbol] + ">"
			}

			style := lipgloss.NewStyle().Background(cellColors[cell.Color]).Foreground(lipgloss.Color("15"))
			if cell.State == game.CellBroken {
				style = dimStyle
				glyph = strings.ReplaceAll(glyph, symbolGlyphs[cell.Symbol], " ")
			}
			if preview[at] {
				if fits {
					style = style.Reverse(true)
				} else {
					style = errorStyle.Reverse(true)
				}
			}
			b.WriteString(style.Render(glyph))
		}
		if y < len(s.Grid)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *Model) renderHand(s game.Snapshot, sv *bnet.StateView) string {
	var lines []string
	lines = append(lines, titleStyle.Render("HAND"))
	for _, cv := range sv.Hand {
		line := fmt.Sprintf("%d %-10s %s", cv.Index, cv.Name, dimStyle.Render(strings.Join(cv.Effects, " + ")))
		if cv.ID == s.SelectedCardID {
			line = selectStyle.Render(line)
		}
		lines = append(lines, line)
	}
	if sv.Rotation != 0 {
		lines = append(lines, fmt.Sprintf("rotation %d°", sv.Rotation))
	}
	if sv.ActiveCard != "" {
		lines = append(lines, "", titleStyle.Render("RESOLVING ")+sv.ActiveCard)
	}
	if len(sv.Pending) > 0 {
		lines = append(lines, "pending (1-9 to queue, enter to confirm):")
		for i, e := range sv.Pending {
			lines = append(lines, fmt.Sprintf("  %d %s", i+1, e))
		}
	}
	if len(sv.Queue) > 0 {
		lines = append(lines, "queue: "+strings.Join(sv.Queue, " → "))
	}
	if sv.Awaiting != "" && s.Phase == game.PhaseEffectResolution {
		lines = append(lines, dimStyle.Render("awaiting "+sv.Awaiting+" at cursor "+m.cursor.String()))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderLog() string {
	events := m.cues.Events()
	if len(events) > logLines {
		events = events[len(events)-logLines:]
	}
	lines := make([]string, 0, len(events))
	for _, e := range events {
		line := log.FormatEvent(e)
		switch e.Sfx {
		case log.SfxError, log.SfxGameOver:
			line = errorStyle.Render(line)
		case log.SfxHack, log.SfxVictory:
			line = hackStyle.Render(line)
		default:
			line = dimStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderOutcome(s game.Snapshot) string {
	var b strings.Builder
	if s.Phase == game.PhaseVictory {
		b.WriteString(victoryStyle.Render("MAINFRAME BREACHED"))
	} else {
		b.WriteString(lostStyle.Render("CONNECTION LOST"))
	}
	fmt.Fprintf(&b, "  turn %d, %d credits", s.Turn, s.Stats.Credits)
	if m.lastRun != nil && m.tracker != nil {
		h := m.tracker.History()
		fmt.Fprintf(&b, "\nscore %d  (%d runs, %d wins)", m.lastRun.Score, h.Attempts, h.Wins())
		if m.tracker.GotBest() {
			b.WriteString(hackStyle.Render("  new best!"))
		} else if best := m.tracker.Best(); best != nil {
			fmt.Fprintf(&b, "  best %d", best.Score)
		}
	}
	b.WriteString("\npress n for a new run")
	return b.String()
}
