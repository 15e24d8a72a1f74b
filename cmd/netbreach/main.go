package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/peterkuimelis/netbreach/internal/game"
	"github.com/peterkuimelis/netbreach/internal/scoring"
	"github.com/peterkuimelis/netbreach/internal/tui"
	"go.uber.org/zap"
)

func main() {
	rulesFile := flag.String("rules", "", "path to rules YAML file (default: built-in rules)")
	deck := flag.Int("deck", 1, "deck number to play (from the rules file)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = random)")
	speed := flag.Float64("speed", 1, "animation delay factor (0 = instant)")
	history := flag.String("history", "", "run history file (default: ~/.config/netbreach/runs.json)")
	logFile := flag.String("log", "", "write diagnostics to this file")
	jsonLogs := flag.Bool("json-logs", false, "write diagnostics as JSON")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: netbreach [flags]\n\nBreach the server network before trace hits 100%%.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(*rulesFile, *deck, *seed, *speed, *history, *logFile, *jsonLogs); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(rulesFile string, deck int, seed int64, speed float64, history, logFile string, jsonLogs bool) error {
	// The terminal belongs to the UI, so diagnostics only go to a file.
	logger := zap.NewNop()
	if logFile != "" {
		cfg := zap.NewDevelopmentConfig()
		if jsonLogs {
			cfg = zap.NewProductionConfig()
		}
		cfg.OutputPaths = []string{logFile}
		cfg.ErrorOutputPaths = []string{logFile}
		var err error
		if logger, err = cfg.Build(); err != nil {
			return fmt.Errorf("open log: %w", err)
		}
	}
	defer logger.Sync()

	rules := game.DefaultRules()
	if rulesFile != "" {
		var err error
		if rules, err = game.LoadRules(rulesFile); err != nil {
			return err
		}
	}

	engine, err := game.NewEngine(game.Config{Rules: rules, Deck: deck, Seed: seed, Logger: logger})
	if err != nil {
		return err
	}

	var storage scoring.RunStorage
	if history != "" {
		storage = scoring.NewJSONFileStorageAt(history)
	} else {
		fs, err := scoring.NewJSONFileStorage()
		if err != nil {
			return fmt.Errorf("failed to create run storage: %w", err)
		}
		storage = fs
	}
	tracker, err := scoring.NewTracker(engine.DeckName(), storage)
	if err != nil {
		return err
	}

	model := tui.New(tui.Options{Engine: engine, Tracker: tracker, Speed: speed, Logger: logger})
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
