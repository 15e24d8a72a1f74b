package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/peterkuimelis/netbreach/internal/game"
	bmcp "github.com/peterkuimelis/netbreach/internal/mcp"
	"go.uber.org/zap"
)

func main() {
	rulesFile := flag.String("rules", "", "path to rules YAML file (default: built-in rules)")
	seed := flag.Int64("seed", 0, "RNG seed for every run (0 = random)")
	jsonLogs := flag.Bool("json-logs", false, "log diagnostics to stderr as JSON")
	flag.Parse()

	// stdout carries the MCP protocol; diagnostics go to stderr.
	cfg := zap.NewDevelopmentConfig()
	if *jsonLogs {
		cfg = zap.NewProductionConfig()
	}
	cfg.OutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	rules := game.DefaultRules()
	if *rulesFile != "" {
		rules, err = game.LoadRules(*rulesFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	bmcp.SetRules(rules)
	bmcp.SetSeed(*seed)
	bmcp.SetLogger(logger)

	s := server.NewMCPServer("netbreach", "1.0.0")
	bmcp.RegisterTools(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
