package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/peterkuimelis/netbreach/internal/game"
	"github.com/peterkuimelis/netbreach/internal/web"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	port := flag.Int("port", 8080, "HTTP port to listen on")
	rulesFile := flag.String("rules", "", "path to rules YAML file (default: built-in rules)")
	seed := flag.Int64("seed", 0, "RNG seed for every run (0 = random)")
	limit := flag.Float64("rate", 0, "actions per second per socket (0 = default)")
	jsonLogs := flag.Bool("json-logs", false, "log as JSON")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if *jsonLogs {
		logger, err = zap.NewProduction()
	}
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

	srv := web.NewServer(web.Config{
		Rules:      rules,
		Seed:       *seed,
		ActionRate: rate.Limit(*limit),
		Logger:     logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("netbreach web API", zap.String("url", fmt.Sprintf("http://localhost:%d/api/decks", *port)))
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
