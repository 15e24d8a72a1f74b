package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/peterkuimelis/netbreach/internal/game"
	bnet "github.com/peterkuimelis/netbreach/internal/net"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch os.Args[1] {
	case "host":
		err = runHost(ctx, os.Args[2:])
	case "join":
		err = runJoin(ctx, os.Args[2:])
	case "play":
		err = runPlay(ctx, os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  netbreach-cli host [--port P] [--rules FILE] [--seed N] [--rate R]")
	fmt.Println("  netbreach-cli join [--deck N] [--addr ADDR]")
	fmt.Println("  netbreach-cli play [--deck N] [--rules FILE] [--seed N]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  host    Serve a run to one remote runner and log its cues here")
	fmt.Println("  join    Connect to a host and play in this terminal")
	fmt.Println("  play    Play a run locally in this terminal")
}

// commonFlags are shared by the subcommands that build an engine.
type commonFlags struct {
	rules    *string
	seed     *int64
	jsonLogs *bool
	verbose  *bool
}

func addCommon(fs *flag.FlagSet) commonFlags {
	return commonFlags{
		rules:    fs.String("rules", "", "path to rules YAML file (default: built-in rules)"),
		seed:     fs.Int64("seed", 0, "RNG seed (0 = random)"),
		jsonLogs: fs.Bool("json-logs", false, "log diagnostics as JSON"),
		verbose:  fs.Bool("v", false, "log debug diagnostics"),
	}
}

func (c commonFlags) load() (*game.Rules, *zap.Logger, error) {
	logger, err := newLogger(*c.jsonLogs, *c.verbose)
	if err != nil {
		return nil, nil, err
	}
	if *c.rules == "" {
		return game.DefaultRules(), logger, nil
	}
	rules, err := game.LoadRules(*c.rules)
	if err != nil {
		return nil, nil, err
	}
	return rules, logger, nil
}

func newLogger(jsonLogs, verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if jsonLogs {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

func runHost(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("host", flag.ExitOnError)
	port := fs.String("port", "9000", "TCP port to listen on")
	limit := fs.Float64("rate", bnet.DefaultActionRate, "actions per second the runner may send")
	common := addCommon(fs)
	fs.Parse(args)

	rules, logger, err := common.load()
	if err != nil {
		return err
	}
	defer logger.Sync()

	srv := &bnet.Server{
		Rules:  rules,
		Port:   *port,
		Seed:   *common.seed,
		Limit:  rate.Limit(*limit),
		Logger: logger,
	}
	return srv.Run(ctx)
}

func runJoin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("join", flag.ExitOnError)
	deck := fs.Int("deck", 1, "deck number to use (from the host's rules)")
	addr := fs.String("addr", "localhost:9000", "server address to connect to")
	fs.Parse(args)

	return bnet.Connect(ctx, *addr, *deck)
}

func runPlay(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	deck := fs.Int("deck", 1, "deck number to use (from the rules file)")
	common := addCommon(fs)
	fs.Parse(args)

	rules, logger, err := common.load()
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg := game.Config{Rules: rules, Deck: *deck, Seed: *common.seed, Logger: logger}
	return bnet.PlayLocal(ctx, cfg, os.Stdin, os.Stdout)
}
