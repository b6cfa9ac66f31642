package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ytrelay/config"
	"ytrelay/relay"
	"ytrelay/scheduler"
	"ytrelay/storage"
	"ytrelay/telegram"
	"ytrelay/youtube"
)

// Exit codes. Configuration problems are distinguishable from a run that
// executed but failed (or found nothing, which exits 0).
const (
	exitOK     = 0
	exitRun    = 1
	exitConfig = 2
)

func main() {
	// .env is optional; explicit environment variables win regardless.
	_ = godotenv.Load()

	command := "run"
	args := os.Args[1:]
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		command = args[0]
		args = args[1:]
	}

	switch command {
	case "run":
		cmdRun(args)
	case "daemon":
		cmdDaemon(args)
	case "ledger":
		cmdLedger(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n", command)
		printUsage()
		os.Exit(exitRun)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `ytrelay - relays popular fresh YouTube videos to a Telegram chat

Usage:
  ytrelay run [flags]      Execute one discovery/relay run (default)
  ytrelay daemon [flags]   Run on a cron schedule until interrupted
  ytrelay ledger           Print the sent-video ledger
  ytrelay help             Show this help message

Configuration comes from ytrelay.json, .env, and environment variables
(YT_API_KEY, TELEGRAM_BOT_TOKEN, TELEGRAM_CHAT_ID, LIKE_THRESHOLD, YTRELAY_*).

For help on a specific command: ytrelay <command> -h
`)
}

// loadConfig loads and validates configuration, exiting with the
// configuration code before any network call if it is unusable.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		if config.IsCredentialError(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Fprintf(os.Stderr, "Set YT_API_KEY, TELEGRAM_BOT_TOKEN, and TELEGRAM_CHAT_ID.\n")
		} else {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		}
		os.Exit(exitConfig)
	}
	return cfg
}

// buildPipeline wires all collaborators. The returned ledger must be closed
// by the caller.
func buildPipeline(cfg *config.Config) (*relay.Pipeline, *storage.JSONLedger, error) {
	discoverer, err := youtube.NewDiscoverer(cfg.APIKey, cfg.SearchTerms, cfg.RecencyWindow, cfg.MaxResultsPerTerm)
	if err != nil {
		return nil, nil, fmt.Errorf("create discoverer: %w", err)
	}

	resolver, err := youtube.NewStatsResolver(cfg.APIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("create stats resolver: %w", err)
	}

	fetcher := youtube.NewFetcher(cfg.DownloadDir)
	fetcher.YtdlpPath = cfg.YtdlpPath

	sender := telegram.NewSender(cfg.BotToken, cfg.ChatID, cfg.SendTimeout)

	ledger, err := storage.NewJSONLedger(cfg.LedgerPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open ledger: %w", err)
	}

	p := relay.NewPipeline(relay.Deps{
		Discoverer: discoverer,
		Resolver:   resolver,
		Fetcher:    fetcher,
		Sender:     sender,
		Ledger:     ledger,
	}, relay.Options{
		LikeThreshold: cfg.LikeThreshold,
		BatchTimeout:  cfg.SearchTimeout,
		FetchTimeout:  cfg.YtdlpTimeout,
		SendTimeout:   cfg.SendTimeout,
		SendPause:     cfg.SendPause,
	})

	return p, ledger, nil
}

func cmdRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ytrelay run\n\nRuns one discovery/relay cycle.\n")
	}
	fs.Parse(args)

	cfg := loadConfig()

	p, ledger, err := buildPipeline(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitRun)
	}
	defer ledger.Close()

	summary, err := p.Run(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: run %s aborted: %v\n", summary.RunID, err)
		os.Exit(exitRun)
	}

	printSummary(summary)
	if summary.Failed() > 0 {
		os.Exit(exitRun)
	}
}

func cmdDaemon(args []string) {
	fs := flag.NewFlagSet("daemon", flag.ExitOnError)
	cronSpec := fs.String("cron", "", "Cron expression overriding the configured schedule")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ytrelay daemon [flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	cfg := loadConfig()
	if *cronSpec != "" {
		cfg.CronSpec = *cronSpec
	}

	p, ledger, err := buildPipeline(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitRun)
	}
	defer ledger.Close()

	// A run should comfortably fit discovery, stats, and every download.
	runTimeout := cfg.SearchTimeout*2 + cfg.YtdlpTimeout*6
	if runTimeout < 30*time.Minute {
		runTimeout = 30 * time.Minute
	}

	sched := scheduler.New(runTimeout)
	err = sched.AddJob("relay", cfg.CronSpec, func(ctx context.Context) error {
		summary, err := p.Run(ctx)
		if err != nil {
			return err
		}
		printSummary(summary)
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitConfig)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "ytrelay daemon started (schedule: %s)\n", cfg.CronSpec)
	sched.Start(ctx)
}

func cmdLedger(args []string) {
	fs := flag.NewFlagSet("ledger", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ytrelay ledger\n\nPrints committed video IDs in commit order.\n")
	}
	fs.Parse(args)

	cfg := loadConfig()

	ledger, err := storage.NewJSONLedger(cfg.LedgerPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger: %v\n", err)
		os.Exit(exitRun)
	}
	defer ledger.Close()

	ids := ledger.IDs()
	for _, id := range ids {
		fmt.Println(id)
	}
	fmt.Fprintf(os.Stderr, "\nTotal: %d videos sent\n", len(ids))
}

func printSummary(summary *relay.RunSummary) {
	fmt.Fprintf(os.Stderr, "Run %s: %d candidates, %d qualified, %d sent, %d failed (%v)\n",
		summary.RunID,
		summary.Discovered,
		summary.Qualified,
		summary.Sent(),
		summary.Failed(),
		summary.Finished.Sub(summary.Started).Round(time.Millisecond),
	)

	for _, r := range summary.Results {
		if r.Failed() {
			fmt.Fprintf(os.Stderr, "  failed %s (%s): %v\n", r.ID, r.Stage, r.Err)
		}
	}
}
