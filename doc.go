// Package ytrelay relays popular fresh YouTube videos to a Telegram chat.
//
// Each run discovers recently published videos for a set of keyword queries,
// enriches them with like counts, filters them against a like threshold and a
// durable sent-video ledger, then downloads and uploads the survivors one at
// a time. A video's ID is committed to the ledger only after its upload
// succeeds, so a crash mid-run never marks an unsent video as sent.
//
// Overview
//
// The pipeline is assembled from the sub-packages:
//
//   - youtube: keyword discovery, stats enrichment, and yt-dlp downloads
//   - telegram: video upload via the Bot API
//   - storage: the durable sent-video ledger
//   - relay: qualification rules and run orchestration
//   - scheduler: cron-driven daemon mode
//   - config: configuration management
//
// Quick Start
//
// Wire a pipeline and run it once:
//
//	cfg, err := config.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	discoverer, err := youtube.NewDiscoverer(cfg.APIKey, cfg.SearchTerms, cfg.RecencyWindow, cfg.MaxResultsPerTerm)
//	if err != nil {
//		log.Fatal(err)
//	}
//	resolver, err := youtube.NewStatsResolver(cfg.APIKey)
//	if err != nil {
//		log.Fatal(err)
//	}
//	ledger, err := storage.NewJSONLedger(cfg.LedgerPath)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer ledger.Close()
//
//	p := relay.NewPipeline(relay.Deps{
//		Discoverer: discoverer,
//		Resolver:   resolver,
//		Fetcher:    youtube.NewFetcher(cfg.DownloadDir),
//		Sender:     telegram.NewSender(cfg.BotToken, cfg.ChatID, cfg.SendTimeout),
//		Ledger:     ledger,
//	}, relay.Options{LikeThreshold: cfg.LikeThreshold, SendPause: cfg.SendPause})
//
//	summary, err := p.Run(ctx)
//
// Configuration
//
// ytrelay loads settings from multiple sources:
//
//   1. Environment variables (highest priority)
//   2. Config file (ytrelay.json or ~/.config/ytrelay/ytrelay.json)
//   3. Default values (lowest priority)
//
// Environment variables:
//
//   - YT_API_KEY: YouTube Data API v3 key (required)
//   - TELEGRAM_BOT_TOKEN: Telegram bot token (required)
//   - TELEGRAM_CHAT_ID: Destination chat ID (required)
//   - LIKE_THRESHOLD: Minimum like count for a video to qualify
//   - YTRELAY_SEARCH_TERMS: Comma-separated keyword queries
//   - YTRELAY_RECENCY_WINDOW: Discovery window, e.g. "24h"
//   - YTRELAY_LEDGER_PATH: Sent-video ledger location
//   - YTRELAY_DOWNLOAD_DIR: Scratch directory for fetched media
//   - YTRELAY_YTDLP_PATH: Path to the yt-dlp executable
//   - YTRELAY_SEND_PAUSE: Courtesy delay between uploads
//   - YTRELAY_CRON_SPEC: Daemon schedule, e.g. "0 * * * *"
//
// Error Handling
//
// All operations return errors that implement standard Go error handling:
//
//	if errors.Is(err, ytrelay.ErrYtdlpNotInstalled) {
//		fmt.Println("install yt-dlp first")
//	}
//
//	var searchErr *ytrelay.SearchError
//	if errors.As(err, &searchErr) {
//		fmt.Printf("Search failed for %q: %v\n", searchErr.Term, searchErr.Err)
//	}
//
// Dependencies
//
// ytrelay requires yt-dlp to be installed and available in PATH or specified
// via YTRELAY_YTDLP_PATH.
//
// Install yt-dlp: https://github.com/yt-dlp/yt-dlp
//
package ytrelay
