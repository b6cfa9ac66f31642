package relay

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"ytrelay/storage"
	"ytrelay/youtube"
)

// Discoverer finds candidate videos for one run.
type Discoverer interface {
	Discover(ctx context.Context) ([]youtube.Candidate, error)
}

// StatsResolver bulk-resolves enrichment data for candidate IDs.
type StatsResolver interface {
	Resolve(ctx context.Context, ids []string) (map[string]youtube.Stats, error)
}

// Fetcher materializes the media payload for a video ID and returns its path.
type Fetcher interface {
	Fetch(ctx context.Context, videoID string) (string, error)
}

// Sender pushes one video file with a caption to the destination.
type Sender interface {
	SendVideo(ctx context.Context, path, caption string) error
}

// Deps wires all collaborators into the pipeline.
type Deps struct {
	Discoverer Discoverer
	Resolver   StatsResolver
	Fetcher    Fetcher
	Sender     Sender
	Ledger     storage.SentLedger
}

// Options tunes pipeline behavior.
type Options struct {
	// LikeThreshold is the minimum like count for qualification.
	LikeThreshold int64
	// BatchTimeout bounds each discovery and stats call.
	BatchTimeout time.Duration
	// FetchTimeout bounds each per-item download.
	FetchTimeout time.Duration
	// SendTimeout bounds each per-item upload.
	SendTimeout time.Duration
	// SendPause is the courtesy delay between successful relays.
	SendPause time.Duration
}

// Pipeline runs the full relay workflow, strictly sequentially: discover,
// resolve, qualify, then relay each item one at a time. One item's failure
// never aborts processing of subsequent items.
type Pipeline struct {
	discoverer Discoverer
	resolver   StatsResolver
	fetcher    Fetcher
	sender     Sender
	ledger     storage.SentLedger

	opts    Options
	limiter *rate.Limiter
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps Deps, opts Options) *Pipeline {
	if opts.BatchTimeout <= 0 {
		opts.BatchTimeout = 30 * time.Second
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 5 * time.Minute
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = 120 * time.Second
	}

	// Token-bucket pacing against the destination: one send per pause.
	var limiter *rate.Limiter
	if opts.SendPause > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.SendPause), 1)
	}

	return &Pipeline{
		discoverer: deps.Discoverer,
		resolver:   deps.Resolver,
		fetcher:    deps.Fetcher,
		sender:     deps.Sender,
		ledger:     deps.Ledger,
		opts:       opts,
		limiter:    limiter,
	}
}

// Run executes one full pipeline run. A discovery or stats failure aborts the
// run with an error (the candidate set is untrustworthy); per-item relay
// failures are recorded in the summary and the run continues.
func (p *Pipeline) Run(ctx context.Context) (*RunSummary, error) {
	summary := &RunSummary{
		RunID:   uuid.NewString(),
		Started: time.Now(),
	}

	candidates, err := p.discover(ctx)
	if err != nil {
		return summary, fmt.Errorf("discover candidates: %w", err)
	}
	summary.Discovered = len(candidates)

	ids := make([]string, len(candidates))
	for i, c := range candidates {
		ids[i] = c.ID
	}

	stats, err := p.resolve(ctx, ids)
	if err != nil {
		return summary, fmt.Errorf("resolve stats: %w", err)
	}

	items := Qualify(candidates, stats, SentSet(p.ledger.IDs()), p.opts.LikeThreshold)
	summary.Qualified = len(items)

	log.Printf("relay: run %s: %d candidates, %d qualified", summary.RunID, len(candidates), len(items))
	if len(items) == 0 {
		log.Printf("relay: no new qualifying videos to send")
		summary.Finished = time.Now()
		return summary, nil
	}

	for _, item := range items {
		res := p.relayOne(ctx, item)
		summary.Results = append(summary.Results, res)

		if res.Failed() {
			log.Printf("relay: %s failed at %s: %v", res.ID, res.Stage, res.Err)
			continue
		}
		log.Printf("relay: sent %s (%q, %d likes)", item.ID, item.Stats.Title, item.Stats.LikeCount)
	}

	summary.Finished = time.Now()
	return summary, nil
}

func (p *Pipeline) discover(ctx context.Context) ([]youtube.Candidate, error) {
	dctx, cancel := context.WithTimeout(ctx, p.opts.BatchTimeout)
	defer cancel()
	return p.discoverer.Discover(dctx)
}

func (p *Pipeline) resolve(ctx context.Context, ids []string) (map[string]youtube.Stats, error) {
	rctx, cancel := context.WithTimeout(ctx, p.opts.BatchTimeout)
	defer cancel()
	return p.resolver.Resolve(rctx, ids)
}

// relayOne performs the fetch, push, commit sequence for a single item.
// Failures are scoped to the item; a failed item's ID is never committed so
// it stays eligible on a future run.
func (p *Pipeline) relayOne(ctx context.Context, item QualifiedItem) ItemResult {
	res := ItemResult{ID: item.ID, Title: item.Stats.Title}

	fctx, cancel := context.WithTimeout(ctx, p.opts.FetchTimeout)
	path, err := p.fetcher.Fetch(fctx, item.ID)
	cancel()
	if err != nil {
		res.Stage, res.Err = StageFetch, err
		return res
	}
	defer os.Remove(path)

	// Courtesy rate limit against the destination: at most one upload per
	// SendPause interval.
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			res.Stage, res.Err = StageSend, err
			return res
		}
	}

	sctx, cancel := context.WithTimeout(ctx, p.opts.SendTimeout)
	err = p.sender.SendVideo(sctx, path, Caption(item))
	cancel()
	if err != nil {
		res.Stage, res.Err = StageSend, err
		return res
	}

	if err := p.ledger.Commit(item.ID); err != nil {
		// The video went out but was not recorded; it may be re-sent next
		// run. Report it so the operator sees the degraded ledger.
		res.Stage, res.Err = StageCommit, err
		return res
	}

	return res
}

// Caption builds the message accompanying one relayed video: title, like
// count, and the canonical permalink.
func Caption(item QualifiedItem) string {
	return fmt.Sprintf("%s\n❤️ %d likes — %s", item.Stats.Title, item.Stats.LikeCount, youtube.ShortURL(item.ID))
}
