package youtube

import (
	"context"
	"fmt"
	"log"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// searchAPI issues one bounded search request for a single term.
// The Data API implementation is the production backend; tests inject fakes.
type searchAPI interface {
	Search(ctx context.Context, term string, publishedAfter time.Time, max int64) ([]Candidate, error)
}

// Discoverer finds recently published videos matching a fixed set of keyword
// queries. It issues one search request per term over the recency window and
// deduplicates hits across terms, preserving first-seen order.
type Discoverer struct {
	api        searchAPI
	terms      []string
	window     time.Duration
	maxPerTerm int64

	// now is replaceable in tests to pin the window start.
	now func() time.Time
}

// NewDiscoverer creates a Discoverer backed by the YouTube Data API v3.
func NewDiscoverer(apiKey string, terms []string, window time.Duration, maxPerTerm int64) (*Discoverer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key required")
	}

	service, err := youtube.NewService(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	return &Discoverer{
		api:        &dataAPISearch{service: service},
		terms:      terms,
		window:     window,
		maxPerTerm: maxPerTerm,
		now:        time.Now,
	}, nil
}

// Discover issues one search per configured term and returns the aggregated,
// deduplicated candidate sequence. Any per-term failure propagates; there is
// no per-term fallback.
func (d *Discoverer) Discover(ctx context.Context) ([]Candidate, error) {
	publishedAfter := d.now().UTC().Add(-d.window)

	var found []Candidate
	for _, term := range d.terms {
		hits, err := d.api.Search(ctx, term, publishedAfter, d.maxPerTerm)
		if err != nil {
			if ctx.Err() != nil {
				err = ErrNetworkTimeout
			}
			return nil, &SearchError{Term: term, Err: err}
		}
		log.Printf("youtube: search %q returned %d hits", term, len(hits))
		found = append(found, hits...)
	}

	return dedupeCandidates(found), nil
}

// dedupeCandidates removes duplicate video IDs, keeping the first occurrence
// so a video matching two terms stays associated with the earlier term.
func dedupeCandidates(candidates []Candidate) []Candidate {
	seen := make(map[string]bool, len(candidates))
	uniq := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		uniq = append(uniq, c)
	}
	return uniq
}

// dataAPISearch backs searchAPI with the real Data API v3 search endpoint.
type dataAPISearch struct {
	service *youtube.Service
}

func (s *dataAPISearch) Search(ctx context.Context, term string, publishedAfter time.Time, max int64) ([]Candidate, error) {
	call := s.service.Search.List([]string{"snippet"}).
		Q(term).
		Type("video").
		Order("date").
		MaxResults(max).
		PublishedAfter(publishedAfter.Format(time.RFC3339)).
		Context(ctx)

	resp, err := call.Do()
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}

		c := Candidate{ID: item.Id.VideoId}
		if item.Snippet != nil {
			c.Title = item.Snippet.Title
			if t, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
				c.PublishedAt = t
			}
		}
		candidates = append(candidates, c)
	}

	return candidates, nil
}
