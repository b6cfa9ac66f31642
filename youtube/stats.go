package youtube

import (
	"context"
	"fmt"
	"log"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// videosAPI issues one bulk lookup request covering an ID batch.
type videosAPI interface {
	List(ctx context.Context, ids []string) (map[string]Stats, error)
}

// StatsResolver bulk-resolves statistics and metadata for candidate IDs.
// IDs the provider no longer serves (removed or private videos) are simply
// absent from the result, which downstream treats as "not eligible".
type StatsResolver struct {
	api videosAPI
}

// NewStatsResolver creates a StatsResolver backed by the YouTube Data API v3.
func NewStatsResolver(apiKey string) (*StatsResolver, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key required")
	}

	service, err := youtube.NewService(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	return &StatsResolver{api: &dataAPIVideos{service: service}}, nil
}

// Resolve returns a mapping from video ID to Stats for the given batch.
// An empty batch returns an empty map without issuing a network call.
func (r *StatsResolver) Resolve(ctx context.Context, ids []string) (map[string]Stats, error) {
	if len(ids) == 0 {
		return map[string]Stats{}, nil
	}

	stats, err := r.api.List(ctx, ids)
	if err != nil {
		if ctx.Err() != nil {
			err = ErrNetworkTimeout
		}
		return nil, fmt.Errorf("youtube: resolve stats for %d videos: %w", len(ids), err)
	}

	log.Printf("youtube: resolved stats for %d of %d videos", len(stats), len(ids))
	return stats, nil
}

// dataAPIVideos backs videosAPI with the real Data API v3 videos endpoint.
type dataAPIVideos struct {
	service *youtube.Service
}

func (v *dataAPIVideos) List(ctx context.Context, ids []string) (map[string]Stats, error) {
	call := v.service.Videos.List([]string{"statistics", "snippet", "contentDetails"}).
		Id(ids...).
		Context(ctx)

	resp, err := call.Do()
	if err != nil {
		return nil, err
	}

	results := make(map[string]Stats, len(resp.Items))
	for _, item := range resp.Items {
		st := Stats{ID: item.Id}

		// Missing counters default to 0.
		if item.Statistics != nil {
			st.LikeCount = int64(item.Statistics.LikeCount)
			st.ViewCount = int64(item.Statistics.ViewCount)
		}
		if item.Snippet != nil {
			st.Title = item.Snippet.Title
			if t, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
				st.PublishedAt = t
			}
		}
		if item.ContentDetails != nil {
			st.Duration = item.ContentDetails.Duration
		}

		results[item.Id] = st
	}

	return results, nil
}
