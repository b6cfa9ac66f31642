// Package youtube provides candidate discovery, stats resolution, and media
// fetching against YouTube.
package youtube

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for YouTube operations.
var (
	ErrNetworkTimeout    = errors.New("youtube: network timeout")
	ErrYtdlpNotInstalled = errors.New("youtube: yt-dlp not installed")
)

// Candidate is a newly discovered video before enrichment.
// Candidates are ephemeral: they exist only within one run.
type Candidate struct {
	// ID is the YouTube video ID (e.g., "dQw4w9WgXcQ").
	ID string
	// Title is the video title as returned by search.
	Title string
	// PublishedAt is when the video was published.
	PublishedAt time.Time
}

// Stats carries the enrichment data resolved for one video ID.
type Stats struct {
	// ID is the YouTube video ID.
	ID string
	// Title is the video title.
	Title string
	// LikeCount is the number of likes (0 if the API omits it).
	LikeCount int64
	// ViewCount is the number of views (0 if the API omits it).
	ViewCount int64
	// Duration is the ISO-8601 duration string as served by the API.
	Duration string
	// PublishedAt is when the video was published.
	PublishedAt time.Time
}

// WatchURL returns the canonical watch URL for a video ID.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// ShortURL returns the youtu.be permalink for a video ID.
func ShortURL(id string) string {
	return "https://youtu.be/" + id
}

// SearchError wraps errors during candidate discovery with the failing term.
// Use errors.As() to extract it:
//
//	var searchErr *youtube.SearchError
//	if errors.As(err, &searchErr) {
//		fmt.Printf("search failed for %q: %v\n", searchErr.Term, searchErr.Err)
//	}
type SearchError struct {
	// Term is the keyword query that failed.
	Term string
	// Err is the underlying error.
	Err error
}

// Error returns a string representation of the search error.
func (e *SearchError) Error() string {
	return fmt.Sprintf("youtube: search %q: %v", e.Term, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is() and errors.As().
func (e *SearchError) Unwrap() error { return e.Err }
