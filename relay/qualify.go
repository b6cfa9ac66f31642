// Package relay implements the qualification filter and the per-item relay
// pipeline: fetch, push, commit, continue.
package relay

import (
	"ytrelay/youtube"
)

// QualifiedItem is a candidate that passed both the popularity threshold and
// the not-already-sent check.
type QualifiedItem struct {
	// ID is the video ID.
	ID string
	// Stats is the enrichment data the item qualified on.
	Stats youtube.Stats
}

// Qualify produces the ordered subsequence of candidates that (a) have a
// stats entry, (b) meet the like threshold (boundary inclusive), and (c) are
// not present in the sent set. Discovery order is preserved. The function is
// pure: no I/O, deterministic for identical inputs.
func Qualify(candidates []youtube.Candidate, stats map[string]youtube.Stats, sent map[string]bool, threshold int64) []QualifiedItem {
	items := make([]QualifiedItem, 0, len(candidates))
	for _, c := range candidates {
		st, ok := stats[c.ID]
		if !ok {
			continue
		}
		if st.LikeCount < threshold {
			continue
		}
		if sent[c.ID] {
			continue
		}
		items = append(items, QualifiedItem{ID: c.ID, Stats: st})
	}
	return items
}

// SentSet builds the membership set Qualify consumes from a ledger sequence.
func SentSet(ids []string) map[string]bool {
	sent := make(map[string]bool, len(ids))
	for _, id := range ids {
		sent[id] = true
	}
	return sent
}
