package relay

import (
	"reflect"
	"testing"

	"ytrelay/youtube"
)

func TestQualifyThresholdBoundary(t *testing.T) {
	candidates := []youtube.Candidate{
		{ID: "at"},
		{ID: "below"},
		{ID: "above"},
	}
	stats := map[string]youtube.Stats{
		"at":    {ID: "at", LikeCount: 200000},
		"below": {ID: "below", LikeCount: 199999},
		"above": {ID: "above", LikeCount: 200001},
	}

	got := Qualify(candidates, stats, nil, 200000)

	wantIDs := []string{"at", "above"}
	if len(got) != len(wantIDs) {
		t.Fatalf("Qualify() returned %d items, want %d", len(got), len(wantIDs))
	}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("Qualify()[%d].ID = %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestQualifyMissingStatsExcluded(t *testing.T) {
	candidates := []youtube.Candidate{{ID: "gone"}, {ID: "here"}}
	stats := map[string]youtube.Stats{
		"here": {ID: "here", LikeCount: 999999999},
	}

	got := Qualify(candidates, stats, nil, 0)
	if len(got) != 1 || got[0].ID != "here" {
		t.Errorf("Qualify() = %v, want only %q (no stats means not eligible)", got, "here")
	}
}

func TestQualifyAlreadySentExcluded(t *testing.T) {
	candidates := []youtube.Candidate{{ID: "a"}, {ID: "b"}}
	stats := map[string]youtube.Stats{
		"a": {ID: "a", LikeCount: 500},
		"b": {ID: "b", LikeCount: 500},
	}
	sent := SentSet([]string{"a"})

	got := Qualify(candidates, stats, sent, 100)
	if len(got) != 1 || got[0].ID != "b" {
		t.Errorf("Qualify() = %v, want only %q", got, "b")
	}
}

func TestQualifyPreservesDiscoveryOrder(t *testing.T) {
	candidates := []youtube.Candidate{{ID: "z"}, {ID: "a"}, {ID: "m"}}
	stats := map[string]youtube.Stats{
		"z": {ID: "z", LikeCount: 10},
		"a": {ID: "a", LikeCount: 10},
		"m": {ID: "m", LikeCount: 10},
	}

	got := Qualify(candidates, stats, nil, 1)
	wantIDs := []string{"z", "a", "m"}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("Qualify()[%d].ID = %q, want discovery order %q", i, got[i].ID, id)
		}
	}
}

func TestQualifyDeterministic(t *testing.T) {
	candidates := []youtube.Candidate{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}
	stats := map[string]youtube.Stats{
		"a": {ID: "a", LikeCount: 300},
		"b": {ID: "b", LikeCount: 100},
		"d": {ID: "d", LikeCount: 250},
	}
	sent := SentSet([]string{"d"})

	first := Qualify(candidates, stats, sent, 200)
	second := Qualify(candidates, stats, sent, 200)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Qualify() not deterministic: %v vs %v", first, second)
	}
}

// The reference scenario: threshold 200000, "c" already sent.
func TestQualifyReferenceScenario(t *testing.T) {
	candidates := []youtube.Candidate{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	stats := map[string]youtube.Stats{
		"a": {ID: "a", LikeCount: 500000},
		"b": {ID: "b", LikeCount: 100000},
		"c": {ID: "c", LikeCount: 200000},
	}
	sent := SentSet([]string{"c"})

	got := Qualify(candidates, stats, sent, 200000)
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("Qualify() = %v, want exactly [a]", got)
	}
}

func TestQualifyEmptyInputs(t *testing.T) {
	if got := Qualify(nil, nil, nil, 100); len(got) != 0 {
		t.Errorf("Qualify(nil inputs) = %v, want empty", got)
	}
}
