package relay

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ytrelay/storage"
	"ytrelay/youtube"
)

type fakeDiscoverer struct {
	candidates []youtube.Candidate
	err        error
}

func (f *fakeDiscoverer) Discover(ctx context.Context) ([]youtube.Candidate, error) {
	return f.candidates, f.err
}

type fakeResolver struct {
	stats map[string]youtube.Stats
	err   error
}

func (f *fakeResolver) Resolve(ctx context.Context, ids []string) (map[string]youtube.Stats, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.stats, nil
}

// fakeFetcher materializes a small file per ID, mimicking the downloader's
// deterministic <dir>/<id>.mp4 output.
type fakeFetcher struct {
	dir  string
	fail map[string]error
}

func (f *fakeFetcher) Fetch(ctx context.Context, videoID string) (string, error) {
	if err := f.fail[videoID]; err != nil {
		return "", err
	}
	path := filepath.Join(f.dir, videoID+".mp4")
	if err := os.WriteFile(path, []byte("payload"), 0644); err != nil {
		return "", err
	}
	return path, nil
}

type fakeSender struct {
	fail     map[string]error
	sentIDs  []string
	captions []string
}

func (f *fakeSender) SendVideo(ctx context.Context, path, caption string) error {
	id := strings.TrimSuffix(filepath.Base(path), ".mp4")
	if err := f.fail[id]; err != nil {
		return err
	}
	f.sentIDs = append(f.sentIDs, id)
	f.captions = append(f.captions, caption)
	return nil
}

func openLedger(t *testing.T, path string) *storage.JSONLedger {
	t.Helper()
	l, err := storage.NewJSONLedger(path)
	if err != nil {
		t.Fatalf("NewJSONLedger() error = %v", err)
	}
	return l
}

func statsFor(likes map[string]int64) map[string]youtube.Stats {
	stats := make(map[string]youtube.Stats, len(likes))
	for id, n := range likes {
		stats[id] = youtube.Stats{ID: id, Title: "title " + id, LikeCount: n}
	}
	return stats
}

func newTestPipeline(t *testing.T, ledger storage.SentLedger, disc *fakeDiscoverer, res *fakeResolver, fetch *fakeFetcher, send *fakeSender) *Pipeline {
	t.Helper()
	return NewPipeline(Deps{
		Discoverer: disc,
		Resolver:   res,
		Fetcher:    fetch,
		Sender:     send,
		Ledger:     ledger,
	}, Options{LikeThreshold: 100})
}

func TestPipelineRelaysQualifiedItems(t *testing.T) {
	dir := t.TempDir()
	ledger := openLedger(t, filepath.Join(dir, "sent.json"))
	defer ledger.Close()

	disc := &fakeDiscoverer{candidates: []youtube.Candidate{{ID: "a"}, {ID: "b"}}}
	res := &fakeResolver{stats: statsFor(map[string]int64{"a": 500, "b": 50})}
	fetch := &fakeFetcher{dir: dir}
	send := &fakeSender{}

	p := newTestPipeline(t, ledger, disc, res, fetch, send)
	summary, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if summary.Discovered != 2 || summary.Qualified != 1 {
		t.Errorf("summary discovered/qualified = %d/%d, want 2/1", summary.Discovered, summary.Qualified)
	}
	if summary.Sent() != 1 || summary.Failed() != 0 {
		t.Errorf("summary sent/failed = %d/%d, want 1/0", summary.Sent(), summary.Failed())
	}
	if len(send.sentIDs) != 1 || send.sentIDs[0] != "a" {
		t.Errorf("sent IDs = %v, want [a]", send.sentIDs)
	}
	if !ledger.Contains("a") {
		t.Error("ledger missing committed ID a")
	}
	if ledger.Contains("b") {
		t.Error("ledger contains unqualified ID b")
	}

	// The scratch file is cleaned up after a successful relay.
	if _, err := os.Stat(filepath.Join(dir, "a.mp4")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("downloaded file still present after relay: %v", err)
	}
}

func TestPipelineFailureIsolation(t *testing.T) {
	dir := t.TempDir()
	ledger := openLedger(t, filepath.Join(dir, "sent.json"))
	defer ledger.Close()

	disc := &fakeDiscoverer{candidates: []youtube.Candidate{{ID: "a"}, {ID: "b"}, {ID: "c"}}}
	res := &fakeResolver{stats: statsFor(map[string]int64{"a": 500, "b": 500, "c": 500})}
	fetch := &fakeFetcher{dir: dir}
	send := &fakeSender{fail: map[string]error{"b": errors.New("payload too large")}}

	p := newTestPipeline(t, ledger, disc, res, fetch, send)
	summary, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// Items after the failed one are still attempted.
	if got, want := send.sentIDs, []string{"a", "c"}; len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("sent IDs = %v, want %v", got, want)
	}
	if summary.Failed() != 1 {
		t.Errorf("summary.Failed() = %d, want 1", summary.Failed())
	}
	if summary.Results[1].Stage != StageSend {
		t.Errorf("failed stage = %q, want %q", summary.Results[1].Stage, StageSend)
	}

	// The failed item is absent from the ledger so a later run can retry it.
	if ledger.Contains("b") {
		t.Error("ledger contains failed ID b")
	}
	if !ledger.Contains("a") || !ledger.Contains("c") {
		t.Errorf("ledger = %v, want a and c committed", ledger.IDs())
	}
}

func TestPipelineFetchFailureNotCommitted(t *testing.T) {
	dir := t.TempDir()
	ledger := openLedger(t, filepath.Join(dir, "sent.json"))
	defer ledger.Close()

	disc := &fakeDiscoverer{candidates: []youtube.Candidate{{ID: "a"}, {ID: "b"}}}
	res := &fakeResolver{stats: statsFor(map[string]int64{"a": 500, "b": 500})}
	fetch := &fakeFetcher{dir: dir, fail: map[string]error{"a": errors.New("video unavailable")}}
	send := &fakeSender{}

	p := newTestPipeline(t, ledger, disc, res, fetch, send)
	summary, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if summary.Results[0].Stage != StageFetch {
		t.Errorf("failed stage = %q, want %q", summary.Results[0].Stage, StageFetch)
	}
	if ledger.Contains("a") {
		t.Error("ledger contains ID whose fetch failed")
	}
	if len(send.sentIDs) != 1 || send.sentIDs[0] != "b" {
		t.Errorf("sent IDs = %v, want [b]", send.sentIDs)
	}
}

func TestPipelineCommitOrderMatchesAttemptOrder(t *testing.T) {
	dir := t.TempDir()
	ledger := openLedger(t, filepath.Join(dir, "sent.json"))
	defer ledger.Close()

	disc := &fakeDiscoverer{candidates: []youtube.Candidate{{ID: "z"}, {ID: "a"}, {ID: "m"}}}
	res := &fakeResolver{stats: statsFor(map[string]int64{"z": 500, "a": 500, "m": 500})}

	p := newTestPipeline(t, ledger, disc, res, &fakeFetcher{dir: dir}, &fakeSender{})
	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got := ledger.IDs()
	want := []string{"z", "a", "m"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ledger[%d] = %q, want attempt order %q", i, got[i], want[i])
		}
	}
}

func TestPipelineIdempotentAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	ledgerPath := filepath.Join(dir, "sent.json")

	disc := &fakeDiscoverer{candidates: []youtube.Candidate{{ID: "a"}}}
	res := &fakeResolver{stats: statsFor(map[string]int64{"a": 500})}

	// First run relays "a" and persists the commit.
	ledger := openLedger(t, ledgerPath)
	send := &fakeSender{}
	p := newTestPipeline(t, ledger, disc, res, &fakeFetcher{dir: dir}, send)
	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	ledger.Close()
	if len(send.sentIDs) != 1 {
		t.Fatalf("first run sent %v, want [a]", send.sentIDs)
	}

	// Second run over the same candidates relays nothing.
	ledger = openLedger(t, ledgerPath)
	defer ledger.Close()
	send2 := &fakeSender{}
	p2 := newTestPipeline(t, ledger, disc, res, &fakeFetcher{dir: dir}, send2)
	summary, err := p2.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if summary.Qualified != 0 {
		t.Errorf("second run qualified = %d, want 0", summary.Qualified)
	}
	if len(send2.sentIDs) != 0 {
		t.Errorf("second run re-sent %v, want nothing", send2.sentIDs)
	}
}

func TestPipelineDiscoveryFailureAbortsRun(t *testing.T) {
	dir := t.TempDir()
	ledger := openLedger(t, filepath.Join(dir, "sent.json"))
	defer ledger.Close()

	disc := &fakeDiscoverer{err: errors.New("search backend down")}
	send := &fakeSender{}
	p := newTestPipeline(t, ledger, disc, &fakeResolver{}, &fakeFetcher{dir: dir}, send)

	if _, err := p.Run(context.Background()); err == nil {
		t.Fatal("Run() error = nil, want discovery failure")
	}
	if len(send.sentIDs) != 0 {
		t.Errorf("sends attempted after discovery failure: %v", send.sentIDs)
	}
}

func TestPipelineStatsFailureAbortsRun(t *testing.T) {
	dir := t.TempDir()
	ledger := openLedger(t, filepath.Join(dir, "sent.json"))
	defer ledger.Close()

	disc := &fakeDiscoverer{candidates: []youtube.Candidate{{ID: "a"}}}
	res := &fakeResolver{err: errors.New("enrichment backend down")}
	send := &fakeSender{}
	p := newTestPipeline(t, ledger, disc, res, &fakeFetcher{dir: dir}, send)

	if _, err := p.Run(context.Background()); err == nil {
		t.Fatal("Run() error = nil, want stats failure")
	}
	if len(send.sentIDs) != 0 {
		t.Errorf("sends attempted after stats failure: %v", send.sentIDs)
	}
}

func TestCaption(t *testing.T) {
	item := QualifiedItem{
		ID:    "abc123",
		Stats: youtube.Stats{Title: "Very Good Cat", LikeCount: 250000},
	}

	got := Caption(item)
	for _, want := range []string{"Very Good Cat", "250000 likes", "https://youtu.be/abc123"} {
		if !strings.Contains(got, want) {
			t.Errorf("Caption() = %q, missing %q", got, want)
		}
	}
}
