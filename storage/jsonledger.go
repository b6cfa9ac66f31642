package storage

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"sync"
	"time"
)

const (
	schemaVersion = "1.0"
	lockTimeout   = 5 * time.Second
)

// JSONLedger implements SentLedger using a single human-readable JSON file,
// rewritten in full on every commit. A missing or corrupt file is treated as
// an empty ledger so a degraded store never fails the run.
type JSONLedger struct {
	path string
	lock *FileLock
	data *ledgerData
	seen map[string]bool
	mu   sync.RWMutex
}

// ledgerData is the top-level JSON structure.
type ledgerData struct {
	Version   string    `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
	Sent      []string  `json:"sent"`
}

// NewJSONLedger opens the ledger file at the given path, acquiring an
// exclusive advisory lock for the ledger's lifetime. A missing or corrupt
// file yields an empty ledger.
func NewJSONLedger(path string) (*JSONLedger, error) {
	l := &JSONLedger{
		path: path,
		lock: NewFileLock(path),
		seen: make(map[string]bool),
	}

	if err := l.lock.Lock(lockTimeout); err != nil {
		return nil, err
	}

	l.load()
	return l, nil
}

// load reads the JSON file into memory. A missing or unparseable file is
// recovered locally as an empty ledger, accepting the risk of re-delivery
// only in that degraded case.
func (l *JSONLedger) load() {
	l.data = &ledgerData{Version: schemaVersion}

	raw, err := os.ReadFile(l.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("storage: cannot read ledger %s: %v (starting empty)", l.path, err)
		}
		return
	}

	var data ledgerData
	if err := json.Unmarshal(raw, &data); err == nil && data.Sent != nil {
		l.data.Sent = data.Sent
	} else {
		// Legacy format: a bare JSON array of IDs.
		var ids []string
		if err := json.Unmarshal(raw, &ids); err != nil {
			log.Printf("storage: corrupt ledger %s: %v (starting empty)", l.path, err)
			return
		}
		l.data.Sent = ids
	}

	for _, id := range l.data.Sent {
		l.seen[id] = true
	}
}

// IDs returns a copy of the committed ID sequence in commit order.
func (l *JSONLedger) IDs() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ids := make([]string, len(l.data.Sent))
	copy(ids, l.data.Sent)
	return ids
}

// Contains reports whether id has been committed.
func (l *JSONLedger) Contains(id string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.seen[id]
}

// Commit appends id and persists the full sequence before returning.
// Committing an already-present ID is a no-op.
func (l *JSONLedger) Commit(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.seen[id] {
		return nil
	}

	l.data.Sent = append(l.data.Sent, id)
	l.seen[id] = true

	if err := l.save(); err != nil {
		// Roll back the in-memory append so a later retry re-persists it.
		l.data.Sent = l.data.Sent[:len(l.data.Sent)-1]
		delete(l.seen, id)
		return err
	}
	return nil
}

// save persists the data to disk atomically.
func (l *JSONLedger) save() error {
	l.data.UpdatedAt = time.Now()

	writer, err := NewAtomicWriter(l.path)
	if err != nil {
		return &StorageError{Op: "write", ID: l.path, Err: err}
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(l.data); err != nil {
		writer.Abort()
		return &StorageError{Op: "write", ID: l.path, Err: err}
	}

	if err := writer.Commit(); err != nil {
		return &StorageError{Op: "write", ID: l.path, Err: err}
	}

	return nil
}

// Close releases the file lock held by the ledger.
func (l *JSONLedger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lock.Unlock()
}
