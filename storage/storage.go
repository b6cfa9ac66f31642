// Package storage provides the durable sent-video ledger.
package storage

import (
	"errors"
	"fmt"
)

// Sentinel errors for common storage conditions.
var (
	// ErrStorageCorrupt indicates data corruption was detected.
	ErrStorageCorrupt = errors.New("storage: data corruption detected")
	// ErrLockTimeout indicates a timeout acquiring a file lock.
	ErrLockTimeout = errors.New("storage: lock acquisition timeout")
)

// StorageError wraps storage errors with operation context.
// Use errors.As() to extract this error type and get operation details:
//
//	var storErr *storage.StorageError
//	if errors.As(err, &storErr) {
//		fmt.Printf("Failed to %s %s: %v\n", storErr.Op, storErr.ID, storErr.Err)
//	}
type StorageError struct {
	// Op is the operation that failed ("read", "write", "lock").
	Op string
	// ID is the video ID or file path if applicable.
	ID string
	// Err is the underlying error that occurred.
	Err error
}

// Error returns a string representation of the storage error.
func (e *StorageError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("storage: %s %s: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is() and errors.As().
func (e *StorageError) Unwrap() error { return e.Err }

// SentLedger is the durable, append-only record of video IDs already relayed.
// It is the sole gate preventing re-delivery across runs. Entries are never
// removed or reordered; Commit must persist durably before returning.
// Implementations must be safe for concurrent use within one process, but the
// append-and-flush discipline assumes a single writer per backing store.
type SentLedger interface {
	// IDs returns the full stored sequence of committed IDs in commit order.
	IDs() []string
	// Contains reports whether id was committed in some past run.
	Contains(id string) bool
	// Commit appends id and durably persists the updated sequence.
	Commit(id string) error
	// Close releases any resources held by the ledger.
	Close() error
}
