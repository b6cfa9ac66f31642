package ytrelay

import (
	"ytrelay/config"
	"ytrelay/storage"
	"ytrelay/youtube"
)

// Error handling types exported for library users.
//
// All error types support the standard error handling patterns:
//
// Using errors.Is() for sentinel errors:
//
//	if errors.Is(err, ytrelay.ErrMissingAPIKey) {
//		fmt.Println("YouTube API key not configured")
//	}
//
// Using errors.As() for wrapped errors:
//
//	var searchErr *ytrelay.SearchError
//	if errors.As(err, &searchErr) {
//		fmt.Printf("Search failed for %q: %v\n", searchErr.Term, searchErr.Err)
//	}

// Type aliases for convenient error handling.
type (
	// SearchError wraps errors during keyword discovery.
	SearchError = youtube.SearchError
	// StorageError wraps errors during ledger operations.
	StorageError = storage.StorageError
)

// Sentinel errors exported from sub-packages.
var (
	// ErrMissingAPIKey indicates the YouTube Data API key is not configured.
	ErrMissingAPIKey = config.ErrMissingAPIKey
	// ErrMissingBotToken indicates the Telegram bot token is not configured.
	ErrMissingBotToken = config.ErrMissingBotToken
	// ErrMissingChatID indicates the Telegram chat ID is not configured.
	ErrMissingChatID = config.ErrMissingChatID

	// ErrNetworkTimeout indicates a network timeout occurred.
	ErrNetworkTimeout = youtube.ErrNetworkTimeout
	// ErrYtdlpNotInstalled indicates the yt-dlp binary was not found.
	ErrYtdlpNotInstalled = youtube.ErrYtdlpNotInstalled

	// ErrStorageCorrupt indicates ledger data corruption was detected.
	ErrStorageCorrupt = storage.ErrStorageCorrupt
	// ErrLockTimeout indicates a timeout acquiring the ledger file lock.
	ErrLockTimeout = storage.ErrLockTimeout
)

// IsCredentialError reports whether err is a missing-credential
// configuration error. Callers use it to distinguish unusable configuration
// from runtime failures.
func IsCredentialError(err error) bool {
	return config.IsCredentialError(err)
}
