package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Credential store errors
	ErrCredentialNotFound = fmt.Errorf("credential not found")
	ErrCredentialStore    = fmt.Errorf("credential store unavailable")

	// Remote protocol errors
	ErrTransport = fmt.Errorf("transport failure")
	ErrProtocol  = fmt.Errorf("remote returned error status")
	ErrDecode    = fmt.Errorf("malformed response")

	// Media cache errors
	ErrNotCached  = fmt.Errorf("media not cached")
	ErrCacheWrite = fmt.Errorf("cache write failed")

	// Storage and sync errors
	ErrReconcile      = fmt.Errorf("storage write failed")
	ErrSyncInProgress = fmt.Errorf("sync already in progress for library")
	ErrLibraryUnknown = fmt.Errorf("library not registered")

	// Input validation errors
	ErrInvalidInput = fmt.Errorf("invalid input")
)
