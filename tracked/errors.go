package tracked

import (
	"errors"
	"fmt"

	"modlist-manager/nexus"
)

var (
	// ErrRemoteFetch means the tracked set could not be read from Nexus.
	// The local state was left untouched.
	ErrRemoteFetch = errors.New("failed to fetch tracked mods from nexus")

	// ErrPartiallyApplied means ingestion committed but reconciling the
	// tracked modlist did not.
	ErrPartiallyApplied = errors.New("tracked mods were ingested but the modlist was not updated")

	ErrNotTracked  = errors.New("mod is not in your tracked mods")
	ErrAlreadyKept = errors.New("mod is already in your Keep-Tracked list")
	ErrNotKept     = errors.New("mod is not in your Keep-Tracked list")
)

// FetchError wraps the catalog failure that aborted a sync.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %v", ErrRemoteFetch, e.Err)
}

func (e *FetchError) Unwrap() []error {
	return []error{ErrRemoteFetch, e.Err}
}

// Retryable reports whether running the sync again later may help.
func (e *FetchError) Retryable() bool {
	var ue *nexus.UpstreamError
	if errors.As(e.Err, &ue) {
		return ue.Retryable()
	}
	return errors.Is(e.Err, nexus.ErrUnreachable)
}

// ApplyError wraps a store failure during reconciliation.
type ApplyError struct {
	Err error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("%s: %v", ErrPartiallyApplied, e.Err)
}

func (e *ApplyError) Unwrap() []error {
	return []error{ErrPartiallyApplied, e.Err}
}
