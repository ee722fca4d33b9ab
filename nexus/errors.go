package nexus

import (
	"bytes"
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("nexus: resource not found")
	ErrUnprocessable = errors.New("nexus: request could not be processed")
	ErrRateLimited   = errors.New("nexus: rate limit exceeded")
	ErrUnauthorized  = errors.New("nexus: API key rejected")
	ErrNotDownloaded = errors.New("nexus: mod must be downloaded before it can be endorsed")
	ErrUpstream      = errors.New("nexus: unexpected upstream response")

	ErrUnreachable      = errors.New("nexus: catalog unreachable")
	ErrMalformedPayload = errors.New("nexus: malformed response payload")
	ErrMissingAPIKey    = errors.New("nexus: API key is required")
	ErrInvalidCategory  = errors.New("nexus: invalid mod category")

	// ErrUnavailable marks a mod listing that could not be loaded. Callers
	// render the section as degraded instead of failing.
	ErrUnavailable = errors.New("nexus: listing unavailable")
)

const notDownloadedMarker = "NOT_DOWNLOADED_MOD"

// UpstreamError carries the status and body of a non-2xx response.
// It unwraps to the sentinel matching the status.
type UpstreamError struct {
	Status int
	Body   string
	kind   error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("api request failed: status %d, body: %s", e.Status, e.Body)
}

func (e *UpstreamError) Unwrap() error {
	return e.kind
}

// Retryable reports whether retrying the same request later may succeed.
func (e *UpstreamError) Retryable() bool {
	return e.Status == 429 || e.Status >= 500
}

func statusError(status int, body []byte) *UpstreamError {
	text := string(body)
	if len(text) > 512 {
		text = text[:512]
	}
	ue := &UpstreamError{Status: status, Body: text}
	switch {
	case status == 404:
		ue.kind = ErrNotFound
	case status == 422:
		ue.kind = ErrUnprocessable
	case status == 429:
		ue.kind = ErrRateLimited
	case status == 401 || status == 403:
		if containsMarker(body) {
			ue.kind = ErrNotDownloaded
		} else {
			ue.kind = ErrUnauthorized
		}
	default:
		ue.kind = ErrUpstream
	}
	return ue
}

func containsMarker(body []byte) bool {
	return bytes.Contains(body, []byte(notDownloadedMarker))
}
