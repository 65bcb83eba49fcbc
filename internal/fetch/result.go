// internal/fetch/result.go

// Package fetch retrieves documents over HTTP or a headless browser with
// proxy fallback, soft-block classification, and bounded retries.
package fetch

import (
	"context"
	"errors"
)

// Status classifies the outcome of one fetch.
type Status int

const (
	// StatusSuccess means a usable document came back.
	StatusSuccess Status = iota
	// StatusSoftBlocked means the target pushed back without failing
	// outright: a challenge page, a block status code, or a redirect off
	// the expected domain. Worth retrying.
	StatusSoftBlocked
	// StatusHTTPError is a terminal HTTP failure such as a 404. Not retried.
	StatusHTTPError
	// StatusNetworkError is a transport-level failure.
	StatusNetworkError
	// StatusTimeout means the deadline expired before a document arrived.
	StatusTimeout
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusSoftBlocked:
		return "soft_blocked"
	case StatusHTTPError:
		return "http_error"
	case StatusNetworkError:
		return "network_error"
	case StatusTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Result describes one fetch outcome.
type Result struct {
	Status   Status
	Code     int
	FinalURL string
	HTML     string
	Err      error
}

// Retryable reports whether another attempt could plausibly succeed.
// Terminal HTTP errors and canceled contexts are not worth retrying.
func (r Result) Retryable() bool {
	if errors.Is(r.Err, context.Canceled) {
		return false
	}
	switch r.Status {
	case StatusSoftBlocked, StatusTimeout, StatusNetworkError:
		return true
	default:
		return false
	}
}

// classifyCode maps an HTTP status code to a fetch status. Block-shaped
// codes are soft so the retry loop picks them up; everything else at or
// above 400 is terminal.
func classifyCode(code int) Status {
	switch code {
	case 403, 429, 502, 503:
		return StatusSoftBlocked
	}
	if code >= 400 {
		return StatusHTTPError
	}
	return StatusSuccess
}
