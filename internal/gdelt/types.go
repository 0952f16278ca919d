// Package gdelt provides a client for the GDELT 2.0 Doc API (ArtList mode).
// This package centralizes all Doc API interactions for the application.
package gdelt

import (
	"fmt"
	"time"
)

// QueryOption represents an optional parameter for API queries.
type QueryOption func(*queryParams)

// queryParams holds optional query parameters.
type queryParams struct {
	MaxRecords int
	Timespan   string
	Start      time.Time
	End        time.Time
}

// WithMaxRecords sets the maximum number of articles per call.
func WithMaxRecords(n int) QueryOption {
	return func(p *queryParams) {
		p.MaxRecords = n
	}
}

// WithTimespan sets a relative timespan token (e.g., "1d", "3d", "1w").
// Ignored when an explicit date window is set.
func WithTimespan(timespan string) QueryOption {
	return func(p *queryParams) {
		p.Timespan = timespan
	}
}

// WithDateWindow sets explicit start/end datetime bounds. Takes precedence
// over a relative timespan.
func WithDateWindow(start, end time.Time) QueryOption {
	return func(p *queryParams) {
		p.Start = start
		p.End = end
	}
}

// APIError represents a non-2xx response from the Doc API.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("GDELT API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// ContentTypeError represents a response the API served with a non-JSON
// content type. The Doc API reports query parse problems this way with a
// 200 status, so it has its own error kind.
type ContentTypeError struct {
	ContentType string
	Snippet     string
}

func (e *ContentTypeError) Error() string {
	return fmt.Sprintf("GDELT returned non-JSON content type %q: %s", e.ContentType, e.Snippet)
}

// RateLimitError represents a local rate limiter rejection.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("GDELT rate limit exceeded, retry after %v", e.RetryAfter)
}
