package models

import "time"

// FetchWindow is one bounded query unit sent to the Doc API: a single
// candidate with either an explicit day span or a relative timespan token.
// Start/End and Timespan are mutually exclusive.
type FetchWindow struct {
	Candidate string     `json:"candidate"`
	Query     string     `json:"query"` // Boolean query string, no grouping parentheses
	Start     *time.Time `json:"start,omitempty"`
	End       *time.Time `json:"end,omitempty"`
	Timespan  string     `json:"timespan,omitempty"`
}

// Explicit reports whether the window carries explicit datetime bounds
// rather than a relative timespan.
func (w FetchWindow) Explicit() bool {
	return w.Start != nil && w.End != nil
}
