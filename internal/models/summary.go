package models

import "time"

// CandidateSummary is the per-candidate roll-up of one run's mention records.
// TopMentions renders rank-ordered "SYM (count)" pairs, descending by count
// with first-seen order breaking ties. Positive/negative splits are populated
// only when sentiment classification ran.
type CandidateSummary struct {
	Candidate     string `json:"candidate"`
	TopMentions   string `json:"top_mentions"`
	TotalMentions int    `json:"total_mentions"`

	PositiveTop   string `json:"positive_top,omitempty"`
	NegativeTop   string `json:"negative_top,omitempty"`
	TotalPositive int    `json:"total_positive,omitempty"`
	TotalNegative int    `json:"total_negative,omitempty"`
}

// RunMetadata carries the parameters a run was executed with. It annotates
// every history row written for that run.
type RunMetadata struct {
	RunID         string    `json:"run_id"`
	RunAtUTC      time.Time `json:"run_at_utc"`
	DateRange     string    `json:"date_range"` // Original range string, empty in timespan mode
	Timespan      string    `json:"timespan"`   // Relative timespan token, empty in explicit-range mode
	Keywords      []string  `json:"keywords"`
	Domains       []string  `json:"domains"`
	SourceLang    string    `json:"source_lang"`
	SourceCountry string    `json:"source_country"`
	Subtitle      string    `json:"subtitle"` // Human-readable: year + candidate pairing + range
}

// HistoryRow is one persisted, append-only record: a candidate summary plus
// the metadata of the run that produced it. Rows are never mutated or
// deleted.
type HistoryRow struct {
	RunMetadata
	CandidateSummary
}
