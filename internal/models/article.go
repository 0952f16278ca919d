package models

import "time"

// Article is one collected news article. Created by the collector from Doc
// API metadata; Body is attached later by the body fetcher. The Link is the
// natural dedup key across the whole collection run.
type Article struct {
	Feed      string     `json:"feed"`      // Source tag (e.g., "gdelt_docapi")
	Candidate string     `json:"candidate"` // Candidate whose query window produced this article
	Title     string     `json:"title"`
	Summary   string     `json:"summary"`
	Link      string     `json:"link"`
	Published *time.Time `json:"published"` // nil when the source timestamp did not parse
	Body      string     `json:"body,omitempty"`
}

// MentionRecord is one (candidate, article) pair whose combined text contains
// the candidate name and at least one ticker alias. These are the atomic
// units the summaries are built from.
type MentionRecord struct {
	Candidate string     `json:"candidate"`
	Title     string     `json:"title"`
	Summary   string     `json:"summary"`
	Sentence  string     `json:"sentence"` // Truncated combined text, capped at 500 chars
	Tickers   []string   `json:"tickers"`  // Non-empty, at most MaxTickerHits symbols, index order
	Link      string     `json:"link"`
	Published *time.Time `json:"published"`
	Sentiment string     `json:"sentiment,omitempty"` // "positive"/"neutral"/"negative", empty when classification is disabled
}
