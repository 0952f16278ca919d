package services

import (
	"context"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/electionnews/internal/aliases"
	"github.com/ternarybob/electionnews/internal/models"
)

const (
	// bodyScanLength bounds how much of the fetched body participates in
	// matching. Ticker mentions far down a long page are noise.
	bodyScanLength = 2000

	// sentenceLength is the stored excerpt cap for a mention record.
	sentenceLength = 500
)

// Aggregator turns collected articles into mention records: pairs of
// (candidate, article) where the combined text names the candidate and at
// least one ticker alias.
type Aggregator struct {
	index      *aliases.Index
	candidates []string
	fetcher    BodyFetcher
	classifier SentimentClassifier
	maxHits    int
	logger     arbor.ILogger
}

// NewAggregator creates an aggregator. fetcher and classifier may be nil;
// a nil fetcher skips body enrichment and a nil classifier leaves the
// sentiment field empty.
func NewAggregator(index *aliases.Index, candidates []string, fetcher BodyFetcher, classifier SentimentClassifier, maxHits int, logger arbor.ILogger) *Aggregator {
	if maxHits <= 0 {
		maxHits = aliases.DefaultMaxHits
	}
	return &Aggregator{
		index:      index,
		candidates: candidates,
		fetcher:    fetcher,
		classifier: classifier,
		maxHits:    maxHits,
		logger:     logger,
	}
}

// Aggregate scans every article and returns the mention records, in article
// order. Every configured candidate is tested against every article, so one
// article can yield a record per candidate named in its combined text,
// regardless of whose window collected it.
func (a *Aggregator) Aggregate(ctx context.Context, articles []models.Article) ([]models.MentionRecord, error) {
	var records []models.MentionRecord

	for _, article := range articles {
		if ctx.Err() != nil {
			return records, ctx.Err()
		}

		body := article.Body
		if body == "" && a.fetcher != nil {
			body = a.fetcher.FetchBody(ctx, article.Link)
		}

		combined := combineText(article.Title, article.Summary, body)
		lowered := strings.ToLower(combined)

		var tickers []string
		extracted := false

		for _, candidate := range a.candidates {
			if !strings.Contains(lowered, strings.ToLower(candidate)) {
				continue
			}

			// Extraction is per article, not per candidate
			if !extracted {
				tickers = a.index.ExtractTickers(combined, a.maxHits)
				extracted = true
			}
			if len(tickers) == 0 {
				break
			}

			record := models.MentionRecord{
				Candidate: candidate,
				Title:     article.Title,
				Summary:   article.Summary,
				Sentence:  truncateUTF8(combined, sentenceLength),
				Tickers:   tickers,
				Link:      article.Link,
				Published: article.Published,
			}

			if a.classifier != nil {
				record.Sentiment = a.classifier.Classify(ctx, record.Candidate, record.Sentence)
			}

			records = append(records, record)

			if a.logger != nil {
				a.logger.Debug().
					Str("candidate", record.Candidate).
					Str("link", record.Link).
					Str("tickers", strings.Join(tickers, ",")).
					Msg("Mention recorded")
			}
		}
	}

	if a.logger != nil {
		a.logger.Info().
			Int("articles", len(articles)).
			Int("mentions", len(records)).
			Msg("Aggregation complete")
	}

	return records, nil
}

// combineText builds the matching text: title, summary, and the leading
// slice of the body, joined with sentence breaks.
func combineText(title, summary, body string) string {
	if len(body) > bodyScanLength {
		body = truncateUTF8(body, bodyScanLength)
	}

	parts := make([]string, 0, 3)
	for _, p := range []string{title, summary, body} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	return strings.Join(parts, ". ")
}
