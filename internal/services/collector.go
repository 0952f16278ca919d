package services

import (
	"context"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/electionnews/internal/gdelt"
	"github.com/ternarybob/electionnews/internal/models"
)

// feedName tags every collected article with its origin.
const feedName = "gdelt_docapi"

// SearchClient is the Doc API surface the collector depends on.
type SearchClient interface {
	ArticleList(ctx context.Context, query string, opts ...gdelt.QueryOption) (*gdelt.ArticleListResponse, error)
}

// Collector runs the fetch windows against the Doc API and accumulates a
// link-deduplicated article list.
type Collector struct {
	client     SearchClient
	maxRecords int
	logger     arbor.ILogger
}

// NewCollector creates a collector over the given search client.
func NewCollector(client SearchClient, maxRecords int, logger arbor.ILogger) *Collector {
	return &Collector{
		client:     client,
		maxRecords: maxRecords,
		logger:     logger,
	}
}

// Collect executes every window in order and returns the deduplicated
// articles. Deduplication is by link with first occurrence winning, applied
// across all windows and candidates. A failed window is logged and skipped;
// one bad query never aborts the run.
func (c *Collector) Collect(ctx context.Context, windows []models.FetchWindow) ([]models.Article, error) {
	seen := make(map[string]struct{})
	var articles []models.Article

	for _, window := range windows {
		opts := []gdelt.QueryOption{gdelt.WithMaxRecords(c.maxRecords)}
		if window.Explicit() {
			opts = append(opts, gdelt.WithDateWindow(*window.Start, *window.End))
		} else if window.Timespan != "" {
			opts = append(opts, gdelt.WithTimespan(window.Timespan))
		}

		resp, err := c.client.ArticleList(ctx, window.Query, opts...)
		if err != nil {
			if ctx.Err() != nil {
				return articles, ctx.Err()
			}
			if c.logger != nil {
				c.logger.Warn().
					Str("candidate", window.Candidate).
					Str("query", window.Query).
					Err(err).
					Msg("Window fetch failed, skipping")
			}
			continue
		}

		added := 0
		for _, doc := range resp.Articles {
			if doc.URL == "" {
				continue
			}
			if _, dup := seen[doc.URL]; dup {
				continue
			}
			seen[doc.URL] = struct{}{}

			title := doc.Title
			if title == "" {
				title = doc.SeenDate
			}

			articles = append(articles, models.Article{
				Feed:      feedName,
				Candidate: window.Candidate,
				Title:     title,
				Summary:   doc.Excerpt,
				Link:      doc.URL,
				Published: doc.PublishedTime(),
			})
			added++
		}

		if c.logger != nil {
			c.logger.Debug().
				Str("candidate", window.Candidate).
				Int("returned", len(resp.Articles)).
				Int("added", added).
				Msg("Window collected")
		}
	}

	if c.logger != nil {
		c.logger.Info().
			Int("windows", len(windows)).
			Int("articles", len(articles)).
			Msg("Collection complete")
	}

	return articles, nil
}
