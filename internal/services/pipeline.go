package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/electionnews/internal/aliases"
	"github.com/ternarybob/electionnews/internal/common"
	"github.com/ternarybob/electionnews/internal/gdelt"
	"github.com/ternarybob/electionnews/internal/httpclient"
	"github.com/ternarybob/electionnews/internal/models"
)

// Terminal run states. Both are clean outcomes, not failures: a quiet news
// window legitimately produces nothing.
var (
	ErrNoArticles = errors.New("no articles collected for any window")
	ErrNoMentions = errors.New("no ticker mentions found in collected articles")
)

// IndexLoader produces the ticker alias index a run matches against.
type IndexLoader func(ctx context.Context) (*aliases.Index, error)

// RunResult describes one completed run.
type RunResult struct {
	Meta      models.RunMetadata
	Articles  int
	Mentions  int
	Summaries []models.CandidateSummary
}

// Pipeline executes the full collection run: build the alias index, compose
// and fetch windows, aggregate mentions, summarize, and persist.
type Pipeline struct {
	cfg        *common.Config
	loadIndex  IndexLoader
	search     SearchClient
	fetcher    BodyFetcher
	classifier SentimentClassifier
	writer     *Writer
	logger     arbor.ILogger
}

// NewPipeline assembles a pipeline from explicit collaborators.
func NewPipeline(cfg *common.Config, loadIndex IndexLoader, search SearchClient, fetcher BodyFetcher, classifier SentimentClassifier, writer *Writer, logger arbor.ILogger) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		loadIndex:  loadIndex,
		search:     search,
		fetcher:    fetcher,
		classifier: classifier,
		writer:     writer,
		logger:     logger,
	}
}

// NewDefaultPipeline wires the production collaborators from configuration.
func NewDefaultPipeline(cfg *common.Config, logger arbor.ILogger) (*Pipeline, error) {
	search := gdelt.NewClient(
		gdelt.WithLogger(logger),
		gdelt.WithHTTPClient(httpclient.NewDefaultHTTPClient(cfg.DocAPI.RequestTimeout)),
	)

	fetcher := NewHTTPBodyFetcher(cfg.Crawler, logger)

	var classifier SentimentClassifier
	if cfg.Sentiment.Enabled {
		c, err := NewClaudeClassifier(cfg.Sentiment, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize sentiment classifier: %w", err)
		}
		classifier = c
	}

	loadIndex := func(ctx context.Context) (*aliases.Index, error) {
		client := httpclient.NewDefaultHTTPClient(cfg.DocAPI.RequestTimeout)
		sources := aliases.LoadSources(cfg.Aliases, client, logger)
		idx := aliases.BuildIndex(sources, aliases.BuildOptions{
			MinAliasLength:  cfg.Aliases.MinAliasLength,
			GenericSuffixes: cfg.Aliases.GenericSuffixes,
			Extra:           cfg.Aliases.Extra,
			ExcludeSymbols:  cfg.Aliases.ExcludeSymbols,
		}, logger)
		if idx.Len() == 0 {
			return nil, fmt.Errorf("alias index is empty, no reference source could be loaded")
		}
		return idx, nil
	}

	return NewPipeline(cfg, loadIndex, search, fetcher, classifier, NewWriter(cfg.Output, logger), logger), nil
}

// Run executes one complete collection run. ErrNoArticles and ErrNoMentions
// report empty terminal states; callers treat them as clean exits.
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	started := time.Now()
	meta := NewRunMetadata(p.cfg.DocAPI, started)

	if p.logger != nil {
		p.logger.Info().
			Str("run_id", meta.RunID).
			Str("subtitle", meta.Subtitle).
			Msg("Run started")
	}

	index, err := p.loadIndex(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build alias index: %w", err)
	}
	if p.logger != nil {
		p.logger.Info().Int("symbols", index.Len()).Msg("Alias index ready")
	}

	windows := ComposeWindows(p.cfg.DocAPI, p.logger)
	if len(windows) == 0 {
		return nil, fmt.Errorf("no fetch windows composed, check candidate configuration")
	}

	collector := NewCollector(p.search, p.cfg.DocAPI.MaxRecords, p.logger)
	articles, err := collector.Collect(ctx, windows)
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		return &RunResult{Meta: meta}, ErrNoArticles
	}

	aggregator := NewAggregator(index, p.cfg.DocAPI.Candidates, p.fetcher, p.classifier, aliases.DefaultMaxHits, p.logger)
	records, err := aggregator.Aggregate(ctx, articles)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &RunResult{Meta: meta, Articles: len(articles)}, ErrNoMentions
	}

	summaries := Summarize(records, p.cfg.Output.TopMentions)

	if err := p.writer.WriteRun(records, summaries); err != nil {
		return nil, err
	}
	if err := p.writer.AppendHistory(meta, summaries); err != nil {
		return nil, err
	}

	result := &RunResult{
		Meta:      meta,
		Articles:  len(articles),
		Mentions:  len(records),
		Summaries: summaries,
	}

	if p.logger != nil {
		p.logger.Info().
			Str("run_id", meta.RunID).
			Int("articles", result.Articles).
			Int("mentions", result.Mentions).
			Str("duration", time.Since(started).Round(time.Millisecond).String()).
			Msg("Run complete")
	}

	return result, nil
}
