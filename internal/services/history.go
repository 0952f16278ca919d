package services

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/electionnews/internal/common"
	"github.com/ternarybob/electionnews/internal/models"
)

// listSeparator joins multi-valued fields inside a single CSV cell.
const listSeparator = "|"

var rawHeader = []string{
	"candidate", "title", "summary", "sentence", "tickers",
	"link", "published", "sentiment",
}

var summaryHeader = []string{
	"candidate", "top_mentions", "total_mentions",
	"positive_top", "negative_top", "total_positive", "total_negative",
}

var historyHeader = []string{
	"run_id", "run_at_utc", "subtitle", "date_range", "timespan",
	"keywords", "domains", "source_lang", "source_country",
	"candidate", "top_mentions", "total_mentions",
	"positive_top", "negative_top", "total_positive", "total_negative",
}

// Writer persists run outputs as flat CSV files: per-run raw and summary
// files rewritten each run, plus an append-only history file.
type Writer struct {
	cfg    common.OutputConfig
	logger arbor.ILogger
}

// NewWriter creates a writer over the configured output directory.
func NewWriter(cfg common.OutputConfig, logger arbor.ILogger) *Writer {
	return &Writer{cfg: cfg, logger: logger}
}

// NewRunMetadata captures the parameters of a run, stamped with a fresh
// run ID and the given wall time.
func NewRunMetadata(cfg common.DocAPIConfig, now time.Time) models.RunMetadata {
	return models.RunMetadata{
		RunID:         uuid.New().String(),
		RunAtUTC:      now.UTC(),
		DateRange:     cfg.DateRange,
		Timespan:      cfg.Timespan,
		Keywords:      cfg.Keywords,
		Domains:       cfg.DomainWhitelist,
		SourceLang:    cfg.SourceLang,
		SourceCountry: cfg.SourceCountry,
		Subtitle:      buildSubtitle(cfg, now.UTC()),
	}
}

// buildSubtitle renders the human-readable run description: year, the
// candidate pairing, and the effective window. The year comes from the
// explicit range start when one is configured and parseable.
func buildSubtitle(cfg common.DocAPIConfig, now time.Time) string {
	pairing := strings.Join(cfg.Candidates, ", ")
	if len(cfg.Candidates) == 2 {
		pairing = cfg.Candidates[0] + " vs " + cfg.Candidates[1]
	}

	year := now.Year()
	window := "last " + cfg.Timespan
	if cfg.DateRange != "" {
		window = cfg.DateRange
		if start, _, err := parseDateRange(cfg.DateRange); err == nil {
			year = start.Year()
		}
	}

	return fmt.Sprintf("%d: %s (%s)", year, pairing, window)
}

// WriteRun rewrites the per-run raw and summary files. Existing contents
// are replaced; only the history file accumulates across runs.
func (w *Writer) WriteRun(records []models.MentionRecord, summaries []models.CandidateSummary) error {
	if err := os.MkdirAll(w.cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	rawPath := filepath.Join(w.cfg.DataDir, w.cfg.RawFile)
	rawRows := make([][]string, 0, len(records))
	for _, r := range records {
		rawRows = append(rawRows, []string{
			r.Candidate,
			r.Title,
			r.Summary,
			r.Sentence,
			strings.Join(r.Tickers, listSeparator),
			r.Link,
			formatPublished(r.Published),
			r.Sentiment,
		})
	}
	if err := writeCSV(rawPath, rawHeader, rawRows); err != nil {
		return fmt.Errorf("failed to write raw file: %w", err)
	}

	summaryPath := filepath.Join(w.cfg.DataDir, w.cfg.SummaryFile)
	summaryRows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		summaryRows = append(summaryRows, summaryCells(s))
	}
	if err := writeCSV(summaryPath, summaryHeader, summaryRows); err != nil {
		return fmt.Errorf("failed to write summary file: %w", err)
	}

	if w.logger != nil {
		w.logger.Info().
			Str("raw", rawPath).
			Int("records", len(records)).
			Str("summary", summaryPath).
			Int("candidates", len(summaries)).
			Msg("Run output written")
	}

	return nil
}

// AppendHistory appends one row per candidate summary to the history file.
// The header is written only when the file is new or empty; existing rows
// are never touched.
func (w *Writer) AppendHistory(meta models.RunMetadata, summaries []models.CandidateSummary) error {
	if err := os.MkdirAll(w.cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(w.cfg.DataDir, w.cfg.HistoryFile)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open history file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat history file: %w", err)
	}

	cw := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := cw.Write(historyHeader); err != nil {
			return fmt.Errorf("failed to write history header: %w", err)
		}
	}

	for _, s := range summaries {
		row := []string{
			meta.RunID,
			meta.RunAtUTC.Format(time.RFC3339),
			meta.Subtitle,
			meta.DateRange,
			meta.Timespan,
			strings.Join(meta.Keywords, listSeparator),
			strings.Join(meta.Domains, listSeparator),
			meta.SourceLang,
			meta.SourceCountry,
		}
		row = append(row, summaryCells(s)...)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to append history row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush history file: %w", err)
	}

	if w.logger != nil {
		w.logger.Info().
			Str("history", path).
			Str("run_id", meta.RunID).
			Int("rows", len(summaries)).
			Msg("History appended")
	}

	return nil
}

func summaryCells(s models.CandidateSummary) []string {
	return []string{
		s.Candidate,
		s.TopMentions,
		strconv.Itoa(s.TotalMentions),
		s.PositiveTop,
		s.NegativeTop,
		strconv.Itoa(s.TotalPositive),
		strconv.Itoa(s.TotalNegative),
	}
}

func formatPublished(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// writeCSV rewrites path with a header row plus the given rows.
func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
