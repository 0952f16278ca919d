// -----------------------------------------------------------------------
// Query composition: one boolean query per candidate, expanded over the
// configured date range or carried with a relative timespan.
// -----------------------------------------------------------------------

package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/electionnews/internal/common"
	"github.com/ternarybob/electionnews/internal/models"
)

// dateRangeLayout is the accepted format of each side of the configured
// explicit range, e.g. "01-Sep-2024 - 03-Nov-2024".
const dateRangeLayout = "02-Jan-2006"

// BuildQuery renders the boolean query string for one candidate. Parts are
// joined with " AND " and the Doc API accepts no grouping parentheses, so
// each OR clause must stand on its own.
func BuildQuery(candidate string, cfg common.DocAPIConfig) string {
	parts := []string{fmt.Sprintf("%q", candidate)}

	if len(cfg.Keywords) > 0 {
		quoted := make([]string, 0, len(cfg.Keywords))
		for _, kw := range cfg.Keywords {
			quoted = append(quoted, fmt.Sprintf("%q", kw))
		}
		parts = append(parts, strings.Join(quoted, " OR "))
	}

	if len(cfg.DomainWhitelist) > 0 {
		sites := make([]string, 0, len(cfg.DomainWhitelist))
		for _, d := range cfg.DomainWhitelist {
			sites = append(sites, "site:"+d)
		}
		parts = append(parts, strings.Join(sites, " OR "))
	}

	if cfg.SourceCountry != "" {
		parts = append(parts, "sourcecountry:"+cfg.SourceCountry)
	}
	if cfg.SourceLang != "" {
		parts = append(parts, "sourcelang:"+cfg.SourceLang)
	}

	return strings.Join(parts, " AND ")
}

// ComposeWindows expands the configured candidates into fetch windows. With
// an explicit date range each candidate gets one window per calendar day
// (UTC, inclusive); otherwise every candidate gets a single window carrying
// the relative timespan. A range that fails to parse falls back to timespan
// mode with a warning rather than aborting the run.
func ComposeWindows(cfg common.DocAPIConfig, logger arbor.ILogger) []models.FetchWindow {
	var windows []models.FetchWindow

	start, end, err := parseDateRange(cfg.DateRange)
	explicit := cfg.DateRange != "" && err == nil
	if cfg.DateRange != "" && err != nil && logger != nil {
		logger.Warn().
			Str("date_range", cfg.DateRange).
			Err(err).
			Msg("Unparseable date range, falling back to timespan")
	}

	for _, candidate := range cfg.Candidates {
		query := BuildQuery(candidate, cfg)

		if !explicit {
			windows = append(windows, models.FetchWindow{
				Candidate: candidate,
				Query:     query,
				Timespan:  cfg.Timespan,
			})
			continue
		}

		for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
			dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
			dayEnd := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, time.UTC)
			windows = append(windows, models.FetchWindow{
				Candidate: candidate,
				Query:     query,
				Start:     &dayStart,
				End:       &dayEnd,
			})
		}
	}

	return windows
}

// parseDateRange splits a "start - end" range string and parses both sides.
// The separator is " - " with a bare "-" split accepted as a fallback.
func parseDateRange(raw string) (time.Time, time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("empty date range")
	}

	var startStr, endStr string
	if parts := strings.SplitN(raw, " - ", 2); len(parts) == 2 {
		startStr, endStr = parts[0], parts[1]
	} else if parts := strings.SplitN(raw, "-", 2); len(parts) == 2 {
		startStr, endStr = parts[0], parts[1]
	} else {
		return time.Time{}, time.Time{}, fmt.Errorf("date range %q has no separator", raw)
	}

	start, err := time.ParseInLocation(dateRangeLayout, strings.TrimSpace(startStr), time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid range start: %w", err)
	}
	end, err := time.ParseInLocation(dateRangeLayout, strings.TrimSpace(endStr), time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid range end: %w", err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("range end %s precedes start %s", endStr, startStr)
	}

	return start, end, nil
}
