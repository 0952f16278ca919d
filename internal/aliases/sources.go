package aliases

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/electionnews/internal/common"
)

// Recognized header names for the symbol and display-name columns, in
// priority order. A source missing either is skipped with a warning.
var (
	symbolColumns = []string{
		"ACT Symbol",
		"Symbol",
		"Ticker",
		"Trading Symbol",
		"NASDAQ Symbol",
		"CQS Symbol",
	}
	nameColumns = []string{"Company Name", "Security Name", "Name", "Company"}
)

// LoadSources refreshes and reads every configured reference source. A
// source that cannot be refreshed, read, or column-matched degrades to an
// empty row set with a warning; one source's failure never blocks the
// others.
func LoadSources(cfg common.AliasConfig, client *http.Client, logger arbor.ILogger) []SourceEntries {
	out := make([]SourceEntries, 0, len(cfg.Sources))
	for _, src := range cfg.Sources {
		path := src.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(cfg.DataDir, path)
		}

		EnsureFresh(client, src.URL, path, cfg.StaleAfter, logger)

		rows, err := ReadRows(path)
		if err != nil {
			if logger != nil {
				logger.Warn().
					Str("source", src.Name).
					Str("path", path).
					Err(err).
					Msg("Skipping unreadable reference source")
			}
			continue
		}
		out = append(out, SourceEntries{Name: src.Name, Rows: rows})
	}
	return out
}

// EnsureFresh downloads the source file when the local copy is absent or
// older than staleAfter. A failed refresh leaves the existing copy (stale or
// absent) in place; the caller proceeds with whatever is on disk.
func EnsureFresh(client *http.Client, url, path string, staleAfter time.Duration, logger arbor.ILogger) {
	if url == "" {
		return
	}

	if info, err := os.Stat(path); err == nil {
		if time.Since(info.ModTime()) <= staleAfter {
			return
		}
	}

	if err := download(client, url, path); err != nil {
		if logger != nil {
			logger.Warn().
				Str("url", url).
				Str("path", path).
				Err(err).
				Msg("Failed to refresh reference listing, keeping local copy")
		}
	}
}

func download(client *http.Client, url, path string) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// ReadRows parses a tabular reference file into (symbol, name) rows. The
// header row must expose one recognized symbol column and one recognized
// name column; rows with an empty symbol or name are skipped.
func ReadRows(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	symbolIdx := findColumn(header, symbolColumns)
	nameIdx := findColumn(header, nameColumns)
	if symbolIdx < 0 || nameIdx < 0 {
		return nil, fmt.Errorf("missing expected columns, found: %v", header)
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed row: skip it, keep the rest of the file
			continue
		}
		if symbolIdx >= len(record) || nameIdx >= len(record) {
			continue
		}
		symbol := strings.TrimSpace(record[symbolIdx])
		name := strings.TrimSpace(record[nameIdx])
		if symbol == "" || name == "" {
			continue
		}
		rows = append(rows, Row{Symbol: symbol, Name: name})
	}
	return rows, nil
}

// findColumn returns the index of the first candidate column present in the
// header, respecting candidate priority order.
func findColumn(header []string, candidates []string) int {
	for _, want := range candidates {
		for i, col := range header {
			if strings.TrimSpace(col) == want {
				return i
			}
		}
	}
	return -1
}
