package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	DocAPI    DocAPIConfig    `toml:"docapi" validate:"required"`
	Aliases   AliasConfig     `toml:"aliases"`
	Crawler   CrawlerConfig   `toml:"crawler"`
	Output    OutputConfig    `toml:"output"`
	Sentiment SentimentConfig `toml:"sentiment"`
	Schedule  ScheduleConfig  `toml:"schedule"`
	Logging   LoggingConfig   `toml:"logging"`
}

// DocAPIConfig contains the GDELT Doc API collection parameters
type DocAPIConfig struct {
	Candidates      []string      `toml:"candidates" validate:"required,min=1"` // Candidate names to query, one window set per candidate
	Keywords        []string      `toml:"keywords"`                             // OR-joined keyword clause, omitted when empty
	DomainWhitelist []string      `toml:"domain_whitelist"`                     // OR-joined site: restriction clause, omitted when empty
	MaxRecords      int           `toml:"maxrecords" validate:"min=1,max=250"`  // Max articles per window (Doc API cap is 250)
	Timespan        string        `toml:"timespan"`                             // Relative timespan token (e.g., "1d", "3d") used when no explicit range
	DateRange       string        `toml:"date_range"`                           // Explicit range "01-Sep-2024 - 03-Nov-2024"; expands to day windows
	SourceLang      string        `toml:"source_lang"`                          // sourcelang: filter term, omitted when empty
	SourceCountry   string        `toml:"source_country"`                       // sourcecountry: filter term, omitted when empty
	RequestTimeout  time.Duration `toml:"request_timeout"`                      // Per-search-call timeout
}

// AliasConfig controls how the ticker alias index is built.
// The suffix and exclusion lists are configuration data, not logic: they are
// ad hoc false-positive patches carried over as-is.
type AliasConfig struct {
	DataDir         string              `toml:"data_dir"`         // Directory for cached reference listings
	StaleAfter      time.Duration       `toml:"stale_after"`      // Refresh a source when its local copy is older than this
	MinAliasLength  int                 `toml:"min_alias_length"` // Aliases shorter than this are discarded
	Sources         []AliasSourceConfig `toml:"sources"`          // Tabular reference sources (symbol + display name columns)
	GenericSuffixes []string            `toml:"generic_suffixes"` // Corporate-form tokens removed from the suffix-stripped alias variant
	ExcludeSymbols  []string            `toml:"exclude_symbols"`  // Symbols removed after merge (common-English-word names)
	Extra           map[string][]string `toml:"extra"`            // Supplementary entries (e.g., crypto), merged verbatim
}

// AliasSourceConfig describes one downloadable tabular reference source
type AliasSourceConfig struct {
	Name string `toml:"name"`
	URL  string `toml:"url"`
	Path string `toml:"path"` // Local cache path, relative to data_dir unless absolute
}

// CrawlerConfig contains article body fetch configuration
type CrawlerConfig struct {
	UserAgent      string        `toml:"user_agent"`
	RequestTimeout time.Duration `toml:"request_timeout"`
	MaxBodySize    int           `toml:"max_body_size"` // Maximum response body size in bytes
	MaxTextLength  int           `toml:"max_text_length"`
}

// OutputConfig contains the run output locations
type OutputConfig struct {
	DataDir     string `toml:"data_dir"`
	RawFile     string `toml:"raw_file"`     // One row per mention record, rewritten each run
	SummaryFile string `toml:"summary_file"` // One row per candidate summary, rewritten each run
	HistoryFile string `toml:"history_file"` // Append-only, header written once
	TopMentions int    `toml:"top_mentions"` // Rank-ordered mention rendering cap
}

// SentimentConfig contains the optional Claude-backed sentence classifier
type SentimentConfig struct {
	Enabled   bool   `toml:"enabled"`
	APIKey    string `toml:"api_key"`
	Model     string `toml:"model"`
	Timeout   string `toml:"timeout"`
	MaxTokens int    `toml:"max_tokens"`
}

// ScheduleConfig contains the optional recurring-run schedule
type ScheduleConfig struct {
	Enabled bool   `toml:"enabled"`
	Cron    string `toml:"cron"` // Standard 5-field cron expression
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs (default: "15:04:05")
}

// NewDefaultConfig creates a configuration with default values.
// The alias source list, suffix list, exclusion list, and extra entries
// default to the values the matcher was tuned against.
func NewDefaultConfig() *Config {
	return &Config{
		DocAPI: DocAPIConfig{
			Candidates:     []string{},
			Keywords:       []string{},
			MaxRecords:     75,
			Timespan:       "1d",
			RequestTimeout: 20 * time.Second,
		},
		Aliases: AliasConfig{
			DataDir:        "./data",
			StaleAfter:     24 * time.Hour,
			MinAliasLength: 4,
			Sources: []AliasSourceConfig{
				{
					Name: "nasdaq",
					URL:  "https://datahub.io/core/nasdaq-listings/r/nasdaq-listed.csv",
					Path: "nasdaq-listed.csv",
				},
				{
					Name: "nyse",
					URL:  "https://datahub.io/core/nyse-other-listings/r/nyse-listed.csv",
					Path: "nyse-listed.csv",
				},
			},
			GenericSuffixes: []string{
				"inc", "inc.", "incorporated", "corp", "corp.", "corporation",
				"co", "co.", "company", "ltd", "ltd.", "limited", "plc", "sa", "nv",
				"group", "holdings", "holding", "ag", "spa", "llc",
				"common", "stock", "shares", "class",
			},
			ExcludeSymbols: []string{"MTCH", "NDAQ", "ROOT", "POST", "TISI"},
			Extra: map[string][]string{
				"Bitcoin":  {"bitcoin"},
				"Ethereum": {"ethereum", "ether"},
				"Ripple":   {"ripple"},
			},
		},
		Crawler: CrawlerConfig{
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			RequestTimeout: 10 * time.Second,
			MaxBodySize:    2 * 1024 * 1024, // 2MB
			MaxTextLength:  4000,
		},
		Output: OutputConfig{
			DataDir:     "./data",
			RawFile:     "raw_articles.csv",
			SummaryFile: "summary.csv",
			HistoryFile: "history.csv",
			TopMentions: 5,
		},
		Sentiment: SentimentConfig{
			Enabled:   false,
			Model:     "claude-haiku-3-5-20241022",
			Timeout:   "30s",
			MaxTokens: 16,
		},
		Schedule: ScheduleConfig{
			Enabled: false,
			Cron:    "0 6 * * *", // Daily at 06:00
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05",
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority:
// default -> file1 -> file2 -> ... -> env. Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// Validate checks that the loaded configuration is usable.
// An unusable configuration is the one hard-fatal condition in the system.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	for _, cand := range c.DocAPI.Candidates {
		if strings.TrimSpace(cand) == "" {
			return fmt.Errorf("invalid configuration: empty candidate name")
		}
	}
	if c.Sentiment.Enabled && c.Sentiment.APIKey == "" {
		return fmt.Errorf("invalid configuration: sentiment enabled but no API key (set ANTHROPIC_API_KEY or sentiment.api_key)")
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if timespan := os.Getenv("ELECTIONNEWS_TIMESPAN"); timespan != "" {
		config.DocAPI.Timespan = timespan
	}
	if dateRange := os.Getenv("ELECTIONNEWS_DATE_RANGE"); dateRange != "" {
		config.DocAPI.DateRange = dateRange
	}
	if maxRecords := os.Getenv("ELECTIONNEWS_MAXRECORDS"); maxRecords != "" {
		if mr, err := strconv.Atoi(maxRecords); err == nil {
			config.DocAPI.MaxRecords = mr
		}
	}

	if dataDir := os.Getenv("ELECTIONNEWS_DATA_DIR"); dataDir != "" {
		config.Output.DataDir = dataDir
		config.Aliases.DataDir = dataDir
	}

	if level := os.Getenv("ELECTIONNEWS_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("ELECTIONNEWS_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Sentiment API key: ANTHROPIC_API_KEY is the standard name, the
	// ELECTIONNEWS_ prefix takes priority
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.Sentiment.APIKey = apiKey
	}
	if apiKey := os.Getenv("ELECTIONNEWS_SENTIMENT_API_KEY"); apiKey != "" {
		config.Sentiment.APIKey = apiKey
	}

	if enabled := os.Getenv("ELECTIONNEWS_SCHEDULE_ENABLED"); enabled != "" {
		if e, err := strconv.ParseBool(enabled); err == nil {
			config.Schedule.Enabled = e
		}
	}
	if cronExpr := os.Getenv("ELECTIONNEWS_SCHEDULE_CRON"); cronExpr != "" {
		config.Schedule.Cron = cronExpr
	}
}
