package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/electionnews/internal/common"
	"github.com/ternarybob/electionnews/internal/services"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles  configPaths
	timespan     = flag.String("timespan", "", "Relative collection timespan (overrides config, e.g., \"1d\", \"3d\")")
	dateRange    = flag.String("range", "", "Explicit date range (overrides config, e.g., \"01-Sep-2024 - 03-Nov-2024\")")
	runOnce      = flag.Bool("once", false, "Run a single collection pass even when a schedule is configured")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")

	config *common.Config
	logger arbor.ILogger
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Printf("ElectionNews version %s\n", common.GetFullVersion())
		os.Exit(0)
	}

	// Startup sequence (REQUIRED ORDER):
	// 1. Load config (defaults -> file1 -> file2 -> ... -> env)
	// 2. Apply CLI overrides (highest priority)
	// 3. Initialize logger
	// 4. Print banner
	var err error

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, statErr := os.Stat("electionnews.toml"); statErr == nil {
			configFiles = append(configFiles, "electionnews.toml")
		} else if _, statErr := os.Stat("deployments/local/electionnews.toml"); statErr == nil {
			configFiles = append(configFiles, "deployments/local/electionnews.toml")
		}
	}

	config, err = common.LoadFromFiles(configFiles...)
	if err != nil {
		arbor.NewLogger().Fatal().Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	if *timespan != "" {
		config.DocAPI.Timespan = *timespan
	}
	if *dateRange != "" {
		config.DocAPI.DateRange = *dateRange
	}

	if err = config.Validate(); err != nil {
		arbor.NewLogger().Fatal().Err(err).Msg("Configuration is not usable")
		os.Exit(1)
	}

	logger = common.InitLogger(config)
	common.PrintBanner(common.GetVersion())

	logger.Debug().
		Int("candidates", len(config.DocAPI.Candidates)).
		Str("timespan", config.DocAPI.Timespan).
		Str("date_range", config.DocAPI.DateRange).
		Str("log_level", config.Logging.Level).
		Msg("Configuration resolved")

	pipeline, err := services.NewDefaultPipeline(config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to assemble pipeline")
		os.Exit(1)
	}

	if config.Schedule.Enabled && !*runOnce {
		runScheduled(pipeline)
		return
	}

	runSingle(pipeline)
}

// runSingle executes one collection pass. Empty terminal states are clean
// exits, not failures.
func runSingle(pipeline *services.Pipeline) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := pipeline.Run(ctx)
	switch {
	case err == nil:
		logger.Info().
			Int("mentions", result.Mentions).
			Int("candidates", len(result.Summaries)).
			Msg("Collection run finished")
	case errors.Is(err, services.ErrNoArticles), errors.Is(err, services.ErrNoMentions):
		logger.Info().Err(err).Msg("Collection run finished with nothing to report")
	default:
		logger.Error().Err(err).Msg("Collection run failed")
		os.Exit(1)
	}
}

// runScheduled starts the cron scheduler and blocks until interrupted.
func runScheduled(pipeline *services.Pipeline) {
	scheduler, err := services.NewScheduler(pipeline, config.Schedule.Cron, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to start scheduler")
		os.Exit(1)
	}

	scheduler.Start()
	logger.Info().Str("cron", config.Schedule.Cron).Msg("Running on schedule, Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	scheduler.Stop()
}
