package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/jobdesc/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		mode         string
		inputPath    string
		outputPath   string
		asJSON       bool
		dbDriver     string
		dbDSN        string
		threshold    int
		limit        int
		concurrency  int
		source       string
		dryRun       bool
		force        bool
		reportPath   string
		reportPDF    string
		reportsDir   string
		configPath   string
		envFiles     string
		verbose      bool
		printVersion bool
	)

	flag.StringVar(&mode, "mode", "", "format | score | humanize | ingest | batch-format | batch-humanize | batch-all | scores (default format)")
	flag.StringVar(&inputPath, "input", "", "Input file, ingest directory, or - for stdin")
	flag.StringVar(&outputPath, "output", "", "Write ad hoc results to this file instead of stdout")
	flag.BoolVar(&asJSON, "json", false, "Print results as JSON")
	flag.StringVar(&dbDriver, "db.driver", "", "Store driver: sqlite or postgres (default sqlite)")
	flag.StringVar(&dbDSN, "db.dsn", "", "SQLite file path or PostgreSQL connection string")
	flag.IntVar(&threshold, "threshold", app.ThresholdUnset, "AI score at or above which text is humanized (default 30)")
	flag.IntVar(&limit, "limit", 0, "Maximum documents per batch (0 = all)")
	flag.IntVar(&concurrency, "concurrency", 0, "Documents processed in parallel (default 4)")
	flag.StringVar(&source, "source", "", "Only process documents from this source; ingest tags new documents with it")
	flag.BoolVar(&dryRun, "dry-run", false, "Compute and report changes without writing them")
	flag.BoolVar(&force, "force", false, "Reformat documents even when they already look formatted")
	flag.StringVar(&reportPath, "report", "", "Write a Markdown run report (plus FILE.manifest.json)")
	flag.StringVar(&reportPDF, "report.pdf", "", "Also render the run report as PDF")
	flag.StringVar(&reportsDir, "reports.dir", "", "Directory for run reports with derived file names")
	flag.StringVar(&configPath, "config", os.Getenv("JOBDESC_CONFIG"), "YAML or JSON config file")
	flag.StringVar(&envFiles, "env", ".env", "Comma-separated dotenv files; later files override earlier ones")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.BoolVar(&printVersion, "version", false, "Print version and exit")
	flag.Parse()

	if printVersion {
		fmt.Printf("jobdesc %s (%s, %s)\n", app.BuildVersion, app.BuildCommit, app.BuildDate)
		return
	}

	if err := app.LoadEnvFiles(strings.Split(envFiles, ",")...); err != nil {
		log.Error().Err(err).Msg("load env files")
		os.Exit(1)
	}

	cfg := app.Config{
		Mode:          mode,
		InputPath:     inputPath,
		OutputPath:    outputPath,
		JSON:          asJSON,
		DBDriver:      dbDriver,
		DBDSN:         dbDSN,
		Threshold:     threshold,
		Limit:         limit,
		Concurrency:   concurrency,
		SourceFilter:  source,
		DryRun:        dryRun,
		Force:         force,
		ReportPath:    reportPath,
		ReportPDFPath: reportPDF,
		ReportsDir:    reportsDir,
		Verbose:       verbose,
	}
	if err := resolveConfig(&cfg, configPath); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(1)
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		stop()
		os.Exit(exitCode(err))
	}
}

// resolveConfig layers env and the optional config file under the flag
// values already in cfg, fills defaults and validates the result.
func resolveConfig(cfg *app.Config, configPath string) error {
	app.ApplyEnvToConfig(cfg)
	if strings.TrimSpace(configPath) != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		app.ApplyFileConfig(cfg, fc)
	}
	app.ApplyDefaults(cfg)
	return app.ValidateConfig(*cfg)
}

// exitCode maps run errors to the exit code policy: 2 when every processed
// document failed, 1 for configuration, input or store errors.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, app.ErrAllFailed) {
		return 2
	}
	return 1
}

func run(ctx context.Context, cfg app.Config) error {
	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()

	log.Debug().Str("run_id", a.RunID()).Str("mode", cfg.Mode).Msg("start")
	return a.Run(ctx)
}
