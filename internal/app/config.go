package app

import (
	"io"

	"github.com/hyperifyio/jobdesc/internal/score"
)

// Run modes selectable with -mode.
const (
	ModeFormat        = "format"
	ModeScore         = "score"
	ModeHumanize      = "humanize"
	ModeIngest        = "ingest"
	ModeBatchFormat   = "batch-format"
	ModeBatchHumanize = "batch-humanize"
	ModeBatchAll      = "batch-all"
	ModeScores        = "scores"
)

// Config holds runtime configuration for the application.
type Config struct {
	Mode string
	// InputPath is a file, a directory (ingest only) or "-" for stdin.
	InputPath string
	// OutputPath receives ad hoc results; empty means stdout.
	OutputPath string
	JSON       bool

	// Store
	DBDriver string
	DBDSN    string

	// Batch
	Threshold    int
	Limit        int
	Concurrency  int
	SourceFilter string
	DryRun       bool
	Force        bool

	// Reporting
	ReportPath    string
	ReportPDFPath string
	ReportsDir    string

	// Weights overrides the scorer weights when set.
	Weights *score.Weights
	Verbose bool

	Stdin  io.Reader
	Stdout io.Writer
}

// Default values applied by ApplyDefaults.
const (
	DefaultDBDriver    = "sqlite"
	DefaultDBDSN       = "jobdesc.db"
	DefaultConcurrency = 4
)

// ThresholdUnset marks a threshold that no flag, env var or file provided.
const ThresholdUnset = -1

// ApplyDefaults fills whatever is still unset after flags, env and file.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeFormat
	}
	if cfg.InputPath == "" {
		cfg.InputPath = "-"
	}
	if cfg.DBDriver == "" {
		cfg.DBDriver = DefaultDBDriver
	}
	if cfg.DBDSN == "" && (cfg.DBDriver == "sqlite" || cfg.DBDriver == "sqlite3") {
		cfg.DBDSN = DefaultDBDSN
	}
	if cfg.Threshold < 0 {
		cfg.Threshold = 30
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
}

// usesStore reports whether mode reads or writes the document store.
func usesStore(mode string) bool {
	switch mode {
	case ModeIngest, ModeBatchFormat, ModeBatchHumanize, ModeBatchAll, ModeScores:
		return true
	}
	return false
}

func knownMode(mode string) bool {
	switch mode {
	case ModeFormat, ModeScore, ModeHumanize:
		return true
	}
	return usesStore(mode)
}
