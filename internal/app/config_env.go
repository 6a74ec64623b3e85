package app

import (
	"os"
	"strconv"
	"strings"
)

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.DBDriver == "" {
		cfg.DBDriver = os.Getenv("JOBDESC_DB_DRIVER")
	}
	if cfg.DBDSN == "" {
		// DATABASE_URL is the common name for a Postgres DSN
		v := os.Getenv("JOBDESC_DB_DSN")
		if v == "" {
			v = os.Getenv("DATABASE_URL")
		}
		cfg.DBDSN = v
	}
	if cfg.SourceFilter == "" {
		cfg.SourceFilter = os.Getenv("JOBDESC_SOURCE")
	}
	if cfg.ReportsDir == "" {
		cfg.ReportsDir = os.Getenv("JOBDESC_REPORTS_DIR")
	}

	setInt := func(dst *int, unset int, envKey string, min int) {
		if *dst != unset {
			return
		}
		if s := strings.TrimSpace(os.Getenv(envKey)); s != "" {
			if n, err := strconv.Atoi(s); err == nil && n >= min {
				*dst = n
			}
		}
	}
	setInt(&cfg.Threshold, ThresholdUnset, "JOBDESC_THRESHOLD", 0)
	setInt(&cfg.Limit, 0, "JOBDESC_LIMIT", 1)
	setInt(&cfg.Concurrency, 0, "JOBDESC_CONCURRENCY", 1)

	// Booleans
	setBool := func(dst *bool, envKey string) {
		if *dst {
			return
		}
		if s := strings.ToLower(strings.TrimSpace(os.Getenv(envKey))); s != "" {
			if s == "1" || s == "true" || s == "yes" || s == "on" {
				*dst = true
			}
		}
	}
	setBool(&cfg.DryRun, "DRY_RUN")
	setBool(&cfg.Force, "FORCE")
	setBool(&cfg.Verbose, "VERBOSE")
}
