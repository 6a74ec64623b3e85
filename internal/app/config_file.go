package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/jobdesc/internal/score"
)

// FileConfig represents the single-file configuration schema.
type FileConfig struct {
	Mode   string `yaml:"mode" json:"mode"`
	Input  string `yaml:"input" json:"input"`
	Output string `yaml:"output" json:"output"`

	DB struct {
		Driver string `yaml:"driver" json:"driver"`
		DSN    string `yaml:"dsn" json:"dsn"`
	} `yaml:"db" json:"db"`

	Batch struct {
		Threshold   *int   `yaml:"threshold" json:"threshold"`
		Limit       int    `yaml:"limit" json:"limit"`
		Concurrency int    `yaml:"concurrency" json:"concurrency"`
		Source      string `yaml:"source" json:"source"`
		DryRun      bool   `yaml:"dryRun" json:"dryRun"`
		Force       bool   `yaml:"force" json:"force"`
	} `yaml:"batch" json:"batch"`

	Report struct {
		Path string `yaml:"path" json:"path"`
		PDF  string `yaml:"pdf" json:"pdf"`
		Dir  string `yaml:"dir" json:"dir"`
	} `yaml:"report" json:"report"`

	// Weights tunes the AI-likelihood scorer.
	Weights *score.Weights `yaml:"weights" json:"weights"`
	Verbose bool           `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	// Weights omitted from the file keep their defaults.
	w := score.DefaultWeights
	fc.Weights = &w
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any fields that
// are still unset after flags and env.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if cfg.Mode == "" && fc.Mode != "" {
		cfg.Mode = fc.Mode
	}
	if cfg.InputPath == "" && fc.Input != "" {
		cfg.InputPath = fc.Input
	}
	if cfg.OutputPath == "" && fc.Output != "" {
		cfg.OutputPath = fc.Output
	}

	if cfg.DBDriver == "" && fc.DB.Driver != "" {
		cfg.DBDriver = fc.DB.Driver
	}
	if cfg.DBDSN == "" && fc.DB.DSN != "" {
		cfg.DBDSN = fc.DB.DSN
	}

	if cfg.Threshold == ThresholdUnset && fc.Batch.Threshold != nil {
		cfg.Threshold = *fc.Batch.Threshold
	}
	if cfg.Limit == 0 && fc.Batch.Limit > 0 {
		cfg.Limit = fc.Batch.Limit
	}
	if cfg.Concurrency == 0 && fc.Batch.Concurrency > 0 {
		cfg.Concurrency = fc.Batch.Concurrency
	}
	if cfg.SourceFilter == "" && fc.Batch.Source != "" {
		cfg.SourceFilter = fc.Batch.Source
	}
	if !cfg.DryRun && fc.Batch.DryRun {
		cfg.DryRun = true
	}
	if !cfg.Force && fc.Batch.Force {
		cfg.Force = true
	}

	if cfg.ReportPath == "" && fc.Report.Path != "" {
		cfg.ReportPath = fc.Report.Path
	}
	if cfg.ReportPDFPath == "" && fc.Report.PDF != "" {
		cfg.ReportPDFPath = fc.Report.PDF
	}
	if cfg.ReportsDir == "" && fc.Report.Dir != "" {
		cfg.ReportsDir = fc.Report.Dir
	}

	if cfg.Weights == nil && fc.Weights != nil {
		w := *fc.Weights
		cfg.Weights = &w
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}

// ValidateConfig performs minimal schema validation for required settings.
func ValidateConfig(cfg Config) error {
	if !knownMode(cfg.Mode) {
		return fmt.Errorf("config: unknown mode %q", cfg.Mode)
	}
	if in := strings.TrimSpace(cfg.InputPath); in != "" && in != "-" && readsInput(cfg.Mode) {
		if _, err := os.Stat(in); err != nil {
			return fmt.Errorf("config: input: %w", err)
		}
	}
	if usesStore(cfg.Mode) && strings.TrimSpace(cfg.DBDSN) == "" {
		return errors.New("config: db.dsn is required (or set JOBDESC_DB_DSN)")
	}
	if cfg.Threshold > score.MaxScore {
		return fmt.Errorf("config: threshold %d above %d", cfg.Threshold, score.MaxScore)
	}
	if cfg.Limit < 0 || cfg.Concurrency < 0 {
		return errors.New("config: negative limits are not allowed")
	}
	if cfg.ReportPDFPath != "" && !isBatchMode(cfg.Mode) {
		return errors.New("config: -report.pdf needs a batch mode")
	}
	return nil
}

// readsInput reports whether mode reads -input (a file, directory or stdin).
func readsInput(mode string) bool {
	return !usesStore(mode) || mode == ModeIngest
}

func isBatchMode(mode string) bool {
	return mode == ModeBatchFormat || mode == ModeBatchHumanize || mode == ModeBatchAll
}
