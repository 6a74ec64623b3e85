package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigFile_YAMLAndJSON(t *testing.T) {
	dir := t.TempDir()
	yml := filepath.Join(dir, "jobdesc.yaml")
	content := `mode: batch-all
db:
  driver: sqlite
  dsn: jobs.db
batch:
  threshold: 0
  limit: 50
  concurrency: 2
  source: lever
  dryRun: true
report:
  path: out/report.md
weights:
  buzzword: 5
  filler: 9
`
	if err := os.WriteFile(yml, []byte(content), 0o600); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	fc, err := LoadConfigFile(yml)
	if err != nil {
		t.Fatalf("LoadConfigFile yaml: %v", err)
	}
	if fc.Mode != "batch-all" || fc.DB.DSN != "jobs.db" || fc.Batch.Limit != 50 || !fc.Batch.DryRun {
		t.Fatalf("yaml parsed wrong: %+v", fc)
	}
	if fc.Batch.Threshold == nil || *fc.Batch.Threshold != 0 {
		t.Fatalf("explicit zero threshold lost: %v", fc.Batch.Threshold)
	}
	if fc.Weights == nil || fc.Weights.Buzzword != 5 || fc.Weights.Filler != 9 {
		t.Fatalf("weights: %+v", fc.Weights)
	}

	js := filepath.Join(dir, "jobdesc.json")
	if err := os.WriteFile(js, []byte(`{"mode":"scores","db":{"driver":"postgres","dsn":"postgres://x"}}`), 0o600); err != nil {
		t.Fatalf("write json: %v", err)
	}
	fc, err = LoadConfigFile(js)
	if err != nil {
		t.Fatalf("LoadConfigFile json: %v", err)
	}
	if fc.Mode != "scores" || fc.DB.Driver != "postgres" {
		t.Fatalf("json parsed wrong: %+v", fc)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"mode":`), 0o600); err != nil {
		t.Fatalf("write bad: %v", err)
	}
	if _, err := LoadConfigFile(bad); err == nil {
		t.Fatalf("expected parse error")
	}
}

// Flags beat env, env beats the config file, and defaults fill the rest.
func TestConfigPrecedence(t *testing.T) {
	t.Setenv("JOBDESC_DB_DSN", "env.db")
	t.Setenv("JOBDESC_DB_DRIVER", "")
	t.Setenv("JOBDESC_LIMIT", "")
	t.Setenv("JOBDESC_THRESHOLD", "")
	t.Setenv("JOBDESC_CONCURRENCY", "")
	t.Setenv("DATABASE_URL", "")

	var fc FileConfig
	fc.Mode = "batch-format"
	fc.DB.DSN = "file.db"
	fc.Batch.Limit = 7
	th := 55
	fc.Batch.Threshold = &th

	cfg := Config{Mode: ModeBatchHumanize, Threshold: ThresholdUnset}
	ApplyEnvToConfig(&cfg)
	ApplyFileConfig(&cfg, fc)
	ApplyDefaults(&cfg)

	if cfg.Mode != ModeBatchHumanize {
		t.Fatalf("flag mode lost: %q", cfg.Mode)
	}
	if cfg.DBDSN != "env.db" {
		t.Fatalf("env should beat file: %q", cfg.DBDSN)
	}
	if cfg.Limit != 7 || cfg.Threshold != 55 {
		t.Fatalf("file values missing: limit=%d threshold=%d", cfg.Limit, cfg.Threshold)
	}
	if cfg.DBDriver != DefaultDBDriver || cfg.Concurrency != DefaultConcurrency || cfg.InputPath != "-" {
		t.Fatalf("defaults missing: %+v", cfg)
	}
	if err := ValidateConfig(cfg); err != nil {
		t.Fatalf("ValidateConfig: %v", err)
	}
}

func TestApplyDefaults_Threshold(t *testing.T) {
	cfg := Config{Threshold: ThresholdUnset}
	ApplyDefaults(&cfg)
	if cfg.Threshold != 30 {
		t.Fatalf("default threshold %d", cfg.Threshold)
	}
	cfg = Config{Threshold: 0}
	ApplyDefaults(&cfg)
	if cfg.Threshold != 0 {
		t.Fatalf("explicit zero threshold replaced by %d", cfg.Threshold)
	}
}

// Stdin is the default input, so only an explicit path is checked.
func TestValidateConfig_DefaultInputIsStdin(t *testing.T) {
	cfg := Config{Threshold: ThresholdUnset}
	ApplyDefaults(&cfg)
	if cfg.InputPath != "-" {
		t.Fatalf("default input %q", cfg.InputPath)
	}
	if err := ValidateConfig(cfg); err != nil {
		t.Fatalf("ValidateConfig: %v", err)
	}
	in := filepath.Join(t.TempDir(), "posting.txt")
	if err := os.WriteFile(in, []byte("text"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg.InputPath = in
	if err := ValidateConfig(cfg); err != nil {
		t.Fatalf("existing input rejected: %v", err)
	}
}

func TestValidateConfig(t *testing.T) {
	ok := Config{Mode: ModeFormat, InputPath: "-", DBDriver: "sqlite", Threshold: 30}
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"unknown mode", func(c *Config) { c.Mode = "publish" }, true},
		{"store mode without dsn", func(c *Config) { c.Mode = ModeBatchAll }, true},
		{"store mode with dsn", func(c *Config) { c.Mode = ModeBatchAll; c.DBDSN = "x.db" }, false},
		{"threshold too high", func(c *Config) { c.Threshold = 101 }, true},
		{"negative limit", func(c *Config) { c.Limit = -1 }, true},
		{"pdf outside batch", func(c *Config) { c.ReportPDFPath = "r.pdf" }, true},
		{"missing input file", func(c *Config) { c.InputPath = "does-not-exist.html" }, true},
		{"missing ingest input", func(c *Config) { c.Mode = ModeIngest; c.DBDSN = "x.db"; c.InputPath = "no-such-dir" }, true},
		{"batch ignores input", func(c *Config) { c.Mode = ModeBatchAll; c.DBDSN = "x.db"; c.InputPath = "no-such-dir" }, false},
	}
	for _, tc := range cases {
		cfg := ok
		tc.mutate(&cfg)
		err := ValidateConfig(cfg)
		if (err != nil) != tc.wantErr {
			t.Fatalf("%s: err=%v wantErr=%t", tc.name, err, tc.wantErr)
		}
	}
}
