package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperifyio/jobdesc/internal/pipeline"
	"github.com/hyperifyio/jobdesc/internal/store"
)

const buzzyPosting = "We leverage modern tools to utilize cloud services. " +
	"We leverage modern tools to utilize cloud services because we are passionate and delve into problems. " +
	"We are passionate about quality and delve deep into data. " +
	"Our team will leverage and utilize every skill we are passionate about as we delve further. " +
	"You will delve, leverage, utilize and stay passionate."

func runApp(t *testing.T, cfg Config) error {
	t.Helper()
	if cfg.Threshold == 0 {
		cfg.Threshold = ThresholdUnset
	}
	ApplyDefaults(&cfg)
	if err := ValidateConfig(cfg); err != nil {
		t.Fatalf("ValidateConfig: %v", err)
	}
	ctx := context.Background()
	a, err := New(ctx, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()
	return a.Run(ctx)
}

func TestRun_FormatFromStdin(t *testing.T) {
	var out bytes.Buffer
	err := runApp(t, Config{
		Mode:   ModeFormat,
		Stdin:  strings.NewReader("<p>We are looking for a <b>Rust</b> engineer.</p><p>Apply now!</p>"),
		Stdout: &out,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := out.String(); got != "We are looking for a Rust engineer.\n" {
		t.Fatalf("stdout %q", got)
	}
}

func TestRun_FormatJSON(t *testing.T) {
	var out bytes.Buffer
	err := runApp(t, Config{
		Mode:   ModeFormat,
		JSON:   true,
		Stdin:  strings.NewReader("Requirements:\n- Go\n- PostgreSQL\n- Docker"),
		Stdout: &out,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var f pipeline.Formatted
	if err := json.Unmarshal(out.Bytes(), &f); err != nil {
		t.Fatalf("decode: %v\n%s", err, out.String())
	}
	if !f.Metadata.HasStructuredSections || f.RawDescription == nil {
		t.Fatalf("formatted %+v", f)
	}
	if !strings.HasPrefix(f.FormattedText, "## Requirements\n\n- Go") {
		t.Fatalf("formatted text %q", f.FormattedText)
	}
}

func TestRun_FormatRejectsBinary(t *testing.T) {
	err := runApp(t, Config{Mode: ModeFormat, Stdin: strings.NewReader("\x00\x01\x02"), Stdout: &bytes.Buffer{}})
	if !errors.Is(err, pipeline.ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
}

func TestRun_ScoreAndHumanizeFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "posting.txt")
	if err := os.WriteFile(in, []byte(buzzyPosting), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	var out bytes.Buffer
	if err := runApp(t, Config{Mode: ModeScore, InputPath: in, Stdout: &out}); err != nil {
		t.Fatalf("score: %v", err)
	}
	if !strings.HasPrefix(out.String(), "ai_score: ") || !strings.Contains(out.String(), "buzzword") {
		t.Fatalf("score output %q", out.String())
	}

	outPath := filepath.Join(dir, "humanized.txt")
	if err := runApp(t, Config{Mode: ModeHumanize, InputPath: in, OutputPath: outPath}); err != nil {
		t.Fatalf("humanize: %v", err)
	}
	b, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if strings.Contains(strings.ToLower(string(b)), "leverage") {
		t.Fatalf("humanized output still has buzzwords: %q", b)
	}

	out.Reset()
	if err := runApp(t, Config{Mode: ModeHumanize, InputPath: in, JSON: true, Stdout: &out}); err != nil {
		t.Fatalf("humanize json: %v", err)
	}
	var res humanizeResult
	if err := json.Unmarshal(out.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.State != pipeline.StateHumanized || res.ScoreAfter >= res.Score || len(res.Hits) == 0 {
		t.Fatalf("humanize result %+v", res)
	}
}

func TestRun_IngestThenBatch(t *testing.T) {
	dir := t.TempDir()
	postings := filepath.Join(dir, "postings")
	if err := os.MkdirAll(postings, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	files := map[string]string{
		"acme.html":  "<h2>Requirements</h2><ul><li>Go</li><li>PostgreSQL</li></ul><p>Apply now!</p>",
		"buzzy.txt":  buzzyPosting,
		"clean.md":   "Our team in Oslo builds billing software for 40 clinics. We ship every Tuesday and you will own the invoicing service.",
		"notes.json": "{}",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(postings, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	db := filepath.Join(dir, "jobs.db")
	if err := runApp(t, Config{Mode: ModeIngest, InputPath: postings, DBDSN: db, SourceFilter: "careers"}); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	// Dry run reports but leaves the store alone.
	var out bytes.Buffer
	if err := runApp(t, Config{Mode: ModeBatchAll, DBDSN: db, DryRun: true, Stdout: &out}); err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if !strings.Contains(out.String(), "updated=2 failed=0 skipped=1 dry_run=true") {
		t.Fatalf("dry-run summary %q", out.String())
	}

	report := filepath.Join(dir, "reports", "run.md")
	pdfPath := filepath.Join(dir, "reports", "run.pdf")
	if err := runApp(t, Config{Mode: ModeBatchAll, DBDSN: db, ReportPath: report, ReportPDFPath: pdfPath}); err != nil {
		t.Fatalf("batch: %v", err)
	}
	md, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(md), "## Manifest") || !strings.Contains(string(md), "Reproducibility: ") {
		t.Fatalf("report:\n%s", md)
	}
	if _, err := os.Stat(report + ".manifest.json"); err != nil {
		t.Fatalf("manifest sidecar: %v", err)
	}
	if _, err := os.Stat(pdfPath); err != nil {
		t.Fatalf("pdf: %v", err)
	}

	st, err := store.OpenSQLite(context.Background(), db)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()
	acme, err := st.Get(context.Background(), "acme")
	if err != nil {
		t.Fatalf("get acme: %v", err)
	}
	if acme.Description != "## Requirements\n\n- Go\n- PostgreSQL" {
		t.Fatalf("acme description %q", acme.Description)
	}
	if acme.RawDescription == nil || *acme.RawDescription != files["acme.html"] || acme.Source != "careers" {
		t.Fatalf("acme raw/source: %+v", acme)
	}
	clean, err := st.Get(context.Background(), "clean")
	if err != nil {
		t.Fatalf("get clean: %v", err)
	}
	if clean.RawDescription != nil {
		t.Fatalf("untouched document must keep a null raw description")
	}
	if _, err := st.Get(context.Background(), "notes"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("json files are not ingested, got %v", err)
	}

	// A second run finds nothing left to do.
	out.Reset()
	if err := runApp(t, Config{Mode: ModeBatchAll, DBDSN: db, Stdout: &out}); err != nil {
		t.Fatalf("second batch: %v", err)
	}
	if !strings.Contains(out.String(), "updated=0 failed=0 skipped=3") {
		t.Fatalf("second run summary %q", out.String())
	}

	out.Reset()
	if err := runApp(t, Config{Mode: ModeScores, DBDSN: db, JSON: true, Stdout: &out}); err != nil {
		t.Fatalf("scores: %v", err)
	}
	var d pipeline.Distribution
	if err := json.Unmarshal(out.Bytes(), &d); err != nil || d.Count != 3 {
		t.Fatalf("distribution %+v err=%v", d, err)
	}
}

func TestRun_BatchAllFailed(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "jobs.db")
	in := filepath.Join(dir, "blob.txt")
	if err := os.WriteFile(in, []byte("\x01\x02\x03\x04\x05\x06\x07 blob"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := runApp(t, Config{Mode: ModeIngest, InputPath: in, DBDSN: db}); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	err := runApp(t, Config{Mode: ModeBatchFormat, DBDSN: db, Stdout: &bytes.Buffer{}})
	if !errors.Is(err, ErrAllFailed) {
		t.Fatalf("expected ErrAllFailed, got %v", err)
	}
}

func TestRun_ReportsDirDerivesPath(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "jobs.db")
	reports := filepath.Join(dir, "reports")
	if err := runApp(t, Config{Mode: ModeBatchFormat, DBDSN: db, ReportsDir: reports}); err != nil {
		t.Fatalf("batch: %v", err)
	}
	matches, _ := filepath.Glob(filepath.Join(reports, "format-*.md"))
	if len(matches) != 1 {
		t.Fatalf("expected one derived report, got %v", matches)
	}
}
