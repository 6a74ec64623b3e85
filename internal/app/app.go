package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/jobdesc/internal/humanize"
	"github.com/hyperifyio/jobdesc/internal/pipeline"
	"github.com/hyperifyio/jobdesc/internal/sanitize"
	"github.com/hyperifyio/jobdesc/internal/score"
	"github.com/hyperifyio/jobdesc/internal/store"
)

type App struct {
	cfg       Config
	runID     string
	store     store.Store
	scorer    *score.Scorer
	humanizer *humanize.Humanizer
	in        io.Reader
	out       io.Writer
}

// ErrAllFailed is returned when a batch processed documents and every one of
// them failed. Per the exit code policy this maps to exit status 2.
var ErrAllFailed = errors.New("every processed document failed")

// ingestExts are the file types picked up from an ingest directory.
var ingestExts = map[string]bool{".txt": true, ".md": true, ".html": true, ".htm": true}

func New(ctx context.Context, cfg Config) (*App, error) {
	a := &App{cfg: cfg, runID: uuid.NewString(), in: cfg.Stdin, out: cfg.Stdout}
	if a.in == nil {
		a.in = os.Stdin
	}
	if a.out == nil {
		a.out = os.Stdout
	}

	a.scorer = score.Default()
	a.humanizer = humanize.Default()
	if cfg.Weights != nil {
		a.scorer = score.New(*cfg.Weights)
		h, err := humanize.New(humanize.Rules, a.scorer)
		if err != nil {
			return nil, fmt.Errorf("humanizer: %w", err)
		}
		a.humanizer = h
	}

	if usesStore(cfg.Mode) {
		st, err := store.Open(ctx, cfg.DBDriver, cfg.DBDSN)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		a.store = st
		log.Debug().Str("driver", cfg.DBDriver).Msg("store ready")
	}
	return a, nil
}

// RunID identifies this invocation in logs, reports and manifests.
func (a *App) RunID() string { return a.runID }

func (a *App) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			log.Warn().Err(err).Msg("close store")
		}
	}
}

func (a *App) Run(ctx context.Context) error {
	switch a.cfg.Mode {
	case ModeFormat:
		return a.runFormat()
	case ModeScore:
		return a.runScore()
	case ModeHumanize:
		return a.runHumanize()
	case ModeIngest:
		return a.runIngest(ctx)
	case ModeBatchFormat:
		return a.runBatch(ctx, pipeline.ModeFormat)
	case ModeBatchHumanize:
		return a.runBatch(ctx, pipeline.ModeHumanize)
	case ModeBatchAll:
		return a.runBatch(ctx, pipeline.ModeAll)
	case ModeScores:
		return a.runScores(ctx)
	}
	return fmt.Errorf("unknown mode %q", a.cfg.Mode)
}

func (a *App) readInput() (string, error) {
	if a.cfg.InputPath == "" || a.cfg.InputPath == "-" {
		b, err := io.ReadAll(a.in)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(a.cfg.InputPath)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(b), nil
}

// emit writes ad hoc output to OutputPath, or to stdout when unset.
func (a *App) emit(text string) error {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if a.cfg.OutputPath == "" || a.cfg.OutputPath == "-" {
		_, err := io.WriteString(a.out, text)
		return err
	}
	if err := os.WriteFile(a.cfg.OutputPath, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	log.Info().Str("out", a.cfg.OutputPath).Msg("wrote output")
	return nil
}

func (a *App) emitJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return a.emit(string(b))
}

func (a *App) runFormat() error {
	raw, err := a.readInput()
	if err != nil {
		return err
	}
	f, err := pipeline.SanitizeAndFormat(raw)
	if err != nil {
		return err
	}
	log.Debug().Bool("changed", f.RawDescription != nil).Int("words", f.Metadata.WordCount).Msg("formatted")
	if a.cfg.JSON {
		return a.emitJSON(f)
	}
	return a.emit(f.FormattedText)
}

func (a *App) runScore() error {
	raw, err := a.readInput()
	if err != nil {
		return err
	}
	if sanitize.IsBinary(raw) {
		return fmt.Errorf("%w: input is not text", pipeline.ErrMalformedInput)
	}
	rep := a.scorer.Explain(sanitize.Sanitize(raw))
	if a.cfg.JSON {
		return a.emitJSON(rep)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "ai_score: %d\n", rep.Score)
	for _, s := range rep.Signals {
		label := s.Family
		if s.Term != "" {
			label += " " + s.Term
		}
		fmt.Fprintf(&b, "  %-40s x%d  +%d\n", label, s.Count, s.Points)
	}
	return a.emit(b.String())
}

type humanizeResult struct {
	State      pipeline.State    `json:"state"`
	Score      int               `json:"ai_score"`
	ScoreAfter int               `json:"ai_score_after"`
	Text       string            `json:"text"`
	Hits       []humanize.Hit    `json:"hits,omitempty"`
	Document   pipeline.Document `json:"document"`
}

func (a *App) runHumanize() error {
	raw, err := a.readInput()
	if err != nil {
		return err
	}
	doc := pipeline.Process(raw, a.cfg.Threshold, a.humanizer, a.scorer)
	if doc.Err != nil {
		return doc.Err
	}
	res := humanizeResult{State: doc.State, Score: doc.Score, ScoreAfter: doc.Score, Text: doc.Description(), Document: doc}
	if doc.Humanized != "" {
		res.ScoreAfter = a.scorer.Score(doc.Humanized)
		_, res.Hits = a.humanizer.Apply(doc.Sanitized)
	}
	log.Info().Str("state", string(doc.State)).Int("ai_score", res.Score).Int("ai_score_after", res.ScoreAfter).
		Int("threshold", a.cfg.Threshold).Msg("humanize")
	if a.cfg.JSON {
		return a.emitJSON(res)
	}
	return a.emit(res.Text)
}

// runIngest stores the input as new documents: one per file when the input
// is a directory, otherwise a single document.
func (a *App) runIngest(ctx context.Context) error {
	var paths []string
	if info, err := os.Stat(a.cfg.InputPath); err == nil && info.IsDir() {
		entries, err := os.ReadDir(a.cfg.InputPath)
		if err != nil {
			return fmt.Errorf("read input dir: %w", err)
		}
		for _, e := range entries {
			if e.IsDir() || !ingestExts[strings.ToLower(filepath.Ext(e.Name()))] {
				continue
			}
			paths = append(paths, filepath.Join(a.cfg.InputPath, e.Name()))
		}
		sort.Strings(paths)
	}
	if len(paths) == 0 {
		raw, err := a.readInput()
		if err != nil {
			return err
		}
		id, err := a.store.Insert(ctx, store.Record{Source: a.cfg.SourceFilter, Description: raw})
		if err != nil {
			return err
		}
		log.Info().Str("doc_id", id).Msg("ingested")
		return nil
	}

	failed := 0
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			log.Warn().Err(err).Str("path", p).Msg("skip unreadable file")
			failed++
			continue
		}
		id := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		if _, err := a.store.Insert(ctx, store.Record{ID: id, Source: a.cfg.SourceFilter, Description: string(b)}); err != nil {
			log.Warn().Err(err).Str("path", p).Msg("insert failed")
			failed++
			continue
		}
		log.Debug().Str("doc_id", id).Str("path", p).Msg("ingested")
	}
	log.Info().Int("files", len(paths)).Int("failed", failed).Msg("ingest done")
	if failed == len(paths) {
		return ErrAllFailed
	}
	return nil
}

func (a *App) runBatch(ctx context.Context, mode pipeline.Mode) error {
	r := &pipeline.Runner{Store: a.store, Humanizer: a.humanizer, Scorer: a.scorer, RunID: a.runID}
	rep, err := r.Run(ctx, pipeline.Options{
		Mode:         mode,
		DryRun:       a.cfg.DryRun,
		Limit:        a.cfg.Limit,
		Threshold:    a.cfg.Threshold,
		Force:        a.cfg.Force,
		SourceFilter: a.cfg.SourceFilter,
		Concurrency:  a.cfg.Concurrency,
	})
	if err != nil {
		return err
	}
	if err := a.writeReports(rep); err != nil {
		return err
	}
	if n := rep.Summary.Processed(); n > 0 && rep.Summary.Failed == n {
		return ErrAllFailed
	}
	return nil
}

// writeReports writes the Markdown report with its manifest sidecar and the
// optional PDF rendering. Without a report path a one-line summary goes to
// stdout.
func (a *App) writeReports(rep pipeline.Report) error {
	path := a.cfg.ReportPath
	if path == "" && strings.TrimSpace(a.cfg.ReportsDir) != "" {
		path = deriveReportPath(a.cfg, rep)
	}
	md := renderRunReport(rep)
	if path == "" {
		s := rep.Summary
		_, err := fmt.Fprintf(a.out, "run %s: updated=%d failed=%d skipped=%d dry_run=%t\n",
			rep.RunID, s.Updated, s.Failed, s.Skipped, rep.Options.DryRun)
		if err == nil && a.cfg.ReportPDFPath != "" {
			err = writeReportPDF(md, a.cfg.ReportPDFPath)
		}
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	meta := manifestMeta{
		RunID:       rep.RunID,
		Mode:        string(rep.Options.Mode),
		DryRun:      rep.Options.DryRun,
		Threshold:   rep.Options.Threshold,
		Driver:      a.cfg.DBDriver,
		Version:     BuildVersion,
		Documents:   len(rep.Lines),
		GeneratedAt: rep.FinishedAt,
	}
	entries := buildManifestEntries(rep.Lines)
	md = appendEmbeddedManifest(md, meta, entries)
	md = appendReproFooter(md, meta)
	if err := os.WriteFile(path, []byte(md), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	sidecar, err := marshalManifestJSON(meta, entries, rep.Summary)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(deriveManifestSidecarPath(path), sidecar, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	log.Info().Str("out", path).Msg("wrote run report")
	if a.cfg.ReportPDFPath != "" {
		if err := writeReportPDF(md, a.cfg.ReportPDFPath); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		log.Info().Str("out", a.cfg.ReportPDFPath).Msg("wrote pdf report")
	}
	return nil
}

func (a *App) runScores(ctx context.Context) error {
	start := time.Now()
	d, err := pipeline.ScoreDistribution(ctx, a.store, store.Query{Limit: a.cfg.Limit, Source: a.cfg.SourceFilter}, a.cfg.Threshold, a.scorer)
	if err != nil {
		return err
	}
	log.Info().Int("documents", d.Count).Dur("elapsed", time.Since(start)).Msg("scored store")
	if a.cfg.JSON {
		return a.emitJSON(d)
	}
	return a.emit(renderDistribution(d))
}
