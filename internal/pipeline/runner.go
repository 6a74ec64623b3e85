package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/jobdesc/internal/humanize"
	"github.com/hyperifyio/jobdesc/internal/sanitize"
	"github.com/hyperifyio/jobdesc/internal/score"
	"github.com/hyperifyio/jobdesc/internal/store"
)

// Mode selects which stages a batch run applies.
type Mode string

const (
	ModeFormat   Mode = "format"
	ModeHumanize Mode = "humanize"
	ModeAll      Mode = "all"
)

func (m Mode) formats() bool   { return m == ModeFormat || m == ModeAll }
func (m Mode) humanizes() bool { return m == ModeHumanize || m == ModeAll }

// ParseMode accepts format, humanize or all.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeFormat, ModeHumanize, ModeAll:
		return m, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// DefaultExcerptChars is the dry-run excerpt length in runes.
const DefaultExcerptChars = 160

// Store is the part of the storage layer a batch run needs.
type Store interface {
	Fetch(ctx context.Context, q store.Query) ([]store.Record, error)
	Save(ctx context.Context, u store.Update) error
}

// Options controls one batch run.
type Options struct {
	Mode   Mode `json:"mode"`
	DryRun bool `json:"dry_run"`
	// Limit caps the number of fetched documents; 0 means no cap.
	Limit int `json:"limit"`
	// Threshold is the minimum AI score that triggers humanization. A
	// negative value selects DefaultThreshold.
	Threshold int `json:"threshold"`
	// Force formats documents even when they already look formatted.
	Force        bool   `json:"force"`
	SourceFilter string `json:"source_filter,omitempty"`
	Concurrency  int    `json:"concurrency"`
	ExcerptChars int    `json:"excerpt_chars"`
}

// ReportLine describes what happened to one document.
type ReportLine struct {
	ID         string `json:"id"`
	Source     string `json:"source,omitempty"`
	BeforeLen  int    `json:"before_len"`
	AfterLen   int    `json:"after_len"`
	Score      int    `json:"ai_score"`
	ScoreAfter int    `json:"ai_score_after"`
	Outcome    State  `json:"outcome"`
	Before     string `json:"before,omitempty"`
	After      string `json:"after,omitempty"`
	// Digest is the hex SHA-256 of the resulting description.
	Digest string `json:"sha256,omitempty"`
	Error  string `json:"error,omitempty"`
	Err    error  `json:"-"`
}

// Summary counts outcomes. In a dry run Updated counts documents that would
// have been written.
type Summary struct {
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// Processed is the number of documents that reached a terminal state.
func (s Summary) Processed() int { return s.Updated + s.Failed + s.Skipped }

// Report is the result of a batch run.
type Report struct {
	RunID      string       `json:"run_id"`
	Options    Options      `json:"options"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Lines      []ReportLine `json:"lines"`
	Summary    Summary      `json:"summary"`
}

// Runner processes stored documents in batches with bounded concurrency.
type Runner struct {
	Store     Store
	Humanizer *humanize.Humanizer
	Scorer    *score.Scorer
	RunID     string
	// Now defaults to time.Now and is replaceable in tests.
	Now func() time.Time
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now().UTC()
	}
	return time.Now().UTC()
}

// Run fetches the selected documents and drives each one to a terminal
// state. A failing document never stops the run. Only a failed fetch is
// returned as an error. When ctx is cancelled no new documents are started
// and the report covers the ones already in flight.
func (r *Runner) Run(ctx context.Context, opts Options) (Report, error) {
	opts = normalizeOptions(opts)
	h, sc := r.Humanizer, r.Scorer
	if h == nil {
		h = humanize.Default()
	}
	if sc == nil {
		sc = score.Default()
	}
	rep := Report{RunID: r.RunID, Options: opts, StartedAt: r.now()}

	records, err := r.Store.Fetch(ctx, store.Query{Limit: opts.Limit, Source: opts.SourceFilter})
	if err != nil {
		return rep, fmt.Errorf("fetch documents: %w", err)
	}
	log.Info().Str("run_id", r.RunID).Str("mode", string(opts.Mode)).Bool("dry_run", opts.DryRun).
		Int("documents", len(records)).Int("concurrency", opts.Concurrency).Msg("batch start")

	lines := make([]ReportLine, len(records))
	sem := make(chan struct{}, opts.Concurrency)
	var wg sync.WaitGroup
	scheduled := 0
schedule:
	for i, rec := range records {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break schedule
		case sem <- struct{}{}:
		}
		if ctx.Err() != nil {
			<-sem
			break
		}
		scheduled = i + 1
		wg.Add(1)
		go func(i int, rec store.Record) {
			defer wg.Done()
			defer func() { <-sem }()
			lines[i] = r.processRecord(ctx, rec, opts, h, sc)
		}(i, rec)
	}
	wg.Wait()

	rep.Lines = lines[:scheduled]
	for _, l := range rep.Lines {
		switch l.Outcome {
		case StateError:
			rep.Summary.Failed++
		case StateUnchanged:
			rep.Summary.Skipped++
		default:
			rep.Summary.Updated++
		}
	}
	rep.FinishedAt = r.now()
	ev := log.Info()
	if ctx.Err() != nil && scheduled < len(records) {
		ev = log.Warn().Int("not_started", len(records)-scheduled)
	}
	ev.Str("run_id", r.RunID).Int("updated", rep.Summary.Updated).Int("failed", rep.Summary.Failed).
		Int("skipped", rep.Summary.Skipped).Dur("elapsed", rep.FinishedAt.Sub(rep.StartedAt)).Msg("batch done")
	return rep, nil
}

func normalizeOptions(o Options) Options {
	if o.Mode == "" {
		o.Mode = ModeAll
	}
	if o.Threshold < 0 {
		o.Threshold = DefaultThreshold
	}
	if o.Concurrency <= 0 {
		o.Concurrency = 1
	}
	if o.ExcerptChars <= 0 {
		o.ExcerptChars = DefaultExcerptChars
	}
	if o.Limit < 0 {
		o.Limit = 0
	}
	return o
}

// processRecord never panics; any failure becomes an error line. Once
// started, a document is finished and saved even if ctx is cancelled.
func (r *Runner) processRecord(ctx context.Context, rec store.Record, opts Options, h *humanize.Humanizer, sc *score.Scorer) (line ReportLine) {
	logger := log.With().Str("run_id", r.RunID).Str("doc_id", rec.ID).Str("source", rec.Source).Logger()
	line = ReportLine{ID: rec.ID, Source: rec.Source, BeforeLen: utf8.RuneCountInString(rec.Description)}
	defer func() {
		if p := recover(); p != nil {
			line.Outcome = StateError
			line.Err = fmt.Errorf("unexpected failure: %v", p)
			line.Error = line.Err.Error()
			logger.Error().Err(line.Err).Msg("document failed")
		}
	}()

	current := rec.Description
	if opts.Mode.formats() {
		f, err := sanitizeAndFormat(current, opts.Force)
		if err != nil {
			return failLine(logger, line, err)
		}
		current = f.FormattedText
	}

	humanized := false
	if opts.Mode.humanizes() {
		clean := sanitize.Sanitize(current)
		line.Score = sc.Score(clean)
		line.ScoreAfter = line.Score
		if line.Score >= opts.Threshold {
			out := h.Humanize(clean)
			if out != clean {
				humanized = true
				line.ScoreAfter = sc.Score(out)
				current = out
			}
		}
	}

	line.AfterLen = utf8.RuneCountInString(current)
	line.Digest = digest(current)
	if current == rec.Description {
		line.Outcome = StateUnchanged
		logger.Debug().Int("ai_score", line.Score).Msg("unchanged")
		return line
	}
	line.Outcome = StateFormatted
	if humanized {
		line.Outcome = StateHumanized
	}

	if opts.DryRun {
		line.Before = excerpt(rec.Description, opts.ExcerptChars)
		line.After = excerpt(current, opts.ExcerptChars)
		logger.Info().Str("outcome", string(line.Outcome)).Int("ai_score", line.Score).
			Int("ai_score_after", line.ScoreAfter).Msg("dry run")
		return line
	}

	u := store.Update{ID: rec.ID, Description: current}
	if rec.RawDescription == nil {
		original := rec.Description
		u.RawDescription = &original
	}
	if err := r.Store.Save(context.WithoutCancel(ctx), u); err != nil {
		return failLine(logger, line, fmt.Errorf("%w: %w", ErrPersistence, err))
	}
	logger.Info().Str("outcome", string(line.Outcome)).Int("before_len", line.BeforeLen).
		Int("after_len", line.AfterLen).Int("ai_score", line.Score).Msg("updated")
	return line
}

func failLine(logger zerolog.Logger, line ReportLine, err error) ReportLine {
	line.Outcome = StateError
	line.Err = err
	line.Error = err.Error()
	ev := logger.Warn()
	if errors.Is(err, ErrPersistence) {
		ev = logger.Error()
	}
	ev.Err(err).Msg("document failed")
	return line
}

func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func excerpt(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "…"
}
