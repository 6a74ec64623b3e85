package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/hyperifyio/jobdesc/internal/pipeline"
)

var cellEscaper = strings.NewReplacer("|", "\\|", "\n", " ", "\r", " ")

// renderRunReport renders a batch report as Markdown: settings, summary, a
// table with one row per document and, for dry runs, before/after excerpts.
func renderRunReport(rep pipeline.Report) string {
	var b strings.Builder
	o := rep.Options
	fmt.Fprintf(&b, "# jobdesc run %s\n\n", rep.RunID)
	fmt.Fprintf(&b, "- Mode: %s\n", o.Mode)
	fmt.Fprintf(&b, "- Dry run: %t\n", o.DryRun)
	fmt.Fprintf(&b, "- Force: %t\n", o.Force)
	fmt.Fprintf(&b, "- Threshold: %d\n", o.Threshold)
	if o.Limit > 0 {
		fmt.Fprintf(&b, "- Limit: %d\n", o.Limit)
	}
	if o.SourceFilter != "" {
		fmt.Fprintf(&b, "- Source: %s\n", o.SourceFilter)
	}
	fmt.Fprintf(&b, "- Started: %s\n", rep.StartedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "- Finished: %s\n", rep.FinishedAt.UTC().Format(time.RFC3339))

	s := rep.Summary
	b.WriteString("\n## Summary\n\n")
	updated := "Updated"
	if o.DryRun {
		updated = "Would update"
	}
	fmt.Fprintf(&b, "- %s: %d\n- Failed: %d\n- Skipped: %d\n", updated, s.Updated, s.Failed, s.Skipped)

	if len(rep.Lines) == 0 {
		b.WriteString("\nNo documents matched.\n")
		return b.String()
	}
	b.WriteString("\n## Documents\n\n")
	b.WriteString("| ID | Outcome | Chars before | Chars after | AI score | AI score after | Error |\n")
	b.WriteString("|---|---|---:|---:|---:|---:|---|\n")
	for _, l := range rep.Lines {
		fmt.Fprintf(&b, "| %s | %s | %d | %d | %d | %d | %s |\n",
			cellEscaper.Replace(l.ID), l.Outcome, l.BeforeLen, l.AfterLen, l.Score, l.ScoreAfter, cellEscaper.Replace(l.Error))
	}

	if o.DryRun {
		wrote := false
		for _, l := range rep.Lines {
			if l.Before == "" && l.After == "" {
				continue
			}
			if !wrote {
				b.WriteString("\n## Excerpts\n")
				wrote = true
			}
			fmt.Fprintf(&b, "\n### %s\n\nBefore:\n\n%s\n\nAfter:\n\n%s\n", l.ID, quote(l.Before), quote(l.After))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func quote(s string) string {
	lines := strings.Split(s, "\n")
	for i, ln := range lines {
		if ln == "" {
			lines[i] = ">"
			continue
		}
		lines[i] = "> " + ln
	}
	return strings.Join(lines, "\n")
}

// renderDistribution prints a score distribution as plain text with a bar
// per ten-point bucket.
func renderDistribution(d pipeline.Distribution) string {
	var b strings.Builder
	fmt.Fprintf(&b, "documents: %d\n", d.Count)
	if d.Count == 0 {
		return b.String()
	}
	fmt.Fprintf(&b, "mean: %.1f  min: %d  max: %d\n", d.Mean, d.Min, d.Max)
	fmt.Fprintf(&b, "at or above threshold %d: %d\n", d.Threshold, d.AboveThreshold)
	peak := 0
	for _, n := range d.Buckets {
		if n > peak {
			peak = n
		}
	}
	for i, n := range d.Buckets {
		hi := i*10 + 9
		if i == len(d.Buckets)-1 {
			hi = 100
		}
		width := 0
		if peak > 0 {
			width = n * 40 / peak
		}
		fmt.Fprintf(&b, "%3d-%-3d %5d %s\n", i*10, hi, n, strings.Repeat("#", width))
	}
	return b.String()
}
