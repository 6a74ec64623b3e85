package app

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/hyperifyio/jobdesc/internal/pipeline"
)

// manifestEntry is a compact record of one document touched by a run.
type manifestEntry struct {
	Index   int    `json:"index"`
	ID      string `json:"id"`
	Outcome string `json:"outcome"`
	SHA256  string `json:"sha256,omitempty"`
	Chars   int    `json:"chars"`
}

// manifestMeta captures high-level run details that aid reproducibility.
type manifestMeta struct {
	RunID       string    `json:"run_id"`
	Mode        string    `json:"mode"`
	DryRun      bool      `json:"dry_run"`
	Threshold   int       `json:"threshold"`
	Driver      string    `json:"db_driver"`
	Version     string    `json:"version"`
	Documents   int       `json:"documents"`
	GeneratedAt time.Time `json:"generated_at"`
}

// buildManifestEntries lists every report line with the digest of the text
// it ended up with. Failed documents carry no digest.
func buildManifestEntries(lines []pipeline.ReportLine) []manifestEntry {
	out := make([]manifestEntry, 0, len(lines))
	for i, l := range lines {
		e := manifestEntry{Index: i + 1, ID: l.ID, Outcome: string(l.Outcome), Chars: l.AfterLen}
		if l.Outcome != pipeline.StateError {
			e.SHA256 = l.Digest
		}
		out = append(out, e)
	}
	return out
}

// appendEmbeddedManifest appends a compact Markdown manifest section listing
// every document and the digest of its resulting text.
func appendEmbeddedManifest(markdown string, meta manifestMeta, entries []manifestEntry) string {
	var b strings.Builder
	b.WriteString(markdown)
	b.WriteString("\n\n## Manifest\n\n")
	b.WriteString("- Run: ")
	b.WriteString(meta.RunID)
	b.WriteString("\n- Mode: ")
	b.WriteString(meta.Mode)
	b.WriteString("\n- Dry run: ")
	b.WriteString(strconv.FormatBool(meta.DryRun))
	b.WriteString("\n- Threshold: ")
	b.WriteString(strconv.Itoa(meta.Threshold))
	b.WriteString("\n- Documents: ")
	b.WriteString(strconv.Itoa(meta.Documents))
	b.WriteString("\n- Generated: ")
	b.WriteString(meta.GeneratedAt.UTC().Format(time.RFC3339))
	b.WriteString("\n\n")

	for _, e := range entries {
		b.WriteString(strconv.Itoa(e.Index))
		b.WriteString(". ")
		b.WriteString(e.ID)
		b.WriteString(" (")
		b.WriteString(e.Outcome)
		b.WriteString(")")
		if e.SHA256 != "" {
			b.WriteString(" sha256=")
			b.WriteString(e.SHA256)
		}
		b.WriteString("; chars=")
		b.WriteString(strconv.Itoa(e.Chars))
		b.WriteString("\n")
	}
	return b.String()
}

// marshalManifestJSON encodes a machine-readable sidecar manifest.
func marshalManifestJSON(meta manifestMeta, entries []manifestEntry, summary pipeline.Summary) ([]byte, error) {
	payload := struct {
		Meta      manifestMeta     `json:"meta"`
		Summary   pipeline.Summary `json:"summary"`
		Documents []manifestEntry  `json:"documents"`
	}{Meta: meta, Summary: summary, Documents: entries}
	return json.MarshalIndent(payload, "", "  ")
}
