package app

import (
	"strconv"
	"strings"
)

// appendReproFooter appends a minimal, deterministic footer that records the
// build and the settings a run used.
func appendReproFooter(markdown string, meta manifestMeta) string {
	var b strings.Builder
	b.WriteString(markdown)
	b.WriteString("\n\n---\n")
	b.WriteString("Reproducibility: ")
	b.WriteString("version=")
	b.WriteString(strings.TrimSpace(meta.Version))
	b.WriteString("; commit=")
	b.WriteString(BuildCommit)
	b.WriteString("; mode=")
	b.WriteString(meta.Mode)
	b.WriteString("; threshold=")
	b.WriteString(strconv.Itoa(meta.Threshold))
	b.WriteString("; db_driver=")
	b.WriteString(strings.TrimSpace(meta.Driver))
	b.WriteString("; dry_run=")
	b.WriteString(strconv.FormatBool(meta.DryRun))
	b.WriteString("\n")
	return b.String()
}
