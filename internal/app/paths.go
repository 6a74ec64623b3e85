package app

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hyperifyio/jobdesc/internal/pipeline"
)

// deriveReportPath returns a stable Markdown report path under ReportsDir.
// The filename combines the batch mode, the optional source filter and a
// short prefix of the run ID.
func deriveReportPath(cfg Config, rep pipeline.Report) string {
	root := strings.TrimSpace(cfg.ReportsDir)
	if root == "" {
		root = "reports"
	}
	name := slugify(string(rep.Options.Mode))
	if src := strings.TrimSpace(rep.Options.SourceFilter); src != "" {
		name += "-" + slugify(src)
	}
	short := strings.ReplaceAll(rep.RunID, "-", "")
	if len(short) > 12 {
		short = short[:12]
	}
	if short == "" {
		short = "run"
	}
	if rep.Options.DryRun {
		name += "-dryrun"
	}
	return filepath.Join(root, name+"-"+short+".md")
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		s = "batch"
	}
	return s
}

// deriveManifestSidecarPath returns a sidecar JSON path next to the report.
func deriveManifestSidecarPath(reportPath string) string {
	return reportPath + ".manifest.json"
}
