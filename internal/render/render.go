// Package render turns detected sections into canonical markdown and computes
// document metadata.
package render

import (
	"strings"
	"unicode"

	"github.com/hyperifyio/jobdesc/internal/sanitize"
	"github.com/hyperifyio/jobdesc/internal/structure"
)

// WordsPerMinute is the reading speed used for EstimatedReadingTime.
const WordsPerMinute = 200

// Metadata describes a rendered document.
type Metadata struct {
	WordCount             int      `json:"word_count"`
	EstimatedReadingTime  int      `json:"estimated_reading_time"`
	HasStructuredSections bool     `json:"has_structured_sections"`
	TechStack             []string `json:"tech_stack"`
}

// Result is the canonical markdown plus its metadata.
type Result struct {
	Formatted string   `json:"formatted"`
	Metadata  Metadata `json:"metadata"`
}

// Render emits one level-2 heading per section with a non-empty body, in
// source order. The implicit body has no heading. Bullets use the "- " marker
// and other lines become paragraphs separated by blank lines. text is the
// sanitized input the sections were detected in.
func Render(text string, sections []structure.Section) Result {
	blocks := make([]string, 0, len(sections)*2)
	structured := false
	for _, s := range sections {
		if s.Role != structure.RoleBody {
			structured = true
		}
		if !s.HasBody() {
			continue
		}
		if s.Role != structure.RoleBody {
			heading := s.Heading
			if heading == "" {
				heading = s.Role.Title()
			}
			blocks = append(blocks, "## "+heading)
		}
		blocks = append(blocks, sectionBlocks(s)...)
	}
	return Result{
		Formatted: strings.Join(blocks, "\n\n"),
		Metadata:  computeMetadata(text, structured),
	}
}

// sectionBlocks groups consecutive bullets into one list block. Blank lines
// do not break a list; a text line does.
func sectionBlocks(s structure.Section) []string {
	var blocks []string
	var list []string
	flush := func() {
		if len(list) > 0 {
			blocks = append(blocks, strings.Join(list, "\n"))
			list = nil
		}
	}
	for _, l := range s.Lines {
		switch l.Kind {
		case structure.LineBullet:
			list = append(list, "- "+l.Text)
		case structure.LineText:
			flush()
			blocks = append(blocks, l.Text)
		}
	}
	flush()
	return blocks
}

func computeMetadata(text string, structured bool) Metadata {
	words := CountWords(text)
	minutes := (words + WordsPerMinute - 1) / WordsPerMinute
	if minutes == 0 && strings.TrimSpace(text) != "" {
		minutes = 1
	}
	return Metadata{
		WordCount:             words,
		EstimatedReadingTime:  minutes,
		HasStructuredSections: structured,
		TechStack:             structure.TechStack(text),
	}
}

// CountWords counts whitespace-separated tokens that contain at least one
// letter or digit. Bare markers such as "-" or "##" are not words.
func CountWords(text string) int {
	n := 0
	for _, f := range strings.Fields(text) {
		if strings.IndexFunc(f, isWordRune) >= 0 {
			n++
		}
	}
	return n
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Format sanitizes raw text, detects its structure and renders it.
func Format(raw string) Result {
	text := sanitize.Sanitize(raw)
	return Render(text, structure.Detect(text))
}
