// Package structure finds section headers, bullet runs, salary figures and
// technology mentions in sanitized posting text.
package structure

import (
	"regexp"
	"strings"
)

// Role is the fixed vocabulary a Section can be tagged with.
type Role string

const (
	RoleBody             Role = "body"
	RoleAboutRole        Role = "about_role"
	RoleAboutCompany     Role = "about_company"
	RoleResponsibilities Role = "responsibilities"
	RoleRequirements     Role = "requirements"
	RoleNiceToHave       Role = "nice_to_have"
	RoleBenefits         Role = "benefits"
	RoleCompensation     Role = "compensation"
	RoleTechStack        Role = "tech_stack"
	RoleLocation         Role = "location"
	RoleHowToApply       Role = "how_to_apply"
)

var roleTitles = map[Role]string{
	RoleBody:             "Description",
	RoleAboutRole:        "About the Role",
	RoleAboutCompany:     "About the Company",
	RoleResponsibilities: "Responsibilities",
	RoleRequirements:     "Requirements",
	RoleNiceToHave:       "Nice to Have",
	RoleBenefits:         "Benefits",
	RoleCompensation:     "Compensation",
	RoleTechStack:        "Tech Stack",
	RoleLocation:         "Location",
	RoleHowToApply:       "How to Apply",
}

// Title is the display heading used when a section has no header of its own.
// Every title is itself recognized as a header of the same role.
func (r Role) Title() string {
	if t, ok := roleTitles[r]; ok {
		return t
	}
	return string(r)
}

// LineKind classifies a single line of sanitized text.
type LineKind int

const (
	LineBlank LineKind = iota
	LineText
	LineBullet
	LineHeader
)

// Line is one line of a section. Start and End are byte offsets into the
// detected text and exclude the trailing newline.
type Line struct {
	Kind LineKind
	// Text is the line content: the item without its marker for bullets, the
	// heading without decoration for headers, the trimmed line otherwise.
	Text  string
	Start int
	End   int
	// Salary is set when the line carries a salary figure.
	Salary bool
}

// Section is a contiguous, role-tagged span [Start, End) of the text.
// Sections returned by Detect are ordered, never overlap and together cover
// the whole input.
type Section struct {
	Role Role
	// Heading is the header text as the author wrote it, without decoration.
	// Empty for sections that were not introduced by a header.
	Heading  string
	Explicit bool
	Start    int
	End      int
	Lines    []Line
}

// Raw returns the slice of text this section covers.
func (s Section) Raw(text string) string {
	return text[s.Start:s.End]
}

// HasBody reports whether the section has at least one non-blank line besides
// its header.
func (s Section) HasBody() bool {
	for _, l := range s.Lines {
		if l.Kind == LineText || l.Kind == LineBullet {
			return true
		}
	}
	return false
}

// Detect splits sanitized text into sections. Text before the first header
// belongs to an implicit body section. A salary line outside any explicit
// section opens an implicit compensation section that runs until the next
// non-blank, non-salary line.
func Detect(text string) []Section {
	if text == "" {
		return nil
	}
	var sections []Section
	open := func(role Role, heading string, explicit bool, start int) {
		if n := len(sections); n > 0 {
			sections[n-1].End = start
		}
		sections = append(sections, Section{Role: role, Heading: heading, Explicit: explicit, Start: start})
	}
	start := 0
	for start <= len(text) {
		end := strings.IndexByte(text[start:], '\n')
		if end < 0 {
			end = len(text)
		} else {
			end += start
		}
		line := ClassifyLine(text[start:end])
		line.Start, line.End = start, end

		var cur *Section
		if n := len(sections); n > 0 {
			cur = &sections[n-1]
		}
		switch {
		case line.Kind == LineHeader:
			role, _ := MatchHeader(line.Text)
			open(role, line.Text, true, start)
		case cur == nil && line.Salary:
			open(RoleCompensation, "", false, start)
		case cur == nil:
			open(RoleBody, "", false, start)
		case cur.Explicit:
			// stays until the next header
		case line.Salary && cur.Role != RoleCompensation:
			open(RoleCompensation, "", false, start)
		case cur.Role == RoleCompensation && line.Kind != LineBlank && !line.Salary:
			open(RoleBody, "", false, start)
		}
		last := &sections[len(sections)-1]
		last.Lines = append(last.Lines, line)

		if end == len(text) {
			break
		}
		start = end + 1
	}
	sections[len(sections)-1].End = len(text)
	return sections
}

// bulletRe accepts common bullet glyphs, dashes and short numbered or lettered
// list markers followed by whitespace.
var bulletRe = regexp.MustCompile(`^(?:[-*+•·▪◦‣–—]|\d{1,2}[.)]|[a-zA-Z]\))\s+(\S.*)$`)

// ClassifyLine classifies a single line without context. Header detection
// runs before bullet detection so a header is never part of a bullet run.
func ClassifyLine(raw string) Line {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Line{Kind: LineBlank}
	}
	if heading, ok := headerText(s); ok {
		if _, ok := MatchHeader(heading); ok {
			return Line{Kind: LineHeader, Text: heading}
		}
	}
	l := Line{Kind: LineText, Text: s, Salary: HasSalary(s)}
	if m := bulletRe.FindStringSubmatch(s); m != nil {
		l.Kind = LineBullet
		l.Text = m[1]
	}
	return l
}

// IsCanonicalBullet reports whether a bullet line already uses the "- "
// marker Render emits.
func IsCanonicalBullet(raw string) bool {
	return strings.HasPrefix(strings.TrimSpace(raw), "- ")
}
