package sanitize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// Sanitize turns raw posting text into clean plain text. It decodes entities,
// strips markup while keeping block boundaries as line breaks, normalizes
// whitespace and drops standalone boilerplate lines. It is total: any input,
// including the empty string, yields a result and never panics.
//
// Text that already has no markup, no boilerplate and normalized whitespace is
// returned unchanged.
func Sanitize(raw string) string {
	if raw == "" {
		return ""
	}
	s := raw
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	switch {
	case HasMarkup(s):
		s = stripMarkup(s)
	case HasEntities(s):
		s = html.UnescapeString(s)
	}
	if !norm.NFC.IsNormalString(s) {
		s = norm.NFC.String(s)
	}
	s = normalizeWhitespace(s)
	if stripped, changed := removeBoilerplate(s); changed {
		s = normalizeWhitespace(stripped)
	}
	return s
}

var (
	// Only real HTML element names count as markup so that prose such as
	// "List<String>" or "<5 years" is left alone.
	markupRe = regexp.MustCompile(`(?i)<!--|</?(?:a|abbr|article|aside|b|blockquote|body|br|button|center|code|dd|div|dl|dt|em|figcaption|figure|font|footer|form|h[1-6]|head|header|hr|html|i|iframe|img|input|label|li|link|main|mark|meta|nav|noscript|ol|p|pre|s|script|section|small|span|strike|strong|style|sub|sup|table|tbody|td|tfoot|th|thead|title|tr|u|ul)(?:\s[^<>]*)?/?>`)
	entityRe = regexp.MustCompile(`&(?:#[0-9]{1,7}|#[xX][0-9a-fA-F]{1,6}|[a-zA-Z][a-zA-Z0-9]{1,31});`)
)

// HasMarkup reports whether s contains HTML tags or comments.
func HasMarkup(s string) bool {
	return markupRe.MatchString(s)
}

// HasEntities reports whether s contains HTML character references.
func HasEntities(s string) bool {
	return entityRe.MatchString(s)
}

var blockTags = []string{
	"p", "div", "br", "hr", "li", "ul", "ol", "dl", "dt", "dd",
	"h1", "h2", "h3", "h4", "h5", "h6",
	"table", "thead", "tbody", "tfoot", "tr", "td", "th",
	"section", "article", "header", "footer", "main", "aside",
	"blockquote", "pre", "figure", "figcaption",
}

// policy keeps structural block elements and drops everything else; elements
// such as script and style lose their content entirely. Built once and
// read-only afterwards.
var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(blockTags...)
	p.SkipElementsContent("script", "style", "noscript", "iframe", "nav", "template", "svg")
	return p
}

// flatten folds source-formatting line breaks inside text nodes; outside of
// pre blocks they carry no meaning.
var flatten = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ")

// stripMarkup removes tags and decodes entities. Block-level elements become
// line breaks and list items become "- " lines so that paragraph and list
// boundaries survive for structure detection.
func stripMarkup(s string) string {
	cleaned := policy.Sanitize(s)
	z := html.NewTokenizer(strings.NewReader(cleaned))
	var b strings.Builder
	inPre := 0
	bullet := false
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			data := string(z.Text())
			if inPre == 0 {
				data = flatten.Replace(data)
			}
			if bullet && strings.TrimSpace(data) != "" {
				b.WriteString("- ")
				bullet = false
			}
			b.WriteString(data)
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "li":
				b.WriteString("\n")
				bullet = true
			case "td", "th":
				b.WriteString(" ")
			case "pre":
				inPre++
				b.WriteString("\n")
			default:
				b.WriteString("\n")
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "li":
				bullet = false
			case "tr", "dt", "dd":
				b.WriteString("\n")
			case "td", "th":
				b.WriteString(" ")
			case "pre":
				if inPre > 0 {
					inPre--
				}
				b.WriteString("\n\n")
			default:
				b.WriteString("\n\n")
			}
		}
	}
}

// normalizeWhitespace collapses runs of spaces (including NBSP and other
// Unicode spaces) inside each line, trims lines, keeps at most one blank line
// in a row and drops leading and trailing blank lines.
func normalizeWhitespace(s string) string {
	if strings.ContainsRune(s, '\r') {
		s = strings.ReplaceAll(s, "\r\n", "\n")
		s = strings.ReplaceAll(s, "\r", "\n")
	}
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		collapsed := collapseSpaces(line)
		if collapsed == "" {
			if len(out) == 0 || out[len(out)-1] == "" {
				continue
			}
			out = append(out, "")
			continue
		}
		out = append(out, collapsed)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}

// collapseSpaces trims the line and folds every whitespace run into a single
// ASCII space. Zero-width characters are dropped. A line that is already clean
// is returned as-is without allocating.
func collapseSpaces(line string) string {
	if isCleanLine(line) {
		return line
	}
	var b strings.Builder
	b.Grow(len(line))
	pending := false
	for _, r := range line {
		if isZeroWidth(r) {
			continue
		}
		if unicode.IsSpace(r) {
			pending = b.Len() > 0
			continue
		}
		if pending {
			b.WriteByte(' ')
			pending = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isCleanLine(line string) bool {
	prevSpace := true
	for _, r := range line {
		if isZeroWidth(r) {
			return false
		}
		if unicode.IsSpace(r) {
			if r != ' ' || prevSpace {
				return false
			}
			prevSpace = true
			continue
		}
		prevSpace = false
	}
	return line == "" || !prevSpace
}

func isZeroWidth(r rune) bool {
	switch r {
	case '\u200b', '\u200c', '\u200d', '\u2060', '\ufeff':
		return true
	}
	return false
}

// IsNormalized reports whether s already has the whitespace layout Sanitize
// produces.
func IsNormalized(s string) bool {
	return normalizeWhitespace(s) == s
}

// IsClean reports whether Sanitize would return s unchanged.
func IsClean(s string) bool {
	return utf8.ValidString(s) &&
		!HasMarkup(s) &&
		!HasEntities(s) &&
		norm.NFC.IsNormalString(s) &&
		IsNormalized(s) &&
		!HasBoilerplate(s)
}

// IsBinary reports whether s looks like binary data rather than text: it
// contains NUL bytes, is mostly invalid UTF-8, or has too few printable runes.
func IsBinary(s string) bool {
	if s == "" {
		return false
	}
	if strings.IndexByte(s, 0) >= 0 {
		return true
	}
	total, printable, invalid := 0, 0, 0
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		total++
		if r == utf8.RuneError && size == 1 {
			invalid++
			continue
		}
		if isGarbageRune(r) {
			continue
		}
		if unicode.IsPrint(r) || r == '\n' || r == '\r' || r == '\t' {
			printable++
		}
	}
	if total == 0 {
		return false
	}
	if float64(invalid)/float64(total) > 0.1 {
		return true
	}
	return float64(printable)/float64(total) < 0.85
}

func isGarbageRune(r rune) bool {
	if r >= 0xE000 && r <= 0xF8FF {
		return true
	}
	if r == 0xFFFD {
		return true
	}
	return r < 0x20 && r != '\n' && r != '\r' && r != '\t'
}
