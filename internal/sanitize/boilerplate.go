package sanitize

import (
	"regexp"
	"strings"
	"unicode"
)

// Boilerplate lists the recruiter and job-board phrases that are stripped when
// they form a whole line or the trailing clause of a line. Patterns match a
// normalized key: lower case, punctuation and emoji folded to single spaces.
// Append to extend; order does not matter.
var Boilerplate = []string{
	`(?:interested |so |ready )?apply (?:for this (?:job|position|role|opportunity) )?(?:now|today|here|online|below)`,
	`(?:click|tap) (?:here |the (?:button|link) (?:below )?)?to apply(?: now| today)?`,
	`(?:click|tap) (?:the )?apply (?:button|link)(?: below)?`,
	`(?:send|email) (?:us )?your (?:cv|resume|résumé)(?: today| now)?`,
	`follow us(?: on)?(?: (?:linkedin|twitter|x|facebook|instagram|youtube|tiktok|glassdoor|threads|and|or))*`,
	`(?:like|find) us on (?:facebook|instagram|linkedin|twitter|x)`,
	`connect with us on (?:linkedin|twitter|x|facebook|instagram)`,
	`share this (?:job|post|posting|opportunity|role)(?: with (?:your network|a friend))?`,
	`(?:save|report) (?:this )?job`,
	`see (?:more|all|similar) jobs(?: like this)?`,
	`(?:don't|do not) miss (?:out|this opportunity)`,
	`(?:be sure to )?check out our careers? page`,
	`(?:posted|listed) (?:via|on|through) (?:linkedin|indeed|glassdoor|angellist|wellfound|workable|lever|greenhouse)`,
}

var boilerplateRes = compileBoilerplate(Boilerplate)

func compileBoilerplate(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(`^(?:`+p+`)$`))
	}
	return out
}

// clauseSepRe marks the end of a clause inside a line: a sentence terminator
// or a visual separator between footer items.
var clauseSepRe = regexp.MustCompile(`[.!?]\s+|\s[|•·]\s`)

// IsBoilerplate reports whether the whole of s is a known boilerplate phrase,
// ignoring case, surrounding punctuation and decoration.
func IsBoilerplate(s string) bool {
	key := boilerplateKey(s)
	if key == "" {
		return false
	}
	for _, re := range boilerplateRes {
		if re.MatchString(key) {
			return true
		}
	}
	return false
}

// HasBoilerplate reports whether any line of s, or any line's trailing clause,
// would be removed by Sanitize.
func HasBoilerplate(s string) bool {
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if IsBoilerplate(line) {
			return true
		}
		if _, ok := trimTrailingClause(line); ok {
			return true
		}
	}
	return false
}

// removeBoilerplate drops standalone boilerplate lines and trailing
// boilerplate clauses. Matches in the middle of a sentence are never touched.
func removeBoilerplate(s string) (string, bool) {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	changed := false
	for _, line := range lines {
		if line == "" {
			out = append(out, line)
			continue
		}
		if IsBoilerplate(line) {
			changed = true
			continue
		}
		if trimmed, ok := trimTrailingClause(line); ok {
			out = append(out, trimmed)
			changed = true
			continue
		}
		out = append(out, line)
	}
	if !changed {
		return s, false
	}
	return strings.Join(out, "\n"), true
}

// trimTrailingClause cuts boilerplate clauses off the end of line, as in
// "Great team. Apply now!". The leading clause is always kept.
func trimTrailingClause(line string) (string, bool) {
	cut := line
	trimmed := false
	for {
		core := strings.TrimRightFunc(cut, func(r rune) bool {
			return unicode.IsSpace(r) || strings.ContainsRune(".!?|•·", r)
		})
		seps := clauseSepRe.FindAllStringIndex(core, -1)
		if len(seps) == 0 {
			break
		}
		last := seps[len(seps)-1]
		if !IsBoilerplate(core[last[1]:]) {
			break
		}
		head := strings.TrimRightFunc(core[:last[0]], unicode.IsSpace)
		if sep := core[last[0]:last[1]]; strings.ContainsAny(sep, ".!?") {
			head = core[:last[0]+1]
		}
		if strings.TrimSpace(head) == "" {
			break
		}
		cut = head
		trimmed = true
	}
	return cut, trimmed
}

// boilerplateKey lower-cases s, folds typographic apostrophes and replaces
// every run of characters other than letters, digits and apostrophes with a
// single space.
func boilerplateKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range strings.ToLower(s) {
		if r == '’' || r == '‘' {
			r = '\''
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
			continue
		}
		space = true
	}
	return b.String()
}
