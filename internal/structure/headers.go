package structure

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxHeaderLen is the longest line, in runes, still considered a header cue.
const MaxHeaderLen = 60

// HeaderSynonym maps a header pattern to a role. Pattern is matched against
// the whole normalized heading: lower case, typographic apostrophes folded,
// whitespace collapsed.
type HeaderSynonym struct {
	Pattern string
	Role    Role
}

// Headers is the ordered synonym table. When a heading matches more than one
// entry the first one wins, so more specific entries come first.
var Headers = []HeaderSynonym{
	{`(?:total )?compensation(?: (?:&|and) benefits| package| range| and equity| & equity)?`, RoleCompensation},
	{`(?:base )?salary(?: range| (?:&|and) benefits| (?:&|and) equity)?|pay(?: range)?|remuneration`, RoleCompensation},
	{`about (?:the|this) (?:role|position|job|opportunity)|(?:the )?(?:role|position|job) (?:overview|summary|description)|the role|the position|the opportunity|overview|summary`, RoleAboutRole},
	{`(?:key |main |core |your )?(?:responsibilities|duties)|what you(?:'ll| will) (?:do|be doing|work on)|your (?:role|mission|impact)|day[- ]to[- ]day|in this role(?:,? you will)?|the job`, RoleResponsibilities},
	{`(?:minimum |basic |key |job |technical |required )?(?:requirements|qualifications)|required (?:skills|experience)|(?:skills|experience)(?: (?:&|and) (?:experience|qualifications|skills))?|what you(?:'ll)? (?:need|bring)|what we(?:'re| are) looking for|who you are|about you|you have|must[- ]haves?|your (?:profile|skills|background)|(?:ideal )?candidate(?: profile)?`, RoleRequirements},
	{`nice[- ]to[- ]haves?|(?:preferred|bonus|desired|additional) (?:qualifications|skills|experience)|bonus points(?: if you have)?|pluses|it's a plus(?: if you have)?|good to have`, RoleNiceToHave},
	{`(?:benefits|perks)(?: (?:&|and) (?:perks|benefits|compensation))?|what we offer|we offer|our offer|what's in it for you|what is in it for you|why (?:join us|work (?:with|for) us)`, RoleBenefits},
	{`(?:our |the )?tech(?:nology)? stack|technolog(?:y|ies)(?: we use)?|tech we use|tools(?: (?:&|and) technologies)?|our stack|stack`, RoleTechStack},
	{`locations?|(?:work |office )?location(?: (?:&|and) (?:schedule|hours))?|where you(?:'ll| will) work|remote(?: policy| work)?|work (?:arrangement|model)`, RoleLocation},
	{`how to apply|application process|(?:our |the )?(?:hiring|interview|recruitment) process|next steps`, RoleHowToApply},
	{`about (?:us|the company|the team|our company|our team)|who we are|(?:our |the )?company(?: overview| description)?|our (?:mission|story|team|culture)|company culture`, RoleAboutCompany},
}

var headerRes = compileHeaders(Headers)

func compileHeaders(table []HeaderSynonym) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(table))
	for _, h := range table {
		out = append(out, regexp.MustCompile(`^(?:`+h.Pattern+`)$`))
	}
	return out
}

// MatchHeader returns the role of the first synonym entry matching heading.
func MatchHeader(heading string) (Role, bool) {
	key := headerKey(heading)
	if key == "" {
		return "", false
	}
	for i, re := range headerRes {
		if re.MatchString(key) {
			return Headers[i].Role, true
		}
	}
	if isAboutName(heading) {
		return RoleAboutCompany, true
	}
	return "", false
}

// aboutNameRe matches "About" followed by one to four capitalized name
// tokens, as in "About Acme Robotics".
var aboutNameRe = regexp.MustCompile(`^About((?: \p{Lu}[\p{L}&'.-]*){1,4})$`)

var aboutPronouns = map[string]bool{"me": true, "you": true, "him": true, "her": true, "them": true, "it": true, "this": true, "that": true}

// isAboutName reports an "About <Company>" heading. Matching is on the
// original casing so that prose like "About half of us" is not a header.
func isAboutName(heading string) bool {
	m := aboutNameRe.FindStringSubmatch(strings.Join(strings.Fields(heading), " "))
	if m == nil {
		return false
	}
	return !aboutPronouns[strings.ToLower(strings.TrimSpace(m[1]))]
}

// IsHeader reports whether line is a recognized header cue.
func IsHeader(line string) bool {
	h, ok := headerText(strings.TrimSpace(line))
	if !ok {
		return false
	}
	_, ok = MatchHeader(h)
	return ok
}

// IsCanonicalHeader reports whether a header line is already in the
// "## Heading" form Render emits.
func IsCanonicalHeader(line string) bool {
	h, ok := headerText(strings.TrimSpace(line))
	return ok && line == "## "+h
}

// headerText strips markdown and emphasis decoration and a trailing colon
// from a candidate header line. ok is false when the line is too long to be
// a header.
func headerText(s string) (string, bool) {
	if s == "" || utf8.RuneCountInString(s) > MaxHeaderLen {
		return "", false
	}
	s = strings.TrimLeft(s, "#")
	s = strings.Trim(s, " *_=")
	s = strings.TrimRight(s, " :.")
	s = strings.Trim(s, " *_=")
	if s == "" {
		return "", false
	}
	return s, true
}

var apostrophes = strings.NewReplacer("’", "'", "‘", "'")

// headerKey normalizes a heading for synonym matching.
func headerKey(s string) string {
	s = apostrophes.Replace(strings.ToLower(s))
	return strings.Join(strings.Fields(s), " ")
}
