package score

import "regexp"

// Term is one entry of a scoring lexicon. Pattern is a case-insensitive
// regular expression matched on word boundaries; it should cover the
// inflected forms of the term.
type Term struct {
	Name    string
	Pattern string
}

// Buzzwords are stock corporate verbs and adjectives. Each distinct term
// counts once no matter how often it appears.
var Buzzwords = []Term{
	{"leverage", `leverag(?:e|es|ed|ing)`},
	{"utilize", `utili[sz](?:e|es|ed|ing|ation)`},
	{"streamline", `streamlin(?:e|es|ed|ing)`},
	{"delve", `delv(?:e|es|ed|ing)`},
	{"passionate", `passionate(?:ly)?`},
	{"navigate", `navigat(?:e|es|ed|ing)`},
	{"robust", `robust`},
	{"seamless", `seamless(?:ly)?`},
	{"synergy", `synerg(?:y|ies|istic)`},
	{"spearhead", `spearhead(?:s|ed|ing)?`},
	{"empower", `empower(?:s|ed|ing|ment)?`},
	{"foster", `foster(?:s|ed|ing)?`},
	{"holistic", `holistic(?:ally)?`},
	{"elevate", `elevat(?:e|es|ed|ing)`},
	{"embark", `embark(?:s|ed|ing)?`},
	{"unlock", `unlock(?:s|ed|ing)?`},
	{"unparalleled", `unparalleled`},
	{"meticulous", `meticulous(?:ly)?`},
	{"tapestry", `tapestr(?:y|ies)`},
	{"innovative", `innovative`},
	{"paradigm", `paradigms?`},
	{"ever-evolving", `ever[- ](?:evolving|changing)`},
}

// Fillers are generic job-ad filler phrases.
var Fillers = []Term{
	{"fast-paced", `fast[- ]paced`},
	{"wear many hats", `wear(?:ing)? many hats`},
	{"rockstar", `rock ?stars?`},
	{"ninja", `ninjas?`},
	{"guru", `gurus?`},
	{"unicorn", `unicorns?`},
	{"self-starter", `self[- ]starters?`},
	{"hit the ground running", `hit the ground running`},
	{"think outside the box", `think(?:ing)? outside (?:of )?the box`},
	{"team player", `team players?`},
	{"go-getter", `go[- ]getters?`},
	{"dynamic team", `dynamic team`},
	{"cutting-edge", `cutting[- ]edge`},
	{"world-class", `world[- ]class`},
	{"state-of-the-art", `state[- ]of[- ]the[- ]art`},
	{"results-driven", `results[- ]driven`},
	{"detail-oriented", `detail[- ]oriented`},
	{"work hard play hard", `work hard,? play hard`},
	{"game changer", `game[- ]changers?`},
	{"move the needle", `move the needle`},
	{"best-in-class", `best[- ]in[- ]class`},
}

// Transitions are formulaic connective phrases.
var Transitions = []Term{
	{"moreover", `moreover`},
	{"furthermore", `furthermore`},
	{"additionally", `additionally`},
	{"in conclusion", `in conclusion`},
	{"it's worth noting", `it(?:['’]s| is) worth noting`},
	{"that being said", `that being said`},
	{"needless to say", `needless to say`},
	{"in today's world", `in today['’]s (?:[a-z-]+ )?(?:world|landscape|market)`},
}

// firstPerson marks text written by an actual person or company.
var firstPerson = map[string]bool{
	"i": true, "i'm": true, "i've": true, "me": true, "my": true,
	"we": true, "we're": true, "we've": true, "we'll": true,
	"us": true, "our": true, "ours": true,
}

type compiledTerm struct {
	name string
	re   *regexp.Regexp
}

func compileTerms(terms []Term) []compiledTerm {
	out := make([]compiledTerm, 0, len(terms))
	for _, t := range terms {
		out = append(out, compiledTerm{
			name: t.Name,
			re:   regexp.MustCompile(`(?i)\b(?:` + t.Pattern + `)\b`),
		})
	}
	return out
}

var (
	buzzwordRes   = compileTerms(Buzzwords)
	fillerRes     = compileTerms(Fillers)
	transitionRes = compileTerms(Transitions)
)
