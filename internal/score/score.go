// Package score estimates how formulaic or machine-written a posting reads.
//
// The score is an additive heuristic over lexical and structural signals,
// clamped to [0, 100]. It is pure and deterministic, and adding a flagged
// phrase to a text never lowers its score. The scorer has no notion of a
// threshold; callers decide what counts as "too high".
package score

import (
	"regexp"
	"strings"
	"unicode"
)

// Weights are the per-signal contributions. Lexical weights apply once per
// distinct term; RepeatedOpener applies per repeated pair up to
// MaxRepeatedOpeners pairs.
type Weights struct {
	Buzzword         int `yaml:"buzzword" json:"buzzword"`
	Filler           int `yaml:"filler" json:"filler"`
	Transition       int `yaml:"transition" json:"transition"`
	RepeatedOpener   int `yaml:"repeated_opener" json:"repeated_opener"`
	UniformLength    int `yaml:"uniform_length" json:"uniform_length"`
	NoConcreteDetail int `yaml:"no_concrete_detail" json:"no_concrete_detail"`
}

// DefaultWeights are the weights used by Score.
var DefaultWeights = Weights{
	Buzzword:         8,
	Filler:           10,
	Transition:       4,
	RepeatedOpener:   4,
	UniformLength:    8,
	NoConcreteDetail: 5,
}

const (
	MaxScore = 100
	// MaxRepeatedOpeners caps how many repeated-opener pairs are counted.
	MaxRepeatedOpeners = 5
	// UniformRunLen is the number of consecutive similar-length sentences
	// that trips the uniform-length signal.
	UniformRunLen = 4
	// MinSentenceWords excludes short sentences from the uniformity check.
	MinSentenceWords = 5
	// MinDetailWords is the length below which missing detail is not judged.
	MinDetailWords = 20
)

// Signal families.
const (
	FamilyBuzzword         = "buzzword"
	FamilyFiller           = "filler"
	FamilyTransition       = "transition"
	FamilyRepeatedOpener   = "repeated_opener"
	FamilyUniformLength    = "uniform_length"
	FamilyNoConcreteDetail = "no_concrete_detail"
)

// Signal is one contributing finding.
type Signal struct {
	Family string `json:"family"`
	Term   string `json:"term,omitempty"`
	Count  int    `json:"count"`
	Points int    `json:"points"`
}

// Report explains a score.
type Report struct {
	Score   int      `json:"score"`
	Raw     int      `json:"raw"`
	Signals []Signal `json:"signals"`
}

// Scorer computes scores with a fixed set of weights. It is safe for
// concurrent use.
type Scorer struct {
	w Weights
}

// New returns a Scorer using w. Negative weights are treated as zero.
func New(w Weights) *Scorer {
	clampNeg := func(v int) int {
		if v < 0 {
			return 0
		}
		return v
	}
	w.Buzzword = clampNeg(w.Buzzword)
	w.Filler = clampNeg(w.Filler)
	w.Transition = clampNeg(w.Transition)
	w.RepeatedOpener = clampNeg(w.RepeatedOpener)
	w.UniformLength = clampNeg(w.UniformLength)
	w.NoConcreteDetail = clampNeg(w.NoConcreteDetail)
	return &Scorer{w: w}
}

var std = New(DefaultWeights)

// Default returns the Scorer used by the package-level functions.
func Default() *Scorer { return std }

// Score returns the AI-likelihood score of text using DefaultWeights.
func Score(text string) int { return std.Score(text) }

// Explain returns the score of text with its contributing signals.
func Explain(text string) Report { return std.Explain(text) }

// Weights returns the weights in use.
func (s *Scorer) Weights() Weights { return s.w }

// Score returns the AI-likelihood score of text.
func (s *Scorer) Score(text string) int {
	return s.Explain(text).Score
}

// Explain returns the score of text with its contributing signals.
func (s *Scorer) Explain(text string) Report {
	var r Report
	if strings.TrimSpace(text) == "" {
		return r
	}
	add := func(family, term string, count, points int) {
		if points <= 0 {
			return
		}
		r.Signals = append(r.Signals, Signal{Family: family, Term: term, Count: count, Points: points})
		r.Raw += points
	}

	for _, t := range buzzwordRes {
		if n := len(t.re.FindAllStringIndex(text, -1)); n > 0 {
			add(FamilyBuzzword, t.name, n, s.w.Buzzword)
		}
	}
	for _, t := range fillerRes {
		if n := len(t.re.FindAllStringIndex(text, -1)); n > 0 {
			add(FamilyFiller, t.name, n, s.w.Filler)
		}
	}
	for _, t := range transitionRes {
		if n := len(t.re.FindAllStringIndex(text, -1)); n > 0 {
			add(FamilyTransition, t.name, n, s.w.Transition)
		}
	}

	sentences := terminatedSentences(text)
	if pairs := repeatedOpeners(sentences); pairs > 0 {
		add(FamilyRepeatedOpener, "", pairs, pairs*s.w.RepeatedOpener)
	}
	if run := longestUniformRun(sentences); run >= UniformRunLen {
		add(FamilyUniformLength, "", run, s.w.UniformLength)
	}
	if lacksConcreteDetail(text) {
		add(FamilyNoConcreteDetail, "", 1, s.w.NoConcreteDetail)
	}

	r.Score = r.Raw
	if r.Score > MaxScore {
		r.Score = MaxScore
	}
	return r
}

var wordRe = regexp.MustCompile(`[\p{L}\p{N}]+(?:[.,'’][\p{L}\p{N}]+)*`)

func words(s string) []string {
	return wordRe.FindAllString(s, -1)
}

// terminatedSentences splits text into sentences ended by ".", "!", "?" or a
// line break. A trailing fragment without a terminator is ignored so that
// appending text only ever adds sentences.
func terminatedSentences(text string) [][]string {
	var out [][]string
	start := 0
	for i, r := range text {
		end := false
		switch r {
		case '\n':
			end = true
		case '.', '!', '?':
			end = !between(text, i, unicode.IsDigit)
		}
		if !end {
			continue
		}
		if ws := words(text[start:i]); len(ws) > 0 {
			out = append(out, ws)
		}
		start = i + 1
	}
	return out
}

// between reports whether the bytes on both sides of text[i] satisfy f.
func between(text string, i int, f func(rune) bool) bool {
	if i == 0 || i+1 >= len(text) {
		return false
	}
	return f(rune(text[i-1])) && f(rune(text[i+1]))
}

// repeatedOpeners counts consecutive sentence pairs that start with the same
// word, capped at MaxRepeatedOpeners.
func repeatedOpeners(sentences [][]string) int {
	pairs := 0
	for i := 1; i < len(sentences); i++ {
		if strings.EqualFold(sentences[i][0], sentences[i-1][0]) {
			pairs++
		}
	}
	if pairs > MaxRepeatedOpeners {
		pairs = MaxRepeatedOpeners
	}
	return pairs
}

// longestUniformRun returns the length of the longest run of consecutive
// sentences of at least MinSentenceWords words whose lengths stay within a
// fifth (at least two words) of the first sentence of the run.
func longestUniformRun(sentences [][]string) int {
	best, run, base := 0, 0, 0
	for _, s := range sentences {
		n := len(s)
		switch {
		case n < MinSentenceWords:
			run = 0
			continue
		case run > 0 && abs(n-base) <= tolerance(base):
			run++
		default:
			run, base = 1, n
		}
		if run > best {
			best = run
		}
	}
	return best
}

func tolerance(base int) int {
	if t := base / 5; t > 2 {
		return t
	}
	return 2
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// lacksConcreteDetail reports a text of some length with neither a first
// person voice nor a single number in it.
func lacksConcreteDetail(text string) bool {
	ws := words(text)
	if len(ws) < MinDetailWords {
		return false
	}
	for _, w := range ws {
		lw := strings.ToLower(strings.ReplaceAll(w, "’", "'"))
		if firstPerson[lw] {
			return false
		}
		if strings.IndexFunc(w, unicode.IsDigit) >= 0 {
			return false
		}
	}
	return true
}
