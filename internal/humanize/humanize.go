// Package humanize rewrites stock corporate phrasing with plainer words using
// an ordered, deterministic rule list.
package humanize

import (
	"errors"
	"fmt"
	"hash/fnv"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/jobdesc/internal/score"
)

// ErrRuleApplication reports a rule that could not be applied safely. It is
// recovered inside the humanizer; the failing rule leaves its spans untouched.
var ErrRuleApplication = errors.New("rule application failed")

// Hit records one rewrite. Offset is the byte offset of Match in the input.
type Hit struct {
	RuleID      string `json:"rule"`
	Offset      int    `json:"offset"`
	Match       string `json:"match"`
	Replacement string `json:"replacement"`
}

type compiledRule struct {
	Rule
	re *regexp.Regexp
}

// Humanizer applies an ordered rule list. It holds no mutable state and is
// safe for concurrent use.
type Humanizer struct {
	rules  []compiledRule
	scorer *score.Scorer
}

// New compiles rules in order. A nil scorer uses score.Default. Rules are
// checked only for valid patterns here; other defects surface as
// ErrRuleApplication when the rule runs.
func New(rules []Rule, scorer *score.Scorer) (*Humanizer, error) {
	if scorer == nil {
		scorer = score.Default()
	}
	h := &Humanizer{scorer: scorer, rules: make([]compiledRule, 0, len(rules))}
	for _, r := range rules {
		re, err := regexp.Compile(`(?i)\b(?:` + r.Pattern + `)\b`)
		if err != nil {
			return nil, fmt.Errorf("compile rule %s: %w", r.ID, err)
		}
		h.rules = append(h.rules, compiledRule{Rule: r, re: re})
	}
	return h, nil
}

var std = mustDefault()

func mustDefault() *Humanizer {
	h, err := New(Rules, score.Default())
	if err != nil {
		panic(err)
	}
	return h
}

// Default returns the Humanizer built from Rules.
func Default() *Humanizer { return std }

// Humanize rewrites text with the default rules.
func Humanize(text string) string { return std.Humanize(text) }

// Humanize applies the rules and returns the rewritten text. The input is
// returned unchanged when no rule matched or when the rewrite would raise
// the score.
func (h *Humanizer) Humanize(text string) string {
	out, hits := h.Apply(text)
	if len(hits) == 0 {
		return text
	}
	before, after := h.scorer.Score(text), h.scorer.Score(out)
	if after > before {
		log.Debug().Int("before", before).Int("after", after).Msg("humanize: rewrite raised score, keeping input")
		return text
	}
	return out
}

// span is a piece of the text being rewritten. Spans produced by a rule are
// done and are never matched again in the same pass.
type span struct {
	text   string
	offset int
	done   bool
}

// Apply runs every rule once, in order, over the parts of text that earlier
// rules have not rewritten. It returns the rewritten text and the hits in
// rule order.
func (h *Humanizer) Apply(text string) (string, []Hit) {
	if text == "" {
		return text, nil
	}
	spans := []span{{text: text}}
	var hits []Hit
	for _, r := range h.rules {
		next, ruleHits, err := applyRule(r, spans)
		if err != nil {
			log.Warn().Err(err).Str("rule", r.ID).Msg("humanize: skipping rule")
			continue
		}
		spans = next
		hits = append(hits, ruleHits...)
	}
	if len(hits) == 0 {
		return text, nil
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, s := range spans {
		b.WriteString(s.text)
	}
	return b.String(), hits
}

// applyRule rewrites every match of r in the spans that are not done yet.
// A panic inside the rule is turned into ErrRuleApplication.
func applyRule(r compiledRule, spans []span) (out []span, hits []Hit, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out, hits = nil, nil
			err = fmt.Errorf("%w: rule %s: %v", ErrRuleApplication, r.ID, rec)
		}
	}()
	out = make([]span, 0, len(spans))
	for _, s := range spans {
		if s.done {
			out = append(out, s)
			continue
		}
		matches := r.re.FindAllStringIndex(s.text, -1)
		if len(matches) == 0 {
			out = append(out, s)
			continue
		}
		if len(r.Replacements) == 0 {
			return nil, nil, fmt.Errorf("%w: rule %s has no replacements", ErrRuleApplication, r.ID)
		}
		prev := 0
		for _, m := range matches {
			if m[0] > prev {
				out = append(out, span{text: s.text[prev:m[0]], offset: s.offset + prev})
			}
			match := s.text[m[0]:m[1]]
			abs := s.offset + m[0]
			repl := matchCase(match, choose(r.ID, match, abs, r.Replacements))
			out = append(out, span{text: repl, offset: abs, done: true})
			hits = append(hits, Hit{RuleID: r.ID, Offset: abs, Match: match, Replacement: repl})
			prev = m[1]
		}
		if prev < len(s.text) {
			out = append(out, span{text: s.text[prev:], offset: s.offset + prev})
		}
	}
	return out, hits, nil
}

// choose picks a replacement as a pure function of the rule, the matched
// text and its position in the input.
func choose(ruleID, match string, offset int, candidates []string) string {
	if len(candidates) == 1 {
		return candidates[0]
	}
	f := fnv.New32a()
	f.Write([]byte(ruleID))
	f.Write([]byte{0})
	f.Write([]byte(strings.ToLower(match)))
	f.Write([]byte{0})
	f.Write([]byte(strconv.Itoa(offset)))
	return candidates[f.Sum32()%uint32(len(candidates))]
}

// matchCase gives repl the case pattern of match: all upper case, leading
// capital, or unchanged.
func matchCase(match, repl string) string {
	if repl == "" {
		return repl
	}
	if isAllUpper(match) {
		return strings.ToUpper(repl)
	}
	first, _ := utf8.DecodeRuneInString(match)
	if unicode.IsUpper(first) {
		r, size := utf8.DecodeRuneInString(repl)
		return string(unicode.ToUpper(r)) + repl[size:]
	}
	return repl
}

func isAllUpper(s string) bool {
	letters := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			if !unicode.IsUpper(r) {
				return false
			}
			letters++
		}
	}
	return letters > 1
}
