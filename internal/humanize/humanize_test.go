package humanize

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/hyperifyio/jobdesc/internal/score"
)

const buzzy = "We leverage modern tools to utilize cloud services. " +
	"We leverage modern tools to utilize cloud services because we are passionate and delve into problems. " +
	"We are passionate about quality and delve deep into data. " +
	"Our team will leverage and utilize every skill we are passionate about as we delve further. " +
	"You will delve, leverage, utilize and stay passionate."

var samples = []string{
	buzzy,
	"Moreover, you will spearhead robust, seamless pipelines. Furthermore, you will foster synergy.",
	"Join our fast-paced environment! We need a rockstar ninja who can wear many hats and hit the ground running.",
	"In conclusion, it's worth noting that our cutting-edge, world-class platform empowers teams.",
	"LEVERAGE your skills. Leveraging data is key. We leveraged Kafka.",
	"Plain text about building billing software in Go for 12 clinics.",
	"",
}

func TestHumanize_RemovesScenarioBuzzwords(t *testing.T) {
	before := score.Score(buzzy)
	if before < 30 {
		t.Fatalf("fixture should score >= 30, got %d", before)
	}
	out := Humanize(buzzy)
	flagged := regexp.MustCompile(`(?i)leverag|utili[sz]|passionat|delv`)
	if m := flagged.FindString(out); m != "" {
		t.Fatalf("flagged word %q survived: %q", m, out)
	}
	if after := score.Score(out); after >= before {
		t.Fatalf("score did not drop: before %d after %d", before, after)
	}
}

func TestHumanize_Deterministic(t *testing.T) {
	for _, in := range samples {
		a, b := Humanize(in), Humanize(in)
		if a != b {
			t.Fatalf("non-deterministic output for %q:\n%q\n%q", in, a, b)
		}
	}
}

func TestHumanize_Converges(t *testing.T) {
	for _, in := range samples {
		out := Humanize(in)
		if out != in && score.Score(out) > score.Score(in) {
			t.Fatalf("score rose from %d to %d for %q", score.Score(in), score.Score(out), in)
		}
	}
}

func TestHumanize_SecondPassIsNoOp(t *testing.T) {
	for _, in := range samples {
		once := Humanize(in)
		twice := Humanize(once)
		if once != twice {
			t.Fatalf("second pass changed text:\n%q\n%q", once, twice)
		}
		if score.Score(twice) != score.Score(once) {
			t.Fatalf("second pass changed score for %q", in)
		}
	}
}

func TestHumanize_NoMatchReturnsInput(t *testing.T) {
	in := "We deleveraged the balance sheet and hired 3 engineers."
	out, hits := Default().Apply(in)
	if len(hits) != 0 || out != in {
		t.Fatalf("expected no rewrite, got %q (%+v)", out, hits)
	}
	if got := Humanize(in); got != in {
		t.Fatalf("expected input back, got %q", got)
	}
}

func TestApply_PreservesCase(t *testing.T) {
	out, _ := Default().Apply("LEVERAGE it. Utilize it. utilize it.")
	if !strings.HasPrefix(out, "USE ") && !strings.HasPrefix(out, "DRAW ON ") {
		t.Fatalf("upper case not preserved: %q", out)
	}
	if !strings.Contains(out, "Use it.") || !strings.Contains(out, "use it.") {
		t.Fatalf("case not preserved: %q", out)
	}
}

func TestApply_NoCascadeIntoRewrittenSpans(t *testing.T) {
	h, err := New([]Rule{
		{ID: "a", Pattern: `alpha`, Replacements: []string{"beta"}},
		{ID: "b", Pattern: `beta`, Replacements: []string{"gamma"}},
	}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, hits := h.Apply("alpha and beta")
	if out != "beta and gamma" {
		t.Fatalf("got %q", out)
	}
	if len(hits) != 2 || hits[0].RuleID != "a" || hits[1].RuleID != "b" || hits[1].Offset != 10 {
		t.Fatalf("unexpected hits: %+v", hits)
	}
}

func TestApply_BrokenRuleIsSkipped(t *testing.T) {
	h, err := New([]Rule{
		{ID: "empty", Pattern: `leverage`},
		{ID: "ok", Pattern: `utilize`, Replacements: []string{"use"}},
	}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, hits := h.Apply("leverage and utilize")
	if out != "leverage and use" || len(hits) != 1 {
		t.Fatalf("got %q %+v", out, hits)
	}
	_, _, err = applyRule(h.rules[0], []span{{text: "leverage"}})
	if !errors.Is(err, ErrRuleApplication) {
		t.Fatalf("expected ErrRuleApplication, got %v", err)
	}
}

func TestNew_InvalidPattern(t *testing.T) {
	if _, err := New([]Rule{{ID: "bad", Pattern: `(`, Replacements: []string{"x"}}}, nil); err == nil {
		t.Fatalf("expected compile error")
	}
}

func TestHumanize_KeepsInputWhenScoreWouldRise(t *testing.T) {
	h, err := New([]Rule{{ID: "worse", Pattern: `plain`, Replacements: []string{"synergy"}}}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	in := "A plain sentence."
	if got := h.Humanize(in); got != in {
		t.Fatalf("expected input kept, got %q", got)
	}
}

func TestRules_ReplacementsDoNotTripScorer(t *testing.T) {
	seen := map[string]bool{}
	for _, r := range Rules {
		if seen[r.ID] {
			t.Fatalf("duplicate rule id %q", r.ID)
		}
		seen[r.ID] = true
		if len(r.Replacements) == 0 {
			t.Fatalf("rule %q has no replacements", r.ID)
		}
		for _, repl := range r.Replacements {
			for _, s := range score.Explain(repl).Signals {
				switch s.Family {
				case score.FamilyBuzzword, score.FamilyFiller, score.FamilyTransition:
					t.Fatalf("replacement %q of rule %q trips %s %q", repl, r.ID, s.Family, s.Term)
				}
			}
		}
	}
}

func TestRules_CoverScoredTerms(t *testing.T) {
	var all []string
	for _, terms := range [][]score.Term{score.Buzzwords, score.Fillers, score.Transitions} {
		for _, t := range terms {
			all = append(all, t.Name)
		}
	}
	for _, name := range all {
		out := Humanize(name)
		for _, s := range score.Explain(out).Signals {
			if s.Term == name {
				t.Fatalf("term %q survives humanize: %q", name, out)
			}
		}
	}
}

func BenchmarkHumanize(b *testing.B) {
	text := strings.Repeat(buzzy+"\n", 20)
	for i := 0; i < b.N; i++ {
		_ = Humanize(text)
	}
}
