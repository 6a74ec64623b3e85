// Package pipeline decides per document whether formatting or humanization is
// needed, runs the stages in order and packages the result for storage.
package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hyperifyio/jobdesc/internal/humanize"
	"github.com/hyperifyio/jobdesc/internal/render"
	"github.com/hyperifyio/jobdesc/internal/sanitize"
	"github.com/hyperifyio/jobdesc/internal/score"
	"github.com/hyperifyio/jobdesc/internal/structure"
)

// DefaultThreshold is the AI score at or above which text is humanized.
const DefaultThreshold = 30

// State is the terminal state of one document.
type State string

const (
	StateUnchanged State = "unchanged"
	StateFormatted State = "formatted"
	StateHumanized State = "formatted+humanized"
	StateError     State = "error"
)

var (
	// ErrMalformedInput rejects input that is not text, such as binary data.
	ErrMalformedInput = errors.New("malformed input")
	// ErrPersistence wraps a storage failure for one document.
	ErrPersistence = errors.New("persistence failed")
)

// Formatted is what the storage layer persists for a newly formatted
// document.
type Formatted struct {
	FormattedText string `json:"formatted_text"`
	// RawDescription is the untouched input, or nil when formatting left the
	// text as it was.
	RawDescription *string         `json:"raw_description"`
	Metadata       render.Metadata `json:"metadata"`
}

// NeedsFormatting is a cheap check for text that Sanitize would change or
// whose layout is not canonical: a recognized header or bullet not yet in
// "## " / "- " form, or lines not separated into paragraphs.
func NeedsFormatting(raw string) bool {
	if raw == "" {
		return false
	}
	if !sanitize.IsClean(raw) {
		return true
	}
	return !canonicalLayout(raw)
}

// canonicalLayout reports whether text already looks like Render output.
func canonicalLayout(text string) bool {
	prev := structure.LineBlank
	blankBefore := true
	for _, line := range strings.Split(text, "\n") {
		l := structure.ClassifyLine(line)
		switch l.Kind {
		case structure.LineBlank:
			blankBefore = true
			continue
		case structure.LineHeader:
			if !structure.IsCanonicalHeader(line) || !blankBefore {
				return false
			}
		case structure.LineBullet:
			if line != "- "+l.Text {
				return false
			}
			if !blankBefore && prev != structure.LineBullet {
				return false
			}
			if blankBefore && prev == structure.LineBullet {
				return false
			}
		case structure.LineText:
			if !blankBefore {
				return false
			}
		}
		if prev == structure.LineHeader && !blankBefore {
			return false
		}
		prev = l.Kind
		blankBefore = false
	}
	return prev != structure.LineHeader
}

// SanitizeAndFormat formats raw text for storage. Binary input is rejected
// with ErrMalformedInput. Text that needs no formatting is returned as-is
// with a nil RawDescription.
func SanitizeAndFormat(raw string) (Formatted, error) {
	return sanitizeAndFormat(raw, false)
}

func sanitizeAndFormat(raw string, force bool) (out Formatted, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			out = Formatted{}
			err = fmt.Errorf("format: unexpected failure: %v", rec)
		}
	}()
	if sanitize.IsBinary(raw) {
		return Formatted{}, fmt.Errorf("%w: input is not text", ErrMalformedInput)
	}
	if !force && !NeedsFormatting(raw) {
		return Formatted{FormattedText: raw, Metadata: metadata(raw)}, nil
	}
	res := render.Format(raw)
	out = Formatted{FormattedText: res.Formatted, Metadata: res.Metadata}
	if res.Formatted != raw {
		original := raw
		out.RawDescription = &original
	}
	return out, nil
}

func metadata(text string) render.Metadata {
	return render.Render(text, structure.Detect(text)).Metadata
}

// AIScore returns the AI-likelihood score of the sanitized text.
func AIScore(text string) int {
	return score.Score(sanitize.Sanitize(text))
}

// Humanize rewrites text with the default rule list. Text without matches
// is returned unchanged.
func Humanize(text string) string {
	return humanize.Humanize(text)
}

// Document is one posting as it moves through the pipeline.
type Document struct {
	ID        string          `json:"id,omitempty"`
	Source    string          `json:"source,omitempty"`
	Raw       string          `json:"raw"`
	Sanitized string          `json:"-"`
	Formatted string          `json:"formatted"`
	Metadata  render.Metadata `json:"metadata"`
	Score     int             `json:"ai_score"`
	// Humanized is set only when humanization changed the text.
	Humanized string `json:"humanized,omitempty"`
	State     State  `json:"state"`
	Err       error  `json:"-"`
}

// Description is the best current text of the document.
func (d Document) Description() string {
	if d.Humanized != "" {
		return d.Humanized
	}
	return d.Formatted
}

// Process runs every stage on one raw text: format when needed, score the
// result and humanize it when the score reaches threshold. A nil humanizer
// uses the defaults.
func Process(raw string, threshold int, h *humanize.Humanizer, s *score.Scorer) Document {
	if h == nil {
		h = humanize.Default()
	}
	if s == nil {
		s = score.Default()
	}
	doc := Document{Raw: raw, State: StateUnchanged}
	f, err := SanitizeAndFormat(raw)
	if err != nil {
		doc.State, doc.Err = StateError, err
		return doc
	}
	doc.Formatted = f.FormattedText
	doc.Metadata = f.Metadata
	if f.RawDescription != nil {
		doc.State = StateFormatted
	}
	doc.Sanitized = sanitize.Sanitize(doc.Formatted)
	doc.Score = s.Score(doc.Sanitized)
	if doc.Score >= threshold {
		if out := h.Humanize(doc.Sanitized); out != doc.Sanitized {
			doc.Humanized = out
			doc.State = StateHumanized
		}
	}
	return doc
}
