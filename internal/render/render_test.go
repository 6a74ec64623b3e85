package render

import (
	"reflect"
	"strings"
	"testing"

	"github.com/hyperifyio/jobdesc/internal/sanitize"
	"github.com/hyperifyio/jobdesc/internal/structure"
)

func TestFormat_RustPosting(t *testing.T) {
	res := Format("<p>We are looking for a <b>Rust</b> engineer.</p><p>Apply now!</p>")
	if res.Formatted != "We are looking for a Rust engineer." {
		t.Fatalf("unexpected formatted text: %q", res.Formatted)
	}
	if !reflect.DeepEqual(res.Metadata.TechStack, []string{"Rust"}) {
		t.Fatalf("tech stack: %v", res.Metadata.TechStack)
	}
	if res.Metadata.HasStructuredSections {
		t.Fatalf("no headers, should not be structured")
	}
	if res.Metadata.WordCount != 7 || res.Metadata.EstimatedReadingTime != 1 {
		t.Fatalf("metadata: %+v", res.Metadata)
	}
}

func TestRender_RequirementsSection(t *testing.T) {
	text := "Requirements:\n- Go\n- SQL\n- Docker"
	res := Render(text, structure.Detect(text))
	want := "## Requirements\n\n- Go\n- SQL\n- Docker"
	if res.Formatted != want {
		t.Fatalf("got %q want %q", res.Formatted, want)
	}
	if !res.Metadata.HasStructuredSections {
		t.Fatalf("expected structured sections")
	}
	if !reflect.DeepEqual(res.Metadata.TechStack, []string{"Go", "SQL", "Docker"}) {
		t.Fatalf("tech stack: %v", res.Metadata.TechStack)
	}
}

func TestFormat_CanonicalLayout(t *testing.T) {
	raw := `<div><p>Acme builds logistics software.</p>
<h3>What you'll do:</h3>
<ul><li>Design APIs</li><li>Own services in production</li></ul>
<p>You will work with the platform team.</p>
<h3>Benefits</h3>
<p>• Remote first</p><p>• 30 days of leave</p>
<p>Salary: $90,000 - $110,000/yr</p></div>`
	got := Format(raw).Formatted
	want := strings.Join([]string{
		"Acme builds logistics software.",
		"## What you'll do",
		"- Design APIs\n- Own services in production",
		"You will work with the platform team.",
		"## Benefits",
		"- Remote first\n- 30 days of leave",
		"Salary: $90,000 - $110,000/yr",
	}, "\n\n")
	if got != want {
		t.Fatalf("got:\n%s\n\nwant:\n%s", got, want)
	}
}

func TestFormat_HeaderlessCompensationGetsTitle(t *testing.T) {
	got := Format("Backend engineer in Lisbon.\n€60k - €75k per year\nHybrid setup.").Formatted
	want := "Backend engineer in Lisbon.\n\n## Compensation\n\n€60k - €75k per year\n\nHybrid setup."
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestFormat_Idempotent(t *testing.T) {
	inputs := []string{
		"<p>We are looking for a <b>Rust</b> engineer.</p><p>Apply now!</p>",
		"Responsibilities\n* build things\n* fix things\n\nQualifications:\n+ Go\n+ SQL\n\nFollow us on LinkedIn",
		"Backend engineer in Lisbon.\n€60k - €75k per year\nHybrid setup.",
		"**About Us**\nWe make maps.\n\n**Perks**\n• Bikes\n\nhow to apply\nEmail jobs@example.com",
		"Plain paragraph with no structure at all.",
		"",
	}
	for _, in := range inputs {
		once := Format(in)
		twice := Format(once.Formatted)
		if once.Formatted != twice.Formatted {
			t.Fatalf("not idempotent for %q:\nonce  %q\ntwice %q", in, once.Formatted, twice.Formatted)
		}
		if !reflect.DeepEqual(once.Metadata.TechStack, twice.Metadata.TechStack) {
			t.Fatalf("tech stack drifted for %q", in)
		}
	}
}

func TestRender_Deterministic(t *testing.T) {
	text := sanitize.Sanitize("Tech Stack\n- Go\n- Kafka\n\nAbout the role\nYou will own billing.")
	a := Render(text, structure.Detect(text))
	b := Render(text, structure.Detect(text))
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("render is not deterministic")
	}
}

func TestRender_EmptySectionHasNoHeading(t *testing.T) {
	text := "Benefits\n\nRequirements\n- Go"
	res := Render(text, structure.Detect(text))
	if res.Formatted != "## Requirements\n\n- Go" {
		t.Fatalf("empty section should be omitted: %q", res.Formatted)
	}
	if !res.Metadata.HasStructuredSections {
		t.Fatalf("detected headers count as structure")
	}
}

func TestMetadata_ReadingTime(t *testing.T) {
	tests := []struct {
		words int
		want  int
	}{
		{0, 0},
		{1, 1},
		{200, 1},
		{201, 2},
		{450, 3},
	}
	for _, tt := range tests {
		text := strings.TrimSpace(strings.Repeat("word ", tt.words))
		m := Render(text, structure.Detect(text)).Metadata
		if m.WordCount != tt.words || m.EstimatedReadingTime != tt.want {
			t.Fatalf("%d words: got %+v, want reading time %d", tt.words, m, tt.want)
		}
	}
}

func TestCountWords_IgnoresMarkers(t *testing.T) {
	if n := CountWords("## Requirements\n\n- Go\n- 5 years"); n != 4 {
		t.Fatalf("got %d words", n)
	}
}
