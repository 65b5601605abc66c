package present

import (
	"strings"
	"testing"

	"t1ddigest/internal/domain"
)

func TestRenderDigestEmpty(t *testing.T) {
	t.Parallel()

	got, err := RenderDigest(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "No breaking news at this time") {
		t.Fatalf("expected placeholder, got %q", got)
	}
}

func TestRenderDigestFields(t *testing.T) {
	t.Parallel()

	digest := []domain.DigestEntry{
		{
			ID:      "abc12345",
			Badge:   domain.BadgeHot,
			Title:   "Phase 3 trial recruiting",
			Summary: "A promising large-scale study.",
			Details: domain.Details{Heading: "What This Means", Content: "Hope for families."},
			Meta: domain.Meta{
				Published: "2025-03-01",
				Phase:     "PHASE3",
				Status:    "RECRUITING",
				Priority:  domain.PriorityHigh,
			},
			Link: "https://clinicaltrials.gov/study/NCT000001",
		},
	}

	got, err := RenderDigest(digest)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		`<div class="breaking-badge">HOT</div>`,
		"Phase 3 trial recruiting",
		"A promising large-scale study.",
		"Hope for families.",
		"Published: 2025-03-01",
		"Priority: HIGH",
		`href="https://clinicaltrials.gov/study/NCT000001"`,
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("rendered fragment missing %q:\n%s", want, got)
		}
	}
}

func TestRenderDigestEscapesMarkup(t *testing.T) {
	t.Parallel()

	digest := []domain.DigestEntry{{
		Title:   "<script>alert(1)</script>",
		Summary: "safe",
	}}

	got, err := RenderDigest(digest)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(got, "<script>") {
		t.Fatalf("markup must be escaped:\n%s", got)
	}
}
