package relevance

import "testing"

var testKeywords = []string{
	"type 1 diabetes", "t1d", "insulin-dependent diabetes", "beta cell",
	"glucose monitoring", "artificial pancreas",
}

func TestIsRelevantBoundary(t *testing.T) {
	t.Parallel()

	f := NewFilter(testKeywords)

	cases := []struct {
		name     string
		title    string
		abstract string
		want     bool
	}{
		{"no matches", "Cardiology update", "Nothing related here.", false},
		{"one match", "Type 1 Diabetes overview", "General endocrinology.", false},
		{"exactly two matches", "Type 1 Diabetes study", "Focus on beta cell function.", true},
		{"three matches", "T1D and glucose monitoring", "Beta cell preservation trial.", true},
		{"empty record", "", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := f.IsRelevant(tc.title, tc.abstract); got != tc.want {
				t.Fatalf("IsRelevant(%q, %q) = %v, want %v", tc.title, tc.abstract, got, tc.want)
			}
		})
	}
}

func TestMatchCountDistinctKeywords(t *testing.T) {
	t.Parallel()

	f := NewFilter(testKeywords)

	// Repeating one keyword still counts once.
	count := f.MatchCount("t1d t1d t1d", "t1d again")
	if count != 1 {
		t.Fatalf("expected 1 distinct match, got %d", count)
	}
}

func TestMatchCountCaseInsensitive(t *testing.T) {
	t.Parallel()

	f := NewFilter([]string{"Beta Cell"})
	if f.MatchCount("BETA CELL regeneration", "") != 1 {
		t.Fatal("expected case-insensitive match")
	}
}
