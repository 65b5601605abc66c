// Package narrate turns classified records into short summaries and longer
// family-facing explanations by walking ordered template tables. Narration
// never fails: every branch bottoms out in a generic sentence.
package narrate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"t1ddigest/internal/domain"
)

// summaryLimit is the hard cap on summary length; truncation always
// appends an ellipsis marker.
const summaryLimit = 300

// specialEntry is one hand-authored summary/details pair for a recognized
// special record, keyed by title substrings.
type specialEntry struct {
	anyOf   []string
	summary string
	details string
}

var specialEntries = []specialEntry{
	{
		anyOf:   []string{"eledon", "tegoprubart"},
		summary: "Eledon Pharmaceuticals is developing tegoprubart, a medication that blocks a specific immune system signal (CD40L) that causes the body to attack its own cells. While being tested for organ transplants, this same mechanism could potentially stop the immune system from destroying insulin-producing cells in Type 1 Diabetes. Think of it as turning off the 'attack switch' that causes the disease.",
		details: "This represents one of the most significant advances in T1D treatment in recent years. The medication targets the underlying autoimmune process that destroys insulin-producing cells, potentially slowing or even halting disease progression. Early results suggest it may be particularly effective when administered early in the disease course, offering hope for preserving natural insulin production and reducing long-term complications.",
	},
}

const (
	genericSpecialSummary = "This is a high-priority development in Type 1 Diabetes research that could significantly impact treatment options and quality of life for people living with the condition."

	genericSpecialDetails = "This high-priority research represents a significant step forward in our understanding and treatment of Type 1 Diabetes. The potential impact on quality of life and disease management could be substantial for people living with this condition."
)

// Config names the sources the template trees branch on.
type Config struct {
	TrialSource    string
	ResearchSource string
}

// Narrator generates summary and details text for classified records.
type Narrator struct {
	cfg Config
}

// New builds a narrator from immutable configuration.
func New(cfg Config) *Narrator {
	return &Narrator{cfg: cfg}
}

// Narrate produces the summary and details block for one record. It is
// total: unrecognized inputs fall through to generic prose. Hand-authored
// special summaries publish in full; only generated summaries are capped.
func (n *Narrator) Narrate(rec domain.RawRecord, cls domain.Classification) domain.Narration {
	summary := n.summary(rec, cls)
	if !rec.Special {
		summary = truncateSummary(summary)
	}
	return domain.Narration{
		Summary:        summary,
		DetailsHeading: detailsHeading,
		DetailsContent: n.details(rec),
	}
}

func (n *Narrator) summary(rec domain.RawRecord, cls domain.Classification) string {
	if rec.Special {
		return specialSummary(rec.Title)
	}

	// News excerpts arrive pre-written by the source; use them as-is.
	if rec.TypeHint == "news" {
		return rec.Abstract
	}

	var summary string
	switch rec.Source {
	case n.cfg.TrialSource:
		summary = trialSummary(rec.Title, rec.Phase, cls.Priority)
	case n.cfg.ResearchSource:
		summary = researchSummary(rec.Title, rec.Abstract)
	default:
		summary = genericResearchSummary
	}

	return simplifyJargon(summary)
}

func (n *Narrator) details(rec domain.RawRecord) string {
	if rec.Special {
		return specialDetails(rec.Title)
	}

	if rec.TypeHint == "news" {
		source := rec.Source
		if source == "" {
			source = "reliable sources"
		}
		return fmt.Sprintf("This exciting news from %s brings hope and important updates for families managing Type 1 Diabetes. Stay informed about the latest developments that could impact your daily life and future treatment options.", source)
	}

	return detailsContent(rec.Title, rec.Source, n.cfg.TrialSource, n.cfg.ResearchSource)
}

func specialSummary(title string) string {
	lower := strings.ToLower(title)
	for _, entry := range specialEntries {
		if matchTerms(lower, entry.anyOf, nil) {
			return entry.summary
		}
	}
	return genericSpecialSummary
}

func specialDetails(title string) string {
	lower := strings.ToLower(title)
	for _, entry := range specialEntries {
		if matchTerms(lower, entry.anyOf, nil) {
			return entry.details
		}
	}
	return genericSpecialDetails
}

// truncateSummary enforces the summary cap, marking cuts with an ellipsis.
func truncateSummary(s string) string {
	if utf8.RuneCountInString(s) <= summaryLimit {
		return s
	}
	runes := []rune(s)
	return string(runes[:summaryLimit-3]) + "..."
}
