package classify

import (
	"strings"

	"t1ddigest/internal/domain"
)

// ruleInput is the pre-lowered view of a record that predicates match
// against. Building it once keeps every rule allocation-free.
type ruleInput struct {
	record   domain.RawRecord
	title    string // lowercased title
	text     string // lowercased title + " " + abstract
	phase    string // lowercased phase
	trial    bool   // record comes from the clinical-trial registry
	priority domain.Priority
}

// badgeRule is one row of the badge table: first predicate to match wins.
type badgeRule struct {
	name  string
	match func(in ruleInput) bool
	badge domain.Badge
}

// stageRule maps content cues to a research-pipeline stage label.
type stageRule struct {
	name  string
	match func(in ruleInput) bool
	stage string
}

// typeRule is a keyword-set membership row; the first set containing any
// term found in title+abstract decides the research type.
type typeRule struct {
	name  string
	terms []string
	label string
}

func containsAny(text string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

func badgeRules() []badgeRule {
	return []badgeRule{
		{
			name:  "trial-high-priority",
			match: func(in ruleInput) bool { return in.trial && in.priority == domain.PriorityHigh },
			badge: domain.BadgeHot,
		},
		{
			name:  "trial",
			match: func(in ruleInput) bool { return in.trial },
			badge: domain.BadgeTrial,
		},
		{
			name:  "news-hint",
			match: func(in ruleInput) bool { return in.record.TypeHint == "news" },
			badge: domain.BadgeBreaking,
		},
		{
			name: "breakthrough-language",
			match: func(in ruleInput) bool {
				return containsAny(in.title, "breakthrough", "revolutionary", "novel")
			},
			badge: domain.BadgeBreakthrough,
		},
		{
			name: "approval-language",
			match: func(in ruleInput) bool {
				return containsAny(in.title, "fda", "approval", "approved")
			},
			badge: domain.BadgeApproval,
		},
	}
}

func stageRules(journalSources map[string]bool) []stageRule {
	phaseMatch := func(in ruleInput, number, roman, enum string) bool {
		return strings.Contains(in.title, number) ||
			strings.Contains(in.phase, number) ||
			strings.Contains(in.title, roman) ||
			in.phase == enum
	}

	return []stageRule{
		{
			name:  "phase-3",
			match: func(in ruleInput) bool { return phaseMatch(in, "phase 3", "phase iii", "phase3") },
			stage: "Phase 3 Trials",
		},
		{
			name:  "phase-2",
			match: func(in ruleInput) bool { return phaseMatch(in, "phase 2", "phase ii", "phase2") },
			stage: "Phase 2 Trials",
		},
		{
			name:  "phase-1",
			match: func(in ruleInput) bool { return phaseMatch(in, "phase 1", "phase i", "phase1") },
			stage: "Phase 1 Trials",
		},
		{
			name:  "clinical-trial",
			match: func(in ruleInput) bool { return strings.Contains(in.title, "clinical trial") || in.trial },
			stage: "Clinical Trials",
		},
		{
			name: "fda-review",
			match: func(in ruleInput) bool {
				return strings.Contains(in.title, "fda approval") || strings.Contains(in.title, "approved")
			},
			stage: "FDA Review",
		},
		{
			name: "preclinical",
			match: func(in ruleInput) bool {
				return containsAny(in.title, "preclinical", "laboratory", "in vitro")
			},
			stage: "Preclinical",
		},
		{
			name:  "known-journal",
			match: func(in ruleInput) bool { return journalSources[in.record.Source] },
			stage: "Early Research",
		},
	}
}

func typeRules() []typeRule {
	return []typeRule{
		{
			name:  "cure",
			terms: []string{"cure", "reversal", "regeneration", "beta cell restoration"},
			label: "Cure Research",
		},
		{
			name:  "prevention",
			terms: []string{"prevention", "delay onset", "prevent", "screening", "early detection"},
			label: "Prevention",
		},
		{
			name:  "treatment",
			terms: []string{"treatment", "therapy", "drug", "medication", "insulin", "glucose control"},
			label: "Treatment",
		},
		{
			name:  "technology",
			terms: []string{"device", "pump", "monitor", "sensor", "artificial pancreas", "cgm"},
			label: "Technology",
		},
		{
			name:  "quality-of-life",
			terms: []string{"quality of life", "psychological", "mental health", "support", "education"},
			label: "Quality of Life",
		},
		{
			name:  "genetics",
			terms: []string{"genetic", "biomarker", "genomic", "personalized", "precision"},
			label: "Genetics",
		},
	}
}
