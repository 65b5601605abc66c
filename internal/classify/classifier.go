// Package classify assigns badge, priority, stage, and research type to
// relevant records using ordered rule tables keyed by source and content
// cues. Classification is deterministic: rules are evaluated top to bottom
// and the first match wins.
package classify

import (
	"strings"

	"t1ddigest/internal/domain"
)

// Config carries the immutable source knowledge the rule tables key on.
type Config struct {
	// TrialSource is the source name of the clinical-trial registry.
	TrialSource string
	// JournalSources lists publications whose items count as early
	// research for staging purposes.
	JournalSources []string
}

// Classifier evaluates the four rule tables against a record.
type Classifier struct {
	cfg      Config
	journals map[string]bool
	badges   []badgeRule
	stages   []stageRule
	types    []typeRule
}

// New builds a classifier from immutable configuration.
func New(cfg Config) *Classifier {
	journals := make(map[string]bool, len(cfg.JournalSources))
	for _, src := range cfg.JournalSources {
		journals[src] = true
	}
	return &Classifier{
		cfg:      cfg,
		journals: journals,
		badges:   badgeRules(),
		stages:   stageRules(journals),
		types:    typeRules(),
	}
}

// Classify derives badge, priority, stage, and research type from the
// record. Missing fields are treated as empty strings; no rule ever
// errors.
func (c *Classifier) Classify(rec domain.RawRecord) domain.Classification {
	in := ruleInput{
		record: rec,
		title:  strings.ToLower(rec.Title),
		text:   strings.ToLower(rec.Title + " " + rec.Abstract),
		phase:  strings.ToLower(rec.Phase),
		trial:  rec.Source == c.cfg.TrialSource,
	}
	in.priority = c.priority(in)

	return domain.Classification{
		Priority:     in.priority,
		Badge:        c.badge(in),
		Stage:        c.stage(in),
		ResearchType: c.researchType(in),
	}
}

// priority implements the recruiting/phase ladder for registry records.
// A PriorityHint is honored only for non-registry sources.
func (c *Classifier) priority(in ruleInput) domain.Priority {
	if in.trial {
		if in.record.Status != "RECRUITING" {
			return domain.PriorityLow
		}
		switch in.record.Phase {
		case "PHASE3", "PHASE2":
			return domain.PriorityHigh
		case "PHASE1", "EARLY_PHASE1":
			return domain.PriorityHigh
		default:
			return domain.PriorityMedium
		}
	}

	if in.record.PriorityHint != "" {
		return in.record.PriorityHint
	}
	return domain.PriorityMedium
}

func (c *Classifier) badge(in ruleInput) domain.Badge {
	for _, rule := range c.badges {
		if rule.match(in) {
			return rule.badge
		}
	}
	return domain.BadgeNew
}

func (c *Classifier) stage(in ruleInput) string {
	for _, rule := range c.stages {
		if rule.match(in) {
			return rule.stage
		}
	}
	return "Research"
}

// researchType is mutually exclusive: only the first keyword set with a
// hit in title+abstract applies.
func (c *Classifier) researchType(in ruleInput) string {
	for _, rule := range c.types {
		if containsAny(in.text, rule.terms...) {
			return rule.label
		}
	}
	return "Research"
}
