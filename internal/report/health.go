package report

import (
	"fmt"
	"time"

	"t1ddigest/internal/domain"
)

// Health statuses, ordered from best to worst.
const (
	StatusHealthy  = "HEALTHY"
	StatusWarning  = "WARNING"
	StatusCritical = "CRITICAL"
)

const (
	minTitleLength   = 10
	minSummaryLength = 20
	maxDigestAge     = 12 * time.Hour
)

// QualityReport is the outcome of validating one digest.
type QualityReport struct {
	Timestamp  time.Time      `json:"timestamp"`
	TotalItems int            `json:"total_items"`
	ValidItems int            `json:"valid_items"`
	Issues     []string       `json:"issues"`
	Sources    map[string]int `json:"sources"`
	Priorities map[string]int `json:"priorities"`
	Badges     map[string]int `json:"badges"`
	Status     string         `json:"overall_status"`
}

// CheckQuality validates each digest entry and reports aggregate issues.
// generatedAt is when the digest was produced; zero disables the
// staleness check.
func CheckQuality(digest []domain.DigestEntry, generatedAt, now time.Time) QualityReport {
	counts := Build(digest, now)

	q := QualityReport{
		Timestamp:  now,
		TotalItems: len(digest),
		Issues:     []string{},
		Sources:    counts.Sources,
		Priorities: counts.Priorities,
		Badges:     counts.Badges,
		Status:     StatusHealthy,
	}

	if len(digest) == 0 {
		q.Issues = append(q.Issues, "no digest items found")
		q.Status = StatusCritical
		return q
	}

	if !generatedAt.IsZero() && now.Sub(generatedAt) > maxDigestAge {
		q.Issues = append(q.Issues, fmt.Sprintf("digest is %s old - pipeline may not be running", now.Sub(generatedAt).Round(time.Minute)))
		q.Status = StatusCritical
	}

	for _, entry := range digest {
		if issue := validateEntry(entry); issue != "" {
			q.Issues = append(q.Issues, issue)
			continue
		}
		q.ValidItems++
	}

	if len(q.Sources) < 2 {
		q.Issues = append(q.Issues, "low source diversity")
	}
	if len(q.Priorities) < 2 {
		q.Issues = append(q.Issues, "low priority diversity")
	}

	if q.Status == StatusHealthy && len(q.Issues) > 0 {
		q.Status = StatusWarning
	}
	return q
}

func validateEntry(entry domain.DigestEntry) string {
	switch {
	case entry.Title == "" || entry.Summary == "" || entry.Badge == "" || entry.Link == "":
		return fmt.Sprintf("missing required field in item %q", entry.ID)
	case len(entry.Title) < minTitleLength:
		return fmt.Sprintf("title too short in item %q", entry.ID)
	case len(entry.Summary) < minSummaryLength:
		return fmt.Sprintf("summary too short in item %q", entry.ID)
	default:
		return ""
	}
}
