// Package report builds the per-run summary consumed by the monitoring
// collaborator and the data-quality checks derived from it.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"t1ddigest/internal/domain"
)

// RunReport aggregates one pipeline run for monitoring.
type RunReport struct {
	UpdateTime time.Time      `json:"update_time"`
	TotalItems int            `json:"total_items"`
	Sources    map[string]int `json:"sources"`
	Priorities map[string]int `json:"priorities"`
	Badges     map[string]int `json:"badges"`
}

// Build counts digest entries by source, priority, and badge.
//
// The source bucket reads meta.phase: the published data format stores the
// source label there for non-trial items (and the trial phase for trial
// items). The overload is part of the format and is preserved as-is.
func Build(digest []domain.DigestEntry, now time.Time) RunReport {
	r := RunReport{
		UpdateTime: now,
		TotalItems: len(digest),
		Sources:    map[string]int{},
		Priorities: map[string]int{},
		Badges:     map[string]int{},
	}

	for _, entry := range digest {
		source := entry.Meta.Phase
		if source == "" {
			source = "Unknown"
		}
		r.Sources[source]++

		priority := string(entry.Meta.Priority)
		if priority == "" {
			priority = "Unknown"
		}
		r.Priorities[priority]++

		badge := string(entry.Badge)
		if badge == "" {
			badge = "Unknown"
		}
		r.Badges[badge]++
	}

	return r
}

// Write persists the report as indented JSON at path.
func Write(r RunReport, path string) error {
	raw, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}
