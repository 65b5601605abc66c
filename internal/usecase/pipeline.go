// Package usecase orchestrates a digest run: fetch, filter, classify,
// narrate, deduplicate, rank, and publish.
package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"t1ddigest/internal/archive"
	"t1ddigest/internal/classify"
	"t1ddigest/internal/domain"
	"t1ddigest/internal/narrate"
	"t1ddigest/internal/ports"
	"t1ddigest/internal/present"
	"t1ddigest/internal/rank"
	"t1ddigest/internal/relevance"
	"t1ddigest/internal/report"
)

const (
	defaultPhase  = "Research"
	defaultStatus = "Published"
)

// Settings carries the run parameters fixed at construction time.
type Settings struct {
	DigestSize int
	ArchiveCap int
	DigestPath string
	HTMLPath   string
	ReportPath string
}

// PipelineDeps wires all collaborators into the orchestration pipeline.
type PipelineDeps struct {
	Source     ports.RecordSource
	Archive    ports.ArchiveStore
	History    ports.HistoryRepository
	Filter     *relevance.Filter
	Classifier *classify.Classifier
	Narrator   *narrate.Narrator
	Settings   Settings
	Logger     *slog.Logger
}

// Pipeline implements the digest-generation workflow.
type Pipeline struct {
	source     ports.RecordSource
	archive    ports.ArchiveStore
	history    ports.HistoryRepository
	filter     *relevance.Filter
	classifier *classify.Classifier
	narrator   *narrate.Narrator
	settings   Settings
	logger     *slog.Logger
}

// RunResult captures everything a single run produced. Warnings lists
// non-fatal failures the run survived, such as an unwritable archive.
type RunResult struct {
	Digest   []domain.DigestEntry
	Results  []domain.ItemResult
	Report   report.RunReport
	Warnings []string
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		source:     deps.Source,
		archive:    deps.Archive,
		history:    deps.History,
		filter:     deps.Filter,
		classifier: deps.Classifier,
		narrator:   deps.Narrator,
		settings:   deps.Settings,
		logger:     deps.Logger,
	}
}

// Run executes one full digest cycle and publishes its outputs.
func (p *Pipeline) Run(ctx context.Context, runAt time.Time) (*RunResult, error) {
	records, err := p.source.FetchLatest(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch records: %w", err)
	}
	p.logger.Info("records fetched", "count", len(records))

	results := p.Evaluate(records)

	kept := make([]domain.DigestEntry, 0, len(results))
	for _, res := range results {
		if res.Kept() {
			kept = append(kept, *res.Entry)
		}
	}

	digest := rank.Select(kept, p.settings.DigestSize)
	markRankedOut(results, digest)
	p.logger.Info("digest selected", "kept", len(kept), "digest", len(digest))

	if err := p.writeOutputs(digest); err != nil {
		return nil, err
	}

	// Archive failures must not take the run down: the fresh digest is
	// already published, so log and report the problem instead.
	var warnings []string
	if err := p.updateArchive(runAt, digest); err != nil {
		p.logger.Warn("archive update failed", "error", err)
		warnings = append(warnings, fmt.Sprintf("archive: %v", err))
	}

	if err := p.recordHistory(ctx, runAt, digest); err != nil {
		return nil, err
	}

	runReport := report.Build(digest, runAt)
	if p.settings.ReportPath != "" {
		if err := report.Write(runReport, p.settings.ReportPath); err != nil {
			return nil, fmt.Errorf("write report: %w", err)
		}
	}

	return &RunResult{Digest: digest, Results: results, Report: runReport, Warnings: warnings}, nil
}

// Evaluate classifies every record into a per-item outcome. It performs
// no I/O; ranking and persistence happen in Run.
func (p *Pipeline) Evaluate(records []domain.RawRecord) []domain.ItemResult {
	results := make([]domain.ItemResult, 0, len(records))
	seen := map[string]struct{}{}

	for _, rec := range records {
		res := domain.ItemResult{Record: rec}

		switch {
		// An empty URL is legal: it collapses to the fixed empty-string
		// fingerprint. Only a missing title makes a record unusable.
		case rec.Title == "":
			res.Reason = domain.SkipMalformed
		case !rec.Special && !p.filter.IsRelevant(rec.Title, rec.Abstract):
			res.Reason = domain.SkipIrrelevant
		default:
			entry := p.buildEntry(rec)
			if _, dup := seen[entry.ID]; dup {
				res.Reason = domain.SkipDuplicate
			} else {
				seen[entry.ID] = struct{}{}
				res.Entry = &entry
			}
		}

		if res.Reason != "" {
			p.logger.Debug("record skipped", "title", rec.Title, "reason", res.Reason)
		}
		results = append(results, res)
	}

	return results
}

func (p *Pipeline) buildEntry(rec domain.RawRecord) domain.DigestEntry {
	classification := p.classifier.Classify(rec)
	narration := p.narrator.Narrate(rec, classification)

	phase := rec.Phase
	if phase == "" {
		phase = defaultPhase
	}
	status := rec.Status
	if status == "" {
		status = defaultStatus
	}
	excitement := rec.ExcitementRank
	if excitement == 0 {
		excitement = domain.ExcitementUnranked
	}

	return domain.DigestEntry{
		ID:      rank.Fingerprint(rec.URL),
		Badge:   classification.Badge,
		Title:   rec.Title,
		Summary: narration.Summary,
		Details: domain.Details{
			Heading: narration.DetailsHeading,
			Content: narration.DetailsContent,
		},
		Meta: domain.Meta{
			Published:    rec.Published,
			Phase:        phase,
			Status:       status,
			Priority:     classification.Priority,
			Stage:        classification.Stage,
			ResearchType: classification.ResearchType,
		},
		Link:           rec.URL,
		Special:        rec.Special,
		ExcitementRank: excitement,
	}
}

func (p *Pipeline) writeOutputs(digest []domain.DigestEntry) error {
	if p.settings.DigestPath != "" {
		if err := writeDigestJSON(p.settings.DigestPath, digest); err != nil {
			return fmt.Errorf("write digest: %w", err)
		}
	}

	if p.settings.HTMLPath != "" {
		html, err := present.RenderDigest(digest)
		if err != nil {
			return fmt.Errorf("render digest: %w", err)
		}
		if err := os.WriteFile(p.settings.HTMLPath, []byte(html), 0o644); err != nil {
			return fmt.Errorf("write digest html: %w", err)
		}
	}

	return nil
}

func (p *Pipeline) updateArchive(runAt time.Time, digest []domain.DigestEntry) error {
	if p.archive == nil {
		return nil
	}

	existing, err := p.archive.Load()
	if err != nil {
		return fmt.Errorf("load archive: %w", err)
	}
	merged := archive.Merge(existing, digest, runAt, p.settings.ArchiveCap)
	if err := p.archive.Save(merged); err != nil {
		return fmt.Errorf("save archive: %w", err)
	}
	p.logger.Info("archive updated", "entries", len(merged))
	return nil
}

func (p *Pipeline) recordHistory(ctx context.Context, runAt time.Time, digest []domain.DigestEntry) error {
	if p.history == nil || len(digest) == 0 {
		return nil
	}

	ids := make([]string, len(digest))
	for i, entry := range digest {
		ids[i] = entry.ID
	}

	stored, err := p.history.AlreadyStored(ctx, ids)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	repeats := 0
	for _, entry := range digest {
		if stored[entry.ID] {
			repeats++
		}
		if err := p.history.SaveEntry(ctx, runAt, entry); err != nil {
			return fmt.Errorf("persist entry %s: %w", entry.ID, err)
		}
	}
	p.logger.Debug("history recorded", "entries", len(digest), "repeats", repeats)

	return nil
}

func markRankedOut(results []domain.ItemResult, digest []domain.DigestEntry) {
	selected := make(map[string]struct{}, len(digest))
	for _, entry := range digest {
		selected[entry.ID] = struct{}{}
	}
	for i := range results {
		if results[i].Entry == nil {
			continue
		}
		if _, ok := selected[results[i].Entry.ID]; !ok {
			results[i].Reason = domain.SkipRankedOut
			results[i].Entry = nil
		}
	}
}

func writeDigestJSON(path string, digest []domain.DigestEntry) error {
	if digest == nil {
		digest = []domain.DigestEntry{}
	}
	raw, err := json.MarshalIndent(digest, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal digest: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
