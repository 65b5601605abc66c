package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"t1ddigest/internal/classify"
	"t1ddigest/internal/domain"
	"t1ddigest/internal/narrate"
	"t1ddigest/internal/ports"
	"t1ddigest/internal/relevance"
)

const trialSource = "ClinicalTrials.gov"

type stubSource struct {
	records []domain.RawRecord
	err     error
}

func (s *stubSource) FetchLatest(ctx context.Context) ([]domain.RawRecord, error) {
	return s.records, s.err
}

type memArchive struct {
	entries []domain.ArchiveEntry
	saves   int
}

func (m *memArchive) Load() ([]domain.ArchiveEntry, error) {
	return m.entries, nil
}

func (m *memArchive) Save(entries []domain.ArchiveEntry) error {
	m.entries = entries
	m.saves++
	return nil
}

func newTestPipeline(t *testing.T, source *stubSource, store ports.ArchiveStore, settings Settings) *Pipeline {
	t.Helper()

	return NewPipeline(PipelineDeps{
		Source:  source,
		Archive: store,
		Filter: relevance.NewFilter([]string{
			"type 1 diabetes", "t1d", "insulin", "beta cell", "glucose monitoring",
		}),
		Classifier: classify.New(classify.Config{
			TrialSource:    trialSource,
			JournalSources: []string{"Nature", "PubMed"},
		}),
		Narrator: narrate.New(narrate.Config{
			TrialSource:    trialSource,
			ResearchSource: "PubMed",
		}),
		Settings: settings,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestRunKeepsRelevantTrialAndDropsIrrelevant(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	source := &stubSource{records: []domain.RawRecord{
		{
			Title:     "Phase 3 Study of Insulin Therapy in Type 1 Diabetes",
			Abstract:  "A large recruiting trial of insulin therapy for type 1 diabetes.",
			URL:       "https://clinicaltrials.gov/study/NCT000001",
			Source:    trialSource,
			Published: "2025-02-01",
			Phase:     "PHASE3",
			Status:    "RECRUITING",
		},
		{
			Title:    "Gardening Tips for Spring",
			Abstract: "Grow tomatoes on your balcony.",
			URL:      "https://example.com/gardening",
			Source:   "Lifestyle Weekly",
		},
	}}
	store := &memArchive{}
	digestPath := filepath.Join(dir, "digest.json")

	p := newTestPipeline(t, source, store, Settings{
		DigestSize: 5,
		ArchiveCap: 50,
		DigestPath: digestPath,
	})

	result, err := p.Run(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if len(result.Digest) != 1 {
		t.Fatalf("expected 1 digest entry, got %d", len(result.Digest))
	}
	entry := result.Digest[0]
	if entry.Meta.Priority != domain.PriorityHigh {
		t.Fatalf("expected HIGH priority, got %s", entry.Meta.Priority)
	}
	if entry.Badge != domain.BadgeHot {
		t.Fatalf("expected HOT badge, got %s", entry.Badge)
	}
	if entry.Summary == "" || entry.Details.Content == "" {
		t.Fatal("narration must not be empty")
	}

	if len(store.entries) != 1 {
		t.Fatalf("expected archive to grow by 1, got %d", len(store.entries))
	}

	if result.Results[1].Reason != domain.SkipIrrelevant {
		t.Fatalf("expected irrelevant skip, got %q", result.Results[1].Reason)
	}

	raw, err := os.ReadFile(digestPath)
	if err != nil {
		t.Fatalf("read digest file: %v", err)
	}
	var onDisk []domain.DigestEntry
	if err := json.Unmarshal(raw, &onDisk); err != nil {
		t.Fatalf("decode digest file: %v", err)
	}
	if len(onDisk) != 1 || onDisk[0].ID != entry.ID {
		t.Fatalf("digest file mismatch: %+v", onDisk)
	}
}

func TestEvaluateSkipReasons(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t, &stubSource{}, &memArchive{}, Settings{DigestSize: 5, ArchiveCap: 50})

	records := []domain.RawRecord{
		{Title: "", URL: "https://example.com/a"},
		{
			Title:    "Insulin and beta cell research in type 1 diabetes",
			Abstract: "insulin study",
			URL:      "https://example.com/dup",
			Source:   "PubMed",
		},
		{
			Title:    "Insulin and beta cell research in type 1 diabetes",
			Abstract: "insulin study",
			URL:      "https://example.com/dup",
			Source:   "PubMed",
		},
	}

	results := p.Evaluate(records)

	if results[0].Reason != domain.SkipMalformed {
		t.Fatalf("expected malformed, got %q", results[0].Reason)
	}
	if !results[1].Kept() {
		t.Fatalf("expected first copy kept, got %q", results[1].Reason)
	}
	if results[2].Reason != domain.SkipDuplicate {
		t.Fatalf("expected duplicate, got %q", results[2].Reason)
	}
}

func TestEvaluateEmptyURLGetsFixedFingerprint(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t, &stubSource{}, &memArchive{}, Settings{DigestSize: 5, ArchiveCap: 50})

	results := p.Evaluate([]domain.RawRecord{{
		Title:    "Insulin and beta cell research in type 1 diabetes",
		Abstract: "insulin study",
		Source:   "PubMed",
	}})

	if !results[0].Kept() {
		t.Fatalf("record without a URL must be kept, got %q", results[0].Reason)
	}
	if results[0].Entry.ID != "d41d8cd9" {
		t.Fatalf("expected empty-string fingerprint d41d8cd9, got %s", results[0].Entry.ID)
	}
}

func TestEvaluateSpecialBypassesFilter(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t, &stubSource{}, &memArchive{}, Settings{DigestSize: 5, ArchiveCap: 50})

	results := p.Evaluate([]domain.RawRecord{{
		Title:          "Curated announcement with no keywords at all",
		URL:            "https://example.com/special",
		Special:        true,
		ExcitementRank: 1,
	}})

	if !results[0].Kept() {
		t.Fatalf("special record must bypass relevance, got %q", results[0].Reason)
	}
	if results[0].Entry.ExcitementRank != 1 {
		t.Fatalf("expected excitement rank preserved, got %d", results[0].Entry.ExcitementRank)
	}
}

func TestEvaluateDefaultsMetaAndUnrankedSentinel(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t, &stubSource{}, &memArchive{}, Settings{DigestSize: 5, ArchiveCap: 50})

	results := p.Evaluate([]domain.RawRecord{{
		Title:    "Insulin delivery improves glucose monitoring in type 1 diabetes",
		Abstract: "insulin pump study",
		URL:      "https://example.com/pump",
		Source:   "PubMed",
	}})

	entry := results[0].Entry
	if entry == nil {
		t.Fatalf("expected kept entry, got %q", results[0].Reason)
	}
	if entry.Meta.Phase != "Research" {
		t.Fatalf("expected phase default Research, got %q", entry.Meta.Phase)
	}
	if entry.Meta.Status != "Published" {
		t.Fatalf("expected status default Published, got %q", entry.Meta.Status)
	}
	if entry.ExcitementRank != domain.ExcitementUnranked {
		t.Fatalf("expected unranked sentinel, got %d", entry.ExcitementRank)
	}
}

func TestRunMarksRankedOut(t *testing.T) {
	t.Parallel()

	records := make([]domain.RawRecord, 0, 3)
	for _, u := range []string{"a", "b", "c"} {
		records = append(records, domain.RawRecord{
			Title:    "Insulin and beta cell research in type 1 diabetes " + u,
			Abstract: "insulin study",
			URL:      "https://example.com/" + u,
			Source:   "PubMed",
		})
	}

	p := newTestPipeline(t, &stubSource{records: records}, &memArchive{}, Settings{
		DigestSize: 2,
		ArchiveCap: 50,
	})

	result, err := p.Run(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if len(result.Digest) != 2 {
		t.Fatalf("expected digest of 2, got %d", len(result.Digest))
	}

	rankedOut := 0
	for _, res := range result.Results {
		if res.Reason == domain.SkipRankedOut {
			rankedOut++
			if res.Entry != nil {
				t.Fatal("ranked-out result must not carry an entry")
			}
		}
	}
	if rankedOut != 1 {
		t.Fatalf("expected 1 ranked-out record, got %d", rankedOut)
	}
}

type failingArchive struct {
	err error
}

func (f *failingArchive) Load() ([]domain.ArchiveEntry, error) {
	return nil, f.err
}

func (f *failingArchive) Save(entries []domain.ArchiveEntry) error {
	return f.err
}

func TestRunSurvivesArchiveFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	reportPath := filepath.Join(dir, "report.json")

	source := &stubSource{records: []domain.RawRecord{{
		Title:     "Phase 3 Study of Insulin Therapy in Type 1 Diabetes",
		Abstract:  "A recruiting trial of insulin therapy for type 1 diabetes.",
		URL:       "https://clinicaltrials.gov/study/NCT000003",
		Source:    trialSource,
		Published: "2025-02-01",
		Phase:     "PHASE3",
		Status:    "RECRUITING",
	}}}

	p := newTestPipeline(t, source, &failingArchive{err: errors.New("disk full")}, Settings{
		DigestSize: 5,
		ArchiveCap: 50,
		ReportPath: reportPath,
	})

	result, err := p.Run(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("archive failure must not fail the run: %v", err)
	}

	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "archive") {
		t.Fatalf("expected an archive warning, got %v", result.Warnings)
	}
	if len(result.Digest) != 1 {
		t.Fatalf("expected digest of 1, got %d", len(result.Digest))
	}
	if _, err := os.Stat(reportPath); err != nil {
		t.Fatalf("report must still be written: %v", err)
	}
}

func TestRunReportCountsDigest(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	reportPath := filepath.Join(dir, "report.json")

	source := &stubSource{records: []domain.RawRecord{{
		Title:     "Phase 2 Study of Insulin in Type 1 Diabetes",
		Abstract:  "insulin trial for type 1 diabetes",
		URL:       "https://clinicaltrials.gov/study/NCT000002",
		Source:    trialSource,
		Published: "2025-02-01",
		Phase:     "PHASE2",
		Status:    "RECRUITING",
	}}}

	p := newTestPipeline(t, source, &memArchive{}, Settings{
		DigestSize: 5,
		ArchiveCap: 50,
		ReportPath: reportPath,
	})

	result, err := p.Run(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if result.Report.TotalItems != 1 {
		t.Fatalf("expected 1 reported item, got %d", result.Report.TotalItems)
	}
	if result.Report.Sources["PHASE2"] != 1 {
		t.Fatalf("expected source bucket PHASE2, got %+v", result.Report.Sources)
	}
	if _, err := os.Stat(reportPath); err != nil {
		t.Fatalf("report file missing: %v", err)
	}
}
