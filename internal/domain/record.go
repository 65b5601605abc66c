package domain

import "time"

// Priority orders items by how urgently families should see them.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// Badge is the short newsworthiness label shown next to a digest item.
type Badge string

const (
	BadgeNew          Badge = "NEW"
	BadgeHot          Badge = "HOT"
	BadgeTrial        Badge = "TRIAL"
	BadgeBreakthrough Badge = "BREAKTHROUGH"
	BadgeApproval     Badge = "APPROVAL"
	BadgeBreaking     Badge = "BREAKING"
)

// ExcitementUnranked is the sentinel for records without a curated
// excitement rank; it sorts after every ranked record.
const ExcitementUnranked = 999

// RawRecord is a normalized item handed to the pipeline by a source
// adapter. The pipeline never mutates it.
type RawRecord struct {
	Title     string
	Abstract  string
	URL       string
	Source    string
	Published string

	// Trial-registry fields; empty for non-trial sources.
	Phase  string
	Status string

	// Optional hints supplied by the source adapter.
	PriorityHint Priority
	TypeHint     string

	Special bool
	// ExcitementRank orders curated records; 0 means unranked.
	ExcitementRank int
}

// Classification is the rule-table output for one record. It is a pure
// function of the record: same record, same classification.
type Classification struct {
	Badge        Badge
	Priority     Priority
	Stage        string
	ResearchType string
}

// Narration is the templated prose generated for one classified record.
type Narration struct {
	Summary        string
	DetailsHeading string
	DetailsContent string
}

// Details is the family-facing explanation block of a digest entry.
type Details struct {
	Heading string `json:"heading"`
	Content string `json:"content"`
}

// Meta carries the presentation metadata of a digest entry.
//
// Phase doubles as the source bucket in the run report; that overload is
// inherited from the published data format and must be preserved.
type Meta struct {
	Published    string   `json:"published"`
	Phase        string   `json:"phase"`
	Status       string   `json:"status"`
	Priority     Priority `json:"priority"`
	Stage        string   `json:"stage"`
	ResearchType string   `json:"research_type"`
}

// DigestEntry is the externally emitted unit: one ranked, narrated item.
// Entries are immutable once built; a later run producing the same logical
// item yields an identical ID and is dropped as a duplicate.
type DigestEntry struct {
	ID             string  `json:"id"`
	Badge          Badge   `json:"badge"`
	Title          string  `json:"title"`
	Summary        string  `json:"summary"`
	Details        Details `json:"details"`
	Meta           Meta    `json:"meta"`
	Link           string  `json:"link"`
	Special        bool    `json:"special"`
	ExcitementRank int     `json:"excitement_rank"`
}

// ArchiveEntry is a digest entry plus the moment it entered the archive.
type ArchiveEntry struct {
	DigestEntry
	ArchivedDate time.Time `json:"archived_date"`
}

// SkipReason explains why the pipeline dropped a record.
type SkipReason string

const (
	SkipIrrelevant SkipReason = "irrelevant"
	SkipDuplicate  SkipReason = "duplicate"
	SkipMalformed  SkipReason = "malformed"
	SkipRankedOut  SkipReason = "ranked_out"
)

// ItemResult reports the outcome for a single record so callers can see
// why items were dropped instead of only a shorter final list.
type ItemResult struct {
	Record RawRecord
	Entry  *DigestEntry
	Reason SkipReason
}

// Kept reports whether the record survived into the digest.
func (r ItemResult) Kept() bool {
	return r.Entry != nil && r.Reason == ""
}
