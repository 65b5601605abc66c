package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"t1ddigest/internal/domain"
)

func digestEntry(id string) domain.DigestEntry {
	return domain.DigestEntry{ID: id, Title: "entry " + id, ExcitementRank: domain.ExcitementUnranked}
}

func TestMergeAppendsNewEntries(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	existing := Merge(nil, []domain.DigestEntry{digestEntry("a")}, now, DefaultCap)

	later := now.Add(24 * time.Hour)
	merged := Merge(existing, []domain.DigestEntry{digestEntry("a"), digestEntry("b")}, later, DefaultCap)

	if len(merged) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(merged))
	}
	if merged[0].ID != "a" || merged[1].ID != "b" {
		t.Fatalf("unexpected order: %s, %s", merged[0].ID, merged[1].ID)
	}
	if !merged[0].ArchivedDate.Equal(now) {
		t.Fatal("existing entry must keep its original archival date")
	}
	if !merged[1].ArchivedDate.Equal(later) {
		t.Fatal("new entry must be stamped with merge time")
	}
}

func TestMergeIdempotent(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	digest := []domain.DigestEntry{digestEntry("a"), digestEntry("b")}

	once := Merge(nil, digest, now, DefaultCap)
	twice := Merge(once, digest, now.Add(time.Hour), DefaultCap)

	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("re-merging the same digest must be a no-op:\n%v\n%v", once, twice)
	}
}

func TestMergeCapEvictsOldest(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	digest := make([]domain.DigestEntry, 60)
	for i := range digest {
		digest[i] = digestEntry(fmt.Sprintf("id-%02d", i))
	}

	merged := Merge(nil, digest, now, DefaultCap)
	if len(merged) != DefaultCap {
		t.Fatalf("expected %d entries, got %d", DefaultCap, len(merged))
	}
	// The 10 oldest-inserted entries are dropped from the front.
	if merged[0].ID != "id-10" {
		t.Fatalf("expected id-10 first after eviction, got %s", merged[0].ID)
	}
	if merged[len(merged)-1].ID != "id-59" {
		t.Fatalf("expected id-59 last, got %s", merged[len(merged)-1].ID)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "archive.json")
	store := NewStore(path, nil)

	now := time.Date(2025, time.March, 1, 8, 30, 0, 0, time.UTC)
	want := Merge(nil, []domain.DigestEntry{digestEntry("a"), digestEntry("b")}, now, DefaultCap)

	if err := store.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].DigestEntry != want[i].DigestEntry {
			t.Fatalf("entry %d mismatch:\n%+v\n%+v", i, got[i].DigestEntry, want[i].DigestEntry)
		}
		if !got[i].ArchivedDate.Equal(want[i].ArchivedDate) {
			t.Fatalf("entry %d archived date mismatch: %v vs %v", i, got[i].ArchivedDate, want[i].ArchivedDate)
		}
	}
}

func TestStoreLoadMissingFile(t *testing.T) {
	t.Parallel()

	store := NewStore(filepath.Join(t.TempDir(), "absent.json"), nil)
	got, err := store.Load()
	if err != nil {
		t.Fatalf("missing archive must not error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("missing archive must load empty, got %d entries", len(got))
	}
}

func TestStoreLoadCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "archive.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewStore(path, nil)
	got, err := store.Load()
	if err != nil {
		t.Fatalf("corrupt archive must not abort the run: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("corrupt archive must load empty, got %d entries", len(got))
	}
}
