package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"t1ddigest/internal/domain"
)

// Store persists the archive as a single JSON document, rewritten in full
// on every save.
type Store struct {
	path   string
	logger *slog.Logger
}

// NewStore binds the store to a file path.
func NewStore(path string, logger *slog.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Load reads the current archive. A missing file is an empty archive, not
// an error. A corrupt archive is also treated as empty, with a warning so
// operators can recover the file if they care to; the new digest's
// availability wins over preservation of unreadable history.
func (s *Store) Load() ([]domain.ArchiveEntry, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read archive %s: %w", s.path, err)
	}

	var entries []domain.ArchiveEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		s.warn("archive corrupt, starting empty", "path", s.path, "error", err)
		return nil, nil
	}
	return entries, nil
}

// Save atomically replaces the archive file: write to a temp file in the
// same directory, then rename over the target.
func (s *Store) Save(entries []domain.ArchiveEntry) error {
	raw, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode archive: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".archive-*.json")
	if err != nil {
		return fmt.Errorf("create temp archive: %w", err)
	}

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp archive: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace archive %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
