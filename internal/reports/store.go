package reports

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"rfp-backend/internal/shared/telemetry"
)

// Store manages the on-disk layout of report directories under a single root.
// Every report lives at <root>/<id>/ with <id>.json always present and
// <id>.pdf present only when rendering succeeded.
type Store struct {
	root string
}

// NewStore creates the report root if needed and returns a store over it.
func NewStore(root string) (*Store, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("report root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create report root: %w", err)
	}
	return &Store{root: root}, nil
}

// Root returns the report root directory.
func (s *Store) Root() string {
	return s.root
}

// CreateReportDir creates the exclusive subdirectory for a report. Directory
// creation is the uniqueness oracle: an existing directory surfaces as
// os.ErrExist and the caller retries with a fresh identifier.
func (s *Store) CreateReportDir(id string) (string, error) {
	if err := validateID(id); err != nil {
		return "", err
	}
	dir := filepath.Join(s.root, id)
	if err := os.Mkdir(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// ArtifactPaths returns the artifact path pair for a report id without
// consulting the filesystem.
func (s *Store) ArtifactPaths(id string) (jsonPath, pdfPath string) {
	dir := filepath.Join(s.root, id)
	return filepath.Join(dir, id+".json"), filepath.Join(dir, id+".pdf")
}

// Path resolves a report by id against the filesystem, the source of truth.
// pdfPath is empty when no rendered artifact exists.
func (s *Store) Path(id string) (jsonPath, pdfPath string, err error) {
	if err := validateID(id); err != nil {
		return "", "", err
	}
	jsonCandidate, pdfCandidate := s.ArtifactPaths(id)
	if _, err := os.Stat(jsonCandidate); err != nil {
		if os.IsNotExist(err) {
			return "", "", ErrNotFound
		}
		return "", "", err
	}
	if _, err := os.Stat(pdfCandidate); err != nil {
		pdfCandidate = ""
	}
	return jsonCandidate, pdfCandidate, nil
}

// Entry describes one report directory under the root.
type Entry struct {
	ID        string    `json:"id"`
	Format    string    `json:"format"`
	CreatedAt time.Time `json:"createdAt"`
}

// List returns the report entries directly under the root, newest first.
func (s *Store) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("read report root: %w", err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, dirEntry := range dirEntries {
		info, err := dirEntry.Info()
		if err != nil {
			continue
		}
		format := FormatJSON
		_, pdfPath := s.ArtifactPaths(dirEntry.Name())
		if _, err := os.Stat(pdfPath); err == nil {
			format = FormatPDF
		}
		entries = append(entries, Entry{
			ID:        dirEntry.Name(),
			Format:    format,
			CreatedAt: info.ModTime().UTC(),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}

// Cleanup removes every entry directly under the report root older than
// maxAge. Report entries are directories, so removal is recursive. Per-entry
// failures are logged and do not abort the sweep.
func (s *Store) Cleanup(maxAge time.Duration) (int, error) {
	dirEntries, err := os.ReadDir(s.root)
	if err != nil {
		return 0, fmt.Errorf("read report root: %w", err)
	}

	now := time.Now()
	removed := 0
	for _, dirEntry := range dirEntries {
		info, err := dirEntry.Info()
		if err != nil {
			telemetry.Warn("report.cleanup.stat_failed", map[string]any{
				"entry": dirEntry.Name(),
				"err":   err.Error(),
			})
			continue
		}
		if now.Sub(info.ModTime()) <= maxAge {
			continue
		}
		target := filepath.Join(s.root, dirEntry.Name())
		if err := os.RemoveAll(target); err != nil {
			telemetry.Warn("report.cleanup.remove_failed", map[string]any{
				"entry": dirEntry.Name(),
				"err":   err.Error(),
			})
			continue
		}
		removed++
	}
	return removed, nil
}

func validateID(id string) error {
	if id == "" {
		return ErrInvalidInput
	}
	clean := filepath.Clean(id)
	if clean != id || strings.ContainsAny(id, `/\`) || strings.HasPrefix(clean, "..") {
		return ErrInvalidInput
	}
	return nil
}
