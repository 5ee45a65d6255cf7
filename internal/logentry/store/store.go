package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/resume-kb/achievement-log-backend/internal/achievements/domain"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slug derives a URL-safe file name fragment from a title: lowercase,
// non-alphanumeric runs collapsed to a single hyphen, trimmed.
func Slug(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = nonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// EntryPath returns the repository-relative path for an entry:
// logs/<year>/<date>_<slug>.json.
func EntryPath(date time.Time, slug string) string {
	name := fmt.Sprintf("%s_%s.json", date.Format(domain.DateLayout), slug)
	return filepath.Join("logs", date.Format("2006"), name)
}

// Store writes achievement records into the repository working tree.
type Store struct {
	root string
}

// NewStore creates a store rooted at the git working copy.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Write serializes the record and writes it under logs/<year>/. When a file
// already exists at the derived path with different content, the name is
// disambiguated with a numeric suffix rather than silently overwritten; an
// identical file is rewritten in place so git can report nothing to commit.
// The returned path is relative to the repository root.
func (s *Store) Write(rec domain.Achievement) (string, error) {
	date, err := time.Parse(domain.DateLayout, rec.Date)
	if err != nil {
		return "", domain.ErrInvalidDate
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal entry: %w", err)
	}
	data = append(data, '\n')

	relPath := EntryPath(date, Slug(rec.Title))
	relPath, err = s.disambiguate(relPath, data)
	if err != nil {
		return "", err
	}

	absPath := filepath.Join(s.root, relPath)
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return "", fmt.Errorf("create entry directory: %w", err)
	}
	if err := os.WriteFile(absPath, data, 0o644); err != nil {
		return "", fmt.Errorf("write entry: %w", err)
	}

	return relPath, nil
}

// disambiguate returns the first path whose file either does not exist or
// already holds exactly the content about to be written.
func (s *Store) disambiguate(relPath string, data []byte) (string, error) {
	base := strings.TrimSuffix(relPath, ".json")
	candidate := relPath
	for i := 2; ; i++ {
		existing, err := os.ReadFile(filepath.Join(s.root, candidate))
		if os.IsNotExist(err) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("check existing entry: %w", err)
		}
		if bytes.Equal(existing, data) {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d.json", base, i)
	}
}
