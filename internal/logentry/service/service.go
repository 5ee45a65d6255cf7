package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/resume-kb/achievement-log-backend/config"
	"github.com/resume-kb/achievement-log-backend/internal/achievements/domain"
	"github.com/resume-kb/achievement-log-backend/internal/logentry/gitops"
	"github.com/resume-kb/achievement-log-backend/internal/logentry/repository"
	"github.com/resume-kb/achievement-log-backend/internal/logentry/store"
)

// Category classifies a persistence failure so the client can branch on it.
type Category string

const (
	CategoryNone       Category = ""
	CategoryValidation Category = "validation"
	CategoryFilesystem Category = "filesystem"
	CategoryGit        Category = "git"
	CategoryAuth       Category = "auth"
)

// Result is the outcome of an AddLogEntry call.
type Result struct {
	OK         bool
	Message    string
	Category   Category
	FilePath   string
	CommitHash string
}

// Service persists achievement records: one JSON file per entry, committed and
// pushed to the configured remote. A mutex serializes the commit/push sequence
// so the working copy has a single logical writer.
type Service struct {
	cfg   config.GitConfig
	store *store.Store
	git   *gitops.Client
	index *repository.EntryIndexRepo // nil when the Postgres index is disabled
	log   *zap.Logger

	mu sync.Mutex
}

// NewService creates a persistence service. index may be nil.
func NewService(cfg config.GitConfig, git *gitops.Client, index *repository.EntryIndexRepo, log *zap.Logger) *Service {
	return &Service{
		cfg:   cfg,
		store: store.NewStore(cfg.RepoDir),
		git:   git,
		index: index,
		log:   log,
	}
}

// AddLogEntry validates the record, writes it under logs/<year>/, commits it
// with the bot identity, and pushes to the remote. Failures are reported as a
// categorized Result; a failed push leaves the local file and commit in place.
func (s *Service) AddLogEntry(ctx context.Context, rec domain.Achievement) Result {
	if err := rec.Validate(); err != nil {
		return Result{Message: err.Error(), Category: CategoryValidation}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	relPath, err := s.store.Write(rec)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidDate) {
			return Result{Message: err.Error(), Category: CategoryValidation}
		}
		return Result{Message: err.Error(), Category: CategoryFilesystem}
	}

	if err := s.git.EnsureIdentity(ctx, s.cfg.BotName, s.cfg.BotEmail); err != nil {
		return Result{Message: err.Error(), Category: CategoryGit, FilePath: relPath}
	}
	if err := s.git.Add(ctx, relPath); err != nil {
		return Result{Message: err.Error(), Category: CategoryGit, FilePath: relPath}
	}

	changed, err := s.git.HasChanges(ctx, relPath)
	if err != nil {
		return Result{Message: err.Error(), Category: CategoryGit, FilePath: relPath}
	}
	if !changed {
		// Identical entry already committed; informational, not an error.
		return Result{
			OK:       true,
			Message:  fmt.Sprintf("No changes to commit. Log entry %s is identical to an existing entry.", relPath),
			FilePath: relPath,
		}
	}

	if err := s.git.Commit(ctx, fmt.Sprintf("Add log entry: %s", rec.Title)); err != nil {
		return Result{Message: err.Error(), Category: CategoryGit, FilePath: relPath}
	}

	hash, err := s.git.Head(ctx)
	if err != nil {
		s.log.Warn("could not resolve commit hash", zap.Error(err))
	}

	if s.cfg.Token == "" {
		return Result{
			Message:    fmt.Sprintf("Log entry %s was saved and committed locally, but no push token is configured.", relPath),
			Category:   CategoryAuth,
			FilePath:   relPath,
			CommitHash: hash,
		}
	}

	if err := s.git.SetRemoteURL(ctx, "origin", tokenizedRemote(s.cfg.RemoteURL, s.cfg.Token)); err != nil {
		return Result{Message: err.Error(), Category: CategoryGit, FilePath: relPath, CommitHash: hash}
	}
	if err := s.git.Push(ctx, "origin", s.cfg.Branch); err != nil {
		return Result{
			Message:    fmt.Sprintf("Log entry %s was saved and committed locally, but the push failed: %v", relPath, err),
			Category:   CategoryGit,
			FilePath:   relPath,
			CommitHash: hash,
		}
	}

	s.indexEntry(ctx, rec, relPath, hash)

	return Result{
		OK:         true,
		Message:    fmt.Sprintf("Log entry written to %s and committed to %s.", relPath, s.cfg.Branch),
		FilePath:   relPath,
		CommitHash: hash,
	}
}

// ListRecent returns recent entries from the Postgres index.
func (s *Service) ListRecent(ctx context.Context, limit int) ([]repository.IndexedEntry, error) {
	if s.index == nil {
		return nil, nil
	}
	return s.index.ListRecent(ctx, limit)
}

// indexEntry records the entry in the optional Postgres index. Index failures
// are logged, not fatal: the git repository already holds the entry.
func (s *Service) indexEntry(ctx context.Context, rec domain.Achievement, relPath, hash string) {
	if s.index == nil {
		return
	}
	err := s.index.Insert(ctx, repository.IndexedEntry{
		Date:       rec.Date,
		Title:      rec.Title,
		Slug:       store.Slug(rec.Title),
		FilePath:   relPath,
		CommitHash: hash,
	})
	if err != nil {
		s.log.Warn("entry index insert failed", zap.Error(err))
	}
}

// tokenizedRemote injects the push token into an https remote URL.
func tokenizedRemote(remoteURL, token string) string {
	if strings.HasPrefix(remoteURL, "https://") {
		return "https://" + token + "@" + strings.TrimPrefix(remoteURL, "https://")
	}
	return fmt.Sprintf("https://%s@%s", token, remoteURL)
}
