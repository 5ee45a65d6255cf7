package repository

import (
	"context"
	"sync"

	"github.com/resume-kb/achievement-log-backend/internal/capture/domain"
)

// MemorySessionRepo is an in-process session store for deployments without
// Redis. Sessions do not survive a restart, which matches the transient
// lifecycle of the capture workflow.
type MemorySessionRepo struct {
	mu       sync.RWMutex
	sessions map[string]domain.CaptureSession
}

var _ SessionRepo = (*MemorySessionRepo)(nil)

// NewMemorySessionRepo creates an empty in-memory store.
func NewMemorySessionRepo() *MemorySessionRepo {
	return &MemorySessionRepo{sessions: make(map[string]domain.CaptureSession)}
}

func (r *MemorySessionRepo) Save(_ context.Context, s *domain.CaptureSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = *s
	return nil
}

func (r *MemorySessionRepo) Get(_ context.Context, id string) (*domain.CaptureSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	out := s
	return &out, nil
}

func (r *MemorySessionRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}
