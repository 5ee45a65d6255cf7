package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/resume-kb/achievement-log-backend/internal/capture/domain"
)

const (
	sessionKeyPrefix = "capture:session:" // capture:session:{session_id}
	sessionTTL       = 24 * time.Hour
)

// SessionRepo stores capture sessions between workflow requests.
type SessionRepo interface {
	Save(ctx context.Context, s *domain.CaptureSession) error
	Get(ctx context.Context, id string) (*domain.CaptureSession, error)
	Delete(ctx context.Context, id string) error
}

// RedisSessionRepo handles Redis operations for capture sessions.
type RedisSessionRepo struct {
	client *redis.Client
}

var _ SessionRepo = (*RedisSessionRepo)(nil)

// NewRedisSessionRepo creates a new RedisSessionRepo.
func NewRedisSessionRepo(client *redis.Client) *RedisSessionRepo {
	return &RedisSessionRepo{client: client}
}

// Save writes the session with a sliding TTL.
func (r *RedisSessionRepo) Save(ctx context.Context, s *domain.CaptureSession) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(s.ID), data, sessionTTL).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Get retrieves a session by ID.
func (r *RedisSessionRepo) Get(ctx context.Context, id string) (*domain.CaptureSession, error) {
	data, err := r.client.Get(ctx, sessionKey(id)).Result()
	if err == redis.Nil {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var s domain.CaptureSession
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &s, nil
}

// Delete removes a session.
func (r *RedisSessionRepo) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}
