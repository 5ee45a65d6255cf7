package structuring

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/resume-kb/achievement-log-backend/internal/achievements/domain"
)

// Structurer converts free-text reflections into achievement records. Any
// failure of the completion backend is absorbed by the deterministic fallback,
// so Structure never returns an error.
type Structurer struct {
	client CompletionClient
	log    *zap.Logger
	now    func() time.Time
}

// NewStructurer creates a Structurer backed by the given completion client.
func NewStructurer(client CompletionClient, log *zap.Logger) *Structurer {
	return &Structurer{
		client: client,
		log:    log,
		now:    time.Now,
	}
}

// Structure produces a fully populated record for the raw text. The date is
// always stamped with the current day, regardless of which path produced the
// other fields.
func (s *Structurer) Structure(ctx context.Context, raw string) domain.Achievement {
	rec := s.infer(ctx, raw)
	rec.Date = s.now().Format(domain.DateLayout)
	return rec
}

func (s *Structurer) infer(ctx context.Context, raw string) domain.Achievement {
	content, err := s.client.Complete(ctx, systemPrompt, raw)
	if err != nil {
		s.log.Warn("structuring call failed, using fallback", zap.Error(err))
		return Fallback(raw)
	}

	var rec domain.Achievement
	if err := json.Unmarshal([]byte(stripFence(content)), &rec); err != nil {
		s.log.Warn("structuring response was not valid JSON, using fallback", zap.Error(err))
		return Fallback(raw)
	}

	return mergeWithFallback(rec, raw)
}

// mergeWithFallback fills any blank or invalid field of a parsed response from
// the deterministic fallback, so the review stage always sees six populated
// fields.
func mergeWithFallback(rec domain.Achievement, raw string) domain.Achievement {
	fb := Fallback(raw)

	if strings.TrimSpace(rec.Title) == "" {
		rec.Title = fb.Title
	}
	if r := []rune(rec.Title); len(r) > domain.MaxTitleLen {
		rec.Title = string(r[:domain.MaxTitleLen])
	}
	if strings.TrimSpace(rec.Description) == "" {
		rec.Description = fb.Description
	}
	if len(rec.Tags) == 0 {
		rec.Tags = fb.Tags
	}
	if !domain.ValidImpactLevel(rec.ImpactLevel) {
		rec.ImpactLevel = fb.ImpactLevel
	}
	if len(rec.Visibility) == 0 {
		rec.Visibility = fb.Visibility
	}
	if strings.TrimSpace(rec.ResumeBullet) == "" {
		rec.ResumeBullet = fb.ResumeBullet
	}

	return rec
}

// stripFence removes a markdown code fence some models wrap around JSON.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
