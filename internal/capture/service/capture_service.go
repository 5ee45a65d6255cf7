package service

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	achievements "github.com/resume-kb/achievement-log-backend/internal/achievements/domain"
	"github.com/resume-kb/achievement-log-backend/internal/capture/domain"
	"github.com/resume-kb/achievement-log-backend/internal/capture/repository"
	logservice "github.com/resume-kb/achievement-log-backend/internal/logentry/service"
)

const defaultSuccessMessage = "Achievement logged successfully."

// Structurer converts raw reflection text into a structured record. It must
// not fail; the structuring fallback is its terminal error boundary.
type Structurer interface {
	Structure(ctx context.Context, raw string) achievements.Achievement
}

// Persister records a confirmed achievement durably.
type Persister interface {
	AddLogEntry(ctx context.Context, rec achievements.Achievement) logservice.Result
}

// Service drives the four-stage capture workflow: reflection, processing,
// review, success. Every operation checks the legal source stage, so a second
// submission while a structuring call is outstanding is rejected instead of
// triggering a second request.
type Service struct {
	sessions   repository.SessionRepo
	structurer Structurer
	persister  Persister
	log        *zap.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewService creates a capture service. rng seeds the reflection-prompt draw.
func NewService(sessions repository.SessionRepo, structurer Structurer, persister Persister, rng *rand.Rand, log *zap.Logger) *Service {
	return &Service{
		sessions:   sessions,
		structurer: structurer,
		persister:  persister,
		rng:        rng,
		log:        log,
	}
}

// Start creates a new session in the reflection stage.
func (s *Service) Start(ctx context.Context) (*domain.CaptureSession, error) {
	now := time.Now()
	sess := &domain.CaptureSession{
		ID:        uuid.New().String(),
		Stage:     domain.StageReflection,
		Prompt:    s.choosePrompt(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Get returns the current session state.
func (s *Service) Get(ctx context.Context, id string) (*domain.CaptureSession, error) {
	return s.sessions.Get(ctx, id)
}

// SubmitReflection takes the free text through processing into review. The
// structuring call happens exactly once per transition into processing; it
// cannot fail, but if the session cannot be saved afterwards the stage is
// restored to reflection so the user can retry.
func (s *Service) SubmitReflection(ctx context.Context, id, text string) (*domain.CaptureSession, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Stage != domain.StageReflection {
		return nil, domain.ErrInvalidTransition
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyReflection
	}

	sess.RawText = text
	sess.Stage = domain.StageProcessing
	sess.UpdatedAt = time.Now()
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}

	rec := s.structurer.Structure(ctx, text)

	sess.Draft = &rec
	sess.Stage = domain.StageReview
	sess.UpdatedAt = time.Now()
	if err := s.sessions.Save(ctx, sess); err != nil {
		s.revertToReflection(ctx, sess)
		return nil, err
	}
	return sess, nil
}

// UpdateField applies one edit to the draft under review. tags and visibility
// accept a comma-separated string; all other fields store the value directly.
func (s *Service) UpdateField(ctx context.Context, id, field, value string) (*domain.CaptureSession, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Stage != domain.StageReview || sess.Draft == nil {
		return nil, domain.ErrInvalidTransition
	}

	switch field {
	case "date":
		sess.Draft.Date = value
	case "title":
		sess.Draft.Title = value
	case "description":
		sess.Draft.Description = value
	case "impact_level":
		sess.Draft.ImpactLevel = value
	case "resume_bullet":
		sess.Draft.ResumeBullet = value
	case "tags":
		sess.Draft.Tags = achievements.SplitList(value)
	case "visibility":
		sess.Draft.Visibility = achievements.SplitList(value)
	default:
		return nil, domain.ErrUnknownField
	}

	sess.UpdatedAt = time.Now()
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// BackToEdit discards the structured draft and returns to the reflection
// stage. The raw input text is kept.
func (s *Service) BackToEdit(ctx context.Context, id string) (*domain.CaptureSession, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Stage != domain.StageReview {
		return nil, domain.ErrInvalidTransition
	}

	sess.Draft = nil
	sess.Message = ""
	sess.Stage = domain.StageReflection
	sess.UpdatedAt = time.Now()
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Confirm submits the draft to the persistence service. Success and failure
// both land on the success stage; a failure is distinguished only by its
// "Error: " message prefix.
func (s *Service) Confirm(ctx context.Context, id string) (*domain.CaptureSession, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Stage != domain.StageReview {
		return nil, domain.ErrInvalidTransition
	}
	if sess.Draft == nil {
		return nil, domain.ErrNoDraft
	}

	res := s.persister.AddLogEntry(ctx, *sess.Draft)
	if res.OK {
		sess.Message = res.Message
		if strings.TrimSpace(sess.Message) == "" {
			sess.Message = defaultSuccessMessage
		}
	} else {
		sess.Message = "Error: " + res.Message
		s.log.Warn("persistence failed",
			zap.String("session_id", sess.ID),
			zap.String("category", string(res.Category)))
	}

	sess.Stage = domain.StageSuccess
	sess.UpdatedAt = time.Now()
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Reset clears all transient state and starts a fresh reflection in the same
// session ("Log Another Achievement").
func (s *Service) Reset(ctx context.Context, id string) (*domain.CaptureSession, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Stage != domain.StageSuccess {
		return nil, domain.ErrInvalidTransition
	}

	sess.RawText = ""
	sess.Draft = nil
	sess.Message = ""
	sess.Prompt = s.choosePrompt()
	sess.Stage = domain.StageReflection
	sess.UpdatedAt = time.Now()
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *Service) choosePrompt() string {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return ChoosePrompt(s.rng)
}

func (s *Service) revertToReflection(ctx context.Context, sess *domain.CaptureSession) {
	sess.Stage = domain.StageReflection
	sess.Draft = nil
	sess.UpdatedAt = time.Now()
	if err := s.sessions.Save(ctx, sess); err != nil {
		s.log.Warn("could not revert session to reflection", zap.String("session_id", sess.ID), zap.Error(err))
	}
}
