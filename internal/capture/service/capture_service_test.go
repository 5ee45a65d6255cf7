package service

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	achievements "github.com/resume-kb/achievement-log-backend/internal/achievements/domain"
	"github.com/resume-kb/achievement-log-backend/internal/capture/domain"
	"github.com/resume-kb/achievement-log-backend/internal/capture/repository"
	logservice "github.com/resume-kb/achievement-log-backend/internal/logentry/service"
)

type stubStructurer struct {
	calls int
}

func (s *stubStructurer) Structure(_ context.Context, raw string) achievements.Achievement {
	s.calls++
	return achievements.Achievement{
		Date:         "2025-08-16",
		Title:        "Structured " + raw[:min(10, len(raw))],
		Description:  raw,
		Tags:         []string{"stub"},
		ImpactLevel:  achievements.ImpactInProgress,
		Visibility:   []string{"Internal"},
		ResumeBullet: "Delivered the stub outcome.",
	}
}

type stubPersister struct {
	calls  int
	result logservice.Result
}

func (s *stubPersister) AddLogEntry(_ context.Context, _ achievements.Achievement) logservice.Result {
	s.calls++
	return s.result
}

func newTestService(persister *stubPersister) (*Service, *stubStructurer) {
	structurer := &stubStructurer{}
	svc := NewService(
		repository.NewMemorySessionRepo(),
		structurer,
		persister,
		rand.New(rand.NewSource(1)),
		zap.NewNop(),
	)
	return svc, structurer
}

func TestChoosePromptIsDeterministicForASeed(t *testing.T) {
	a := ChoosePrompt(rand.New(rand.NewSource(42)))
	b := ChoosePrompt(rand.New(rand.NewSource(42)))
	assert.Equal(t, a, b)
	assert.Contains(t, reflectionPrompts, a)
}

func TestStartCreatesReflectionSession(t *testing.T) {
	svc, _ := newTestService(&stubPersister{})

	sess, err := svc.Start(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, domain.StageReflection, sess.Stage)
	assert.NotEmpty(t, sess.Prompt)
	assert.Nil(t, sess.Draft)
}

func TestSubmitReflection(t *testing.T) {
	ctx := context.Background()

	t.Run("moves to review with a populated draft", func(t *testing.T) {
		svc, structurer := newTestService(&stubPersister{})
		sess, err := svc.Start(ctx)
		require.NoError(t, err)

		sess, err = svc.SubmitReflection(ctx, sess.ID, "Shipped the thing.")
		require.NoError(t, err)
		assert.Equal(t, domain.StageReview, sess.Stage)
		require.NotNil(t, sess.Draft)
		assert.Equal(t, "Shipped the thing.", sess.RawText)
		assert.Equal(t, 1, structurer.calls)
	})

	t.Run("rejects empty text", func(t *testing.T) {
		svc, _ := newTestService(&stubPersister{})
		sess, err := svc.Start(ctx)
		require.NoError(t, err)

		_, err = svc.SubmitReflection(ctx, sess.ID, "   ")
		assert.ErrorIs(t, err, domain.ErrEmptyReflection)
	})

	t.Run("second submission is rejected, not re-structured", func(t *testing.T) {
		svc, structurer := newTestService(&stubPersister{})
		sess, err := svc.Start(ctx)
		require.NoError(t, err)

		_, err = svc.SubmitReflection(ctx, sess.ID, "First.")
		require.NoError(t, err)

		_, err = svc.SubmitReflection(ctx, sess.ID, "Second.")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		assert.Equal(t, 1, structurer.calls)
	})

	t.Run("unknown session", func(t *testing.T) {
		svc, _ := newTestService(&stubPersister{})
		_, err := svc.SubmitReflection(ctx, "nope", "Text.")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})
}

func TestUpdateField(t *testing.T) {
	ctx := context.Background()

	reviewSession := func(t *testing.T, svc *Service) *domain.CaptureSession {
		t.Helper()
		sess, err := svc.Start(ctx)
		require.NoError(t, err)
		sess, err = svc.SubmitReflection(ctx, sess.ID, "Shipped the thing.")
		require.NoError(t, err)
		return sess
	}

	t.Run("tags edit is comma-split and filtered", func(t *testing.T) {
		svc, _ := newTestService(&stubPersister{})
		sess := reviewSession(t, svc)

		sess, err := svc.UpdateField(ctx, sess.ID, "tags", "a, b ,  , c")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, sess.Draft.Tags)
	})

	t.Run("visibility edit is comma-split", func(t *testing.T) {
		svc, _ := newTestService(&stubPersister{})
		sess := reviewSession(t, svc)

		sess, err := svc.UpdateField(ctx, sess.ID, "visibility", "Internal, Leadership")
		require.NoError(t, err)
		assert.Equal(t, []string{"Internal", "Leadership"}, sess.Draft.Visibility)
	})

	t.Run("scalar fields are stored raw", func(t *testing.T) {
		svc, _ := newTestService(&stubPersister{})
		sess := reviewSession(t, svc)

		sess, err := svc.UpdateField(ctx, sess.ID, "title", "Better title")
		require.NoError(t, err)
		assert.Equal(t, "Better title", sess.Draft.Title)

		sess, err = svc.UpdateField(ctx, sess.ID, "date", "2025-01-02")
		require.NoError(t, err)
		assert.Equal(t, "2025-01-02", sess.Draft.Date)
	})

	t.Run("unknown field", func(t *testing.T) {
		svc, _ := newTestService(&stubPersister{})
		sess := reviewSession(t, svc)

		_, err := svc.UpdateField(ctx, sess.ID, "mood", "great")
		assert.ErrorIs(t, err, domain.ErrUnknownField)
	})

	t.Run("not allowed outside review", func(t *testing.T) {
		svc, _ := newTestService(&stubPersister{})
		sess, err := svc.Start(ctx)
		require.NoError(t, err)

		_, err = svc.UpdateField(ctx, sess.ID, "title", "x")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestBackToEditKeepsRawText(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(&stubPersister{})

	sess, err := svc.Start(ctx)
	require.NoError(t, err)
	sess, err = svc.SubmitReflection(ctx, sess.ID, "Shipped the thing.")
	require.NoError(t, err)

	sess, err = svc.BackToEdit(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StageReflection, sess.Stage)
	assert.Nil(t, sess.Draft)
	assert.Equal(t, "Shipped the thing.", sess.RawText)
}

func TestConfirm(t *testing.T) {
	ctx := context.Background()

	toReview := func(t *testing.T, svc *Service) *domain.CaptureSession {
		t.Helper()
		sess, err := svc.Start(ctx)
		require.NoError(t, err)
		sess, err = svc.SubmitReflection(ctx, sess.ID, "Shipped the thing.")
		require.NoError(t, err)
		return sess
	}

	t.Run("success keeps the persister message", func(t *testing.T) {
		persister := &stubPersister{result: logservice.Result{OK: true, Message: "Log entry written."}}
		svc, _ := newTestService(persister)
		sess := toReview(t, svc)

		sess, err := svc.Confirm(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StageSuccess, sess.Stage)
		assert.Equal(t, "Log entry written.", sess.Message)
		assert.Equal(t, 1, persister.calls)
	})

	t.Run("empty success message falls back to the canned one", func(t *testing.T) {
		persister := &stubPersister{result: logservice.Result{OK: true}}
		svc, _ := newTestService(persister)
		sess := toReview(t, svc)

		sess, err := svc.Confirm(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, defaultSuccessMessage, sess.Message)
	})

	t.Run("failure still lands on success with an Error prefix", func(t *testing.T) {
		persister := &stubPersister{result: logservice.Result{
			Message:  "push failed: remote unreachable",
			Category: logservice.CategoryGit,
		}}
		svc, _ := newTestService(persister)
		sess := toReview(t, svc)

		sess, err := svc.Confirm(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StageSuccess, sess.Stage)
		assert.Equal(t, "Error: push failed: remote unreachable", sess.Message)
	})

	t.Run("double confirm is rejected", func(t *testing.T) {
		persister := &stubPersister{result: logservice.Result{OK: true, Message: "ok"}}
		svc, _ := newTestService(persister)
		sess := toReview(t, svc)

		_, err := svc.Confirm(ctx, sess.ID)
		require.NoError(t, err)
		_, err = svc.Confirm(ctx, sess.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		assert.Equal(t, 1, persister.calls)
	})
}

func TestResetClearsTransientState(t *testing.T) {
	ctx := context.Background()
	persister := &stubPersister{result: logservice.Result{OK: true, Message: "ok"}}
	svc, _ := newTestService(persister)

	sess, err := svc.Start(ctx)
	require.NoError(t, err)
	sess, err = svc.SubmitReflection(ctx, sess.ID, "Shipped the thing.")
	require.NoError(t, err)
	sess, err = svc.Confirm(ctx, sess.ID)
	require.NoError(t, err)

	sess, err = svc.Reset(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StageReflection, sess.Stage)
	assert.Empty(t, sess.RawText)
	assert.Empty(t, sess.Message)
	assert.Nil(t, sess.Draft)
	assert.NotEmpty(t, sess.Prompt)
}
