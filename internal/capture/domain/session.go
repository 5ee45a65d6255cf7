package domain

import (
	"time"

	achievements "github.com/resume-kb/achievement-log-backend/internal/achievements/domain"
)

// Stage is one state in the four-stage capture workflow.
type Stage string

const (
	// StageReflection is the entry state where the user free-types an
	// accomplishment. "input" is its historical alias on the wire.
	StageReflection Stage = "reflection"
	StageProcessing Stage = "processing"
	StageReview     Stage = "review"
	StageSuccess    Stage = "success"
)

// CaptureSession is the transient state of one capture workflow run.
type CaptureSession struct {
	ID        string                    `json:"id"`
	Stage     Stage                     `json:"stage"`
	Prompt    string                    `json:"prompt"`
	RawText   string                    `json:"raw_text"`
	Draft     *achievements.Achievement `json:"draft,omitempty"`
	Message   string                    `json:"message,omitempty"`
	CreatedAt time.Time                 `json:"created_at"`
	UpdatedAt time.Time                 `json:"updated_at"`
}
