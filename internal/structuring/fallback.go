package structuring

import (
	"fmt"
	"strings"

	"github.com/resume-kb/achievement-log-backend/internal/achievements/domain"
)

const defaultTitle = "Untitled achievement"

// Fallback derives a structured record from raw text without any external
// call. It is the terminal error boundary of the structuring step and must
// succeed for every input.
func Fallback(raw string) domain.Achievement {
	trimmed := strings.TrimSpace(raw)

	title := trimmed
	if i := strings.Index(trimmed, "."); i >= 0 {
		title = trimmed[:i]
	}
	title = strings.TrimSpace(title)
	if r := []rune(title); len(r) > domain.MaxTitleLen {
		title = string(r[:domain.MaxTitleLen])
	}
	if title == "" {
		title = defaultTitle
	}

	return domain.Achievement{
		Title:        title,
		Description:  trimmed,
		Tags:         []string{"general"},
		ImpactLevel:  domain.ImpactInProgress,
		Visibility:   []string{"Internal"},
		ResumeBullet: fmt.Sprintf("Delivered on: %s.", firstClause(trimmed)),
	}
}

// firstClause returns the text up to the first clause boundary.
func firstClause(s string) string {
	if i := strings.IndexAny(s, ".,;"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "a professional accomplishment"
	}
	if r := []rune(s); len(r) > 140 {
		s = string(r[:140])
	}
	return s
}
