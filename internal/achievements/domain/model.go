package domain

import (
	"strings"
	"time"
)

// DateLayout is the wire format for achievement dates.
const DateLayout = "2006-01-02"

// MaxTitleLen caps achievement titles.
const MaxTitleLen = 80

// Achievement is a single logged accomplishment. Records are written once and
// never mutated after persistence.
type Achievement struct {
	Date         string   `json:"date"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Tags         []string `json:"tags"`
	ImpactLevel  string   `json:"impact_level"`
	Visibility   []string `json:"visibility"`
	ResumeBullet string   `json:"resume_bullet"`
}

// Impact level constants. ImpactLevels is the closed enumeration; visibility is
// an open vocabulary and carries no such list.
const (
	ImpactExploratory     = "Exploratory"
	ImpactInProgress      = "In Progress"
	ImpactConfirmed       = "Confirmed"
	ImpactStrategic       = "Strategic"
	ImpactEnterpriseScale = "Enterprise Scale"
)

var ImpactLevels = []string{
	ImpactExploratory,
	ImpactInProgress,
	ImpactConfirmed,
	ImpactStrategic,
	ImpactEnterpriseScale,
}

// ValidImpactLevel reports whether level is one of the closed enumeration values.
func ValidImpactLevel(level string) bool {
	for _, l := range ImpactLevels {
		if l == level {
			return true
		}
	}
	return false
}

// Validate checks that every field is populated and well formed before the
// record is accepted for persistence.
func (a *Achievement) Validate() error {
	if _, err := time.Parse(DateLayout, a.Date); err != nil {
		return ErrInvalidDate
	}
	if strings.TrimSpace(a.Title) == "" || len([]rune(a.Title)) > MaxTitleLen {
		return ErrInvalidTitle
	}
	if strings.TrimSpace(a.Description) == "" {
		return ErrMissingField
	}
	if len(a.Tags) == 0 {
		return ErrMissingField
	}
	if strings.TrimSpace(a.ImpactLevel) == "" {
		return ErrMissingField
	}
	if len(a.Visibility) == 0 {
		return ErrMissingField
	}
	if strings.TrimSpace(a.ResumeBullet) == "" {
		return ErrMissingField
	}
	return nil
}

// SplitList turns a comma-separated string into a trimmed, empty-entry-filtered
// sequence. Order is preserved and duplicates are not removed.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
