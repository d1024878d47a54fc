package postgres

import (
	"encoding/json"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// ROW DTOs
// Profile sections live in jsonb columns with loosely-shaped documents:
// optional fields, missing enable-flags, free-text statuses. The DTOs
// below mirror that loose shape; mapper.go resolves it into strict
// domain values exactly once, at this boundary.
// ══════════════════════════════════════════════════════════════════════════════

// technicalSkillDoc mirrors one entry of the technical_skills column.
type technicalSkillDoc struct {
	Name     string   `json:"name"`
	Level    *float64 `json:"level"`
	Enabled  *bool    `json:"enabled"`
	Verified *bool    `json:"verified"`
}

// softSkillDoc mirrors one entry of the soft_skills column.
type softSkillDoc struct {
	Name    string `json:"name"`
	Enabled *bool  `json:"enabled"`
}

// projectDoc mirrors one entry of the projects column.
type projectDoc struct {
	Title   string `json:"title"`
	Status  string `json:"status"`
	Enabled *bool  `json:"enabled"`
}

// trainingDoc mirrors one entry of the training column.
type trainingDoc struct {
	Name        string   `json:"name"`
	Status      string   `json:"status"`
	Progress    *float64 `json:"progress"`
	Enabled     *bool    `json:"enabled"`
	LastUpdated string   `json:"last_updated"`
}

// experienceDoc mirrors one entry of the experience column.
type experienceDoc struct {
	Role     string `json:"role"`
	Duration string `json:"duration"`
	Enabled  *bool  `json:"enabled"`
}

// certificateDoc mirrors one entry of the certificates column.
type certificateDoc struct {
	Name           string `json:"name"`
	ApprovalStatus string `json:"approval_status"`
	Enabled        *bool  `json:"enabled"`
}

// ══════════════════════════════════════════════════════════════════════════════
// DECODE HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// decodeSection unmarshals a jsonb section into docs. A malformed
// section decodes to an empty list: it contributes nothing to the
// analysis instead of failing the whole student row.
func decodeSection[T any](raw []byte) []T {
	if len(raw) == 0 {
		return nil
	}
	var docs []T
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil
	}
	return docs
}

// enabledOrDefault resolves a missing enable-flag to "enabled":
// only an explicit false excludes an item.
func enabledOrDefault(enabled *bool) bool {
	return enabled == nil || *enabled
}

// parseTimePtr parses an ISO timestamp; unparseable text yields nil.
func parseTimePtr(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
