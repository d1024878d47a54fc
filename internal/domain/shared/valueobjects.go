// Package shared contains common domain types, errors, and value objects
// that are used across all domain packages.
package shared

import (
	"fmt"
	"strings"
	"time"
)

// ═══════════════════════════════════════════════════════════════════════════
// ID Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// StudentID represents a unique student identifier in the data store.
type StudentID string

// IsValid checks if the student ID is non-empty after trimming.
func (s StudentID) IsValid() bool {
	return strings.TrimSpace(string(s)) != ""
}

// String returns the string representation.
func (s StudentID) String() string {
	return string(s)
}

// NewStudentID creates a new StudentID with validation.
func NewStudentID(id string) (StudentID, error) {
	sid := StudentID(strings.TrimSpace(id))
	if !sid.IsValid() {
		return "", ErrInvalidStudentID
	}
	return sid, nil
}

// OpportunityID represents a unique opportunity listing identifier.
type OpportunityID string

// IsValid checks if the opportunity ID is non-empty.
func (o OpportunityID) IsValid() bool {
	return strings.TrimSpace(string(o)) != ""
}

// String returns the string representation.
func (o OpportunityID) String() string {
	return string(o)
}

// ═══════════════════════════════════════════════════════════════════════════
// Cohort
// ═══════════════════════════════════════════════════════════════════════════

// Cohort identifies the filtered set of students analyzed together,
// e.g. all students of one institution. Empty means "all students".
type Cohort string

// CohortAll matches every student.
const CohortAll Cohort = ""

// IsAll reports whether the cohort places no restriction.
func (c Cohort) IsAll() bool {
	return strings.TrimSpace(string(c)) == ""
}

// String returns the string representation.
func (c Cohort) String() string {
	if c.IsAll() {
		return "all"
	}
	return string(c)
}

// ═══════════════════════════════════════════════════════════════════════════
// Severity
// ═══════════════════════════════════════════════════════════════════════════

// Severity ranks how urgent a derived risk condition is.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// IsValid checks if the severity is one of the known values.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

// Weight returns the ranking weight of the severity.
func (s Severity) Weight() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Percent / Score helpers
// ═══════════════════════════════════════════════════════════════════════════

// Percent is a percentage value expected to be within [0, 100].
type Percent float64

// IsValid checks that the percent is within range.
func (p Percent) IsValid() bool {
	return p >= 0 && p <= 100
}

// Clamp forces the percent into [0, 100].
func (p Percent) Clamp() Percent {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Float64 returns the underlying value.
func (p Percent) Float64() float64 {
	return float64(p)
}

// String formats the percent for display.
func (p Percent) String() string {
	return fmt.Sprintf("%.0f%%", float64(p))
}

// ═══════════════════════════════════════════════════════════════════════════
// Timestamps
// ═══════════════════════════════════════════════════════════════════════════

// DaysSince returns full days elapsed between then and now.
// Negative results are clamped to 0.
func DaysSince(then, now time.Time) int {
	d := int(now.Sub(then).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}
