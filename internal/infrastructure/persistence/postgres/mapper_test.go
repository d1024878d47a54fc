package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/skillpassport/insight-engine/internal/domain/assignment"
	"github.com/skillpassport/insight-engine/internal/domain/student"
)

func TestDecodeSection_LooseDocuments(t *testing.T) {
	raw := []byte(`[
		{"name": "React.JS", "level": 4, "enabled": true, "verified": true},
		{"name": "SQL", "level": 9.7},
		{"name": "Rust", "enabled": false}
	]`)

	docs := decodeSection[technicalSkillDoc](raw)
	skills := toTechnicalSkills(docs)

	assert.Len(t, skills, 3)

	assert.Equal(t, "React.JS", skills[0].Name)
	assert.Equal(t, student.SkillLevel(4), skills[0].Level)
	assert.True(t, skills[0].Verified)

	// Missing enabled flag defaults to enabled; out-of-range level clamps.
	assert.True(t, skills[1].Enabled)
	assert.Equal(t, student.SkillLevel(5), skills[1].Level)
	assert.False(t, skills[1].Verified)

	// Missing level defaults to zero, explicit false stays disabled.
	assert.Equal(t, student.SkillLevel(0), skills[2].Level)
	assert.False(t, skills[2].Enabled)
}

func TestDecodeSection_MalformedYieldsNothing(t *testing.T) {
	assert.Nil(t, decodeSection[technicalSkillDoc]([]byte(`{"not": "a list"}`)))
	assert.Nil(t, decodeSection[technicalSkillDoc]([]byte(`[{"level": "five"}]`)))
	assert.Nil(t, decodeSection[technicalSkillDoc](nil))
	assert.Nil(t, decodeSection[technicalSkillDoc]([]byte(``)))
}

func TestEnabledOrDefault(t *testing.T) {
	yes, no := true, false

	assert.True(t, enabledOrDefault(nil))
	assert.True(t, enabledOrDefault(&yes))
	assert.False(t, enabledOrDefault(&no))
}

func TestParseTimePtr(t *testing.T) {
	got := parseTimePtr("2026-02-15T10:30:00Z")
	assert.NotNil(t, got)
	assert.Equal(t, time.Date(2026, 2, 15, 10, 30, 0, 0, time.UTC), *got)

	got = parseTimePtr("2026-02-15T10:30:00.123456Z")
	assert.NotNil(t, got)

	got = parseTimePtr("2026-02-15")
	assert.NotNil(t, got)
	assert.Equal(t, time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC), *got)

	assert.Nil(t, parseTimePtr(""))
	assert.Nil(t, parseTimePtr("yesterday"))
}

func TestToTraining_ProgressClampAndTimestamp(t *testing.T) {
	progress := 150.0
	docs := []trainingDoc{
		{Name: " Go Course ", Status: "ongoing", Progress: &progress, LastUpdated: "2026-01-10"},
		{Name: "SQL", Status: "completed"},
	}

	training := toTraining(docs)

	assert.Len(t, training, 2)
	assert.Equal(t, "Go Course", training[0].Name)
	assert.Equal(t, student.Progress(100), training[0].Progress)
	assert.NotNil(t, training[0].LastUpdated)
	assert.Equal(t, student.Progress(0), training[1].Progress)
	assert.Nil(t, training[1].LastUpdated)
	assert.True(t, training[1].IsCompleted())
}

func TestToExperience_TrimsDurationText(t *testing.T) {
	docs := []experienceDoc{{Role: " Intern ", Duration: " 2 years "}}

	experience := toExperience(docs)

	assert.Len(t, experience, 1)
	assert.Equal(t, "Intern", experience[0].Role)
	assert.Equal(t, "2 years", experience[0].DurationText)
	assert.True(t, experience[0].Enabled)
}

func TestParseAssignmentStatus(t *testing.T) {
	assert.Equal(t, assignment.StatusGraded, parseAssignmentStatus("GRADED"))
	assert.Equal(t, assignment.StatusInProgress, parseAssignmentStatus("in_progress"))
	assert.Equal(t, assignment.StatusInProgress, parseAssignmentStatus("In-Progress"))
	assert.Equal(t, assignment.StatusSubmitted, parseAssignmentStatus(" submitted "))
	assert.Equal(t, assignment.StatusTodo, parseAssignmentStatus("todo"))

	// Unknown or empty text decodes as todo.
	assert.Equal(t, assignment.StatusTodo, parseAssignmentStatus("archived"))
	assert.Equal(t, assignment.StatusTodo, parseAssignmentStatus(""))
}
