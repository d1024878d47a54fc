package student

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewRecord_Validation(t *testing.T) {
	_, err := NewRecord(NewRecordParams{ID: "  ", Name: "Aruzhan"})
	assert.ErrorIs(t, err, ErrEmptyID)

	_, err = NewRecord(NewRecordParams{ID: "s1", Name: "   "})
	assert.ErrorIs(t, err, ErrEmptyName)

	rec, err := NewRecord(NewRecordParams{ID: " s1 ", Name: " Aruzhan ", Cohort: " alem "})
	assert.NoError(t, err)
	assert.Equal(t, "s1", rec.ID.String())
	assert.Equal(t, "Aruzhan", rec.Name)
	assert.Equal(t, "alem", rec.Cohort.String())
}

func TestSkillLevel_Clamp(t *testing.T) {
	assert.Equal(t, SkillLevel(0), SkillLevel(-3).Clamp())
	assert.Equal(t, SkillLevel(5), SkillLevel(9).Clamp())
	assert.Equal(t, SkillLevel(3), SkillLevel(3).Clamp())
	assert.False(t, SkillLevel(6).IsValid())
}

func TestProgress_Clamp(t *testing.T) {
	assert.Equal(t, Progress(0), Progress(-1).Clamp())
	assert.Equal(t, Progress(100), Progress(250).Clamp())
	assert.Equal(t, Progress(42.5), Progress(42.5).Clamp())
}

func TestProject_StatusHelpers(t *testing.T) {
	assert.True(t, Project{Status: " Completed "}.IsCompleted())
	assert.True(t, Project{Status: "cancelled"}.IsAbandoned())
	assert.True(t, Project{Status: "dropped"}.IsAbandoned())
	assert.True(t, Project{Status: "building"}.IsInProgress())
	assert.False(t, Project{Status: "completed"}.IsInProgress())
	assert.False(t, Project{Status: "abandoned"}.IsInProgress())
}

func TestTraining_StatusHelpers(t *testing.T) {
	assert.True(t, Training{Status: "COMPLETED"}.IsCompleted())
	assert.True(t, Training{Status: "ongoing"}.IsOngoing())
}

func TestCertificate_IsApproved(t *testing.T) {
	assert.True(t, Certificate{ApprovalStatus: "Approved"}.IsApproved())
	assert.False(t, Certificate{ApprovalStatus: "pending"}.IsApproved())
}

func TestRecord_EnabledFilters(t *testing.T) {
	rec := &Record{
		TechnicalSkills: []TechnicalSkill{
			{Name: "go", Enabled: true},
			{Name: "rust", Enabled: false},
		},
		Projects: []Project{
			{Title: "a", Enabled: true},
			{Title: "b", Enabled: false},
		},
		Certificates: []Certificate{
			{Name: "c1", Enabled: false},
		},
	}

	assert.Len(t, rec.EnabledTechnicalSkills(), 1)
	assert.Len(t, rec.EnabledProjects(), 1)
	assert.Empty(t, rec.EnabledCertificates())
}

func TestRecord_Clone(t *testing.T) {
	updated := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	rec := &Record{
		ID:                "s1",
		Name:              "Aruzhan",
		TechnicalSkills:   []TechnicalSkill{{Name: "go", Level: 4, Enabled: true}},
		Training:          []Training{{Name: "course", LastUpdated: &updated}},
		LastProfileUpdate: &updated,
	}

	clone := rec.Clone()
	clone.TechnicalSkills[0].Name = "rust"
	*clone.LastProfileUpdate = clone.LastProfileUpdate.AddDate(1, 0, 0)
	*clone.Training[0].LastUpdated = clone.Training[0].LastUpdated.AddDate(1, 0, 0)

	assert.Equal(t, "go", rec.TechnicalSkills[0].Name)
	assert.Equal(t, updated, *rec.LastProfileUpdate)
	assert.Equal(t, updated, *rec.Training[0].LastUpdated)
}
