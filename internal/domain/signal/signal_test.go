package signal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/skillpassport/insight-engine/internal/domain/assignment"
	"github.com/skillpassport/insight-engine/internal/domain/student"
)

func mustRecord(t *testing.T, params student.NewRecordParams) *student.Record {
	t.Helper()
	rec, err := student.NewRecord(params)
	assert.NoError(t, err)
	return rec
}

func TestExtract_SkipsDisabledEntries(t *testing.T) {
	rec := mustRecord(t, student.NewRecordParams{
		ID:   "s1",
		Name: "Aruzhan",
		TechnicalSkills: []student.TechnicalSkill{
			{Name: "Go", Level: 4, Enabled: true},
			{Name: "Rust", Level: 5, Enabled: false},
			{Name: "SQL", Level: 2, Enabled: true},
		},
		Projects: []student.Project{
			{Title: "shop", Status: "completed", Enabled: true},
			{Title: "bot", Status: "completed", Enabled: false},
		},
		Certificates: []student.Certificate{
			{Name: "AWS CP", ApprovalStatus: "approved", Enabled: false},
		},
	})

	sig := Extract(rec, nil)

	assert.Equal(t, 2, sig.SkillsCount)
	assert.Equal(t, 3.0, sig.AvgSkillLevel)
	assert.Equal(t, 1, sig.ProjectsCount)
	assert.Equal(t, 1, sig.CompletedProjects)
	assert.Equal(t, 0, sig.CertificateCount)
	assert.Equal(t, []string{"go", "sql"}, sig.Skills.Keys())
}

func TestExtract_TopSkillsStableByLevel(t *testing.T) {
	rec := mustRecord(t, student.NewRecordParams{
		ID:   "s1",
		Name: "Aruzhan",
		TechnicalSkills: []student.TechnicalSkill{
			{Name: "html", Level: 3, Enabled: true},
			{Name: "go", Level: 5, Enabled: true},
			{Name: "sql", Level: 4, Enabled: true},
			{Name: "python", Level: 5, Enabled: true},
			{Name: "css", Level: 2, Enabled: true},
			{Name: "bash", Level: 1, Enabled: true},
		},
	})

	sig := Extract(rec, nil)

	assert.Len(t, sig.TopSkills, TopSkillsLimit)
	names := make([]string, 0, len(sig.TopSkills))
	for _, s := range sig.TopSkills {
		names = append(names, s.Name)
	}
	// Ties keep profile order: go before python at level 5.
	assert.Equal(t, []string{"go", "python", "sql", "html", "css"}, names)
}

func TestExtract_TrainingAndProjects(t *testing.T) {
	rec := mustRecord(t, student.NewRecordParams{
		ID:   "s1",
		Name: "Aruzhan",
		Projects: []student.Project{
			{Title: "a", Status: "completed", Enabled: true},
			{Title: "b", Status: "in-progress", Enabled: true},
			{Title: "c", Status: "cancelled", Enabled: true},
		},
		Training: []student.Training{
			{Name: "go course", Status: "completed", Progress: 100, Enabled: true},
			{Name: "sql course", Status: "ongoing", Progress: 45, Enabled: true},
		},
	})

	sig := Extract(rec, nil)

	assert.Equal(t, 3, sig.ProjectsCount)
	assert.Equal(t, 1, sig.CompletedProjects)
	// Cancelled projects are neither completed nor in progress.
	assert.Equal(t, 1, sig.InProgressProjects)
	assert.Equal(t, 2, sig.TrainingCount)
	assert.Equal(t, 1, sig.CompletedTraining)
	assert.Equal(t, 72.5, sig.TrainingProgressAvg)
	assert.True(t, sig.HasCompletedTraining())
}

func TestExtract_ExperienceYearsFromText(t *testing.T) {
	rec := mustRecord(t, student.NewRecordParams{
		ID:   "s1",
		Name: "Aruzhan",
		Experience: []student.Experience{
			{Role: "intern", DurationText: "6 months", Enabled: true},
			{Role: "backend dev", DurationText: "2 Years at a fintech", Enabled: true},
			{Role: "freelance", DurationText: "1.5 years", Enabled: true},
			{Role: "mentor", DurationText: "3 years", Enabled: false},
		},
	})

	sig := Extract(rec, nil)

	assert.Equal(t, 3.5, sig.ExperienceYears)
}

func TestExtract_AssignmentStats(t *testing.T) {
	grade := func(v float64) *float64 { return &v }
	records := []assignment.Record{
		{ID: "a1", StudentID: "s1", Status: assignment.StatusGraded, GradePercentage: grade(85)},
		{ID: "a2", StudentID: "s1", Status: assignment.StatusGraded, GradePercentage: grade(90.5)},
		{ID: "a3", StudentID: "s1", Status: assignment.StatusSubmitted, IsLate: true},
		{ID: "a4", StudentID: "s1", Status: assignment.StatusInProgress},
		{ID: "a5", StudentID: "s1", Status: assignment.StatusTodo, IsLate: true},
	}
	rec := mustRecord(t, student.NewRecordParams{ID: "s1", Name: "Aruzhan"})

	sig := Extract(rec, records)

	assert.Equal(t, 5, sig.Assignments.Total)
	assert.Equal(t, 3, sig.Assignments.Submitted)
	assert.Equal(t, 2, sig.Assignments.Graded)
	assert.Equal(t, 2, sig.Assignments.Pending)
	assert.Equal(t, 87.8, sig.Assignments.AvgGrade)
	assert.Equal(t, 2, sig.Assignments.LateSubmissions)
}

func TestExtract_EmptyProfile(t *testing.T) {
	rec := mustRecord(t, student.NewRecordParams{ID: "s1", Name: "Aruzhan"})

	sig := Extract(rec, nil)

	assert.Equal(t, 0, sig.SkillsCount)
	assert.Equal(t, 0.0, sig.AvgSkillLevel)
	assert.Equal(t, 0.0, sig.Assignments.AvgGrade)
	assert.Equal(t, 0, sig.Skills.Len())

	_, ok := sig.DaysSinceProfileUpdate(time.Now())
	assert.False(t, ok)
}
