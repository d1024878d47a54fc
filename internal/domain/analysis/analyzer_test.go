package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/skillpassport/insight-engine/internal/domain/signal"
	"github.com/skillpassport/insight-engine/internal/domain/skill"
	"github.com/skillpassport/insight-engine/internal/domain/student"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// strongSignal is the canonical mature profile: 5 skills at level 4,
// 2 completed projects, 1 finished course, 1 certificate, 1 year of work.
func strongSignal() signal.StudentSignal {
	updated := testNow.AddDate(0, 0, -7)
	return signal.StudentSignal{
		StudentID:            "s1",
		Name:                 "Aruzhan",
		SkillsCount:          5,
		AvgSkillLevel:        4,
		Skills:               skill.NewSet([]string{"react", "node", "python", "sql", "git"}),
		ProjectsCount:        2,
		CompletedProjects:    2,
		Training:             []student.Training{{Name: "go course", Status: "completed", Progress: 100, Enabled: true}},
		TrainingCount:        1,
		CompletedTraining:    1,
		TrainingProgressAvg:  100,
		CertificateCount:     1,
		ApprovedCertificates: 1,
		ExperienceYears:      1,
		LastProfileUpdate:    &updated,
	}
}

func TestAnalyze_MatureProfile(t *testing.T) {
	res := Analyze(strongSignal(), testNow)

	assert.True(t, res.Flags.HasHighPotential)
	assert.Equal(t, RiskNone, res.RiskLevel)
	assert.Equal(t, ReadinessHigh, res.CareerReadiness)
	assert.Equal(t, 72, res.OverallScore)
	assert.GreaterOrEqual(t, res.OverallScore, 70)
	assert.NotEmpty(t, res.Strengths)
}

func TestAnalyze_EmptyProfile(t *testing.T) {
	sig := signal.StudentSignal{
		StudentID: "s2",
		Name:      "Dias",
		Skills:    skill.NewSet(nil),
	}

	res := Analyze(sig, testNow)

	assert.True(t, res.Flags.HasNoProjects)
	assert.True(t, res.Flags.HasLowSkillDiversity)
	// No profile timestamp counts as inactive.
	assert.True(t, res.Flags.HasInactiveProfile)
	assert.Equal(t, RiskHigh, res.RiskLevel)
	assert.Equal(t, ReadinessLow, res.CareerReadiness)
	assert.Equal(t, 0, res.OverallScore)
	assert.NotEmpty(t, res.Weaknesses)
	assert.NotEmpty(t, res.Recommendations)
}

func TestAnalyze_ScoreClampedAtExtremes(t *testing.T) {
	updated := testNow.AddDate(0, 0, -1)
	huge := signal.StudentSignal{
		SkillsCount:          400,
		AvgSkillLevel:        5,
		Skills:               skill.NewSet([]string{"react", "node", "python", "sql", "git", "docker", "aws", "typescript"}),
		ProjectsCount:        50,
		CompletedProjects:    50,
		TrainingCount:        20,
		CompletedTraining:    20,
		TrainingProgressAvg:  100,
		CertificateCount:     30,
		ApprovedCertificates: 30,
		ExperienceYears:      25,
		LastProfileUpdate:    &updated,
	}

	res := Analyze(huge, testNow)

	assert.LessOrEqual(t, res.OverallScore, 100)
	assert.GreaterOrEqual(t, res.OverallScore, 0)
	assert.Equal(t, 100, res.OverallScore)
	assert.Empty(t, res.SkillGaps)
}

func TestAnalyze_StagnantTraining(t *testing.T) {
	updated := testNow.AddDate(0, 0, -1)
	sig := signal.StudentSignal{
		SkillsCount:         4,
		AvgSkillLevel:       3,
		Skills:              skill.NewSet([]string{"go", "sql", "git", "docker"}),
		ProjectsCount:       1,
		Training:            []student.Training{{Name: "js", Status: "ongoing", Progress: 20, Enabled: true}},
		TrainingCount:       1,
		TrainingProgressAvg: 20,
		LastProfileUpdate:   &updated,
	}

	res := Analyze(sig, testNow)

	assert.True(t, res.Flags.HasStagnantTraining)
	assert.Contains(t, res.Weaknesses, "Training progress has stalled below 50%")
	assert.Contains(t, res.Recommendations, "Resume stalled training courses and push past the halfway mark")
}

func TestAnalyze_InactiveProfileThreshold(t *testing.T) {
	within := testNow.AddDate(0, 0, -59)
	beyond := testNow.AddDate(0, 0, -61)

	active := signal.StudentSignal{Skills: skill.NewSet(nil), LastProfileUpdate: &within}
	inactive := signal.StudentSignal{Skills: skill.NewSet(nil), LastProfileUpdate: &beyond}

	assert.False(t, Analyze(active, testNow).Flags.HasInactiveProfile)
	assert.True(t, Analyze(inactive, testNow).Flags.HasInactiveProfile)
}

func TestAnalyze_SkillGapsAgainstReference(t *testing.T) {
	sig := signal.StudentSignal{
		SkillsCount: 2,
		Skills:      skill.NewSet([]string{"React", "Python"}),
	}

	res := Analyze(sig, testNow)

	assert.Equal(t, []string{"node", "sql", "git", "docker", "aws"}, res.SkillGaps)
}

func TestAnalyze_NarrativeListsCapped(t *testing.T) {
	res := Analyze(strongSignal(), testNow)

	assert.LessOrEqual(t, len(res.Strengths), 5)
	assert.LessOrEqual(t, len(res.Weaknesses), 5)
	assert.LessOrEqual(t, len(res.Recommendations), 5)
}

func TestRiskLevel_Boundaries(t *testing.T) {
	// No projects alone: 3 points, Medium.
	m := Metrics{SkillCount: 5, AvgTrainingProgress: 50}
	assert.Equal(t, RiskMedium, riskLevel(m, Flags{HasNoProjects: true}))

	// Stagnant training alone: 2 points, Low.
	assert.Equal(t, RiskLow, riskLevel(m, Flags{HasStagnantTraining: true}))

	// Nothing wrong: None.
	assert.Equal(t, RiskNone, riskLevel(m, Flags{}))
}
