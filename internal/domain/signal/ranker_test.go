package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRiskScore_EmptyProfileDoubleCounts(t *testing.T) {
	// 0 skills, 0 projects, no training: low-skills (high = 3) and
	// no-projects (medium = 2) flags plus the metric bonuses (2 + 1).
	sig := StudentSignal{}
	flags := DeriveFlags(sig, testNow)

	score := RiskScore(sig, flags, DefaultRiskWeights())

	assert.Equal(t, 8, score)
	assert.GreaterOrEqual(t, score, 5)
}

func TestRiskScore_LowGradesBonus(t *testing.T) {
	sig := StudentSignal{
		SkillsCount:   4,
		ProjectsCount: 1,
		Assignments:   AssignmentStats{AvgGrade: 50},
	}
	flags := DeriveFlags(sig, testNow)

	// low-grades flag (high = 3) plus the grade bonus (2).
	assert.Equal(t, 5, RiskScore(sig, flags, DefaultRiskWeights()))
}

func TestRiskScore_CleanProfileIsZero(t *testing.T) {
	updated := testNow.AddDate(0, 0, -1)
	sig := StudentSignal{
		SkillsCount:       5,
		ProjectsCount:     2,
		CompletedProjects: 2,
		LastProfileUpdate: &updated,
		Assignments:       AssignmentStats{AvgGrade: 90},
	}
	flags := DeriveFlags(sig, testNow)

	assert.Equal(t, 0, RiskScore(sig, flags, DefaultRiskWeights()))
}

func TestRank_SortsByScoreDescending(t *testing.T) {
	updated := testNow.AddDate(0, 0, -1)
	signals := []StudentSignal{
		{StudentID: "clean", SkillsCount: 5, ProjectsCount: 2, CompletedProjects: 2, LastProfileUpdate: &updated},
		{StudentID: "empty"},
		{StudentID: "few-skills", SkillsCount: 1, ProjectsCount: 1, LastProfileUpdate: &updated},
	}

	ranked := Rank(signals, testNow, DefaultRiskWeights())

	assert.Len(t, ranked, 3)
	assert.Equal(t, "empty", ranked[0].Signal.StudentID.String())
	assert.Equal(t, "few-skills", ranked[1].Signal.StudentID.String())
	assert.Equal(t, "clean", ranked[2].Signal.StudentID.String())
}

func TestRank_StableOnEqualScores(t *testing.T) {
	// Identical profiles keep input order, so two runs agree.
	signals := []StudentSignal{
		{StudentID: "a"},
		{StudentID: "b"},
		{StudentID: "c"},
	}

	first := Rank(signals, testNow, DefaultRiskWeights())
	second := Rank(signals, testNow, DefaultRiskWeights())

	for i := range first {
		assert.Equal(t, first[i].Signal.StudentID, second[i].Signal.StudentID)
	}
	assert.Equal(t, "a", first[0].Signal.StudentID.String())
	assert.Equal(t, "b", first[1].Signal.StudentID.String())
	assert.Equal(t, "c", first[2].Signal.StudentID.String())
}

func TestRankedList_TopN(t *testing.T) {
	list := RankedList{
		{RiskScore: 9},
		{RiskScore: 5},
		{RiskScore: 1},
	}

	assert.Len(t, list.TopN(2), 2)
	assert.Len(t, list.TopN(0), 3)
	assert.Len(t, list.TopN(10), 3)
}

func TestRankedList_FilterByMinScore(t *testing.T) {
	list := RankedList{
		{RiskScore: 9},
		{RiskScore: 5},
		{RiskScore: 1},
	}

	filtered := list.FilterByMinScore(5)

	assert.Len(t, filtered, 2)
	assert.Equal(t, 9, filtered[0].RiskScore)
	assert.Equal(t, 5, filtered[1].RiskScore)
}
