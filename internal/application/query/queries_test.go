package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/skillpassport/insight-engine/internal/domain/assignment"
	"github.com/skillpassport/insight-engine/internal/domain/opportunity"
	"github.com/skillpassport/insight-engine/internal/domain/shared"
	"github.com/skillpassport/insight-engine/internal/domain/skill"
	"github.com/skillpassport/insight-engine/internal/domain/student"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newStudent(t *testing.T, id, cohort string, skills int, projects int) *student.Record {
	t.Helper()

	techSkills := make([]student.TechnicalSkill, skills)
	names := []string{"go", "sql", "python", "react", "docker", "git"}
	for i := range techSkills {
		techSkills[i] = student.TechnicalSkill{Name: names[i%len(names)], Level: 4, Enabled: true}
	}
	projectList := make([]student.Project, projects)
	for i := range projectList {
		projectList[i] = student.Project{Title: "p", Status: "completed", Enabled: true}
	}

	updated := testNow.AddDate(0, 0, -2)
	rec, err := student.NewRecord(student.NewRecordParams{
		ID:                id,
		Name:              id,
		Cohort:            cohort,
		TechnicalSkills:   techSkills,
		Projects:          projectList,
		LastProfileUpdate: &updated,
	})
	assert.NoError(t, err)
	return rec
}

// ══════════════════════════════════════════════════════════════════════════════
// AT-RISK STUDENTS
// ══════════════════════════════════════════════════════════════════════════════

func TestGetAtRiskStudents_RanksEmptyProfilesFirst(t *testing.T) {
	students := &fakeStudentRepo{records: []*student.Record{
		newStudent(t, "clean", "alem", 5, 2),
		newStudent(t, "risky", "alem", 0, 0),
	}}
	assignments := &fakeAssignmentRepo{}
	h := NewGetAtRiskStudentsHandler(students, nil, assignments, 0, nil)

	res, err := h.Handle(context.Background(), GetAtRiskStudentsQuery{Cohort: "alem"}, testNow)

	assert.NoError(t, err)
	assert.Equal(t, 2, res.TotalStudents)
	assert.False(t, res.Degraded)
	assert.Equal(t, "risky", res.Students[0].StudentID)
	assert.GreaterOrEqual(t, res.Students[0].RiskScore, 5)
	assert.NotEmpty(t, res.Students[0].Flags)
}

func TestGetAtRiskStudents_MinScoreFilter(t *testing.T) {
	students := &fakeStudentRepo{records: []*student.Record{
		newStudent(t, "clean", "", 5, 2),
		newStudent(t, "risky", "", 0, 0),
	}}
	h := NewGetAtRiskStudentsHandler(students, nil, &fakeAssignmentRepo{}, 0, nil)

	res, err := h.Handle(context.Background(), GetAtRiskStudentsQuery{MinRiskScore: 5}, testNow)

	assert.NoError(t, err)
	assert.Len(t, res.Students, 1)
	assert.Equal(t, "risky", res.Students[0].StudentID)
}

func TestGetAtRiskStudents_ValidatesQuery(t *testing.T) {
	h := NewGetAtRiskStudentsHandler(&fakeStudentRepo{}, nil, &fakeAssignmentRepo{}, 0, nil)

	_, err := h.Handle(context.Background(), GetAtRiskStudentsQuery{Limit: -1}, testNow)

	assert.True(t, shared.IsValidation(err))
}

func TestGetAtRiskStudents_DegradedAssignments(t *testing.T) {
	students := &fakeStudentRepo{records: []*student.Record{
		newStudent(t, "s1", "", 5, 2),
	}}
	assignments := &fakeAssignmentRepo{
		byStudent: map[shared.StudentID][]assignment.Record{},
		err:       shared.ErrAssignmentsUnreadable,
	}
	h := NewGetAtRiskStudentsHandler(students, nil, assignments, 0, nil)

	res, err := h.Handle(context.Background(), GetAtRiskStudentsQuery{}, testNow)

	// Partial assignment data degrades the result instead of failing it.
	assert.NoError(t, err)
	assert.True(t, res.Degraded)
	assert.Equal(t, 1, res.TotalStudents)
}

func TestGetAtRiskStudents_StoreFailure(t *testing.T) {
	students := &fakeStudentRepo{err: errors.New("connection refused")}
	h := NewGetAtRiskStudentsHandler(students, nil, &fakeAssignmentRepo{}, 0, nil)

	_, err := h.Handle(context.Background(), GetAtRiskStudentsQuery{}, testNow)

	assert.Error(t, err)
	assert.True(t, shared.IsExternalService(err))
}

func TestGetAtRiskStudents_UsesCacheOnSecondCall(t *testing.T) {
	students := &fakeStudentRepo{records: []*student.Record{
		newStudent(t, "s1", "alem", 2, 1),
	}}
	cache := &fakeCache{}
	h := NewGetAtRiskStudentsHandler(students, cache, &fakeAssignmentRepo{}, 0, nil)

	_, err := h.Handle(context.Background(), GetAtRiskStudentsQuery{Cohort: "alem"}, testNow)
	assert.NoError(t, err)
	assert.Equal(t, 1, cache.setCalls)

	// Second run hits the cache; the snapshot is not re-stored.
	_, err = h.Handle(context.Background(), GetAtRiskStudentsQuery{Cohort: "alem"}, testNow)
	assert.NoError(t, err)
	assert.Equal(t, 1, cache.setCalls)
	assert.Equal(t, 2, cache.getCalls)
}

// ══════════════════════════════════════════════════════════════════════════════
// CLASS ANALYTICS
// ══════════════════════════════════════════════════════════════════════════════

func TestGetClassAnalytics_ProjectsDistribution(t *testing.T) {
	records := make([]*student.Record, 0, 10)
	for i, projects := range []int{0, 0, 0, 0, 1, 2, 2, 3, 5, 10} {
		records = append(records, newStudent(t, string(rune('a'+i)), "", 3, projects))
	}
	h := NewGetClassAnalyticsHandler(&fakeStudentRepo{records: records}, nil, &fakeAssignmentRepo{}, 0, nil)

	res, err := h.Handle(context.Background(), GetClassAnalyticsQuery{}, testNow)

	assert.NoError(t, err)
	assert.Equal(t, 10, res.TotalStudents)
	assert.Equal(t, 4, res.ProjectsDistribution.None)
	assert.Equal(t, 3, res.ProjectsDistribution.OneToTwo)
	assert.Equal(t, 3, res.ProjectsDistribution.ThreePlus)
	assert.Equal(t, 3.0, res.AvgSkillsPerStudent)
	assert.NotEmpty(t, res.TopSkills)
	assert.LessOrEqual(t, len(res.TopPerformers), 5)
}

func TestGetClassAnalytics_MarketFallbackWhenNoSkills(t *testing.T) {
	students := &fakeStudentRepo{records: []*student.Record{
		newStudent(t, "s1", "", 0, 1),
		newStudent(t, "s2", "", 0, 0),
	}}
	h := NewGetClassAnalyticsHandler(students, nil, &fakeAssignmentRepo{}, 0, nil)

	res, err := h.Handle(context.Background(), GetClassAnalyticsQuery{}, testNow)

	assert.NoError(t, err)
	assert.Equal(t, 2, res.TotalStudents)
	assert.Len(t, res.TopSkills, len(skill.InDemandDefault))
	assert.Equal(t, "react", res.TopSkills[0].Name)
	assert.Equal(t, "node js", res.TopSkills[4].Name)
	for _, s := range res.TopSkills {
		assert.Zero(t, s.Count)
	}
}

func TestGetClassAnalytics_EmptyCohort(t *testing.T) {
	h := NewGetClassAnalyticsHandler(&fakeStudentRepo{}, nil, &fakeAssignmentRepo{}, 0, nil)

	res, err := h.Handle(context.Background(), GetClassAnalyticsQuery{Cohort: "empty"}, testNow)

	assert.NoError(t, err)
	assert.Equal(t, 0, res.TotalStudents)
	assert.Empty(t, res.TopSkills)
}

// ══════════════════════════════════════════════════════════════════════════════
// OPPORTUNITY MATCHES
// ══════════════════════════════════════════════════════════════════════════════

func TestGetOpportunityMatches_PartialCoverage(t *testing.T) {
	rec, err := student.NewRecord(student.NewRecordParams{
		ID:   "s1",
		Name: "Aruzhan",
		TechnicalSkills: []student.TechnicalSkill{
			{Name: "Python", Level: 4, Enabled: true},
			{Name: "SQL", Level: 3, Enabled: true},
		},
	})
	assert.NoError(t, err)

	opps := &fakeOpportunityRepo{opps: []opportunity.Record{
		{ID: "o1", Title: "Data Intern", SkillsRequired: []string{"Python", "SQL", "Docker"}},
		{ID: "o2", Title: "No Requirements"},
	}}
	h := NewGetOpportunityMatchesHandler(&fakeStudentRepo{records: []*student.Record{rec}}, nil, &fakeAssignmentRepo{}, opps, 0, nil)

	res, err := h.Handle(context.Background(), GetOpportunityMatchesQuery{}, testNow)

	assert.NoError(t, err)
	assert.Equal(t, 1, res.TotalStudents)
	assert.Equal(t, 2, res.TotalOpportunities)
	assert.Len(t, res.Matches, 1)
	assert.Equal(t, 67, res.Matches[0].ReadinessScore)
	assert.Equal(t, []string{"docker"}, res.Matches[0].MissingSkills)
}

func TestGetOpportunityMatches_OpportunityStoreFailure(t *testing.T) {
	students := &fakeStudentRepo{records: []*student.Record{newStudent(t, "s1", "", 3, 1)}}
	opps := &fakeOpportunityRepo{err: errors.New("listing service down")}
	h := NewGetOpportunityMatchesHandler(students, nil, &fakeAssignmentRepo{}, opps, 0, nil)

	_, err := h.Handle(context.Background(), GetOpportunityMatchesQuery{}, testNow)

	assert.Error(t, err)
	assert.True(t, shared.IsExternalService(err))
}

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT ANALYSIS
// ══════════════════════════════════════════════════════════════════════════════

func TestGetStudentAnalysis_NotFoundPassesThrough(t *testing.T) {
	h := NewGetStudentAnalysisHandler(&fakeStudentRepo{}, &fakeAssignmentRepo{}, &fakeOpportunityRepo{}, nil)

	_, err := h.Handle(context.Background(), GetStudentAnalysisQuery{StudentID: "ghost"}, testNow)

	assert.True(t, shared.IsNotFound(err))
}

func TestGetStudentAnalysis_RequiresStudentID(t *testing.T) {
	h := NewGetStudentAnalysisHandler(&fakeStudentRepo{}, &fakeAssignmentRepo{}, &fakeOpportunityRepo{}, nil)

	_, err := h.Handle(context.Background(), GetStudentAnalysisQuery{StudentID: "  "}, testNow)

	assert.True(t, shared.IsValidation(err))
}

func TestGetStudentAnalysis_AnalysisWithMatches(t *testing.T) {
	students := &fakeStudentRepo{records: []*student.Record{newStudent(t, "s1", "", 5, 2)}}
	opps := &fakeOpportunityRepo{opps: []opportunity.Record{
		{ID: "o1", Title: "Backend Intern", SkillsRequired: []string{"go", "sql"}, ExperienceLevel: "Entry level"},
	}}
	h := NewGetStudentAnalysisHandler(students, &fakeAssignmentRepo{}, opps, nil)

	res, err := h.Handle(context.Background(), GetStudentAnalysisQuery{StudentID: "s1"}, testNow)

	assert.NoError(t, err)
	assert.False(t, res.Degraded)
	assert.Equal(t, "s1", res.Analysis.StudentID.String())
	assert.Len(t, res.Matches, 1)
	assert.Equal(t, 100, res.Matches[0].MatchScore)
	assert.Equal(t, "Ready", res.Matches[0].Classification)
}

func TestGetStudentAnalysis_DegradesWithoutOpportunities(t *testing.T) {
	students := &fakeStudentRepo{records: []*student.Record{newStudent(t, "s1", "", 5, 2)}}
	opps := &fakeOpportunityRepo{err: errors.New("listing service down")}
	h := NewGetStudentAnalysisHandler(students, &fakeAssignmentRepo{}, opps, nil)

	res, err := h.Handle(context.Background(), GetStudentAnalysisQuery{StudentID: "s1"}, testNow)

	// Profile analysis is still returned; matches degrade to empty.
	assert.NoError(t, err)
	assert.True(t, res.Degraded)
	assert.Empty(t, res.Matches)
	assert.NotZero(t, res.Analysis.OverallScore)
}
