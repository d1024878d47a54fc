package query

import (
	"context"
	"time"

	"github.com/skillpassport/insight-engine/internal/domain/assignment"
	"github.com/skillpassport/insight-engine/internal/domain/cohort"
	"github.com/skillpassport/insight-engine/internal/domain/shared"
	"github.com/skillpassport/insight-engine/internal/domain/signal"
	"github.com/skillpassport/insight-engine/internal/domain/skill"
	"github.com/skillpassport/insight-engine/internal/domain/student"
	"github.com/skillpassport/insight-engine/pkg/logger"
)

// topPerformersLimit - сколько лучших студентов попадает в аналитику.
const topPerformersLimit = 5

// ══════════════════════════════════════════════════════════════════════════════
// GET CLASS ANALYTICS QUERY
// Агрегирует метрики по всей когорте: средние показатели, популярные
// навыки, распределение проектов и доля завершивших обучение.
// ══════════════════════════════════════════════════════════════════════════════

// GetClassAnalyticsQuery содержит параметры запроса аналитики группы.
type GetClassAnalyticsQuery struct {
	// Cohort - фильтр по когорте (пустая строка = все студенты).
	Cohort string
}

// Validate проверяет корректность параметров запроса.
func (q *GetClassAnalyticsQuery) Validate() error {
	return nil
}

// SkillCountDTO - навык с числом студентов.
type SkillCountDTO struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ProjectsDistributionDTO - распределение студентов по числу проектов.
type ProjectsDistributionDTO struct {
	None      int `json:"none"`
	OneToTwo  int `json:"oneToTwo"`
	ThreePlus int `json:"threePlus"`
}

// PerformerDTO - студент из списка лучших.
type PerformerDTO struct {
	StudentID string  `json:"studentId"`
	Name      string  `json:"name"`
	Score     float64 `json:"score"`
}

// GetClassAnalyticsResult содержит результат запроса.
type GetClassAnalyticsResult struct {
	// TotalStudents - число студентов в группе.
	TotalStudents int `json:"totalStudents"`

	// AvgSkillsPerStudent - среднее число навыков на студента.
	AvgSkillsPerStudent float64 `json:"avgSkillsPerStudent"`

	// TopSkills - самые частые навыки группы.
	TopSkills []SkillCountDTO `json:"topSkills"`

	// ProjectsDistribution - распределение по числу проектов.
	// Сумма корзин равна TotalStudents.
	ProjectsDistribution ProjectsDistributionDTO `json:"projectsDistribution"`

	// TrainingCompletionRate - процент студентов с завершённым курсом.
	TrainingCompletionRate int `json:"trainingCompletionRate"`

	// TopPerformers - лучшие студенты по успеваемости.
	TopPerformers []PerformerDTO `json:"topPerformers"`

	// Cohort - когорта, по которой фильтровали (пустая = все).
	Cohort string `json:"cohort"`

	// Degraded - true, если входные данные получены не полностью.
	Degraded bool `json:"degraded"`

	// GeneratedAt - время генерации результата.
	GeneratedAt time.Time `json:"generatedAt"`
}

// GetClassAnalyticsHandler обрабатывает запросы аналитики группы.
type GetClassAnalyticsHandler struct {
	loader  signalLoader
	weights signal.RiskWeights
	log     *logger.Logger
}

// NewGetClassAnalyticsHandler создаёт новый обработчик.
func NewGetClassAnalyticsHandler(
	students student.Repository,
	cache student.Cache,
	assignments assignment.Repository,
	snapshotTTL time.Duration,
	log *logger.Logger,
) *GetClassAnalyticsHandler {
	return &GetClassAnalyticsHandler{
		loader: signalLoader{
			students:    students,
			cache:       cache,
			assignments: assignments,
			ttl:         snapshotTTL,
			log:         log,
		},
		weights: signal.DefaultRiskWeights(),
		log:     log,
	}
}

// Handle выполняет запрос аналитики группы.
func (h *GetClassAnalyticsHandler) Handle(ctx context.Context, query GetClassAnalyticsQuery, now time.Time) (*GetClassAnalyticsResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetClassAnalytics", shared.ErrValidation, err.Error(), err)
	}

	signals, degraded, err := h.loader.loadCohort(ctx, shared.Cohort(query.Cohort))
	if err != nil {
		return nil, shared.WrapError("query", "GetClassAnalytics", shared.ErrExternalService, "failed to load student signals", err)
	}

	analytics := cohort.Aggregate(signals)
	ranked := signal.Rank(signals, now, h.weights)
	performers := cohort.TopPerformers(ranked, topPerformersLimit)

	topSkills := toSkillCountDTOs(analytics.TopSkills)
	if len(topSkills) == 0 && analytics.TotalStudents > 0 {
		topSkills = marketTopSkills()
	}

	return &GetClassAnalyticsResult{
		TotalStudents:       analytics.TotalStudents,
		AvgSkillsPerStudent: analytics.AvgSkillsPerStudent,
		TopSkills:           topSkills,
		ProjectsDistribution: ProjectsDistributionDTO{
			None:      analytics.ProjectsDistribution.None,
			OneToTwo:  analytics.ProjectsDistribution.OneToTwo,
			ThreePlus: analytics.ProjectsDistribution.ThreePlus,
		},
		TrainingCompletionRate: analytics.TrainingCompletionRate,
		TopPerformers:          toPerformerDTOs(performers),
		Cohort:                 query.Cohort,
		Degraded:               degraded,
		GeneratedAt:            now,
	}, nil
}

// marketTopSkills возвращает рыночный список навыков по умолчанию.
// Используется, когда у студентов когорты нет ни одного включённого
// навыка и собственную статистику собрать не из чего.
func marketTopSkills() []SkillCountDTO {
	dtos := make([]SkillCountDTO, len(skill.InDemandDefault))
	for i, name := range skill.InDemandDefault {
		dtos[i] = SkillCountDTO{Name: skill.Normalize(name)}
	}
	return dtos
}

// toSkillCountDTOs конвертирует счётчики навыков в DTO.
func toSkillCountDTOs(skills []cohort.SkillCount) []SkillCountDTO {
	dtos := make([]SkillCountDTO, len(skills))
	for i, s := range skills {
		dtos[i] = SkillCountDTO{Name: s.Name, Count: s.Count}
	}
	return dtos
}

// toPerformerDTOs конвертирует список лучших студентов в DTO.
func toPerformerDTOs(performers []cohort.Performer) []PerformerDTO {
	dtos := make([]PerformerDTO, len(performers))
	for i, p := range performers {
		dtos[i] = PerformerDTO{
			StudentID: p.StudentID.String(),
			Name:      p.Name,
			Score:     p.Score,
		}
	}
	return dtos
}
