package query

import (
	"context"
	"errors"
	"time"

	"github.com/skillpassport/insight-engine/internal/domain/assignment"
	"github.com/skillpassport/insight-engine/internal/domain/matching"
	"github.com/skillpassport/insight-engine/internal/domain/opportunity"
	"github.com/skillpassport/insight-engine/internal/domain/shared"
	"github.com/skillpassport/insight-engine/internal/domain/student"
	"github.com/skillpassport/insight-engine/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET OPPORTUNITY MATCHES QUERY
// Сопоставляет студентов когорты с открытыми вакансиями по покрытию
// требуемых навыков (лёгкий вариант матчинга).
// ══════════════════════════════════════════════════════════════════════════════

// GetOpportunityMatchesQuery содержит параметры запроса матчей.
type GetOpportunityMatchesQuery struct {
	// Cohort - фильтр по когорте (пустая строка = все студенты).
	Cohort string

	// JobLimit - сколько открытых вакансий рассматривать
	// (по умолчанию 50, максимум 200).
	JobLimit int

	// Limit - максимум матчей в ответе (0 = без ограничения).
	Limit int
}

// Validate проверяет корректность параметров запроса.
func (q *GetOpportunityMatchesQuery) Validate() error {
	if q.JobLimit < 0 {
		return errors.New("job limit cannot be negative")
	}
	if q.JobLimit > 200 {
		q.JobLimit = 200
	}
	if q.JobLimit == 0 {
		q.JobLimit = 50
	}
	if q.Limit < 0 {
		return errors.New("limit cannot be negative")
	}
	return nil
}

// OpportunityMatchDTO - DTO одной пары (студент, вакансия).
type OpportunityMatchDTO struct {
	// StudentID - идентификатор студента.
	StudentID string `json:"studentId"`

	// StudentName - отображаемое имя студента.
	StudentName string `json:"studentName"`

	// OpportunityID - идентификатор вакансии.
	OpportunityID string `json:"opportunityId"`

	// OpportunityTitle - название позиции.
	OpportunityTitle string `json:"opportunityTitle"`

	// MatchedSkills - требуемые навыки, которые есть у студента.
	MatchedSkills []string `json:"matchedSkills"`

	// MissingSkills - требуемые навыки, которых не хватает.
	MissingSkills []string `json:"missingSkills"`

	// ReadinessScore - процент покрытия требуемых навыков.
	ReadinessScore int `json:"readinessScore"`
}

// GetOpportunityMatchesResult содержит результат запроса.
type GetOpportunityMatchesResult struct {
	// Matches - пары по убыванию покрытия.
	Matches []OpportunityMatchDTO `json:"matches"`

	// TotalStudents - сколько студентов участвовало в матчинге.
	TotalStudents int `json:"totalStudents"`

	// TotalOpportunities - сколько вакансий рассматривалось.
	TotalOpportunities int `json:"totalOpportunities"`

	// Cohort - когорта, по которой фильтровали (пустая = все).
	Cohort string `json:"cohort"`

	// Degraded - true, если входные данные получены не полностью.
	Degraded bool `json:"degraded"`

	// GeneratedAt - время генерации результата.
	GeneratedAt time.Time `json:"generatedAt"`
}

// GetOpportunityMatchesHandler обрабатывает запросы матчинга.
type GetOpportunityMatchesHandler struct {
	loader        signalLoader
	opportunities opportunity.Repository
	log           *logger.Logger
}

// NewGetOpportunityMatchesHandler создаёт новый обработчик.
func NewGetOpportunityMatchesHandler(
	students student.Repository,
	cache student.Cache,
	assignments assignment.Repository,
	opportunities opportunity.Repository,
	snapshotTTL time.Duration,
	log *logger.Logger,
) *GetOpportunityMatchesHandler {
	return &GetOpportunityMatchesHandler{
		loader: signalLoader{
			students:    students,
			cache:       cache,
			assignments: assignments,
			ttl:         snapshotTTL,
			log:         log,
		},
		opportunities: opportunities,
		log:           log,
	}
}

// Handle выполняет запрос матчинга.
func (h *GetOpportunityMatchesHandler) Handle(ctx context.Context, query GetOpportunityMatchesQuery, now time.Time) (*GetOpportunityMatchesResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetOpportunityMatches", shared.ErrValidation, err.Error(), err)
	}

	cohort := shared.Cohort(query.Cohort)

	signals, degraded, err := h.loader.loadCohort(ctx, cohort)
	if err != nil {
		return nil, shared.WrapError("query", "GetOpportunityMatches", shared.ErrExternalService, "failed to load student signals", err)
	}

	opps, err := h.opportunities.ListActive(ctx, query.JobLimit)
	if err != nil {
		return nil, shared.WrapError("query", "GetOpportunityMatches", shared.ErrExternalService, "failed to load opportunities", err)
	}

	matches := matching.MatchAll(signals, opps)
	if query.Limit > 0 {
		matches = matches.TopN(query.Limit)
	}

	return &GetOpportunityMatchesResult{
		Matches:            toMatchDTOs(matches),
		TotalStudents:      len(signals),
		TotalOpportunities: len(opps),
		Cohort:             query.Cohort,
		Degraded:           degraded,
		GeneratedAt:        now,
	}, nil
}

// toMatchDTOs конвертирует матчи в DTO.
func toMatchDTOs(matches matching.MatchList) []OpportunityMatchDTO {
	dtos := make([]OpportunityMatchDTO, len(matches))
	for i, m := range matches {
		dtos[i] = OpportunityMatchDTO{
			StudentID:        m.StudentID.String(),
			StudentName:      m.StudentName,
			OpportunityID:    m.OpportunityID.String(),
			OpportunityTitle: m.OpportunityTitle,
			MatchedSkills:    m.MatchedSkills,
			MissingSkills:    m.MissingSkills,
			ReadinessScore:   m.ReadinessScore,
		}
	}
	return dtos
}
