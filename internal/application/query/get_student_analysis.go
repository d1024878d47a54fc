package query

import (
	"context"
	"errors"
	"time"

	"github.com/skillpassport/insight-engine/internal/domain/analysis"
	"github.com/skillpassport/insight-engine/internal/domain/assignment"
	"github.com/skillpassport/insight-engine/internal/domain/matching"
	"github.com/skillpassport/insight-engine/internal/domain/opportunity"
	"github.com/skillpassport/insight-engine/internal/domain/shared"
	"github.com/skillpassport/insight-engine/internal/domain/student"
	"github.com/skillpassport/insight-engine/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET STUDENT ANALYSIS QUERY
// Индивидуальный разбор одного студента: глубокие метрики, уровень
// риска, готовность к карьере и матчи с вакансиями с учётом опыта.
// ══════════════════════════════════════════════════════════════════════════════

// GetStudentAnalysisQuery содержит параметры запроса разбора студента.
type GetStudentAnalysisQuery struct {
	// StudentID - идентификатор студента.
	StudentID string

	// JobLimit - сколько открытых вакансий рассматривать
	// (по умолчанию 50, максимум 200).
	JobLimit int
}

// Validate проверяет корректность параметров запроса.
func (q *GetStudentAnalysisQuery) Validate() error {
	if !shared.StudentID(q.StudentID).IsValid() {
		return errors.New("student id is required")
	}
	if q.JobLimit < 0 {
		return errors.New("job limit cannot be negative")
	}
	if q.JobLimit > 200 {
		q.JobLimit = 200
	}
	if q.JobLimit == 0 {
		q.JobLimit = 50
	}
	return nil
}

// DeepMatchDTO - DTO матча с учётом опыта.
type DeepMatchDTO struct {
	OpportunityID    string `json:"opportunityId"`
	OpportunityTitle string `json:"opportunityTitle"`
	Company          string `json:"company,omitempty"`

	// SkillMatchScore - процент покрытия требуемых навыков.
	SkillMatchScore float64 `json:"skillMatchScore"`

	// ExperienceMatch - прошёл ли студент проверку требуемого опыта.
	ExperienceMatch bool `json:"experienceMatch"`

	// MatchScore - итоговый балл матча.
	MatchScore int `json:"matchScore"`

	// Classification - вердикт: Ready, Close, Needs Training.
	Classification string `json:"classification"`

	MatchedSkills []string `json:"matchedSkills"`
	MissingSkills []string `json:"missingSkills"`
}

// GetStudentAnalysisResult содержит результат разбора.
type GetStudentAnalysisResult struct {
	// Analysis - полный результат глубокого анализа.
	Analysis analysis.Result `json:"analysis"`

	// Matches - вакансии по убыванию итогового балла.
	Matches []DeepMatchDTO `json:"matches"`

	// Degraded - true, если задания получены не полностью.
	Degraded bool `json:"degraded"`

	// GeneratedAt - время генерации результата.
	GeneratedAt time.Time `json:"generatedAt"`
}

// GetStudentAnalysisHandler обрабатывает запросы разбора студента.
type GetStudentAnalysisHandler struct {
	loader        signalLoader
	opportunities opportunity.Repository
	weights       matching.DeepWeights
	log           *logger.Logger
}

// NewGetStudentAnalysisHandler создаёт новый обработчик.
func NewGetStudentAnalysisHandler(
	students student.Repository,
	assignments assignment.Repository,
	opportunities opportunity.Repository,
	log *logger.Logger,
) *GetStudentAnalysisHandler {
	return &GetStudentAnalysisHandler{
		loader: signalLoader{
			students:    students,
			assignments: assignments,
			log:         log,
		},
		opportunities: opportunities,
		weights:       matching.DefaultDeepWeights(),
		log:           log,
	}
}

// Handle выполняет разбор студента.
func (h *GetStudentAnalysisHandler) Handle(ctx context.Context, query GetStudentAnalysisQuery, now time.Time) (*GetStudentAnalysisResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetStudentAnalysis", shared.ErrValidation, err.Error(), err)
	}

	sig, degraded, err := h.loader.loadOne(ctx, shared.StudentID(query.StudentID))
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, err
		}
		return nil, shared.WrapError("query", "GetStudentAnalysis", shared.ErrExternalService, "failed to load student signal", err)
	}

	opps, err := h.opportunities.ListActive(ctx, query.JobLimit)
	if err != nil {
		// Разбор профиля ценен и без матчей - деградируем, не падаем.
		if h.log != nil {
			h.log.Warn("opportunity lookup degraded, returning analysis without matches",
				logger.String("student_id", query.StudentID), logger.Err(err))
		}
		opps = nil
		degraded = true
	}

	matches := matching.MatchDeep(sig, opps, h.weights)

	return &GetStudentAnalysisResult{
		Analysis:    analysis.Analyze(sig, now),
		Matches:     toDeepMatchDTOs(matches),
		Degraded:    degraded,
		GeneratedAt: now,
	}, nil
}

// toDeepMatchDTOs конвертирует глубокие матчи в DTO.
func toDeepMatchDTOs(matches []matching.DeepMatch) []DeepMatchDTO {
	dtos := make([]DeepMatchDTO, len(matches))
	for i, m := range matches {
		dtos[i] = DeepMatchDTO{
			OpportunityID:    m.OpportunityID.String(),
			OpportunityTitle: m.OpportunityTitle,
			Company:          m.Company,
			SkillMatchScore:  m.SkillMatchScore,
			ExperienceMatch:  m.ExperienceMatch,
			MatchScore:       m.MatchScore,
			Classification:   string(m.Classification),
			MatchedSkills:    m.MatchedSkills,
			MissingSkills:    m.MissingSkills,
		}
	}
	return dtos
}
