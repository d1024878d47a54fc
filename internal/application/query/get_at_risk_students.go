// Package query contains read operations following CQRS pattern.
// Queries never modify state - they only read and return data.
// Each query is a self-contained use case with its own request/response types.
package query

import (
	"context"
	"errors"
	"time"

	"github.com/skillpassport/insight-engine/internal/domain/assignment"
	"github.com/skillpassport/insight-engine/internal/domain/shared"
	"github.com/skillpassport/insight-engine/internal/domain/signal"
	"github.com/skillpassport/insight-engine/internal/domain/student"
	"github.com/skillpassport/insight-engine/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET AT-RISK STUDENTS QUERY
// Ранжирует студентов когорты по нужде во вмешательстве: флаги риска
// плюс метрические бонусы, сортировка по убыванию балла.
// ══════════════════════════════════════════════════════════════════════════════

// GetAtRiskStudentsQuery содержит параметры запроса студентов в зоне риска.
type GetAtRiskStudentsQuery struct {
	// Cohort - фильтр по когорте (пустая строка = все студенты).
	Cohort string

	// Limit - количество записей (по умолчанию 20, максимум 100).
	Limit int

	// MinRiskScore - вернуть только студентов с баллом не ниже порога.
	MinRiskScore int
}

// Validate проверяет корректность параметров запроса.
func (q *GetAtRiskStudentsQuery) Validate() error {
	if q.Limit < 0 {
		return errors.New("limit cannot be negative")
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	if q.Limit == 0 {
		q.Limit = 20
	}
	if q.MinRiskScore < 0 {
		return errors.New("min risk score cannot be negative")
	}
	return nil
}

// FlagDTO - DTO одного флага риска.
type FlagDTO struct {
	// Type - тип условия риска.
	Type string `json:"type"`

	// Reason - текстовая причина с величинами, вызвавшими срабатывание.
	Reason string `json:"reason"`

	// Severity - серьёзность: low, medium, high.
	Severity string `json:"severity"`
}

// AtRiskStudentDTO - DTO студента в зоне риска.
type AtRiskStudentDTO struct {
	// StudentID - идентификатор студента.
	StudentID string `json:"studentId"`

	// Name - отображаемое имя.
	Name string `json:"name"`

	// Flags - сработавшие флаги риска.
	Flags []FlagDTO `json:"flags"`

	// RiskScore - агрегированный балл риска.
	RiskScore int `json:"riskScore"`
}

// GetAtRiskStudentsResult содержит результат запроса.
type GetAtRiskStudentsResult struct {
	// Students - студенты по убыванию балла риска.
	Students []AtRiskStudentDTO `json:"students"`

	// TotalStudents - сколько студентов было проанализировано.
	TotalStudents int `json:"totalStudents"`

	// Cohort - когорта, по которой фильтровали (пустая = все).
	Cohort string `json:"cohort"`

	// Degraded - true, если задания получены не полностью и часть
	// оценок построена по пустым наборам заданий.
	Degraded bool `json:"degraded"`

	// GeneratedAt - время генерации результата.
	GeneratedAt time.Time `json:"generatedAt"`
}

// GetAtRiskStudentsHandler обрабатывает запросы студентов в зоне риска.
type GetAtRiskStudentsHandler struct {
	loader  signalLoader
	weights signal.RiskWeights
	log     *logger.Logger
}

// NewGetAtRiskStudentsHandler создаёт новый обработчик.
func NewGetAtRiskStudentsHandler(
	students student.Repository,
	cache student.Cache,
	assignments assignment.Repository,
	snapshotTTL time.Duration,
	log *logger.Logger,
) *GetAtRiskStudentsHandler {
	return &GetAtRiskStudentsHandler{
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

// Handle выполняет запрос. Текущее время передаётся явно: все проверки
// давности детерминированы относительно него.
func (h *GetAtRiskStudentsHandler) Handle(ctx context.Context, query GetAtRiskStudentsQuery, now time.Time) (*GetAtRiskStudentsResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "GetAtRiskStudents", shared.ErrValidation, err.Error(), err)
	}

	cohort := shared.Cohort(query.Cohort)

	signals, degraded, err := h.loader.loadCohort(ctx, cohort)
	if err != nil {
		return nil, shared.WrapError("query", "GetAtRiskStudents", shared.ErrExternalService, "failed to load student signals", err)
	}

	ranked := signal.Rank(signals, now, h.weights)
	if query.MinRiskScore > 0 {
		ranked = ranked.FilterByMinScore(query.MinRiskScore)
	}
	ranked = ranked.TopN(query.Limit)

	return &GetAtRiskStudentsResult{
		Students:      toAtRiskDTOs(ranked),
		TotalStudents: len(signals),
		Cohort:        query.Cohort,
		Degraded:      degraded,
		GeneratedAt:   now,
	}, nil
}

// toAtRiskDTOs конвертирует ранжированный список в DTO.
func toAtRiskDTOs(ranked signal.RankedList) []AtRiskStudentDTO {
	dtos := make([]AtRiskStudentDTO, len(ranked))
	for i, r := range ranked {
		flags := make([]FlagDTO, len(r.Flags))
		for j, f := range r.Flags {
			flags[j] = FlagDTO{
				Type:     string(f.Type),
				Reason:   f.Reason,
				Severity: string(f.Severity),
			}
		}
		dtos[i] = AtRiskStudentDTO{
			StudentID: r.Signal.StudentID.String(),
			Name:      r.Signal.Name,
			Flags:     flags,
			RiskScore: r.RiskScore,
		}
	}
	return dtos
}
