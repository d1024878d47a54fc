// Package assignment содержит доменную модель учебного задания студента.
package assignment

import (
	"fmt"

	"github.com/skillpassport/insight-engine/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Status определяет состояние задания в учебном процессе.
type Status string

const (
	// StatusTodo - задание выдано, работа не начата.
	StatusTodo Status = "todo"
	// StatusInProgress - студент работает над заданием.
	StatusInProgress Status = "in-progress"
	// StatusSubmitted - задание сдано, ожидает проверки.
	StatusSubmitted Status = "submitted"
	// StatusGraded - задание проверено и оценено.
	StatusGraded Status = "graded"
)

// IsValid проверяет, что статус корректен.
func (s Status) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusSubmitted, StatusGraded:
		return true
	default:
		return false
	}
}

// IsSubmitted возвращает true, если работа сдана (включая проверенные).
func (s Status) IsSubmitted() bool {
	return s == StatusSubmitted || s == StatusGraded
}

// IsPending возвращает true, если работа ещё не сдана.
func (s Status) IsPending() bool {
	return s == StatusTodo || s == StatusInProgress
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: ASSIGNMENT RECORD
// ══════════════════════════════════════════════════════════════════════════════

// Record - снимок одного задания. Задание принадлежит ровно одному
// студенту и привязано к его идентичности, а не к id записи.
type Record struct {
	// ID - идентификатор записи задания.
	ID string

	// StudentID - идентификатор студента-владельца.
	StudentID shared.StudentID

	// Title - название задания.
	Title string

	// Status - состояние задания.
	Status Status

	// GradePercentage - оценка в процентах; nil, пока не проверено.
	GradePercentage *float64

	// IsLate - сдано ли задание с опозданием.
	IsLate bool
}

// IsGraded возвращает true, если у задания есть оценка.
func (r Record) IsGraded() bool {
	return r.Status == StatusGraded && r.GradePercentage != nil
}

// String возвращает краткое строковое представление для логов.
func (r Record) String() string {
	return fmt.Sprintf("Assignment{ID: %s, Student: %s, Status: %s}", r.ID, r.StudentID, r.Status)
}
