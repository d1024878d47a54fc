package assignment

import (
	"context"

	"github.com/skillpassport/insight-engine/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции чтения заданий из хранилища данных.
type Repository interface {
	// GetByStudentIDs возвращает задания, сгруппированные по студентам.
	//
	// Контракт деградации: при частичном сбое (упал один батч, закрыт
	// доступ к заданиям) метод возвращает то, что удалось получить,
	// вместе с ошибкой вида shared.ErrPartialData. Полный отказ
	// хранилища возвращается как обычная ошибка без данных.
	// Студенты без заданий в результирующей карте отсутствуют.
	GetByStudentIDs(ctx context.Context, ids []shared.StudentID) (map[shared.StudentID][]Record, error)
}
