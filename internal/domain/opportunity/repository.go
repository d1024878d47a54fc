package opportunity

import "context"

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции чтения вакансий из хранилища данных.
type Repository interface {
	// ListActive возвращает открытые вакансии, не больше limit штук.
	// limit <= 0 трактуется как значение по умолчанию реализации.
	ListActive(ctx context.Context, limit int) ([]Record, error)
}
