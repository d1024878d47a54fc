package student

import (
	"context"
	"time"

	"github.com/skillpassport/insight-engine/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Эти интерфейсы определяют контракт чтения профилей из хранилища данных.
// Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции чтения профилей студентов.
// Движок аналитики только читает - записи в хранилище нет.
type Repository interface {
	// GetByID возвращает снимок профиля по ID студента.
	// Возвращает shared.ErrStudentNotFound, если студент не найден.
	GetByID(ctx context.Context, id shared.StudentID) (*Record, error)

	// ListByCohort возвращает снимки профилей студентов когорты.
	// Пустая когорта (shared.CohortAll) означает всех студентов.
	ListByCohort(ctx context.Context, cohort shared.Cohort) ([]*Record, error)

	// Count возвращает количество студентов в когорте.
	Count(ctx context.Context, cohort shared.Cohort) (int, error)
}

// ══════════════════════════════════════════════════════════════════════════════
// CACHE INTERFACE
// Кеширование снимков профилей перед хранилищем. Кешируются только
// входные данные - вычисленные результаты никогда не сохраняются.
// ══════════════════════════════════════════════════════════════════════════════

// Cache определяет операции кеширования снимков профилей.
type Cache interface {
	// GetCohort получает снимки профилей когорты из кеша.
	// Возвращает shared.ErrNotFound при промахе кеша.
	GetCohort(ctx context.Context, cohort shared.Cohort) ([]*Record, error)

	// SetCohort сохраняет снимки профилей когорты в кеш.
	SetCohort(ctx context.Context, cohort shared.Cohort, records []*Record, ttl time.Duration) error

	// Invalidate удаляет снимки когорты из кеша.
	Invalidate(ctx context.Context, cohort shared.Cohort) error
}
