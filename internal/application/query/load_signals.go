package query

import (
	"context"
	"time"

	"github.com/skillpassport/insight-engine/internal/domain/assignment"
	"github.com/skillpassport/insight-engine/internal/domain/shared"
	"github.com/skillpassport/insight-engine/internal/domain/signal"
	"github.com/skillpassport/insight-engine/internal/domain/student"
	"github.com/skillpassport/insight-engine/pkg/logger"
)

// defaultSnapshotTTL - время жизни кешированных снимков профилей,
// если обработчику не передан собственный TTL.
const defaultSnapshotTTL = 5 * time.Minute

// ══════════════════════════════════════════════════════════════════════════════
// SIGNAL LOADER
// Общий шаг конвейера для всех групповых запросов: загрузка снимков
// профилей (через кеш), догрузка заданий и извлечение сигналов.
// ══════════════════════════════════════════════════════════════════════════════

// signalLoader загружает и извлекает сигналы студентов когорты.
type signalLoader struct {
	students    student.Repository
	cache       student.Cache
	assignments assignment.Repository
	ttl         time.Duration
	log         *logger.Logger
}

// loadCohort возвращает сигналы студентов когорты в порядке хранилища.
// degraded == true означает, что задания получены не полностью и часть
// сигналов построена по пустым наборам заданий.
func (l signalLoader) loadCohort(ctx context.Context, cohort shared.Cohort) (signals []signal.StudentSignal, degraded bool, err error) {
	records, err := l.loadRecords(ctx, cohort)
	if err != nil {
		return nil, false, err
	}

	byStudent, degraded := l.loadAssignments(ctx, records)

	signals = make([]signal.StudentSignal, 0, len(records))
	for _, rec := range records {
		signals = append(signals, signal.Extract(rec, byStudent[rec.ID]))
	}
	return signals, degraded, nil
}

// loadOne возвращает сигнал одного студента.
func (l signalLoader) loadOne(ctx context.Context, id shared.StudentID) (signal.StudentSignal, bool, error) {
	rec, err := l.students.GetByID(ctx, id)
	if err != nil {
		return signal.StudentSignal{}, false, err
	}

	byStudent, degraded := l.loadAssignments(ctx, []*student.Record{rec})
	return signal.Extract(rec, byStudent[rec.ID]), degraded, nil
}

// loadRecords читает снимки профилей когорты, предпочитая кеш.
// Промах и ошибки кеша не фатальны - кеш только ускоряет чтение.
func (l signalLoader) loadRecords(ctx context.Context, cohort shared.Cohort) ([]*student.Record, error) {
	if l.cache != nil {
		if cached, err := l.cache.GetCohort(ctx, cohort); err == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	records, err := l.students.ListByCohort(ctx, cohort)
	if err != nil {
		return nil, err
	}

	if l.cache != nil && len(records) > 0 {
		ttl := l.ttl
		if ttl <= 0 {
			ttl = defaultSnapshotTTL
		}
		if err := l.cache.SetCohort(ctx, cohort, records, ttl); err != nil && l.log != nil {
			l.log.Warn("failed to cache profile snapshots",
				logger.String("cohort", cohort.String()), logger.Err(err))
		}
	}
	return records, nil
}

// loadAssignments догружает задания для набора студентов.
//
// Контракт деградации: сбой загрузки заданий не прерывает аналитику.
// Частично полученные данные используются, остальные студенты
// получают пустые наборы заданий.
func (l signalLoader) loadAssignments(ctx context.Context, records []*student.Record) (map[shared.StudentID][]assignment.Record, bool) {
	if len(records) == 0 {
		return nil, false
	}

	ids := make([]shared.StudentID, len(records))
	for i, rec := range records {
		ids[i] = rec.ID
	}

	byStudent, err := l.assignments.GetByStudentIDs(ctx, ids)
	if err != nil {
		if l.log != nil {
			l.log.Warn("assignment lookup degraded, continuing with partial data",
				logger.Int("students", len(ids)), logger.Err(err))
		}
		return byStudent, true
	}
	return byStudent, false
}
