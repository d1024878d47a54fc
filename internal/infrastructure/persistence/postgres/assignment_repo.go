package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/skillpassport/insight-engine/internal/domain/assignment"
	"github.com/skillpassport/insight-engine/internal/domain/shared"
	"github.com/skillpassport/insight-engine/pkg/logger"
	"github.com/skillpassport/insight-engine/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// ASSIGNMENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// assignmentBatchSize caps how many student ids go into a single query. Cohorts
// run into the thousands and the assignments table is row-level
// protected, so batches keep each statement bounded and let one denied
// batch fail without dragging the rest down.
const assignmentBatchSize = 100

// AssignmentRepository implements assignment.Repository for PostgreSQL.
//
// Assignment data is best effort: the table sits behind row level
// security and a batch can come back denied or time out. A failed
// batch is logged and skipped, and the error returned alongside the
// partial result wraps shared.ErrPartialData so callers can degrade
// instead of aborting the whole analysis.
type AssignmentRepository struct {
	conn    *Connection
	retrier *retry.Retrier
	log     *logger.Logger
}

var _ assignment.Repository = (*AssignmentRepository)(nil)

// NewAssignmentRepository creates a new AssignmentRepository.
func NewAssignmentRepository(conn *Connection, log *logger.Logger) *AssignmentRepository {
	return &AssignmentRepository{
		conn:    conn,
		retrier: retry.DatabaseRetrier(),
		log:     log,
	}
}

// GetByStudentIDs loads assignments for a set of students, grouped by
// owner. Students without assignments simply have no entry in the map.
// When some batches fail the map still holds everything that loaded,
// and the returned error satisfies shared.IsPartialData.
func (r *AssignmentRepository) GetByStudentIDs(ctx context.Context, ids []shared.StudentID) (map[shared.StudentID][]assignment.Record, error) {
	results := make(map[shared.StudentID][]assignment.Record)
	if len(ids) == 0 {
		return results, nil
	}

	batches := chunkIDs(ids, assignmentBatchSize)

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		batchErrs []error
	)

	for _, batch := range batches {
		wg.Add(1)
		go func(batch []string) {
			defer wg.Done()

			records, err := r.fetchBatch(ctx, batch)
			if err != nil {
				r.log.Warn("assignment batch skipped",
					logger.Int("batch_size", len(batch)),
					logger.Err(err),
				)
				mu.Lock()
				batchErrs = append(batchErrs, err)
				mu.Unlock()
				return
			}

			mu.Lock()
			for _, rec := range records {
				results[rec.StudentID] = append(results[rec.StudentID], rec)
			}
			mu.Unlock()
		}(batch)
	}
	wg.Wait()

	if len(batchErrs) > 0 {
		err := shared.WrapError("assignment", "GetByStudentIDs", shared.ErrPartialData,
			fmt.Sprintf("%d of %d assignment batches failed", len(batchErrs), len(batches)),
			errors.Join(batchErrs...))
		return results, err
	}
	return results, nil
}

// fetchBatch runs one batched query with retry. Access denials are
// permanent and not worth retrying; transient failures get the usual
// database backoff.
func (r *AssignmentRepository) fetchBatch(ctx context.Context, ids []string) ([]assignment.Record, error) {
	query := `
		SELECT id, student_id, title, status, grade_percentage, is_late
		FROM assignments
		WHERE student_id = ANY($1)
	`

	var records []assignment.Record
	err := r.retrier.Do(ctx, func(ctx context.Context) error {
		rows, err := r.conn.Query(ctx, query, ids)
		if err != nil {
			if IsAccessDenied(err) {
				return retry.Permanent(fmt.Errorf("assignments access denied: %w", err))
			}
			return retry.Retryable(fmt.Errorf("failed to query assignments: %w", err))
		}
		defer rows.Close()

		records = records[:0]
		for rows.Next() {
			var (
				id, studentID, title, status string
				grade                        *float64
				isLate                       bool
			)
			if err := rows.Scan(&id, &studentID, &title, &status, &grade, &isLate); err != nil {
				return retry.Retryable(fmt.Errorf("failed to scan assignment row: %w", err))
			}
			records = append(records, assignment.Record{
				ID:              id,
				StudentID:       shared.StudentID(studentID),
				Title:           title,
				Status:          parseAssignmentStatus(status),
				GradePercentage: grade,
				IsLate:          isLate,
			})
		}
		if err := rows.Err(); err != nil {
			return retry.Retryable(fmt.Errorf("failed to iterate assignments: %w", err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// chunkIDs splits ids into batches of at most size, converted to the
// plain strings pgx binds into ANY($1).
func chunkIDs(ids []shared.StudentID, size int) [][]string {
	var batches [][]string
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		batch := make([]string, 0, end-start)
		for _, id := range ids[start:end] {
			batch = append(batch, string(id))
		}
		batches = append(batches, batch)
	}
	return batches
}
