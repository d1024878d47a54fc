// Package postgres implements the PostgreSQL persistence layer for the
// insight engine. All repositories in this package are read views over
// the shared Supabase schema: the engine analyzes profiles, it does not
// author them.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/skillpassport/insight-engine/internal/domain/shared"
	"github.com/skillpassport/insight-engine/internal/domain/student"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// StudentRepository implements student.Repository for PostgreSQL.
type StudentRepository struct {
	conn *Connection
}

var _ student.Repository = (*StudentRepository)(nil)

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(conn *Connection) *StudentRepository {
	return &StudentRepository{conn: conn}
}

// studentColumns is the shared select list: identity first, then the
// jsonb profile sections in the order scanStudent expects them.
const studentColumns = `
	id, name, cohort,
	technical_skills, soft_skills, projects,
	training, experience, certificates,
	last_profile_update
`

// ─────────────────────────────────────────────────────────────────────────────
// Read Operations
// ─────────────────────────────────────────────────────────────────────────────

// GetByID loads a single student profile.
func (r *StudentRepository) GetByID(ctx context.Context, id shared.StudentID) (*student.Record, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`

	row := r.conn.QueryRow(ctx, query, string(id))
	rec, err := r.scanStudent(row)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student %s: %w", id, err)
	}
	return rec, nil
}

// ListByCohort loads every student profile in a cohort. The all-cohorts
// sentinel loads the entire student body. Order is stable by id so that
// downstream ranking ties break deterministically.
func (r *StudentRepository) ListByCohort(ctx context.Context, cohort shared.Cohort) ([]*student.Record, error) {
	query := `
		SELECT ` + studentColumns + `
		FROM students
		WHERE ($1 = '' OR cohort = $1)
		ORDER BY id
	`

	rows, err := r.conn.Query(ctx, query, string(cohort))
	if err != nil {
		return nil, fmt.Errorf("failed to list students for cohort %q: %w", cohort, err)
	}
	defer rows.Close()

	var records []*student.Record
	for rows.Next() {
		rec, err := r.scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate students: %w", err)
	}
	return records, nil
}

// Count returns the number of students in a cohort.
func (r *StudentRepository) Count(ctx context.Context, cohort shared.Cohort) (int, error) {
	query := `SELECT COUNT(*) FROM students WHERE ($1 = '' OR cohort = $1)`

	var count int
	if err := r.conn.QueryRow(ctx, query, string(cohort)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count students for cohort %q: %w", cohort, err)
	}
	return count, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scanning
// ─────────────────────────────────────────────────────────────────────────────

// scanStudent scans one row into a domain record. The jsonb sections
// arrive as raw bytes and go through the dto/mapper boundary, where the
// defaulting rules for loose profile documents live.
func (r *StudentRepository) scanStudent(row pgx.Row) (*student.Record, error) {
	var (
		id, name, cohort  string
		technicalSkills   []byte
		softSkills        []byte
		projects          []byte
		training          []byte
		experience        []byte
		certificates      []byte
		lastProfileUpdate *time.Time
	)

	err := row.Scan(
		&id, &name, &cohort,
		&technicalSkills, &softSkills, &projects,
		&training, &experience, &certificates,
		&lastProfileUpdate,
	)
	if err != nil {
		return nil, err
	}

	rec, err := student.NewRecord(student.NewRecordParams{
		ID:                id,
		Name:              name,
		Cohort:            cohort,
		TechnicalSkills:   toTechnicalSkills(decodeSection[technicalSkillDoc](technicalSkills)),
		SoftSkills:        toSoftSkills(decodeSection[softSkillDoc](softSkills)),
		Projects:          toProjects(decodeSection[projectDoc](projects)),
		Training:          toTraining(decodeSection[trainingDoc](training)),
		Experience:        toExperience(decodeSection[experienceDoc](experience)),
		Certificates:      toCertificates(decodeSection[certificateDoc](certificates)),
		LastProfileUpdate: lastProfileUpdate,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid student row %q: %w", id, err)
	}
	return rec, nil
}
