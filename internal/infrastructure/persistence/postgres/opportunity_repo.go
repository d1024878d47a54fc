package postgres

import (
	"context"
	"fmt"

	"github.com/skillpassport/insight-engine/internal/domain/opportunity"
	"github.com/skillpassport/insight-engine/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// OPPORTUNITY REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// OpportunityRepository implements opportunity.Repository for PostgreSQL.
type OpportunityRepository struct {
	conn *Connection
}

var _ opportunity.Repository = (*OpportunityRepository)(nil)

// NewOpportunityRepository creates a new OpportunityRepository.
func NewOpportunityRepository(conn *Connection) *OpportunityRepository {
	return &OpportunityRepository{conn: conn}
}

// ListActive loads up to limit open job postings, newest first.
// Required skills live in a jsonb array; a malformed array decodes to
// an empty requirement list, which the matchers already skip.
func (r *OpportunityRepository) ListActive(ctx context.Context, limit int) ([]opportunity.Record, error) {
	query := `
		SELECT id, title, company, skills_required, experience_level, is_active, status
		FROM opportunities
		WHERE is_active = TRUE AND LOWER(status) = 'open'
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.conn.Query(ctx, query, limit)
	if err != nil {
		return nil, shared.WrapError("opportunity", "ListActive", shared.ErrExternalService,
			"failed to query opportunities", err)
	}
	defer rows.Close()

	var records []opportunity.Record
	for rows.Next() {
		var (
			id, title, company string
			skillsRequired     []byte
			experienceLevel    string
			isActive           bool
			status             string
		)
		if err := rows.Scan(&id, &title, &company, &skillsRequired, &experienceLevel, &isActive, &status); err != nil {
			return nil, fmt.Errorf("failed to scan opportunity row: %w", err)
		}
		records = append(records, opportunity.Record{
			ID:              shared.OpportunityID(id),
			Title:           title,
			Company:         company,
			SkillsRequired:  decodeSection[string](skillsRequired),
			ExperienceLevel: opportunity.ExperienceLevel(experienceLevel),
			IsActive:        isActive,
			Status:          status,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate opportunities: %w", err)
	}
	return records, nil
}
