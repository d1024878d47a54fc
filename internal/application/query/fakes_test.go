package query

import (
	"context"
	"time"

	"github.com/skillpassport/insight-engine/internal/domain/assignment"
	"github.com/skillpassport/insight-engine/internal/domain/opportunity"
	"github.com/skillpassport/insight-engine/internal/domain/shared"
	"github.com/skillpassport/insight-engine/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// IN-MEMORY FAKES
// ══════════════════════════════════════════════════════════════════════════════

type fakeStudentRepo struct {
	records []*student.Record
	err     error
}

func (f *fakeStudentRepo) GetByID(_ context.Context, id shared.StudentID) (*student.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, rec := range f.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, shared.ErrStudentNotFound
}

func (f *fakeStudentRepo) ListByCohort(_ context.Context, cohort shared.Cohort) ([]*student.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	if cohort.IsAll() {
		return f.records, nil
	}
	out := make([]*student.Record, 0, len(f.records))
	for _, rec := range f.records {
		if rec.Cohort == cohort {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeStudentRepo) Count(ctx context.Context, cohort shared.Cohort) (int, error) {
	records, err := f.ListByCohort(ctx, cohort)
	return len(records), err
}

type fakeAssignmentRepo struct {
	byStudent map[shared.StudentID][]assignment.Record
	err       error
}

func (f *fakeAssignmentRepo) GetByStudentIDs(_ context.Context, _ []shared.StudentID) (map[shared.StudentID][]assignment.Record, error) {
	return f.byStudent, f.err
}

type fakeOpportunityRepo struct {
	opps []opportunity.Record
	err  error
}

func (f *fakeOpportunityRepo) ListActive(_ context.Context, limit int) ([]opportunity.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit > 0 && len(f.opps) > limit {
		return f.opps[:limit], nil
	}
	return f.opps, nil
}

type fakeCache struct {
	records  []*student.Record
	setCalls int
	getCalls int
}

func (f *fakeCache) GetCohort(_ context.Context, _ shared.Cohort) ([]*student.Record, error) {
	f.getCalls++
	if len(f.records) == 0 {
		return nil, shared.ErrNotFound
	}
	return f.records, nil
}

func (f *fakeCache) SetCohort(_ context.Context, _ shared.Cohort, records []*student.Record, _ time.Duration) error {
	f.setCalls++
	f.records = records
	return nil
}

func (f *fakeCache) Invalidate(_ context.Context, _ shared.Cohort) error {
	f.records = nil
	return nil
}
