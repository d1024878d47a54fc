package redis

import (
	"context"
	"errors"
	"time"

	"github.com/skillpassport/insight-engine/internal/domain/shared"
	"github.com/skillpassport/insight-engine/internal/domain/student"
	"github.com/skillpassport/insight-engine/pkg/retry"
)

// SnapshotCache implements student.Cache using the generic Redis Cache.
// It stores whole cohorts as one value: the analytics queries always
// consume a cohort at a time, so per-student keys would only add round
// trips. Invalidating a cohort also drops the all-cohorts snapshot,
// which contains the stale records too.
type SnapshotCache struct {
	cache   *Cache
	retrier *retry.Retrier
}

var _ student.Cache = (*SnapshotCache)(nil)

// NewSnapshotCache creates a new SnapshotCache.
func NewSnapshotCache(cache *Cache) *SnapshotCache {
	return &SnapshotCache{
		cache:   cache,
		retrier: retry.CacheRetrier(),
	}
}

// GetCohort gets a cohort snapshot from cache.
// Returns shared.ErrNotFound on a miss. A miss is never retried, only
// transient transport failures are.
func (s *SnapshotCache) GetCohort(ctx context.Context, cohort shared.Cohort) ([]*student.Record, error) {
	var records []*student.Record
	key := SnapshotKey(string(cohort))
	err := s.retrier.Do(ctx, func(ctx context.Context) error {
		records = nil
		if err := s.cache.Get(ctx, key, &records); err != nil {
			if errors.Is(err, ErrCacheMiss) {
				return retry.Permanent(err)
			}
			return retry.Retryable(err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return records, nil
}

// SetCohort stores a cohort snapshot in cache.
func (s *SnapshotCache) SetCohort(ctx context.Context, cohort shared.Cohort, records []*student.Record, ttl time.Duration) error {
	if records == nil {
		return nil
	}
	key := SnapshotKey(string(cohort))
	return s.retrier.Do(ctx, func(ctx context.Context) error {
		if err := s.cache.Set(ctx, key, records, ttl); err != nil {
			return retry.Retryable(err)
		}
		return nil
	})
}

// Invalidate removes a cohort snapshot from cache. The all-cohorts
// snapshot goes with it, stale cohort records live there as well.
func (s *SnapshotCache) Invalidate(ctx context.Context, cohort shared.Cohort) error {
	keys := []string{SnapshotKey(string(cohort))}
	if !cohort.IsAll() {
		keys = append(keys, SnapshotKey(""))
	}
	return s.cache.Delete(ctx, keys...)
}

// InvalidateAll clears every cached snapshot.
func (s *SnapshotCache) InvalidateAll(ctx context.Context) error {
	return s.cache.DeleteByPattern(ctx, PrefixSnapshot+"*")
}
