package store

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"lab-attendance-backend/internal/model"
)

const snapshotKey = "records"

// cachedStore keeps the last LoadAll result in memory until the next
// mutation or until the cache entry expires.
type cachedStore struct {
	next  Store
	cache *cache.Cache

	mu  sync.Mutex
	gen uint64
}

// WithSnapshotCache wraps next so that repeated LoadAll calls are served from c.
func WithSnapshotCache(next Store, c *cache.Cache) Store {
	return &cachedStore{next: next, cache: c}
}

func (s *cachedStore) Append(ctx context.Context, rec model.AttendanceRecord) error {
	defer s.invalidate()
	return s.next.Append(ctx, rec)
}

func (s *cachedStore) ResolveLogout(ctx context.Context, registerNumber string, now time.Time) error {
	defer s.invalidate()
	return s.next.ResolveLogout(ctx, registerNumber, now)
}

func (s *cachedStore) LoadAll(ctx context.Context) ([]model.AttendanceRecord, error) {
	if v, found := s.cache.Get(snapshotKey); found {
		return cloneRecords(v.([]model.AttendanceRecord)), nil
	}

	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()

	records, err := s.next.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	// A mutation that finished while we were loading makes this result stale.
	s.mu.Lock()
	if s.gen == gen {
		s.cache.SetDefault(snapshotKey, cloneRecords(records))
	}
	s.mu.Unlock()
	return records, nil
}

func (s *cachedStore) invalidate() {
	s.mu.Lock()
	s.gen++
	s.cache.Delete(snapshotKey)
	s.mu.Unlock()
}

func cloneRecords(in []model.AttendanceRecord) []model.AttendanceRecord {
	out := make([]model.AttendanceRecord, len(in))
	copy(out, in)
	for i := range out {
		if out[i].LogoutTime != nil {
			t := *out[i].LogoutTime
			out[i].LogoutTime = &t
		}
	}
	return out
}
