package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/svssathvik7/crypto-token-metrics-api/internal/domain"
	"github.com/svssathvik7/crypto-token-metrics-api/internal/storage"
)

// DepthStore is an in-memory implementation of storage.DepthStore.
type DepthStore struct {
	mu     sync.RWMutex
	nextID int64
	data   map[string]*domain.DepthSample // keyed by pool|start_time
}

// NewDepthStore creates a new in-memory depth store.
func NewDepthStore() *DepthStore {
	return &DepthStore{data: make(map[string]*domain.DepthSample)}
}

var _ storage.DepthStore = (*DepthStore)(nil)

func sampleKey(pool string, startTime int64) string {
	return fmt.Sprintf("%s|%d", pool, startTime)
}

// InsertBatch upserts samples, skipping (pool, start_time) keys that
// already exist. Returns the number of samples actually written.
func (s *DepthStore) InsertBatch(_ context.Context, samples []*domain.DepthSample) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inserted := 0
	for _, sample := range samples {
		if sample == nil || sample.Pool == "" {
			return inserted, storage.ErrInvalidInput
		}
		key := sampleKey(sample.Pool, sample.StartTime)
		if _, exists := s.data[key]; exists {
			continue
		}
		s.nextID++
		cp := *sample
		cp.ID = s.nextID
		s.data[key] = &cp
		inserted++
	}
	return inserted, nil
}

// MaxStartTime returns the newest stored start_time for a pool, or
// domain.FeedStartTime when nothing is stored yet.
func (s *DepthStore) MaxStartTime(_ context.Context, pool string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	max := int64(0)
	found := false
	for _, sample := range s.data {
		if pool != "" && sample.Pool != pool {
			continue
		}
		if !found || sample.StartTime > max {
			max = sample.StartTime
			found = true
		}
	}
	if !found {
		return domain.FeedStartTime, nil
	}
	return max, nil
}

// MaxEndTime returns the newest stored end_time for a pool, or
// storage.ErrNotFound when nothing is stored yet.
func (s *DepthStore) MaxEndTime(_ context.Context, pool string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	max := int64(0)
	found := false
	for _, sample := range s.data {
		if pool != "" && sample.Pool != pool {
			continue
		}
		if !found || sample.EndTime > max {
			max = sample.EndTime
			found = true
		}
	}
	if !found {
		return 0, storage.ErrNotFound
	}
	return max, nil
}

// GetByTimeRange retrieves samples with start_time >= from and, when
// to > 0, end_time <= to, ordered by end_time ASC.
func (s *DepthStore) GetByTimeRange(_ context.Context, pool string, from, to int64) ([]*domain.DepthSample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.DepthSample
	for _, sample := range s.data {
		if pool != "" && sample.Pool != pool {
			continue
		}
		if sample.StartTime < from {
			continue
		}
		if to > 0 && sample.EndTime > to {
			continue
		}
		cp := *sample
		result = append(result, &cp)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].EndTime < result[j].EndTime
	})
	return result, nil
}
