package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/svssathvik7/crypto-token-metrics-api/internal/domain"
	"github.com/svssathvik7/crypto-token-metrics-api/internal/storage"
)

// SwapStore is an in-memory implementation of storage.SwapStore.
type SwapStore struct {
	mu     sync.RWMutex
	nextID int64
	data   map[string]*domain.SwapSample // keyed by pool|start_time
}

// NewSwapStore creates a new in-memory swap store.
func NewSwapStore() *SwapStore {
	return &SwapStore{data: make(map[string]*domain.SwapSample)}
}

var _ storage.SwapStore = (*SwapStore)(nil)

// InsertBatch upserts samples, skipping (pool, start_time) keys that
// already exist. Returns the number of samples actually written.
func (s *SwapStore) InsertBatch(_ context.Context, samples []*domain.SwapSample) (int, error) {
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
func (s *SwapStore) MaxStartTime(_ context.Context, pool string) (int64, error) {
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
func (s *SwapStore) MaxEndTime(_ context.Context, pool string) (int64, error) {
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
func (s *SwapStore) GetByTimeRange(_ context.Context, pool string, from, to int64) ([]*domain.SwapSample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SwapSample
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
