package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/svssathvik7/crypto-token-metrics-api/internal/domain"
	"github.com/svssathvik7/crypto-token-metrics-api/internal/storage"
)

// RunePoolStore is an in-memory implementation of storage.RunePoolStore.
type RunePoolStore struct {
	mu     sync.RWMutex
	nextID int64
	data   map[int64]*domain.RunePoolSample // keyed by start_time
}

// NewRunePoolStore creates a new in-memory rune pool store.
func NewRunePoolStore() *RunePoolStore {
	return &RunePoolStore{data: make(map[int64]*domain.RunePoolSample)}
}

var _ storage.RunePoolStore = (*RunePoolStore)(nil)

// InsertBatch upserts samples, skipping start_time keys that already
// exist. Returns the number of samples actually written.
func (s *RunePoolStore) InsertBatch(_ context.Context, samples []*domain.RunePoolSample) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inserted := 0
	for _, sample := range samples {
		if sample == nil {
			return inserted, storage.ErrInvalidInput
		}
		if _, exists := s.data[sample.StartTime]; exists {
			continue
		}
		s.nextID++
		cp := *sample
		cp.ID = s.nextID
		s.data[sample.StartTime] = &cp
		inserted++
	}
	return inserted, nil
}

// MaxStartTime returns the newest stored start_time, or
// domain.FeedStartTime when nothing is stored yet.
func (s *RunePoolStore) MaxStartTime(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	max := int64(0)
	found := false
	for startTime := range s.data {
		if !found || startTime > max {
			max = startTime
			found = true
		}
	}
	if !found {
		return domain.FeedStartTime, nil
	}
	return max, nil
}

// MaxEndTime returns the newest stored end_time, or storage.ErrNotFound
// when nothing is stored yet.
func (s *RunePoolStore) MaxEndTime(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	max := int64(0)
	found := false
	for _, sample := range s.data {
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
func (s *RunePoolStore) GetByTimeRange(_ context.Context, from, to int64) ([]*domain.RunePoolSample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.RunePoolSample
	for _, sample := range s.data {
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
