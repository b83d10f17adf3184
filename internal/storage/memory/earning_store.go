package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/svssathvik7/crypto-token-metrics-api/internal/domain"
	"github.com/svssathvik7/crypto-token-metrics-api/internal/storage"
)

// EarningStore is an in-memory implementation of storage.EarningStore.
type EarningStore struct {
	mu            sync.RWMutex
	nextSampleID  int64
	nextSummaryID int64
	samples       map[string]*domain.EarningSample  // keyed by pool|start_time
	summaries     map[int64]*domain.EarningsSummary // keyed by id
	summaryByTime map[int64]int64                   // start_time -> summary id
}

// NewEarningStore creates a new in-memory earning store.
func NewEarningStore() *EarningStore {
	return &EarningStore{
		samples:       make(map[string]*domain.EarningSample),
		summaries:     make(map[int64]*domain.EarningsSummary),
		summaryByTime: make(map[int64]int64),
	}
}

var _ storage.EarningStore = (*EarningStore)(nil)

// InsertWindow persists the summary first, then the per-pool samples
// referencing its id. Re-ingesting a window reuses the existing summary
// and skips pool samples already present.
func (s *EarningStore) InsertWindow(_ context.Context, summary *domain.EarningsSummary, pools []*domain.EarningSample) (int, error) {
	if summary == nil {
		return 0, storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	summaryID, exists := s.summaryByTime[summary.StartTime]
	if !exists {
		s.nextSummaryID++
		summaryID = s.nextSummaryID
		cp := *summary
		cp.ID = summaryID
		s.summaries[summaryID] = &cp
		s.summaryByTime[summary.StartTime] = summaryID
	}
	summary.ID = summaryID

	inserted := 0
	for _, sample := range pools {
		if sample == nil || sample.Pool == "" {
			return inserted, storage.ErrInvalidInput
		}
		key := sampleKey(sample.Pool, sample.StartTime)
		if _, dup := s.samples[key]; dup {
			continue
		}
		s.nextSampleID++
		cp := *sample
		cp.ID = s.nextSampleID
		cp.SummaryID = summaryID
		s.samples[key] = &cp
		inserted++
	}
	return inserted, nil
}

// MaxStartTime returns the newest stored start_time, or
// domain.FeedStartTime when nothing is stored yet.
func (s *EarningStore) MaxStartTime(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	max := int64(0)
	found := false
	for _, sample := range s.samples {
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

// MaxEndTime returns the newest stored end_time, or storage.ErrNotFound
// when nothing is stored yet.
func (s *EarningStore) MaxEndTime(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	max := int64(0)
	found := false
	for _, sample := range s.samples {
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

// GetByTimeRange retrieves per-pool samples; pool == "" matches all pools.
// Ordered by end_time ASC, then pool for determinism within a window.
func (s *EarningStore) GetByTimeRange(_ context.Context, pool string, from, to int64) ([]*domain.EarningSample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.EarningSample
	for _, sample := range s.samples {
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
		if result[i].EndTime != result[j].EndTime {
			return result[i].EndTime < result[j].EndTime
		}
		return result[i].Pool < result[j].Pool
	})
	return result, nil
}

// GetSummaries resolves summary rows by id. Unknown ids are omitted.
func (s *EarningStore) GetSummaries(_ context.Context, ids []int64) (map[int64]*domain.EarningsSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[int64]*domain.EarningsSummary, len(ids))
	for _, id := range ids {
		if summary, ok := s.summaries[id]; ok {
			cp := *summary
			result[id] = &cp
		}
	}
	return result, nil
}
