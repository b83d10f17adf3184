package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/svssathvik7/crypto-token-metrics-api/internal/domain"
	"github.com/svssathvik7/crypto-token-metrics-api/internal/interval"
	"github.com/svssathvik7/crypto-token-metrics-api/internal/storage"
)

// ErrSyncInFlight is returned when a sync for the same family is
// already running. At most one sync per family may run at a time.
var ErrSyncInFlight = errors.New("ingestion: sync already in flight")

// Source fetches history windows from the upstream feed. Each method
// returns parsed samples plus the feed's meta end time, which callers
// use as the next cursor position.
type Source interface {
	FetchDepths(ctx context.Context, pool, interval string, from, count int64) ([]*domain.DepthSample, int64, error)
	FetchSwaps(ctx context.Context, pool, interval string, from, count int64) ([]*domain.SwapSample, int64, error)
	FetchEarnings(ctx context.Context, interval string, from, count int64) ([]*domain.EarningsWindow, int64, error)
	FetchRunePool(ctx context.Context, interval string, from, count int64) ([]*domain.RunePoolSample, int64, error)
}

// Syncer replicates upstream history into local storage. Backfills walk
// a cursor from the newest stored window to the present; the periodic
// loop re-syncs the most recent hour on every tick.
type Syncer struct {
	source        Source
	depthStore    storage.DepthStore
	swapStore     storage.SwapStore
	earningStore  storage.EarningStore
	runePoolStore storage.RunePoolStore
	pool          string
	windowSize    int64
	syncInterval  time.Duration
	now           func() time.Time
	logger        *log.Logger

	mu       sync.Mutex
	inFlight map[domain.Family]bool
}

// Options contains configuration for creating a Syncer.
type Options struct {
	Source        Source
	DepthStore    storage.DepthStore
	SwapStore     storage.SwapStore
	EarningStore  storage.EarningStore
	RunePoolStore storage.RunePoolStore
	Pool          string        // pool tracked for depths and swaps, default BTC.BTC
	WindowSize    int64         // windows per fetch, default 400
	SyncInterval  time.Duration // periodic sync cadence, default 1h
	Now           func() time.Time
	Logger        *log.Logger
}

// NewSyncer creates a new Syncer.
func NewSyncer(opts Options) *Syncer {
	pool := opts.Pool
	if pool == "" {
		pool = "BTC.BTC"
	}

	windowSize := opts.WindowSize
	if windowSize == 0 {
		windowSize = 400
	}

	syncInterval := opts.SyncInterval
	if syncInterval == 0 {
		syncInterval = time.Hour
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Syncer{
		source:        opts.Source,
		depthStore:    opts.DepthStore,
		swapStore:     opts.SwapStore,
		earningStore:  opts.EarningStore,
		runePoolStore: opts.RunePoolStore,
		pool:          pool,
		windowSize:    windowSize,
		syncInterval:  syncInterval,
		now:           now,
		logger:        logger,
		inFlight:      make(map[domain.Family]bool),
	}
}

// Result contains statistics from one sync run.
type Result struct {
	Family            domain.Family `json:"family"`
	WindowsFetched    int           `json:"windowsFetched"`
	SamplesInserted   int           `json:"samplesInserted"`
	DuplicatesSkipped int           `json:"duplicatesSkipped"`
	Errors            int           `json:"errors"`
	DurationMS        int64         `json:"durationMs"`
}

// Backfill catches one family up from its newest stored window to the
// present. Safe to call on an empty collection: the cursor then starts
// at the feed's first recorded window.
func (s *Syncer) Backfill(ctx context.Context, family domain.Family) (*Result, error) {
	if !s.acquire(family) {
		return nil, fmt.Errorf("%w: %s", ErrSyncInFlight, family)
	}
	defer s.release(family)

	cursor, err := s.maxStartTime(ctx, family)
	if err != nil {
		return nil, fmt.Errorf("resume cursor for %s: %w", family, err)
	}

	return s.syncFrom(ctx, family, cursor)
}

// SyncAll backfills every family concurrently. Families already in
// flight are skipped rather than failing the run.
func (s *Syncer) SyncAll(ctx context.Context) ([]*Result, error) {
	g, ctx := errgroup.WithContext(ctx)

	slots := make([]*Result, len(domain.Families))
	for i, family := range domain.Families {
		g.Go(func() error {
			res, err := s.Backfill(ctx, family)
			if err != nil {
				if errors.Is(err, ErrSyncInFlight) {
					s.logger.Printf("Skipping %s sync: already in flight", family)
					return nil
				}
				return err
			}
			slots[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]*Result, 0, len(slots))
	for _, res := range slots {
		if res != nil {
			results = append(results, res)
		}
	}
	return results, nil
}

// Run re-syncs the most recent hour of every family on a fixed cadence
// until the context is cancelled.
func (s *Syncer) Run(ctx context.Context) {
	ticker := time.NewTicker(s.syncInterval)
	defer ticker.Stop()

	s.logger.Printf("Sync loop started, interval %s", s.syncInterval)

	// Full catch-up before the first tick so a cold store backfills
	// immediately instead of waiting out the first interval.
	if _, err := s.SyncAll(ctx); err != nil {
		s.logger.Printf("Initial catch-up failed: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Printf("Sync loop stopped: %v", ctx.Err())
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Syncer) tick(ctx context.Context) {
	from := s.now().Unix() - domain.BaseGranularity

	g, ctx := errgroup.WithContext(ctx)
	for _, family := range domain.Families {
		g.Go(func() error {
			if !s.acquire(family) {
				s.logger.Printf("Skipping %s tick: already in flight", family)
				return nil
			}
			defer s.release(family)

			res, err := s.syncFrom(ctx, family, from)
			if err != nil {
				s.logger.Printf("Tick sync for %s failed: %v", family, err)
				return nil
			}
			s.logger.Printf("Tick sync for %s: %d inserted, %d duplicates, %d errors",
				family, res.SamplesInserted, res.DuplicatesSkipped, res.Errors)
			return nil
		})
	}
	g.Wait()
}

// syncFrom walks the cursor from a starting position to the present.
// Failed windows are logged and skipped so one poisoned window cannot
// stall the feed; the cursor always moves forward.
func (s *Syncer) syncFrom(ctx context.Context, family domain.Family, cursor int64) (*Result, error) {
	start := s.now()
	result := &Result{Family: family}

	for cursor < s.now().Unix() {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		fetched, inserted, next, err := s.fetchWindow(ctx, family, cursor)
		if err != nil {
			s.logger.Printf("Fetch %s window at %d failed: %v", family, cursor, err)
			result.Errors++
			cursor += s.windowSize * domain.BaseGranularity
			continue
		}

		result.WindowsFetched++
		result.SamplesInserted += inserted
		result.DuplicatesSkipped += fetched - inserted

		// Guard against a feed that stops advancing.
		if next <= cursor {
			cursor += domain.BaseGranularity
		} else {
			cursor = next
		}
	}

	result.DurationMS = s.now().Sub(start).Milliseconds()
	return result, nil
}

// fetchWindow fetches and stores one window for a family. Returns the
// number of samples fetched, the number actually inserted, and the
// feed's next cursor position.
func (s *Syncer) fetchWindow(ctx context.Context, family domain.Family, from int64) (fetched, inserted int, next int64, err error) {
	switch family {
	case domain.FamilyDepths:
		samples, end, err := s.source.FetchDepths(ctx, s.pool, interval.Hour, from, s.windowSize)
		if err != nil {
			return 0, 0, 0, err
		}
		n, err := s.depthStore.InsertBatch(ctx, samples)
		if err != nil {
			return 0, 0, 0, err
		}
		return len(samples), n, end, nil

	case domain.FamilySwaps:
		samples, end, err := s.source.FetchSwaps(ctx, s.pool, interval.Hour, from, s.windowSize)
		if err != nil {
			return 0, 0, 0, err
		}
		n, err := s.swapStore.InsertBatch(ctx, samples)
		if err != nil {
			return 0, 0, 0, err
		}
		return len(samples), n, end, nil

	case domain.FamilyEarnings:
		windows, end, err := s.source.FetchEarnings(ctx, interval.Hour, from, s.windowSize)
		if err != nil {
			return 0, 0, 0, err
		}
		for _, window := range windows {
			n, err := s.earningStore.InsertWindow(ctx, window.Summary, window.Pools)
			if err != nil {
				return fetched, inserted, 0, err
			}
			fetched += len(window.Pools)
			inserted += n
		}
		return fetched, inserted, end, nil

	case domain.FamilyRunePool:
		samples, end, err := s.source.FetchRunePool(ctx, interval.Hour, from, s.windowSize)
		if err != nil {
			return 0, 0, 0, err
		}
		n, err := s.runePoolStore.InsertBatch(ctx, samples)
		if err != nil {
			return 0, 0, 0, err
		}
		return len(samples), n, end, nil
	}

	return 0, 0, 0, fmt.Errorf("unknown family %q", family)
}

// maxStartTime resolves the resume cursor for a family.
func (s *Syncer) maxStartTime(ctx context.Context, family domain.Family) (int64, error) {
	switch family {
	case domain.FamilyDepths:
		return s.depthStore.MaxStartTime(ctx, s.pool)
	case domain.FamilySwaps:
		return s.swapStore.MaxStartTime(ctx, s.pool)
	case domain.FamilyEarnings:
		return s.earningStore.MaxStartTime(ctx)
	case domain.FamilyRunePool:
		return s.runePoolStore.MaxStartTime(ctx)
	}
	return 0, fmt.Errorf("unknown family %q", family)
}

// InFlight lists the families currently syncing.
func (s *Syncer) InFlight() []domain.Family {
	s.mu.Lock()
	defer s.mu.Unlock()

	families := make([]domain.Family, 0, len(s.inFlight))
	for _, family := range domain.Families {
		if s.inFlight[family] {
			families = append(families, family)
		}
	}
	return families
}

func (s *Syncer) acquire(family domain.Family) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight[family] {
		return false
	}
	s.inFlight[family] = true
	return true
}

func (s *Syncer) release(family domain.Family) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, family)
}
