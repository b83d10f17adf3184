package query

import (
	"fmt"

	"github.com/svssathvik7/crypto-token-metrics-api/internal/interval"
)

const (
	// maxCount caps how many buckets a single request may ask for,
	// mirroring the upstream feed's own window limit.
	maxCount = 400

	// SortByStartTime and SortByEndTime are the only sortable bucket
	// fields.
	SortByStartTime = "startTime"
	SortByEndTime   = "endTime"
)

// Params are the caller-supplied knobs of a history query. The zero
// value of each field means "use the default".
type Params struct {
	Pool      string // pool filter, endpoint-specific rules apply
	Interval  string // bucket width name, default hour
	Count     int64  // requested bucket count, default 400
	From      int64  // window start filter, epoch seconds, 0 = derived from Count
	To        int64  // window end filter, epoch seconds, 0 = unbounded
	Page      int64  // 1-based page number
	SortBy    string // startTime or endTime, default endTime
	SortOrder int    // 1 = ascending, anything else descending
	Limit     int64  // page size, defaults to Count
}

// normalized carries a validated query with all defaults applied.
type normalized struct {
	Pool      string
	Width     int64 // bucket width in seconds
	Count     int64
	From      int64
	To        int64
	SortBy    string
	Ascending bool
	Skip      int64
	Limit     int64
	Page      int64
}

// normalize validates p and applies defaults. All failures wrap
// ErrInvalidInput.
func (p Params) normalize() (normalized, error) {
	var n normalized

	if !interval.Valid(p.Interval) {
		return n, fmt.Errorf("%w: unknown interval %q", ErrInvalidInput, p.Interval)
	}
	n.Width = interval.Seconds(p.Interval)

	count := p.Count
	if count == 0 {
		count = maxCount
	}
	if count < 1 || count > maxCount {
		return n, fmt.Errorf("%w: count %d out of range [1,%d]", ErrInvalidInput, p.Count, maxCount)
	}
	n.Count = count

	if p.From < 0 || p.To < 0 {
		return n, fmt.Errorf("%w: negative time bound", ErrInvalidInput)
	}
	if p.From != 0 && p.To != 0 && p.From >= p.To {
		return n, fmt.Errorf("%w: from %d must precede to %d", ErrInvalidInput, p.From, p.To)
	}
	n.From = p.From
	n.To = p.To

	page := p.Page
	if page == 0 {
		page = 1
	}
	if page < 1 {
		return n, fmt.Errorf("%w: page %d must be at least 1", ErrInvalidInput, p.Page)
	}
	n.Page = page

	switch p.SortBy {
	case "", SortByEndTime, "end_time":
		n.SortBy = SortByEndTime
	case SortByStartTime, "start_time":
		n.SortBy = SortByStartTime
	default:
		return n, fmt.Errorf("%w: cannot sort by %q", ErrInvalidInput, p.SortBy)
	}

	n.Ascending = p.SortOrder == 1

	limit := p.Limit
	if limit == 0 {
		limit = count
	}
	if limit < 1 || limit > maxCount {
		return n, fmt.Errorf("%w: limit %d out of range [1,%d]", ErrInvalidInput, p.Limit, maxCount)
	}
	n.Limit = limit
	n.Skip = (page - 1) * limit

	n.Pool = p.Pool
	return n, nil
}
