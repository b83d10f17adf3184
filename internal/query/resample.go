package query

import "sort"

// bucketStart maps a sample's end time onto the start of the resampled
// bucket containing it. A sample ending exactly on a bucket boundary
// belongs to the bucket it closes, hence the end-exclusive offset.
func bucketStart(endTime, width int64) int64 {
	e := endTime - 1
	return e - (e % width)
}

// bucket is one resampled interval holding the representative sample
// for its span.
type bucket[S any] struct {
	Start int64
	End   int64
	Rep   S
}

// resample groups samples into width-sized buckets. Samples must arrive
// in end-time ascending order; within a bucket the newest sample wins.
// The result is ordered by bucket start ascending.
func resample[S any](samples []S, width int64, endTime func(S) int64) []bucket[S] {
	index := make(map[int64]int)
	var out []bucket[S]

	for _, sample := range samples {
		start := bucketStart(endTime(sample), width)
		if i, ok := index[start]; ok {
			out[i].Rep = sample
			continue
		}
		index[start] = len(out)
		out = append(out, bucket[S]{Start: start, End: start + width, Rep: sample})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// sortBuckets orders buckets by the requested field and direction.
func sortBuckets[S any](buckets []bucket[S], by string, ascending bool) {
	key := func(b bucket[S]) int64 {
		if by == SortByStartTime {
			return b.Start
		}
		return b.End
	}
	sort.SliceStable(buckets, func(i, j int) bool {
		if ascending {
			return key(buckets[i]) < key(buckets[j])
		}
		return key(buckets[i]) > key(buckets[j])
	})
}

// paginate returns the skip/limit slice of buckets. Out-of-range pages
// come back empty.
func paginate[S any](buckets []bucket[S], skip, limit int64) []bucket[S] {
	if skip >= int64(len(buckets)) {
		return nil
	}
	end := skip + limit
	if end > int64(len(buckets)) {
		end = int64(len(buckets))
	}
	return buckets[skip:end]
}

// pageBounds finds the chronologically earliest and latest buckets of a
// page, independent of the page's sort direction.
func pageBounds[S any](page []bucket[S]) (earliest, latest bucket[S]) {
	earliest, latest = page[0], page[0]
	for _, b := range page[1:] {
		if b.Start < earliest.Start {
			earliest = b
		}
		if b.Start > latest.Start {
			latest = b
		}
	}
	return earliest, latest
}
