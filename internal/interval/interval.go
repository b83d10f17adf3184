// Package interval maps named query intervals to their duration in seconds.
package interval

// Recognized interval names.
const (
	Hour    = "hour"
	Day     = "day"
	Week    = "week"
	Month   = "month"
	Quarter = "quarter"
	Year    = "year"
)

// Durations in seconds. Month, quarter and year use the upstream feed's
// fixed 31-day approximations rather than calendar arithmetic.
const (
	secondsPerHour    int64 = 3600
	secondsPerDay     int64 = 86_400
	secondsPerWeek    int64 = 604_800
	secondsPerMonth   int64 = 2_678_400
	secondsPerQuarter int64 = 7_948_800
	secondsPerYear    int64 = 31_622_400
)

// Seconds returns the duration of a named interval. It is total: an
// unknown or empty name falls back to hour, so callers that need to
// reject typos must check Valid first.
func Seconds(name string) int64 {
	switch name {
	case Hour:
		return secondsPerHour
	case Day:
		return secondsPerDay
	case Week:
		return secondsPerWeek
	case Month:
		return secondsPerMonth
	case Quarter:
		return secondsPerQuarter
	case Year:
		return secondsPerYear
	default:
		return secondsPerHour
	}
}

// Valid reports whether name is a recognized interval. The empty string
// is valid and means the default interval (hour).
func Valid(name string) bool {
	switch name {
	case "", Hour, Day, Week, Month, Quarter, Year:
		return true
	default:
		return false
	}
}
