package midgard

import (
	"fmt"
	"strconv"
)

// parseNumber parses a string-encoded numeric field. The upstream API
// encodes every number as a JSON string, including epoch timestamps.
func parseNumber[N ~int64 | ~float64](value string) (N, error) {
	var zero N
	switch any(zero).(type) {
	case int64:
		v, err := strconv.ParseInt(value, 10, 64)
		return N(v), err
	default:
		v, err := strconv.ParseFloat(value, 64)
		return N(v), err
	}
}

// fieldParser converts string-encoded fields, remembering the first
// failure so call sites can convert a whole record and check once.
type fieldParser struct {
	err error
}

func (p *fieldParser) i64(field, value string) int64 {
	if p.err != nil {
		return 0
	}
	v, err := parseNumber[int64](value)
	if err != nil {
		p.err = fmt.Errorf("field %s: %w", field, err)
		return 0
	}
	return v
}

func (p *fieldParser) f64(field, value string) float64 {
	if p.err != nil {
		return 0
	}
	v, err := parseNumber[float64](value)
	if err != nil {
		p.err = fmt.Errorf("field %s: %w", field, err)
		return 0
	}
	return v
}
