package failure

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseValue parses a numeric parameter: a decimal number ("3329", "1.5")
// or a power with an integer exponent ("2^10", "2**10").
func ParseValue(s string) (v float64, err error) {

	s = strings.TrimSpace(s)

	for _, op := range []string{"**", "^"} {

		base, exponent, found := strings.Cut(s, op)
		if !found {
			continue
		}

		var b float64
		if b, err = strconv.ParseFloat(strings.TrimSpace(base), 64); err != nil {
			return 0, fmt.Errorf("invalid base %q: %w", base, err)
		}

		var e int64
		if e, err = strconv.ParseInt(strings.TrimSpace(exponent), 10, 64); err != nil {
			return 0, fmt.Errorf("invalid exponent %q: %w", exponent, err)
		}

		return math.Pow(b, float64(e)), nil
	}

	return strconv.ParseFloat(s, 64)
}

// ParseRecord parses a record of string values with [ParseValue].
func ParseRecord(fields map[string]string) (record map[string]float64, err error) {
	record = make(map[string]float64, len(fields))
	for name, s := range fields {
		if record[name], err = ParseValue(s); err != nil {
			return nil, fmt.Errorf("%w: field %q: %w", ErrMalformedParameter, name, err)
		}
	}
	return
}
