package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

var rangeNumberPattern = regexp.MustCompile(`[\d,.]+[KMBkmb]?`)

var rangeMultipliers = map[byte]float64{
	'K': 1_000,
	'M': 1_000_000,
	'B': 1_000_000_000,
}

func parseRangeNumbers(text string) []int64 {
	var values []int64
	for _, part := range rangeNumberPattern.FindAllString(text, -1) {
		suffix := byte(0)
		numStr := part
		last := strings.ToUpper(part[len(part)-1:])
		if _, ok := rangeMultipliers[last[0]]; ok {
			suffix = last[0]
			numStr = part[:len(part)-1]
		}
		numStr = strings.ReplaceAll(numStr, ",", "")
		num, err := strconv.ParseFloat(numStr, 64)
		if err != nil {
			continue
		}
		if suffix != 0 {
			num *= rangeMultipliers[suffix]
		}
		values = append(values, int64(num))
	}
	return values
}

// parseSpendString parses a spend string like "$9K-$10K" into a
// (lower, upper) bound pair.
//
// TODO(range parsing): this only handles the two-number and one-number
// cases seen in practice; a range string with three or more numeric tokens
// (which the remote service has not been observed to send, but isn't
// contractually ruled out either) degenerates to using just the first two.
func parseSpendString(text string) (*int64, *int64) {
	values := parseRangeNumbers(text)
	switch {
	case len(values) >= 2:
		return &values[0], &values[1]
	case len(values) == 1:
		return &values[0], &values[0]
	default:
		return nil, nil
	}
}

// parseImpressionText parses an impression string like ">1M" or "1K-5K".
// A single bare number means "at least this many, upper bound unknown" —
// unlike parseSpendString, it does not collapse to an equal lower/upper
// pair.
func parseImpressionText(text string) (*int64, *int64) {
	values := parseRangeNumbers(text)
	switch {
	case len(values) >= 2:
		return &values[0], &values[1]
	case len(values) == 1:
		return &values[0], nil
	default:
		return nil, nil
	}
}
