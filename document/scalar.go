package document

import (
	"errors"
	"math"
	"strconv"
)

var errNonFinite = errors.New("document: non-finite float cannot be encoded")

// formatScalar renders v the same way for every text encoding.
func formatScalar(v interface{}) (string, error) {
	switch x := v.(type) {
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float32:
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return "", errNonFinite
		}
		return formatFloat(strconv.FormatFloat(float64(x), 'g', -1, 32)), nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return "", errNonFinite
		}
		return formatFloat(strconv.FormatFloat(x, 'g', -1, 64)), nil
	case bool:
		return strconv.FormatBool(x), nil
	case string:
		return x, nil
	}
	return "", errors.New("document: not a scalar")
}

// formatFloat makes sure a float reads back as a float rather than an
// integer.
func formatFloat(s string) string {
	for _, c := range s {
		switch c {
		case '.', 'e', 'E', 'n', 'N', 'I':
			return s
		}
	}
	return s + ".0"
}

// parseScalar guesses the type of an untyped text value.
func parseScalar(s string) interface{} {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return u
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}
