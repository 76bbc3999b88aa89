package css

import "strings"

// EvaluateMediaQuery reports whether a media query list applies to a screen
// viewport of the given size. Only media types and min/max width and height
// features are understood; unknown features fail closed.
func EvaluateMediaQuery(query string, viewportWidth, viewportHeight float64) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	for _, q := range strings.Split(query, ",") {
		if evaluateSingleQuery(strings.TrimSpace(q), viewportWidth, viewportHeight) {
			return true
		}
	}
	return false
}

func evaluateSingleQuery(q string, w, h float64) bool {
	negate := false
	if strings.HasPrefix(q, "not ") {
		negate = true
		q = strings.TrimPrefix(q, "not ")
	}
	q = strings.TrimPrefix(q, "only ")
	result := true
	for _, term := range strings.Split(q, " and ") {
		term = strings.TrimSpace(term)
		switch term {
		case "", "all", "screen":
			continue
		case "print", "speech":
			result = false
			continue
		}
		if !strings.HasPrefix(term, "(") || !strings.HasSuffix(term, ")") {
			result = false
			continue
		}
		feature, value, ok := strings.Cut(term[1:len(term)-1], ":")
		if !ok {
			result = false
			continue
		}
		v, ok := ParseLength(strings.TrimSpace(value))
		if !ok {
			result = false
			continue
		}
		switch strings.TrimSpace(feature) {
		case "min-width":
			result = result && w >= v
		case "max-width":
			result = result && w <= v
		case "min-height":
			result = result && h >= v
		case "max-height":
			result = result && h <= v
		default:
			result = false
		}
	}
	return result != negate
}
