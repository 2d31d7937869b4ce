// Package milestone flags message counts worth celebrating.
package milestone

// DefaultThresholds are the counts celebrated when none are configured.
var DefaultThresholds = []int{10, 25, 50, 100}

// Detect reports whether count is exactly one of thresholds, or one of
// DefaultThresholds when none are given.
//
// Detect keeps no state. Each threshold fires at most once per session only
// because callers evaluate it once per received message while the count
// grows by exactly one each time.
func Detect(count int, thresholds ...int) bool {
	if len(thresholds) == 0 {
		thresholds = DefaultThresholds
	}
	for _, t := range thresholds {
		if count == t {
			return true
		}
	}
	return false
}
