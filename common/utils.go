package common

// Coalesce returns the first value that is not the zero value of T. Config and builder defaults are
// written as Coalesce(given, fallback).
//
// Parameters:
//   - values: candidates in priority order
//
// Returns:
//   - T: the first non-zero candidate, or the zero value when every candidate is zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v == zero {
			continue
		}
		return v
	}
	return zero
}
