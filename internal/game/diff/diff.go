// Package diff implements the run-length patch format used for incremental
// map updates. A patch alternates two kinds of run: a count of values to
// copy from the previous array, then a count of literal values that follow
// inline. Either count may be zero.
package diff

import (
	"errors"
	"fmt"
)

var ErrMalformedDiff = errors.New("malformed diff")

// Apply patches old with patch and returns the new array. old is not
// modified. A patch that reads past the end of old or past its own end is
// rejected instead of producing a truncated result.
func Apply(old, patch []int) ([]int, error) {
	out := make([]int, 0, len(old))
	for i := 0; i < len(patch); i++ {
		n := patch[i]
		if n < 0 {
			return nil, fmt.Errorf("%w: negative copy count %d at %d", ErrMalformedDiff, n, i)
		}
		if n > 0 {
			start := len(out)
			if start+n > len(old) {
				return nil, fmt.Errorf("%w: copy of %d at %d overruns previous array of %d", ErrMalformedDiff, n, i, len(old))
			}
			out = append(out, old[start:start+n]...)
		}

		i++
		if i >= len(patch) {
			break
		}
		n = patch[i]
		if n < 0 {
			return nil, fmt.Errorf("%w: negative literal count %d at %d", ErrMalformedDiff, n, i)
		}
		if i+1+n > len(patch) {
			return nil, fmt.Errorf("%w: literal run of %d at %d overruns patch of %d", ErrMalformedDiff, n, i, len(patch))
		}
		out = append(out, patch[i+1:i+1+n]...)
		i += n
	}
	return out, nil
}

// Encode produces a patch p such that Apply(old, p) yields next.
func Encode(old, next []int) []int {
	patch := make([]int, 0, 8)
	lastLiteral := -1
	i := 0
	for i < len(next) {
		match := 0
		for i < len(next) && i < len(old) && old[i] == next[i] {
			match++
			i++
		}
		start := i
		for i < len(next) && (i >= len(old) || old[i] != next[i]) {
			i++
		}
		lastLiteral = len(patch) + 1
		patch = append(patch, match, i-start)
		patch = append(patch, next[start:i]...)
	}
	// A trailing empty literal run carries no information.
	if lastLiteral == len(patch)-1 && patch[lastLiteral] == 0 {
		patch = patch[:lastLiteral]
	}
	return patch
}
