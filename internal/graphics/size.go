package graphics

import "math"

// MulSize multiplies two dimensions without wrapping.
//
// A zero dimension yields (0, true). Negative inputs or a product that does
// not fit in an int yield (0, false).
func MulSize(width, height int) (int, bool) {
	if width < 0 || height < 0 {
		return 0, false
	}
	if width == 0 || height == 0 {
		return 0, true
	}
	if width > math.MaxInt/height {
		return 0, false
	}
	return width * height, true
}
