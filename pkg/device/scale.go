package device

import (
	"fmt"
	"math"

	"github.com/remotegamepad/remotegamepad-go/pkg/input"
)

// ScaleAxis converts an input value for axis a into the native range r.
func ScaleAxis(a input.Axis, v float64, r AxisRange) (int32, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s value %v", input.ErrInvalidInput, a, v)
	}

	if a.Trigger() {
		v = clamp(v, 0, 1)
		return r.Min + int32(math.Round(v*float64(r.Max-r.Min))), nil
	}

	v = clamp(v, -1, 1)
	if a.Vertical() {
		v = -v
	}

	center := r.Center()
	if v >= 0 {
		return center + int32(math.Round(v*float64(r.Max-center))), nil
	}
	return center + int32(math.Round(v*float64(center-r.Min))), nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
