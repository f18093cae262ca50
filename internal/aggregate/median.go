package aggregate

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// median returns the linearly interpolated median of xs, 0 for no data.
// The input slice is sorted in place.
func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sort.Float64s(xs)
	return stat.Quantile(0.5, stat.LinInterp, xs, nil)
}
