// Package grid resamples assembled radar volumes onto a regular 3-D grid.
package grid

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/couchcryptid/radar-volume-gridder/internal/domain"
)

// Axes are the resolved target-grid coordinate arrays in radar-local
// Cartesian meters. Z is meters above sea level.
type Axes struct {
	X []float64
	Y []float64
	Z []float64
}

// BuildAxes steps each axis from its lower to its upper bound inclusive.
//
// Endpoint rule: the array length is floor((upper-lower)/step)+1 computed
// with a 1e-9 relative tolerance, so the upper bound is included exactly when
// the span is a step multiple within tolerance; otherwise the last node is
// the largest lower+k·step below the bound. The grid never overshoots.
func BuildAxes(spec domain.GridSpec) (Axes, error) {
	if err := spec.Validate(); err != nil {
		return Axes{}, err
	}
	return Axes{
		X: stepAxis(spec.XLim, spec.XStep),
		Y: stepAxis(spec.YLim, spec.YStep),
		Z: stepAxis(spec.ZLim, spec.ZStep),
	}, nil
}

func stepAxis(lim [2]float64, step float64) []float64 {
	span := lim[1] - lim[0]
	n := int(math.Floor(span/step+1e-9)) + 1
	return uniformAxis(lim[0], step, n)
}

// uniformAxis builds n nodes from an origin and a constant step. The gridder
// uses it to regularize projected geographic axes, whose spacing is only
// near-uniform after the CRS transform.
func uniformAxis(origin, step float64, n int) []float64 {
	if n == 1 {
		return []float64{origin}
	}
	return floats.Span(make([]float64, n), origin, origin+float64(n-1)*step)
}

// meanStep returns the mean spacing of a monotone coordinate array.
func meanStep(axis []float64) float64 {
	if len(axis) < 2 {
		return 0
	}
	return (axis[len(axis)-1] - axis[0]) / float64(len(axis)-1)
}
