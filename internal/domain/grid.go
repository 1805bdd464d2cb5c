package domain

import (
	"errors"
	"fmt"
	"time"
)

// AllVariables is the sentinel for "grid every eligible moment field".
const AllVariables = "all"

// DefaultMaxDist is the interpolation cutoff radius in multiples of the
// per-axis smoothing width.
const DefaultMaxDist = 4.0

// GridSpec defines the regular target grid in radar-local Cartesian meters
// and the interpolation tuning that goes with it.
type GridSpec struct {
	XLim [2]float64
	YLim [2]float64
	ZLim [2]float64

	XStep float64
	YStep float64
	ZStep float64

	// Smoothing half-width multipliers: the Gaussian sigma on each axis is
	// multiplier × step on that axis.
	SmoothX float64
	SmoothY float64
	SmoothZ float64

	// MaxDist is the interpolation cutoff in multiples of sigma.
	MaxDist float64

	// PseudoCappi enables the top-down vertical fill after interpolation.
	PseudoCappi bool

	// DataVars lists the moments to grid; nil or ["all"] means every field
	// carrying both a ray and a gate dimension.
	DataVars []string
}

// DefaultGridSpec mirrors the operational defaults: a 200×200 km domain at
// 1 km horizontal and 250 m vertical resolution up to 10 km altitude.
func DefaultGridSpec() GridSpec {
	return GridSpec{
		XLim:        [2]float64{-100e3, 100e3},
		YLim:        [2]float64{-100e3, 100e3},
		ZLim:        [2]float64{0, 10e3},
		XStep:       1000,
		YStep:       1000,
		ZStep:       250,
		SmoothX:     0.2,
		SmoothY:     0.2,
		SmoothZ:     1,
		MaxDist:     DefaultMaxDist,
		PseudoCappi: true,
	}
}

// GridAll reports whether the spec requests every eligible variable.
func (g GridSpec) GridAll() bool {
	if len(g.DataVars) == 0 {
		return true
	}
	return len(g.DataVars) == 1 && g.DataVars[0] == AllVariables
}

// Validate checks the axis definitions. The kernel-footprint bound depends on
// the resolved axes and is checked per variable at interpolation time.
func (g GridSpec) Validate() error {
	type axis struct {
		name string
		lim  [2]float64
		step float64
	}
	for _, a := range []axis{
		{"x", g.XLim, g.XStep},
		{"y", g.YLim, g.YStep},
		{"z", g.ZLim, g.ZStep},
	} {
		if a.step <= 0 {
			return fmt.Errorf("grid %s axis: step %g must be positive", a.name, a.step)
		}
		if a.lim[1] < a.lim[0] {
			return fmt.Errorf("grid %s axis: upper bound %g below lower bound %g", a.name, a.lim[1], a.lim[0])
		}
	}
	if g.MaxDist <= 0 {
		return errors.New("grid: max interpolation radius must be positive")
	}
	if g.SmoothX <= 0 || g.SmoothY <= 0 || g.SmoothZ <= 0 {
		return errors.New("grid: smoothing multipliers must be positive")
	}
	return nil
}

// GriddedProduct is the resampled output: one dense (z, y, x) array per
// variable plus geographic and Cartesian coordinate arrays.
type GriddedProduct struct {
	// Geographic axis coordinates (the product's primary axes).
	Lon []float64
	Lat []float64
	Z   []float64

	// Underlying planar Cartesian coordinates, retained as auxiliary axes.
	X []float64
	Y []float64

	// Fields maps variable name to a dense array of length NZ×NY×NX,
	// z-major then y then x.
	Fields map[string][]float64

	// CRS is the proj4 definition of the geographic target system.
	CRS string

	// Time is the mean ray timestamp of the source volume.
	Time time.Time

	Attrs map[string]string
}

// NX returns the x-axis node count.
func (p *GriddedProduct) NX() int { return len(p.Lon) }

// NY returns the y-axis node count.
func (p *GriddedProduct) NY() int { return len(p.Lat) }

// NZ returns the z-axis node count.
func (p *GriddedProduct) NZ() int { return len(p.Z) }

// At returns field value at (level k, row j, column i).
func (p *GriddedProduct) At(field string, k, j, i int) float64 {
	return p.Fields[field][(k*p.NY()+j)*p.NX()+i]
}
