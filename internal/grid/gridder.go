package grid

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/couchcryptid/radar-volume-gridder/internal/domain"
	"github.com/couchcryptid/radar-volume-gridder/internal/geo"
)

// Gridder resamples volumes onto the target grid, one variable at a time.
// Variables run sequentially and each writes its own output array once, so no
// state is shared between them.
type Gridder struct {
	spec   domain.GridSpec
	logger *slog.Logger
}

// NewGridder validates the spec eagerly so a bad grid definition surfaces
// when gridding is requested, not halfway through a batch.
func NewGridder(spec domain.GridSpec, logger *slog.Logger) (*Gridder, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("grid spec: %w", err)
	}
	return &Gridder{spec: spec, logger: logger}, nil
}

// Grid interpolates one volume's moments onto the grid and applies the
// pseudo-CAPPI fill when enabled. A variable with no finite samples, or a
// kernel footprint larger than the grid, is skipped with a log and left out
// of the product; neither condition is an error.
func (g *Gridder) Grid(vol *domain.Volume) (*domain.GriddedProduct, error) {
	axes, err := BuildAxes(g.spec)
	if err != nil {
		return nil, err
	}

	projector, err := geo.NewProjector(vol.Site)
	if err != nil {
		return nil, fmt.Errorf("grid volume: %w", err)
	}

	lonAxis, latAxis, err := projector.ProjectAxis(axes.X, axes.Y)
	if err != nil {
		return nil, fmt.Errorf("grid volume: project axes: %w", err)
	}

	// Interpolation runs in geographic space on a regularized version of the
	// projected axes; the projected arrays themselves become the product's
	// coordinates.
	lonStep, latStep := meanStep(lonAxis), meanStep(latAxis)
	interpAxes := Axes{
		X: uniformAxis(lonAxis[0], lonStep, len(axes.X)),
		Y: uniformAxis(latAxis[0], latStep, len(axes.Y)),
		Z: axes.Z,
	}
	steps := [3]float64{lonStep, latStep, g.spec.ZStep}
	sigma := [3]float64{
		g.spec.SmoothX * lonStep,
		g.spec.SmoothY * latStep,
		g.spec.SmoothZ * g.spec.ZStep,
	}

	lons, lats, alts, err := stackCoordinates(vol, projector)
	if err != nil {
		return nil, fmt.Errorf("grid volume: %w", err)
	}

	nx, ny, nz := len(axes.X), len(axes.Y), len(axes.Z)
	product := &domain.GriddedProduct{
		Lon:    lonAxis,
		Lat:    latAxis,
		Z:      axes.Z,
		X:      axes.X,
		Y:      axes.Y,
		Fields: make(map[string][]float64),
		CRS:    projector.TargetCRS(),
		Time:   meanTime(vol.Time),
		Attrs:  productAttrs(vol),
	}

	for _, name := range g.Variables(vol) {
		field, ok := vol.Fields[name]
		if !ok {
			g.logger.Warn("requested variable not in volume, skipping", "variable", name)
			continue
		}

		xs, ys, zs, vals := finiteSamples(field.Data, lons, lats, alts)
		if len(vals) == 0 {
			g.logger.Warn("no valid data points for variable, skipping", "variable", name)
			continue
		}

		footprint := kernelFootprint(sigma, steps, g.spec.MaxDist)
		if footprint[0] > nx || footprint[1] > ny || footprint[2] > nz {
			g.logger.Warn("kernel footprint exceeds grid size, skipping variable",
				"variable", name,
				"kernel_x", footprint[0], "kernel_y", footprint[1], "kernel_z", footprint[2],
				"grid_x", nx, "grid_y", ny, "grid_z", nz)
			continue
		}

		data := interpolate(xs, ys, zs, vals, interpAxes, sigma, g.spec.MaxDist)
		if g.spec.PseudoCappi {
			fillPseudoCappi(data, nz, ny, nx)
		}
		product.Fields[name] = data
	}

	return product, nil
}

// Variables resolves the configured variable selection against a volume:
// all ray×gate fields, or the explicit list as given.
func (g *Gridder) Variables(vol *domain.Volume) []string {
	if !g.spec.GridAll() {
		return g.spec.DataVars
	}
	names := make([]string, 0, len(vol.Fields))
	for name := range vol.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// stackCoordinates flattens every gate of the volume to geographic
// coordinates, ray-major, matching the moment arrays' layout.
func stackCoordinates(vol *domain.Volume, projector *geo.Projector) (lons, lats, alts []float64, err error) {
	rays, gates := vol.RayCount(), vol.GateCount()
	lons = make([]float64, rays*gates)
	lats = make([]float64, rays*gates)
	alts = make([]float64, rays*gates)
	for ray := 0; ray < rays; ray++ {
		az, el := vol.Azimuth[ray], vol.Elevation[ray]
		for gate := 0; gate < gates; gate++ {
			x, y, z := geo.AntennaToCartesian(az, el, vol.Range[gate])
			lon, lat, alt, err := projector.ToGeographic(x, y, z)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("georeference ray %d gate %d: %w", ray, gate, err)
			}
			idx := ray*gates + gate
			lons[idx], lats[idx], alts[idx] = lon, lat, alt
		}
	}
	return lons, lats, alts, nil
}

// finiteSamples drops non-finite values, returning parallel slices of the
// survivors' coordinates and values.
func finiteSamples(data, lons, lats, alts []float64) (xs, ys, zs, vals []float64) {
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		xs = append(xs, lons[i])
		ys = append(ys, lats[i])
		zs = append(zs, alts[i])
		vals = append(vals, v)
	}
	return xs, ys, zs, vals
}

// meanTime is the average ray timestamp, the product's nominal valid time.
func meanTime(times []time.Time) time.Time {
	if len(times) == 0 {
		return time.Time{}
	}
	secs := make([]float64, len(times))
	for i, t := range times {
		secs[i] = float64(t.UnixMilli()) / 1e3
	}
	mean := stat.Mean(secs, nil)
	return time.UnixMilli(int64(mean * 1e3)).UTC()
}

func productAttrs(vol *domain.Volume) map[string]string {
	attrs := make(map[string]string, len(vol.Attrs)+2)
	for k, v := range vol.Attrs {
		attrs[k] = v
	}
	attrs["radar_name"] = attrs["instrument_name"]
	attrs["processed_at"] = domain.Now().UTC().Format(time.RFC3339)
	return attrs
}
