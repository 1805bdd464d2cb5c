package grid

import "math"

// Barnes interpolation: each sample spreads its value onto nearby grid nodes
// with a Gaussian weight exp(-d²/2σ²) per axis, truncated at maxDist·σ, and
// every node divides its accumulated weighted sum by its accumulated weight.
// Nodes reached by no sample are NaN.

// kernelFootprint returns the full kernel width in grid cells per axis:
// 2·ceil(maxDist·σ/step)+1. A degenerate axis (zero step, single node) hosts
// a one-cell kernel. The caller must refuse footprints larger than the grid
// itself.
func kernelFootprint(sigma, steps [3]float64, maxDist float64) [3]int {
	var size [3]int
	for i := range size {
		if steps[i] <= 0 {
			size[i] = 1
			continue
		}
		size[i] = 2*int(math.Ceil(maxDist*sigma[i]/steps[i])) + 1
	}
	return size
}

// interpolate resamples scattered samples (parallel coordinate/value slices)
// onto the uniform axes. Sample coordinates must be in the same units as the
// axes. The result is dense, z-major then y then x.
func interpolate(xs, ys, zs, values []float64, axes Axes, sigma [3]float64, maxDist float64) []float64 {
	nx, ny, nz := len(axes.X), len(axes.Y), len(axes.Z)
	x0, y0, z0 := axes.X[0], axes.Y[0], axes.Z[0]
	dx, dy, dz := meanStep(axes.X), meanStep(axes.Y), meanStep(axes.Z)

	wsum := make([]float64, nz*ny*nx)
	vsum := make([]float64, nz*ny*nx)

	twoSigmaSqX := 2 * sigma[0] * sigma[0]
	twoSigmaSqY := 2 * sigma[1] * sigma[1]
	twoSigmaSqZ := 2 * sigma[2] * sigma[2]

	for s := range values {
		i0, i1 := nodeRange(xs[s], x0, dx, nx, maxDist*sigma[0])
		j0, j1 := nodeRange(ys[s], y0, dy, ny, maxDist*sigma[1])
		k0, k1 := nodeRange(zs[s], z0, dz, nz, maxDist*sigma[2])
		if i0 > i1 || j0 > j1 || k0 > k1 {
			continue // sample outside the grid's reach
		}
		for k := k0; k <= k1; k++ {
			dzv := z0 + float64(k)*dz - zs[s]
			ez := dzv * dzv / twoSigmaSqZ
			for j := j0; j <= j1; j++ {
				dyv := y0 + float64(j)*dy - ys[s]
				ey := dyv * dyv / twoSigmaSqY
				row := (k*ny + j) * nx
				for i := i0; i <= i1; i++ {
					dxv := x0 + float64(i)*dx - xs[s]
					w := math.Exp(-(dxv*dxv/twoSigmaSqX + ey + ez))
					wsum[row+i] += w
					vsum[row+i] += w * values[s]
				}
			}
		}
	}

	out := make([]float64, len(wsum))
	for i := range out {
		if wsum[i] > 0 {
			out[i] = vsum[i] / wsum[i]
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// nodeRange returns the inclusive node-index interval of a uniform axis
// within radius of a coordinate, clamped to [0, n). A single-node axis has
// zero step; its only node is in range when the coordinate is within radius
// of the origin, so no division happens on that path.
func nodeRange(coord, origin, step float64, n int, radius float64) (int, int) {
	// Nudge the radius so a node exactly on the cutoff is included.
	radius *= 1 + 1e-12
	if step <= 0 || n == 1 {
		if math.Abs(coord-origin) <= radius {
			return 0, 0
		}
		return 0, -1
	}
	lo := int(math.Ceil((coord - radius - origin) / step))
	hi := int(math.Floor((coord + radius - origin) / step))
	if lo < 0 {
		lo = 0
	}
	if hi > n-1 {
		hi = n - 1
	}
	return lo, hi
}
