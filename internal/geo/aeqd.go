package geo

import (
	"fmt"
	"math"
)

// Spherical azimuthal-equidistant inverse, Snyder "Map Projections: A
// Working Manual" eqs. 20-14 through 20-18. Planar distance from the anchor
// equals great-circle distance, so the angular separation of a point is its
// planar radius over the sphere radius.

// inverse maps a radar-local planar offset in meters to geographic degrees.
func (p *Projector) inverse(x, y float64) (lon, lat float64, err error) {
	rho := math.Hypot(x, y)
	if rho == 0 {
		return p.site.Longitude, p.site.Latitude, nil
	}
	c := rho / p.radius
	if c > math.Pi {
		return 0, 0, fmt.Errorf("position %.0f m from the site is beyond the antipode", rho)
	}

	sinC, cosC := math.Sin(c), math.Cos(c)
	sinLat0, cosLat0 := math.Sin(p.lat0), math.Cos(p.lat0)

	latRad := math.Asin(clampUnit(cosC*sinLat0 + y*sinC*cosLat0/rho))
	lonRad := p.lon0 + math.Atan2(x*sinC, rho*cosLat0*cosC-y*sinLat0*sinC)

	return lonRad * 180 / math.Pi, latRad * 180 / math.Pi, nil
}

// clampUnit keeps rounding noise out of Asin's domain.
func clampUnit(v float64) float64 {
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	default:
		return v
	}
}
