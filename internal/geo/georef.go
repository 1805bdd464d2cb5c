// Package geo turns antenna coordinates into radar-local Cartesian positions
// and projects those into geographic space.
package geo

import "math"

const (
	earthRadius = 6371000.0

	// Standard-atmosphere refraction is modelled by inflating the Earth
	// radius by 4/3, so a beam launched at a fixed elevation follows a
	// straight line over the effective sphere.
	effectiveRadius = earthRadius * 4.0 / 3.0
)

// AntennaToCartesian converts one gate's antenna coordinates (azimuth and
// elevation in degrees, slant range in meters) to radar-local Cartesian
// meters. x points east, y north, z up; z is height above the radar, not
// above sea level.
func AntennaToCartesian(azimuth, elevation, slantRange float64) (x, y, z float64) {
	elRad := elevation * math.Pi / 180
	azRad := azimuth * math.Pi / 180

	z = math.Sqrt(slantRange*slantRange+effectiveRadius*effectiveRadius+
		2*slantRange*effectiveRadius*math.Sin(elRad)) - effectiveRadius

	// Great-circle ground distance along the effective sphere.
	s := effectiveRadius * math.Asin(slantRange*math.Cos(elRad)/(effectiveRadius+z))

	x = s * math.Sin(azRad)
	y = s * math.Cos(azRad)
	return x, y, z
}
