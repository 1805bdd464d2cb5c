package geo

import (
	"fmt"
	"math"

	"github.com/ctessum/geom/proj"

	"github.com/couchcryptid/radar-volume-gridder/internal/domain"
)

// LonLatCRS is the proj4 definition of the product's geographic target
// system (WGS-84 longitude/latitude, the EPSG:4326 axes).
const LonLatCRS = "+proj=longlat +datum=WGS84 +no_defs"

// aeqdCRS formats the radar-local azimuthal-equidistant projection anchored
// at the site. The volume's Cartesian gate positions live in this system.
func aeqdCRS(site domain.Site) string {
	return fmt.Sprintf("+proj=aeqd +lat_0=%.8f +lon_0=%.8f +x_0=0 +y_0=0 +units=m +ellps=WGS84 +no_defs",
		site.Latitude, site.Longitude)
}

// Projector maps radar-local Cartesian positions to geographic coordinates
// through a site-anchored azimuthal-equidistant projection. The proj library
// parses both CRS definitions and resolves the ellipsoid, but it ships no
// aeqd transformer, so the inverse mapping itself is evaluated in this
// package (see aeqd.go). Pure and stateless after construction.
type Projector struct {
	site   domain.Site
	lat0   float64 // site latitude, radians
	lon0   float64 // site longitude, radians
	radius float64 // sphere radius, meters
}

// NewProjector builds the site-anchored AEQD inverse to lon/lat.
func NewProjector(site domain.Site) (*Projector, error) {
	src, err := proj.Parse(aeqdCRS(site))
	if err != nil {
		return nil, fmt.Errorf("parse radar CRS: %w", err)
	}
	if _, err := proj.Parse(LonLatCRS); err != nil {
		return nil, fmt.Errorf("parse geographic CRS: %w", err)
	}

	radius := src.A
	if radius <= 0 {
		radius = 6378137 // WGS-84 semi-major axis
	}
	return &Projector{
		site:   site,
		lat0:   site.Latitude * math.Pi / 180,
		lon0:   site.Longitude * math.Pi / 180,
		radius: radius,
	}, nil
}

// TargetCRS returns the proj4 definition of the geographic output system.
func (p *Projector) TargetCRS() string { return LonLatCRS }

// ToGeographic converts one radar-local position (meters) to longitude and
// latitude in degrees and altitude in meters above sea level.
func (p *Projector) ToGeographic(x, y, z float64) (lon, lat, alt float64, err error) {
	lon, lat, err = p.inverse(x, y)
	if err != nil {
		return 0, 0, 0, err
	}
	return lon, lat, z + p.site.Altitude, nil
}

// ProjectAxis converts a planar axis to geographic degrees: the x axis at
// y=0 yields longitudes, the y axis at x=0 latitudes.
func (p *Projector) ProjectAxis(xs, ys []float64) (lons, lats []float64, err error) {
	lons = make([]float64, len(xs))
	for i, x := range xs {
		lon, _, err := p.inverse(x, 0)
		if err != nil {
			return nil, nil, fmt.Errorf("project x=%g: %w", x, err)
		}
		lons[i] = lon
	}
	lats = make([]float64, len(ys))
	for i, y := range ys {
		_, lat, err := p.inverse(0, y)
		if err != nil {
			return nil, nil, fmt.Errorf("project y=%g: %w", y, err)
		}
		lats[i] = lat
	}
	return lons, lats, nil
}
