// Package netcdf reads IMD single-sweep NetCDF files into the domain model.
//
// The on-disk layout is the IMD dual-pol format: dimensions (radial, bin),
// per-radial coordinate variables, scalar site/instrument metadata, and one
// 2-D variable per moment. Everything is renamed to canonical CF/Radial-style
// names through the explicit mapping tables below; no name is ever renamed
// "if present" by pattern.
package netcdf

// Source identifiers for per-ray coordinate variables.
const (
	srcAzimuth   = "radialAzim"
	srcElevation = "radialElev"
	srcTime      = "radialTime"
)

// Source identifiers for scalar and per-sweep metadata.
const (
	srcFixedAngle      = "elevationAngle"
	srcSweepNumber     = "elevationNumber"
	srcScanType        = "scanType"
	srcStartTime       = "esStartTime"
	srcNyquist         = "nyquist"
	srcUnambigRange    = "unambigRange"
	srcSiteLat         = "siteLat"
	srcSiteLon         = "siteLon"
	srcSiteAlt         = "siteAlt"
	srcFirstGateRange  = "firstGateRange"
	srcGateSize        = "gateSize"
	srcAngleResolution = "angleResolution"
	srcSweepCountAttr  = "nsweeps"
)

// momentNames maps IMD single-letter moment variables to canonical names.
var momentNames = map[string]string{
	"T": "DBT", // total power
	"Z": "DBZ", // reflectivity
	"V": "VEL", // radial velocity
	"W": "WIDTH", // spectrum width
}

// handledVars is the set of source variables consumed by the mapping above.
// Any other scalar numeric variable in the file is carried through as a
// volume-constant extra under its source name.
var handledVars = map[string]bool{
	srcAzimuth: true, srcElevation: true, srcTime: true,
	srcFixedAngle: true, srcSweepNumber: true, srcScanType: true,
	srcStartTime: true, srcNyquist: true, srcUnambigRange: true,
	srcSiteLat: true, srcSiteLon: true, srcSiteAlt: true,
	srcFirstGateRange: true, srcGateSize: true, srcAngleResolution: true,
	"T": true, "Z": true, "V": true, "W": true,
	"elevationList": true,
}
