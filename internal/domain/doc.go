// Package domain models Indian Meteorological Department (IMD) weather-radar
// scan data and the gridded products derived from it.
//
// # Data Source
//
// IMD radars write one NetCDF file per sweep (a full antenna rotation at a
// fixed elevation angle). A volume scan is a back-to-back series of sweeps at
// increasing elevations; nothing in an individual file says which volume it
// belongs to, so volume membership is recovered by the grouping heuristics in
// internal/volume.
//
// # Naming Conventions
//
// Source files use IMD identifiers (radialAzim, radialElev, elevationAngle,
// siteLat, ...). The reader renames them to CF/Radial-style canonical names
// (azimuth, elevation, fixed_angle, latitude, ...) and the rest of the system
// only ever sees the canonical names. Moment fields follow the usual radar
// shorthand:
//
//	DBT    total power (dBZ)
//	DBZ    reflectivity (dBZ)
//	VEL    radial velocity (m/s)
//	WIDTH  spectrum width (m/s)
//
// # Geometry
//
// Each sweep holds per-ray azimuth/elevation angles and per-gate ranges; gate
// spacing is uniform, so ranges derive from a first-gate offset plus
// spacing × index. Ray counts may differ between sweeps of one volume (the
// antenna turns faster at high elevations); gate counts and the site position
// never vary within a volume.
//
// # Scan Types
//
// The integer scanType code in a file maps to a (sweep_mode, scan_type) pair:
//
//	4 → azimuth_surveillance / ppi
//	7 → elevation_surveillance / rhi
//	1 → sector / ppi_sector
//	2 → manual_rhi / rhi_sector
//	0 → unknown / unknown
//
// Unlisted codes classify as unknown rather than failing the read.
package domain
