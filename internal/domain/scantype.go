package domain

// ScanClass pairs the CF/Radial sweep mode with its short scan-type label.
type ScanClass struct {
	SweepMode string
	ScanType  string
}

// scanClasses is the fixed IMD scanType code table. Codes outside the table
// classify as unknown.
var scanClasses = map[int]ScanClass{
	4: {"azimuth_surveillance", "ppi"},
	7: {"elevation_surveillance", "rhi"},
	1: {"sector", "ppi_sector"},
	2: {"manual_rhi", "rhi_sector"},
	0: {"unknown", "unknown"},
}

// ClassifyScan resolves an IMD scanType code to its sweep mode and scan type.
func ClassifyScan(code int) ScanClass {
	if c, ok := scanClasses[code]; ok {
		return c
	}
	return ScanClass{"unknown", "unknown"}
}
