package netcdf

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"

	"github.com/couchcryptid/radar-volume-gridder/internal/domain"
)

// Reader parses IMD sweep files into normalized domain sweeps.
type Reader struct {
	logger *slog.Logger
}

// NewReader creates a sweep-file reader.
func NewReader(logger *slog.Logger) *Reader {
	return &Reader{logger: logger}
}

// ReadSweep reads one sweep file fully into memory and normalizes it.
func (r *Reader) ReadSweep(path string) (*domain.Sweep, error) {
	g, err := netcdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sweep file %s: %w", path, err)
	}
	defer g.Close()

	swp, err := normalizeSweep(g)
	if err != nil {
		return nil, fmt.Errorf("read sweep %s: %w", path, err)
	}
	return swp, nil
}

// Probe opens a sweep file raw and recovers only the grouping metadata.
// A missing sweep count or elevation is reported through the probe's zero
// values, not as an error; only failure to open the file is an error.
func (r *Reader) Probe(path string) (domain.SweepProbe, error) {
	g, err := netcdf.Open(path)
	if err != nil {
		return domain.SweepProbe{}, fmt.Errorf("open sweep file %s: %w", path, err)
	}
	defer g.Close()
	return probeGroup(g), nil
}

// normalizeSweep renames, derives, and classifies everything in one open
// file. The group is the caller's to close.
func normalizeSweep(g api.Group) (*domain.Sweep, error) {
	azimuth, err := requireVector(g, srcAzimuth)
	if err != nil {
		return nil, err
	}
	elevation, err := requireVector(g, srcElevation)
	if err != nil {
		return nil, err
	}

	timeVar, err := g.GetVariable(srcTime)
	if err != nil {
		return nil, fmt.Errorf("required variable %q: %w", srcTime, err)
	}
	timeOffsets, err := asVector(timeVar.Values)
	if err != nil {
		return nil, fmt.Errorf("variable %q: %w", srcTime, err)
	}
	rayTimes := decodeTimes(timeOffsets, attrString(timeVar.Attributes, "units"))

	site := domain.Site{}
	if site.Latitude, err = requireScalar(g, srcSiteLat); err != nil {
		return nil, err
	}
	if site.Longitude, err = requireScalar(g, srcSiteLon); err != nil {
		return nil, err
	}
	if site.Altitude, err = requireScalar(g, srcSiteAlt); err != nil {
		return nil, err
	}

	firstGateRange, err := requireScalar(g, srcFirstGateRange)
	if err != nil {
		return nil, err
	}
	gateSize, err := requireScalar(g, srcGateSize)
	if err != nil {
		return nil, err
	}
	fixedAngle, err := requireScalar(g, srcFixedAngle)
	if err != nil {
		return nil, err
	}

	rays := len(azimuth)
	fields, gates, err := readMoments(g, rays)
	if err != nil {
		return nil, err
	}

	ranges := make([]float64, gates)
	for i := range ranges {
		ranges[i] = firstGateRange + gateSize*float64(i)
	}
	spacing := make([]float64, rays)
	for i := range spacing {
		spacing[i] = gateSize
	}

	class := domain.ClassifyScan(int(optionalScalar(g, srcScanType, 0)))

	swp := &domain.Sweep{
		Azimuth:          azimuth,
		Elevation:        elevation,
		Time:             rayTimes,
		RayGateSpacing:   spacing,
		Range:            ranges,
		Fields:           fields,
		Site:             site,
		FixedAngle:       fixedAngle,
		AngleResolution:  optionalScalar(g, srcAngleResolution, 0),
		SweepMode:        class.SweepMode,
		ScanType:         class.ScanType,
		SweepNumber:      int(optionalScalar(g, srcSweepNumber, 0)),
		NyquistVelocity:  optionalScalar(g, srcNyquist, math.NaN()),
		UnambiguousRange: optionalScalar(g, srcUnambigRange, math.NaN()),
		FirstGateRange:   firstGateRange,
		GateSpacing:      gateSize,
		Extras:           readExtras(g),
	}

	swp.TimeCoverageStart, swp.TimeCoverageEnd = timeCoverage(g, rayTimes)
	swp.Attrs = describeSweep(swp)

	if err := swp.Validate(); err != nil {
		return nil, err
	}
	return swp, nil
}

// readMoments loads every known moment variable, renaming to canonical names.
// At least one moment must be present to establish the gate count, and all
// moments must agree on shape.
func readMoments(g api.Group, rays int) (map[string]*domain.Field2D, int, error) {
	fields := make(map[string]*domain.Field2D)
	gates := 0
	for src, canonical := range momentNames {
		v, err := g.GetVariable(src)
		if err != nil {
			continue // moment not recorded in this file
		}
		data, r, c, err := asMatrix(v.Values)
		if err != nil {
			return nil, 0, fmt.Errorf("moment %q: %w", src, err)
		}
		if r != rays {
			return nil, 0, fmt.Errorf("moment %q: %d rays, coordinate arrays have %d", src, r, rays)
		}
		if gates == 0 {
			gates = c
		} else if c != gates {
			return nil, 0, fmt.Errorf("moment %q: %d gates, other moments have %d", src, c, gates)
		}
		fields[canonical] = &domain.Field2D{
			Rays:  r,
			Gates: c,
			Data:  data,
			Units: attrString(v.Attributes, "units"),
		}
	}
	if len(fields) == 0 {
		return nil, 0, fmt.Errorf("no moment variables found (expected any of T, Z, V, W)")
	}
	return fields, gates, nil
}

// readExtras collects unmapped scalar numeric variables under their source
// names; the assembler treats them as volume constants.
func readExtras(g api.Group) map[string]float64 {
	extras := make(map[string]float64)
	for _, name := range g.ListVariables() {
		if handledVars[name] {
			continue
		}
		v, err := g.GetVariable(name)
		if err != nil {
			continue
		}
		if f, ok := toFloat64(v.Values); ok {
			extras[name] = f
		}
	}
	return extras
}

// timeCoverage prefers the file's declared start time, falling back to the
// earliest ray; the end is always the latest ray timestamp.
func timeCoverage(g api.Group, rayTimes []time.Time) (start, end time.Time) {
	for _, t := range rayTimes {
		if start.IsZero() || t.Before(start) {
			start = t
		}
		if t.After(end) {
			end = t
		}
	}
	if v, err := g.GetVariable(srcStartTime); err == nil {
		if off, err := asScalar(v.Values); err == nil {
			ts := decodeTimes([]float64{off}, attrString(v.Attributes, "units"))
			start = ts[0]
		}
	}
	return start, end
}

// describeSweep builds the descriptive-metadata block, including the list of
// fields carrying both a ray and a gate dimension.
func describeSweep(s *domain.Sweep) map[string]string {
	names := make([]string, 0, len(s.Fields))
	for name, f := range s.Fields {
		if f.Rays > 0 && f.Gates > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return map[string]string{
		"Conventions":     "CF/Radial instrument_parameters",
		"version":         "1.3",
		"institution":     "India Meteorological Department",
		"source":          "",
		"history":         "",
		"instrument_name": "",
		"field_names":     strings.Join(names, ", "),
	}
}

func probeGroup(g api.Group) domain.SweepProbe {
	p := domain.SweepProbe{FixedAngle: math.NaN()}

	// Sweep-count priority: explicit attribute, then the sweep-dimension
	// variable, then the fixed-angle array length.
	if v, ok := g.Attributes().Get(srcSweepCountAttr); ok {
		if n, ok := toFloat64(v); ok && n > 0 {
			p.SweepCount = int(n)
		}
	}
	if p.SweepCount == 0 {
		if v, err := g.GetVariable("elevationList"); err == nil {
			if vec, err := asVector(v.Values); err == nil && len(vec) > 0 {
				p.SweepCount = len(vec)
			}
		}
	}
	if p.SweepCount == 0 {
		if v, err := g.GetVariable(srcFixedAngle); err == nil {
			if vec, err := asVector(v.Values); err == nil && len(vec) > 0 {
				p.SweepCount = len(vec)
			}
		}
	}

	if v, err := g.GetVariable(srcFixedAngle); err == nil {
		if f, err := asScalar(v.Values); err == nil {
			p.FixedAngle = f
		}
	}
	if math.IsNaN(p.FixedAngle) {
		if v, err := g.GetVariable("fixed_angle"); err == nil {
			if f, err := asScalar(v.Values); err == nil {
				p.FixedAngle = f
			}
		}
	}

	if v, err := g.GetVariable(srcStartTime); err == nil {
		if off, err := asScalar(v.Values); err == nil {
			p.StartTime = decodeTimes([]float64{off}, attrString(v.Attributes, "units"))[0]
		}
	}
	return p
}

func requireVector(g api.Group, name string) ([]float64, error) {
	v, err := g.GetVariable(name)
	if err != nil {
		return nil, fmt.Errorf("required variable %q: %w", name, err)
	}
	vec, err := asVector(v.Values)
	if err != nil {
		return nil, fmt.Errorf("variable %q: %w", name, err)
	}
	return vec, nil
}

func requireScalar(g api.Group, name string) (float64, error) {
	v, err := g.GetVariable(name)
	if err != nil {
		return 0, fmt.Errorf("required variable %q: %w", name, err)
	}
	f, err := asScalar(v.Values)
	if err != nil {
		return 0, fmt.Errorf("variable %q: %w", name, err)
	}
	return f, nil
}

func optionalScalar(g api.Group, name string, fallback float64) float64 {
	v, err := g.GetVariable(name)
	if err != nil {
		return fallback
	}
	f, err := asScalar(v.Values)
	if err != nil {
		return fallback
	}
	return f
}

func attrString(attrs api.AttributeMap, key string) string {
	if attrs == nil {
		return ""
	}
	v, ok := attrs.Get(key)
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
