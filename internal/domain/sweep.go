package domain

import (
	"fmt"
	"sort"
	"time"
)

// Site is the radar installation position in WGS-84 coordinates.
type Site struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  float64 `json:"altitude"` // meters above sea level
}

// Field2D is a dense ray×gate moment array stored row-major.
type Field2D struct {
	Rays  int
	Gates int
	Data  []float64
	Units string
}

// NewField2D allocates a zero-filled ray×gate field.
func NewField2D(rays, gates int) *Field2D {
	return &Field2D{Rays: rays, Gates: gates, Data: make([]float64, rays*gates)}
}

// At returns the value at (ray, gate). No bounds checking beyond the slice's own.
func (f *Field2D) At(ray, gate int) float64 { return f.Data[ray*f.Gates+gate] }

// Set stores a value at (ray, gate).
func (f *Field2D) Set(ray, gate int, v float64) { f.Data[ray*f.Gates+gate] = v }

// Sweep is one normalized elevation cut. Built once by the reader and treated
// as immutable afterwards; the assembler only ever copies out of it.
type Sweep struct {
	// Per-ray arrays, all of length RayCount.
	Azimuth        []float64
	Elevation      []float64
	Time           []time.Time
	RayGateSpacing []float64

	// Per-gate array of length GateCount: distance from the antenna to the
	// center of each gate, derived from FirstGateRange + GateSpacing×index.
	Range []float64

	// Moment fields keyed by canonical name (DBZ, VEL, ...).
	Fields map[string]*Field2D

	Site              Site
	FixedAngle        float64
	AngleResolution   float64
	SweepMode         string
	ScanType          string
	SweepNumber       int
	NyquistVelocity   float64
	UnambiguousRange  float64
	FirstGateRange    float64
	GateSpacing       float64
	TimeCoverageStart time.Time
	TimeCoverageEnd   time.Time

	// Extras carries volume-constant scalars (calibration constants, PRFs,
	// thresholds, ...) that the mapping table does not name individually.
	Extras map[string]float64

	// Attrs is the descriptive-metadata block attached by the reader.
	Attrs map[string]string
}

// RayCount returns the number of rays in the sweep.
func (s *Sweep) RayCount() int { return len(s.Azimuth) }

// GateCount returns the number of range gates per ray.
func (s *Sweep) GateCount() int { return len(s.Range) }

// FieldNames returns the moment names present in the sweep, sorted.
func (s *Sweep) FieldNames() []string {
	names := make([]string, 0, len(s.Fields))
	for name := range s.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks the internal shape invariants: every per-ray array has the
// same length and every field matches the ray and gate counts.
func (s *Sweep) Validate() error {
	rays, gates := s.RayCount(), s.GateCount()
	if rays == 0 {
		return fmt.Errorf("sweep %d: no rays", s.SweepNumber)
	}
	if gates == 0 {
		return fmt.Errorf("sweep %d: no range gates", s.SweepNumber)
	}
	if len(s.Elevation) != rays || len(s.Time) != rays || len(s.RayGateSpacing) != rays {
		return fmt.Errorf("sweep %d: per-ray array lengths disagree (azimuth=%d elevation=%d time=%d spacing=%d)",
			s.SweepNumber, rays, len(s.Elevation), len(s.Time), len(s.RayGateSpacing))
	}
	for name, f := range s.Fields {
		if f.Rays != rays || f.Gates != gates || len(f.Data) != rays*gates {
			return fmt.Errorf("sweep %d: field %q shape %dx%d does not match sweep shape %dx%d",
				s.SweepNumber, name, f.Rays, f.Gates, rays, gates)
		}
	}
	return nil
}
