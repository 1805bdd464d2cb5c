package domain

import "time"

// Volume is one complete scan cycle: the per-ray arrays of its sweeps
// concatenated along a single time axis, per-sweep metadata stacked one value
// per sweep, and volume-constant metadata stored once.
//
// Invariants maintained by the assembler:
//
//	SweepStartRayIndex[i+1] == SweepEndRayIndex[i] + 1
//	SweepEndRayIndex[i] == SweepStartRayIndex[i] + rayCount(i) - 1
//	TimeCoverageEnd == max ray timestamp across the whole concatenation
type Volume struct {
	// Concatenated per-ray arrays, length = total ray count.
	Azimuth        []float64
	Elevation      []float64
	Time           []time.Time
	RayGateSpacing []float64

	// Per-gate range, shared by every sweep in the volume.
	Range []float64

	// Moment fields concatenated along the ray axis.
	Fields map[string]*Field2D

	// Per-sweep metadata, length = SweepCount.
	FixedAngle         []float64
	RayAngleRes        []float64
	SweepMode          []string
	ScanType           []string
	SweepNumber        []int
	SweepStartRayIndex []int
	SweepEndRayIndex   []int

	// Volume-constant metadata, taken from the first sweep.
	Site              Site
	NyquistVelocity   float64
	UnambiguousRange  float64
	FirstGateRange    float64
	GateSpacing       float64
	TimeCoverageStart time.Time
	TimeCoverageEnd   time.Time
	Extras            map[string]float64
	Attrs             map[string]string
}

// SweepCount returns the number of sweeps concatenated into the volume.
func (v *Volume) SweepCount() int { return len(v.FixedAngle) }

// RayCount returns the total ray count across all sweeps.
func (v *Volume) RayCount() int { return len(v.Azimuth) }

// GateCount returns the number of range gates per ray.
func (v *Volume) GateCount() int { return len(v.Range) }
