package volume

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/radar-volume-gridder/internal/domain"
)

// Assembler concatenates one ordered group of sweeps into a Volume.
//
// Field handling follows three classes: per-ray arrays concatenate along the
// time axis in group order, per-sweep metadata stacks one value per sweep,
// and volume-constant metadata is taken from the first sweep under the
// invariant that it never varies within a volume.
type Assembler struct {
	logger *slog.Logger
}

// NewAssembler creates an Assembler.
func NewAssembler(logger *slog.Logger) *Assembler {
	return &Assembler{logger: logger}
}

// Assemble builds one Volume from an ordered sweep group. Ray indices are
// recomputed from each sweep's own ray count and a running offset, so sweeps
// may legitimately differ in ray count.
//
// The first sweep defines the volume's field set: a later sweep missing one
// of those moments is fatal for the volume (no partial assembly), while a
// moment only a later sweep carries is dropped with a warning.
func (a *Assembler) Assemble(sweeps []*domain.Sweep) (*domain.Volume, error) {
	if len(sweeps) == 0 {
		return nil, errors.New("assemble volume: empty sweep group")
	}

	first := sweeps[0]
	gates := first.GateCount()
	required := first.FieldNames()
	requiredSet := make(map[string]bool, len(required))
	for _, name := range required {
		requiredSet[name] = true
	}

	totalRays := 0
	for i, s := range sweeps {
		if s.GateCount() != gates {
			return nil, fmt.Errorf("assemble volume: sweep %d has %d gates, first sweep has %d",
				i, s.GateCount(), gates)
		}
		for _, name := range required {
			if _, ok := s.Fields[name]; !ok {
				return nil, fmt.Errorf("assemble volume: sweep %d missing required field %q", i, name)
			}
		}
		for name := range s.Fields {
			if !requiredSet[name] {
				a.logger.Warn("dropping field absent from the first sweep",
					"sweep", i, "field", name)
			}
		}
		totalRays += s.RayCount()
	}

	vol := &domain.Volume{
		Azimuth:        make([]float64, 0, totalRays),
		Elevation:      make([]float64, 0, totalRays),
		Time:           make([]time.Time, 0, totalRays),
		RayGateSpacing: make([]float64, 0, totalRays),
		Range:          append([]float64(nil), first.Range...),
		Fields:         make(map[string]*domain.Field2D, len(required)),

		FixedAngle:         make([]float64, 0, len(sweeps)),
		RayAngleRes:        make([]float64, 0, len(sweeps)),
		SweepMode:          make([]string, 0, len(sweeps)),
		ScanType:           make([]string, 0, len(sweeps)),
		SweepNumber:        make([]int, 0, len(sweeps)),
		SweepStartRayIndex: make([]int, 0, len(sweeps)),
		SweepEndRayIndex:   make([]int, 0, len(sweeps)),

		Site:              first.Site,
		NyquistVelocity:   first.NyquistVelocity,
		UnambiguousRange:  first.UnambiguousRange,
		FirstGateRange:    first.FirstGateRange,
		GateSpacing:       first.GateSpacing,
		TimeCoverageStart: first.TimeCoverageStart,
		Extras:            first.Extras,
		Attrs:             first.Attrs,
	}

	for _, name := range required {
		vol.Fields[name] = &domain.Field2D{
			Rays:  totalRays,
			Gates: gates,
			Data:  make([]float64, 0, totalRays*gates),
			Units: first.Fields[name].Units,
		}
	}

	offset := 0
	var coverageEnd time.Time
	for _, s := range sweeps {
		rays := s.RayCount()

		vol.Azimuth = append(vol.Azimuth, s.Azimuth...)
		vol.Elevation = append(vol.Elevation, s.Elevation...)
		vol.Time = append(vol.Time, s.Time...)
		vol.RayGateSpacing = append(vol.RayGateSpacing, s.RayGateSpacing...)
		for _, name := range required {
			f := vol.Fields[name]
			f.Data = append(f.Data, s.Fields[name].Data...)
		}

		vol.FixedAngle = append(vol.FixedAngle, s.FixedAngle)
		vol.RayAngleRes = append(vol.RayAngleRes, s.AngleResolution)
		vol.SweepMode = append(vol.SweepMode, s.SweepMode)
		vol.ScanType = append(vol.ScanType, s.ScanType)
		vol.SweepNumber = append(vol.SweepNumber, s.SweepNumber)
		vol.SweepStartRayIndex = append(vol.SweepStartRayIndex, offset)
		vol.SweepEndRayIndex = append(vol.SweepEndRayIndex, offset+rays-1)
		offset += rays

		for _, t := range s.Time {
			if t.After(coverageEnd) {
				coverageEnd = t
			}
		}
	}
	vol.TimeCoverageEnd = coverageEnd

	return vol, nil
}
