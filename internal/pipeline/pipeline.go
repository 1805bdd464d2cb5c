// Package pipeline orchestrates the batch flow from raw sweep files to
// gridded products: group files into volume scans, decode and assemble each
// group, then interpolate each volume onto the target grid.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/radar-volume-gridder/internal/domain"
	"github.com/couchcryptid/radar-volume-gridder/internal/observability"
)

// SweepReader decodes one sweep file into a normalized sweep.
type SweepReader interface {
	ReadSweep(path string) (*domain.Sweep, error)
}

// Grouper partitions sweep file paths into per-volume groups.
type Grouper interface {
	Group(paths []string) ([][]string, error)
}

// Assembler concatenates one group of sweeps into a volume.
type Assembler interface {
	Assemble(sweeps []*domain.Sweep) (*domain.Volume, error)
}

// Gridder resamples a volume onto the target grid. Variables reports which
// moment variables a call to Grid would attempt for the given volume.
type Gridder interface {
	Variables(vol *domain.Volume) []string
	Grid(vol *domain.Volume) (*domain.GriddedProduct, error)
}

// Pipeline orchestrates the group-assemble-grid flow over a batch of files.
// Processing is single-threaded and synchronous; the context is checked
// between volumes, not inside them.
type Pipeline struct {
	reader    SweepReader
	grouper   Grouper
	assembler Assembler
	gridder   Gridder
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
}

// New creates a Pipeline with the given stages and observability.
func New(r SweepReader, g Grouper, a Assembler, gr Gridder, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		reader:    r,
		grouper:   g,
		assembler: a,
		gridder:   gr,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once the pipeline has produced at least one
// gridded product, or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not produced any gridded products yet")
	}
	return nil
}

// Run processes a batch of sweep file paths end to end. A volume that fails
// anywhere along the chain is logged and skipped; Run returns an error only
// when grouping itself fails or no volume in the batch succeeds.
func (p *Pipeline) Run(ctx context.Context, paths []string) ([]*domain.GriddedProduct, error) {
	p.logger.Info("pipeline started", "files", len(paths))
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	volumes, err := p.Volumes(ctx, paths)
	if err != nil {
		return nil, err
	}

	products := make([]*domain.GriddedProduct, 0, len(volumes))
	for i, vol := range volumes {
		if ctx.Err() != nil {
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return products, ctx.Err()
		}
		product, err := p.GridVolume(ctx, vol)
		if err != nil {
			p.logger.Error("gridding failed, skipping volume", "volume", i, "error", err)
			p.metrics.VolumeErrors.Inc()
			continue
		}
		products = append(products, product)
	}

	if len(products) == 0 && len(volumes) > 0 {
		return nil, errors.New("no volume in the batch could be gridded")
	}
	return products, nil
}

// Volumes groups the paths, reads each group's sweeps, and assembles one
// volume per group. A group that fails to decode or assemble is logged and
// skipped; an error is returned only when grouping fails or every group does.
func (p *Pipeline) Volumes(ctx context.Context, paths []string) ([]*domain.Volume, error) {
	groups, err := p.grouper.Group(paths)
	if err != nil {
		return nil, fmt.Errorf("group sweeps: %w", err)
	}
	p.logger.Info("grouped sweeps into volumes", "volumes", len(groups))

	volumes := make([]*domain.Volume, 0, len(groups))
	for i, group := range groups {
		if ctx.Err() != nil {
			return volumes, ctx.Err()
		}
		vol, err := p.assembleGroup(ctx, group)
		if err != nil {
			p.logger.Error("volume failed, skipping", "volume", i, "files", len(group), "error", err)
			p.metrics.VolumeErrors.Inc()
			continue
		}
		volumes = append(volumes, vol)
	}

	if len(volumes) == 0 && len(groups) > 0 {
		return nil, errors.New("no volume in the batch could be assembled")
	}
	return volumes, nil
}

// GridVolume interpolates one assembled volume onto the target grid. The
// first successful product flips the pipeline's readiness.
func (p *Pipeline) GridVolume(ctx context.Context, vol *domain.Volume) (*domain.GriddedProduct, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	requested := len(p.gridder.Variables(vol))
	start := time.Now()
	product, err := p.gridder.Grid(vol)
	if err != nil {
		return nil, fmt.Errorf("grid volume: %w", err)
	}
	p.metrics.GriddingDuration.Observe(time.Since(start).Seconds())
	p.metrics.VariablesGridded.Add(float64(len(product.Fields)))
	if skipped := requested - len(product.Fields); skipped > 0 {
		p.metrics.VariablesSkipped.Add(float64(skipped))
	}
	p.logger.Info("volume gridded",
		"variables", len(product.Fields), "requested", requested,
		"nx", product.NX(), "ny", product.NY(), "nz", product.NZ(),
		"time", product.Time, "duration", time.Since(start))

	p.ready.Store(true)
	return product, nil
}

// assembleGroup reads one group of sweep files and assembles them.
func (p *Pipeline) assembleGroup(ctx context.Context, group []string) (*domain.Volume, error) {
	sweeps := make([]*domain.Sweep, 0, len(group))
	for _, path := range group {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		sweep, err := p.reader.ReadSweep(path)
		if err != nil {
			p.metrics.SweepReadErrors.Inc()
			return nil, fmt.Errorf("read sweep %s: %w", path, err)
		}
		p.metrics.SweepsRead.Inc()
		sweeps = append(sweeps, sweep)
	}

	vol, err := p.assembler.Assemble(sweeps)
	if err != nil {
		return nil, fmt.Errorf("assemble volume: %w", err)
	}
	p.metrics.VolumesAssembled.Inc()
	p.metrics.VolumeSweepCount.Observe(float64(vol.SweepCount()))
	p.logger.Info("volume assembled",
		"sweeps", vol.SweepCount(), "rays", vol.RayCount(), "gates", vol.GateCount(),
		"start", vol.TimeCoverageStart, "end", vol.TimeCoverageEnd)

	return vol, nil
}
