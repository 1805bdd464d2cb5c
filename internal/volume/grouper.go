// Package volume recovers volume-scan structure from loose per-sweep files:
// the grouper decides which files belong together, the assembler concatenates
// their sweeps into one Volume.
package volume

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/couchcryptid/radar-volume-gridder/internal/domain"
)

// Prober recovers grouping metadata from a sweep file without a full parse.
type Prober interface {
	Probe(path string) (domain.SweepProbe, error)
}

// Grouper partitions an unordered sweep-file list into ordered per-volume
// groups. It tries a metadata path first (sweep count declared by the first
// file) and falls back to an elevation-decrease heuristic only when the
// metadata path explicitly fails.
type Grouper struct {
	prober Prober
	logger *slog.Logger
}

// NewGrouper creates a Grouper backed by the given file prober.
func NewGrouper(prober Prober, logger *slog.Logger) *Grouper {
	return &Grouper{prober: prober, logger: logger}
}

// GroupLists flattens nested file lists and groups the result.
func (g *Grouper) GroupLists(lists [][]string) ([][]string, error) {
	var flat []string
	for _, l := range lists {
		flat = append(flat, l...)
	}
	return g.Group(flat)
}

// Group sorts the paths in numeric-aware natural order and partitions them
// into one slice per volume scan.
func (g *Grouper) Group(paths []string) ([][]string, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	sorted := append([]string(nil), paths...)
	sort.SliceStable(sorted, func(i, j int) bool { return naturalLess(sorted[i], sorted[j]) })

	groups, err := g.groupByMetadata(sorted)
	if err == nil {
		return groups, nil
	}
	g.logger.Warn("sweep count unavailable from metadata, using elevation heuristic",
		"error", err, "first_file", sorted[0])
	return g.groupByElevation(sorted)
}

// groupByMetadata opens only the first file, takes its declared sweep count,
// and chunks the sorted list. Returns an explicit error when the count cannot
// be determined; the caller decides whether to fall back.
func (g *Grouper) groupByMetadata(sorted []string) ([][]string, error) {
	probe, err := g.prober.Probe(sorted[0])
	if err != nil {
		return nil, err
	}
	n := probe.SweepCount
	if n <= 0 {
		return nil, fmt.Errorf("file %s declares no sweep count", sorted[0])
	}

	var groups [][]string
	for i := 0; i < len(sorted); i += n {
		end := i + n
		if end > len(sorted) {
			end = len(sorted)
		}
		groups = append(groups, sorted[i:end])
	}
	if last := groups[len(groups)-1]; len(last) < n {
		// Deliberate policy: the short trailing group is kept rather than
		// rejected or padded, so a truncated scan cycle still grids.
		g.logger.Warn("trailing volume group is short",
			"sweep_count", n, "trailing_files", len(last))
	}
	return groups, nil
}

// groupByElevation probes every file and closes the current group whenever
// the elevation strictly decreases versus the previous file. Unreadable
// elevations are NaN and never trigger a split. The final open group is
// always flushed, even with a single file.
func (g *Grouper) groupByElevation(sorted []string) ([][]string, error) {
	elevs := make([]float64, len(sorted))
	starts := make([]time.Time, len(sorted))
	readable := 0
	for i, path := range sorted {
		probe, err := g.prober.Probe(path)
		if err != nil {
			g.logger.Warn("cannot probe sweep file", "file", path, "error", err)
			elevs[i] = math.NaN()
			continue
		}
		elevs[i] = probe.FixedAngle
		starts[i] = probe.StartTime
		if !math.IsNaN(probe.FixedAngle) {
			readable++
		}
	}
	if readable == 0 {
		return nil, fmt.Errorf("cannot determine volumes: no readable elevation in any of %d files", len(sorted))
	}

	var groups [][]string
	current := []string{sorted[0]}
	firstIdx := 0
	for i := 1; i < len(sorted); i++ {
		if elevs[i] < elevs[i-1] { // false for NaN on either side
			g.logger.Debug("volume group closed on elevation decrease",
				"files", len(current), "volume_start", starts[firstIdx],
				"last_elevation", elevs[i-1], "next_elevation", elevs[i])
			groups = append(groups, current)
			current = nil
			firstIdx = i
		}
		current = append(current, sorted[i])
	}
	return append(groups, current), nil
}
