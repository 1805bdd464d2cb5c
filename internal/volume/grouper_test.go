package volume

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/radar-volume-gridder/internal/domain"
)

type fakeProber struct {
	probes map[string]domain.SweepProbe
	errs   map[string]error
	calls  []string
}

func (f *fakeProber) Probe(path string) (domain.SweepProbe, error) {
	f.calls = append(f.calls, path)
	if err, ok := f.errs[path]; ok {
		return domain.SweepProbe{}, err
	}
	if p, ok := f.probes[path]; ok {
		return p, nil
	}
	return domain.SweepProbe{FixedAngle: math.NaN()}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGroupByMetadata(t *testing.T) {
	t.Run("chunks by declared sweep count", func(t *testing.T) {
		prober := &fakeProber{probes: map[string]domain.SweepProbe{
			"sweep_1.nc": {SweepCount: 3},
		}}
		g := NewGrouper(prober, testLogger())

		groups, err := g.Group([]string{
			"sweep_4.nc", "sweep_2.nc", "sweep_6.nc",
			"sweep_1.nc", "sweep_5.nc", "sweep_3.nc",
		})
		require.NoError(t, err)
		require.Len(t, groups, 2)
		assert.Equal(t, []string{"sweep_1.nc", "sweep_2.nc", "sweep_3.nc"}, groups[0])
		assert.Equal(t, []string{"sweep_4.nc", "sweep_5.nc", "sweep_6.nc"}, groups[1])

		// Only the first file in sort order is opened.
		assert.Equal(t, []string{"sweep_1.nc"}, prober.calls)
	})

	t.Run("short trailing group is kept", func(t *testing.T) {
		prober := &fakeProber{probes: map[string]domain.SweepProbe{
			"a_1.nc": {SweepCount: 3},
		}}
		g := NewGrouper(prober, testLogger())

		groups, err := g.Group([]string{
			"a_1.nc", "a_2.nc", "a_3.nc", "a_4.nc", "a_5.nc", "a_6.nc", "a_7.nc",
		})
		require.NoError(t, err)
		require.Len(t, groups, 3)
		assert.Equal(t, []string{"a_7.nc"}, groups[2])
	})

	t.Run("concatenation reconstructs the sorted input", func(t *testing.T) {
		prober := &fakeProber{probes: map[string]domain.SweepProbe{
			"b_01.nc": {SweepCount: 4},
		}}
		g := NewGrouper(prober, testLogger())

		input := []string{"b_03.nc", "b_01.nc", "b_10.nc", "b_02.nc", "b_05.nc", "b_04.nc"}
		groups, err := g.Group(input)
		require.NoError(t, err)

		var flat []string
		for _, grp := range groups {
			flat = append(flat, grp...)
		}
		assert.Equal(t, []string{"b_01.nc", "b_02.nc", "b_03.nc", "b_04.nc", "b_05.nc", "b_10.nc"}, flat)
	})
}

func TestGroupByElevationFallback(t *testing.T) {
	elevProber := func(elevs map[string]float64) *fakeProber {
		probes := make(map[string]domain.SweepProbe, len(elevs))
		for path, el := range elevs {
			probes[path] = domain.SweepProbe{FixedAngle: el}
		}
		return &fakeProber{probes: probes}
	}

	t.Run("splits on elevation decrease", func(t *testing.T) {
		// No sweep count anywhere, so the heuristic takes over.
		prober := elevProber(map[string]float64{
			"s_1.nc": 0.5, "s_2.nc": 1.5, "s_3.nc": 3.0,
			"s_4.nc": 0.5, "s_5.nc": 1.5, "s_6.nc": 3.0,
		})
		g := NewGrouper(prober, testLogger())

		groups, err := g.Group([]string{"s_1.nc", "s_2.nc", "s_3.nc", "s_4.nc", "s_5.nc", "s_6.nc"})
		require.NoError(t, err)
		require.Len(t, groups, 2)
		assert.Equal(t, []string{"s_1.nc", "s_2.nc", "s_3.nc"}, groups[0])
		assert.Equal(t, []string{"s_4.nc", "s_5.nc", "s_6.nc"}, groups[1])
	})

	t.Run("equal consecutive elevations stay together", func(t *testing.T) {
		prober := elevProber(map[string]float64{
			"s_1.nc": 0.5, "s_2.nc": 0.5, "s_3.nc": 1.5,
		})
		g := NewGrouper(prober, testLogger())

		groups, err := g.Group([]string{"s_1.nc", "s_2.nc", "s_3.nc"})
		require.NoError(t, err)
		require.Len(t, groups, 1)
	})

	t.Run("unreadable elevation never splits", func(t *testing.T) {
		prober := elevProber(map[string]float64{
			"s_1.nc": 0.5, "s_3.nc": 3.0,
			"s_4.nc": 0.5, "s_5.nc": 1.5,
		})
		prober.errs = map[string]error{"s_2.nc": errors.New("corrupt header")}
		g := NewGrouper(prober, testLogger())

		groups, err := g.Group([]string{"s_1.nc", "s_2.nc", "s_3.nc", "s_4.nc", "s_5.nc"})
		require.NoError(t, err)
		require.Len(t, groups, 2)
		assert.Equal(t, []string{"s_1.nc", "s_2.nc", "s_3.nc"}, groups[0])
	})

	t.Run("single file yields one group", func(t *testing.T) {
		prober := elevProber(map[string]float64{"only.nc": 0.5})
		g := NewGrouper(prober, testLogger())

		groups, err := g.Group([]string{"only.nc"})
		require.NoError(t, err)
		require.Len(t, groups, 1)
		assert.Equal(t, []string{"only.nc"}, groups[0])
	})

	t.Run("reports the closed group's start time", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

		start := time.Date(2021, 5, 16, 2, 41, 0, 0, time.UTC)
		prober := &fakeProber{probes: map[string]domain.SweepProbe{
			"s_1.nc": {FixedAngle: 0.5, StartTime: start},
			"s_2.nc": {FixedAngle: 1.5, StartTime: start.Add(time.Minute)},
			"s_3.nc": {FixedAngle: 0.5, StartTime: start.Add(10 * time.Minute)},
		}}
		g := NewGrouper(prober, logger)

		groups, err := g.Group([]string{"s_1.nc", "s_2.nc", "s_3.nc"})
		require.NoError(t, err)
		require.Len(t, groups, 2)
		assert.Contains(t, buf.String(), "volume group closed")
		assert.Contains(t, buf.String(), "2021-05-16T02:41:00")
	})

	t.Run("no readable elevation anywhere is fatal", func(t *testing.T) {
		prober := &fakeProber{errs: map[string]error{
			"x_1.nc": errors.New("corrupt"),
			"x_2.nc": errors.New("corrupt"),
		}}
		g := NewGrouper(prober, testLogger())

		_, err := g.Group([]string{"x_1.nc", "x_2.nc"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no readable elevation")
	})
}

func TestGroupEmptyInput(t *testing.T) {
	g := NewGrouper(&fakeProber{}, testLogger())
	groups, err := g.Group(nil)
	require.NoError(t, err)
	assert.Nil(t, groups)
}

func TestGroupLists(t *testing.T) {
	prober := &fakeProber{probes: map[string]domain.SweepProbe{
		"l_1.nc": {SweepCount: 2},
	}}
	g := NewGrouper(prober, testLogger())

	groups, err := g.GroupLists([][]string{
		{"l_3.nc", "l_1.nc"},
		{"l_4.nc", "l_2.nc"},
	})
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, []string{"l_1.nc", "l_2.nc"}, groups[0])
	assert.Equal(t, []string{"l_3.nc", "l_4.nc"}, groups[1])
}
