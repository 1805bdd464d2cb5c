package netcdf

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAttrs implements api.AttributeMap over a plain map.
type fakeAttrs map[string]interface{}

func (f fakeAttrs) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	return keys
}

func (f fakeAttrs) Get(key string) (interface{}, bool) {
	v, ok := f[key]
	return v, ok
}

func (f fakeAttrs) GetType(string) (string, bool)   { return "", false }
func (f fakeAttrs) GetGoType(string) (string, bool) { return "", false }

// fakeGroup implements api.Group over in-memory variables, standing in for a
// parsed sweep file.
type fakeGroup struct {
	vars  map[string]*api.Variable
	attrs fakeAttrs
}

func (f *fakeGroup) Close()                       {}
func (f *fakeGroup) Attributes() api.AttributeMap { return f.attrs }

func (f *fakeGroup) ListVariables() []string {
	names := make([]string, 0, len(f.vars))
	for name := range f.vars {
		names = append(names, name)
	}
	return names
}

func (f *fakeGroup) GetVariable(name string) (*api.Variable, error) {
	v, ok := f.vars[name]
	if !ok {
		return nil, fmt.Errorf("variable %q not found", name)
	}
	return v, nil
}

func (f *fakeGroup) GetVarGetter(string) (api.VarGetter, error) {
	return nil, fmt.Errorf("not implemented")
}
func (f *fakeGroup) ListSubgroups() []string            { return nil }
func (f *fakeGroup) GetGroup(string) (api.Group, error) { return nil, fmt.Errorf("no subgroups") }
func (f *fakeGroup) ListTypes() []string                { return nil }
func (f *fakeGroup) ListDimensions() []string           { return nil }
func (f *fakeGroup) GetDimension(string) (uint64, bool) { return 0, false }
func (f *fakeGroup) GetType(string) (string, bool)      { return "", false }
func (f *fakeGroup) GetGoType(string) (string, bool)    { return "", false }

func scalar(v interface{}) *api.Variable { return &api.Variable{Values: v} }
func timeVar(v interface{}, units string) *api.Variable {
	return &api.Variable{Values: v, Attributes: fakeAttrs{"units": units}}
}

// imdSweepGroup builds a minimal but complete IMD sweep file: 3 rays, 4 gates,
// reflectivity and velocity moments, mixed float and integer encodings.
func imdSweepGroup() *fakeGroup {
	const epoch = 1621132860 // 2021-05-16T02:41:00Z

	dbz := [][]float32{
		{10, 11, 12, 13},
		{20, 21, 22, 23},
		{30, 31, 32, 33},
	}
	vel := [][]float32{
		{-1, -2, -3, -4},
		{1, 2, 3, 4},
		{0, 0, 0, 0},
	}

	return &fakeGroup{
		attrs: fakeAttrs{"nsweeps": int32(10)},
		vars: map[string]*api.Variable{
			"radialAzim": scalar([]float32{0, 120, 240}),
			"radialElev": scalar([]float32{0.5, 0.5, 0.5}),
			"radialTime": timeVar([]float64{epoch, epoch + 1, epoch + 2}, "seconds since 1970-01-01T00:00:00Z"),

			"siteLat": scalar(15.491),
			"siteLon": scalar(73.823),
			"siteAlt": scalar(160.0),

			"firstGateRange":  scalar(float32(500)),
			"gateSize":        scalar(float32(250)),
			"elevationAngle":  scalar(float32(0.5)),
			"elevationNumber": scalar(int32(1)),
			"scanType":        scalar(int32(4)),
			"nyquist":         scalar(float32(13.3)),
			"unambigRange":    scalar(float32(150)),
			"angleResolution": scalar(float32(1)),
			"esStartTime":     timeVar(int32(epoch), "seconds since 1970-01-01T00:00:00Z"),
			"elevationList":   scalar([]float32{0.5, 1.5, 3, 4.5, 6, 9, 12, 16, 21, 27}),

			"Z": {Values: dbz, Attributes: fakeAttrs{"units": "dBZ"}},
			"V": {Values: vel, Attributes: fakeAttrs{"units": "m/s"}},

			"calConstH": scalar(float32(-42.5)),
		},
	}
}

func TestNormalizeSweep(t *testing.T) {
	swp, err := normalizeSweep(imdSweepGroup())
	require.NoError(t, err)

	t.Run("coordinates", func(t *testing.T) {
		assert.Equal(t, 3, swp.RayCount())
		assert.Equal(t, 4, swp.GateCount())
		assert.Equal(t, []float64{0, 120, 240}, swp.Azimuth)
		assert.Equal(t, []float64{500, 750, 1000, 1250}, swp.Range)
		assert.Equal(t, []float64{250, 250, 250}, swp.RayGateSpacing)
	})

	t.Run("moments are renamed to canonical names", func(t *testing.T) {
		require.Contains(t, swp.Fields, "DBZ")
		require.Contains(t, swp.Fields, "VEL")
		assert.NotContains(t, swp.Fields, "Z")
		assert.NotContains(t, swp.Fields, "DBT")

		assert.Equal(t, 13.0, swp.Fields["DBZ"].At(0, 3))
		assert.Equal(t, 30.0, swp.Fields["DBZ"].At(2, 0))
		assert.Equal(t, -4.0, swp.Fields["VEL"].At(0, 3))
		assert.Equal(t, "dBZ", swp.Fields["DBZ"].Units)
	})

	t.Run("site and instrument metadata", func(t *testing.T) {
		assert.Equal(t, 15.491, swp.Site.Latitude)
		assert.Equal(t, 73.823, swp.Site.Longitude)
		assert.Equal(t, 160.0, swp.Site.Altitude)
		assert.InDelta(t, 13.3, swp.NyquistVelocity, 1e-5)
		assert.InDelta(t, 0.5, swp.FixedAngle, 1e-6)
		assert.Equal(t, 1, swp.SweepNumber)
	})

	t.Run("scan classification", func(t *testing.T) {
		assert.Equal(t, "azimuth_surveillance", swp.SweepMode)
		assert.Equal(t, "ppi", swp.ScanType)
	})

	t.Run("ray times decode against the units base", func(t *testing.T) {
		want := time.Date(2021, 5, 16, 2, 41, 0, 0, time.UTC)
		assert.Equal(t, want, swp.Time[0])
		assert.Equal(t, want.Add(2*time.Second), swp.Time[2])
		assert.Equal(t, want, swp.TimeCoverageStart)
		assert.Equal(t, want.Add(2*time.Second), swp.TimeCoverageEnd)
	})

	t.Run("unmapped scalars become extras", func(t *testing.T) {
		assert.InDelta(t, -42.5, swp.Extras["calConstH"], 1e-6)
		assert.NotContains(t, swp.Extras, "siteLat")
		assert.NotContains(t, swp.Extras, "elevationList")
	})

	t.Run("descriptive attributes", func(t *testing.T) {
		assert.Equal(t, "CF/Radial instrument_parameters", swp.Attrs["Conventions"])
		assert.Equal(t, "DBZ, VEL", swp.Attrs["field_names"])
	})
}

func TestNormalizeSweepErrors(t *testing.T) {
	t.Run("missing coordinate variable", func(t *testing.T) {
		g := imdSweepGroup()
		delete(g.vars, "radialAzim")
		_, err := normalizeSweep(g)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "radialAzim")
	})

	t.Run("missing site position", func(t *testing.T) {
		g := imdSweepGroup()
		delete(g.vars, "siteLon")
		_, err := normalizeSweep(g)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "siteLon")
	})

	t.Run("no moments at all", func(t *testing.T) {
		g := imdSweepGroup()
		delete(g.vars, "Z")
		delete(g.vars, "V")
		_, err := normalizeSweep(g)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no moment variables")
	})

	t.Run("moment ray count mismatch", func(t *testing.T) {
		g := imdSweepGroup()
		g.vars["Z"] = &api.Variable{Values: [][]float32{{1, 2, 3, 4}}}
		_, err := normalizeSweep(g)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rays")
	})

	t.Run("moment gate count mismatch", func(t *testing.T) {
		g := imdSweepGroup()
		g.vars["V"] = &api.Variable{Values: [][]float32{{1, 2}, {3, 4}, {5, 6}}}
		_, err := normalizeSweep(g)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "gates")
	})

	t.Run("ragged moment matrix", func(t *testing.T) {
		g := imdSweepGroup()
		g.vars["Z"] = &api.Variable{Values: [][]float32{{1, 2, 3, 4}, {1, 2}, {1, 2, 3, 4}}}
		_, err := normalizeSweep(g)
		require.Error(t, err)
	})
}

func TestProbeGroup(t *testing.T) {
	t.Run("sweep count from the nsweeps attribute", func(t *testing.T) {
		p := probeGroup(imdSweepGroup())
		assert.Equal(t, 10, p.SweepCount)
		assert.InDelta(t, 0.5, p.FixedAngle, 1e-6)
		assert.Equal(t, time.Date(2021, 5, 16, 2, 41, 0, 0, time.UTC), p.StartTime)
	})

	t.Run("sweep count falls back to the elevation list", func(t *testing.T) {
		g := imdSweepGroup()
		delete(g.attrs, "nsweeps")
		p := probeGroup(g)
		assert.Equal(t, 10, p.SweepCount)
	})

	t.Run("sweep count falls back to the fixed-angle length", func(t *testing.T) {
		g := imdSweepGroup()
		delete(g.attrs, "nsweeps")
		delete(g.vars, "elevationList")
		g.vars["elevationAngle"] = scalar([]float32{0.5, 1.5, 3})
		p := probeGroup(g)
		assert.Equal(t, 3, p.SweepCount)
	})

	t.Run("bare file probes to zero values", func(t *testing.T) {
		g := &fakeGroup{vars: map[string]*api.Variable{}, attrs: fakeAttrs{}}
		p := probeGroup(g)
		assert.Zero(t, p.SweepCount)
		assert.True(t, math.IsNaN(p.FixedAngle))
		assert.True(t, p.StartTime.IsZero())
	})
}
