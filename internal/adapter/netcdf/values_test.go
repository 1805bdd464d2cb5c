package netcdf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsScalar(t *testing.T) {
	t.Run("plain numeric types", func(t *testing.T) {
		for _, v := range []interface{}{float64(7), float32(7), int64(7), int32(7), int16(7), int8(7), uint8(7)} {
			f, err := asScalar(v)
			require.NoError(t, err)
			assert.Equal(t, 7.0, f)
		}
	})

	t.Run("singleton slice", func(t *testing.T) {
		f, err := asScalar([]float32{3.5})
		require.NoError(t, err)
		assert.InDelta(t, 3.5, f, 1e-6)
	})

	t.Run("longer slice is not a scalar", func(t *testing.T) {
		_, err := asScalar([]float32{1, 2})
		require.Error(t, err)
	})

	t.Run("string is not a scalar", func(t *testing.T) {
		_, err := asScalar("12")
		require.Error(t, err)
	})
}

func TestAsVector(t *testing.T) {
	t.Run("integer elements widen to float64", func(t *testing.T) {
		vec, err := asVector([]int32{1, 2, 3})
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 2, 3}, vec)
	})

	t.Run("float64 input is copied, not aliased", func(t *testing.T) {
		in := []float64{1, 2}
		vec, err := asVector(in)
		require.NoError(t, err)
		vec[0] = 99
		assert.Equal(t, 1.0, in[0])
	})

	t.Run("matrix is not a vector", func(t *testing.T) {
		_, err := asVector([][]float32{{1}})
		require.Error(t, err)
	})
}

func TestAsMatrix(t *testing.T) {
	t.Run("flattens row-major", func(t *testing.T) {
		data, rows, cols, err := asMatrix([][]int16{{1, 2, 3}, {4, 5, 6}})
		require.NoError(t, err)
		assert.Equal(t, 2, rows)
		assert.Equal(t, 3, cols)
		assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, data)
	})

	t.Run("ragged rows are rejected", func(t *testing.T) {
		_, _, _, err := asMatrix([][]float32{{1, 2}, {3}})
		require.Error(t, err)
	})

	t.Run("empty matrix is rejected", func(t *testing.T) {
		_, _, _, err := asMatrix([][]float64{})
		require.Error(t, err)
	})
}

func TestDecodeTimes(t *testing.T) {
	t.Run("seconds since epoch", func(t *testing.T) {
		ts := decodeTimes([]float64{0, 90}, "seconds since 1970-01-01T00:00:00Z")
		assert.Equal(t, time.Unix(0, 0).UTC(), ts[0])
		assert.Equal(t, time.Unix(90, 0).UTC(), ts[1])
	})

	t.Run("milliseconds since a custom base", func(t *testing.T) {
		ts := decodeTimes([]float64{1500}, "milliseconds since 2021-05-16 02:41:00")
		assert.Equal(t, time.Date(2021, 5, 16, 2, 41, 1, 500e6, time.UTC), ts[0])
	})

	t.Run("hours since a date", func(t *testing.T) {
		ts := decodeTimes([]float64{6}, "hours since 2021-05-16")
		assert.Equal(t, time.Date(2021, 5, 16, 6, 0, 0, 0, time.UTC), ts[0])
	})

	t.Run("missing units default to epoch seconds", func(t *testing.T) {
		ts := decodeTimes([]float64{1621132860}, "")
		assert.Equal(t, time.Date(2021, 5, 16, 2, 41, 0, 0, time.UTC), ts[0])
	})

	t.Run("unknown unit word defaults to epoch seconds", func(t *testing.T) {
		ts := decodeTimes([]float64{60}, "fortnights since 2021-05-16")
		assert.Equal(t, time.Unix(60, 0).UTC(), ts[0])
	})
}
