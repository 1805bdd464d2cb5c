package netcdf

import (
	"fmt"
	"strings"
	"time"
)

// The go-native-netcdf reader hands back values as whatever Go type matches
// the on-disk NetCDF type: scalars as float64/float32/int32/..., 1-D
// variables as typed slices, 2-D variables as nested slices. IMD files mix
// float and integer encodings between radar software versions, so every
// numeric shape is coerced to float64 here.

func toFloat64(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int64:
		return float64(x), true
	case int32:
		return float64(x), true
	case int16:
		return float64(x), true
	case int8:
		return float64(x), true
	case uint8:
		return float64(x), true
	case int:
		return float64(x), true
	}
	return 0, false
}

// asScalar coerces a scalar value, or a length-1 slice of one (IMD writes
// some scalars with a singleton sweep dimension), to float64.
func asScalar(v interface{}) (float64, error) {
	if f, ok := toFloat64(v); ok {
		return f, nil
	}
	vec, err := asVector(v)
	if err == nil && len(vec) == 1 {
		return vec[0], nil
	}
	return 0, fmt.Errorf("value %T is not a numeric scalar", v)
}

// asVector coerces a 1-D variable of any numeric element type to []float64.
func asVector(v interface{}) ([]float64, error) {
	switch x := v.(type) {
	case []float64:
		out := make([]float64, len(x))
		copy(out, x)
		return out, nil
	case []float32:
		return convertSlice(x), nil
	case []int64:
		return convertSlice(x), nil
	case []int32:
		return convertSlice(x), nil
	case []int16:
		return convertSlice(x), nil
	case []int8:
		return convertSlice(x), nil
	case []uint8:
		return convertSlice(x), nil
	}
	return nil, fmt.Errorf("value %T is not a numeric vector", v)
}

func convertSlice[T float32 | int64 | int32 | int16 | int8 | uint8](in []T) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}

// asMatrix coerces a 2-D variable to row-major []float64 plus its shape.
func asMatrix(v interface{}) (data []float64, rows, cols int, err error) {
	switch x := v.(type) {
	case [][]float64:
		return flattenMatrix(x)
	case [][]float32:
		return flattenMatrix(x)
	case [][]int64:
		return flattenMatrix(x)
	case [][]int32:
		return flattenMatrix(x)
	case [][]int16:
		return flattenMatrix(x)
	case [][]int8:
		return flattenMatrix(x)
	case [][]uint8:
		return flattenMatrix(x)
	}
	return nil, 0, 0, fmt.Errorf("value %T is not a numeric matrix", v)
}

func flattenMatrix[T float64 | float32 | int64 | int32 | int16 | int8 | uint8](in [][]T) ([]float64, int, int, error) {
	rows := len(in)
	if rows == 0 {
		return nil, 0, 0, fmt.Errorf("matrix has no rows")
	}
	cols := len(in[0])
	out := make([]float64, 0, rows*cols)
	for i, row := range in {
		if len(row) != cols {
			return nil, 0, 0, fmt.Errorf("matrix row %d has %d columns, expected %d", i, len(row), cols)
		}
		for _, v := range row {
			out = append(out, float64(v))
		}
	}
	return out, rows, cols, nil
}

// parseTimeBase interprets a CF-style units string such as
// "seconds since 1970-01-01T00:00:00Z". Unrecognized or absent units fall
// back to seconds since the Unix epoch, which is what IMD files carry.
func parseTimeBase(units string) (base time.Time, unit time.Duration) {
	base, unit = time.Unix(0, 0).UTC(), time.Second
	fields := strings.SplitN(strings.TrimSpace(units), " since ", 2)
	if len(fields) != 2 {
		return base, unit
	}
	switch strings.ToLower(strings.TrimSpace(fields[0])) {
	case "seconds", "second", "s":
		unit = time.Second
	case "milliseconds", "millisecond", "ms":
		unit = time.Millisecond
	case "minutes", "minute":
		unit = time.Minute
	case "hours", "hour":
		unit = time.Hour
	default:
		return base, unit
	}
	stamp := strings.TrimSpace(fields[1])
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, stamp); err == nil {
			return t.UTC(), unit
		}
	}
	return base, unit
}

// decodeTimes converts numeric offsets with a units attribute to timestamps.
func decodeTimes(offsets []float64, units string) []time.Time {
	base, unit := parseTimeBase(units)
	out := make([]time.Time, len(offsets))
	for i, off := range offsets {
		out[i] = base.Add(time.Duration(off * float64(unit)))
	}
	return out
}
