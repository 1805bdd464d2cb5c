package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/radar-volume-gridder/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	Grid     domain.GridSpec
	DataVars string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where unset. Grid bounds are given as "lower,upper" pairs in meters
// relative to the radar site (altitude above sea level for Z).
func Load() (*Config, error) {
	spec := domain.DefaultGridSpec()

	var err error
	if spec.XLim, err = parsePair("GRID_X_LIM", spec.XLim); err != nil {
		return nil, err
	}
	if spec.YLim, err = parsePair("GRID_Y_LIM", spec.YLim); err != nil {
		return nil, err
	}
	if spec.ZLim, err = parsePair("GRID_Z_LIM", spec.ZLim); err != nil {
		return nil, err
	}
	if spec.XStep, err = parseFloat("GRID_X_STEP", spec.XStep); err != nil {
		return nil, err
	}
	if spec.YStep, err = parseFloat("GRID_Y_STEP", spec.YStep); err != nil {
		return nil, err
	}
	if spec.ZStep, err = parseFloat("GRID_Z_STEP", spec.ZStep); err != nil {
		return nil, err
	}
	if spec.SmoothX, err = parseFloat("SMOOTH_X", spec.SmoothX); err != nil {
		return nil, err
	}
	if spec.SmoothY, err = parseFloat("SMOOTH_Y", spec.SmoothY); err != nil {
		return nil, err
	}
	if spec.SmoothZ, err = parseFloat("SMOOTH_Z", spec.SmoothZ); err != nil {
		return nil, err
	}
	if spec.MaxDist, err = parseFloat("MAX_INTERP_RADIUS", spec.MaxDist); err != nil {
		return nil, err
	}
	if spec.PseudoCappi, err = parseBool("PSEUDO_CAPPI", spec.PseudoCappi); err != nil {
		return nil, err
	}

	dataVars := envOrDefault("DATA_VARS", domain.AllVariables)
	if dataVars != domain.AllVariables {
		for _, v := range strings.Split(dataVars, ",") {
			if name := strings.TrimSpace(v); name != "" {
				spec.DataVars = append(spec.DataVars, name)
			}
		}
		if len(spec.DataVars) == 0 {
			return nil, errors.New("DATA_VARS is set but names no variables")
		}
	}

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Grid:            spec,
		DataVars:        dataVars,
		HTTPAddr:        os.Getenv("HTTP_ADDR"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
	}

	if err := cfg.Grid.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return v, nil
}

func parsePair(key string, def [2]float64) ([2]float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return [2]float64{}, fmt.Errorf("invalid %s: %q (want \"lower,upper\")", key, s)
	}
	var out [2]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return [2]float64{}, fmt.Errorf("invalid %s: %q", key, s)
		}
		out[i] = v
	}
	return out, nil
}

func parseBool(key string, def bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %q", key, s)
	}
	return v, nil
}

func parseDuration(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}
