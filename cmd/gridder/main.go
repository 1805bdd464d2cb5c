package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/couchcryptid/radar-volume-gridder/internal/adapter/httpserv"
	ncadapter "github.com/couchcryptid/radar-volume-gridder/internal/adapter/netcdf"
	"github.com/couchcryptid/radar-volume-gridder/internal/config"
	"github.com/couchcryptid/radar-volume-gridder/internal/grid"
	"github.com/couchcryptid/radar-volume-gridder/internal/observability"
	"github.com/couchcryptid/radar-volume-gridder/internal/pipeline"
	"github.com/couchcryptid/radar-volume-gridder/internal/volume"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	paths, err := collectSweepFiles(os.Args[1:])
	if err != nil {
		logger.Error("failed to list input files", "error", err)
		os.Exit(1)
	}
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "usage: gridder <sweep-file-or-directory> ...")
		os.Exit(2)
	}

	reader := ncadapter.NewReader(logger)
	grouper := volume.NewGrouper(reader, logger)
	assembler := volume.NewAssembler(logger)
	gridder, err := grid.NewGridder(cfg.Grid, logger)
	if err != nil {
		logger.Error("invalid grid configuration", "error", err)
		os.Exit(1)
	}

	p := pipeline.New(reader, grouper, assembler, gridder, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The HTTP endpoints are optional for batch runs; set HTTP_ADDR to
	// expose /healthz, /readyz, and /metrics while the batch is processed.
	var srv *httpserv.Server
	if cfg.HTTPAddr != "" {
		srv = httpserv.NewServer(cfg.HTTPAddr, p, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}

	products, err := p.Run(ctx, paths)
	if err != nil {
		logger.Error("pipeline error", "error", err)
	}
	for _, product := range products {
		logger.Info("gridded product",
			"time", product.Time,
			"variables", strings.Join(fieldNames(product.Fields), ","),
			"nx", product.NX(), "ny", product.NY(), "nz", product.NZ(),
			"radar", product.Attrs["radar_name"])
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
	}

	if err != nil {
		os.Exit(1)
	}
	logger.Info("batch complete", "volumes", len(products))
}

// collectSweepFiles expands each argument into sweep file paths. A directory
// contributes its immediate .nc entries; anything else is taken as a file.
func collectSweepFiles(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if strings.EqualFold(filepath.Ext(entry.Name()), ".nc") {
				paths = append(paths, filepath.Join(arg, entry.Name()))
			}
		}
	}
	return paths, nil
}

func fieldNames(fields map[string][]float64) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	return names
}
