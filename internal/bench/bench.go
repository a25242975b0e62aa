// Package bench sweeps tile widths over repeated multiplies and reports
// per-tile timing statistics.
package bench

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/salehjg/tilemul/internal/device"
	"github.com/salehjg/tilemul/internal/logger"
	"github.com/salehjg/tilemul/internal/tensor"
)

var ErrNoTiles = errors.New("bench: at least one tile width is required")

// Options configures a sweep.
type Options struct {
	// N is the matrix order.
	N int
	// Tiles are the tile widths to sweep.
	Tiles []int
	// Warmup is the number of unmeasured runs per tile.
	Warmup int
	// Runs is the number of measured runs per tile.
	Runs int
	// Device is the device name (auto, grid, cpu).
	Device string
	// Lanes and Workers are passed through to the grid device.
	Lanes   int
	Workers int

	Log logger.Logger
}

// Sample is one measured run.
type Sample struct {
	Tile    int
	Run     int
	Seconds float64
	GFLOPS  float64
}

// TileStats summarises the measured runs for one tile width.
type TileStats struct {
	Tile          int
	MeanSeconds   float64
	MinSeconds    float64
	StddevSeconds float64
	MeanGFLOPS    float64
}

// Report is the result of a sweep.
type Report struct {
	N       int
	Device  string
	Samples []Sample
	Stats   []TileStats
}

// Sweep runs warmup plus measured repetitions for every tile width. The
// inputs are built once with the standard test patterns; every measured run
// writes into a fresh output buffer so runs are independent.
func Sweep(ctx context.Context, opts Options) (*Report, error) {
	if opts.N < 1 {
		return nil, fmt.Errorf("bench: matrix order must be positive, got %d", opts.N)
	}
	if len(opts.Tiles) == 0 {
		return nil, ErrNoTiles
	}
	if opts.Runs < 1 {
		opts.Runs = 1
	}
	log := opts.Log
	if log == nil {
		log = logger.Default()
	}

	A := tensor.NewMat(opts.N, opts.N)
	B := tensor.NewMat(opts.N, opts.N)
	tensor.FillModSum(&A)
	tensor.FillModDiff(&B)

	flops := 2 * float64(opts.N) * float64(opts.N) * float64(opts.N)
	report := &Report{N: opts.N}

	for _, tile := range opts.Tiles {
		dev, err := device.Open(opts.Device, device.Options{
			Tile:    tile,
			Workers: opts.Workers,
			Lanes:   opts.Lanes,
			Logger:  log,
		})
		if err != nil {
			return nil, fmt.Errorf("bench: open device for tile %d: %w", tile, err)
		}
		report.Device = dev.Name()
		log.Info("sweeping tile", "tile", tile, "device", dev.Name(), "n", opts.N)

		runs := make([]float64, 0, opts.Runs)
		for i := 0; i < opts.Warmup; i++ {
			C := tensor.NewMat(opts.N, opts.N)
			if err := dev.Multiply(ctx, &C, &A, &B); err != nil {
				_ = device.Close(dev)
				return nil, fmt.Errorf("bench: warmup tile %d: %w", tile, err)
			}
		}
		for i := 0; i < opts.Runs; i++ {
			C := tensor.NewMat(opts.N, opts.N)
			start := time.Now()
			err := dev.Multiply(ctx, &C, &A, &B)
			elapsed := time.Since(start).Seconds()
			if err != nil {
				_ = device.Close(dev)
				return nil, fmt.Errorf("bench: run %d tile %d: %w", i+1, tile, err)
			}
			runs = append(runs, elapsed)
			report.Samples = append(report.Samples, Sample{
				Tile:    tile,
				Run:     i + 1,
				Seconds: elapsed,
				GFLOPS:  flops / elapsed / 1e9,
			})
		}
		_ = device.Close(dev)

		report.Stats = append(report.Stats, summarize(tile, runs, flops))
	}
	return report, nil
}

func summarize(tile int, runs []float64, flops float64) TileStats {
	mean := 0.0
	minSec := math.Inf(1)
	for _, s := range runs {
		mean += s
		if s < minSec {
			minSec = s
		}
	}
	mean /= float64(len(runs))

	stddev := 0.0
	if len(runs) > 1 {
		for _, s := range runs {
			d := s - mean
			stddev += d * d
		}
		stddev = math.Sqrt(stddev / float64(len(runs)-1))
	}

	return TileStats{
		Tile:          tile,
		MeanSeconds:   mean,
		MinSeconds:    minSec,
		StddevSeconds: stddev,
		MeanGFLOPS:    flops / mean / 1e9,
	}
}

// WriteCSV emits one record per measured run: tile,run,seconds,gflops.
func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"tile", "run", "seconds", "gflops"}); err != nil {
		return err
	}
	for _, s := range r.Samples {
		rec := []string{
			strconv.Itoa(s.Tile),
			strconv.Itoa(s.Run),
			strconv.FormatFloat(s.Seconds, 'g', -1, 64),
			strconv.FormatFloat(s.GFLOPS, 'g', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
