package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/salehjg/tilemul/internal/bench"
)

func benchmarkCmd() *cli.Command {
	var (
		tilesSpec  string
		warmupRuns int64
		benchRuns  int64
		csvPath    string
	)

	flags := append([]cli.Flag{}, commonDeviceFlags()...)
	flags = append(flags, loggingFlags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "tiles",
			Usage:       "comma-separated tile widths to sweep",
			Value:       "2,4,8,16,32",
			Destination: &tilesSpec,
		},
		&cli.Int64Flag{
			Name:        "warmup",
			Usage:       "number of warmup runs per tile",
			Value:       1,
			Destination: &warmupRuns,
		},
		&cli.Int64Flag{
			Name:        "runs",
			Usage:       "number of measured runs per tile",
			Value:       5,
			Destination: &benchRuns,
		},
		&cli.StringFlag{
			Name:        "csv",
			Usage:       "write per-run samples to a CSV file",
			Destination: &csvPath,
		},
	)

	return &cli.Command{
		Name:  "benchmark",
		Usage: "Sweep tile widths and report timing statistics",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyDeviceConfig(cmd, LoadConfig())
			log := newLog()

			tiles, err := parseTiles(tilesSpec)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			fmt.Println("=== tilemul benchmark ===")
			fmt.Printf("N:        %d\n", order)
			fmt.Printf("Tiles:    %v\n", tiles)
			fmt.Printf("Device:   %s\n", deviceName)
			fmt.Printf("CPUs:     %d\n", runtime.NumCPU())
			fmt.Printf("GOMAXPROCS: %d\n", runtime.GOMAXPROCS(0))
			fmt.Printf("Warmup:   %d runs\n", warmupRuns)
			fmt.Printf("Runs:     %d\n", benchRuns)
			fmt.Println()

			start := time.Now()
			report, err := bench.Sweep(ctx, bench.Options{
				N:       int(order),
				Tiles:   tiles,
				Warmup:  int(warmupRuns),
				Runs:    int(benchRuns),
				Device:  deviceName,
				Lanes:   int(lanes),
				Workers: int(workers),
				Log:     log,
			})
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: sweep: %v", err), 1)
			}

			fmt.Println("=== Results ===")
			fmt.Printf("%-6s %12s %12s %12s %10s\n", "Tile", "Mean", "Min", "Stddev", "GFLOP/s")
			fmt.Printf("%-6s %12s %12s %12s %10s\n", "----", "sec", "sec", "sec", "")
			for _, st := range report.Stats {
				fmt.Printf("%-6d %12.6f %12.6f %12.6f %10.2f\n",
					st.Tile, st.MeanSeconds, st.MinSeconds, st.StddevSeconds, st.MeanGFLOPS)
			}
			fmt.Printf("\nTotal: %s on %s\n", time.Since(start).Round(time.Millisecond), report.Device)

			if csvPath != "" {
				f, err := os.Create(csvPath)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: create csv: %v", err), 1)
				}
				defer func() { _ = f.Close() }()
				if err := report.WriteCSV(f); err != nil {
					return cli.Exit(fmt.Sprintf("error: write csv: %v", err), 1)
				}
				log.Info("wrote samples", "path", csvPath, "samples", len(report.Samples))
			}
			return nil
		},
	}
}

func parseTiles(spec string) ([]int, error) {
	parts := strings.Split(spec, ",")
	tiles := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("invalid tile width %q", p)
		}
		tiles = append(tiles, v)
	}
	if len(tiles) == 0 {
		return nil, fmt.Errorf("no tile widths in %q", spec)
	}
	return tiles, nil
}
