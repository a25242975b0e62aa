// Package device selects and opens compute devices for tiled multiplies.
package device

import (
	"context"
	"fmt"
	"strings"

	"github.com/salehjg/tilemul/internal/device/blas"
	"github.com/salehjg/tilemul/internal/device/grid"
	"github.com/salehjg/tilemul/internal/logger"
	"github.com/salehjg/tilemul/internal/tensor"
)

const (
	Grid = "grid"
	CPU  = "cpu"
	Auto = "auto"
)

// Device is a compute device that can multiply two square matrices into a
// caller-owned output buffer. Multiply blocks until the output is complete.
type Device interface {
	Name() string
	Multiply(ctx context.Context, C, A, B *tensor.Mat) error
}

// Closer is implemented by devices that own resources beyond the call.
type Closer interface {
	Close() error
}

// Options configures the device being opened. Zero values select defaults.
type Options struct {
	Tile    int
	Workers int
	Lanes   int
	Logger  logger.Logger
}

// Normalize canonicalises a device name. An empty name means Auto.
func Normalize(name string) (string, error) {
	dev := strings.ToLower(strings.TrimSpace(name))
	if dev == "" {
		return Auto, nil
	}
	switch dev {
	case Grid, CPU, Auto:
		return dev, nil
	default:
		return "", fmt.Errorf("unknown device %q (expected auto, grid, or cpu)", dev)
	}
}

// Available returns a comma-separated list of available devices.
func Available() string {
	return strings.Join([]string{Grid, CPU}, ",")
}

// Open opens the named device. Auto prefers the grid device and falls back
// to the cpu device with a warning when the grid configuration is not
// supported; explicitly requesting grid propagates the error instead.
func Open(name string, opts Options) (Device, error) {
	dev, err := Normalize(name)
	if err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}

	switch dev {
	case CPU:
		return blas.New(), nil
	case Grid:
		return newGrid(opts)
	default: // Auto
		g, err := newGrid(opts)
		if err != nil {
			log.Warn("grid device unavailable, falling back to cpu", "error", err)
			return blas.New(), nil
		}
		return g, nil
	}
}

func newGrid(opts Options) (*grid.Device, error) {
	return grid.New(grid.Config{
		Tile:    opts.Tile,
		Workers: opts.Workers,
		Lanes:   opts.Lanes,
	})
}

// Close closes dev if it owns resources.
func Close(dev Device) error {
	if c, ok := dev.(Closer); ok {
		return c.Close()
	}
	return nil
}
