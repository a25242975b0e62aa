// Package grid implements the tiled matrix-multiply kernel on a simulated
// accelerator: a 2-D grid of equal-sized workgroups, one per output tile.
// Each group stages TILE x TILE sub-blocks of the inputs into group-local
// scratch memory, synchronises at a barrier, and accumulates one slice of
// the shared dimension per phase. Matrix orders that are not a multiple of
// the tile width are handled by clamping out-of-range reads to zero and
// skipping out-of-range writes.
package grid

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/salehjg/tilemul/internal/tensor"
)

// MaxTile bounds the tile width so that per-worker scratch (two tiles plus
// the accumulator slab) stays within a fixed footprint.
const MaxTile = 128

// DefaultTile matches the compile-time tile width of the reference kernel.
const DefaultTile = 16

var (
	ErrTileRange   = fmt.Errorf("tile width out of range [1,%d]", MaxTile)
	ErrLaneRange   = errors.New("lanes must be at least 1 and at most the tile width")
	ErrDimMismatch = errors.New("matrices must be square and of equal order")
)

// Config describes a grid device.
type Config struct {
	// Tile is the tile width T. It need not divide the matrix order.
	Tile int
	// Workers is the size of the group scheduling pool.
	// Zero means GOMAXPROCS.
	Workers int
	// Lanes is the number of cooperating goroutines per workgroup, each
	// owning a stripe of tile rows and meeting the others at the barrier.
	// Zero means 1, which runs the group state machine inline.
	Lanes int
}

func (c Config) withDefaults() Config {
	if c.Tile == 0 {
		c.Tile = DefaultTile
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.Lanes <= 0 {
		c.Lanes = 1
	}
	return c
}

func (c Config) validate() error {
	if c.Tile < 1 || c.Tile > MaxTile {
		return fmt.Errorf("%w: got %d", ErrTileRange, c.Tile)
	}
	if c.Lanes < 1 || c.Lanes > c.Tile {
		return fmt.Errorf("%w: got %d lanes for tile %d", ErrLaneRange, c.Lanes, c.Tile)
	}
	return nil
}

// Params is the launch geometry derived from a matrix order and tile width.
type Params struct {
	N      int // matrix order
	Tile   int // tile width T
	Groups int // workgroups per grid dimension, ceil(N/T)
	Phases int // reduction steps along the shared dimension, ceil(N/T)
	Extent int // padded global extent per dimension, Groups*T
}

// DeriveParams computes the launch geometry for an order-n multiply with
// tile width tile. The grid is always exactly tileable: border groups run
// with full tiles and mask invalid global accesses.
func DeriveParams(n, tile int) (Params, error) {
	if n < 1 {
		return Params{}, fmt.Errorf("matrix order must be positive, got %d", n)
	}
	if tile < 1 || tile > MaxTile {
		return Params{}, fmt.Errorf("%w: got %d", ErrTileRange, tile)
	}
	groups := ceilDiv(n, tile)
	return Params{
		N:      n,
		Tile:   tile,
		Groups: groups,
		Phases: groups,
		Extent: groups * tile,
	}, nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// Device executes tiled multiplies on a pool of workers. Workgroups are
// scheduled onto the pool in no particular order and never communicate;
// all synchronisation happens inside a group.
//
// A Device owns its pool; Close releases the workers.
type Device struct {
	cfg  Config
	pool *groupPool

	closeOnce sync.Once
}

// New creates a grid device with the given configuration.
func New(cfg Config) (*Device, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Device{
		cfg:  cfg,
		pool: newGroupPool(cfg.Workers),
	}, nil
}

// Name implements device naming for selection and reporting.
func (d *Device) Name() string {
	return "grid"
}

// Tile returns the configured tile width.
func (d *Device) Tile() int {
	return d.cfg.Tile
}

// Close shuts down the worker pool. Multiply must not be called after Close.
func (d *Device) Close() error {
	d.closeOnce.Do(func() {
		close(d.pool.tasks)
	})
	return nil
}

// Multiply computes C = A*B, blocking until C is fully populated.
//
// A, B and C must be square matrices of equal order. C need not be
// pre-zeroed: every in-range element is written exactly once. The context is
// observed only before launch; once the grid is running the invocation
// cannot be cancelled and either completes fully or (on setup error) never
// starts.
func (d *Device) Multiply(ctx context.Context, C, A, B *tensor.Mat) error {
	n, err := checkSquare(C, A, B)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := DeriveParams(n, d.cfg.Tile)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	wg.Add(p.Groups * p.Groups)
	for gy := 0; gy < p.Groups; gy++ {
		for gx := 0; gx < p.Groups; gx++ {
			d.pool.tasks <- groupTask{
				params:  p,
				a:       A.Data,
				b:       B.Data,
				c:       C.Data,
				aStride: A.Stride,
				bStride: B.Stride,
				cStride: C.Stride,
				gy:      gy,
				gx:      gx,
				lanes:   d.cfg.Lanes,
				wg:      &wg,
			}
		}
	}
	wg.Wait()
	return nil
}

func checkSquare(C, A, B *tensor.Mat) (int, error) {
	n := A.R
	if !A.Square() || !B.Square() || !C.Square() || B.R != n || C.R != n {
		return 0, fmt.Errorf("%w: A %dx%d, B %dx%d, C %dx%d",
			ErrDimMismatch, A.R, A.C, B.R, B.C, C.R, C.C)
	}
	return n, nil
}

type groupTask struct {
	params                    Params
	a, b, c                   []float32
	aStride, bStride, cStride int
	gy, gx                    int
	lanes                     int
	wg                        *sync.WaitGroup
}

// groupPool schedules workgroups onto a fixed set of workers. Each worker
// owns one reusable scratch slab sized for MaxTile so steady-state
// multiplies do not allocate.
type groupPool struct {
	size  int
	tasks chan groupTask
}

func newGroupPool(size int) *groupPool {
	if size < 1 {
		size = 1
	}
	p := &groupPool{
		size:  size,
		tasks: make(chan groupTask, size*2),
	}
	for w := 0; w < size; w++ {
		s := newScratch()
		go func(s *scratch) {
			for task := range p.tasks {
				runGroup(task, s)
				task.wg.Done()
			}
		}(s)
	}
	return p
}
