// Package blas provides the fallback CPU device. It computes the whole
// product in one BLAS call instead of staging tiles, and exists so that a
// multiply still runs when the grid device cannot be configured.
package blas

import (
	"context"
	"errors"
	"fmt"

	"github.com/salehjg/tilemul/internal/mathx"
	"github.com/salehjg/tilemul/internal/tensor"
)

var ErrDimMismatch = errors.New("matrices must be square and of equal order")

type Device struct{}

func New() *Device {
	return &Device{}
}

func (d *Device) Name() string {
	return "cpu"
}

// Multiply computes C = A*B through blas32. Blocking; C is fully populated
// on return.
func (d *Device) Multiply(ctx context.Context, C, A, B *tensor.Mat) error {
	n := A.R
	if !A.Square() || !B.Square() || !C.Square() || B.R != n || C.R != n {
		return fmt.Errorf("%w: A %dx%d, B %dx%d, C %dx%d",
			ErrDimMismatch, A.R, A.C, B.R, B.C, C.R, C.C)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	mathx.GemmNN(1, A.Data, n, n, B.Data, n, n, 0, C.Data)
	return nil
}
