package tensor

import (
	"fmt"

	"github.com/chewxy/math32"
)

// MismatchError reports the first element of a computed product that differs
// from the scalar reference by more than the allowed tolerance.
type MismatchError struct {
	I, J int
	Got  float32
	Want float32
	Tol  float32
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("mismatch at (%d, %d): C=%g ref=%g tol=%g", e.I, e.J, e.Got, e.Want, e.Tol)
}

// Reference computes C = A*B with the scalar triple loop. It is the
// verification oracle for the tiled kernel and makes no attempt at speed.
func Reference(C, A, B *Mat) {
	if A.C != B.R || C.R != A.R || C.C != B.C {
		panic("reference: dimension mismatch")
	}
	for i := 0; i < A.R; i++ {
		aRow := A.Row(i)
		cRow := C.Row(i)
		for j := 0; j < B.C; j++ {
			var sum float32
			for k := 0; k < A.C; k++ {
				sum += aRow[k] * B.Data[k*B.Stride+j]
			}
			cRow[j] = sum
		}
	}
}

// Verify checks C against the scalar reference product of A and B within an
// absolute tolerance. It returns nil when every element is within tol and a
// *MismatchError describing the first offending element otherwise.
//
// Verification is advisory: callers report the result, they do not abort on
// it. Tolerance must absorb accumulation-order differences between the tiled
// kernel and the reference sum.
func Verify(A, B, C *Mat, tol float32) error {
	if A.C != B.R || C.R != A.R || C.C != B.C {
		return fmt.Errorf("verify: dimension mismatch: A %dx%d, B %dx%d, C %dx%d",
			A.R, A.C, B.R, B.C, C.R, C.C)
	}
	for i := 0; i < A.R; i++ {
		aRow := A.Row(i)
		cRow := C.Row(i)
		for j := 0; j < B.C; j++ {
			var ref float32
			for k := 0; k < A.C; k++ {
				ref += aRow[k] * B.Data[k*B.Stride+j]
			}
			if math32.Abs(cRow[j]-ref) > tol {
				return &MismatchError{I: i, J: j, Got: cRow[j], Want: ref, Tol: tol}
			}
		}
	}
	return nil
}

// DefaultTolerance returns an absolute tolerance suitable for comparing two
// float32 products of order n computed with different accumulation orders.
func DefaultTolerance(n int) float32 {
	tol := 1e-4 * float32(n) / 256
	if tol < 1e-4 {
		tol = 1e-4
	}
	return tol
}
