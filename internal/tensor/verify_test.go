package tensor

import (
	"errors"
	"testing"

	"github.com/salehjg/tilemul/internal/mathx"
)

func TestReferenceAgainstBlas(t *testing.T) {
	t.Parallel()
	const n = 24
	A := NewMat(n, n)
	B := NewMat(n, n)
	FillRand(&A, 1)
	FillRand(&B, 2)

	ref := NewMat(n, n)
	Reference(&ref, &A, &B)

	blas := NewMat(n, n)
	mathx.GemmNN(1, A.Data, n, n, B.Data, n, n, 0, blas.Data)

	if err := Verify(&A, &B, &blas, DefaultTolerance(n)); err != nil {
		t.Fatalf("blas product failed verification: %v", err)
	}
	for i := range ref.Data {
		diff := ref.Data[i] - blas.Data[i]
		if diff < 0 {
			diff = -diff
		}
		if diff > DefaultTolerance(n) {
			t.Fatalf("reference and blas disagree at %d: %g vs %g", i, ref.Data[i], blas.Data[i])
		}
	}
}

func TestVerifyAcceptsExactProduct(t *testing.T) {
	t.Parallel()
	A := NewMat(5, 5)
	B := NewMat(5, 5)
	C := NewMat(5, 5)
	FillModSum(&A)
	FillModDiff(&B)
	Reference(&C, &A, &B)
	if err := Verify(&A, &B, &C, 1e-6); err != nil {
		t.Fatalf("exact product rejected: %v", err)
	}
}

func TestVerifyReportsFirstMismatch(t *testing.T) {
	t.Parallel()
	A := NewMat(4, 4)
	B := NewMat(4, 4)
	C := NewMat(4, 4)
	FillModSum(&A)
	FillModDiff(&B)
	Reference(&C, &A, &B)
	C.Set(2, 3, C.At(2, 3)+1)

	err := Verify(&A, &B, &C, 1e-4)
	var mismatch *MismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected MismatchError, got %v", err)
	}
	if mismatch.I != 2 || mismatch.J != 3 {
		t.Fatalf("mismatch at (%d,%d), want (2,3)", mismatch.I, mismatch.J)
	}
}

func TestVerifyDimMismatch(t *testing.T) {
	t.Parallel()
	A := NewMat(4, 4)
	B := NewMat(5, 5)
	C := NewMat(4, 4)
	if err := Verify(&A, &B, &C, 1e-4); err == nil {
		t.Fatal("expected dimension error")
	}
}

func TestDefaultToleranceGrowsWithOrder(t *testing.T) {
	t.Parallel()
	if DefaultTolerance(1) != 1e-4 {
		t.Fatalf("small order tolerance = %g, want 1e-4", DefaultTolerance(1))
	}
	if DefaultTolerance(4096) <= DefaultTolerance(256) {
		t.Fatal("tolerance must grow with order")
	}
}
