package blas

import (
	"context"
	"testing"

	"github.com/salehjg/tilemul/internal/tensor"
)

func TestMultiplyMatchesReference(t *testing.T) {
	t.Parallel()
	const n = 17
	A := tensor.NewMat(n, n)
	B := tensor.NewMat(n, n)
	C := tensor.NewMat(n, n)
	tensor.FillRand(&A, 1)
	tensor.FillRand(&B, 2)

	if err := New().Multiply(context.Background(), &C, &A, &B); err != nil {
		t.Fatalf("Multiply: %v", err)
	}
	if err := tensor.Verify(&A, &B, &C, tensor.DefaultTolerance(n)); err != nil {
		t.Fatalf("verification failed: %v", err)
	}
}

func TestMultiplyRejectsDimMismatch(t *testing.T) {
	t.Parallel()
	A := tensor.NewMat(4, 4)
	B := tensor.NewMat(5, 5)
	C := tensor.NewMat(4, 4)
	if err := New().Multiply(context.Background(), &C, &A, &B); err == nil {
		t.Fatal("expected dimension mismatch error")
	}
}

func TestName(t *testing.T) {
	t.Parallel()
	if got := New().Name(); got != "cpu" {
		t.Fatalf("Name() = %q", got)
	}
}
