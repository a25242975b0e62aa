package device

import (
	"context"
	"strings"
	"testing"

	"github.com/salehjg/tilemul/internal/device/grid"
	"github.com/salehjg/tilemul/internal/tensor"
)

func TestNormalize(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"":     Auto,
		"auto": Auto,
		"GRID": Grid,
		" cpu": CPU,
	}
	for in, want := range cases {
		got, err := Normalize(in)
		if err != nil {
			t.Fatalf("Normalize(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := Normalize("cuda"); err == nil {
		t.Fatal("expected error for unknown device")
	}
}

func TestAvailable(t *testing.T) {
	t.Parallel()
	list := Available()
	if !strings.Contains(list, Grid) || !strings.Contains(list, CPU) {
		t.Fatalf("Available() = %q", list)
	}
}

func TestOpenGrid(t *testing.T) {
	t.Parallel()
	dev, err := Open(Grid, Options{Tile: 8})
	if err != nil {
		t.Fatalf("Open(grid): %v", err)
	}
	defer func() { _ = Close(dev) }()
	if dev.Name() != Grid {
		t.Fatalf("Name() = %q", dev.Name())
	}
}

func TestOpenGridPropagatesConfigError(t *testing.T) {
	t.Parallel()
	if _, err := Open(Grid, Options{Tile: grid.MaxTile + 1}); err == nil {
		t.Fatal("expected config error for explicit grid request")
	}
}

func TestOpenAutoFallsBackToCPU(t *testing.T) {
	t.Parallel()
	dev, err := Open(Auto, Options{Tile: grid.MaxTile + 1})
	if err != nil {
		t.Fatalf("Open(auto): %v", err)
	}
	defer func() { _ = Close(dev) }()
	if dev.Name() != CPU {
		t.Fatalf("expected cpu fallback, got %q", dev.Name())
	}
}

func TestOpenedDevicesAgree(t *testing.T) {
	t.Parallel()
	const n = 12
	A := tensor.NewMat(n, n)
	B := tensor.NewMat(n, n)
	tensor.FillRand(&A, 1)
	tensor.FillRand(&B, 2)

	results := map[string]tensor.Mat{}
	for _, name := range []string{Grid, CPU} {
		dev, err := Open(name, Options{Tile: 5})
		if err != nil {
			t.Fatalf("Open(%s): %v", name, err)
		}
		C := tensor.NewMat(n, n)
		if err := dev.Multiply(context.Background(), &C, &A, &B); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		_ = Close(dev)
		results[name] = C
	}

	tol := tensor.DefaultTolerance(n)
	gridC, cpuC := results[Grid], results[CPU]
	for i := range gridC.Data {
		diff := gridC.Data[i] - cpuC.Data[i]
		if diff < 0 {
			diff = -diff
		}
		if diff > tol {
			t.Fatalf("devices disagree at %d: grid=%g cpu=%g", i, gridC.Data[i], cpuC.Data[i])
		}
	}
}

func TestHost(t *testing.T) {
	t.Parallel()
	info := Host()
	if info.CPUs < 1 || info.MaxProcs < 1 {
		t.Fatalf("implausible host info: %+v", info)
	}
	if info.OS == "" || info.Arch == "" {
		t.Fatalf("missing os/arch: %+v", info)
	}
}
