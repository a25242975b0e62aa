package bench

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestSweep(t *testing.T) {
	t.Parallel()
	report, err := Sweep(context.Background(), Options{
		N:      16,
		Tiles:  []int{2, 4},
		Warmup: 1,
		Runs:   3,
		Device: "grid",
	})
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if len(report.Samples) != 6 {
		t.Fatalf("samples = %d, want 6", len(report.Samples))
	}
	if len(report.Stats) != 2 {
		t.Fatalf("stats = %d, want 2", len(report.Stats))
	}
	for _, st := range report.Stats {
		if st.MeanSeconds <= 0 || st.MinSeconds <= 0 {
			t.Fatalf("implausible stats: %+v", st)
		}
		if st.MinSeconds > st.MeanSeconds {
			t.Fatalf("min above mean: %+v", st)
		}
	}
	if report.Device != "grid" {
		t.Fatalf("device = %q", report.Device)
	}
}

func TestSweepValidation(t *testing.T) {
	t.Parallel()
	if _, err := Sweep(context.Background(), Options{N: 0, Tiles: []int{2}}); err == nil {
		t.Fatal("expected error for order 0")
	}
	if _, err := Sweep(context.Background(), Options{N: 8}); err == nil {
		t.Fatal("expected error for empty tile list")
	}
	if _, err := Sweep(context.Background(), Options{N: 8, Tiles: []int{4}, Device: "bogus"}); err == nil {
		t.Fatal("expected error for unknown device")
	}
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()
	report := &Report{
		Samples: []Sample{
			{Tile: 4, Run: 1, Seconds: 0.25, GFLOPS: 1.5},
			{Tile: 4, Run: 2, Seconds: 0.5, GFLOPS: 0.75},
		},
	}
	var buf bytes.Buffer
	if err := report.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want header plus 2 records: %q", len(lines), buf.String())
	}
	if lines[0] != "tile,run,seconds,gflops" {
		t.Fatalf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "4,1,0.25,") {
		t.Fatalf("record = %q", lines[1])
	}
}
