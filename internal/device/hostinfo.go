package device

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// HostInfo describes the host the devices run on. Feature flags cover the
// vector extensions relevant to float32 throughput on the current
// architecture.
type HostInfo struct {
	OS       string          `json:"os"`
	Arch     string          `json:"arch"`
	CPUs     int             `json:"cpus"`
	MaxProcs int             `json:"maxprocs"`
	Features map[string]bool `json:"features"`
}

// Host probes the current host.
func Host() HostInfo {
	features := map[string]bool{}
	switch runtime.GOARCH {
	case "amd64", "386":
		features["AVX"] = cpu.X86.HasAVX
		features["AVX2"] = cpu.X86.HasAVX2
		features["FMA"] = cpu.X86.HasFMA
		features["AVX512F"] = cpu.X86.HasAVX512F
		features["AVX512VNNI"] = cpu.X86.HasAVX512VNNI
	case "arm64":
		features["ASIMD"] = cpu.ARM64.HasASIMD
		features["FP"] = cpu.ARM64.HasFP
		features["ATOMICS"] = cpu.ARM64.HasATOMICS
	}
	return HostInfo{
		OS:       runtime.GOOS,
		Arch:     runtime.GOARCH,
		CPUs:     runtime.NumCPU(),
		MaxProcs: runtime.GOMAXPROCS(0),
		Features: features,
	}
}
