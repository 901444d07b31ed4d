package bridge

import (
	"runtime"
	"time"
)

// HealthSnapshot is the payload of the __health command.
type HealthSnapshot struct {
	Status     string      `json:"status"`
	Uptime     string      `json:"uptime"`
	Commands   []string    `json:"commands"`
	Goroutines int         `json:"goroutines"`
	Memory     MemoryInfo  `json:"memory"`
	Runtime    RuntimeInfo `json:"runtime"`
	Timestamp  string      `json:"timestamp"`
}

// MemoryInfo summarizes runtime memory statistics.
type MemoryInfo struct {
	AllocMB      float64 `json:"allocMB"`
	TotalAllocMB float64 `json:"totalAllocMB"`
	SysMB        float64 `json:"sysMB"`
	NumGC        uint32  `json:"numGC"`
}

// RuntimeInfo describes the Go runtime serving the bridge.
type RuntimeInfo struct {
	Version string `json:"version"`
	OS      string `json:"os"`
	Arch    string `json:"arch"`
	CPUs    int    `json:"cpus"`
}

// CollectHealth returns a health snapshot for the current process.
func CollectHealth(started time.Time, commands []string) HealthSnapshot {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return HealthSnapshot{
		Status:     "healthy",
		Uptime:     time.Since(started).Round(time.Second).String(),
		Commands:   commands,
		Goroutines: runtime.NumGoroutine(),
		Memory: MemoryInfo{
			AllocMB:      float64(mem.Alloc) / 1024 / 1024,
			TotalAllocMB: float64(mem.TotalAlloc) / 1024 / 1024,
			SysMB:        float64(mem.Sys) / 1024 / 1024,
			NumGC:        mem.NumGC,
		},
		Runtime: RuntimeInfo{
			Version: runtime.Version(),
			OS:      runtime.GOOS,
			Arch:    runtime.GOARCH,
			CPUs:    runtime.NumCPU(),
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}
