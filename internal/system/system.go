// Package system reports host resources and locates external tools.
package system

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// DefaultWorkers is the number of logical CPUs, used when no worker count
// is configured.
func DefaultWorkers() int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		return runtime.NumCPU()
	}
	return n
}

// Host summarizes the machine for the startup log.
type Host struct {
	CPUs        int
	TotalMemory uint64
	FreeMemory  uint64
}

func DescribeHost() Host {
	h := Host{CPUs: DefaultWorkers()}
	if vm, err := mem.VirtualMemory(); err == nil {
		h.TotalMemory = vm.Total
		h.FreeMemory = vm.Available
	}
	return h
}

// LookupFFmpeg resolves the ffmpeg binary on PATH, or checks an explicit path.
func LookupFFmpeg(binary string) (string, error) {
	if binary == "" {
		binary = "ffmpeg"
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return "", fmt.Errorf("ffmpeg not found (%s): %w", binary, err)
	}
	return path, nil
}
