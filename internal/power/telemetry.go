package power

import (
	"os"
	"runtime"
	"strconv"
	"strings"
)

// Metrics is one host resource sample attached to worker heartbeats.
type Metrics struct {
	CPUPercent    float64
	MemoryUsedMB  float64
	MemoryTotalMB float64
}

// Sample reads host utilization from /proc. On hosts without /proc all
// fields are zero; heartbeats still flow.
func Sample() Metrics {
	return Metrics{
		CPUPercent:    cpuPercent(),
		MemoryUsedMB:  memUsedMB(),
		MemoryTotalMB: memTotalMB(),
	}
}

// cpuPercent estimates utilization from 1-minute loadavg normalized by
// core count.
func cpuPercent() float64 {
	raw, err := os.ReadFile("/proc/loadavg")
	if err != nil {
		return 0
	}
	fields := strings.Fields(string(raw))
	if len(fields) == 0 {
		return 0
	}
	load, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0
	}
	cpus := float64(runtime.NumCPU())
	if cpus <= 0 {
		cpus = 1
	}
	return clampPercent(load / cpus * 100)
}

func memUsedMB() float64 {
	total, avail := meminfoKB()
	if total <= 0 {
		return 0
	}
	used := total - avail
	if used < 0 {
		used = 0
	}
	return used / 1024
}

func memTotalMB() float64 {
	total, _ := meminfoKB()
	if total <= 0 {
		return 0
	}
	return total / 1024
}

func meminfoKB() (total, available float64) {
	raw, err := os.ReadFile("/proc/meminfo")
	if err != nil {
		return 0, 0
	}
	for _, line := range strings.Split(string(raw), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		switch fields[0] {
		case "MemTotal:":
			total, _ = strconv.ParseFloat(fields[1], 64)
		case "MemAvailable:":
			available, _ = strconv.ParseFloat(fields[1], 64)
		}
	}
	return total, available
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
