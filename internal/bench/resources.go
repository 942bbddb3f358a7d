package bench

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	"k8s.io/klog/v2"
)

type cpuUsage struct {
	userMs   float64
	systemMs float64
}

type memorySnapshot struct {
	rssKb      int64
	heapUsedKb int64
}

var errNoResident = errors.New("no VmRSS line")

// processCPU reports the user and system time consumed by this process.
func processCPU() (cpuUsage, error) {
	var ru syscall.Rusage
	if err := syscall.Getrusage(syscall.RUSAGE_SELF, &ru); err != nil {
		return cpuUsage{}, fmt.Errorf("getrusage: %w", err)
	}
	return cpuUsage{
		userMs:   float64(ru.Utime.Nano()) / 1e6,
		systemMs: float64(ru.Stime.Nano()) / 1e6,
	}, nil
}

// takeCPU is processCPU with failures reported as zero usage.
func takeCPU() cpuUsage {
	usage, err := processCPU()
	if err != nil {
		klog.V(2).InfoS("CPU usage unavailable", "err", err)
	}
	return usage
}

func diffCPU(before, after cpuUsage) cpuUsage {
	return cpuUsage{
		userMs:   after.userMs - before.userMs,
		systemMs: after.systemMs - before.systemMs,
	}
}

// parseResidentKb extracts VmRSS, in kB, from a procfs status document.
func parseResidentKb(r io.Reader) (int64, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		value, ok := strings.CutPrefix(scanner.Text(), "VmRSS:")
		if !ok {
			continue
		}
		fields := strings.Fields(value)
		if len(fields) == 0 {
			return 0, fmt.Errorf("VmRSS: %w", errNoResident)
		}
		kb, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("VmRSS %q: %w", fields[0], err)
		}
		return kb, nil
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	return 0, errNoResident
}

func residentKb() (int64, error) {
	f, err := os.Open("/proc/self/status")
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return parseResidentKb(f)
}

func takeMemory() memorySnapshot {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	rss, err := residentKb()
	if err != nil {
		klog.V(2).InfoS("Resident set size unavailable", "err", err)
	}
	return memorySnapshot{
		rssKb:      rss,
		heapUsedKb: int64(ms.HeapAlloc / 1024),
	}
}

func peakMemory(a, b memorySnapshot) memorySnapshot {
	return memorySnapshot{
		rssKb:      max(a.rssKb, b.rssKb),
		heapUsedKb: max(a.heapUsedKb, b.heapUsedKb),
	}
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
