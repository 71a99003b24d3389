package services

import (
	"context"
	"os"
	"time"

	"viralhub-backend-go/internal/storage"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

type HostSample struct {
	CapturedAt        time.Time `json:"capturedAt"`
	ProcessRSSBytes   int64     `json:"processRssBytes"`
	SystemMemoryTotal int64     `json:"systemMemoryTotalBytes"`
	SystemMemoryUsed  int64     `json:"systemMemoryUsedBytes"`
	ProcessCpuLoad    float64   `json:"processCpuLoad"`
	SystemCpuLoad     float64   `json:"systemCpuLoad"`
}

type HealthReport struct {
	Status   string     `json:"status"`
	Database string     `json:"database"`
	MockMode bool       `json:"mockMode"`
	Host     HostSample `json:"host"`
}

// CaptureHost samples process and system load. Probes that fail leave their
// fields at zero.
func CaptureHost() HostSample {
	sample := HostSample{CapturedAt: time.Now().UTC()}
	if memStat, err := mem.VirtualMemory(); err == nil && memStat != nil {
		sample.SystemMemoryTotal = int64(memStat.Total)
		sample.SystemMemoryUsed = int64(memStat.Total - memStat.Available)
	}
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil && proc != nil {
		if rss, err := proc.MemoryInfo(); err == nil && rss != nil {
			sample.ProcessRSSBytes = int64(rss.RSS)
		}
		if cpuPerc, err := proc.CPUPercent(); err == nil {
			sample.ProcessCpuLoad = cpuPerc / 100.0
		}
	}
	if sysCPU, err := cpu.Percent(0, false); err == nil && len(sysCPU) > 0 {
		sample.SystemCpuLoad = sysCPU[0] / 100.0
	}
	return sample
}

// CheckHealth pings the store and reports host load.
func CheckHealth(ctx context.Context, store storage.Gateway, mockMode bool) HealthReport {
	report := HealthReport{Status: "ok", Database: "up", MockMode: mockMode, Host: CaptureHost()}
	if err := store.Ping(ctx); err != nil {
		report.Status = "degraded"
		report.Database = "down"
	}
	return report
}
