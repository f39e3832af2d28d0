package probe

import (
	"context"
	"strconv"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
)

// Final-fallback accessors backed by gopsutil, which reads the same kernel
// pseudo-files the rest of the engine does but is available even when every
// external tool is missing. Only offered for the local host (CapSysinfo).

func cpuModelFromSysinfo(ctx context.Context, src *Source) (string, string) {
	info, err := cpu.InfoWithContext(ctx)
	if err != nil || len(info) == 0 {
		return "", ""
	}
	return info[0].ModelName, ""
}

func ramBytesFromSysinfo(ctx context.Context, src *Source) (string, string) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil || vm.Total == 0 {
		return "", ""
	}
	return strconv.FormatUint(vm.Total, 10), "B"
}

// storageTotalFromSysinfo approximates disk capacity by summing filesystem
// sizes, one entry per device, skipping special filesystems.
func storageTotalFromSysinfo(ctx context.Context, src *Source) (string, string) {
	partitions, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return "", ""
	}
	seen := make(map[string]bool)
	var total uint64
	for _, partition := range partitions {
		if shouldSkipFilesystem(partition.Fstype) || seen[partition.Device] {
			continue
		}
		usage, err := disk.UsageWithContext(ctx, partition.Mountpoint)
		if err != nil {
			continue
		}
		seen[partition.Device] = true
		total += usage.Total
	}
	if total == 0 {
		return "", ""
	}
	return strconv.FormatUint(total, 10), "B"
}

// shouldSkipFilesystem filters virtual and packaging filesystems out of the
// capacity sum.
func shouldSkipFilesystem(fstype string) bool {
	skipTypes := map[string]bool{
		"tmpfs":    true,
		"devtmpfs": true,
		"devfs":    true,
		"proc":     true,
		"sysfs":    true,
		"cgroup":   true,
		"cgroup2":  true,
		"nsfs":     true,
		"overlay":  true,
		"squashfs": true,
		"iso9660":  true,
	}
	return skipTypes[fstype]
}
