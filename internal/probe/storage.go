package probe

import (
	"context"
	"strconv"
	"strings"
)

// Storage facts come from the disk-listing tool when present and from
// /sys/block otherwise. Virtual and removable-media devices are not part of
// the machine's storage identity and are skipped everywhere.

func isVirtualBlockDevice(name string) bool {
	for _, prefix := range []string{"loop", "ram", "zram", "dm-", "sr", "fd", "md"} {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// scrapeLsblkTotal sums the sizes of all physical disks from
// "lsblk -b -d -n -o NAME,TYPE,SIZE,ROTA" output. Bytes.
func scrapeLsblkTotal(out string) string {
	var total uint64
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 || fields[1] != "disk" || isVirtualBlockDevice(fields[0]) {
			continue
		}
		size, err := strconv.ParseUint(fields[2], 10, 64)
		if err != nil {
			continue
		}
		total += size
	}
	if total == 0 {
		return ""
	}
	return strconv.FormatUint(total, 10)
}

// scrapeLsblkType classifies the first physical disk: NVMe by device name,
// otherwise the rotational flag decides between HDD and SSD.
func scrapeLsblkType(out string) string {
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 4 || fields[1] != "disk" || isVirtualBlockDevice(fields[0]) {
			continue
		}
		return classifyDisk(fields[0], fields[3])
	}
	return ""
}

func classifyDisk(name, rotational string) string {
	if strings.HasPrefix(name, "nvme") {
		return "NVMe SSD"
	}
	if rotational == "1" {
		return "HDD"
	}
	return "SSD"
}

// storageTotalFromSysfs sums /sys/block/<dev>/size, which counts 512-byte
// sectors regardless of the device's logical block size.
func storageTotalFromSysfs(ctx context.Context, src *Source) (string, string) {
	devices, err := src.FS.Glob("/sys/block/*")
	if err != nil {
		return "", ""
	}
	var total uint64
	for _, dev := range devices {
		name := dev[strings.LastIndexByte(dev, '/')+1:]
		if isVirtualBlockDevice(name) {
			continue
		}
		sectors, ok := src.ReadNumber(dev + "/size")
		if !ok || sectors <= 0 {
			continue
		}
		total += uint64(sectors) * 512
	}
	if total == 0 {
		return "", ""
	}
	return strconv.FormatUint(total, 10), "B"
}

// storageTypeFromSysfs classifies the first physical disk via its
// rotational queue attribute.
func storageTypeFromSysfs(ctx context.Context, src *Source) (string, string) {
	devices, err := src.FS.Glob("/sys/block/*")
	if err != nil {
		return "", ""
	}
	for _, dev := range devices {
		name := dev[strings.LastIndexByte(dev, '/')+1:]
		if isVirtualBlockDevice(name) {
			continue
		}
		rotational := src.ReadLine(dev + "/queue/rotational")
		if rotational == "" {
			continue
		}
		return classifyDisk(name, rotational), ""
	}
	return "", ""
}
