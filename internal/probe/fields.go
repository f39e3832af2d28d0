package probe

import "strings"

// DefaultFields is the declarative inventory: every reportable attribute
// with its fallback chain, most reliable source first. Each chain either
// ends in a pseudo-file or process-local step, or resolves to the sentinel.
func DefaultFields() []FieldSpec {
	return []FieldSpec{
		{
			ID:    "device_model",
			Label: "Model",
			Kind:  KindString,
			Steps: []ProbeStep{
				{Cap: CapReport, Kind: StepReport, Path: "product"},
				{Cap: CapDMI, Kind: StepFile, Path: "/sys/class/dmi/id/product_name"},
			},
		},
		{
			ID:    "serial_number",
			Label: "Serial Number",
			Kind:  KindString,
			Steps: []ProbeStep{
				{Cap: CapReport, Kind: StepReport, Path: "serial"},
				{Cap: CapDMI, Kind: StepFile, Path: "/sys/class/dmi/id/product_serial"},
			},
		},
		{
			ID:    "cpu_model",
			Label: "CPU",
			Kind:  KindString,
			Steps: []ProbeStep{
				{Cap: CapReport, Kind: StepReport, Path: "cpu.product"},
				{Cap: CapProc, Kind: StepFile, Path: "/proc/cpuinfo", Key: "model name"},
				{Cap: CapSysinfo, Kind: StepFunc, Fn: cpuModelFromSysinfo},
			},
		},
		{
			ID:        "ram_gb",
			Label:     "RAM",
			Kind:      KindNumber,
			Unit:      UnitGB,
			Precision: 1,
			Steps: []ProbeStep{
				{Cap: CapReport, Kind: StepReport, Path: "memory.size", Unit: "B"},
				{Cap: CapProc, Kind: StepFile, Path: "/proc/meminfo", Key: "MemTotal", Unit: "KiB"},
				{Cap: CapSysinfo, Kind: StepFunc, Fn: ramBytesFromSysinfo},
			},
		},
		{
			ID:    "storage_type",
			Label: "Storage Type",
			Kind:  KindEnum,
			Steps: []ProbeStep{
				{Cap: CapLsblk, Kind: StepCommand, Cmd: lsblkCmd(), Scrape: scrapeLsblkType},
				{Cap: CapBlock, Kind: StepFunc, Fn: storageTypeFromSysfs},
			},
		},
		{
			ID:        "storage_gb",
			Label:     "Storage Size",
			Kind:      KindNumber,
			Unit:      UnitGB,
			Precision: 1,
			Steps: []ProbeStep{
				{Cap: CapLsblk, Kind: StepCommand, Cmd: lsblkCmd(), Scrape: scrapeLsblkTotal, Unit: "B"},
				{Cap: CapBlock, Kind: StepFunc, Fn: storageTotalFromSysfs},
				{Cap: CapSysinfo, Kind: StepFunc, Fn: storageTotalFromSysinfo},
			},
		},
		{
			ID:    "gpu_model",
			Label: "GPU",
			Kind:  KindString,
			Steps: []ProbeStep{
				{Cap: CapLspci, Kind: StepCommand, Cmd: []string{"lspci"}, Scrape: scrapeGPU},
				{Cap: CapReport, Kind: StepReport, Path: "display.product"},
			},
		},
		{
			ID:        "screen_size_in",
			Label:     "Screen Size",
			Kind:      KindNumber,
			Unit:      UnitInches,
			Precision: 1,
			Steps: []ProbeStep{
				{Cap: CapXrandr, Kind: StepFunc, Fn: screenSizeFromXrandr},
				{Cap: CapEDIDDecode, Kind: StepFunc, Fn: screenSizeFromEDIDDecode},
				{Cap: CapDRM, Kind: StepFunc, Fn: screenSizeFromEDID},
			},
		},
		{
			ID:    "display_resolution",
			Label: "Resolution",
			Kind:  KindString,
			Steps: []ProbeStep{
				{Cap: CapXrandr, Kind: StepFunc, Fn: resolutionFromXrandr},
				{Cap: CapDRM, Kind: StepFunc, Fn: resolutionFromDRM},
			},
		},
		{
			ID:        "battery_capacity_mah",
			Label:     "Battery Capacity",
			Kind:      KindNumber,
			Unit:      UnitMAh,
			Precision: 0,
			Steps: []ProbeStep{
				{Cap: CapUpower, Kind: StepFunc, Fn: batteryCapacityFromUpower},
				{Cap: CapBattery, Kind: StepFunc, Fn: batteryChargeCapacity},
				{Cap: CapBattery, Kind: StepFunc, Fn: batteryEnergyCapacity},
			},
		},
		{
			ID:    "battery_health",
			Label: "Battery Health",
			Kind:  KindEnum,
			Steps: []ProbeStep{
				{Cap: CapBattery, Kind: StepFunc, Fn: batteryHealthFromSysfs},
				{Cap: CapUpower, Kind: StepFunc, Fn: batteryHealthFromUpower},
			},
		},
	}
}

// FieldIDs lists the identifiers of every known field, in report order.
func FieldIDs() []string {
	specs := DefaultFields()
	ids := make([]string, 0, len(specs))
	for _, spec := range specs {
		ids = append(ids, spec.ID)
	}
	return ids
}

// SelectFields filters the default table down to the requested subset,
// preserving report order. An empty subset means all fields.
func SelectFields(ids []string) []FieldSpec {
	specs := DefaultFields()
	if len(ids) == 0 {
		return specs
	}
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	selected := make([]FieldSpec, 0, len(specs))
	for _, spec := range specs {
		if wanted[spec.ID] {
			selected = append(selected, spec)
		}
	}
	return selected
}

func lsblkCmd() []string {
	return []string{"lsblk", "-b", "-d", "-n", "-o", "NAME,TYPE,SIZE,ROTA"}
}

// scrapeGPU picks the first graphics controller line out of the PCI listing.
func scrapeGPU(out string) string {
	for _, line := range strings.Split(out, "\n") {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "vga compatible controller") ||
			strings.Contains(lower, "3d controller") ||
			strings.Contains(lower, "display controller") {
			if _, device, ok := strings.Cut(line, ": "); ok {
				return strings.TrimSpace(device)
			}
		}
	}
	return ""
}
