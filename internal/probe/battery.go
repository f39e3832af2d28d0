package probe

import (
	"context"
	"strconv"
	"strings"
)

// Battery readings come from the power-supply sysfs tree or from the
// power-management query tool. Charge-based interfaces count in µAh,
// energy-based ones in µWh and need the present voltage to convert; either
// way the canonical unit is mAh.

// batteryChargeCapacity reads charge_full. The unit tag is left empty so
// the µAh-vs-mAh magnitude heuristic applies; this sysfs file carries no
// unit metadata.
func batteryChargeCapacity(ctx context.Context, src *Source) (string, string) {
	bat := src.Caps.BatteryPath()
	if bat == "" {
		return "", ""
	}
	return src.ReadLine(bat + "/charge_full"), ""
}

// batteryEnergyCapacity converts energy_full (µWh) to mAh via voltage_now
// (µV). Without a voltage reading the conversion is skipped and the field
// falls through to the next source.
func batteryEnergyCapacity(ctx context.Context, src *Source) (string, string) {
	bat := src.Caps.BatteryPath()
	if bat == "" {
		return "", ""
	}
	energy, ok := src.ReadNumber(bat + "/energy_full")
	if !ok {
		return "", ""
	}
	voltage, ok := src.ReadNumber(bat + "/voltage_now")
	if !ok {
		return "", ""
	}
	mah, ok := MilliampHoursFromEnergy(energy, voltage)
	if !ok {
		return "", ""
	}
	return strconv.FormatFloat(mah, 'f', 0, 64), UnitMAh
}

// batteryHealthFromSysfs buckets current-vs-design capacity, preferring the
// charge pair over the energy pair.
func batteryHealthFromSysfs(ctx context.Context, src *Source) (string, string) {
	bat := src.Caps.BatteryPath()
	if bat == "" {
		return "", ""
	}
	for _, pair := range [][2]string{
		{"charge_full", "charge_full_design"},
		{"energy_full", "energy_full_design"},
	} {
		current, okCur := src.ReadNumber(bat + "/" + pair[0])
		design, okDes := src.ReadNumber(bat + "/" + pair[1])
		if !okCur || !okDes {
			continue
		}
		if health, ok := BatteryHealth(current, design); ok {
			return health, ""
		}
	}
	return "", ""
}

// upowerBatteryInfo fetches the query tool's battery report once per call.
func upowerBatteryInfo(ctx context.Context, src *Source) string {
	listing := src.RunTool(ctx, "upower", "-e")
	device := ""
	for _, line := range strings.Split(listing, "\n") {
		line = strings.TrimSpace(line)
		if strings.Contains(line, "battery") {
			device = line
			break
		}
	}
	if device == "" {
		return ""
	}
	return src.RunTool(ctx, "upower", "-i", device)
}

// batteryCapacityFromUpower derives mAh from the tool's energy-full and
// voltage readings (Wh and V respectively).
func batteryCapacityFromUpower(ctx context.Context, src *Source) (string, string) {
	info := upowerBatteryInfo(ctx, src)
	if info == "" {
		return "", ""
	}
	energyRaw, ok := Extract([]byte(info), "energy-full", false)
	if !ok {
		return "", ""
	}
	voltageRaw, ok := Extract([]byte(info), "voltage", false)
	if !ok {
		return "", ""
	}
	energyWh, _, ok := ParseMagnitude(energyRaw)
	if !ok {
		return "", ""
	}
	voltageV, _, ok := ParseMagnitude(voltageRaw)
	if !ok {
		return "", ""
	}
	mah, ok := MilliampHoursFromEnergy(energyWh*1e6, voltageV*1e6)
	if !ok {
		return "", ""
	}
	return strconv.FormatFloat(mah, 'f', 0, 64), UnitMAh
}

// batteryHealthFromUpower buckets the tool's capacity percentage.
func batteryHealthFromUpower(ctx context.Context, src *Source) (string, string) {
	info := upowerBatteryInfo(ctx, src)
	if info == "" {
		return "", ""
	}
	raw, ok := Extract([]byte(info), "capacity", false)
	if !ok {
		return "", ""
	}
	percent, _, ok := ParseMagnitude(raw)
	if !ok {
		return "", ""
	}
	health, ok := BatteryHealth(percent, 100)
	if !ok {
		return "", ""
	}
	return health, ""
}
