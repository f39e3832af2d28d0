package probe

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Canonical units.
const (
	UnitGB     = "GB" // decimal gigabytes, one decimal place
	UnitMAh    = "mAh"
	UnitInches = "in"
)

// byteFactors maps a source unit annotation to bytes. Binary prefixes follow
// the 1024 rule, decimal prefixes the 1000 rule; the distinction comes from
// the annotation, never from the magnitude.
var byteFactors = map[string]float64{
	"B":     1,
	"bytes": 1,
	"Ki":    1 << 10,
	"Mi":    1 << 20,
	"Gi":    1 << 30,
	"Ti":    1 << 40,
	"KiB":   1 << 10,
	"MiB":   1 << 20,
	"GiB":   1 << 30,
	"TiB":   1 << 40,
	// /proc/meminfo writes "kB" but counts in KiB.
	"kB": 1 << 10,
	"K":  1e3,
	"M":  1e6,
	"G":  1e9,
	"T":  1e12,
	"KB": 1e3,
	"MB": 1e6,
	"GB": 1e9,
	"TB": 1e12,
}

// Normalize converts a magnitude from sourceUnit into targetUnit and rounds
// it to the canonical precision of the target. Unknown conversions return
// ok=false so the resolver can fall through to the next source.
//
// An empty sourceUnit against a mAh target applies the magnitude heuristic:
// readings above 10,000 are assumed to be micro-units because some kernel
// battery interfaces omit unit metadata. Best effort, not a contract.
func Normalize(value float64, sourceUnit, targetUnit string) (float64, bool) {
	switch targetUnit {
	case UnitGB:
		factor, ok := byteFactors[sourceUnit]
		if !ok {
			return 0, false
		}
		return RoundTo(value*factor/1e9, 1), true

	case UnitMAh:
		switch sourceUnit {
		case "uAh", "µAh":
			return RoundTo(value/1000, 0), true
		case "mAh":
			return RoundTo(value, 0), true
		case "":
			if value > 10000 {
				return RoundTo(value/1000, 0), true
			}
			return RoundTo(value, 0), true
		}
		return 0, false

	case UnitInches:
		if sourceUnit == "" || sourceUnit == UnitInches {
			return RoundTo(value, 1), true
		}
		return 0, false

	case "":
		return value, true
	}
	return 0, false
}

// MilliampHoursFromEnergy converts an energy reading in µWh to mAh using the
// present voltage in µV. Without a usable voltage the conversion is skipped
// and the caller falls through to its next source.
func MilliampHoursFromEnergy(microWattHours, microVolts float64) (float64, bool) {
	if microVolts <= 0 || microWattHours <= 0 {
		return 0, false
	}
	return RoundTo(microWattHours/(microVolts/1e6)/1000, 0), true
}

// RoundTo rounds half away from zero at the given number of decimals.
func RoundTo(value float64, decimals int) float64 {
	shift := math.Pow(10, float64(decimals))
	return math.Round(value*shift) / shift
}

var magnitudeRe = regexp.MustCompile(`^\s*(-?[0-9]+(?:\.[0-9]+)?)\s*([A-Za-zµ]*)`)

// ParseMagnitude splits a raw reading like "16305464 kB" or "512GiB" into
// its numeric part and unit annotation. Trailing text beyond the unit token
// is ignored.
func ParseMagnitude(raw string) (value float64, unit string, ok bool) {
	m := magnitudeRe.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return 0, "", false
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, "", false
	}
	return value, m[2], true
}
