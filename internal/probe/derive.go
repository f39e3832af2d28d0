package probe

import "math"

// DiagonalInches computes a display diagonal from its physical dimensions.
// Both dimensions must be positive; geometry tools report "0mm x 0mm" for
// outputs they cannot measure and that reading is rejected, not treated as
// a legitimate zero. The millimeter diagonal is rounded to an integer first,
// then converted at 25.4 mm/in to one decimal place.
func DiagonalInches(widthMM, heightMM int) (float64, bool) {
	if widthMM <= 0 || heightMM <= 0 {
		return 0, false
	}
	diagMM := math.Round(math.Sqrt(float64(widthMM*widthMM + heightMM*heightMM)))
	return RoundTo(diagMM/25.4, 1), true
}

// Battery health categories.
const (
	HealthGood = "Good"
	HealthFair = "Fair"
	HealthPoor = "Poor"
)

// BatteryHealth buckets the ratio of current to design capacity. A missing
// or zero design capacity is undefined, never a division fault.
func BatteryHealth(currentFull, designFull float64) (string, bool) {
	if designFull <= 0 || currentFull < 0 {
		return "", false
	}
	ratio := math.Round(currentFull / designFull * 100)
	switch {
	case ratio >= 80:
		return HealthGood, true
	case ratio >= 60:
		return HealthFair, true
	default:
		return HealthPoor, true
	}
}
