package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeMemory(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		source string
		want   float64
		ok     bool
	}{
		// Binary prefixes use the 1024 rule: 16 GiB is 17.2 decimal GB,
		// never a naive 16.0.
		{"binary gigabytes", 16, "Gi", 17.2, true},
		{"binary gigabytes with suffix", 16, "GiB", 17.2, true},
		{"decimal gigabytes", 16, "GB", 16.0, true},
		{"meminfo kibibytes", 16305464, "kB", 16.7, true},
		{"explicit kibibytes", 16305464, "KiB", 16.7, true},
		{"plain bytes", 17179869184, "B", 17.2, true},
		{"terabyte disk", 1, "TB", 1000.0, true},
		{"binary terabyte", 1, "Ti", 1099.5, true},
		{"unknown unit", 16, "parsecs", 0, false},
		{"missing annotation", 16, "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.value, tt.source, UnitGB)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.InDelta(t, tt.want, got, 0.001)
			}
		})
	}
}

func TestNormalizeBatteryCharge(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		source string
		want   float64
		ok     bool
	}{
		{"explicit micro", 4200000, "uAh", 4200, true},
		{"explicit milli", 4200, "mAh", 4200, true},
		// The magnitude heuristic is a best-effort disambiguation for
		// sources that omit unit metadata, not a contract: a genuine
		// 12,000 mAh pack would be misread here.
		{"heuristic treats large as micro", 4200000, "", 4200, true},
		{"heuristic treats small as milli", 4200, "", 4200, true},
		{"heuristic boundary stays milli", 10000, "", 10000, true},
		{"unknown unit", 4200, "Wh", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.value, tt.source, UnitMAh)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestMilliampHoursFromEnergy(t *testing.T) {
	// 50 Wh at 12.6 V: 50e6 / 12.6 / 1000 = 3968.25 -> 3968 mAh.
	got, ok := MilliampHoursFromEnergy(50000000, 12600000)
	assert.True(t, ok)
	assert.Equal(t, 3968.0, got)

	// Without a voltage the conversion is skipped entirely.
	_, ok = MilliampHoursFromEnergy(50000000, 0)
	assert.False(t, ok)
	_, ok = MilliampHoursFromEnergy(0, 12600000)
	assert.False(t, ok)
}

func TestRoundToHalfAwayFromZero(t *testing.T) {
	assert.Equal(t, 3.0, RoundTo(2.5, 0))
	assert.Equal(t, -3.0, RoundTo(-2.5, 0))
	assert.Equal(t, 0.3, RoundTo(0.25, 1))
	assert.Equal(t, 17.2, RoundTo(17.179869184, 1))
	assert.Equal(t, 394.0, RoundTo(394.44, 0))
}

func TestParseMagnitude(t *testing.T) {
	tests := []struct {
		raw   string
		value float64
		unit  string
		ok    bool
	}{
		{"16305464 kB", 16305464, "kB", true},
		{"512GiB", 512, "GiB", true},
		{"4200000", 4200000, "", true},
		{"  57.5 Wh", 57.5, "Wh", true},
		{"-5 mm", -5, "mm", true},
		{"garbage", 0, "", false},
		{"", 0, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			value, unit, ok := ParseMagnitude(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.value, value)
				assert.Equal(t, tt.unit, unit)
			}
		})
	}
}
