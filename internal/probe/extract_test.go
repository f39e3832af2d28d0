package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const reportSample = `{
  "id": "laptop",
  "class": "system",
  "product": "XPS 13 9310",
  "serial": "ABC1234",
  "children": [
    {
      "id": "core",
      "class": "bus",
      "children": [
        {
          "id": "memory",
          "class": "memory",
          "size": 17179869184
        },
        {
          "id": "cpu:0",
          "class": "processor",
          "product": "Intel(R) Core(TM) i7-1165G7 @ 2.80GHz"
        },
        {
          "id": "display",
          "class": "display",
          "product": "TigerLake-LP GT2 [Iris Xe Graphics]"
        }
      ]
    }
  ]
}`

func TestExtractStructured(t *testing.T) {
	tests := []struct {
		name string
		blob string
		path string
		want string
		ok   bool
	}{
		{"top level key", reportSample, "product", "XPS 13 9310", true},
		{"nested by id", reportSample, "memory.size", "17179869184", true},
		{"id with instance suffix", reportSample, "cpu.product", "Intel(R) Core(TM) i7-1165G7 @ 2.80GHz", true},
		{"missing key", reportSample, "nonexistent", "", false},
		{"missing nested key", reportSample, "memory.vendor", "", false},
		{"indexed path", `{"display": [{"size": 15.6}, {"size": 24.0}]}`, "display[0].size", "15.6", true},
		{"index out of range", `{"display": [{"size": 15.6}]}`, "display[3].size", "", false},
		{"null is absent", `{"serial": null}`, "serial", "", false},
		{"empty string is absent", `{"serial": ""}`, "serial", "", false},
		{"container is not a value", reportSample, "children", "", false},
		{"malformed document", `{"product": "XPS`, "product", "", false},
		{"empty blob", "", "product", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Extract([]byte(tt.blob), tt.path, true)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractPattern(t *testing.T) {
	tests := []struct {
		name string
		blob string
		path string
		want string
		ok   bool
	}{
		{"quoted value", reportSample, "product", "XPS 13 9310", true},
		{"bare number in container", reportSample, "memory.size", "17179869184", true},
		{"container narrows search", reportSample, "display.product", "TigerLake-LP GT2 [Iris Xe Graphics]", true},
		{"missing container", reportSample, "battery.capacity", "", false},
		{"flat proc key", "MemTotal:       16305464 kB\nMemFree: 123 kB\n", "MemTotal", "16305464 kB", true},
		{"flat key with spaces", "processor\t: 0\nmodel name\t: AMD Ryzen 7 5800U\n", "model name", "AMD Ryzen 7 5800U", true},
		{"flat key absent", "MemFree: 123 kB\n", "MemTotal", "", false},
		{"null literal is absent", "serial: null\n", "serial", "", false},
		{"works on truncated json", `{"id": "x", "product": "Latitude 7420", "chil`, "product", "Latitude 7420", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Extract([]byte(tt.blob), tt.path, false)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
