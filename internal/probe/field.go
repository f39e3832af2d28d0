package probe

import (
	"context"
	"fmt"
	"strconv"
)

// Kind is the canonical type of a field's normalized value.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindEnum
)

// Value is the outcome of a resolution: either a typed scalar or the unknown
// sentinel. The sentinel is distinct from every legitimate value, including
// the literal string "N/A".
type Value struct {
	known bool
	kind  Kind
	str   string
	num   float64
}

// Unknown is the sentinel value returned when no source could supply a field.
func Unknown() Value {
	return Value{}
}

func StringValue(s string) Value {
	return Value{known: true, kind: KindString, str: s}
}

func NumberValue(n float64) Value {
	return Value{known: true, kind: KindNumber, num: n}
}

func EnumValue(s string) Value {
	return Value{known: true, kind: KindEnum, str: s}
}

// Known reports whether the value carries real data.
func (v Value) Known() bool {
	return v.known
}

func (v Value) Kind() Kind {
	return v.kind
}

// Number returns the numeric payload; zero for non-numbers and the sentinel.
func (v Value) Number() float64 {
	return v.num
}

// Text returns the string payload; empty for numbers and the sentinel.
func (v Value) Text() string {
	return v.str
}

// Format renders the value for the report boundary. The sentinel renders as
// the literal N/A; numbers are trimmed at the given precision.
func (v Value) Format(precision int) string {
	if !v.known {
		return "N/A"
	}
	if v.kind == KindNumber {
		return strconv.FormatFloat(v.num, 'f', precision, 64)
	}
	return v.str
}

// StepKind selects how a ProbeStep accesses its source.
type StepKind int

const (
	// StepFile reads a pseudo-file. With Key empty the first line is the raw
	// value; otherwise the file content is searched for the flat key.
	StepFile StepKind = iota

	// StepReport extracts Path from the cached structured-report blob.
	StepReport

	// StepCommand runs Cmd and feeds its stdout through Scrape.
	StepCommand

	// StepFunc invokes a custom accessor for sources that need nested
	// matching of their own (display geometry, battery trees).
	StepFunc
)

// ProbeStep is one (source, query, unit) entry in a field's fallback chain.
type ProbeStep struct {
	Cap  Capability
	Kind StepKind

	Path string   // file path (StepFile) or report field path (StepReport)
	Key  string   // flat key within the file content (StepFile)
	Cmd  []string // command and arguments (StepCommand)

	// Scrape extracts the raw scalar from command output. Empty result means
	// the source had nothing usable.
	Scrape func(out string) string

	// Fn is the accessor for StepFunc. It returns the raw reading and its
	// unit tag, which overrides Unit when set.
	Fn func(ctx context.Context, src *Source) (raw string, unit string)

	// Unit tags the raw value's unit ("" when the value is already in the
	// field's canonical unit or is not numeric).
	Unit string
}

// FieldSpec declares one reportable hardware attribute and its ordered
// fallback chain.
type FieldSpec struct {
	ID        string
	Label     string
	Kind      Kind
	Unit      string // canonical unit, "" for plain strings
	Precision int    // decimal places for numeric fields
	Steps     []ProbeStep
}

// ResolvedField is the immutable outcome of resolving one field.
type ResolvedField struct {
	Field     string
	Label     string
	Raw       string // raw source reading, "" when the sentinel was used
	Value     Value
	Unit      string
	Precision int
	Step      int // index of the winning ProbeStep, -1 for the sentinel
}

// String renders the field as a single report line.
func (f ResolvedField) String() string {
	return fmt.Sprintf("%s: %s", f.Label, f.FormatValue())
}

// FormatValue renders the normalized value with its unit suffix.
func (f ResolvedField) FormatValue() string {
	if !f.Value.Known() {
		return "N/A"
	}
	text := f.Value.Format(f.Precision)
	if f.Value.Kind() == KindNumber && f.Unit != "" {
		return text + " " + f.Unit
	}
	return text
}
