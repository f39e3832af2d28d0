package probe

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Source bundles the collaborators a chain step may consult: the process
// runner, the pseudo-filesystem, and the one-shot capability set with its
// cached artifacts. Read-only after construction.
type Source struct {
	Runner  CommandRunner
	FS      FileReader
	Caps    *Capabilities
	Tools   map[string]string
	Timeout time.Duration
}

// Tool resolves a tool name through the configured overrides.
func (s *Source) Tool(name string) string {
	if s.Tools != nil {
		if path, ok := s.Tools[name]; ok && path != "" {
			return path
		}
	}
	return name
}

// RunTool invokes a tool with the per-command timeout. Any failure — missing
// binary, non-zero exit, timeout — yields "", which callers treat as the
// source being absent.
func (s *Source) RunTool(ctx context.Context, name string, args ...string) string {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, exitCode, err := s.Runner.Run(runCtx, s.Tool(name), args...)
	if err != nil || exitCode != 0 {
		return ""
	}
	return out
}

// ReadLine returns the first line of a pseudo-file, "" when unreadable.
func (s *Source) ReadLine(path string) string {
	data, err := s.FS.ReadFile(path)
	if err != nil {
		return ""
	}
	return firstLine(string(data))
}

// ReadNumber reads a pseudo-file holding a single numeric value.
func (s *Source) ReadNumber(path string) (float64, bool) {
	line := s.ReadLine(path)
	if line == "" {
		return 0, false
	}
	value, _, ok := ParseMagnitude(line)
	return value, ok
}

// Resolver evaluates field chains against a probed capability set. Fields
// are resolved strictly one after another and sources within a field
// strictly in declared order; the first step yielding a valid, non-empty,
// correctly-typed value wins and later steps are never consulted.
type Resolver struct {
	src *Source
	log *logrus.Entry
}

func NewResolver(src *Source, log *logrus.Entry) *Resolver {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Resolver{src: src, log: log}
}

// ResolveAll resolves every spec in order.
func (r *Resolver) ResolveAll(ctx context.Context, specs []FieldSpec) []ResolvedField {
	fields := make([]ResolvedField, 0, len(specs))
	for _, spec := range specs {
		fields = append(fields, r.Resolve(ctx, spec))
	}
	return fields
}

// Resolve walks the field's chain and always returns a ResolvedField: the
// first valid value in canonical units, or the sentinel when every step is
// unavailable or malformed. Errors never escape a field's resolution.
func (r *Resolver) Resolve(ctx context.Context, spec FieldSpec) ResolvedField {
	log := r.log.WithField("field", spec.ID)

	for i, step := range spec.Steps {
		if !r.src.Caps.Has(step.Cap) {
			log.WithField("capability", string(step.Cap)).Debug("step skipped, capability absent")
			continue
		}

		raw, unit := r.fetch(ctx, step)
		if raw == "" {
			log.WithField("step", i).Debug("step yielded nothing")
			continue
		}

		value, ok := coerce(spec, raw, unit)
		if !ok {
			log.WithFields(logrus.Fields{"step": i, "raw": raw}).Debug("step value rejected")
			continue
		}

		log.WithFields(logrus.Fields{"step": i, "raw": raw}).Debug("field resolved")
		return ResolvedField{
			Field:     spec.ID,
			Label:     spec.Label,
			Raw:       raw,
			Value:     value,
			Unit:      spec.Unit,
			Precision: spec.Precision,
			Step:      i,
		}
	}

	log.Debug("no source available, using sentinel")
	return ResolvedField{
		Field:     spec.ID,
		Label:     spec.Label,
		Value:     Unknown(),
		Unit:      spec.Unit,
		Precision: spec.Precision,
		Step:      -1,
	}
}

// fetch runs one step's accessor and returns the raw reading with its unit
// tag. "" means the source was absent or had nothing usable.
func (r *Resolver) fetch(ctx context.Context, step ProbeStep) (string, string) {
	unit := step.Unit

	switch step.Kind {
	case StepFile:
		data, err := r.src.FS.ReadFile(step.Path)
		if err != nil {
			return "", unit
		}
		if step.Key != "" {
			raw, _ := Extract(data, step.Key, false)
			return raw, unit
		}
		return firstLine(string(data)), unit

	case StepReport:
		blob := r.src.Caps.Report()
		if len(blob) == 0 {
			return "", unit
		}
		raw, _ := Extract(blob, step.Path, r.src.Caps.Has(CapReportJSON))
		return raw, unit

	case StepCommand:
		if len(step.Cmd) == 0 {
			return "", unit
		}
		out := r.src.RunTool(ctx, step.Cmd[0], step.Cmd[1:]...)
		if out == "" {
			return "", unit
		}
		if step.Scrape != nil {
			return step.Scrape(out), unit
		}
		return strings.TrimSpace(out), unit

	case StepFunc:
		if step.Fn == nil {
			return "", unit
		}
		raw, fnUnit := step.Fn(ctx, r.src)
		if fnUnit != "" {
			unit = fnUnit
		}
		return raw, unit
	}

	return "", unit
}

// coerce validates a raw reading against the field's canonical type and
// converts it into canonical units. Anything that does not fit is rejected
// so the chain can fall through.
func coerce(spec FieldSpec, raw, unit string) (Value, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return Unknown(), false
	}

	switch spec.Kind {
	case KindNumber:
		num, parsedUnit, ok := ParseMagnitude(raw)
		if !ok {
			return Unknown(), false
		}
		if unit == "" && parsedUnit != "" {
			unit = parsedUnit
		}
		norm, ok := Normalize(num, unit, spec.Unit)
		if !ok {
			return Unknown(), false
		}
		return NumberValue(norm), true

	case KindEnum:
		return EnumValue(raw), true

	default:
		return StringValue(raw), true
	}
}
