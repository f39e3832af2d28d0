// Package report assembles resolved fields into the consumer-facing
// inventory and renders it. The engine below it never formats anything;
// everything user-visible lives here.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/monify-labs/hwfacts/internal/probe"
	"github.com/monify-labs/hwfacts/pkg/models"
)

// Build resolves every spec in order and assembles the report. Resolution is
// strictly sequential; a field that cannot be resolved still appears, carrying
// the sentinel.
func Build(ctx context.Context, resolver *probe.Resolver, specs []probe.FieldSpec, target string) *models.Report {
	hostname, _ := os.Hostname()

	rep := &models.Report{
		ID:          uuid.NewString(),
		Hostname:    hostname,
		Target:      target,
		CollectedAt: time.Now().UTC(),
		Fields:      make([]models.Field, 0, len(specs)),
	}

	for _, resolved := range resolver.ResolveAll(ctx, specs) {
		rep.Fields = append(rep.Fields, models.Field{
			ID:         resolved.Field,
			Label:      resolved.Label,
			Value:      resolved.FormatValue(),
			Raw:        resolved.Raw,
			Unit:       resolved.Unit,
			Known:      resolved.Value.Known(),
			SourceStep: resolved.Step,
		})
	}
	return rep
}

// RenderText writes the report as "<Label>: <value>" lines.
func RenderText(w io.Writer, rep *models.Report) error {
	for _, field := range rep.Fields {
		if _, err := fmt.Fprintf(w, "%s: %s\n", field.Label, field.Value); err != nil {
			return err
		}
	}
	return nil
}

// RenderJSON writes the full report document, indented.
func RenderJSON(w io.Writer, rep *models.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(rep)
}
