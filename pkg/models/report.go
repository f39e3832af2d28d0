package models

import "time"

// Report is one assembled point-in-time hardware inventory. Nothing here is
// persisted; the report exists only for presentation.
type Report struct {
	ID          string    `json:"id"`
	Hostname    string    `json:"hostname,omitempty"`
	Target      string    `json:"target"` // "local" or the remote host
	CollectedAt time.Time `json:"collected_at"`
	Fields      []Field   `json:"fields"`
}

// Field is one resolved hardware attribute as exposed at the output
// boundary. Value is fully formatted; unresolved fields carry "N/A" and
// Known false.
type Field struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Value      string `json:"value"`
	Raw        string `json:"raw,omitempty"`
	Unit       string `json:"unit,omitempty"`
	Known      bool   `json:"known"`
	SourceStep int    `json:"source_step"` // winning chain step, -1 for the sentinel
}
