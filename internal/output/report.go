package output

import (
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-yaml"

	ppierrors "github.com/agenthands/ppimap/internal/errors"
)

// Report summarises one pipeline run.
type Report struct {
	RunID      string        `json:"run_id" yaml:"run_id"`
	Pipeline   string        `json:"pipeline" yaml:"pipeline"`
	Species    string        `json:"species,omitempty" yaml:"species,omitempty"`
	StartedAt  time.Time     `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time     `json:"finished_at" yaml:"finished_at"`
	Stages     []StageReport `json:"stages" yaml:"stages"`
	// Counts holds the headline diagnostics, e.g. overlap size and
	// self-interactions skipped.
	Counts  map[string]int `json:"counts" yaml:"counts"`
	Outputs []string       `json:"outputs" yaml:"outputs"`
}

// StageReport records one stage of a run. Stats holds the stage's own
// counters.
type StageReport struct {
	Name     string `json:"name" yaml:"name"`
	Degraded bool   `json:"degraded" yaml:"degraded"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
	Stats    any    `json:"stats,omitempty" yaml:"stats,omitempty"`
}

// Degraded lists the stages that fell back to an empty result.
func (r *Report) Degraded() []string {
	var names []string
	for _, s := range r.Stages {
		if s.Degraded {
			names = append(names, s.Name)
		}
	}
	return names
}

// WriteReport stores r as YAML at path.
func WriteReport(path string, r *Report) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return ppierrors.NewFileAccessError("create directory for", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return ppierrors.NewFileAccessError("write", path, err)
	}
	return nil
}

// ReadReport loads a report written by WriteReport. Stage stats come back as
// generic maps.
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ppierrors.NewFileAccessError("read", path, err)
	}
	var r Report
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, ppierrors.NewParseError(path, 0, "report", "", err)
	}
	return &r, nil
}
