package core

import (
	"github.com/rs/zerolog"

	ppierrors "github.com/agenthands/ppimap/internal/errors"
	"github.com/agenthands/ppimap/internal/output"
	"github.com/agenthands/ppimap/internal/records"
)

// Outcome is the tagged result of one pipeline stage. A stage whose input
// file could not be read is Degraded: Value is empty, Err says why and the
// run carries on. Any other error aborts the run.
type Outcome[T any] struct {
	Stage    string
	Value    T
	Stats    any
	Err      error
	Degraded bool
}

// Report renders the outcome for the run report.
func (o Outcome[T]) Report() output.StageReport {
	r := output.StageReport{Name: o.Stage, Degraded: o.Degraded, Stats: o.Stats}
	if o.Err != nil {
		r.Error = o.Err.Error()
	}
	return r
}

// runStage calls fn and classifies its error. The returned error is non-nil
// only when the run must stop.
func runStage[T any](logger zerolog.Logger, stage string, empty T, fn func() (T, any, error)) (Outcome[T], error) {
	value, stats, err := fn()
	out := Outcome[T]{Stage: stage, Value: value, Stats: stats, Err: err}
	switch {
	case err == nil:
		logger.Info().Str("stage", stage).Interface("stats", stats).Msg("stage complete")
		return out, nil
	case ppierrors.IsFileAccess(err):
		logger.Warn().Err(err).Str("stage", stage).Msg("stage degraded to an empty result")
		out.Value = empty
		out.Degraded = true
		return out, nil
	default:
		logger.Error().Err(err).Str("stage", stage).Msg("stage failed")
		return out, err
	}
}

// fromFile opens path, hands the reader to read and closes it afterwards.
func fromFile[T, S any](path string, format records.Format, read func(records.Scanner) (T, S, error)) (T, any, error) {
	r, err := records.Open(path, format)
	if err != nil {
		var zero T
		return zero, nil, err
	}
	defer r.Close()
	v, stats, err := read(r)
	return v, stats, err
}
