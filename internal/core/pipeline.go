// Package core runs the reconciliation pipelines: mapping a species'
// StringDB interactions onto human proteins and comparing StringDB with
// BioGrid.
package core

import (
	"context"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/agenthands/ppimap/internal/config"
	"github.com/agenthands/ppimap/internal/core/filter"
	"github.com/agenthands/ppimap/internal/core/model"
	"github.com/agenthands/ppimap/internal/output"
	"github.com/agenthands/ppimap/internal/records"
	"github.com/agenthands/ppimap/internal/store"
)

const (
	HumanPipeline   = "human"
	OverlapPipeline = "overlap"
)

// Output file names.
const (
	BindingPPIsFile         = "%s_binding_PPIs.tsv"
	ExperimentPPIsFile      = "%s_PPIs_with_experiments.tsv"
	MappedPPIsFile          = "%s_MAPPED_PPIS.tsv"
	HumanPPIsFile           = "%s_HUMAN_PPIS.tsv"
	UniProtFailuresFile     = "stringToUniprotMappingFailure.txt"
	OrthologFailuresFile    = "orthologMappingFailure.txt"
	OverlapFile             = "StringDB-BioGrid-PPIoverlap.tsv"
	StringDBOnlyFile        = "StringDB-only-PPIs.tsv"
	BioGridOnlyFile         = "BioGrid-only-PPIs.tsv"
	BioGridFailuresFile     = "failedMappingsFromBioGrid.txt"
	overlapDir              = "overlaps"
	speciesResultsDirSuffix = "_results"
)

// Pipeline holds what both pipelines share. Store and Exporter are optional.
type Pipeline struct {
	Config   *config.Config
	Store    store.ProvenanceStore
	Exporter *GraphExporter
	logger   zerolog.Logger
	now      func() time.Time
	newID    func() string
}

func NewPipeline(cfg *config.Config, st store.ProvenanceStore, exporter *GraphExporter, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		Config:   cfg,
		Store:    st,
		Exporter: exporter,
		logger:   logger,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

// ReportPath is where a pipeline run writes its report. species is ignored
// for the overlap pipeline.
func ReportPath(cfg *config.Config, pipeline, species string) string {
	if pipeline == OverlapPipeline {
		return cfg.OutputPath(overlapDir, cfg.Output.Report)
	}
	return cfg.OutputPath(species+speciesResultsDirSuffix, cfg.Output.Report)
}

func (p *Pipeline) newReport(pipeline, species string) (*output.Report, zerolog.Logger) {
	r := &output.Report{
		RunID:     p.newID(),
		Pipeline:  pipeline,
		Species:   species,
		StartedAt: p.now().UTC(),
		Counts:    map[string]int{},
	}
	logger := p.logger.With().Str("run_id", r.RunID).Str("pipeline", pipeline).Logger()
	if species != "" {
		logger = logger.With().Str("species", species).Logger()
	}
	return r, logger
}

func (p *Pipeline) finish(r *output.Report, dir string, logger zerolog.Logger) *output.Report {
	r.FinishedAt = p.now().UTC()
	path := filepath.Join(dir, p.Config.Output.Report)
	if err := output.WriteReport(path, r); err != nil {
		logger.Error().Err(err).Msg("failed to write run report")
	} else {
		logger.Info().Str("path", path).Interface("counts", r.Counts).Msg("run finished")
	}
	return r
}

// loadBinding reads the StringDB actions file for taxon.
func (p *Pipeline) loadBinding(logger zerolog.Logger, taxon string) (Outcome[*model.InteractionSet], error) {
	path := p.Config.DataPath(p.Config.StringDB.ActionsFile(taxon))
	return runStage(logger, "binding", model.NewInteractionSet(), func() (*model.InteractionSet, any, error) {
		return fromFile(path, records.TSVHeader, filter.Binding)
	})
}

// loadEvidence reads the StringDB links file for taxon. A malformed score
// aborts the run.
func (p *Pipeline) loadEvidence(logger zerolog.Logger, taxon string) (Outcome[*model.InteractionSet], error) {
	path := p.Config.DataPath(p.Config.StringDB.LinksFile(taxon))
	column, threshold := p.Config.StringDB.ScoreColumn, p.Config.StringDB.ScoreThreshold
	return runStage(logger, "evidence", model.NewInteractionSet(), func() (*model.InteractionSet, any, error) {
		return fromFile(path, records.SpaceHeader, func(s records.Scanner) (*model.InteractionSet, filter.Stats, error) {
			return filter.EvidenceScore(s, column, threshold)
		})
	})
}

// writeStage writes one output file. Write failures are recorded in the
// report and logged; they do not stop the run.
func writeStage(r *output.Report, logger zerolog.Logger, stage, path string, write func(string) (int, error)) {
	n, err := write(path)
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("failed to write output")
		r.Stages = append(r.Stages, output.StageReport{Name: stage, Degraded: true, Error: err.Error()})
		return
	}
	logger.Debug().Str("path", path).Int("lines", n).Msg("output written")
	r.Outputs = append(r.Outputs, path)
}

// registerSource records provenance for an input file. Store failures are
// logged only.
func (p *Pipeline) registerSource(ctx context.Context, logger zerolog.Logger, path, category, entity string) {
	if p.Store == nil {
		return
	}
	prov, err := p.Store.AddOrGetExisting(ctx, model.Provenance{
		Name:             filepath.Base(path),
		URL:              path,
		Category:         category,
		BiologicalEntity: entity,
	})
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("failed to record provenance")
		return
	}
	logger.Debug().Int64("provenance_id", prov.ID).Str("path", path).Msg("provenance recorded")
}

// export sends set to the graph when an exporter is configured. Export
// failures are logged only.
func (p *Pipeline) export(ctx context.Context, r *output.Report, logger zerolog.Logger, label string, set *model.InteractionSet) {
	if p.Exporter == nil {
		return
	}
	run := Run{ID: r.RunID, Pipeline: r.Pipeline, Species: r.Species}
	n, err := p.Exporter.Export(ctx, run, label, set)
	if err != nil {
		logger.Error().Err(err).Str("label", label).Msg("graph export failed")
		r.Stages = append(r.Stages, output.StageReport{Name: "export:" + label, Degraded: true, Error: err.Error()})
		return
	}
	r.Counts["exported_"+label] = n
}

