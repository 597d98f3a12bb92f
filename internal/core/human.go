package core

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/agenthands/ppimap/internal/core/filter"
	"github.com/agenthands/ppimap/internal/core/mapping"
	"github.com/agenthands/ppimap/internal/core/model"
	"github.com/agenthands/ppimap/internal/core/resolve"
	ppierrors "github.com/agenthands/ppimap/internal/errors"
	"github.com/agenthands/ppimap/internal/output"
	"github.com/agenthands/ppimap/internal/records"
)

// MapToHuman maps the StringDB binding interactions of species that have
// experimental evidence onto UniProt, and from there through the ortholog
// table onto human UniProt accessions. Both steps use the configured human
// strategy, pick-one by default, which keeps one representative accession per
// protein.
//
// Missing input files degrade their stage to an empty result; a malformed
// evidence score stops the run.
func (p *Pipeline) MapToHuman(ctx context.Context, species string) (*output.Report, error) {
	sp, ok := p.Config.LookupSpecies(species)
	if !ok {
		return nil, ppierrors.NewValidationError("species", species, "species is not configured")
	}
	species = strings.ToUpper(sp.Name)
	strategy, err := resolve.ByName(p.Config.Resolve.Human)
	if err != nil {
		return nil, err
	}
	report, logger := p.newReport(HumanPipeline, species)
	dir := p.Config.OutputPath(species + speciesResultsDirSuffix)

	orthologPath := p.Config.DataPath(p.Config.Ortholog.File)
	uniprotPath := p.Config.DataPath(sp.UniProtMapping)
	orthologSpec := filter.OrthologSpec{
		Species:            species,
		Human:              p.Config.Ortholog.Human,
		HumanFirst:         p.Config.Ortholog.HumanFirst,
		AllowBidirectional: p.Config.Ortholog.AllowBidirectional,
	}

	var (
		binding, evidence Outcome[*model.InteractionSet]
		orthologs, uniprot Outcome[*model.MappingTable]
	)
	var g errgroup.Group
	g.Go(func() (err error) {
		binding, err = p.loadBinding(logger, sp.Taxon)
		return err
	})
	g.Go(func() (err error) {
		evidence, err = p.loadEvidence(logger, sp.Taxon)
		return err
	})
	g.Go(func() (err error) {
		orthologs, err = runStage(logger, "orthologs", model.NewMappingTable(model.UniProtAccession, model.UniProtAccession),
			func() (*model.MappingTable, any, error) {
				return fromFile(orthologPath, records.TSV, func(s records.Scanner) (*model.MappingTable, filter.Stats, error) {
					return filter.OrthologPairs(s, orthologSpec)
				})
			})
		return err
	})
	g.Go(func() (err error) {
		uniprot, err = runStage(logger, "stringdb_to_uniprot", model.NewMappingTable(model.StringDB, model.UniProtAccession),
			func() (*model.MappingTable, any, error) {
				table, stats, err := mapping.BuildFile(uniprotPath, records.TSVComment, mapping.StringDBToUniProt(sp.Taxon))
				return table, stats, err
			})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("map %s to human: %w", species, err)
	}
	report.Stages = append(report.Stages, binding.Report(), evidence.Report(), orthologs.Report(), uniprot.Report())
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, src := range []struct{ path, category string }{
		{p.Config.DataPath(p.Config.StringDB.ActionsFile(sp.Taxon)), "interactions"},
		{p.Config.DataPath(p.Config.StringDB.LinksFile(sp.Taxon)), "interactions"},
		{orthologPath, "orthologs"},
		{uniprotPath, "identifier mapping"},
	} {
		p.registerSource(ctx, logger, src.path, src.category, species)
	}

	writeStage(report, logger, "write:binding", filepath.Join(dir, fmt.Sprintf(BindingPPIsFile, sp.Taxon)),
		func(path string) (int, error) { return output.WritePPIs(path, binding.Value) })
	writeStage(report, logger, "write:evidence", filepath.Join(dir, fmt.Sprintf(ExperimentPPIsFile, sp.Taxon)),
		func(path string) (int, error) { return output.WritePPIs(path, evidence.Value) })

	ppis := filter.Intersect(binding.Value, evidence.Value)
	logger.Info().Int("binding", binding.Value.Len()).Int("evidence", evidence.Value.Len()).
		Int("both", ppis.Len()).Msg("binding interactions with experimental evidence")

	mapped := strategy(ppis, uniprot.Value, model.UniProtAccession)
	logger.Info().Int("mapped", mapped.Set.Len()).Int("failures", len(mapped.Failures)).
		Int("self_interactions", mapped.SelfInteractions).Msg("mapped to UniProt")
	writeStage(report, logger, "write:mapped", filepath.Join(dir, fmt.Sprintf(MappedPPIsFile, species)),
		func(path string) (int, error) { return output.WritePairs(path, mapped.Pairs, p.Config.Output.Annotate) })
	writeStage(report, logger, "write:uniprot_failures", filepath.Join(dir, UniProtFailuresFile),
		func(path string) (int, error) { return output.WriteFailures(path, mapped.Failures) })

	human := strategy(mapped.Set, orthologs.Value, model.UniProtAccession)
	logger.Info().Int("human", human.Set.Len()).Int("failures", len(human.Failures)).
		Int("self_interactions", human.SelfInteractions).Msg("mapped to human orthologs")
	writeStage(report, logger, "write:human", filepath.Join(dir, fmt.Sprintf(HumanPPIsFile, species)),
		func(path string) (int, error) { return output.WritePairs(path, human.Pairs, p.Config.Output.Annotate) })
	writeStage(report, logger, "write:ortholog_failures", filepath.Join(dir, OrthologFailuresFile),
		func(path string) (int, error) { return output.WriteFailures(path, human.Failures) })

	p.export(ctx, report, logger, "mapped_to_human", human.Set)

	report.Counts["binding"] = binding.Value.Len()
	report.Counts["evidence"] = evidence.Value.Len()
	report.Counts["binding_with_evidence"] = ppis.Len()
	report.Counts["mapped"] = mapped.Set.Len()
	report.Counts["mapping_failures"] = len(mapped.Failures)
	report.Counts["self_interactions"] = mapped.SelfInteractions
	report.Counts["human"] = human.Set.Len()
	report.Counts["ortholog_failures"] = len(human.Failures)
	report.Counts["human_self_interactions"] = human.SelfInteractions
	return p.finish(report, dir, logger), nil
}
