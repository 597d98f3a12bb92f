package core

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/agenthands/ppimap/internal/core/filter"
	"github.com/agenthands/ppimap/internal/core/mapping"
	"github.com/agenthands/ppimap/internal/core/model"
	"github.com/agenthands/ppimap/internal/core/overlap"
	"github.com/agenthands/ppimap/internal/core/resolve"
	"github.com/agenthands/ppimap/internal/output"
	"github.com/agenthands/ppimap/internal/records"
)

// StringDBBioGridOverlap compares human StringDB binding interactions that
// have experimental evidence with BioGrid interactions. BioGrid's Entrez
// Gene pairs are mapped to StringDB pairs, the two sets are split into overlap
// and remainders, and each part is written out in UniProt accessions. Both
// mappings use the configured overlap strategy; the default cross-product
// expands every combination of mapped identifiers.
func (p *Pipeline) StringDBBioGridOverlap(ctx context.Context) (*output.Report, error) {
	strategy, err := resolve.ByName(p.Config.Resolve.Overlap)
	if err != nil {
		return nil, err
	}
	report, logger := p.newReport(OverlapPipeline, "")
	dir := p.Config.OutputPath(overlapDir)

	taxon := p.Config.StringDB.HumanTaxon
	bioGridTaxon := p.Config.BioGrid.Taxon
	bioGridPath := p.Config.DataPath(p.Config.BioGrid.File)
	entrezPath := p.Config.DataPath(p.Config.StringDB.EntrezMapping)
	uniprotPath := p.Config.DataPath(p.Config.StringDB.UniProtMapping)

	var (
		binding, evidence, bioGrid Outcome[*model.InteractionSet]
		entrez, uniprot            Outcome[*model.MappingTable]
	)
	var g errgroup.Group
	g.Go(func() (err error) {
		binding, err = p.loadBinding(logger, taxon)
		return err
	})
	g.Go(func() (err error) {
		evidence, err = p.loadEvidence(logger, taxon)
		return err
	})
	g.Go(func() (err error) {
		bioGrid, err = runStage(logger, "biogrid", model.NewInteractionSet(), func() (*model.InteractionSet, any, error) {
			return fromFile(bioGridPath, records.TSVHeader, func(s records.Scanner) (*model.InteractionSet, filter.Stats, error) {
				return filter.BioGridPairs(s, bioGridTaxon)
			})
		})
		return err
	})
	g.Go(func() (err error) {
		entrez, err = runStage(logger, "entrez_to_stringdb", model.NewMappingTable(model.EntrezGene, model.StringDB),
			func() (*model.MappingTable, any, error) {
				return mapping.BuildFile(entrezPath, records.TSVComment, mapping.EntrezToStringDB(bioGridTaxon))
			})
		return err
	})
	g.Go(func() (err error) {
		uniprot, err = runStage(logger, "stringdb_to_uniprot", model.NewMappingTable(model.StringDB, model.UniProtAccession),
			func() (*model.MappingTable, any, error) {
				return mapping.BuildFile(uniprotPath, records.TSVComment, mapping.StringDBToUniProt(taxon))
			})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("stringdb/biogrid overlap: %w", err)
	}
	report.Stages = append(report.Stages,
		binding.Report(), evidence.Report(), bioGrid.Report(), entrez.Report(), uniprot.Report())
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, src := range []struct{ path, category string }{
		{p.Config.DataPath(p.Config.StringDB.ActionsFile(taxon)), "interactions"},
		{p.Config.DataPath(p.Config.StringDB.LinksFile(taxon)), "interactions"},
		{bioGridPath, "interactions"},
		{entrezPath, "identifier mapping"},
		{uniprotPath, "identifier mapping"},
	} {
		p.registerSource(ctx, logger, src.path, src.category, "Homo sapiens")
	}

	stringDB := filter.Intersect(binding.Value, evidence.Value)
	fromBioGrid := strategy(bioGrid.Value, entrez.Value, model.StringDB)
	logger.Info().Int("biogrid", bioGrid.Value.Len()).Int("mapped", fromBioGrid.Set.Len()).
		Int("failures", len(fromBioGrid.Failures)).Int("self_interactions", fromBioGrid.SelfInteractions).
		Msg("mapped BioGrid to StringDB")
	writeStage(report, logger, "write:biogrid_failures", filepath.Join(dir, BioGridFailuresFile),
		func(path string) (int, error) { return output.WriteFailures(path, fromBioGrid.Failures) })

	parts := overlap.Compute(stringDB, fromBioGrid.Set)
	logger.Info().Int("overlap", parts.Intersection.Len()).Int("stringdb_only", parts.RemainderX.Len()).
		Int("biogrid_only", parts.RemainderY.Len()).Msg("overlap computed")

	var uniprotFailures []model.MappingFailure
	uniprotSelf := 0
	for _, part := range []struct {
		label, file string
		set         *model.InteractionSet
	}{
		{"overlap", OverlapFile, parts.Intersection},
		{"stringdb_only", StringDBOnlyFile, parts.RemainderX},
		{"biogrid_only", BioGridOnlyFile, parts.RemainderY},
	} {
		translated := strategy(part.set, uniprot.Value, model.UniProtAccession)
		uniprotFailures = append(uniprotFailures, translated.Failures...)
		uniprotSelf += translated.SelfInteractions
		writeStage(report, logger, "write:"+part.label, filepath.Join(dir, part.file),
			func(path string) (int, error) { return output.WritePairs(path, translated.Pairs, false) })

		p.export(ctx, report, logger, part.label, part.set)
		report.Counts[part.label] = part.set.Len()
		report.Counts[part.label+"_uniprot"] = translated.Set.Len()
	}
	writeStage(report, logger, "write:uniprot_failures", filepath.Join(dir, UniProtFailuresFile),
		func(path string) (int, error) { return output.WriteFailures(path, uniprotFailures) })

	report.Counts["stringdb"] = stringDB.Len()
	report.Counts["biogrid"] = bioGrid.Value.Len()
	report.Counts["biogrid_in_stringdb"] = fromBioGrid.Set.Len()
	report.Counts["biogrid_mapping_failures"] = len(fromBioGrid.Failures)
	report.Counts["biogrid_self_interactions"] = fromBioGrid.SelfInteractions
	report.Counts["uniprot_mapping_failures"] = len(uniprotFailures)
	report.Counts["uniprot_self_interactions"] = uniprotSelf
	return p.finish(report, dir, logger), nil
}
