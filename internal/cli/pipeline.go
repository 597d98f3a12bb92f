package cli

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/agenthands/ppimap/internal/config"
	"github.com/agenthands/ppimap/internal/core"
	"github.com/agenthands/ppimap/internal/output"
)

func newHumanCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "human",
		Short: "Map a species' binding interactions onto human proteins",
		Long: `Maps the StringDB binding interactions of a species that have
experimental evidence onto UniProt accessions, then through the HCOP
ortholog table onto human accessions.

A species missing from the configuration can be run by giving its taxon.`,
		Example: `  ppimap human --species YEAST
  ppimap human --species MOUSE --taxon 10090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			species, _ := cmd.Flags().GetString("species")
			taxon, _ := cmd.Flags().GetString("taxon")
			mapping, _ := cmd.Flags().GetString("uniprot-mapping")

			if taxon != "" || mapping != "" {
				app.Config.Species = withSpecies(app.Config, species, taxon, mapping)
			}
			return app.runPipeline(cmd, func(ctx context.Context, p *core.Pipeline) (*output.Report, error) {
				return p.MapToHuman(ctx, species)
			})
		},
	}
	cmd.Flags().StringP("species", "s", "YEAST", "ortholog species code")
	cmd.Flags().StringP("taxon", "t", "", "StringDB taxon, overriding the configured one")
	cmd.Flags().String("uniprot-mapping", "", "UniProt to StringDB mapping file for the species")
	return cmd
}

func newOverlapCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "overlap",
		Short: "Compare human StringDB interactions with BioGrid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.runPipeline(cmd, func(ctx context.Context, p *core.Pipeline) (*output.Report, error) {
				return p.StringDBBioGridOverlap(ctx)
			})
		},
	}
}

// withSpecies returns the configured species with name's taxon and mapping
// replaced, adding name when it is not configured. New species fall back to
// the all-organisms mapping file.
func withSpecies(cfg *config.Config, name, taxon, mapping string) []config.SpeciesConfig {
	out := slices.Clone(cfg.Species)
	for i, s := range out {
		if strings.EqualFold(s.Name, name) {
			if taxon != "" {
				out[i].Taxon = taxon
			}
			if mapping != "" {
				out[i].UniProtMapping = mapping
			}
			return out
		}
	}
	if mapping == "" {
		mapping = cfg.StringDB.UniProtMapping
	}
	return append(out, config.SpeciesConfig{Name: strings.ToUpper(name), Taxon: taxon, UniProtMapping: mapping})
}

func (a *App) runPipeline(cmd *cobra.Command, run func(context.Context, *core.Pipeline) (*output.Report, error)) error {
	ctx := cmd.Context()

	st, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	exporter, closeExporter, err := a.openExporter(ctx)
	if err != nil {
		return err
	}
	defer closeExporter()

	report, err := run(ctx, core.NewPipeline(a.Config, st, exporter, a.Logger))
	if err != nil {
		return err
	}
	return printSummary(cmd.OutOrStdout(), report)
}

func printSummary(w io.Writer, r *output.Report) error {
	title := r.Pipeline
	if r.Species != "" {
		title += " " + r.Species
	}
	fmt.Fprintf(w, "run %s (%s) finished in %s\n", r.RunID, title, r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond))

	table := tablewriter.NewTable(w)
	table.Header("Count", "Value")
	for _, k := range slices.Sorted(maps.Keys(r.Counts)) {
		if err := table.Append(k, strconv.Itoa(r.Counts[k])); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	if degraded := r.Degraded(); len(degraded) > 0 {
		fmt.Fprintf(w, "degraded stages: %s\n", strings.Join(degraded, ", "))
	}
	for _, path := range r.Outputs {
		fmt.Fprintf(w, "wrote %s\n", path)
	}
	return nil
}
