package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agenthands/ppimap/internal/core/model"
	ppierrors "github.com/agenthands/ppimap/internal/errors"
)

func newProvenanceCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "provenance",
		Aliases: []string{"prov"},
		Short:   "Inspect and record data set provenance",
	}
	cmd.AddCommand(
		newProvenanceAddCommand(app),
		newProvenanceGetCommand(app),
		newProvenanceListCommand(app),
	)
	return cmd
}

func newProvenanceAddCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a data set, returning the existing record if there is one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			name, _ := cmd.Flags().GetString("name")
			url, _ := cmd.Flags().GetString("url")
			category, _ := cmd.Flags().GetString("category")
			entity, _ := cmd.Flags().GetString("entity")

			st, err := app.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			p, err := st.AddOrGetExisting(cmd.Context(), model.Provenance{
				Name:             name,
				URL:              url,
				Category:         category,
				BiologicalEntity: entity,
			})
			if err != nil {
				return err
			}
			return printYAML(cmd.OutOrStdout(), p)
		},
	}
	cmd.Flags().String("name", "", "data set name")
	cmd.Flags().String("url", "", "where the data set was obtained")
	cmd.Flags().String("category", "", "e.g. interactions or identifier mapping")
	cmd.Flags().String("entity", "", "organism the data set describes")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newProvenanceGetCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one provenance record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return ppierrors.NewValidationError("id", args[0], "id must be an integer")
			}

			st, err := app.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			p, err := st.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printYAML(cmd.OutOrStdout(), p)
		},
	}
}

func newProvenanceListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list <name>",
		Short: "List provenance records with a given name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			records, err := st.GetByName(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printYAML(cmd.OutOrStdout(), records)
		},
	}
}
