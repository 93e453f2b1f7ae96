package cli

import (
	"fmt"

	"github.com/rpupo63/personal-blog-backend/database"
	"github.com/rpupo63/personal-blog-backend/models"
	"github.com/spf13/cobra"
)

func NewGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Developer tooling around the models",
	}

	cmd.AddCommand(newGenerateQueriesCommand())
	cmd.AddCommand(newGenerateReportCommand())

	return cmd
}

func newGenerateQueriesCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "queries",
		Short: "Generate typed query helpers with gorm/gen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			db, err := database.Open(cmd.Context(), cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			return models.GenerateQueries(db.DB(), out)
		},
	}

	cmd.Flags().StringVar(&out, "out", "./generated", "output directory")

	return cmd
}

func newGenerateReportCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Compare the database columns with the model fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			db, err := database.Open(cmd.Context(), cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			reports, err := models.ColumnReport(db.DB())
			if err != nil {
				return err
			}

			total := printColumnReport(cmd, reports)
			if strict && total > 0 {
				return fmt.Errorf("%d mismatched columns", total)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any column is mismatched")

	return cmd
}

func printColumnReport(cmd *cobra.Command, reports []models.TableReport) int {
	out := cmd.OutOrStdout()
	total := 0

	fmt.Fprintln(out, "=== COLUMN MISMATCH REPORT ===")
	for _, r := range reports {
		fmt.Fprintf(out, "\n--- Table: %s ---\n", r.Table)
		switch {
		case !r.Exists:
			fmt.Fprintln(out, "Table does not exist yet (run migrate up)")
		case r.Mismatches() == 0:
			fmt.Fprintln(out, "All columns are accounted for in the model.")
		default:
			for _, col := range r.ExtraColumns {
				fmt.Fprintf(out, "  + %s (database only)\n", col)
			}
			for _, col := range r.MissingColumns {
				fmt.Fprintf(out, "  - %s (model only)\n", col)
			}
		}
		total += r.Mismatches()
	}

	fmt.Fprintf(out, "\n=== SUMMARY ===\n")
	fmt.Fprintf(out, "Total mismatched columns across all tables: %d\n", total)
	return total
}
