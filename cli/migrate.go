package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/rpupo63/personal-blog-backend/database"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(newMigrateUpCommand())
	cmd.AddCommand(newMigrateDownCommand())
	cmd.AddCommand(newMigrateStatusCommand())

	return cmd
}

// withMigrator loads the configuration, opens the database and hands a migrator to fn
func withMigrator(cmd *cobra.Command, fn func(*database.Migrator) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := database.Open(cmd.Context(), cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(database.NewMigrator(db.DB()))
}

func newMigrateUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd, func(m *database.Migrator) error {
				applied, err := m.Migrate(cmd.Context())
				if err != nil {
					return err
				}
				log.Info().Int("applied", applied).Msg("Migrations up to date")
				return nil
			})
		},
	}
}

func newMigrateDownCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Revert the most recently applied migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd, func(m *database.Migrator) error {
				reverted, err := m.Rollback(cmd.Context())
				if err != nil {
					return err
				}
				if reverted == nil {
					log.Info().Msg("No migration to revert")
					return nil
				}
				log.Info().
					Int("version", reverted.Version).
					Str("description", reverted.Description).
					Msg("Migration reverted")
				return nil
			})
		},
	}
}

func newMigrateStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List migrations and whether they are applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd, func(m *database.Migrator) error {
				statuses, err := m.Status(cmd.Context())
				if err != nil {
					return err
				}
				printMigrationStatus(cmd, statuses)
				return nil
			})
		},
	}
}

func printMigrationStatus(cmd *cobra.Command, statuses []database.MigrationStatus) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tDESCRIPTION\tAPPLIED AT")
	for _, s := range statuses {
		appliedAt := "pending"
		if s.Applied && s.AppliedAt != nil {
			appliedAt = s.AppliedAt.UTC().Format(time.RFC3339)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", s.Version, s.Description, appliedAt)
	}
	w.Flush()
}
