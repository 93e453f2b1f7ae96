package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rpupo63/personal-blog-backend/api"
	"github.com/rpupo63/personal-blog-backend/database"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func NewServeCommand() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long:  `Start the HTTP server. Pending migrations are applied first unless --migrate=false.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			db, err := database.Open(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			if migrate {
				applied, err := database.NewMigrator(db.DB()).Migrate(ctx)
				if err != nil {
					return err
				}
				log.Info().Int("applied", applied).Msg("Migrations up to date")
			}

			server, err := api.NewServer(cfg, db)
			if err != nil {
				return fmt.Errorf("error initializing server: %w", err)
			}

			// a failing listener cancels ctx too, so both paths end in a graceful shutdown
			g, ctx := errgroup.WithContext(ctx)
			g.Go(server.Start)
			g.Go(func() error {
				<-ctx.Done()
				log.Info().Msg("Closing server")
				server.ShutdownGracefully(cfg.ShutdownTimeout())
				return nil
			})

			if err := g.Wait(); err != nil {
				return fmt.Errorf("server stopped: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", true, "apply pending migrations before serving")

	return cmd
}
