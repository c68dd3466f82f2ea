package main

import (
	"github.com/spf13/cobra"

	"sitecms/api/config"
	"sitecms/api/database"
	"sitecms/api/logging"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the admins, pages and activity log tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			pg, err := database.NewPostgresDB(ctx, cfg.Postgres)
			if err != nil {
				return err
			}
			defer pg.Close()
			if err := pg.EnsureSchema(ctx); err != nil {
				return err
			}

			if cfg.EventStore == config.EventStoreClickHouse {
				ch, err := database.NewClickHouseDB(ctx, cfg.ClickHouse)
				if err != nil {
					return err
				}
				defer ch.Close()
				if err := ch.EnsureSchema(ctx); err != nil {
					return err
				}
			}
			logging.Info().Str("event_store", cfg.EventStore).Msg("schema ready")
			return nil
		},
	}
}
