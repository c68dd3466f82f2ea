package main

import (
	"time"

	"github.com/spf13/cobra"

	"sitecms/api/analytics"
	"sitecms/api/config"
	"sitecms/api/database"
	"sitecms/api/store"
)

func newSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Compute an engagement summary from the configured activity log",
		Example: `  analyticsctl summary --range 30d --per-resource
  analyticsctl summary --start 2025-03-01T00:00:00Z --end 2025-03-31T23:59:59Z --resource 42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := queryFromFlags(time.Now())
			if err != nil {
				return err
			}
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

			var source analytics.EventSource = store.NewPostgresActivityStore(pg.DB)
			if cfg.EventStore == config.EventStoreClickHouse {
				ch, err := database.NewClickHouseDB(ctx, cfg.ClickHouse)
				if err != nil {
					return err
				}
				defer ch.Close()
				source = store.NewClickHouseActivityStore(ch)
			}

			engine := analytics.NewEngine(source, store.NewPageStore(pg.DB), cfg.EngineOptions())
			return run(ctx, cmd.OutOrStdout(), analytics.NewService(engine, nil), q)
		},
	}
	addQueryFlags(cmd)
	return cmd
}
