package main

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"sitecms/api/analytics"
	"sitecms/api/logging"
	"sitecms/api/store"
)

func newReplayCmd() *cobra.Command {
	var (
		file       string
		sessionGap time.Duration
		lastDwell  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Compute a summary offline from a JSON-lines export of the activity log",
		Example: `  analyticsctl replay --file events.jsonl --start 2025-03-01T00:00:00Z --end 2025-03-02T00:00:00Z
  analyticsctl replay --file events.jsonl --range 90d --sessions`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return errors.New("--file is required")
			}
			q, err := queryFromFlags(time.Now())
			if err != nil {
				return err
			}
			src, err := store.OpenJSONLSource(file)
			if err != nil {
				return err
			}
			logging.Info().Str("file", file).Int("records", src.Len()).Msg("loaded events")

			opts := analytics.DefaultOptions()
			opts.SessionGap = sessionGap
			opts.Dwell.LastEvent = lastDwell
			engine := analytics.NewEngine(src, nil, opts)
			return run(cmd.Context(), cmd.OutOrStdout(), analytics.NewService(engine, nil), q)
		},
	}
	addQueryFlags(cmd)
	cmd.Flags().StringVar(&file, "file", "", "JSON-lines file, one event per line")
	cmd.Flags().DurationVar(&sessionGap, "session-gap", analytics.DefaultSessionGap, "inactivity gap that ends a session")
	cmd.Flags().DurationVar(&lastDwell, "last-event-dwell", analytics.DefaultDwellOptions().LastEvent, "dwell assigned to the last event of a session")
	return cmd
}
