// analyticsctl computes engagement summaries from the command line, either
// against the configured activity log or offline from a JSON-lines export.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"sitecms/api/analytics"
	"sitecms/api/config"
	"sitecms/api/logging"
	"sitecms/api/utils"
)

// Shared query flags
var (
	rangeFlag       string
	startFlag       string
	endFlag         string
	resourceFlag    string
	limitFlag       int
	perResourceFlag bool
	sessionsFlag    bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "analyticsctl",
		Short:         "Session and engagement analytics for the site",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init(logging.Config{Level: os.Getenv("LOG_LEVEL"), Format: "console"})
		},
	}
	root.AddCommand(newSummaryCmd(), newReplayCmd(), newMigrateCmd(), newAdminCmd())
	return root
}

func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&rangeFlag, "range", "", "relative window: 24h, 7d, 30d or 90d (default 7d)")
	cmd.Flags().StringVar(&startFlag, "start", "", "explicit window start (RFC3339)")
	cmd.Flags().StringVar(&endFlag, "end", "", "explicit window end (RFC3339)")
	cmd.Flags().StringVar(&resourceFlag, "resource", "", "restrict to one page id")
	cmd.Flags().IntVar(&limitFlag, "limit", 0, "number of top resources (default from config)")
	cmd.Flags().BoolVar(&perResourceFlag, "per-resource", false, "include the per-resource rollup")
	cmd.Flags().BoolVar(&sessionsFlag, "sessions", false, "print reconstructed sessions instead of the summary")
}

func queryFromFlags(now time.Time) (analytics.Query, error) {
	r, err := analytics.ParseRange(rangeFlag, startFlag, endFlag, now)
	if err != nil {
		return analytics.Query{}, err
	}
	resourceID, err := utils.ParseOptionalID(resourceFlag)
	if err != nil {
		return analytics.Query{}, fmt.Errorf("--resource: %w", err)
	}
	if limitFlag < 0 {
		return analytics.Query{}, fmt.Errorf("--limit must be positive")
	}
	return analytics.Query{
		Range:              r,
		ResourceID:         resourceID,
		TopN:               limitFlag,
		IncludePerResource: perResourceFlag,
	}, nil
}

// run prints either the summary or the session listing for q.
func run(ctx context.Context, out io.Writer, svc *analytics.Service, q analytics.Query) error {
	if sessionsFlag {
		listing, err := svc.Sessions(ctx, q.Range)
		if err != nil {
			return err
		}
		return writeJSON(out, listing)
	}
	summary, err := svc.Summary(ctx, q)
	if err != nil {
		return err
	}
	return writeJSON(out, summary)
}

func writeJSON(w io.Writer, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: "console"})
	return cfg, nil
}
