package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aryankumar/swarmwatch/internal/cli/cmdutil"
	"github.com/aryankumar/swarmwatch/internal/cluster"
	"github.com/aryankumar/swarmwatch/internal/output"
	"github.com/aryankumar/swarmwatch/internal/swarm"
	"github.com/aryankumar/swarmwatch/internal/util"
	"github.com/spf13/cobra"
)

type checkOptions struct {
	failOn string
}

func newCheckCmd() *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Evaluate swarm health and fail on alerts",
		Long: `Evaluate the health of each selected endpoint and print the alerts.

The command exits non-zero when any alert is at or above the --fail-on
severity, so it can gate deploys or run as a cron job. An unreachable
daemon raises a critical connection alert.`,
		Example: `  # Fail on any alert
  swarmwatch check

  # Fail only on down nodes, down services and lost daemons
  swarmwatch check --all --fail-on critical`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.failOn, "fail-on", string(swarm.SeverityWarning), "lowest alert severity that fails the check (warning, high, critical)")

	return cmd
}

func parseSeverity(name string) (swarm.AlertSeverity, error) {
	severity := swarm.AlertSeverity(strings.ToLower(name))
	if severity.Rank() == 0 {
		return "", util.NewValidationError("fail-on", name, "must be one of warning, high, critical")
	}
	return severity, nil
}

func runCheck(ctx context.Context, w io.Writer, opts *checkOptions) error {
	threshold, err := parseSeverity(opts.failOn)
	if err != nil {
		return err
	}

	logger := slog.Default()

	session, err := cmdutil.Connect(ctx, logger)
	if err != nil {
		return err
	}
	defer session.Close()

	results := cmdutil.Run(ctx, session, func(ctx context.Context, client *cluster.Client) ([]swarm.Alert, error) {
		client.EnsureConnected(ctx)
		return client.Monitor.CheckHealth(ctx), nil
	})
	if cmdutil.ReportFailures(logger, results) == 0 {
		return fmt.Errorf("no endpoint could be checked")
	}

	var (
		rows    = make([]output.AlertRow, 0)
		failing []swarm.Alert
	)
	for _, r := range results {
		if r.Error != nil {
			continue
		}
		for _, alert := range r.Data {
			rows = append(rows, output.AlertRow{Endpoint: r.Endpoint, Alert: alert})
		}
		failing = append(failing, swarm.AtLeast(r.Data, threshold)...)
	}

	formatter, _, err := session.Formatter()
	if err != nil {
		return err
	}
	if err := formatter.Format(w, rows); err != nil {
		return err
	}

	if len(failing) > 0 {
		return fmt.Errorf("%w: %d alerts at or above %s", util.ErrUnhealthy, len(failing), threshold)
	}
	return nil
}
