package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aryankumar/swarmwatch/internal/cli/cmdutil"
	"github.com/aryankumar/swarmwatch/internal/cluster"
	"github.com/aryankumar/swarmwatch/internal/monitor"
	"github.com/aryankumar/swarmwatch/internal/output"
	"github.com/spf13/cobra"
)

func newSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Take a full heartbeat snapshot",
		Long: `Take one complete evaluation pass per endpoint: membership, local node,
cluster resources, nodes, services and health.

The table format condenses each snapshot into a status line; json and yaml
emit the full payload.`,
		Example: `  # Status line for every endpoint
  swarmwatch snapshot --all

  # Full heartbeat payload
  swarmwatch snapshot -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnapshot(cmd.Context(), cmd.OutOrStdout())
		},
	}

	return cmd
}

func runSnapshot(ctx context.Context, w io.Writer) error {
	logger := slog.Default()

	session, err := cmdutil.Connect(ctx, logger)
	if err != nil {
		return err
	}
	defer session.Close()

	results := cmdutil.Run(ctx, session, func(ctx context.Context, client *cluster.Client) (monitor.Snapshot, error) {
		client.EnsureConnected(ctx)
		return client.Monitor.FullSnapshot(ctx), nil
	})
	if cmdutil.ReportFailures(logger, results) == 0 {
		return fmt.Errorf("no endpoint returned a snapshot")
	}

	formatter, format, err := session.Formatter()
	if err != nil {
		return err
	}

	if format == output.FormatTable {
		rows := make([]output.StatusRow, 0, len(results))
		for _, r := range results {
			if r.Error == nil {
				rows = append(rows, output.NewStatusRow(r.Endpoint, r.Data))
			}
		}
		return formatter.Format(w, rows)
	}

	rows := make([]output.SnapshotRow, 0, len(results))
	for _, r := range results {
		if r.Error != nil {
			continue
		}
		if len(r.Data.Unavailable) > 0 {
			logger.Warn("snapshot is incomplete", "endpoint", r.Endpoint, "unavailable", r.Data.Unavailable)
		}
		rows = append(rows, output.SnapshotRow{Endpoint: r.Endpoint, Snapshot: r.Data})
	}
	return formatter.Format(w, rows)
}
