package get

import (
	"context"
	"io"
	"strings"

	"github.com/aryankumar/swarmwatch/internal/cluster"
	"github.com/aryankumar/swarmwatch/internal/output"
	"github.com/aryankumar/swarmwatch/internal/swarm"
	"github.com/aryankumar/swarmwatch/internal/util"
	"github.com/spf13/cobra"
)

type alertsOptions struct {
	severity string
}

func newGetAlertsCmd() *cobra.Command {
	opts := &alertsOptions{}

	cmd := &cobra.Command{
		Use:     "alerts",
		Aliases: []string{"alert"},
		Short:   "Get health alerts across endpoints",
		Long: `Evaluate the health of each selected swarm and list the alerts: down or
drained nodes, unreachable managers, and down or degraded services.

An unreachable daemon yields a single connection alert.`,
		Example: `  # All alerts of the current endpoint
  swarmwatch get alerts

  # Critical alerts only
  swarmwatch get alerts --severity critical`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGetAlerts(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.severity, "severity", "", "only show alerts at or above this severity (warning, high, critical)")

	return cmd
}

func runGetAlerts(ctx context.Context, w io.Writer, opts *alertsOptions) error {
	var threshold swarm.AlertSeverity
	if opts.severity != "" {
		threshold = swarm.AlertSeverity(strings.ToLower(opts.severity))
		if threshold.Rank() == 0 {
			return util.NewValidationError("severity", opts.severity, "must be one of warning, high, critical")
		}
	}

	return listRows(ctx, w, "alerts",
		func(ctx context.Context, client *cluster.Client) ([]swarm.Alert, error) {
			alerts := client.Monitor.CheckHealth(ctx)
			if threshold != "" {
				alerts = swarm.AtLeast(alerts, threshold)
			}
			return alerts, nil
		},
		func(endpoint string, alert swarm.Alert) output.AlertRow {
			return output.AlertRow{Endpoint: endpoint, Alert: alert}
		})
}
