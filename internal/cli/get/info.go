package get

import (
	"context"
	"io"

	"github.com/aryankumar/swarmwatch/internal/cluster"
	"github.com/aryankumar/swarmwatch/internal/monitor"
	"github.com/aryankumar/swarmwatch/internal/output"
	"github.com/spf13/cobra"
)

func newGetInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Get swarm membership across endpoints",
		Long: `Get whether each selected daemon is part of a swarm, whether it is a
manager, and the cluster's node and manager counts.`,
		Example: `  # Membership of every endpoint
  swarmwatch get info --all`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGetInfo(cmd.Context(), cmd.OutOrStdout())
		},
	}

	return cmd
}

func runGetInfo(ctx context.Context, w io.Writer) error {
	return listRows(ctx, w, "info",
		one(func(ctx context.Context, client *cluster.Client) (monitor.SwarmInfo, error) {
			return client.Monitor.SwarmInfo(ctx), nil
		}),
		func(endpoint string, info monitor.SwarmInfo) output.InfoRow {
			return output.InfoRow{Endpoint: endpoint, SwarmInfo: info}
		})
}
