package get

import (
	"context"
	"io"

	"github.com/aryankumar/swarmwatch/internal/cluster"
	"github.com/aryankumar/swarmwatch/internal/output"
	"github.com/aryankumar/swarmwatch/internal/swarm"
	"github.com/spf13/cobra"
)

func newGetResourcesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "resources",
		Aliases: []string{"resource", "res"},
		Short:   "Get cluster capacity across endpoints",
		Long: `Get the aggregate of each selected swarm: node counts by status and role,
and the total CPU and memory capacity of its nodes.`,
		Example: `  # Capacity of every endpoint
  swarmwatch get resources --all`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGetResources(cmd.Context(), cmd.OutOrStdout())
		},
	}

	return cmd
}

func runGetResources(ctx context.Context, w io.Writer) error {
	return listRows(ctx, w, "resources",
		one(func(ctx context.Context, client *cluster.Client) (swarm.ClusterResources, error) {
			nodes, err := client.Monitor.NodesE(ctx)
			if err != nil {
				return swarm.ClusterResources{}, err
			}
			return swarm.Aggregate(nodes), nil
		}),
		func(endpoint string, res swarm.ClusterResources) output.ResourceRow {
			return output.ResourceRow{Endpoint: endpoint, ClusterResources: res}
		})
}
