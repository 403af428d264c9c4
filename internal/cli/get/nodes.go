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

type nodesOptions struct {
	role string
}

func newGetNodesCmd() *cobra.Command {
	opts := &nodesOptions{}

	cmd := &cobra.Command{
		Use:     "nodes",
		Aliases: []string{"node", "no"},
		Short:   "Get swarm nodes across endpoints",
		Long: `Get the nodes of each selected swarm, managers first.

Displays hostname, role, status, availability, manager reachability, address,
CPU and memory capacity and engine version. Use --wide for platform details
and node status messages.`,
		Example: `  # Get all nodes of the current endpoint
  swarmwatch get nodes

  # Get manager nodes of every endpoint
  swarmwatch get nodes --all --role manager

  # Get nodes in YAML format
  swarmwatch get nodes -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGetNodes(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.role, "role", "", "only show nodes with this role (manager, worker)")

	return cmd
}

func runGetNodes(ctx context.Context, w io.Writer, opts *nodesOptions) error {
	role := swarm.Role(strings.ToLower(opts.role))
	if role != "" && role != swarm.RoleManager && role != swarm.RoleWorker {
		return util.NewValidationError("role", opts.role, "must be manager or worker")
	}

	return listRows(ctx, w, "nodes",
		func(ctx context.Context, client *cluster.Client) ([]swarm.Node, error) {
			nodes, err := client.Monitor.NodesE(ctx)
			if err != nil {
				return nil, err
			}
			return filterNodes(nodes, role), nil
		},
		func(endpoint string, node swarm.Node) output.NodeRow {
			return output.NodeRow{Endpoint: endpoint, Node: node}
		})
}

func filterNodes(nodes []swarm.Node, role swarm.Role) []swarm.Node {
	if role == "" {
		return nodes
	}

	filtered := make([]swarm.Node, 0, len(nodes))
	for _, node := range nodes {
		if node.Role == role {
			filtered = append(filtered, node)
		}
	}
	return filtered
}
