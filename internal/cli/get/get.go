package get

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aryankumar/swarmwatch/internal/cli/cmdutil"
	"github.com/aryankumar/swarmwatch/internal/cluster"
	"github.com/aryankumar/swarmwatch/internal/executor"
	"github.com/spf13/cobra"
)

// NewGetCmd creates the get parent command
// This command aggregates all get subcommands (nodes, services, resources, alerts, info)
func NewGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Get swarm state across endpoints",
		Long: `Get normalized swarm state from the selected Docker endpoints.

Supports nodes, services, cluster resources, health alerts and swarm
membership info. Cluster-wide lists need the endpoint's daemon to be a
swarm manager; workers return empty lists.`,
		Example: `  # Get nodes of the current endpoint
  swarmwatch get nodes

  # Get degraded services on every endpoint
  swarmwatch get services --all --health degraded

  # Get cluster capacity in JSON format
  swarmwatch get resources -o json

  # Get alerts from specific endpoints
  swarmwatch get alerts -e prod-east -e prod-west`,
	}

	cmd.AddCommand(newGetNodesCmd())
	cmd.AddCommand(newGetServicesCmd())
	cmd.AddCommand(newGetResourcesCmd())
	cmd.AddCommand(newGetAlertsCmd())
	cmd.AddCommand(newGetInfoCmd())

	return cmd
}

// listRows queries every selected endpoint, tags each item with its endpoint
// and formats the combined rows. Endpoints whose query fails are logged and
// left out; it is an error only when all of them fail.
func listRows[T, R any](ctx context.Context, w io.Writer, what string,
	query func(ctx context.Context, client *cluster.Client) ([]T, error),
	row func(endpoint string, item T) R) error {
	logger := slog.Default()

	logger.Debug("getting " + what)

	session, err := cmdutil.Connect(ctx, logger)
	if err != nil {
		return err
	}
	defer session.Close()

	results := cmdutil.Run(ctx, session, func(ctx context.Context, client *cluster.Client) ([]T, error) {
		client.EnsureConnected(ctx)
		return query(ctx, client)
	})
	if cmdutil.ReportFailures(logger, results) == 0 {
		return fmt.Errorf("failed to get %s from any endpoint", what)
	}

	rows := make([]R, 0)
	for _, r := range executor.FilterSuccessful(results) {
		for _, item := range r.Data {
			rows = append(rows, row(r.Endpoint, item))
		}
	}

	formatter, _, err := session.Formatter()
	if err != nil {
		return err
	}
	return formatter.Format(w, rows)
}

// one wraps a single-valued query as a list query
func one[T any](query func(ctx context.Context, client *cluster.Client) (T, error)) func(context.Context, *cluster.Client) ([]T, error) {
	return func(ctx context.Context, client *cluster.Client) ([]T, error) {
		v, err := query(ctx, client)
		if err != nil {
			return nil, err
		}
		return []T{v}, nil
	}
}
