package endpoint

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aryankumar/swarmwatch/internal/cli/cmdutil"
	"github.com/aryankumar/swarmwatch/internal/cluster"
	"github.com/aryankumar/swarmwatch/internal/executor"
	"github.com/aryankumar/swarmwatch/internal/output"
	"github.com/aryankumar/swarmwatch/internal/swarm"
	"github.com/aryankumar/swarmwatch/internal/util"
	"github.com/spf13/cobra"
)

// newPingCmd creates the endpoint ping command
func newPingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check that endpoint daemons answer",
		Long: `Ping the daemon of each selected endpoint and report its swarm state.
Exits non-zero when any daemon does not answer.`,
		Example: `  # Ping every enabled endpoint
  swarmwatch endpoint ping --all

  # Show ping errors
  swarmwatch endpoint ping --all --wide`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPing(cmd.Context(), cmd.OutOrStdout())
		},
	}

	return cmd
}

func runPing(ctx context.Context, w io.Writer) error {
	logger := slog.Default()

	session, err := cmdutil.Connect(ctx, logger)
	if err != nil {
		return err
	}
	defer session.Close()

	results := cmdutil.Run(ctx, session, func(ctx context.Context, client *cluster.Client) (swarm.ClusterIdentity, error) {
		if err := client.HealthCheck(ctx); err != nil {
			return swarm.ClusterIdentity{}, err
		}
		client.EnsureConnected(ctx)
		return client.Monitor.Identity(), nil
	})

	formatter, _, err := session.Formatter()
	if err != nil {
		return err
	}
	if err := formatter.FormatEndpoints(w, output.FromResults(results)); err != nil {
		return err
	}

	if err := executor.Errors(results); err != nil {
		return fmt.Errorf("%w: %d of %d endpoints did not answer: %w",
			util.ErrConnectionFailed, executor.CountFailed(results), len(results), err)
	}
	return nil
}
