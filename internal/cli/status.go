package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aryankumar/swarmwatch/internal/cli/cmdutil"
	"github.com/aryankumar/swarmwatch/internal/cluster"
	"github.com/aryankumar/swarmwatch/internal/output"
	"github.com/spf13/cobra"
)

// summaryDoc is the structured form of one endpoint's summary
type summaryDoc struct {
	Endpoint string `json:"endpoint" yaml:"endpoint"`
	Summary  string `json:"summary" yaml:"summary"`
}

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print the swarm summary report",
		Long: `Print the human-readable swarm report of each selected endpoint: cluster
capacity, node readiness, the node table and the service table.

Endpoints that are unreachable, not in a swarm, or attached to a worker node
report their state in a single line instead.`,
		Example: `  # Summary of the current endpoint
  swarmwatch status

  # Summaries of every production endpoint
  swarmwatch status -l env=prod

  # Summary as JSON
  swarmwatch status -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.Context(), cmd.OutOrStdout())
		},
	}

	return cmd
}

func runStatus(ctx context.Context, w io.Writer) error {
	logger := slog.Default()

	session, err := cmdutil.Connect(ctx, logger)
	if err != nil {
		return err
	}
	defer session.Close()

	results := cmdutil.Run(ctx, session, func(ctx context.Context, client *cluster.Client) (string, error) {
		client.EnsureConnected(ctx)
		return client.Monitor.SummaryText(ctx), nil
	})
	if cmdutil.ReportFailures(logger, results) == 0 {
		return fmt.Errorf("no endpoint returned a summary")
	}

	formatter, format, err := session.Formatter()
	if err != nil {
		return err
	}

	if format != output.FormatTable {
		docs := make([]summaryDoc, 0, len(results))
		for _, r := range results {
			if r.Error == nil {
				docs = append(docs, summaryDoc{Endpoint: r.Endpoint, Summary: r.Data})
			}
		}
		return formatter.Format(w, docs)
	}

	for i, r := range results {
		if r.Error != nil {
			continue
		}
		if i > 0 && len(results) > 1 {
			fmt.Fprintln(w)
		}
		cmdutil.Heading(w, r.Endpoint, len(results))
		fmt.Fprintln(w, r.Data)
	}

	return nil
}
