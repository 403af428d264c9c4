package endpoint

import (
	"fmt"
	"io"

	"github.com/aryankumar/swarmwatch/internal/cli/cmdutil"
	"github.com/spf13/cobra"
)

// newRemoveCmd creates the endpoint remove command
func newRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remove NAME",
		Aliases: []string{"rm"},
		Short:   "Remove an endpoint from swarmwatch configuration",
		Long: `Remove an endpoint from swarmwatch configuration. Removing the current
endpoint clears the current selection.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: cmdutil.CompleteEndpoints,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(cmd.OutOrStdout(), args[0])
		},
	}

	return cmd
}

func runRemove(w io.Writer, name string) error {
	cfg, err := cmdutil.LoadConfig()
	if err != nil {
		return err
	}

	if err := requireConfigured(cfg, name); err != nil {
		return err
	}

	cfg.RemoveEndpointConfig(name)
	if err := cfg.Save(); err != nil {
		return err
	}

	fmt.Fprintf(w, "Endpoint %q removed\n", name)

	return nil
}
