package endpoint

import (
	"fmt"
	"io"

	"github.com/aryankumar/swarmwatch/internal/cli/cmdutil"
	"github.com/spf13/cobra"
)

// newUseCmd creates the endpoint use command
func newUseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "use NAME",
		Aliases: []string{"switch"},
		Short:   "Set the current endpoint",
		Long: `Set the endpoint commands target when no --endpoint, --label or --all
is given.`,
		Example:           `  swarmwatch endpoint use prod-east`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: cmdutil.CompleteEndpoints,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUse(cmd.OutOrStdout(), args[0])
		},
	}

	return cmd
}

func runUse(w io.Writer, name string) error {
	cfg, err := cmdutil.LoadConfig()
	if err != nil {
		return err
	}

	if err := requireConfigured(cfg, name); err != nil {
		return err
	}

	cfg.SetDefaultEndpoint(name)
	if err := cfg.Save(); err != nil {
		return err
	}

	fmt.Fprintf(w, "Switched to endpoint %q\n", name)

	return nil
}
