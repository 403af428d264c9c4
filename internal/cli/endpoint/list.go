package endpoint

import (
	"io"

	"github.com/aryankumar/swarmwatch/internal/cli/cmdutil"
	"github.com/spf13/cobra"
)

// newListCmd creates the endpoint list command
func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List configured endpoints",
		Long: `List the endpoints in the config file. The current endpoint, used when
no --endpoint, --label or --all is given, is marked with *.`,
		Example: `  # List endpoints
  swarmwatch endpoint list

  # Include labels
  swarmwatch endpoint list --wide`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.OutOrStdout())
		},
	}

	return cmd
}

func runList(w io.Writer) error {
	cfg, err := cmdutil.LoadConfig()
	if err != nil {
		return err
	}

	formatter, _, err := cmdutil.NewFormatter(cfg)
	if err != nil {
		return err
	}

	return formatter.Format(w, cfg.ListEndpoints())
}
