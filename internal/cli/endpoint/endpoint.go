// Package endpoint implements the commands that manage the Docker endpoints
// in the swarmwatch config file.
package endpoint

import (
	"fmt"

	"github.com/aryankumar/swarmwatch/internal/config"
	"github.com/aryankumar/swarmwatch/internal/util"
	"github.com/spf13/cobra"
)

// NewEndpointCmd creates the endpoint management command
func NewEndpointCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "endpoint",
		Aliases: []string{"endpoints", "ep"},
		Short:   "Manage Docker endpoints",
		Long: `Manage the Docker endpoints swarmwatch talks to.

This command provides subcommands for listing, adding, removing and
selecting endpoints in the config file, and for checking that their
daemons answer. With no endpoints configured, swarmwatch uses the local
daemon from DOCKER_HOST.`,
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newAddCmd())
	cmd.AddCommand(newRemoveCmd())
	cmd.AddCommand(newUseCmd())
	cmd.AddCommand(newPingCmd())

	return cmd
}

// requireConfigured fails unless name is an endpoint in the config file
func requireConfigured(cfg *config.Manager, name string) error {
	if _, ok := cfg.GetEndpointConfig(name); !ok {
		return fmt.Errorf("%w: %q", util.ErrEndpointNotFound, name)
	}
	return nil
}
