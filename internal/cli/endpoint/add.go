package endpoint

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/aryankumar/swarmwatch/internal/cli/cmdutil"
	"github.com/aryankumar/swarmwatch/internal/config"
	"github.com/spf13/cobra"
)

type addOptions struct {
	host       string
	tlsVerify  bool
	certPath   string
	apiVersion string
	alias      string
	labels     []string
	disabled   bool
	force      bool
}

// newAddCmd creates the endpoint add command
func newAddCmd() *cobra.Command {
	opts := &addOptions{}

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a Docker endpoint to swarmwatch configuration",
		Long: `Add a Docker endpoint to swarmwatch configuration.

The host takes the same forms as DOCKER_HOST. For TLS, point --cert-path at a
directory holding ca.pem, cert.pem and key.pem.`,
		Example: `  # Add a TLS endpoint with labels
  swarmwatch endpoint add prod-east --host tcp://10.0.0.1:2376 \
    --cert-path ~/.docker/prod-east --tls-verify -l env=prod -l region=east

  # Add a local socket under another name
  swarmwatch endpoint add dev --host unix:///var/run/docker.sock`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.host, "host", "", "daemon address, e.g. tcp://10.0.0.1:2376 (required)")
	cmd.Flags().BoolVar(&opts.tlsVerify, "tls-verify", false, "verify the daemon certificate")
	cmd.Flags().StringVar(&opts.certPath, "cert-path", "", "directory holding ca.pem, cert.pem and key.pem")
	cmd.Flags().StringVar(&opts.apiVersion, "api-version", "", "pin the Engine API version instead of negotiating")
	cmd.Flags().StringVar(&opts.alias, "alias", "", "friendly name shown next to the endpoint")
	cmd.Flags().StringSliceVar(&opts.labels, "set-label", []string{}, "endpoint label as key=value (repeatable)")
	cmd.Flags().BoolVar(&opts.disabled, "disabled", false, "exclude the endpoint from --all")
	cmd.Flags().BoolVar(&opts.force, "force", false, "overwrite an existing endpoint")
	_ = cmd.MarkFlagRequired("host")

	return cmd
}

func runAdd(w io.Writer, name string, opts *addOptions) error {
	cfg, err := cmdutil.LoadConfig()
	if err != nil {
		return err
	}

	if _, exists := cfg.GetEndpointConfig(name); exists && !opts.force {
		return fmt.Errorf("endpoint %q already exists, use --force to overwrite", name)
	}

	labels, err := config.ParseLabels(opts.labels)
	if err != nil {
		return err
	}

	endpoint := config.EndpointConfig{
		Host:       opts.host,
		TLSVerify:  opts.tlsVerify,
		CertPath:   opts.certPath,
		APIVersion: opts.apiVersion,
		Alias:      opts.alias,
		Enabled:    !opts.disabled,
	}
	if len(labels) > 0 {
		endpoint.Labels = labels
	}

	if err := config.ValidateEndpoint(name, endpoint); err != nil {
		return err
	}

	cfg.SetEndpointConfig(name, endpoint)
	if err := cfg.Save(); err != nil {
		return err
	}

	slog.Debug("endpoint saved", "endpoint", name, "file", cfg.Path())
	fmt.Fprintf(w, "Endpoint %q added\n", name)

	return nil
}
