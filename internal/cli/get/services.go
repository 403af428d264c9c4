package get

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/aryankumar/swarmwatch/internal/cluster"
	"github.com/aryankumar/swarmwatch/internal/monitor"
	"github.com/aryankumar/swarmwatch/internal/output"
	"github.com/aryankumar/swarmwatch/internal/swarm"
	"github.com/aryankumar/swarmwatch/internal/util"
	"github.com/spf13/cobra"
)

type servicesOptions struct {
	health string
}

func newGetServicesCmd() *cobra.Command {
	opts := &servicesOptions{}

	cmd := &cobra.Command{
		Use:     "services",
		Aliases: []string{"service", "svc"},
		Short:   "Get swarm services across endpoints",
		Long: `Get the services of each selected swarm, sorted by name.

Displays mode, running and desired replicas, health and image. Replica counts
come from the running tasks of each service. Use --wide for timestamps.`,
		Example: `  # Get all services of the current endpoint
  swarmwatch get services

  # Get services that are not fully running
  swarmwatch get services --health degraded

  # Get services in JSON format
  swarmwatch get services -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGetServices(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.health, "health", "", "only show services with this health (healthy, degraded, down)")

	return cmd
}

func runGetServices(ctx context.Context, w io.Writer, opts *servicesOptions) error {
	health := swarm.ServiceHealth(strings.ToLower(opts.health))
	switch health {
	case "", swarm.ServiceHealthy, swarm.ServiceDegraded, swarm.ServiceDown:
	default:
		return util.NewValidationError("health", opts.health, "must be one of healthy, degraded, down")
	}

	return listRows(ctx, w, "services",
		func(ctx context.Context, client *cluster.Client) ([]swarm.Service, error) {
			services, err := client.Monitor.ServicesE(ctx)
			switch {
			case monitor.IsPartial(err):
				slog.Warn("task queries failed, affected services report no running tasks",
					"endpoint", client.Name, "error", err)
			case err != nil:
				return nil, err
			}
			return filterServices(services, health), nil
		},
		func(endpoint string, svc swarm.Service) output.ServiceRow {
			return output.ServiceRow{Endpoint: endpoint, Service: svc}
		})
}

func filterServices(services []swarm.Service, health swarm.ServiceHealth) []swarm.Service {
	if health == "" {
		return services
	}

	filtered := make([]swarm.Service, 0, len(services))
	for _, svc := range services {
		if svc.Health == health {
			filtered = append(filtered, svc)
		}
	}
	return filtered
}
