package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aryankumar/swarmwatch/internal/api"
	"github.com/aryankumar/swarmwatch/internal/cli/cmdutil"
	"github.com/aryankumar/swarmwatch/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

// shutdownTimeout bounds draining in-flight requests on exit
const shutdownTimeout = 10 * time.Second

type serveOptions struct {
	address string
}

func newServeCmd() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve swarm state over HTTP with Prometheus metrics",
		Long: `Run an HTTP server exposing the swarm state of the selected endpoints.

Routes:
  /metrics                                 Prometheus metrics
  /healthz                                 liveness check
  /api/v1/endpoints                        connected endpoints
  /api/v1/endpoints/{name}/info            swarm membership
  /api/v1/endpoints/{name}/nodes           normalized nodes
  /api/v1/endpoints/{name}/services        normalized services
  /api/v1/endpoints/{name}/resources       cluster aggregate
  /api/v1/endpoints/{name}/alerts          health alerts
  /api/v1/endpoints/{name}/summary         human-readable report
  /api/v1/endpoints/{name}/snapshot        full heartbeat payload

Every enabled endpoint is served unless --endpoint or --label narrows the set.`,
		Example: `  # Serve every endpoint on the default address
  swarmwatch serve

  # Serve the production endpoints on port 8080
  swarmwatch serve -l env=prod --address :8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.address, "address", "", "listen address (default from config, :9323)")

	return cmd
}

func runServe(ctx context.Context, opts *serveOptions) error {
	logger := slog.Default()

	session, err := cmdutil.Connect(ctx, logger, cmdutil.DefaultToAll())
	if err != nil {
		return err
	}
	defer session.Close()

	serveCfg := session.Config.GetConfig().Serve

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		metrics.NewCollector(session.Manager, serveCfg.ScrapeTimeout, cmdutil.Parallel(session.Config), logger),
	)

	server := api.NewServer(session.Manager, logger,
		api.WithRegistry(registry),
		api.WithRequestTimeout(serveCfg.ScrapeTimeout))

	address := opts.address
	if address == "" {
		address = serveCfg.Address
	}
	httpServer := api.NewHTTPServer(address, server.Handler())

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving swarm state", "address", address, "endpoints", session.Manager.GetClientNames())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down http server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
