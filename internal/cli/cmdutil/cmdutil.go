// Package cmdutil holds the plumbing shared by swarmwatch commands: reading
// the global flags, selecting and connecting endpoints, fanning a query out
// over them and picking a formatter.
package cmdutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aryankumar/swarmwatch/internal/cluster"
	"github.com/aryankumar/swarmwatch/internal/config"
	"github.com/aryankumar/swarmwatch/internal/executor"
	"github.com/aryankumar/swarmwatch/internal/output"
	"github.com/aryankumar/swarmwatch/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Viper keys of the global flags
const (
	KeyConfig    = "config"
	KeyEndpoint  = "endpoint"
	KeyAll       = "all"
	KeyLabel     = "label"
	KeyOutput    = "output"
	KeyTimeout   = "timeout"
	KeyParallel  = "parallel"
	KeyNoColor   = "no-color"
	KeyNoHeaders = "no-headers"
	KeyWide      = "wide"
	KeyVerbose   = "verbose"
	KeyLogFormat = "log-format"
)

// Dial opens endpoint backends. Tests replace it with an in-memory client.
var Dial cluster.DialFunc = cluster.DialDocker

// LoadConfig loads the swarmwatch config file named by --config, or the default one
func LoadConfig() (*config.Manager, error) {
	cfg := config.NewManager(viper.GetString(KeyConfig))
	if _, err := cfg.Load(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Timeout is --timeout, or the config default when the flag was not given
func Timeout(cfg *config.Manager) time.Duration {
	if !viper.IsSet(KeyTimeout) && cfg != nil && cfg.GetConfig().Defaults.Timeout > 0 {
		return cfg.GetConfig().Defaults.Timeout
	}
	return viper.GetDuration(KeyTimeout)
}

// Parallel is --parallel, or the config default when the flag was not given
func Parallel(cfg *config.Manager) int {
	if !viper.IsSet(KeyParallel) && cfg != nil && cfg.GetConfig().Defaults.Parallel > 0 {
		return cfg.GetConfig().Defaults.Parallel
	}
	return viper.GetInt(KeyParallel)
}

// NoColor is true when either --no-color or the config asks for it
func NoColor(cfg *config.Manager) bool {
	return viper.GetBool(KeyNoColor) || (cfg != nil && cfg.GetConfig().Defaults.NoColor)
}

// OutputFormat is --output, or the config default when the flag was not given
func OutputFormat(cfg *config.Manager) (output.Format, error) {
	name := viper.GetString(KeyOutput)
	if name == "" && cfg != nil {
		name = cfg.GetConfig().Defaults.OutputFormat
	}
	return output.ParseFormat(name)
}

// NewFormatter builds the formatter selected by the flags and config
func NewFormatter(cfg *config.Manager) (output.Formatter, output.Format, error) {
	format, err := OutputFormat(cfg)
	if err != nil {
		return nil, "", err
	}

	formatter := output.NewFormatter(format,
		output.WithNoColor(NoColor(cfg)),
		output.WithNoHeaders(viper.GetBool(KeyNoHeaders)),
		output.WithWide(viper.GetBool(KeyWide)))

	return formatter, format, nil
}

// Session is a set of connected endpoints for one command
type Session struct {
	Config  *config.Manager
	Manager *cluster.Manager
	Logger  *slog.Logger
}

// ConnectOption adjusts endpoint selection
type ConnectOption func(*connectOptions)

type connectOptions struct {
	defaultAll bool
}

// DefaultToAll selects every enabled endpoint when neither --endpoint nor
// --label narrows the selection
func DefaultToAll() ConnectOption {
	return func(o *connectOptions) {
		o.defaultAll = true
	}
}

// Connect loads the config, selects endpoints from --endpoint, --label and
// --all, and connects them. Endpoints that fail to connect are logged and
// skipped; it is an error only when none connect.
func Connect(ctx context.Context, logger *slog.Logger, opts ...ConnectOption) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var o connectOptions
	for _, opt := range opts {
		opt(&o)
	}

	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	labels, err := config.ParseLabels(viper.GetStringSlice(KeyLabel))
	if err != nil {
		return nil, err
	}

	names := viper.GetStringSlice(KeyEndpoint)
	narrowed := len(names) > 0 || len(labels) > 0
	all := viper.GetBool(KeyAll) || o.defaultAll

	mgr := cluster.NewManager(cfg, logger, cluster.WithDialer(Dial))

	if all && !narrowed {
		err = mgr.ConnectAll(ctx)
		if errors.Is(err, util.ErrEndpointNotFound) && mgr.Count() == 0 {
			mgr.Close()
			return nil, err
		}
	} else {
		selected, selectErr := cfg.SelectEndpoints(names, false, labels)
		if selectErr != nil {
			return nil, selectErr
		}
		err = mgr.Connect(ctx, selected)
	}
	if err != nil {
		logger.Warn("some endpoint connections failed", "error", err)
	}

	if mgr.Count() == 0 {
		mgr.Close()
		return nil, fmt.Errorf("no endpoints connected")
	}

	logger.Debug("connected to endpoints", "count", mgr.Count())

	return &Session{
		Config:  cfg,
		Manager: mgr,
		Logger:  logger,
	}, nil
}

// Close releases every endpoint connection
func (s *Session) Close() {
	s.Manager.Close()
}

// Formatter builds the formatter for this session's config
func (s *Session) Formatter() (output.Formatter, output.Format, error) {
	return NewFormatter(s.Config)
}

// Run executes fn against every connected endpoint through the worker pool,
// bounded by the command timeout. Results come back in endpoint name order.
func Run[T any](ctx context.Context, s *Session, fn func(ctx context.Context, client *cluster.Client) (T, error)) []executor.Result[T] {
	execCtx, cancel := context.WithTimeout(ctx, Timeout(s.Config))
	defer cancel()

	return executor.Run(execCtx, Parallel(s.Config), s.Manager.GetClientNames(), s.Logger,
		func(ctx context.Context, endpoint string) (T, error) {
			client, err := s.Manager.GetClient(endpoint)
			if err != nil {
				var zero T
				return zero, err
			}
			return fn(ctx, client)
		})
}

// ReportFailures logs each failed result and returns how many succeeded
func ReportFailures[T any](logger *slog.Logger, results []executor.Result[T]) int {
	for _, r := range executor.FilterFailed(results) {
		logger.Error("endpoint query failed", "endpoint", r.Endpoint, "error", r.Error)
	}
	logger.Debug("endpoint queries finished", "total", len(results), "slowest", executor.MaxDuration(results))
	return executor.CountSuccessful(results)
}

// Heading prints a section title when output spans several endpoints
func Heading(w io.Writer, endpoint string, total int) {
	if total > 1 {
		fmt.Fprintf(w, "=== %s ===\n", endpoint)
	}
}

// CompleteEndpoints completes endpoint names from the config file
func CompleteEndpoints(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var names []string
	for _, info := range cfg.ListEndpoints() {
		if strings.HasPrefix(info.Name, toComplete) {
			names = append(names, info.Name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
