package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aryankumar/swarmwatch/internal/cli/cmdutil"
	"github.com/aryankumar/swarmwatch/internal/cli/endpoint"
	"github.com/aryankumar/swarmwatch/internal/cli/get"
	"github.com/aryankumar/swarmwatch/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Execute runs the root command with the provided context
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

// newRootCmd creates the root command
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "swarmwatch",
		Short: "Swarmwatch - Docker Swarm health and topology monitor",
		Long: `Swarmwatch reports the health and topology of Docker Swarm clusters.
It lists nodes and services, aggregates cluster capacity, raises alerts for
down nodes and degraded services, and can serve all of it over HTTP with
Prometheus metrics, across every Docker endpoint you configure.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.swarmwatch/config.yaml)")
	flags.StringSliceP("endpoint", "e", []string{}, "target endpoints (repeatable, default is the current endpoint)")
	flags.Bool("all", false, "target every enabled endpoint")
	flags.StringSliceP("label", "l", []string{}, "target endpoints matching key=value labels")
	flags.StringP("output", "o", "", "output format (table, json, yaml)")
	flags.Duration("timeout", 30*time.Second, "timeout for operations")
	flags.IntP("parallel", "p", 5, "number of endpoints queried in parallel")
	flags.Bool("no-color", false, "disable colored output")
	flags.BoolP("verbose", "v", false, "verbose output with debug logging")
	flags.String("log-format", "text", "log format (text, json)")
	flags.Bool("wide", false, "show additional columns")
	flags.Bool("no-headers", false, "omit table headers")

	for _, key := range []string{
		cmdutil.KeyConfig,
		cmdutil.KeyEndpoint,
		cmdutil.KeyAll,
		cmdutil.KeyLabel,
		cmdutil.KeyOutput,
		cmdutil.KeyTimeout,
		cmdutil.KeyParallel,
		cmdutil.KeyNoColor,
		cmdutil.KeyVerbose,
		cmdutil.KeyLogFormat,
		cmdutil.KeyWide,
		cmdutil.KeyNoHeaders,
	} {
		_ = viper.BindPFlag(key, flags.Lookup(key))
	}

	_ = rootCmd.RegisterFlagCompletionFunc("endpoint", cmdutil.CompleteEndpoints)
	_ = rootCmd.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(
		[]string{"table", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp))
	_ = rootCmd.RegisterFlagCompletionFunc("log-format", cobra.FixedCompletions(
		[]string{"text", "json"}, cobra.ShellCompDirectiveNoFileComp))

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newSnapshotCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(get.NewGetCmd())
	rootCmd.AddCommand(endpoint.NewEndpointCmd())

	return rootCmd
}

// initConfig wires environment overrides and logging
func initConfig(cmd *cobra.Command) error {
	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	format := viper.GetString(cmdutil.KeyLogFormat)
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid log format %q: must be text or json", format)
	}

	setupLogging(cmd)

	return nil
}

// setupLogging configures structured logging with slog
func setupLogging(cmd *cobra.Command) {
	verbose := viper.GetBool(cmdutil.KeyVerbose)

	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	var handler slog.Handler
	if viper.GetString(cmdutil.KeyLogFormat) == "json" || viper.GetBool(cmdutil.KeyNoColor) {
		handler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	} else {
		handler = slog.NewTextHandler(cmd.ErrOrStderr(), opts)
	}

	slog.SetDefault(slog.New(handler))

	if verbose {
		slog.Debug("verbose logging enabled")
		if path := viper.GetString(cmdutil.KeyConfig); path != "" {
			slog.Debug("using configuration", "file", path)
		}
	}
}
