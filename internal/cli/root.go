package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/courier/host"
	"github.com/wesleyorama2/courier/internal/config"
	"github.com/wesleyorama2/courier/internal/logging"
)

var version = "0.1.0"

// NewRootCmd builds the courier command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "courier",
		Short:   "Build, send and inspect HTTP requests from the terminal",
		Version: version,
		Long: `Courier sends HTTP and GraphQL requests, shows exactly what went over the
wire and how the response was classified, and can replay named requests
from a YAML or JSON file or hammer one endpoint to measure latency.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: applyEnv,
		RunE: func(cmd *cobra.Command, args []string) error {
			// If no subcommand is provided, print help
			return cmd.Help()
		},
	}

	flags := root.PersistentFlags()
	flags.StringArrayP("header", "H", []string{}, "HTTP headers to include as \"Name: value\" (can be used multiple times)")
	flags.DurationP("timeout", "t", host.DefaultTimeout, "Request timeout")
	flags.BoolP("verbose", "v", false, "Show the request, timing and response headers")
	flags.Bool("no-color", false, "Disable colored output")
	flags.String("format", "text", "Output format: text, json or yaml")
	flags.String("log-level", logging.DefaultLevel, "Log level: trace, debug, info, warn or error")
	flags.String("transport", transportHTTP, "Transport: http (net/http) or resty")

	// Add subcommands to root command
	root.AddCommand(
		newGetCmd(),
		newBodyCmd("post"),
		newBodyCmd("put"),
		newBodyCmd("patch"),
		newDeleteCmd(),
		newQueryCmd(),
		newRunCmd(),
		newBenchCmd(),
	)
	return root
}

// Execute runs the root command, printing any error to stderr. An interrupt
// cancels the command's context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := NewRootCmd().ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

// applyEnv fills flags the user did not set from COURIER_* variables.
func applyEnv(cmd *cobra.Command, _ []string) error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}

	noColor := ""
	if env.NoColor {
		noColor = strconv.FormatBool(env.NoColor)
	}
	timeout := ""
	if env.Timeout > 0 {
		timeout = env.Timeout.String()
	}

	overlay := []struct{ flag, env, value string }{
		{"timeout", "TIMEOUT", timeout},
		{"no-color", "NO_COLOR", noColor},
		{"log-level", "LOG_LEVEL", env.LogLevel},
		{"profile", "PROFILE", env.Profile},
		{"format", "FORMAT", env.Format},
	}
	for _, o := range overlay {
		if o.value == "" {
			continue
		}
		flag := cmd.Flags().Lookup(o.flag)
		if flag == nil || flag.Changed {
			continue
		}
		if err := cmd.Flags().Set(o.flag, o.value); err != nil {
			return fmt.Errorf("invalid %s_%s: %w", config.EnvPrefix, o.env, err)
		}
	}
	return nil
}
