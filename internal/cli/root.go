// Package cli implements the cobra-based CLI commands for the freeport
// binary.
//
// Each subcommand (get, range, check) is defined in its own file within
// this package. This file defines the root command that serves as the
// parent for all subcommands and handles global flags.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	freeport "github.com/xuanhoa88/get-free-port"
	"github.com/xuanhoa88/get-free-port/internal/config"
)

// Global flag variables shared across all subcommands, bound to cobra
// persistent flags on the root command.
var (
	// jsonOutput controls whether command output is formatted as JSON.
	jsonOutput bool

	// verbose lowers the log level to debug. Logs go to stderr; stdout is
	// reserved for command output.
	verbose bool

	// configPath is an optional configuration file (YAML or JSONC) applied
	// to the default Finder before the subcommand runs.
	configPath string
)

// logger is the process logger, initialized in the root command's
// PersistentPreRunE so the --verbose flag has been parsed by then.
var logger = slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelWarn}))

// loadedConfig holds the parsed --config file, if one was given. Subcommands
// read defaults (e.g. the probe timeout) from it for flags the user did not
// set explicitly.
var loadedConfig *config.Config

// Version, Commit, and Date are set at build time via ldflags and injected
// from the main package.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
// The root command itself performs no action — it provides help text,
// global flags, and the shared setup (logging, config file) that runs
// before every subcommand.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "freeport",
		Short: "Find an unused TCP port on the local machine",
		Long: `freeport locates an unused TCP port by actually binding candidate ports
across all local interface addresses. Preferred ports are tried in order;
when none is available an ephemeral port is requested from the OS.`,

		// Errors are formatted by Execute (text or JSON), so cobra's own
		// reporting is silenced.
		SilenceUsage:  true,
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger = slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level}))

			if configPath == "" {
				return nil
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return WrapCLIError(ExitUsageError, fmt.Sprintf("cannot load config %q", configPath), err)
			}
			cfg.Apply(freeport.Default)
			loadedConfig = cfg
			logger.Debug("applied configuration",
				"path", configPath,
				"min_port", freeport.Default.MinPort,
				"max_port", freeport.Default.MaxPort,
				"cleanup_interval", freeport.Default.CleanupInterval)
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose (debug) logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML or JSONC configuration file")

	rootCmd.AddCommand(NewGetCommand())
	rootCmd.AddCommand(NewRangeCommand())
	rootCmd.AddCommand(NewCheckCommand())

	return rootCmd
}

// Execute runs the root command and translates errors into exit codes.
// This is the main entry point called from main.go.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		var cliErr *CLIError
		if errors.As(err, &cliErr) {
			printError(cliErr.Message, cliErr.Err)
			os.Exit(int(cliErr.Code))
		}

		printError(err.Error(), nil)
		os.Exit(int(ExitGeneralError))
	}
}

// printError outputs an error in the format selected by --json. Errors go
// to stderr in both modes; stdout is reserved for successful output.
func printError(message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			errObj["error"].(map[string]interface{})["detail"] = underlying.Error()
		}
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		if underlying != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", message)
		}
	}
}
