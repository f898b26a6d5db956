// Package cli — check.go implements the "freeport check" command.
//
// The check command probes a single port across all local interface
// addresses (or one explicit --host) and reports whether it can currently
// be bound. Unlike get, it reserves nothing.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	freeport "github.com/xuanhoa88/get-free-port"
)

// checkFlags holds the flag values for the check command.
type checkFlags struct {
	timeout time.Duration
	host    string
}

// NewCheckCommand creates the "check" cobra command.
func NewCheckCommand() *cobra.Command {
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check PORT",
		Short: "Check whether a TCP port can be bound right now",
		Long: `Probe a single port and report its availability.

Exit code 0 means the port was bindable on at least one local interface;
exit code 3 means it was not.

Examples:
  freeport check 8080
  freeport check 8080 --host 127.0.0.1 --json`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("timeout") && loadedConfig != nil {
				flags.timeout = loadedConfig.Timeout()
			}
			return runCheck(cmd.Context(), args[0], flags)
		},
	}

	cmd.Flags().DurationVar(&flags.timeout, "timeout", freeport.DefaultTimeout,
		"Per-probe bind timeout")
	cmd.Flags().StringVar(&flags.host, "host", "",
		"Probe a single host address instead of all local interfaces")

	return cmd
}

// runCheck parses the port argument and runs the lock-free availability
// probe.
func runCheck(ctx context.Context, portArg string, flags *checkFlags) error {
	port, err := strconv.Atoi(portArg)
	if err != nil {
		return WrapCLIError(ExitUsageError, "PORT must be an integer number", err)
	}

	logger.Debug("checking port", "port", port, "host", flags.host, "timeout", flags.timeout)

	if err := freeport.Default.Check(ctx, port, flags.host, flags.timeout); err != nil {
		return WrapCLIError(ExitPortUnavailable,
			fmt.Sprintf("port %d is not available", port), err)
	}

	if IsJSONOutput() {
		out, _ := json.Marshal(map[string]interface{}{"port": port, "available": true})
		fmt.Println(string(out))
	} else {
		fmt.Printf("port %d is available\n", port)
	}
	return nil
}
