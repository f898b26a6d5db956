// Package cli — get.go implements the "freeport get" command.
//
// The get command runs the full selection algorithm: preferred ports in
// order, exclusions honored, multi-interface verification, ephemeral
// fallback. The selected port is printed to stdout as a bare number or as
// a JSON object, depending on the --json flag.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	freeport "github.com/xuanhoa88/get-free-port"
)

// getFlags holds the flag values for the get command.
type getFlags struct {
	// ports lists preferred ports in priority order.
	ports []int

	// exclude lists ports that must never be selected.
	exclude []int

	// timeout bounds each individual bind probe.
	timeout time.Duration

	// host probes a single explicit address instead of fanning out across
	// all local interfaces.
	host string
}

// NewGetCommand creates the "get" cobra command.
func NewGetCommand() *cobra.Command {
	flags := &getFlags{}

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Find and reserve an unused TCP port",
		Long: `Find an unused TCP port, verify it by binding across local interfaces,
and print it.

Examples:
  freeport get
  freeport get --port 3000 --port 3001
  freeport get --exclude 8080 --timeout 2s
  freeport get --host 127.0.0.1 --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			// A config file timeout applies only when the flag was left at
			// its default.
			if !cmd.Flags().Changed("timeout") && loadedConfig != nil {
				flags.timeout = loadedConfig.Timeout()
			}
			return runGet(cmd.Context(), flags)
		},
	}

	cmd.Flags().IntSliceVarP(&flags.ports, "port", "p", nil,
		"Preferred port, repeatable; tried in the order given")
	cmd.Flags().IntSliceVarP(&flags.exclude, "exclude", "x", nil,
		"Port to never select, repeatable")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", freeport.DefaultTimeout,
		"Per-probe bind timeout")
	cmd.Flags().StringVar(&flags.host, "host", "",
		"Probe a single host address instead of all local interfaces")

	return cmd
}

// runGet is the main logic function for the get command.
func runGet(ctx context.Context, flags *getFlags) error {
	logger.Debug("selecting port",
		"preferred", flags.ports,
		"exclude", flags.exclude,
		"timeout", flags.timeout,
		"host", flags.host)

	port, err := freeport.GetOpenPort(ctx, &freeport.Options{
		Ports:   flags.ports,
		Exclude: flags.exclude,
		Timeout: flags.timeout,
		Host:    flags.host,
	})
	if err != nil {
		return wrapSelectError(err)
	}

	logger.Debug("selected port", "port", port)

	if IsJSONOutput() {
		out, _ := json.Marshal(map[string]int{"port": port})
		fmt.Println(string(out))
	} else {
		fmt.Println(port)
	}
	return nil
}

// wrapSelectError maps library errors onto CLI exit codes. Locked ports get
// their own code because retrying later is meaningful for them; every kind
// of bind unavailability shares one code.
func wrapSelectError(err error) error {
	var locked *freeport.LockedPortError
	if errors.As(err, &locked) {
		return WrapCLIError(ExitLockedPort,
			fmt.Sprintf("port %d is locked by this process", locked.Port), err)
	}

	var unavailable *freeport.UnavailableError
	switch {
	case errors.As(err, &unavailable),
		errors.Is(err, freeport.ErrNoAvailablePorts),
		errors.Is(err, syscall.EADDRINUSE):
		return WrapCLIError(ExitPortUnavailable, "no port available", err)
	}

	return WrapCLIError(ExitGeneralError, "port selection failed", err)
}

// IsJSONOutput returns whether the --json flag is set. Subcommands use this
// to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}
