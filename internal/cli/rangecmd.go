// Package cli — rangecmd.go implements the "freeport range" command.
//
// The range command prints the contiguous sequence of ports between two
// bounds. It never probes or reserves anything; its purpose is feeding
// other tooling (e.g. xargs-driven scans or config generation) a validated
// port list.
package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	freeport "github.com/xuanhoa88/get-free-port"
)

// NewRangeCommand creates the "range" cobra command.
func NewRangeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "range FROM TO",
		Short: "Print a contiguous range of port numbers",
		Long: `Print the inclusive sequence of ports FROM..TO, one per line.

Both bounds must lie within the configured port bounds (1024-65535 by
default, adjustable via --config).

Examples:
  freeport range 3000 3010
  freeport range 8000 8080 --json`,

		Args: cobra.ExactArgs(2),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runRange(args[0], args[1])
		},
	}

	return cmd
}

// runRange parses the bounds and prints the generated range.
func runRange(fromArg, toArg string) error {
	from, err := strconv.Atoi(fromArg)
	if err != nil {
		return WrapCLIError(ExitUsageError, "'from' and 'to' must be integer numbers", err)
	}
	to, err := strconv.Atoi(toArg)
	if err != nil {
		return WrapCLIError(ExitUsageError, "'from' and 'to' must be integer numbers", err)
	}

	ports, err := freeport.GetPortRange(from, to)
	if err != nil {
		return WrapCLIError(ExitUsageError, "invalid port range", err)
	}

	if IsJSONOutput() {
		out, _ := json.Marshal(map[string][]int{"ports": ports})
		fmt.Println(string(out))
		return nil
	}

	var b strings.Builder
	for _, port := range ports {
		fmt.Fprintln(&b, port)
	}
	fmt.Print(b.String())
	return nil
}
