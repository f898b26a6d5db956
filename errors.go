// errors.go defines the tagged error variants returned by this package and
// the classification helpers for OS-level bind errors.
//
// Bind errors from the OS are returned unwrapped so callers can classify
// them with errors.Is against syscall errnos (net.OpError and
// os.SyscallError both implement Unwrap). Package-specific conditions get
// their own types so callers can use errors.As instead of inspecting
// message strings.
package freeport

import (
	"errors"
	"fmt"
	"strings"
	"syscall"
	"time"
)

// ErrNoAvailablePorts is returned when every candidate port was exhausted
// for recoverable reasons and none of the requested ports is locked.
var ErrNoAvailablePorts = errors.New("no available ports found")

// LockedPortError reports that a requested port is currently reserved by
// this process. Callers can retry later (after the reservation expires or
// ClearLockedPorts is called), which is why this condition is distinguished
// from a generic failure.
type LockedPortError struct {
	// Port is the reserved port number.
	Port int
}

func (e *LockedPortError) Error() string {
	return fmt.Sprintf("port %d is locked", e.Port)
}

// TimeoutError reports that a single bind probe did not complete within its
// allotted wait. The message embeds the configured duration in milliseconds.
type TimeoutError struct {
	// Timeout is the per-probe bound that was exceeded.
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out trying to bind port after %d ms", e.Timeout.Milliseconds())
}

// UnavailableError reports that a specific port could not be bound on any
// local interface address.
type UnavailableError struct {
	// Port is the port that was probed.
	Port int

	// Hosts lists the addresses that were attempted.
	Hosts []string
}

func (e *UnavailableError) Error() string {
	hosts := make([]string, len(e.Hosts))
	for i, h := range e.Hosts {
		if h == "" {
			// The unspecified address prints as "*" for readability.
			hosts[i] = "*"
		} else {
			hosts[i] = h
		}
	}
	return fmt.Sprintf("port %d is not available on any local interface (tried %s)",
		e.Port, strings.Join(hosts, ", "))
}

// isAddrInUse reports whether err is an OS-level "address already in use"
// bind failure. This condition always aborts a selection: the port is hard
// unavailable and retrying other preferred candidates under the same call
// would mask it from the caller.
func isAddrInUse(err error) bool {
	return errors.Is(err, syscall.EADDRINUSE)
}

// isHostUnusable reports whether err means "this address cannot take the
// bind, but other addresses might". Typical sources are IPv6 link-local
// addresses without a zone (EINVAL) or addresses no longer assigned to an
// interface (EADDRNOTAVAIL). These are swallowed per host during multi-host
// verification.
func isHostUnusable(err error) bool {
	return errors.Is(err, syscall.EADDRNOTAVAIL) || errors.Is(err, syscall.EINVAL)
}

// isPermission reports whether err is a permission failure, e.g. binding a
// privileged port (<1024) as an unprivileged user. Swallowed during
// candidate iteration so the selector moves on to the next preference.
func isPermission(err error) bool {
	return errors.Is(err, syscall.EACCES) || errors.Is(err, syscall.EPERM)
}
