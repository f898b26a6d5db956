// probe.go implements availability probing: binding a single (host, port)
// pair with a bounded wait, and verifying one port across every local
// address concurrently.
package freeport

import (
	"context"
	"errors"
	"net"
	"strconv"
	"time"
)

// DefaultTimeout is the per-probe bound applied when Options.Timeout is
// unset.
const DefaultTimeout = 1 * time.Second

// probe attempts to bind a TCP listener on host:port and reports the port
// that was actually bound. When port is 0 the OS picks any free port and the
// returned value is the one it chose.
//
// The listener is closed before probe returns on every path. A probe that
// does not complete within timeout fails with *TimeoutError; any other bind
// failure is returned as-is so its errno classification survives for
// errors.Is at the call sites.
func probe(ctx context.Context, host string, port int, timeout time.Duration) (int, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return 0, &TimeoutError{Timeout: timeout}
		}
		return 0, err
	}
	defer ln.Close()

	addr, ok := ln.Addr().(*net.TCPAddr)
	if !ok {
		// Cannot happen for a "tcp" listen; guard so a nil assertion can
		// never escape as a panic.
		return 0, errors.New("listener address is not a TCP address")
	}
	return addr.Port, nil
}

// Check reports whether port can currently be bound on the local machine.
// It runs the same multi-host verification as GetOpenPort but never touches
// the lock table: a nil result means at least one local address accepted
// the bind, and the classified failure is returned otherwise. host may be
// empty to verify across all local addresses.
func (f *Finder) Check(ctx context.Context, port int, host string, timeout time.Duration) error {
	single := host != ""
	var hosts []string
	if single {
		hosts = []string{host}
	} else {
		hosts = listHosts()
	}
	_, err := f.verify(ctx, port, hosts, single, timeout)
	return err
}

// verify checks that port can be bound locally and returns the bound port.
//
// When single is true (the caller named an explicit host, or port is the
// ephemeral sentinel 0) exactly one probe runs against hosts[0] and its
// outcome is returned directly — one interface is representative enough for
// an ephemeral bind, and an explicit host overrides the fan-out.
//
// Otherwise the port is probed concurrently against every host. Probes of
// the same port on overlapping addresses (unspecified, wildcard, specific)
// conflict with each other in the kernel, so results are aggregated after
// all probes settle and any success wins over sibling failures:
//
//   - the first successful probe, in completion order, supplies the result;
//   - per-host failures classified as "address not available" or "invalid
//     argument" are swallowed (that host cannot take the bind, others might);
//   - with zero successes, the first other failure (address in use,
//     permission, timeout, ...) propagates;
//   - with zero successes and only swallowed failures, *UnavailableError is
//     returned naming the port and the attempted hosts.
func (f *Finder) verify(ctx context.Context, port int, hosts []string, single bool, timeout time.Duration) (int, error) {
	if single || port == 0 {
		return probe(ctx, hosts[0], port, timeout)
	}

	type outcome struct {
		port int
		err  error
	}
	// Buffered so probes never block on send; each probe tears itself down
	// on its own timer regardless of when (or whether) its result is read.
	results := make(chan outcome, len(hosts))
	for _, host := range hosts {
		go func(host string) {
			p, err := probe(ctx, host, port, timeout)
			results <- outcome{port: p, err: err}
		}(host)
	}

	var (
		bound int
		found bool
		fatal error
	)
	for range hosts {
		r := <-results
		switch {
		case r.err == nil:
			if !found {
				bound = r.port
				found = true
			}
		case isHostUnusable(r.err):
			// Host-specific; other addresses may still accept the bind.
		default:
			if fatal == nil {
				fatal = r.err
			}
		}
	}

	if found {
		return bound, nil
	}
	if fatal != nil {
		return 0, fatal
	}
	return 0, &UnavailableError{Port: port, Hosts: hosts}
}
