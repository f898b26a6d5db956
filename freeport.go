// freeport.go implements the top-level port selection algorithm: candidate
// list construction, exclusion and lock checks, verification across local
// addresses, ephemeral fallback, and committing the winning port to the
// lock table.
package freeport

import (
	"context"
	"errors"
	"time"
)

// Options controls a single GetOpenPort call. The zero value requests an
// ephemeral port with the default probe timeout.
type Options struct {
	// Ports lists preferred ports in priority order. Duplicates are ignored
	// after their first occurrence. When empty, an ephemeral port is
	// requested (equivalent to Ports: []int{0}).
	Ports []int

	// Exclude lists ports that must never be selected, even when free.
	Exclude []int

	// Timeout bounds each individual bind probe. Zero means DefaultTimeout.
	Timeout time.Duration

	// Host, when non-empty, is the only address probed. It disables the
	// fan-out across local interface addresses.
	Host string
}

// GetOpenPort finds an unused TCP port, reserves it in the Finder's lock
// table, and returns it.
//
// Preferred ports are tried strictly in order, one fully resolved before the
// next begins. For each candidate:
//
//   - excluded candidates are skipped without a probe;
//   - candidates already reserved in the lock table are skipped without a
//     probe (surfaced as *LockedPortError if the whole call fails);
//   - "address in use" aborts the call immediately — the port is hard
//     unavailable and the caller should see that rather than a silent
//     fallthrough;
//   - permission failures and lock collisions move on to the next candidate;
//   - any other failure (timeout, unexpected bind error, cancelled context)
//     aborts the call.
//
// When every candidate is exhausted, the call fails with *LockedPortError
// naming the first requested port that is currently reserved, or with
// ErrNoAvailablePorts when none is.
func (f *Finder) GetOpenPort(ctx context.Context, opts *Options) (int, error) {
	if opts == nil {
		opts = &Options{}
	}

	exclude := make(map[int]bool, len(opts.Exclude))
	for _, port := range opts.Exclude {
		exclude[port] = true
	}

	// Arming the sweep is a side effect of every selection attempt,
	// independent of its outcome.
	f.armSweep()

	single := opts.Host != ""
	var hosts []string
	if single {
		hosts = []string{opts.Host}
	} else {
		hosts = listHosts()
	}

	candidates := candidatePorts(opts.Ports)

	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if exclude[candidate] {
			continue
		}
		if candidate != 0 && f.isLocked(candidate) {
			// Locked candidates are never probed. The exhaustion pass below
			// reports them if nothing else succeeds.
			continue
		}

		bound, err := f.verifyUnlocked(ctx, candidate, hosts, single, opts.Timeout)
		if err != nil {
			var locked *LockedPortError
			switch {
			case isAddrInUse(err):
				return 0, err
			case isPermission(err), errors.As(err, &locked):
				continue
			default:
				return 0, err
			}
		}

		f.reserve(bound, time.Now())
		return bound, nil
	}

	for _, candidate := range candidates {
		if candidate != 0 && f.isLocked(candidate) {
			return 0, &LockedPortError{Port: candidate}
		}
	}
	return 0, ErrNoAvailablePorts
}

// verifyUnlocked verifies candidate and ensures the verified port is not
// already reserved in the lock table. An ephemeral request can land on a
// reserved port by coincidence; in that case it is re-verified with a fresh
// ephemeral bind until an unlocked port is obtained. The retry loop has no
// iteration cap; ctx is the only way to cut it short. It can only spin
// while the OS keeps handing out ports that are all present in the (finite)
// lock table.
func (f *Finder) verifyUnlocked(ctx context.Context, candidate int, hosts []string, single bool, timeout time.Duration) (int, error) {
	bound, err := f.verify(ctx, candidate, hosts, single, timeout)
	if err != nil {
		return 0, err
	}
	for f.isLocked(bound) {
		if candidate != 0 {
			return 0, &LockedPortError{Port: bound}
		}
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		bound, err = f.verify(ctx, 0, hosts, single, timeout)
		if err != nil {
			return 0, err
		}
	}
	return bound, nil
}

// candidatePorts builds the ordered candidate list from the caller's
// preferences: duplicates removed preserving first-seen order, and the
// ephemeral sentinel 0 when no preference was given.
func candidatePorts(preferred []int) []int {
	if len(preferred) == 0 {
		return []int{0}
	}
	seen := make(map[int]bool, len(preferred))
	candidates := make([]int, 0, len(preferred))
	for _, port := range preferred {
		if !seen[port] {
			seen[port] = true
			candidates = append(candidates, port)
		}
	}
	return candidates
}

// GetOpenPort finds, reserves, and returns an unused TCP port using the
// Default Finder. See (*Finder).GetOpenPort.
func GetOpenPort(ctx context.Context, opts *Options) (int, error) {
	return Default.GetOpenPort(ctx, opts)
}

// GetPortRange returns the contiguous ports from..to using the Default
// Finder's bounds. See (*Finder).GetPortRange.
func GetPortRange(from, to int) ([]int, error) {
	return Default.GetPortRange(from, to)
}

// ClearLockedPorts drops every reservation held by the Default Finder and
// stops its background sweep. See (*Finder).ClearLockedPorts.
func ClearLockedPorts() {
	Default.ClearLockedPorts()
}
