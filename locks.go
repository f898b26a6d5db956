// locks.go implements the Finder's in-process lock table: a mutex-guarded
// map from port number to reservation timestamp, swept periodically by a
// background goroutine so stale reservations expire on their own.
package freeport

import (
	"sync"
	"time"
)

// Default configuration values for a Finder. They mirror the zero-config
// behavior of GetOpenPort: the practical port range starts above the
// privileged range, and reservations outlive a typical "pick a port, then
// actually start listening on it" window.
const (
	// DefaultMinPort is the lower bound used by GetPortRange validation.
	DefaultMinPort = 1024

	// DefaultMaxPort is the upper bound used by GetPortRange validation
	// (the highest valid TCP port, 2^16 - 1).
	DefaultMaxPort = 65535

	// DefaultCleanupInterval is both the age at which a reservation is
	// considered stale and the period of the background sweep.
	DefaultCleanupInterval = 15 * time.Second
)

// Finder selects open TCP ports and tracks its selections in an in-process
// lock table so concurrent callers do not race for the same port.
//
// The exported fields form the mutable configuration surface. They are read
// at call time (GetPortRange bounds, sweep period at arming) and are not
// validated on assignment — keeping them consistent is the caller's
// responsibility. A Finder must not be copied after first use.
type Finder struct {
	// MinPort is the lowest port GetPortRange accepts.
	MinPort int

	// MaxPort is the highest port GetPortRange accepts.
	MaxPort int

	// CleanupInterval is how long a reservation lives before the sweep
	// removes it, and also the sweep period once the sweep is armed.
	CleanupInterval time.Duration

	mu     sync.Mutex
	locked map[int]time.Time

	// sweepStop is non-nil iff the background sweep is running. Closing it
	// stops the sweep goroutine; ClearLockedPorts resets it to nil so the
	// next selection re-arms the sweep.
	sweepStop chan struct{}
}

// NewFinder returns a Finder with default bounds and cleanup interval and an
// empty lock table. Tests and embedders that need isolated lock state should
// use their own Finder; package-level functions share the Default instance.
func NewFinder() *Finder {
	return &Finder{
		MinPort:         DefaultMinPort,
		MaxPort:         DefaultMaxPort,
		CleanupInterval: DefaultCleanupInterval,
		locked:          make(map[int]time.Time),
	}
}

// Default is the process-wide Finder used by the package-level functions.
var Default = NewFinder()

// reserve records port as taken at time now, overwriting any previous
// reservation timestamp for the same port.
func (f *Finder) reserve(port int, now time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locked[port] = now
}

// isLocked reports whether port currently has a reservation. Expiry is
// handled exclusively by the sweep; a stale entry still counts as locked
// until the sweep removes it.
func (f *Finder) isLocked(port int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.locked[port]
	return ok
}

// sweepExpired removes every reservation whose age at time now has reached
// CleanupInterval.
func (f *Finder) sweepExpired(now time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for port, reservedAt := range f.locked {
		if now.Sub(reservedAt) >= f.CleanupInterval {
			delete(f.locked, port)
		}
	}
}

// armSweep starts the background sweep goroutine if it is not already
// running. The sweep fires every CleanupInterval (read once, at arming) and
// runs until ClearLockedPorts stops it. Goroutines do not keep a Go process
// alive, so an armed sweep never blocks shutdown.
func (f *Finder) armSweep() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sweepStop != nil {
		return
	}

	interval := f.CleanupInterval
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}

	stop := make(chan struct{})
	f.sweepStop = stop

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case now := <-ticker.C:
				f.sweepExpired(now)
			}
		}
	}()
}

// ClearLockedPorts empties the lock table and stops the background sweep.
// The next successful selection re-arms the sweep. Calling it when the table
// is already empty or the sweep is already stopped is a no-op.
func (f *Finder) ClearLockedPorts() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locked = make(map[int]time.Time)
	if f.sweepStop != nil {
		close(f.sweepStop)
		f.sweepStop = nil
	}
}

// LockedPorts returns the currently reserved ports. The order is
// unspecified. Intended for introspection by embedders and tests; the
// selector itself consults the table directly.
func (f *Finder) LockedPorts() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	ports := make([]int, 0, len(f.locked))
	for port := range f.locked {
		ports = append(ports, port)
	}
	return ports
}

// sweepArmed reports whether the background sweep goroutine is running.
func (f *Finder) sweepArmed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sweepStop != nil
}
