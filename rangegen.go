// rangegen.go implements the contiguous port range generator. It is a pure
// helper: it validates against the Finder's configured bounds but never
// touches the lock table.
package freeport

import "fmt"

// GetPortRange returns the inclusive, contiguous sequence of ports
// [from, from+1, ..., to].
//
// Both bounds must lie within [MinPort, MaxPort] as configured on the Finder
// at call time, and from must not exceed to. Validation failures are
// returned as plain errors, never wrapped.
func (f *Finder) GetPortRange(from, to int) ([]int, error) {
	if from < f.MinPort || from > f.MaxPort {
		return nil, fmt.Errorf("'from' must be between %d and %d", f.MinPort, f.MaxPort)
	}
	if to < f.MinPort || to > f.MaxPort {
		return nil, fmt.Errorf("'to' must be between %d and %d", f.MinPort, f.MaxPort)
	}
	if to < from {
		return nil, fmt.Errorf("'to' must be greater than or equal to 'from'")
	}

	ports := make([]int, 0, to-from+1)
	for port := from; port <= to; port++ {
		ports = append(ports, port)
	}
	return ports, nil
}
