// Package freeport locates an unused TCP port on the local machine.
//
// The core workflow is:
//
//	port, err := freeport.GetOpenPort(ctx, &freeport.Options{Ports: []int{3000, 3001}})
//
// Preferred ports are verified in order by actually binding them across all
// local interface addresses; when none is available (or none was requested),
// an ephemeral port is obtained by binding port 0 and reading back the port
// the OS assigned.
//
// Successfully selected ports are recorded in an in-process lock table so
// that concurrent callers within the same process do not race for the same
// port. Reservations expire after Finder.CleanupInterval via a background
// sweep, or can be dropped eagerly with ClearLockedPorts. The lock table is
// process-local and in-memory: it provides no exclusivity against other
// processes beyond the inherent guarantee of a successful OS-level bind.
package freeport
