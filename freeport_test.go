package freeport

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetOpenPort_Ephemeral verifies the zero-config path: no preference
// means an ephemeral request, and the result lands in the practical port
// range and is committed to the lock table.
func TestGetOpenPort_Ephemeral(t *testing.T) {
	f := NewFinder()
	defer f.ClearLockedPorts()

	port, err := f.GetOpenPort(context.Background(), nil)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, port, 1024)
	assert.LessOrEqual(t, port, 65535)
	assert.True(t, f.isLocked(port), "the selected port should be reserved")
	assert.True(t, f.sweepArmed(), "a selection should arm the background sweep")
}

// TestGetOpenPort_PreferredAvailable verifies that an explicitly requested
// free port is returned exactly, not substituted.
func TestGetOpenPort_PreferredAvailable(t *testing.T) {
	f := NewFinder()
	defer f.ClearLockedPorts()
	want := grabFreePort(t)

	got, err := f.GetOpenPort(context.Background(), &Options{Ports: []int{want}})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

// TestGetOpenPort_PreferenceOrder verifies that candidates are tried in
// caller order. A locked first preference is a recoverable failure, so the
// selector falls through to the second preference.
func TestGetOpenPort_PreferenceOrder(t *testing.T) {
	f := NewFinder()
	defer f.ClearLockedPorts()

	first := grabFreePort(t)
	second := grabFreePort(t)
	f.reserve(first, time.Now())

	got, err := f.GetOpenPort(context.Background(), &Options{Ports: []int{first, second}})
	require.NoError(t, err)
	assert.Equal(t, second, got, "a locked first preference should fall through to the second")
}

// TestGetOpenPort_LockedPort verifies that a reserved port fails with
// *LockedPortError and is never probed. The port is also occupied by a live
// listener here: if the selector attempted a bind it would surface
// "address in use" instead of the lock error.
func TestGetOpenPort_LockedPort(t *testing.T) {
	f := NewFinder()
	defer f.ClearLockedPorts()

	port := grabFreePort(t)
	f.reserve(port, time.Now())
	occupyPort(t, port)

	_, err := f.GetOpenPort(context.Background(), &Options{Ports: []int{port}})
	require.Error(t, err)

	var locked *LockedPortError
	require.ErrorAs(t, err, &locked, "expected LockedPortError, got %v", err)
	assert.Equal(t, port, locked.Port)
}

// TestGetOpenPort_SecondRequestLocked verifies the reservation end to end:
// selecting a port and then requesting the same port again collides with
// the fresh lock.
func TestGetOpenPort_SecondRequestLocked(t *testing.T) {
	f := NewFinder()
	defer f.ClearLockedPorts()
	port := grabFreePort(t)

	got, err := f.GetOpenPort(context.Background(), &Options{Ports: []int{port}})
	require.NoError(t, err)
	require.Equal(t, port, got)

	_, err = f.GetOpenPort(context.Background(), &Options{Ports: []int{port}})
	var locked *LockedPortError
	require.ErrorAs(t, err, &locked)
	assert.Equal(t, port, locked.Port)
}

// TestGetOpenPort_Excluded verifies that excluded ports are skipped without
// a probe even when free, falling through to later candidates.
func TestGetOpenPort_Excluded(t *testing.T) {
	f := NewFinder()
	defer f.ClearLockedPorts()

	first := grabFreePort(t)
	second := grabFreePort(t)

	got, err := f.GetOpenPort(context.Background(), &Options{
		Ports:   []int{first, second},
		Exclude: []int{first},
	})
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

// TestGetOpenPort_AllExcluded verifies the generic exhaustion error: every
// candidate excluded, none locked.
func TestGetOpenPort_AllExcluded(t *testing.T) {
	f := NewFinder()
	defer f.ClearLockedPorts()
	port := grabFreePort(t)

	_, err := f.GetOpenPort(context.Background(), &Options{
		Ports:   []int{port},
		Exclude: []int{port},
	})
	require.ErrorIs(t, err, ErrNoAvailablePorts)
}

// TestGetOpenPort_AddrInUseAborts verifies the hard-failure rule: a
// candidate held by another process propagates "address in use"
// immediately, without trying the remaining (free) candidates.
func TestGetOpenPort_AddrInUseAborts(t *testing.T) {
	f := NewFinder()
	defer f.ClearLockedPorts()

	busy := grabFreePort(t)
	free := grabFreePort(t)
	occupyPort(t, busy)

	_, err := f.GetOpenPort(context.Background(), &Options{Ports: []int{busy, free}})
	require.Error(t, err)
	assert.True(t, isAddrInUse(err), "expected EADDRINUSE to propagate, got %v", err)
}

// TestGetOpenPort_DuplicatePreferences verifies that duplicate preferred
// ports are collapsed to their first occurrence.
func TestGetOpenPort_DuplicatePreferences(t *testing.T) {
	assert.Equal(t, []int{3000, 3001}, candidatePorts([]int{3000, 3001, 3000, 3001}))
	assert.Equal(t, []int{0}, candidatePorts(nil), "no preference should default to the ephemeral sentinel")
}

// TestGetOpenPort_ExplicitHost verifies that a caller-supplied host is
// probed directly, without interface fan-out.
func TestGetOpenPort_ExplicitHost(t *testing.T) {
	f := NewFinder()
	defer f.ClearLockedPorts()
	port := grabFreePort(t)

	got, err := f.GetOpenPort(context.Background(), &Options{
		Ports: []int{port},
		Host:  "127.0.0.1",
	})
	require.NoError(t, err)
	assert.Equal(t, port, got)
}

// TestGetOpenPort_ClearAllowsReuse verifies the clear/re-arm cycle: after
// ClearLockedPorts the same port can be selected again and the sweep is
// re-armed by the new selection.
func TestGetOpenPort_ClearAllowsReuse(t *testing.T) {
	f := NewFinder()
	defer f.ClearLockedPorts()
	port := grabFreePort(t)

	_, err := f.GetOpenPort(context.Background(), &Options{Ports: []int{port}})
	require.NoError(t, err)

	f.ClearLockedPorts()
	require.Empty(t, f.LockedPorts())
	require.False(t, f.sweepArmed())

	got, err := f.GetOpenPort(context.Background(), &Options{Ports: []int{port}})
	require.NoError(t, err)
	assert.Equal(t, port, got)
	assert.True(t, f.sweepArmed(), "a new selection should re-arm the sweep")
}

// TestGetOpenPort_CancelledContext verifies that cancellation aborts the
// candidate loop before any probing.
func TestGetOpenPort_CancelledContext(t *testing.T) {
	f := NewFinder()
	defer f.ClearLockedPorts()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.GetOpenPort(ctx, nil)
	require.ErrorIs(t, err, context.Canceled)
}

// TestVerifyUnlocked_LockedResult verifies step-level behavior around lock
// collisions on the verified port: a non-zero candidate whose verified port
// turns out to be reserved fails with *LockedPortError rather than being
// handed out twice.
func TestVerifyUnlocked_LockedResult(t *testing.T) {
	f := NewFinder()
	port := grabFreePort(t)
	f.reserve(port, time.Now())

	_, err := f.verifyUnlocked(context.Background(), port, listHosts(), false, 0)
	var locked *LockedPortError
	require.ErrorAs(t, err, &locked)
	assert.Equal(t, port, locked.Port)
}

// TestPackageLevelWrappers exercises the Default-Finder convenience
// functions together: select, observe the lock, clear it again.
func TestPackageLevelWrappers(t *testing.T) {
	defer ClearLockedPorts()

	port, err := GetOpenPort(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, Default.isLocked(port))

	ports, err := GetPortRange(1024, 1026)
	require.NoError(t, err)
	assert.Equal(t, []int{1024, 1025, 1026}, ports)

	ClearLockedPorts()
	assert.Empty(t, Default.LockedPorts())
}

// TestLockedPortError_Identity verifies the one error kind the spec calls
// out for structured handling: it must be distinguishable by type, not by
// message inspection.
func TestLockedPortError_Identity(t *testing.T) {
	err := error(&LockedPortError{Port: 3000})

	var locked *LockedPortError
	require.True(t, errors.As(err, &locked))
	assert.Equal(t, 3000, locked.Port)
	assert.NotErrorIs(t, err, ErrNoAvailablePorts)
}
