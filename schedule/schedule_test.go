// SPDX-License-Identifier: ice License 1.0

package schedule

import (
	"context"
	"sync"
	"testing"
	stdlibtime "time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ice-blockchain/rent-reminder/time"
)

func kolkata(t *testing.T) *stdlibtime.Location {
	t.Helper()
	loc, err := time.In("Asia/Kolkata")
	require.NoError(t, err)

	return loc
}

func gateAt(t *testing.T, policy Policy, target *Target, now stdlibtime.Time) *Gate {
	t.Helper()
	g, err := New(&Options{Policy: policy, Target: target, Location: now.Location(), Clock: time.Frozen(now), Tolerance: DefaultTolerance})
	require.NoError(t, err)

	return g
}

func TestParseTarget(t *testing.T) {
	t.Parallel()

	target, err := ParseTarget(" 05 ", "09:00")
	require.NoError(t, err)
	assert.Equal(t, &Target{Day: 5, Hour: 9, Minute: 0}, target)
	assert.Equal(t, "05 09:00", target.String())

	target, err = ParseTarget("", "21:30")
	require.NoError(t, err)
	assert.Equal(t, "** 21:30", target.String())

	target, err = ParseTarget("", "")
	require.NoError(t, err)
	assert.Nil(t, target)
	assert.Equal(t, "<none>", target.String())

	for _, day := range []string{"0", "32", "fifth", "-1"} {
		_, err = ParseTarget(day, "09:00")
		require.ErrorIs(t, err, ErrInvalidDay, day)
	}
	for _, hhmm := range []string{"25:00", "9", "09:60", "nine"} {
		_, err = ParseTarget("5", hhmm)
		require.ErrorIs(t, err, ErrInvalidTime, hhmm)
	}
	_, err = ParseTarget("5", "")
	require.ErrorIs(t, err, ErrNoTarget)
}

func TestParsePolicy(t *testing.T) {
	t.Parallel()

	for in, expected := range map[string]Policy{"exact": PolicyExact, " Window ": PolicyWindow, "WAIT": PolicyWait, "none": PolicyNone} {
		p, err := ParsePolicy(in)
		require.NoError(t, err)
		assert.Equal(t, expected, p)
	}
	_, err := ParsePolicy("sometimes")
	require.ErrorIs(t, err, ErrUnknownPolicy)
}

func TestNew_RequiresTarget(t *testing.T) {
	t.Parallel()

	for _, p := range []Policy{PolicyExact, PolicyWindow, PolicyWait} {
		_, err := New(&Options{Policy: p})
		require.ErrorIs(t, err, ErrNoTarget)
	}
	_, err := New(&Options{Policy: "bogus"})
	require.ErrorIs(t, err, ErrUnknownPolicy)
	g, err := New(&Options{Policy: PolicyNone})
	require.NoError(t, err)
	assert.True(t, g.Evaluate().Pass)
}

func TestExactGate(t *testing.T) {
	t.Parallel()
	loc := kolkata(t)
	target := &Target{Day: 5, Hour: 9}

	for now, pass := range map[stdlibtime.Time]bool{
		stdlibtime.Date(2025, 3, 5, 9, 0, 0, 0, loc):   true,
		stdlibtime.Date(2025, 3, 5, 9, 0, 59, 0, loc):  true,
		stdlibtime.Date(2025, 3, 5, 9, 1, 0, 0, loc):   false,
		stdlibtime.Date(2025, 3, 5, 8, 59, 59, 0, loc): false,
		stdlibtime.Date(2025, 3, 6, 9, 0, 0, 0, loc):   false,
	} {
		assert.Equal(t, pass, gateAt(t, PolicyExact, target, now).Evaluate().Pass, now.String())
	}
}

func TestWindowGate(t *testing.T) {
	t.Parallel()
	loc := kolkata(t)
	target := &Target{Day: 5, Hour: 9}

	for now, pass := range map[stdlibtime.Time]bool{
		stdlibtime.Date(2025, 3, 5, 9, 2, 0, 0, loc):   true,
		stdlibtime.Date(2025, 3, 5, 9, 5, 0, 0, loc):   true,
		stdlibtime.Date(2025, 3, 5, 8, 55, 0, 0, loc):  true,
		stdlibtime.Date(2025, 3, 5, 9, 6, 0, 0, loc):   false,
		stdlibtime.Date(2025, 3, 5, 8, 54, 59, 0, loc): false,
		stdlibtime.Date(2025, 3, 4, 9, 0, 0, 0, loc):   false,
	} {
		assert.Equal(t, pass, gateAt(t, PolicyWindow, target, now).Evaluate().Pass, now.String())
	}
}

func TestWindowGate_EveryDayWhenNoDay(t *testing.T) {
	t.Parallel()
	loc := kolkata(t)

	assert.True(t, gateAt(t, PolicyWindow, &Target{Hour: 9}, stdlibtime.Date(2025, 3, 17, 9, 3, 0, 0, loc)).Evaluate().Pass)
}

func TestGateEvaluatesInConfiguredTimezone(t *testing.T) {
	t.Parallel()
	loc := kolkata(t)
	// 03:32 UTC is 09:02 in Kolkata.
	nowUTC := stdlibtime.Date(2025, 3, 5, 3, 32, 0, 0, stdlibtime.UTC)
	g, err := New(&Options{Policy: PolicyWindow, Target: &Target{Day: 5, Hour: 9}, Location: loc, Clock: time.Frozen(nowUTC), Tolerance: DefaultTolerance})
	require.NoError(t, err)

	decision := g.Evaluate()
	assert.Equal(t, &Decision{Policy: PolicyWindow, Now: "05 09:02", Target: "05 09:00", Pass: true}, decision)
}

func TestNextOccurrence(t *testing.T) {
	t.Parallel()
	loc := kolkata(t)
	target := &Target{Day: 5, Hour: 9}

	next, err := gateAt(t, PolicyWait, target, stdlibtime.Date(2025, 3, 5, 9, 0, 30, 0, loc)).NextOccurrence()
	require.NoError(t, err)
	assert.True(t, next.Equal(stdlibtime.Date(2025, 3, 5, 9, 0, 0, 0, loc)), next.String())

	next, err = gateAt(t, PolicyWait, target, stdlibtime.Date(2025, 3, 4, 23, 0, 0, 0, loc)).NextOccurrence()
	require.NoError(t, err)
	assert.True(t, next.Equal(stdlibtime.Date(2025, 3, 5, 9, 0, 0, 0, loc)), next.String())

	next, err = gateAt(t, PolicyWait, target, stdlibtime.Date(2025, 3, 5, 9, 1, 0, 0, loc)).NextOccurrence()
	require.NoError(t, err)
	assert.True(t, next.Equal(stdlibtime.Date(2025, 4, 5, 9, 0, 0, 0, loc)), next.String())

	next, err = gateAt(t, PolicyWait, &Target{Hour: 9}, stdlibtime.Date(2025, 3, 5, 9, 1, 0, 0, loc)).NextOccurrence()
	require.NoError(t, err)
	assert.True(t, next.Equal(stdlibtime.Date(2025, 3, 6, 9, 0, 0, 0, loc)), next.String())
}

func TestAwait_PassesImmediatelyWhenTargetReached(t *testing.T) {
	t.Parallel()
	loc := kolkata(t)
	g := gateAt(t, PolicyWait, &Target{Day: 5, Hour: 9}, stdlibtime.Date(2025, 3, 5, 9, 0, 10, 0, loc))

	decision, err := g.Await(t.Context())
	require.NoError(t, err)
	assert.True(t, decision.Pass)
	assert.Equal(t, PolicyWait, decision.Policy)
}

func TestAwait_Interruptible(t *testing.T) {
	t.Parallel()
	loc := kolkata(t)
	g := gateAt(t, PolicyWait, &Target{Day: 5, Hour: 9}, stdlibtime.Date(2025, 3, 5, 8, 0, 0, 0, loc))
	ctx, cancel := context.WithTimeout(t.Context(), 50*stdlibtime.Millisecond)
	defer cancel()

	started := stdlibtime.Now()
	_, err := g.Await(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, stdlibtime.Since(started), 5*stdlibtime.Second)
}

func TestAwait_NonWaitPoliciesDoNotBlock(t *testing.T) {
	t.Parallel()
	loc := kolkata(t)
	g := gateAt(t, PolicyExact, &Target{Day: 5, Hour: 9}, stdlibtime.Date(2025, 3, 5, 8, 0, 0, 0, loc))

	decision, err := g.Await(t.Context())
	require.NoError(t, err)
	assert.False(t, decision.Pass)
	assert.Equal(t, "05 08:00", decision.Now)
}

func TestWindowGate_HonoursConfiguredTolerance(t *testing.T) {
	t.Parallel()
	loc := kolkata(t)
	target := &Target{Day: 5, Hour: 9}
	gate := func(tolerance stdlibtime.Duration, minute int) bool {
		now := stdlibtime.Date(2025, 3, 5, 9, minute, 0, 0, loc)
		g, err := New(&Options{Policy: PolicyWindow, Target: target, Location: loc, Clock: time.Frozen(now), Tolerance: tolerance})
		require.NoError(t, err)

		return g.Evaluate().Pass
	}

	assert.True(t, gate(0, 0))
	assert.False(t, gate(0, 1))
	assert.False(t, gate(0, 4))
	assert.True(t, gate(10*stdlibtime.Minute, 8))
	assert.True(t, gate(10*stdlibtime.Minute, 10))
	assert.False(t, gate(10*stdlibtime.Minute, 11))
	assert.True(t, gate(-stdlibtime.Minute, 5))
	assert.False(t, gate(-stdlibtime.Minute, 6))
}

type steppingClock struct {
	readings []stdlibtime.Time
	reads    int
	mx       sync.Mutex
}

func (c *steppingClock) Now() stdlibtime.Time {
	c.mx.Lock()
	defer c.mx.Unlock()
	at := c.readings[min(c.reads, len(c.readings)-1)]
	c.reads++

	return at
}

func TestAwait_ClockJumpPastTargetPassesOnNextChunk(t *testing.T) {
	t.Parallel()
	loc := kolkata(t)
	early := stdlibtime.Date(2025, 3, 5, 8, 0, 0, 0, loc)
	clock := &steppingClock{readings: []stdlibtime.Time{early, early, stdlibtime.Date(2025, 3, 5, 9, 0, 5, 0, loc)}}
	g, err := New(&Options{Policy: PolicyWait, Target: &Target{Day: 5, Hour: 9}, Location: loc, Clock: clock, WaitChunk: 10 * stdlibtime.Millisecond})
	require.NoError(t, err)

	started := stdlibtime.Now()
	decision, err := g.Await(t.Context())
	require.NoError(t, err)
	assert.Less(t, stdlibtime.Since(started), 5*stdlibtime.Second)
	assert.Equal(t, &Decision{Policy: PolicyWait, Now: "05 09:00", Target: "05 09:00", Pass: true}, decision)
}
