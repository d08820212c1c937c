// SPDX-License-Identifier: ice License 1.0

package time

import (
	"context"
	stdlibtime "time"

	"github.com/pkg/errors"
)

func Real() Clock {
	return realClock{}
}

func (realClock) Now() stdlibtime.Time {
	return stdlibtime.Now()
}

func (f Frozen) Now() stdlibtime.Time {
	return stdlibtime.Time(f)
}

// In resolves a named IANA zone; an empty name means UTC.
func In(name string) (*stdlibtime.Location, error) {
	loc, err := stdlibtime.LoadLocation(name)

	return loc, errors.Wrapf(err, "unknown timezone %q", name)
}

// Sleep blocks for d or until ctx is done, whichever happens first.
func Sleep(ctx context.Context, d stdlibtime.Duration) error {
	if d <= 0 {
		return errors.Wrap(ctx.Err(), "context error")
	}
	timer := stdlibtime.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "sleep interrupted")
	case <-timer.C:
		return nil
	}
}

// SleepUntil waits for clock to reach target, sleeping at most chunk at a time (capped at MaxSleepChunk).
// The clock is re-read after every chunk, so a wall clock jump past target ends the wait on the next wake up.
func SleepUntil(ctx context.Context, clock Clock, target stdlibtime.Time, chunk stdlibtime.Duration) error {
	for {
		if ctx.Err() != nil {
			return errors.Wrap(ctx.Err(), "context error")
		}
		remaining := target.Sub(clock.Now())
		if remaining <= 0 {
			return nil
		}
		if err := Sleep(ctx, nextChunk(remaining, chunk)); err != nil {
			return err
		}
	}
}

func nextChunk(remaining, chunk stdlibtime.Duration) stdlibtime.Duration {
	if chunk <= 0 || chunk > MaxSleepChunk {
		chunk = MaxSleepChunk
	}

	return min(remaining, chunk)
}
