// SPDX-License-Identifier: ice License 1.0

package schedule

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	stdlibtime "time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"github.com/ice-blockchain/rent-reminder/log"
	"github.com/ice-blockchain/rent-reminder/time"
)

func ParsePolicy(name string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(name))); p {
	case PolicyExact, PolicyWindow, PolicyWait, PolicyNone:
		return p, nil
	default:
		return "", errors.Wrapf(ErrUnknownPolicy, "%q, expected one of exact, window, wait, none", name)
	}
}

// ParseTarget builds a Target out of a day of month ("5" or "05", may be empty) and an "HH:MM" time.
// It returns nil when both are empty.
func ParseTarget(day, hhmm string) (*Target, error) {
	day, hhmm = strings.TrimSpace(day), strings.TrimSpace(hhmm)
	if day == "" && hhmm == "" {
		return nil, nil //nolint:nilnil // No target is a valid outcome.
	}
	target := new(Target)
	if day != "" {
		d, err := strconv.Atoi(day)
		if err != nil || d < 1 || d > maxDayOfMonth {
			return nil, errors.Wrapf(ErrInvalidDay, "got %q", day)
		}
		target.Day = d
	}
	if hhmm == "" {
		return nil, errors.Wrap(ErrNoTarget, "a schedule day was given without a schedule time")
	}
	parsed, err := stdlibtime.Parse(hourMinuteLayout, hhmm)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidTime, "got %q", hhmm)
	}
	target.Hour, target.Minute = parsed.Hour(), parsed.Minute()

	return target, nil
}

func (t *Target) String() string {
	if t == nil {
		return "<none>"
	}
	day := "**"
	if t.Day > 0 {
		day = fmt.Sprintf("%02d", t.Day)
	}

	return fmt.Sprintf("%v %02d:%02d", day, t.Hour, t.Minute)
}

func (t *Target) minuteOfDay() int {
	return t.Hour*minutesPerHour + t.Minute
}

func (t *Target) cronSpec() string {
	dom := "*"
	if t.Day > 0 {
		dom = strconv.Itoa(t.Day)
	}

	return fmt.Sprintf("%d %d %v * *", t.Minute, t.Hour, dom)
}

func New(opts *Options) (*Gate, error) {
	o := *opts
	if _, err := ParsePolicy(string(o.Policy)); err != nil {
		return nil, err
	}
	if o.Policy != PolicyNone && o.Target == nil {
		return nil, errors.Wrapf(ErrNoTarget, "policy %v", o.Policy)
	}
	if o.Location == nil {
		o.Location = stdlibtime.UTC
	}
	if o.Clock == nil {
		o.Clock = time.Real()
	}
	if o.Tolerance < 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.WaitChunk <= 0 || o.WaitChunk > time.MaxSleepChunk {
		o.WaitChunk = time.MaxSleepChunk
	}

	return &Gate{opts: o}, nil
}

// Evaluate decides, at the current instant, whether the run may proceed. Wait mode always passes here,
// Await is what makes it block.
func (g *Gate) Evaluate() *Decision {
	return g.evaluate(g.opts.Clock.Now().In(g.opts.Location))
}

func (g *Gate) evaluate(now stdlibtime.Time) *Decision {
	decision := &Decision{
		Policy: g.opts.Policy,
		Now:    now.Format(dayHourMinuteLayout),
		Target: g.opts.Target.String(),
	}
	switch g.opts.Policy {
	case PolicyExact:
		decision.Pass = g.dayMatches(now) && now.Format(hourMinuteLayout) == fmt.Sprintf("%02d:%02d", g.opts.Target.Hour, g.opts.Target.Minute)
	case PolicyWindow:
		diff := now.Hour()*minutesPerHour + now.Minute() - g.opts.Target.minuteOfDay()
		if diff < 0 {
			diff = -diff
		}
		decision.Pass = g.dayMatches(now) && stdlibtime.Duration(diff)*stdlibtime.Minute <= g.opts.Tolerance
	case PolicyWait, PolicyNone:
		decision.Pass = true
	}

	return decision
}

func (g *Gate) dayMatches(now stdlibtime.Time) bool {
	return g.opts.Target.Day == 0 || g.opts.Target.Day == now.Day()
}

// Await blocks in wait mode until the next occurrence of the target; every other policy returns Evaluate().
func (g *Gate) Await(ctx context.Context) (*Decision, error) {
	if g.opts.Policy != PolicyWait {
		return g.Evaluate(), nil
	}
	next, err := g.NextOccurrence()
	if err != nil {
		return nil, err
	}
	log.Info(fmt.Sprintf("%v Waiting until %v (%v)", log.TagInfo, next.Format(stdlibtime.RFC3339), g.opts.Location))
	if err = time.SleepUntil(ctx, g.opts.Clock, next, g.opts.WaitChunk); err != nil {
		return nil, errors.Wrapf(err, "waiting for %v interrupted", g.opts.Target)
	}

	return g.Evaluate(), nil
}

// NextOccurrence is the first instant matching the target that is not before the current minute.
func (g *Gate) NextOccurrence() (stdlibtime.Time, error) {
	sched, err := cron.ParseStandard(g.opts.Target.cronSpec())
	if err != nil {
		return stdlibtime.Time{}, errors.Wrapf(err, "failed to build schedule for %v", g.opts.Target)
	}
	now := g.opts.Clock.Now().In(g.opts.Location)
	next := sched.Next(now.Truncate(stdlibtime.Minute).Add(-stdlibtime.Second))
	if next.IsZero() {
		return stdlibtime.Time{}, errors.Errorf("target %v never occurs", g.opts.Target)
	}

	return next, nil
}
