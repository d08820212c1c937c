// SPDX-License-Identifier: ice License 1.0

package schedule

import (
	stdlibtime "time"

	"github.com/pkg/errors"

	"github.com/ice-blockchain/rent-reminder/time"
)

// Public API.

const (
	PolicyExact  Policy = "exact"
	PolicyWindow Policy = "window"
	PolicyWait   Policy = "wait"
	PolicyNone   Policy = "none"

	DefaultTolerance = 5 * stdlibtime.Minute
)

var (
	ErrUnknownPolicy = errors.New("unknown gate policy")
	ErrInvalidDay    = errors.New("schedule day must be a day of month between 1 and 31")
	ErrInvalidTime   = errors.New("schedule time must be HH:MM")
	ErrNoTarget      = errors.New("gate policy requires a schedule time")
)

type (
	Policy string
	// Target is a wall clock moment; Day 0 matches every day.
	Target struct {
		Day    int
		Hour   int
		Minute int
	}
	Options struct {
		Clock     time.Clock
		Target    *Target
		Location  *stdlibtime.Location
		Policy    Policy
		Tolerance stdlibtime.Duration
		WaitChunk stdlibtime.Duration
	}
	Config struct {
		WaitChunk stdlibtime.Duration `yaml:"waitChunk" mapstructure:"waitChunk"`
	}
	Decision struct {
		Policy Policy
		Now    string
		Target string
		Pass   bool
	}
	Gate struct {
		opts Options
	}
)

// Private API.

const (
	dayHourMinuteLayout = "02 15:04"
	hourMinuteLayout    = "15:04"
	minutesPerHour      = 60
	maxDayOfMonth       = 31
)
