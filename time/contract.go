// SPDX-License-Identifier: ice License 1.0

package time

import (
	stdlibtime "time"
)

// Public API.

const (
	// MaxSleepChunk bounds a single uninterrupted sleep so that long waits stay responsive.
	MaxSleepChunk = 60 * stdlibtime.Second
)

type (
	Clock interface {
		Now() stdlibtime.Time
	}
	// Frozen is a Clock that always reports the same instant.
	Frozen stdlibtime.Time
)

// Private API.

type (
	realClock struct{}
)
