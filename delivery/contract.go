// SPDX-License-Identifier: ice License 1.0

package delivery

import (
	"context"
	stdlibtime "time"

	"github.com/pkg/errors"

	"github.com/ice-blockchain/rent-reminder/gateway"
)

// Public API.

type (
	StatusFetcher interface {
		Status(ctx context.Context, messageID string) (*gateway.Observation, error)
	}
	Config struct {
		MaxAttempts int                 `yaml:"maxAttempts" mapstructure:"maxAttempts"`
		Interval    stdlibtime.Duration `yaml:"interval" mapstructure:"interval"`
	}
	// Outcome is what the poller saw last. Terminal is false when attempts ran out first, which is not a failure.
	Outcome struct {
		MessageID string
		Status    string
		Attempts  int
		Terminal  bool
	}
	Poller struct {
		fetcher StatusFetcher
		cfg     Config
	}
)

// Private API.

const (
	defaultMaxAttempts = 6
	defaultInterval    = 2 * stdlibtime.Second
)

var (
	errNoStatusYet = errors.New("no terminal status yet")
	//nolint:gochecknoglobals // Immutable lookup table.
	terminalStatuses = map[string]struct{}{
		"sent":      {},
		"delivered": {},
		"read":      {},
	}
)
