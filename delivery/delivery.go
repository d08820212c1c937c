// SPDX-License-Identifier: ice License 1.0

package delivery

import (
	"context"
	"fmt"
	"strings"
	stdlibtime "time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"

	appcfg "github.com/ice-blockchain/rent-reminder/config"
	"github.com/ice-blockchain/rent-reminder/log"
)

func New(applicationYAMLKey string, fetcher StatusFetcher) *Poller {
	var cfg Config
	appcfg.MustLoadFromKey(applicationYAMLKey, &cfg)

	return NewWithConfig(cfg, fetcher)
}

func NewWithConfig(cfg Config, fetcher StatusFetcher) *Poller {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}

	return &Poller{fetcher: fetcher, cfg: cfg}
}

func IsTerminal(status string) bool {
	_, found := terminalStatuses[strings.ToLower(strings.TrimSpace(status))]

	return found
}

// Poll checks the message status until it is terminal or the attempts are exhausted.
// Failed checks are only logged; the only error returned is the context's.
func (p *Poller) Poll(ctx context.Context, messageID string) (*Outcome, error) {
	outcome := &Outcome{MessageID: messageID}
	if messageID == "" {
		log.Warn(fmt.Sprintf("%v No message id returned, skipping status check", log.TagWarn))

		return outcome, nil
	}
	err := backoff.RetryNotify(
		func() error {
			return p.check(ctx, outcome)
		},
		backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(p.cfg.Interval), uint64(p.cfg.MaxAttempts-1)), ctx), //nolint:gosec // Positive.
		func(_ error, next stdlibtime.Duration) {
			log.Debug(fmt.Sprintf("%v attempt %v/%v without terminal status, next check in %v", log.TagDebug, outcome.Attempts, p.cfg.MaxAttempts, next))
		})
	switch {
	case err == nil:
		log.Info(fmt.Sprintf("%v %v is %v", log.TagStatus, messageID, outcome.Status))

		return outcome, nil
	case ctx.Err() != nil:
		return outcome, errors.Wrapf(ctx.Err(), "status polling for %v interrupted", messageID)
	default:
		log.Warn(fmt.Sprintf("%v No terminal status for %v after %v attempts, last seen %q",
			log.TagWarn, messageID, outcome.Attempts, outcome.Status))

		return outcome, nil
	}
}

func (p *Poller) check(ctx context.Context, outcome *Outcome) error {
	if ctx.Err() != nil {
		return backoff.Permanent(ctx.Err())
	}
	outcome.Attempts++
	obs, err := p.fetcher.Status(ctx, outcome.MessageID)
	if err != nil {
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		log.Warn(fmt.Sprintf("%v status check %v/%v failed: %v", log.TagWarn, outcome.Attempts, p.cfg.MaxAttempts, err))

		return errNoStatusYet
	}
	if obs.Status != "" {
		outcome.Status = obs.Status
	}
	log.Info(fmt.Sprintf("%v attempt %v: %v", log.TagStatus, outcome.Attempts, displayStatus(obs.Status)))
	if IsTerminal(obs.Status) {
		outcome.Terminal = true

		return nil
	}

	return errNoStatusYet
}

func displayStatus(status string) string {
	if status == "" {
		return "<none>"
	}

	return status
}
