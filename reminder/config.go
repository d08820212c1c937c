// SPDX-License-Identifier: ice License 1.0

package reminder

import (
	"context"
	"fmt"
	"strings"
	stdlibtime "time"

	"github.com/hashicorp/go-multierror"
	"github.com/nyaruka/phonenumbers"
	"github.com/pkg/errors"
	"github.com/sethvargo/go-envconfig"

	"github.com/ice-blockchain/rent-reminder/gateway"
	"github.com/ice-blockchain/rent-reminder/log"
	"github.com/ice-blockchain/rent-reminder/schedule"
	"github.com/ice-blockchain/rent-reminder/time"
)

// Load reads the Config from the process environment.
func Load(ctx context.Context) (Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &cfg, lookuper); err != nil {
		return Config{}, ConfigurationError(errors.Wrap(err, "parsing env vars"))
	}

	return cfg.normalized(), nil
}

func (c Config) normalized() Config {
	for _, field := range []*string{
		&c.Token, &c.RecipientID, &c.MentionID, &c.DisplayName, &c.MessageText,
		&c.ScheduleDay, &c.ScheduleTime, &c.Timezone, &c.GatePolicy,
	} {
		*field = strings.TrimSpace(*field)
	}
	if c.DisplayName == "" {
		c.DisplayName = DefaultDisplayName
	}
	if c.MessageText == "" {
		c.MessageText = DefaultMessageText
	}
	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}

	return c
}

// Validate checks every field and reports all problems at once; the result wraps ErrConfiguration.
//
//nolint:funlen,gocognit,revive // It's a flat list of checks.
func (c Config) Validate() (*Settings, error) {
	c = c.normalized()
	var problems []error
	if c.Token == "" {
		problems = append(problems, errors.New("WHAPI_TOKEN is required"))
	}
	switch {
	case c.RecipientID == "":
		problems = append(problems, errors.New("GROUP_ID is required"))
	case !strings.HasSuffix(c.RecipientID, gateway.GroupSuffix):
		problems = append(problems, errors.Errorf("GROUP_ID %q must end with %v", c.RecipientID, gateway.GroupSuffix))
	}
	switch {
	case c.MentionID == "" && c.RequireMention:
		problems = append(problems, errors.New("MENTION_WAID is required"))
	case c.MentionID != "" && strings.Trim(c.MentionID, digits) != "":
		problems = append(problems, errors.Errorf("MENTION_WAID %q must contain digits only, e.g. 918483826996", c.MentionID))
	case c.MentionID != "":
		warnIfImplausiblePhoneNumber(c.MentionID)
	}
	settings := &Settings{Config: c, Tolerance: stdlibtime.Duration(c.ToleranceMinutes) * stdlibtime.Minute}
	if c.ToleranceMinutes < 0 {
		problems = append(problems, errors.Errorf("GATE_TOLERANCE_MINUTES must not be negative, got %v", c.ToleranceMinutes))
	}
	var err error
	if settings.Location, err = time.In(c.Timezone); err != nil {
		problems = append(problems, errors.Wrap(err, "TIMEZONE"))
	}
	if settings.Target, err = schedule.ParseTarget(c.ScheduleDay, c.ScheduleTime); err != nil {
		problems = append(problems, errors.Wrap(err, "SCHEDULE_DAY/SCHEDULE_TIME"))
	}
	if settings.Policy, err = c.policy(); err != nil {
		problems = append(problems, errors.Wrap(err, "GATE_POLICY"))
	}
	if settings.Policy != "" && settings.Policy != schedule.PolicyNone && settings.Target == nil && c.ScheduleTime == "" {
		problems = append(problems, errors.Wrapf(schedule.ErrNoTarget, "GATE_POLICY %v needs SCHEDULE_TIME", settings.Policy))
	}
	if len(problems) > 0 {
		return nil, ConfigurationError(problems...)
	}

	return settings, nil
}

// ConfigurationError wraps ErrConfiguration with every problem, rendered on a single line.
func ConfigurationError(problems ...error) error {
	merr := multierror.Append(ErrConfiguration, problems...)
	merr.ErrorFormat = singleLine

	return merr
}

func singleLine(errs []error) string {
	parts := make([]string, 0, len(errs))
	for _, err := range errs {
		parts = append(parts, err.Error())
	}

	return strings.Join(parts, "; ")
}

func (c Config) policy() (schedule.Policy, error) {
	if c.GatePolicy != "" {
		policy, err := schedule.ParsePolicy(c.GatePolicy)
		if err != nil {
			return "", err //nolint:wrapcheck // Wrapped by the caller.
		}
		if c.SleepUntilExactTime && policy != schedule.PolicyWait {
			return "", errors.Errorf("SLEEP_UNTIL_EXACT_TIME can't be combined with GATE_POLICY %v", policy)
		}

		return policy, nil
	}
	switch {
	case c.SleepUntilExactTime:
		return schedule.PolicyWait, nil
	case c.ScheduleTime != "":
		return schedule.PolicyWindow, nil
	default:
		return schedule.PolicyNone, nil
	}
}

func (s *Settings) Mentions() []string {
	if s.MentionID == "" {
		return nil
	}

	return []string{s.MentionID}
}

func warnIfImplausiblePhoneNumber(mentionID string) {
	num, err := phonenumbers.Parse("+"+mentionID, "")
	if err == nil && phonenumbers.IsValidNumber(num) {
		return
	}
	log.Warn(fmt.Sprintf("%v MENTION_WAID %v doesn't look like an international phone number, the mention might not render", log.TagWarn, mentionID))
}
