// SPDX-License-Identifier: ice License 1.0

package reminder

import (
	stdlibtime "time"

	"github.com/pkg/errors"

	"github.com/ice-blockchain/rent-reminder/delivery"
	"github.com/ice-blockchain/rent-reminder/gateway"
	"github.com/ice-blockchain/rent-reminder/schedule"
)

// Public API.

const (
	DefaultDisplayName = "Resident"
	DefaultMessageText = "please confirm if rent for Raintree flat has been received this month?"
	DefaultTimezone    = "Asia/Kolkata"

	GatewayYAMLKey  = "reminder/gateway"
	DeliveryYAMLKey = "reminder/delivery"
	ScheduleYAMLKey = "reminder/schedule"
)

var (
	ErrConfiguration = errors.New("invalid configuration")
)

type (
	// Config is the per-run input, read once from the environment.
	Config struct {
		Token               string `env:"WHAPI_TOKEN"`
		RecipientID         string `env:"GROUP_ID"`
		MentionID           string `env:"MENTION_WAID"`
		DisplayName         string `env:"DISPLAY_NAME"`
		MessageText         string `env:"MESSAGE_TEXT"`
		ScheduleDay         string `env:"SCHEDULE_DAY"`
		ScheduleTime        string `env:"SCHEDULE_TIME"`
		Timezone            string `env:"TIMEZONE"`
		GatePolicy          string `env:"GATE_POLICY"`
		ToleranceMinutes    int    `env:"GATE_TOLERANCE_MINUTES,default=5"`
		SleepUntilExactTime bool   `env:"SLEEP_UNTIL_EXACT_TIME,default=false"`
		RequireMention      bool   `env:"REQUIRE_MENTION,default=false"`
	}
	// Settings is a Config that passed validation, with its schedule resolved.
	Settings struct {
		Target   *schedule.Target
		Location *stdlibtime.Location
		Config
		Policy    schedule.Policy
		Tolerance stdlibtime.Duration
	}
	Outcome struct {
		Decision *schedule.Decision
		Message  *gateway.Message
		Sent     *gateway.SendResult
		Delivery *delivery.Outcome
		Skipped  bool
		DryRun   bool
	}
	Reminder struct {
		settings *Settings
		gate     *schedule.Gate
		client   gateway.Client
		poller   *delivery.Poller
		dryRun   bool
	}
)

// Private API.

const (
	digits = "0123456789"
)
