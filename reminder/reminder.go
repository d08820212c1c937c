// SPDX-License-Identifier: ice License 1.0

package reminder

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	appcfg "github.com/ice-blockchain/rent-reminder/config"
	"github.com/ice-blockchain/rent-reminder/delivery"
	"github.com/ice-blockchain/rent-reminder/gateway"
	"github.com/ice-blockchain/rent-reminder/log"
	"github.com/ice-blockchain/rent-reminder/schedule"
	"github.com/ice-blockchain/rent-reminder/time"
)

// New wires the gate, the gateway client and the status poller for one run.
// The gateway base url, timeouts, poll attempts and the wait chunk come from application.yaml.
func New(settings *Settings, clock time.Clock) (*Reminder, error) {
	client := gateway.New(GatewayYAMLKey, settings.Token)
	var schedCfg schedule.Config
	appcfg.MustLoadFromKey(ScheduleYAMLKey, &schedCfg)

	return NewWith(settings, clock, client, delivery.New(DeliveryYAMLKey, client), &schedCfg)
}

// NewWith is New with every collaborator supplied by the caller; a nil schedCfg means the default wait chunk.
func NewWith(
	settings *Settings, clock time.Clock, client gateway.Client, poller *delivery.Poller, schedCfg *schedule.Config,
) (*Reminder, error) {
	if schedCfg == nil {
		schedCfg = new(schedule.Config)
	}
	gate, err := schedule.New(&schedule.Options{
		Clock:     clock,
		Target:    settings.Target,
		Location:  settings.Location,
		Policy:    settings.Policy,
		Tolerance: settings.Tolerance,
		WaitChunk: schedCfg.WaitChunk,
	})
	if err != nil {
		return nil, ConfigurationError(err)
	}

	return &Reminder{
		settings: settings,
		gate:     gate,
		client:   client,
		poller:   poller,
	}, nil
}

// DryRun makes Run stop right before the message would be sent.
func (r *Reminder) DryRun() *Reminder {
	r.dryRun = true

	return r
}

// Run executes gate → send → poll. A closed gate is not an error: the outcome is marked Skipped.
func (r *Reminder) Run(ctx context.Context) (*Outcome, error) {
	decision, err := r.gate.Await(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "schedule gate failed")
	}
	outcome := &Outcome{Decision: decision}
	if !decision.Pass {
		log.Info(fmt.Sprintf("%v Not scheduled time (%v). Now=%v, target=%v %v",
			log.TagSkip, decision.Policy, decision.Now, decision.Target, r.settings.Location))
		outcome.Skipped = true

		return outcome, nil
	}
	log.Info(fmt.Sprintf("%v Gate %v passed at %v (%v)", log.TagInfo, decision.Policy, decision.Now, r.settings.Location))
	outcome.Message = gateway.NewMessage(r.settings.RecipientID, r.settings.MessageText, r.settings.DisplayName, r.settings.Mentions()...)
	if r.dryRun {
		log.Info(fmt.Sprintf("%v Dry run, not sending: %#v", log.TagInfo, *outcome.Message))
		outcome.DryRun = true

		return outcome, nil
	}
	if outcome.Sent, err = r.client.Send(ctx, outcome.Message); err != nil {
		return outcome, errors.Wrapf(err, "failed to send reminder to %v", r.settings.RecipientID)
	}
	if outcome.Delivery, err = r.poller.Poll(ctx, outcome.Sent.MessageID); err != nil {
		return outcome, errors.Wrap(err, "status polling aborted")
	}

	return outcome, nil
}
