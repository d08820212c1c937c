// SPDX-License-Identifier: ice License 1.0

package main

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ice-blockchain/rent-reminder/delivery"
	"github.com/ice-blockchain/rent-reminder/gateway"
	"github.com/ice-blockchain/rent-reminder/log"
	"github.com/ice-blockchain/rent-reminder/reminder"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <message-id>",
		Short: "Poll the delivery status of a message sent earlier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := reminder.Load(cmd.Context())
			if err != nil {
				return errors.Wrap(err, "load config")
			}
			if cfg.Token == "" {
				return reminder.ConfigurationError(errors.New("WHAPI_TOKEN is required"))
			}
			client := gateway.New(reminder.GatewayYAMLKey, cfg.Token)
			outcome, err := delivery.New(reminder.DeliveryYAMLKey, client).Poll(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return err //nolint:wrapcheck // Already descriptive.
			}
			if !outcome.Terminal {
				log.Info(fmt.Sprintf("%v %v has no terminal status yet", log.TagStatus, outcome.MessageID))
			}

			return nil
		},
	}
}
