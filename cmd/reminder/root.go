// SPDX-License-Identifier: ice License 1.0

package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ice-blockchain/rent-reminder/config"
	"github.com/ice-blockchain/rent-reminder/log"
	"github.com/ice-blockchain/rent-reminder/reminder"
	"github.com/ice-blockchain/rent-reminder/time"
)

const version = "0.3.0"

func newRootCmd() *cobra.Command {
	var (
		dryRun bool
		policy string
	)
	root := &cobra.Command{
		Use:   "reminder",
		Short: "Send the rent reminder to a WhatsApp group through Whapi",
		Long: "Validates the environment, evaluates the schedule gate, sends the reminder and polls its delivery status.\n" +
			"Meant to be invoked periodically by an external scheduler; a closed gate exits 0 without sending.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := reminder.Load(cmd.Context())
			if err != nil {
				return errors.Wrap(err, "load config")
			}
			if policy != "" {
				cfg.GatePolicy = policy
			}
			settings, err := cfg.Validate()
			if err != nil {
				return errors.Wrap(err, "validate config")
			}
			if used := config.ConfigFileUsed(); used != "" {
				log.Debug(fmt.Sprintf("%v using %v", log.TagDebug, used))
			}
			rem, err := reminder.New(settings, time.Real())
			if err != nil {
				return errors.Wrap(err, "build reminder")
			}
			if dryRun {
				rem.DryRun()
			}
			outcome, err := rem.Run(cmd.Context())
			if err != nil {
				return err //nolint:wrapcheck // Already descriptive.
			}
			if !outcome.Skipped && !outcome.DryRun {
				log.Info(fmt.Sprintf("%v Done.", log.TagInfo))
			}

			return nil
		},
	}
	root.Flags().BoolVar(&dryRun, "dry-run", false, "Validate and evaluate the gate, log the payload, don't send")
	root.Flags().StringVar(&policy, "policy", "", "Gate policy override: exact, window, wait or none (default from GATE_POLICY)")
	root.AddCommand(newStatusCmd())

	return root
}
