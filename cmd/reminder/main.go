// SPDX-License-Identifier: ice License 1.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"

	"github.com/ice-blockchain/rent-reminder/gateway"
	"github.com/ice-blockchain/rent-reminder/log"
	"github.com/ice-blockchain/rent-reminder/reminder"
	"github.com/ice-blockchain/rent-reminder/terror"
)

const (
	exitOK      = 0
	exitFailure = 1
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:])
	stop()
	os.Exit(code) //nolint:revive // It's the entrypoint.
}

func execute(ctx context.Context, args []string) int {
	cmd := newRootCmd()
	cmd.SetArgs(append([]string{}, args...))
	if err := cmd.ExecuteContext(ctx); err != nil {
		report(err)

		return exitFailure
	}

	return exitOK
}

func report(err error) {
	msg := fmt.Sprintf("%v: %v", errorKind(err), err)
	if tErr := terror.As(err); tErr != nil && len(tErr.Data) > 0 {
		msg = fmt.Sprintf("%v [%v]", msg, tErr.Describe())
	}
	log.Error(errors.New(msg))
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, reminder.ErrConfiguration):
		return "configuration error"
	case errors.Is(err, gateway.ErrGatewayRejected):
		return "gateway rejected error"
	case errors.Is(err, gateway.ErrMalformedResponse):
		return "malformed response error"
	case errors.Is(err, context.Canceled):
		return "interrupted"
	default:
		return "failure"
	}
}
