package app

import (
	"context"

	"github.com/avelichko/todoflow/internal/config"
	"github.com/avelichko/todoflow/internal/notify"
)

var globalNotifier *notify.Notifier

// StartNotifier launches the due-date scanner unless it is disabled
// by configuration.
func StartNotifier() {
	cfg := config.Global().Notifier
	if !cfg.Enabled {
		globalLogger.Info().Msg("due-date notifier disabled")
		return
	}

	globalNotifier = notify.New(
		globalLogger,
		globalTodoRepository,
		notify.LogAlerter{Logger: globalLogger},
		cfg.Interval,
	)
	go globalNotifier.Run(context.Background())
}

func StopNotifier() {
	if globalNotifier != nil {
		globalNotifier.Stop()
	}
}
