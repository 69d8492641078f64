// Package notify implements the best-effort due-date scanner. It only
// reads the collection snapshot and writes the notified flag back
// through the repository's normal update path.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/avelichko/todoflow/internal/models"
	"github.com/avelichko/todoflow/internal/repository"
)

const DefaultInterval = time.Minute

// Alerter delivers a single due-date alert for one todo.
type Alerter interface {
	Alert(ctx context.Context, todo *models.Todo)
}

// LogAlerter emits alerts to the structured log. It stands in for the
// client-side desktop notification.
type LogAlerter struct {
	Logger zerolog.Logger
}

func (a LogAlerter) Alert(_ context.Context, todo *models.Todo) {
	event := a.Logger.Warn().
		Int64("todo_id", todo.ID).
		Str("title", todo.Title).
		Str("category", todo.Category)
	if todo.DueDate != nil {
		event = event.Time("due_date", *todo.DueDate)
	}
	event.Msg("task due")
}

// Notifier periodically scans for todos whose due time has passed and
// alerts once per todo. A todo is matched whenever its due date is in
// the past and it has not been alerted yet, however late the scan
// runs, so a delayed or restarted process still catches up instead of
// silently skipping items.
type Notifier struct {
	logger   zerolog.Logger
	todos    repository.TodoRepository
	alerter  Alerter
	interval time.Duration

	stopOnce sync.Once
	stop     chan struct{}
}

func New(
	logger zerolog.Logger,
	todos repository.TodoRepository,
	alerter Alerter,
	interval time.Duration,
) *Notifier {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Notifier{
		logger:   logger,
		todos:    todos,
		alerter:  alerter,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Run scans once immediately, then on every tick until the context is
// cancelled or Stop is called.
func (n *Notifier) Run(ctx context.Context) {
	n.logger.Info().
		Dur("interval", n.interval).
		Msg("starting due-date notifier")

	if _, err := n.Scan(ctx); err != nil {
		n.logger.Error().
			Err(err).
			Msg("failed initial due-date scan")
	}

	ticker := time.NewTicker(n.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			n.logger.Info().Msg("stopped due-date notifier")
			return
		case <-n.stop:
			n.logger.Info().Msg("stopped due-date notifier")
			return
		case <-ticker.C:
			if _, err := n.Scan(ctx); err != nil {
				n.logger.Error().
					Err(err).
					Msg("failed due-date scan")
			}
		}
	}
}

// Stop ends the Run loop. It is safe to call more than once.
func (n *Notifier) Stop() {
	n.stopOnce.Do(func() {
		close(n.stop)
	})
}

// Scan alerts every active, unnotified todo whose due time has passed
// and returns the number of alerts emitted.
func (n *Notifier) Scan(ctx context.Context) (int, error) {
	todos, err := n.todos.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	alerted := 0
	for _, todo := range todos {
		if todo.Completed || todo.Notified || todo.DueDate == nil {
			continue
		}
		if todo.DueDate.After(now) {
			continue
		}

		n.alerter.Alert(ctx, todo)
		alerted++

		notified := true
		_, err = n.todos.Update(ctx, todo.ID, repository.UpdateParams{
			Notified: &notified,
		})
		if err != nil {
			// The alert already fired; the worst case of a failed
			// flag write is one repeat alert on the next scan.
			n.logger.Error().
				Err(err).
				Int64("todo_id", todo.ID).
				Msg("failed to mark todo as notified")
		}
	}

	if alerted > 0 {
		n.logger.Debug().
			Int("count", alerted).
			Msg("emitted due-date alerts")
	}
	return alerted, nil
}
