package notify

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelichko/todoflow/internal/models"
	"github.com/avelichko/todoflow/internal/repository"
	"github.com/avelichko/todoflow/internal/storage"
)

// recordingAlerter captures every alert for inspection.
type recordingAlerter struct {
	alerts []*models.Todo
}

func (a *recordingAlerter) Alert(_ context.Context, todo *models.Todo) {
	a.alerts = append(a.alerts, todo)
}

func newTestNotifier(t *testing.T) (repository.TodoRepository, *Notifier, *recordingAlerter) {
	t.Helper()

	store := storage.NewFileStore(filepath.Join(t.TempDir(), "todos.json"), "")
	repo, err := repository.NewKV(context.Background(), zerolog.Nop(), store)
	require.NoError(t, err)

	alerter := &recordingAlerter{}
	notifier := New(zerolog.Nop(), repo, alerter, time.Minute)
	return repo, notifier, alerter
}

func TestScan_AlertsOnceForDueTodo(t *testing.T) {
	repo, notifier, alerter := newTestNotifier(t)
	ctx := context.Background()

	due := time.Now().Add(-10 * time.Second)
	created, err := repo.Create(ctx, repository.CreateParams{
		Title:   "Submit expenses",
		DueDate: &due,
	})
	require.NoError(t, err)

	alerted, err := notifier.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, alerted)
	require.Len(t, alerter.alerts, 1)
	assert.Equal(t, created.ID, alerter.alerts[0].ID)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.Notified)

	// A second scan right after emits nothing further.
	alerted, err = notifier.Scan(ctx)
	require.NoError(t, err)
	assert.Zero(t, alerted)
	assert.Len(t, alerter.alerts, 1)
}

func TestScan_CatchesUpOnLongOverdueTodos(t *testing.T) {
	repo, notifier, alerter := newTestNotifier(t)
	ctx := context.Background()

	// Overdue far beyond any scan interval, as after a restart or a
	// suspended process.
	due := time.Now().Add(-48 * time.Hour)
	_, err := repo.Create(ctx, repository.CreateParams{
		Title:   "Renew passport",
		DueDate: &due,
	})
	require.NoError(t, err)

	alerted, err := notifier.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, alerted)
	assert.Len(t, alerter.alerts, 1)
}

func TestScan_SkipsCompletedFutureAndUndated(t *testing.T) {
	repo, notifier, alerter := newTestNotifier(t)
	ctx := context.Background()

	past := time.Now().Add(-time.Minute)
	future := time.Now().Add(time.Hour)

	done, err := repo.Create(ctx, repository.CreateParams{
		Title:   "Already handled",
		DueDate: &past,
	})
	require.NoError(t, err)
	completed := true
	_, err = repo.Update(ctx, done.ID, repository.UpdateParams{Completed: &completed})
	require.NoError(t, err)

	_, err = repo.Create(ctx, repository.CreateParams{
		Title:   "Not due yet",
		DueDate: &future,
	})
	require.NoError(t, err)

	_, err = repo.Create(ctx, repository.CreateParams{Title: "No deadline"})
	require.NoError(t, err)

	alerted, err := notifier.Scan(ctx)
	require.NoError(t, err)
	assert.Zero(t, alerted)
	assert.Empty(t, alerter.alerts)
}

func TestRun_StopEndsLoop(t *testing.T) {
	_, notifier, _ := newTestNotifier(t)

	done := make(chan struct{})
	go func() {
		notifier.Run(context.Background())
		close(done)
	}()

	notifier.Stop()
	// Stop is idempotent.
	notifier.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("notifier did not stop")
	}
}
