package scheduled_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rpggio/scriptdesk/internal/adapter"
	"github.com/rpggio/scriptdesk/internal/domain/scheduled"
	"github.com/rpggio/scriptdesk/internal/domain/watch"
	"github.com/rpggio/scriptdesk/internal/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func mountTasks(t *testing.T, client *mocks.ScheduledClient, tasks ...scheduled.Task) *adapter.Session[scheduled.Task, scheduled.Form] {
	t.Helper()
	watches := &mocks.WatchClient{}
	watches.On("GetAllWatches", mock.Anything, watch.EntityScheduledTask).Return([]watch.Watch{}, nil)
	client.On("GetAll", mock.Anything).Return(tasks, nil)

	a := adapter.New(adapter.Config[scheduled.Task, scheduled.Form]{
		Section:    "scheduled",
		EntityType: watch.EntityScheduledTask,
		Client:     client,
		Watches:    watches,
		Confirmer:  adapter.ContextConfirmer{},
	})
	session := a.Mount()
	require.NoError(t, session.Load(context.Background()))
	return session
}

func TestRunner_RunNow(t *testing.T) {
	client := &mocks.ScheduledClient{}
	task := scheduled.Task{ID: 7, Name: "Nightly", Enabled: true}
	session := mountTasks(t, client, task)
	runner := scheduled.NewRunner(session, client)

	err := runner.RunNow(context.Background(), 7)
	require.ErrorIs(t, err, adapter.ErrDeclined)
	client.AssertNotCalled(t, "RunNow", mock.Anything, mock.Anything)

	client.On("RunNow", mock.Anything, int64(7)).Return(nil).Once()
	ctx := adapter.WithConfirmation(context.Background(), true)
	require.NoError(t, runner.RunNow(ctx, 7))
	require.Equal(t, []scheduled.Task{task}, session.Store().Items())
	client.AssertExpectations(t)
}

func TestRunner_RunNowFailure(t *testing.T) {
	client := &mocks.ScheduledClient{}
	session := mountTasks(t, client, scheduled.Task{ID: 7, Name: "Nightly"})
	client.On("RunNow", mock.Anything, int64(7)).Return(errors.New("task is already running"))

	ctx := adapter.WithConfirmation(context.Background(), true)
	err := scheduled.NewRunner(session, client).RunNow(ctx, 7)

	var fetchErr *adapter.FetchError
	require.ErrorAs(t, err, &fetchErr)
	require.Equal(t, "runNow", fetchErr.Op)
}

func TestRunner_SetEnabled(t *testing.T) {
	client := &mocks.ScheduledClient{}
	session := mountTasks(t, client, scheduled.Task{ID: 7, Name: "Nightly", Enabled: true})
	client.On("SetEnabled", mock.Anything, int64(7), false).Return(nil)

	require.NoError(t, scheduled.NewRunner(session, client).SetEnabled(context.Background(), 7, false))

	got, ok := session.Store().Get(7)
	require.True(t, ok)
	require.False(t, got.Enabled)
}

func TestRunner_SetEnabledFailureLeavesStore(t *testing.T) {
	client := &mocks.ScheduledClient{}
	session := mountTasks(t, client, scheduled.Task{ID: 7, Name: "Nightly", Enabled: true})
	client.On("SetEnabled", mock.Anything, int64(7), false).Return(errors.New("boom"))

	require.Error(t, scheduled.NewRunner(session, client).SetEnabled(context.Background(), 7, false))

	got, _ := session.Store().Get(7)
	require.True(t, got.Enabled)
}
