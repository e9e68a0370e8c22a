package conversation

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestNewStoreSeedsMainThread(t *testing.T) {
	store := NewThreadStore()

	require.Equal(t, 1, store.ThreadCount())
	require.Equal(t, 0, store.MessageCount())

	main, err := store.GetThread(DefaultThreadID)
	require.NoError(t, err)
	require.Equal(t, "Main Conversation", main.Name)
	require.True(t, main.IsRoot())
	require.Empty(t, main.Messages)
}

func TestCreateThreadNumbersDefaultNames(t *testing.T) {
	store := NewThreadStore()

	first := store.CreateThread("", "")
	second := store.CreateThread("", "")

	t1, err := store.GetThread(first)
	require.NoError(t, err)
	require.Equal(t, "Thread 2", t1.Name)

	t2, err := store.GetThread(second)
	require.NoError(t, err)
	require.Equal(t, "Thread 3", t2.Name)
}

func TestCreateThreadKeepsExplicitName(t *testing.T) {
	store := NewThreadStore()

	id := store.CreateThread("Brainstorm", "")
	thread, err := store.GetThread(id)
	require.NoError(t, err)
	require.Equal(t, "Brainstorm", thread.Name)
}

func TestCreateThreadWithParent(t *testing.T) {
	store := NewThreadStore()

	id := store.CreateThread("Sub", DefaultThreadID)
	thread, err := store.GetThread(id)
	require.NoError(t, err)
	require.False(t, thread.IsRoot())
	require.Equal(t, DefaultThreadID, thread.ParentID)

	children := store.ChildrenOf(DefaultThreadID)
	require.Len(t, children, 1)
	require.Equal(t, id, children[0].ID)

	for _, root := range store.RootThreads() {
		require.NotEqual(t, id, root.ID)
	}
}

func TestGetThreadUnknown(t *testing.T) {
	store := NewThreadStore()

	_, err := store.GetThread("nope")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrThreadNotFound))
}

func TestAppendMessageCreatesUnknownThread(t *testing.T) {
	store := NewThreadStore()

	id := ThreadID("carried-over")
	msg := NewMessage(RoleUser, "hello", id)
	store.AppendMessage(id, msg)

	thread, err := store.GetThread(id)
	require.NoError(t, err)
	require.Equal(t, "Thread 2", thread.Name)
	require.Len(t, thread.Messages, 1)
	require.Equal(t, msg.ID, thread.Messages[0].ID)
}

func TestAppendMessagePreservesOrder(t *testing.T) {
	store := NewThreadStore()

	first := NewMessage(RoleUser, "one", DefaultThreadID)
	second := NewMessage(RoleAssistant, "two", DefaultThreadID)
	store.AppendMessage(DefaultThreadID, first)
	store.AppendMessage(DefaultThreadID, second)

	main, err := store.GetThread(DefaultThreadID)
	require.NoError(t, err)
	require.Len(t, main.Messages, 2)
	require.Equal(t, first.ID, main.Messages[0].ID)
	require.Equal(t, second.ID, main.Messages[1].ID)
	require.Equal(t, second.ID, main.LastMessage().ID)
}

func TestClearMessagesKeepsThreadRecord(t *testing.T) {
	store := NewThreadStore()
	id := store.CreateThread("Sub", DefaultThreadID)

	store.AppendMessage(id, NewMessage(RoleUser, "one", id))
	store.AppendMessage(id, NewMessage(RoleAssistant, "two", id))
	require.Equal(t, 2, store.MessageCount())

	store.ClearMessages(id)

	thread, err := store.GetThread(id)
	require.NoError(t, err)
	require.Empty(t, thread.Messages)
	require.Equal(t, "Sub", thread.Name)
	require.Equal(t, DefaultThreadID, thread.ParentID)
	require.Equal(t, 0, store.MessageCount())
}

func TestClearMessagesUnknownThreadIsNoop(t *testing.T) {
	store := NewThreadStore()
	store.ClearMessages("nope")
	require.Equal(t, 1, store.ThreadCount())
}

func TestAllThreadsInsertionOrder(t *testing.T) {
	store := NewThreadStore()
	a := store.CreateThread("A", "")
	b := store.CreateThread("B", a)

	threads := store.AllThreads()
	require.Len(t, threads, 3)
	require.Equal(t, DefaultThreadID, threads[0].ID)
	require.Equal(t, a, threads[1].ID)
	require.Equal(t, b, threads[2].ID)
}
