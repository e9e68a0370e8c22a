package conversation

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTripThroughFile(t *testing.T) {
	store := NewThreadStore()
	sub := store.CreateThread("Sub", DefaultThreadID)
	store.AppendMessage(DefaultThreadID, NewMessage(RoleUser, "hello", DefaultThreadID))
	store.AppendMessage(sub, NewMessage(RoleAssistant, "nested reply", sub,
		WithAttachments(Attachment{Name: "a.txt", Size: 1, MimeType: "text/plain", Content: []byte("x")})))

	snapshot := &Snapshot{
		Threads:         map[ThreadID]*Thread{},
		CurrentThreadID: sub,
	}
	for _, thread := range store.AllThreads() {
		snapshot.Threads[thread.ID] = thread
	}

	path := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, snapshot.SaveToFile(path))

	loaded, err := LoadSnapshotFromFile(path)
	require.NoError(t, err)
	require.Equal(t, sub, loaded.CurrentThreadID)
	require.Len(t, loaded.Threads, 2)

	restored, current := NewStoreFromSnapshot(loaded)
	require.Equal(t, sub, current)
	require.Equal(t, 2, restored.ThreadCount())
	require.Equal(t, 2, restored.MessageCount())

	subThread, err := restored.GetThread(sub)
	require.NoError(t, err)
	require.Equal(t, "Sub", subThread.Name)
	require.Equal(t, DefaultThreadID, subThread.ParentID)
	require.Len(t, subThread.Messages, 1)
	require.Equal(t, "nested reply", subThread.Messages[0].Content)
	require.Equal(t, []string{"a.txt"}, subThread.Messages[0].AttachmentNames())
}

func TestNewStoreFromSnapshotRecreatesMain(t *testing.T) {
	orphan := NewThread("Orphan")
	snapshot := &Snapshot{
		Threads:         map[ThreadID]*Thread{orphan.ID: orphan},
		CurrentThreadID: "gone",
	}

	store, current := NewStoreFromSnapshot(snapshot)
	require.Equal(t, DefaultThreadID, current)

	main, err := store.GetThread(DefaultThreadID)
	require.NoError(t, err)
	require.Equal(t, "Main Conversation", main.Name)
	require.Equal(t, 2, store.ThreadCount())
}

func TestNewStoreFromSnapshotRepairsNilMessages(t *testing.T) {
	thread := NewThread("Main Conversation", WithThreadID(DefaultThreadID))
	thread.Messages = nil

	store, _ := NewStoreFromSnapshot(&Snapshot{
		Threads:         map[ThreadID]*Thread{DefaultThreadID: thread},
		CurrentThreadID: DefaultThreadID,
	})

	main, err := store.GetThread(DefaultThreadID)
	require.NoError(t, err)
	require.NotNil(t, main.Messages)
}

func TestSortedThreadsByCreationTime(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	older := NewThread("Older", WithCreatedAt(base))
	newer := NewThread("Newer", WithCreatedAt(base.Add(time.Minute)))

	snapshot := &Snapshot{
		Threads: map[ThreadID]*Thread{
			newer.ID: newer,
			older.ID: older,
		},
	}

	sorted := snapshot.SortedThreads()
	require.Len(t, sorted, 2)
	require.Equal(t, "Older", sorted[0].Name)
	require.Equal(t, "Newer", sorted[1].Name)
}

func TestDefaultExportFilename(t *testing.T) {
	name := DefaultExportFilename()
	require.True(t, strings.HasPrefix(name, "nested_chat_export_"))
	require.True(t, strings.HasSuffix(name, ".json"))

	stamp := strings.TrimSuffix(strings.TrimPrefix(name, "nested_chat_export_"), ".json")
	_, err := time.Parse("20060102_150405", stamp)
	require.NoError(t, err)
}
