package conversation

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"
)

// Snapshot is the serializable form of one session: every thread keyed by id,
// plus the current-thread pointer. Timestamps serialize as RFC3339 through
// the standard time.Time JSON encoding.
type Snapshot struct {
	Threads         map[ThreadID]*Thread `json:"threads" yaml:"threads"`
	CurrentThreadID ThreadID             `json:"currentThreadId" yaml:"currentThreadId"`
}

// DefaultExportFilename names export files with a second-resolution
// timestamp. Existing tooling matches on the prefix, keep it stable.
func DefaultExportFilename() string {
	return fmt.Sprintf("nested_chat_export_%s.json", time.Now().Format("20060102_150405"))
}

func (s *Snapshot) SaveToFile(filename string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

func LoadSnapshotFromFile(filename string) (*Snapshot, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var ret Snapshot
	if err := json.Unmarshal(data, &ret); err != nil {
		return nil, err
	}
	return &ret, nil
}

// SortedThreads returns the snapshot's threads ordered by creation time, ties
// broken by id. The JSON map form loses the store's insertion order, so this
// is the canonical enumeration order after a round-trip.
func (s *Snapshot) SortedThreads() []*Thread {
	ret := make([]*Thread, 0, len(s.Threads))
	for _, t := range s.Threads {
		ret = append(ret, t)
	}
	sort.Slice(ret, func(i, j int) bool {
		if ret[i].CreatedAt.Equal(ret[j].CreatedAt) {
			return ret[i].ID < ret[j].ID
		}
		return ret[i].CreatedAt.Before(ret[j].CreatedAt)
	})
	return ret
}

// NewStoreFromSnapshot reconstructs a store from a snapshot, along with the
// thread id the restored session should point at. A missing main thread is
// recreated and a dangling current pointer falls back to it, so the store
// invariants hold even for hand-edited snapshot files.
func NewStoreFromSnapshot(s *Snapshot) (*ThreadStore, ThreadID) {
	store := &ThreadStore{
		threads: map[ThreadID]*Thread{},
	}

	for _, thread := range s.SortedThreads() {
		if thread.Messages == nil {
			thread.Messages = []*Message{}
		}
		store.insert(thread)
	}

	if _, ok := store.threads[DefaultThreadID]; !ok {
		store.insert(NewThread(defaultThreadName, WithThreadID(DefaultThreadID)))
	}

	current := s.CurrentThreadID
	if _, ok := store.threads[current]; !ok {
		current = DefaultThreadID
	}

	return store, current
}
