package conversation

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ThreadStore owns the mapping of thread ids to threads for one session.
//
// The store is deliberately single-threaded: every operation runs to
// completion before the next one starts, and each logical session owns its
// own instance. Serving multiple concurrent sessions means constructing one
// store per session, not sharing one.
type ThreadStore struct {
	threads map[ThreadID]*Thread
	order   []ThreadID
}

// NewThreadStore creates a store seeded with the main thread.
func NewThreadStore() *ThreadStore {
	ret := &ThreadStore{
		threads: map[ThreadID]*Thread{},
	}
	ret.insert(NewThread(defaultThreadName, WithThreadID(DefaultThreadID)))
	return ret
}

func (s *ThreadStore) insert(thread *Thread) {
	s.threads[thread.ID] = thread
	s.order = append(s.order, thread.ID)
}

// defaultName numbers threads by creation order, counting the threads present
// at call time. Uniqueness of the label is not required, only of the id.
func (s *ThreadStore) defaultName() string {
	return fmt.Sprintf("Thread %d", len(s.threads)+1)
}

// CreateThread allocates a fresh thread and returns its id. An empty name is
// replaced with a numbered default. The parent id is stored as given; it is
// not required to name an existing thread afterwards.
func (s *ThreadStore) CreateThread(name string, parentID ThreadID) ThreadID {
	if name == "" {
		name = s.defaultName()
	}
	thread := NewThread(name)
	if parentID != "" {
		thread.ParentID = parentID
	}
	s.insert(thread)

	log.Debug().
		Str("thread_id", thread.ID.String()).
		Str("parent_thread_id", parentID.String()).
		Str("name", thread.Name).
		Msg("created thread")

	return thread.ID
}

// GetThread looks up a thread by id.
func (s *ThreadStore) GetThread(id ThreadID) (*Thread, error) {
	thread, ok := s.threads[id]
	if !ok {
		return nil, errors.Wrapf(ErrThreadNotFound, "thread %s", id)
	}
	return thread, nil
}

// AppendMessage appends a message to the named thread. If the thread does not
// exist yet, it is created on the spot with that exact id and a default name.
// This fallback is intentional: callers that hold a thread id from a previous
// session can keep appending to it without re-creating the thread first.
func (s *ThreadStore) AppendMessage(id ThreadID, message *Message) {
	thread, ok := s.threads[id]
	if !ok {
		thread = NewThread(s.defaultName(), WithThreadID(id))
		s.insert(thread)
		log.Debug().
			Str("thread_id", id.String()).
			Msg("append to unknown thread, created it")
	}
	thread.Messages = append(thread.Messages, message)
}

// ClearMessages empties the thread's message sequence in place. The thread
// record itself (id, name, parent) is untouched. Unknown ids are treated as
// already clear.
func (s *ThreadStore) ClearMessages(id ThreadID) {
	thread, ok := s.threads[id]
	if !ok {
		return
	}
	thread.Messages = thread.Messages[:0]
}

// AllThreads returns the threads in insertion order.
func (s *ThreadStore) AllThreads() []*Thread {
	ret := make([]*Thread, 0, len(s.order))
	for _, id := range s.order {
		ret = append(ret, s.threads[id])
	}
	return ret
}

// RootThreads returns the threads without a parent, in insertion order. The
// main thread is always among them.
func (s *ThreadStore) RootThreads() []*Thread {
	var ret []*Thread
	for _, id := range s.order {
		if t := s.threads[id]; t.IsRoot() {
			ret = append(ret, t)
		}
	}
	return ret
}

// ChildrenOf returns the threads whose parent is the given id, in the order
// they were created.
func (s *ThreadStore) ChildrenOf(id ThreadID) []*Thread {
	var ret []*Thread
	for _, tid := range s.order {
		if t := s.threads[tid]; t.ParentID == id {
			ret = append(ret, t)
		}
	}
	return ret
}

// ThreadCount returns the number of threads in the store.
func (s *ThreadStore) ThreadCount() int {
	return len(s.threads)
}

// MessageCount returns the total number of messages across all threads.
func (s *ThreadStore) MessageCount() int {
	count := 0
	for _, t := range s.threads {
		count += len(t.Messages)
	}
	return count
}
