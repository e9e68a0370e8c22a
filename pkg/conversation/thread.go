package conversation

import (
	"time"

	"github.com/google/uuid"
)

// ThreadID identifies a thread. Like message parent ids, a thread's ParentID
// is a weak reference with no existence guarantee.
type ThreadID string

func NewThreadID() ThreadID {
	return ThreadID(uuid.NewString())
}

func (id ThreadID) String() string {
	return string(id)
}

// DefaultThreadID is the root thread every store starts out with. It is never
// deleted.
const DefaultThreadID ThreadID = "main"

const defaultThreadName = "Main Conversation"

// Thread is a named, ordered sequence of messages, optionally nested under a
// parent thread. Threads form a forest: any thread without a parent is a
// root.
type Thread struct {
	ID        ThreadID   `json:"id" yaml:"id"`
	Name      string     `json:"name" yaml:"name"`
	Messages  []*Message `json:"messages" yaml:"messages"`
	ParentID  ThreadID   `json:"parentThreadId,omitempty" yaml:"parentThreadId,omitempty"`
	CreatedAt time.Time  `json:"createdAt" yaml:"createdAt"`
}

type ThreadOption func(*Thread)

func WithThreadID(id ThreadID) ThreadOption {
	return func(thread *Thread) {
		thread.ID = id
	}
}

func WithParentThreadID(parentID ThreadID) ThreadOption {
	return func(thread *Thread) {
		thread.ParentID = parentID
	}
}

func WithCreatedAt(t time.Time) ThreadOption {
	return func(thread *Thread) {
		thread.CreatedAt = t
	}
}

func NewThread(name string, options ...ThreadOption) *Thread {
	ret := &Thread{
		ID:        NewThreadID(),
		Name:      name,
		Messages:  []*Message{},
		CreatedAt: time.Now(),
	}

	for _, option := range options {
		option(ret)
	}

	return ret
}

// IsRoot reports whether the thread has no parent.
func (t *Thread) IsRoot() bool {
	return t.ParentID == ""
}

// LastMessage returns the most recently appended message, or nil for an empty
// thread.
func (t *Thread) LastMessage() *Message {
	if len(t.Messages) == 0 {
		return nil
	}
	return t.Messages[len(t.Messages)-1]
}
