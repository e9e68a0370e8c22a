package conversation

// Package conversation implements the thread/message model behind the nested
// chat UI.
//
// Threads form a forest: every thread may name a parent thread, parentless
// threads are roots, and the main thread always exists. Messages belong to
// exactly one thread and may carry a weak link to an earlier message in any
// thread. Neither kind of parent reference is enforced to exist; lookups on a
// dangling reference report "not found" instead of failing the operation.
//
// The Manager interface is the session-level entry point: it owns the
// current-thread pointer and the pending link target, and it is the only
// writer of either. One Manager and one ThreadStore together make up one
// logical session; they are constructed explicitly and never shared across
// sessions.

import "context"

// Responder generates the assistant reply for a freshly sent user message.
// Implementations may be asynchronous at their own boundary; from the
// manager's point of view the reply text is an already-available value.
type Responder interface {
	Generate(ctx context.Context, text string, attachments []Attachment) (string, error)
}

// Manager defines the high-level session operations on top of a ThreadStore.
type Manager interface {
	SendMessage(ctx context.Context, text string, attachments []Attachment) (userMessage *Message, assistantMessage *Message, err error)
	CreateThread(parentOfCurrent bool) ThreadID
	SwitchTo(id ThreadID) error
	SetLinkTarget(id MessageID)
	ClearLinkTarget()
	LinkTarget() (MessageID, bool)
	ClearCurrentThread()
	CurrentThreadID() ThreadID
	CurrentThread() *Thread
	Store() *ThreadStore
	Snapshot() *Snapshot
}
