package conversation

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// MessageID identifies a single message. IDs are plain strings so that
// references can dangle (a parent id may point at a message that was cleared
// away) without the type system getting in the way.
type MessageID string

func NewMessageID() MessageID {
	return MessageID(uuid.NewString())
}

func (id MessageID) String() string {
	return string(id)
}

// Attachment is a named, typed payload carried by a user message. Content is
// kept as raw bytes; turning it into something displayable is the preview
// package's job.
type Attachment struct {
	Name     string `json:"name" yaml:"name"`
	Size     int64  `json:"size" yaml:"size"`
	MimeType string `json:"mimeType" yaml:"mimeType"`
	Content  []byte `json:"content" yaml:"content"`
}

func (a Attachment) String() string {
	return fmt.Sprintf("%s (%d bytes, %s)", a.Name, a.Size, a.MimeType)
}

// Message is a single chat turn belonging to exactly one thread.
//
// ParentID is a weak reference: it may point at a message in any thread, and
// nothing guarantees the target still exists. Renderers show "not found"
// rather than the core raising an error.
type Message struct {
	ID          MessageID    `json:"id" yaml:"id"`
	Content     string       `json:"content" yaml:"content"`
	Role        Role         `json:"role" yaml:"role"`
	Time        time.Time    `json:"timestamp" yaml:"timestamp"`
	ParentID    MessageID    `json:"parentId,omitempty" yaml:"parentId,omitempty"`
	ThreadID    ThreadID     `json:"threadId" yaml:"threadId"`
	Attachments []Attachment `json:"attachments" yaml:"attachments"`
}

type MessageOption func(*Message)

func WithTime(t time.Time) MessageOption {
	return func(message *Message) {
		message.Time = t
	}
}

func WithParentID(parentID MessageID) MessageOption {
	return func(message *Message) {
		message.ParentID = parentID
	}
}

func WithMessageID(id MessageID) MessageOption {
	return func(message *Message) {
		message.ID = id
	}
}

func WithAttachments(attachments ...Attachment) MessageOption {
	return func(message *Message) {
		message.Attachments = append(message.Attachments, attachments...)
	}
}

// NewMessage creates a message bound to the given thread. The thread id is
// immutable afterwards; appending the message to a different thread is a bug
// in the caller.
func NewMessage(role Role, content string, threadID ThreadID, options ...MessageOption) *Message {
	ret := &Message{
		ID:          NewMessageID(),
		Content:     content,
		Role:        role,
		Time:        time.Now(),
		ThreadID:    threadID,
		Attachments: []Attachment{},
	}

	for _, option := range options {
		option(ret)
	}

	return ret
}

// View renders the message for terminal display.
func (m *Message) View() string {
	return fmt.Sprintf("[%s]: %s", m.Role, strings.TrimRight(m.Content, "\n"))
}

// AttachmentNames returns the attachment names in insertion order.
func (m *Message) AttachmentNames() []string {
	names := make([]string, 0, len(m.Attachments))
	for _, a := range m.Attachments {
		names = append(names, a.Name)
	}
	return names
}
