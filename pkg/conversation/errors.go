package conversation

import "github.com/pkg/errors"

var (
	// ErrThreadNotFound is returned when an operation references a thread id
	// that is not present in the store. The one documented exception is
	// ThreadStore.AppendMessage, which creates the missing thread instead.
	ErrThreadNotFound = errors.New("thread not found")

	// ErrEmptyMessage is returned when a blank (or whitespace-only) message
	// text is submitted. Callers are expected to block submission before
	// invoking SendMessage; the core rejects rather than silently no-oping.
	ErrEmptyMessage = errors.New("empty message")
)
