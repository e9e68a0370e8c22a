package events

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type EventType string

const (
	EventTypeThreadCreated  EventType = "thread-created"
	EventTypeThreadSwitched EventType = "thread-switched"
	EventTypeThreadCleared  EventType = "thread-cleared"
	EventTypeMessageAdded   EventType = "message-added"

	// Link-target events track the session's pending "reply to" pointer.
	EventTypeLinkTargetSet     EventType = "link-target-set"
	EventTypeLinkTargetCleared EventType = "link-target-cleared"
)

// EventMetadata identifies where in the session an event happened. Ids are
// plain strings so this package stays decoupled from the conversation types.
type EventMetadata struct {
	SessionID string `json:"session_id"`
	ThreadID  string `json:"thread_id"`
}

func (em EventMetadata) MarshalZerologObject(e *zerolog.Event) {
	e.Str("session_id", em.SessionID)
	e.Str("thread_id", em.ThreadID)
}

type Event interface {
	Type() EventType
	Metadata() EventMetadata
	Payload() []byte
}

type EventImpl struct {
	Type_     EventType     `json:"type"`
	Metadata_ EventMetadata `json:"meta,omitempty"`

	// raw JSON the event was deserialized from (see NewEventFromJson)
	payload []byte
}

func (e *EventImpl) Type() EventType {
	return e.Type_
}

func (e *EventImpl) Metadata() EventMetadata {
	return e.Metadata_
}

func (e *EventImpl) Payload() []byte {
	return e.payload
}

// SetPayload stores the raw JSON payload on the event implementation.
func (e *EventImpl) SetPayload(b []byte) {
	e.payload = b
}

func (e *EventImpl) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("type", string(e.Type_))
	ev.Object("meta", e.Metadata_)
}

var _ Event = &EventImpl{}

type EventThreadCreated struct {
	EventImpl
	ThreadID       string `json:"threadId"`
	Name           string `json:"name"`
	ParentThreadID string `json:"parentThreadId,omitempty"`
}

func NewThreadCreatedEvent(metadata EventMetadata, threadID, name, parentThreadID string) *EventThreadCreated {
	return &EventThreadCreated{
		EventImpl: EventImpl{
			Type_:     EventTypeThreadCreated,
			Metadata_: metadata,
		},
		ThreadID:       threadID,
		Name:           name,
		ParentThreadID: parentThreadID,
	}
}

type EventThreadSwitched struct {
	EventImpl
	ThreadID string `json:"threadId"`
}

func NewThreadSwitchedEvent(metadata EventMetadata, threadID string) *EventThreadSwitched {
	return &EventThreadSwitched{
		EventImpl: EventImpl{
			Type_:     EventTypeThreadSwitched,
			Metadata_: metadata,
		},
		ThreadID: threadID,
	}
}

type EventThreadCleared struct {
	EventImpl
	ThreadID string `json:"threadId"`
}

func NewThreadClearedEvent(metadata EventMetadata, threadID string) *EventThreadCleared {
	return &EventThreadCleared{
		EventImpl: EventImpl{
			Type_:     EventTypeThreadCleared,
			Metadata_: metadata,
		},
		ThreadID: threadID,
	}
}

type EventMessageAdded struct {
	EventImpl
	MessageID       string   `json:"messageId"`
	ThreadID        string   `json:"threadId"`
	Role            string   `json:"role"`
	Content         string   `json:"content"`
	ParentID        string   `json:"parentId,omitempty"`
	AttachmentNames []string `json:"attachmentNames,omitempty"`
}

func NewMessageAddedEvent(metadata EventMetadata, messageID, threadID, role, content, parentID string, attachmentNames []string) *EventMessageAdded {
	return &EventMessageAdded{
		EventImpl: EventImpl{
			Type_:     EventTypeMessageAdded,
			Metadata_: metadata,
		},
		MessageID:       messageID,
		ThreadID:        threadID,
		Role:            role,
		Content:         content,
		ParentID:        parentID,
		AttachmentNames: attachmentNames,
	}
}

type EventLinkTargetSet struct {
	EventImpl
	MessageID string `json:"messageId"`
}

func NewLinkTargetSetEvent(metadata EventMetadata, messageID string) *EventLinkTargetSet {
	return &EventLinkTargetSet{
		EventImpl: EventImpl{
			Type_:     EventTypeLinkTargetSet,
			Metadata_: metadata,
		},
		MessageID: messageID,
	}
}

type EventLinkTargetCleared struct {
	EventImpl
}

func NewLinkTargetClearedEvent(metadata EventMetadata) *EventLinkTargetCleared {
	return &EventLinkTargetCleared{
		EventImpl: EventImpl{
			Type_:     EventTypeLinkTargetCleared,
			Metadata_: metadata,
		},
	}
}

// NewEventFromJson deserializes an event from its JSON wire form, dispatching
// on the embedded type field.
func NewEventFromJson(b []byte) (Event, error) {
	var base EventImpl
	if err := json.Unmarshal(b, &base); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal event envelope")
	}

	var ret Event
	var err error

	switch base.Type_ {
	case EventTypeThreadCreated:
		ret, err = decodeEvent[EventThreadCreated](b)
	case EventTypeThreadSwitched:
		ret, err = decodeEvent[EventThreadSwitched](b)
	case EventTypeThreadCleared:
		ret, err = decodeEvent[EventThreadCleared](b)
	case EventTypeMessageAdded:
		ret, err = decodeEvent[EventMessageAdded](b)
	case EventTypeLinkTargetSet:
		ret, err = decodeEvent[EventLinkTargetSet](b)
	case EventTypeLinkTargetCleared:
		ret, err = decodeEvent[EventLinkTargetCleared](b)
	default:
		return nil, errors.Errorf("unknown event type %q", base.Type_)
	}
	if err != nil {
		return nil, err
	}

	return ret, nil
}

type eventWithPayload interface {
	Event
	SetPayload(b []byte)
}

func decodeEvent[T any, PT interface {
	*T
	eventWithPayload
}](b []byte) (Event, error) {
	ret := PT(new(T))
	if err := json.Unmarshal(b, ret); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal event")
	}
	ret.SetPayload(b)
	return ret, nil
}

// ToTypedEvent converts a generic Event to its concrete type. The assertion
// goes through any because *T is unconstrained and cannot be asserted from
// the Event interface directly.
func ToTypedEvent[T any](e Event) (*T, bool) {
	ret, ok := any(e).(*T)
	if !ok {
		return nil, false
	}
	return ret, true
}
