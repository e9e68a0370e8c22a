package ui

import (
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/charmbracelet/bubbletea"

	"github.com/go-go-golems/minded/pkg/events"
)

// EventMsg wraps a session event for delivery into the bubbletea event loop.
type EventMsg struct {
	Event events.Event
}

// ChatForwardFunc returns a watermill handler that decodes session events off
// the wire and forwards them to the running program. The message is acked up
// front: a UI that cannot display an event is no reason to redeliver it.
func ChatForwardFunc(p *tea.Program) func(msg *message.Message) error {
	return func(msg *message.Message) error {
		msg.Ack()

		e, err := events.NewEventFromJson(msg.Payload)
		if err != nil {
			return err
		}

		p.Send(EventMsg{Event: e})

		return nil
	}
}
