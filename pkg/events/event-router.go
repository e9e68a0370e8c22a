package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/minded/pkg/helpers"
)

// ChatEventHandler dispatches decoded chat events to per-type methods. UIs
// implement this to react to session mutations without polling the store.
type ChatEventHandler interface {
	HandleThreadCreated(ctx context.Context, e *EventThreadCreated) error
	HandleThreadSwitched(ctx context.Context, e *EventThreadSwitched) error
	HandleThreadCleared(ctx context.Context, e *EventThreadCleared) error
	HandleMessageAdded(ctx context.Context, e *EventMessageAdded) error
	HandleLinkTargetSet(ctx context.Context, e *EventLinkTargetSet) error
	HandleLinkTargetCleared(ctx context.Context, e *EventLinkTargetCleared) error
}

type EventRouter struct {
	logger     watermill.LoggerAdapter
	Publisher  message.Publisher
	Subscriber message.Subscriber
	router     *message.Router
	verbose    bool
}

type EventRouterOption func(*EventRouter)

func WithLogger(logger watermill.LoggerAdapter) EventRouterOption {
	return func(r *EventRouter) {
		r.logger = logger
	}
}

func WithVerbose(verbose bool) EventRouterOption {
	return func(r *EventRouter) {
		r.verbose = verbose
		r.logger = helpers.NewWatermill(log.Logger)
	}
}

func NewEventRouter(options ...EventRouterOption) (*EventRouter, error) {
	ret := &EventRouter{
		logger: watermill.NopLogger{},
	}

	for _, o := range options {
		o(ret)
	}

	goPubSub := gochannel.NewGoChannel(gochannel.Config{
		BlockPublishUntilSubscriberAck: true,
	}, ret.logger)
	ret.Publisher = goPubSub
	ret.Subscriber = goPubSub

	router, err := message.NewRouter(message.RouterConfig{}, ret.logger)
	if err != nil {
		return nil, err
	}

	ret.router = router

	return ret, nil
}

func (e *EventRouter) Close() error {
	log.Debug().Msg("closing publisher")
	err := e.Publisher.Close()
	if err != nil {
		log.Error().Err(err).Msg("failed to close pubsub")
		// not returning just yet
	}

	log.Debug().Msg("closing router")
	err = e.router.Close()
	if err != nil {
		log.Error().Err(err).Msg("failed to close router")
	}

	return nil
}

func (e *EventRouter) AddHandler(name string, topic string, f func(msg *message.Message) error) {
	e.router.AddNoPublisherHandler(name, topic, e.Subscriber, f)
}

// RegisterChatEventHandler subscribes the given handler to chat events on the
// topic, dispatching each decoded event to the matching handler method.
func (e *EventRouter) RegisterChatEventHandler(topic string, handler ChatEventHandler) {
	e.AddHandler("chat-"+topic, topic, createChatDispatchHandler(handler))
}

func createChatDispatchHandler(handler ChatEventHandler) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		ev, err := NewEventFromJson(msg.Payload)
		if err != nil {
			log.Error().Err(err).Str("message_id", msg.UUID).
				Msg("failed to parse chat event from message payload")
			// don't kill the handler for one bad message
			return nil
		}

		msgCtx := msg.Context()
		var handlerErr error
		switch e := ev.(type) {
		case *EventThreadCreated:
			handlerErr = handler.HandleThreadCreated(msgCtx, e)
		case *EventThreadSwitched:
			handlerErr = handler.HandleThreadSwitched(msgCtx, e)
		case *EventThreadCleared:
			handlerErr = handler.HandleThreadCleared(msgCtx, e)
		case *EventMessageAdded:
			handlerErr = handler.HandleMessageAdded(msgCtx, e)
		case *EventLinkTargetSet:
			handlerErr = handler.HandleLinkTargetSet(msgCtx, e)
		case *EventLinkTargetCleared:
			handlerErr = handler.HandleLinkTargetCleared(msgCtx, e)
		default:
			log.Warn().Str("event_type", string(ev.Type())).Msg("unhandled chat event type")
		}

		if handlerErr != nil {
			log.Error().Err(handlerErr).Str("event_type", string(ev.Type())).
				Msg("error processing chat event")
			return handlerErr
		}

		return nil
	}
}

// DumpRawEvents is a debugging handler that pretty-prints every event.
func (e *EventRouter) DumpRawEvents(msg *message.Message) error {
	defer msg.Ack()

	var s map[string]interface{}
	err := json.Unmarshal(msg.Payload, &s)
	if err != nil {
		return err
	}
	if !e.verbose {
		delete(s, "meta")
	}
	s_, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(s_))
	return nil
}

func (e *EventRouter) Running() chan struct{} {
	return e.router.Running()
}

func (e *EventRouter) Run(ctx context.Context) error {
	return e.router.Run(ctx)
}
