package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/require"
)

// recordingHandler collects the event types it was dispatched, in order.
type recordingHandler struct {
	mu    sync.Mutex
	types []EventType
}

func (h *recordingHandler) record(t EventType) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.types = append(h.types, t)
}

func (h *recordingHandler) recorded() []EventType {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]EventType{}, h.types...)
}

func (h *recordingHandler) HandleThreadCreated(_ context.Context, e *EventThreadCreated) error {
	h.record(e.Type())
	return nil
}

func (h *recordingHandler) HandleThreadSwitched(_ context.Context, e *EventThreadSwitched) error {
	h.record(e.Type())
	return nil
}

func (h *recordingHandler) HandleThreadCleared(_ context.Context, e *EventThreadCleared) error {
	h.record(e.Type())
	return nil
}

func (h *recordingHandler) HandleMessageAdded(_ context.Context, e *EventMessageAdded) error {
	h.record(e.Type())
	return nil
}

func (h *recordingHandler) HandleLinkTargetSet(_ context.Context, e *EventLinkTargetSet) error {
	h.record(e.Type())
	return nil
}

func (h *recordingHandler) HandleLinkTargetCleared(_ context.Context, e *EventLinkTargetCleared) error {
	h.record(e.Type())
	return nil
}

var _ ChatEventHandler = (*recordingHandler)(nil)

func TestRegisterChatEventHandlerDispatchesOverRouter(t *testing.T) {
	router, err := NewEventRouter()
	require.NoError(t, err)
	defer func() {
		_ = router.Close()
	}()

	handler := &recordingHandler{}
	router.RegisterChatEventHandler("chat", handler)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = router.Run(ctx)
	}()
	<-router.Running()

	pm := NewPublisherManager()
	pm.SubscribePublisher("chat", router.Publisher)

	require.NoError(t, pm.Publish(NewThreadCreatedEvent(testMetadata(), "t-1", "Thread 2", "main")))
	require.NoError(t, pm.Publish(NewMessageAddedEvent(testMetadata(), "m-1", "t-1", "user", "hi", "", nil)))
	require.NoError(t, pm.Publish(NewLinkTargetSetEvent(testMetadata(), "m-1")))

	require.Eventually(t, func() bool {
		return len(handler.recorded()) == 3
	}, 2*time.Second, 10*time.Millisecond)

	require.Equal(t, []EventType{
		EventTypeThreadCreated,
		EventTypeMessageAdded,
		EventTypeLinkTargetSet,
	}, handler.recorded())
}

func TestChatDispatchHandlerSkipsMalformedPayload(t *testing.T) {
	handler := &recordingHandler{}
	dispatch := createChatDispatchHandler(handler)

	// a bad payload must not kill the handler, only get logged and dropped
	require.NoError(t, dispatch(message.NewMessage("id-1", []byte("not json"))))
	require.Empty(t, handler.recorded())
}
