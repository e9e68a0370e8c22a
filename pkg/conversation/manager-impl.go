package conversation

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/minded/pkg/events"
)

type ManagerImpl struct {
	store     *ThreadStore
	SessionID uuid.UUID

	current    ThreadID
	linkTarget MessageID

	responder Responder
	publisher *events.PublisherManager

	autosaveEnabled bool
	autosaveFormat  string
	autosaveDir     string
	startTime       time.Time
}

var _ Manager = (*ManagerImpl)(nil)

type ManagerOption func(*ManagerImpl)

func WithStore(store *ThreadStore) ManagerOption {
	return func(m *ManagerImpl) {
		m.store = store
	}
}

func WithResponder(responder Responder) ManagerOption {
	return func(m *ManagerImpl) {
		m.responder = responder
	}
}

func WithPublisher(publisher *events.PublisherManager) ManagerOption {
	return func(m *ManagerImpl) {
		m.publisher = publisher
	}
}

func WithSessionID(sessionID uuid.UUID) ManagerOption {
	return func(m *ManagerImpl) {
		m.SessionID = sessionID
	}
}

// WithCurrentThread sets the initial current thread, for sessions restored
// from a snapshot. Unknown ids fall back to the main thread.
func WithCurrentThread(id ThreadID) ManagerOption {
	return func(m *ManagerImpl) {
		m.current = id
	}
}

func WithAutosave(enabled string, format string, dir string) ManagerOption {
	return func(m *ManagerImpl) {
		m.autosaveEnabled = strings.ToLower(enabled) == "yes"

		if dir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				// fallback to current directory if home dir cannot be determined
				homeDir = "."
			}
			m.autosaveDir = filepath.Join(homeDir, ".minded", "history")
		} else {
			m.autosaveDir = dir
		}

		if format == "" {
			m.autosaveFormat = "{{.Year}}/{{.Month}}/{{.Day}}/{{.Time.Format \"150405\"}}-{{.SessionID}}.json"
		} else {
			m.autosaveFormat = format
		}
	}
}

func NewManager(options ...ManagerOption) *ManagerImpl {
	ret := &ManagerImpl{
		SessionID: uuid.Nil,
		current:   DefaultThreadID,
		startTime: time.Now(),
	}
	for _, option := range options {
		option(ret)
	}

	if ret.store == nil {
		ret.store = NewThreadStore()
	}
	if ret.SessionID == uuid.Nil {
		ret.SessionID = uuid.New()
	}
	if _, err := ret.store.GetThread(ret.current); err != nil {
		ret.current = DefaultThreadID
	}

	return ret
}

func (m *ManagerImpl) Store() *ThreadStore {
	return m.store
}

func (m *ManagerImpl) CurrentThreadID() ThreadID {
	return m.current
}

// CurrentThread returns the thread the session is pointed at. The current
// pointer always refers to an existing thread, so this cannot fail.
func (m *ManagerImpl) CurrentThread() *Thread {
	thread, err := m.store.GetThread(m.current)
	if err != nil {
		// currentThreadID invariant violated, repoint at main
		log.Error().Str("thread_id", m.current.String()).Msg("current thread missing, repointing at main")
		m.current = DefaultThreadID
		thread, _ = m.store.GetThread(m.current)
	}
	return thread
}

// SendMessage appends the user message and the generated assistant reply to
// the current thread, in that order. A pending link target is recorded as the
// user message's parent and consumed, whether or not the responder succeeds.
// Blank text is rejected with ErrEmptyMessage before anything is appended.
func (m *ManagerImpl) SendMessage(ctx context.Context, text string, attachments []Attachment) (*Message, *Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil, ErrEmptyMessage
	}
	if m.responder == nil {
		return nil, nil, errors.New("no responder configured")
	}

	options := []MessageOption{WithAttachments(attachments...)}
	if m.linkTarget != "" {
		options = append(options, WithParentID(m.linkTarget))
	}
	userMessage := NewMessage(RoleUser, text, m.current, options...)
	m.store.AppendMessage(m.current, userMessage)

	hadLinkTarget := m.linkTarget != ""
	m.linkTarget = ""

	log.Debug().
		Str("thread_id", m.current.String()).
		Str("message_id", userMessage.ID.String()).
		Str("parent_id", userMessage.ParentID.String()).
		Int("attachment_count", len(attachments)).
		Msg("user message appended")

	m.publishMessageAdded(userMessage)
	if hadLinkTarget {
		m.publishBlind(events.NewLinkTargetClearedEvent(m.eventMetadata()))
	}

	// Record first, then act: the user message stays in the thread even if
	// the responder fails.
	reply, err := m.responder.Generate(ctx, text, attachments)
	if err != nil {
		return userMessage, nil, errors.Wrap(err, "response generation failed")
	}

	assistantMessage := NewMessage(RoleAssistant, reply, m.current)
	m.store.AppendMessage(m.current, assistantMessage)
	m.publishMessageAdded(assistantMessage)

	if m.autosaveEnabled {
		if err := m.autoSave(); err != nil {
			log.Warn().Err(err).Msg("autosave failed")
		}
	}

	return userMessage, assistantMessage, nil
}

// CreateThread creates a new thread, optionally nested under the current one.
// It deliberately does not switch the session to the new thread; callers that
// want the original UI behavior follow up with SwitchTo.
func (m *ManagerImpl) CreateThread(parentOfCurrent bool) ThreadID {
	parentID := ThreadID("")
	if parentOfCurrent {
		parentID = m.current
	}
	id := m.store.CreateThread("", parentID)

	thread, _ := m.store.GetThread(id)
	m.publishBlind(events.NewThreadCreatedEvent(
		m.eventMetadata(), id.String(), thread.Name, parentID.String()))

	return id
}

func (m *ManagerImpl) SwitchTo(id ThreadID) error {
	if _, err := m.store.GetThread(id); err != nil {
		return err
	}
	m.current = id
	m.publishBlind(events.NewThreadSwitchedEvent(m.eventMetadata(), id.String()))
	return nil
}

func (m *ManagerImpl) SetLinkTarget(id MessageID) {
	m.linkTarget = id
	m.publishBlind(events.NewLinkTargetSetEvent(m.eventMetadata(), id.String()))
}

func (m *ManagerImpl) ClearLinkTarget() {
	if m.linkTarget == "" {
		return
	}
	m.linkTarget = ""
	m.publishBlind(events.NewLinkTargetClearedEvent(m.eventMetadata()))
}

func (m *ManagerImpl) LinkTarget() (MessageID, bool) {
	return m.linkTarget, m.linkTarget != ""
}

// ClearCurrentThread empties the current thread's messages, keeping the
// thread record itself. Any pending link target is dropped along with the
// messages it may have pointed into.
func (m *ManagerImpl) ClearCurrentThread() {
	m.store.ClearMessages(m.current)
	hadLinkTarget := m.linkTarget != ""
	m.linkTarget = ""

	m.publishBlind(events.NewThreadClearedEvent(m.eventMetadata(), m.current.String()))
	if hadLinkTarget {
		m.publishBlind(events.NewLinkTargetClearedEvent(m.eventMetadata()))
	}
}

// Snapshot produces the serializable session state. Pure read, no mutation.
func (m *ManagerImpl) Snapshot() *Snapshot {
	threads := make(map[ThreadID]*Thread, m.store.ThreadCount())
	for _, t := range m.store.AllThreads() {
		threads[t.ID] = t
	}
	return &Snapshot{
		Threads:         threads,
		CurrentThreadID: m.current,
	}
}

func (m *ManagerImpl) eventMetadata() events.EventMetadata {
	return events.EventMetadata{
		SessionID: m.SessionID.String(),
		ThreadID:  m.current.String(),
	}
}

func (m *ManagerImpl) publishMessageAdded(message *Message) {
	m.publishBlind(events.NewMessageAddedEvent(
		m.eventMetadata(),
		message.ID.String(),
		message.ThreadID.String(),
		string(message.Role),
		message.Content,
		message.ParentID.String(),
		message.AttachmentNames(),
	))
}

func (m *ManagerImpl) publishBlind(e events.Event) {
	if m.publisher == nil {
		return
	}
	m.publisher.PublishBlind(e)
}

func (m *ManagerImpl) autoSave() error {
	data := map[string]interface{}{
		"Year":      m.startTime.Format("2006"),
		"Month":     m.startTime.Format("01"),
		"Day":       m.startTime.Format("02"),
		"SessionID": m.SessionID.String(),
		"Time":      m.startTime,
	}

	tmpl, err := template.New("autosave").Funcs(sprig.TxtFuncMap()).Parse(m.autosaveFormat)
	if err != nil {
		return err
	}

	var filePathBuffer strings.Builder
	err = tmpl.Execute(&filePathBuffer, data)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(m.autosaveDir, filePathBuffer.String())

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	return m.Snapshot().SaveToFile(fullPath)
}
