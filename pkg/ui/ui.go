package ui

// Package ui is the terminal front end of the nested chat: a thread-tree
// sidebar, a message pane rendering the current thread, and a single-line
// input that takes either a message or a slash command. All session mutation
// goes through the conversation.Manager; the model itself only holds display
// state (scroll position, staged attachments, status line).

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/go-go-golems/minded/pkg/conversation"
	"github.com/go-go-golems/minded/pkg/events"
	"github.com/go-go-golems/minded/pkg/preview"
)

const (
	sidebarWidth = 28
	scrollStep   = 3

	// attachmentPreviewLines caps how much of a text attachment is inlined in
	// the message pane. The full preview still goes into exports.
	attachmentPreviewLines = 3
)

type errMsg error

type model struct {
	manager conversation.Manager

	input  textinput.Model
	keyMap KeyMap
	style  *Style

	renderer *glamour.TermRenderer

	// attachments staged with /attach, consumed by the next sent message
	pending []conversation.Attachment

	// scrollOffset counts lines up from the bottom of the message pane
	scrollOffset int

	status string
	err    error

	width  int
	height int
}

func NewModel(manager conversation.Manager) tea.Model {
	ret := model{
		manager: manager,
		style:   DefaultStyles(),
		keyMap:  DefaultKeyMap,
	}

	ret.input = textinput.New()
	ret.input.Placeholder = "Type a message, or /help for commands"
	ret.input.Focus()

	return ret
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keyMap.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keyMap.ScrollUp):
			m.scrollOffset += scrollStep

		case key.Matches(msg, m.keyMap.ScrollDown):
			m.scrollOffset -= scrollStep
			if m.scrollOffset < 0 {
				m.scrollOffset = 0
			}

		case key.Matches(msg, m.keyMap.SubmitMessage):
			cmd = (&m).submit()
			cmds = append(cmds, cmd)

		default:
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 4
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(m.paneWidth()),
		)
		if err == nil {
			m.renderer = renderer
		}

	case EventMsg:
		(&m).applyEvent(msg.Event)

	case errMsg:
		m.err = msg
		return m, nil

	default:
	}

	return m, tea.Batch(cmds...)
}

// submit consumes the input line. Both slash commands and message sends run
// synchronously inside Update: the manager and its store are single-owner
// state, and View reads them between updates, so no tea.Cmd goroutine may
// ever touch them. The Responder contract is synchronous, so there is
// nothing to wait for anyway.
func (m *model) submit() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	m.input.Reset()
	m.err = nil
	m.status = ""

	if text == "" {
		return nil
	}
	if strings.HasPrefix(text, "/") {
		return m.runCommand(text)
	}

	attachments := m.pending
	m.pending = nil

	if _, _, err := m.manager.SendMessage(context.Background(), text, attachments); err != nil {
		m.err = err
		return nil
	}
	m.scrollOffset = 0

	return nil
}

func (m *model) applyEvent(e events.Event) {
	switch e_ := e.(type) {
	case *events.EventThreadCreated:
		m.status = fmt.Sprintf("created thread %q", e_.Name)
	case *events.EventThreadSwitched:
		m.status = fmt.Sprintf("switched to thread %s", e_.ThreadID)
		m.scrollOffset = 0
	case *events.EventThreadCleared:
		m.status = "thread cleared"
		m.scrollOffset = 0
	case *events.EventMessageAdded:
		m.scrollOffset = 0
	case *events.EventLinkTargetSet:
		m.status = fmt.Sprintf("next message will reply to %s", e_.MessageID)
	case *events.EventLinkTargetCleared:
		// the reply caption in the status line disappears on its own
	}
}

func (m model) View() string {
	if m.width == 0 {
		return "loading...\n"
	}

	// header, status and input each take a line, plus the input border
	bodyHeight := m.height - 4
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	header := m.style.Header.Render(fmt.Sprintf("minded | %s", m.manager.CurrentThread().Name))
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.sidebarView(bodyHeight), m.paneView(bodyHeight))
	input := m.style.Input.Width(m.width).Render(m.input.View())

	return strings.Join([]string{header, body, m.statusView(), input}, "\n")
}

// sidebarView renders the thread forest: roots in creation order, children
// indented two spaces per level, the current thread marked and highlighted.
// The numbers are the /switch indices.
func (m model) sidebarView(height int) string {
	store := m.manager.Store()

	index := map[conversation.ThreadID]int{}
	for i, t := range store.AllThreads() {
		index[t.ID] = i + 1
	}

	var lines []string
	var walk func(t *conversation.Thread, depth int)
	walk = func(t *conversation.Thread, depth int) {
		marker := "  "
		style := m.style.SidebarEntry
		if t.ID == m.manager.CurrentThreadID() {
			marker = "> "
			style = m.style.SidebarCurrent
		}
		label := fmt.Sprintf("%s%s%d %s", marker, strings.Repeat("  ", depth), index[t.ID], t.Name)
		lines = append(lines, style.Render(truncateLine(label, sidebarWidth-2)))

		for _, child := range store.ChildrenOf(t.ID) {
			walk(child, depth+1)
		}
	}
	for _, root := range store.RootThreads() {
		walk(root, 0)
	}

	for len(lines) < height {
		lines = append(lines, "")
	}
	if len(lines) > height {
		lines = lines[:height]
	}

	return m.style.Sidebar.Width(sidebarWidth).Render(strings.Join(lines, "\n"))
}

func (m model) paneWidth() int {
	w := m.width - sidebarWidth - 2
	if w < 20 {
		w = 20
	}
	return w
}

func (m model) paneView(height int) string {
	lines := m.messageLines()

	maxOffset := len(lines) - height
	if maxOffset < 0 {
		maxOffset = 0
	}
	offset := m.scrollOffset
	if offset > maxOffset {
		offset = maxOffset
	}

	end := len(lines) - offset
	start := end - height
	if start < 0 {
		start = 0
	}

	return lipgloss.NewStyle().
		Width(m.paneWidth()).
		Height(height).
		Render(strings.Join(lines[start:end], "\n"))
}

func (m model) messageLines() []string {
	thread := m.manager.CurrentThread()
	var lines []string

	if len(thread.Messages) == 0 {
		return []string{m.style.Caption.Render("(no messages yet)")}
	}

	for _, msg := range thread.Messages {
		label := m.style.UserLabel
		if msg.Role == conversation.RoleAssistant {
			label = m.style.AssistantLabel
		}
		lines = append(lines, fmt.Sprintf("%s %s",
			m.style.Timestamp.Render(msg.Time.Format("15:04")),
			label.Render(string(msg.Role))))

		if msg.ParentID != "" {
			caption := fmt.Sprintf("↳ reply to %s", msg.ParentID)
			if m.findMessage(msg.ParentID) == nil {
				caption += " (not found)"
			}
			lines = append(lines, m.style.Caption.Render(caption))
		}

		lines = append(lines, m.renderContent(msg.Content)...)

		for _, a := range msg.Attachments {
			lines = append(lines, m.style.Attachment.Render("📎 "+a.String()))
			p := preview.Render(a)
			if p.Kind == preview.KindText {
				previewLines := strings.Split(p.Body, "\n")
				if len(previewLines) > attachmentPreviewLines {
					previewLines = append(previewLines[:attachmentPreviewLines], "...")
				}
				for _, l := range previewLines {
					lines = append(lines, m.style.Attachment.Render("   "+truncateLine(l, m.paneWidth()-4)))
				}
			}
		}

		lines = append(lines, "")
	}

	return lines
}

func (m model) renderContent(content string) []string {
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(content); err == nil {
			return strings.Split(strings.Trim(rendered, "\n"), "\n")
		}
	}
	return strings.Split(content, "\n")
}

// findMessage resolves a message id across every thread. Link targets may
// point anywhere, including at messages that were cleared away.
func (m model) findMessage(id conversation.MessageID) *conversation.Message {
	for _, t := range m.manager.Store().AllThreads() {
		for _, msg := range t.Messages {
			if msg.ID == id {
				return msg
			}
		}
	}
	return nil
}

func (m model) statusView() string {
	if m.err != nil {
		return m.style.ErrorText.Render("error: " + m.err.Error())
	}

	var parts []string
	if target, ok := m.manager.LinkTarget(); ok {
		parts = append(parts, fmt.Sprintf("replying to %s", target))
	}
	if len(m.pending) > 0 {
		parts = append(parts, fmt.Sprintf("%d attachment(s) staged", len(m.pending)))
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	if len(parts) == 0 {
		return m.style.Status.Render("enter to send, /help for commands, ctrl+c to quit")
	}

	return m.style.Status.Render(strings.Join(parts, " | "))
}

func truncateLine(s string, width int) string {
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}
