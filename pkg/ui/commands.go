package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"github.com/go-go-golems/minded/pkg/conversation"
	"github.com/go-go-golems/minded/pkg/preview"
)

const helpLine = "/new /sub /switch <n|id> /link <n> /unlink /attach <path> /clear /export [path] /quit"

// runCommand executes a slash command against the session. Creating a thread
// also switches to it; the core keeps create and switch separate.
func (m *model) runCommand(line string) tea.Cmd {
	fields := strings.Fields(line)
	name := fields[0]
	args := fields[1:]

	switch name {
	case "/new":
		id := m.manager.CreateThread(false)
		m.err = m.manager.SwitchTo(id)

	case "/sub":
		id := m.manager.CreateThread(true)
		m.err = m.manager.SwitchTo(id)

	case "/switch":
		if len(args) != 1 {
			m.err = errors.New("usage: /switch <number|thread-id>")
			return nil
		}
		m.switchTo(args[0])

	case "/link":
		if len(args) != 1 {
			m.err = errors.New("usage: /link <message number>")
			return nil
		}
		m.linkTo(args[0])

	case "/unlink":
		m.manager.ClearLinkTarget()
		m.status = "link target cleared"

	case "/attach":
		if len(args) != 1 {
			m.err = errors.New("usage: /attach <path>")
			return nil
		}
		attachment, err := preview.FromFile(args[0])
		if err != nil {
			m.err = err
			return nil
		}
		m.pending = append(m.pending, attachment)
		m.status = fmt.Sprintf("staged %s", attachment.Name)

	case "/clear":
		m.manager.ClearCurrentThread()

	case "/export":
		path := conversation.DefaultExportFilename()
		if len(args) == 1 {
			path = args[0]
		}
		if err := m.manager.Snapshot().SaveToFile(path); err != nil {
			m.err = errors.Wrap(err, "export failed")
			return nil
		}
		m.status = fmt.Sprintf("exported to %s", path)

	case "/help":
		m.status = helpLine

	case "/quit":
		return tea.Quit

	default:
		m.err = errors.Errorf("unknown command %s (try /help)", name)
	}

	return nil
}

// switchTo accepts either a sidebar number or a literal thread id.
func (m *model) switchTo(arg string) {
	if n, err := strconv.Atoi(arg); err == nil {
		threads := m.manager.Store().AllThreads()
		if n < 1 || n > len(threads) {
			m.err = errors.Errorf("no thread %d, have 1..%d", n, len(threads))
			return
		}
		m.err = m.manager.SwitchTo(threads[n-1].ID)
		return
	}

	m.err = m.manager.SwitchTo(conversation.ThreadID(arg))
}

// linkTo sets the pending reply target to the n-th message of the current
// thread, counted from 1.
func (m *model) linkTo(arg string) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		m.err = errors.Wrap(err, "message number must be an integer")
		return
	}

	messages := m.manager.CurrentThread().Messages
	if n < 1 || n > len(messages) {
		m.err = errors.Errorf("no message %d in this thread, have 1..%d", n, len(messages))
		return
	}

	m.manager.SetLinkTarget(messages[n-1].ID)
}
