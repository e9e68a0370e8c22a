package transcript

// Package transcript renders session snapshots into human-readable formats
// for the export command: Markdown, HTML (Markdown pushed through goldmark)
// and YAML. JSON export is the snapshot's own serialization and lives with
// the conversation package.

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"

	"github.com/go-go-golems/minded/pkg/conversation"
	"github.com/go-go-golems/minded/pkg/preview"
)

// Markdown renders the snapshot as a Markdown document: one section per
// thread, children nested below their parents the way the thread tree is
// shown in the UI.
func Markdown(s *conversation.Snapshot) string {
	var b strings.Builder

	b.WriteString("# Nested Chat Export\n\n")
	b.WriteString(fmt.Sprintf("Current thread: `%s`\n", s.CurrentThreadID))

	threads := s.SortedThreads()
	byParent := map[conversation.ThreadID][]*conversation.Thread{}
	var roots []*conversation.Thread
	for _, t := range threads {
		if t.IsRoot() {
			roots = append(roots, t)
			continue
		}
		byParent[t.ParentID] = append(byParent[t.ParentID], t)
	}

	var render func(t *conversation.Thread, depth int)
	render = func(t *conversation.Thread, depth int) {
		heading := strings.Repeat("#", minInt(depth+2, 6))
		b.WriteString(fmt.Sprintf("\n%s %s\n\n", heading, t.Name))
		if t.ParentID != "" {
			b.WriteString(fmt.Sprintf("Parent thread: `%s`\n\n", t.ParentID))
		}

		if len(t.Messages) == 0 {
			b.WriteString("*(no messages)*\n")
		}
		for _, m := range t.Messages {
			b.WriteString(fmt.Sprintf("**%s** (%s):\n\n", m.Role, m.Time.Format(time.RFC3339)))
			b.WriteString(m.Content)
			b.WriteString("\n\n")
			if m.ParentID != "" {
				b.WriteString(fmt.Sprintf("> reply to `%s`\n\n", m.ParentID))
			}
			for _, a := range m.Attachments {
				p := preview.Render(a)
				b.WriteString(fmt.Sprintf("- attachment `%s` (%d bytes, %s)\n", a.Name, a.Size, a.MimeType))
				if p.Kind == preview.KindText {
					b.WriteString("\n```\n")
					b.WriteString(p.Body)
					b.WriteString("\n```\n")
				}
			}
			if len(m.Attachments) > 0 {
				b.WriteString("\n")
			}
		}

		for _, child := range byParent[t.ID] {
			render(child, depth+1)
		}
	}

	for _, root := range roots {
		render(root, 0)
	}

	return b.String()
}

const htmlHeader = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Nested Chat Export</title>
</head>
<body>
`

const htmlFooter = `</body>
</html>
`

// HTML renders the Markdown transcript to a standalone HTML page.
func HTML(s *conversation.Snapshot) ([]byte, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
	)

	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(s)), &body); err != nil {
		return nil, errors.Wrap(err, "failed to render transcript html")
	}

	var out bytes.Buffer
	out.WriteString(htmlHeader)
	out.Write(body.Bytes())
	out.WriteString(htmlFooter)
	return out.Bytes(), nil
}

// YAML serializes the snapshot itself, not a rendered view of it.
func YAML(s *conversation.Snapshot) ([]byte, error) {
	b, err := yaml.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal snapshot to yaml")
	}
	return b, nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
