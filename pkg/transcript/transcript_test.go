package transcript

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/go-go-golems/minded/pkg/conversation"
)

func sampleSnapshot() *conversation.Snapshot {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	main := conversation.NewThread("Main Conversation",
		conversation.WithThreadID(conversation.DefaultThreadID),
		conversation.WithCreatedAt(base))
	userMessage := conversation.NewMessage(conversation.RoleUser, "hello **there**", main.ID,
		conversation.WithTime(base),
		conversation.WithAttachments(conversation.Attachment{
			Name: "notes.txt", Size: 5, MimeType: "text/plain", Content: []byte("notes"),
		}))
	main.Messages = append(main.Messages, userMessage)

	sub := conversation.NewThread("Digression",
		conversation.WithParentThreadID(main.ID),
		conversation.WithCreatedAt(base.Add(time.Minute)))
	sub.Messages = append(sub.Messages,
		conversation.NewMessage(conversation.RoleAssistant, "nested reply", sub.ID,
			conversation.WithTime(base.Add(time.Minute)),
			conversation.WithParentID(userMessage.ID)))

	return &conversation.Snapshot{
		Threads: map[conversation.ThreadID]*conversation.Thread{
			main.ID: main,
			sub.ID:  sub,
		},
		CurrentThreadID: sub.ID,
	}
}

func TestMarkdownRendersThreadForest(t *testing.T) {
	md := Markdown(sampleSnapshot())

	require.Contains(t, md, "# Nested Chat Export")
	require.Contains(t, md, "## Main Conversation")
	// child thread nests one heading level deeper
	require.Contains(t, md, "### Digression")
	require.Contains(t, md, "hello **there**")
	require.Contains(t, md, "> reply to")
	require.Contains(t, md, "attachment `notes.txt` (5 bytes, text/plain)")
	require.Contains(t, md, "```\nnotes\n```")
}

func TestMarkdownEmptyThread(t *testing.T) {
	main := conversation.NewThread("Main Conversation",
		conversation.WithThreadID(conversation.DefaultThreadID))
	md := Markdown(&conversation.Snapshot{
		Threads:         map[conversation.ThreadID]*conversation.Thread{main.ID: main},
		CurrentThreadID: main.ID,
	})
	require.Contains(t, md, "*(no messages)*")
}

func TestHTMLWrapsRenderedMarkdown(t *testing.T) {
	out, err := HTML(sampleSnapshot())
	require.NoError(t, err)

	html := string(out)
	require.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	require.Contains(t, html, "<h1")
	require.Contains(t, html, "Nested Chat Export")
	require.Contains(t, html, "<strong>there</strong>")
	require.True(t, strings.HasSuffix(html, "</html>\n"))
}

func TestYAMLRoundTrip(t *testing.T) {
	snapshot := sampleSnapshot()
	out, err := YAML(snapshot)
	require.NoError(t, err)

	var decoded conversation.Snapshot
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	require.Len(t, decoded.Threads, 2)
	require.Equal(t, snapshot.CurrentThreadID, decoded.CurrentThreadID)
}
