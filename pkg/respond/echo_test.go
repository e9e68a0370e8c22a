package respond

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/minded/pkg/conversation"
)

func TestEchoShortMessage(t *testing.T) {
	reply, err := NewEcho().Generate(context.Background(), "Hello there", nil)
	require.NoError(t, err)
	require.Equal(t, "Thank you for your message: 'Hello there'", reply)
}

func TestEchoExactlyFiftyCharacters(t *testing.T) {
	text := strings.Repeat("a", 50)
	reply, err := NewEcho().Generate(context.Background(), text, nil)
	require.NoError(t, err)
	require.Equal(t, "Thank you for your message: '"+text+"'", reply)
}

func TestEchoTruncatesLongMessage(t *testing.T) {
	text := strings.Repeat("x", 60)
	reply, err := NewEcho().Generate(context.Background(), text, nil)
	require.NoError(t, err)
	require.Equal(t, "Thank you for your message! I received: '"+strings.Repeat("x", 50)+"...'", reply)
}

func TestEchoTruncatesByRunesNotBytes(t *testing.T) {
	text := strings.Repeat("é", 60)
	reply, err := NewEcho().Generate(context.Background(), text, nil)
	require.NoError(t, err)
	require.Equal(t, "Thank you for your message! I received: '"+strings.Repeat("é", 50)+"...'", reply)
}

func TestEchoMentionsAttachments(t *testing.T) {
	attachments := []conversation.Attachment{
		{Name: "notes.txt", MimeType: "text/plain"},
		{Name: "data.csv", MimeType: "text/csv"},
	}

	reply, err := NewEcho().Generate(context.Background(), "see files", attachments)
	require.NoError(t, err)
	require.Equal(t,
		"Thank you for your message: 'see files'\n\nI also received 2 file(s): notes.txt, data.csv",
		reply)
}
