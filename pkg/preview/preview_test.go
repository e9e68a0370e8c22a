package preview

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/minded/pkg/conversation"
)

func TestRenderShortText(t *testing.T) {
	p := Render(conversation.Attachment{
		MimeType: "text/plain",
		Content:  []byte("hello world"),
	})
	require.Equal(t, KindText, p.Kind)
	require.Equal(t, "hello world", p.Body)
}

func TestRenderTruncatesLongText(t *testing.T) {
	p := Render(conversation.Attachment{
		MimeType: "text/markdown",
		Content:  []byte(strings.Repeat("a", 600)),
	})
	require.Equal(t, KindText, p.Kind)
	require.Equal(t, strings.Repeat("a", 500)+"...", p.Body)
}

func TestRenderTruncatesByRunes(t *testing.T) {
	p := Render(conversation.Attachment{
		MimeType: "text/plain",
		Content:  []byte(strings.Repeat("é", 600)),
	})
	require.Equal(t, strings.Repeat("é", 500)+"...", p.Body)
}

func TestRenderJsonAsText(t *testing.T) {
	p := Render(conversation.Attachment{
		MimeType: "application/json",
		Content:  []byte(`{"a": 1}`),
	})
	require.Equal(t, KindText, p.Kind)
	require.Equal(t, `{"a": 1}`, p.Body)
}

func TestRenderImageAsDataURI(t *testing.T) {
	content := []byte{0x89, 0x50, 0x4E, 0x47}
	p := Render(conversation.Attachment{
		MimeType: "image/png",
		Content:  content,
	})
	require.Equal(t, KindImage, p.Kind)
	require.Equal(t, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(content), p.Body)
}

func TestRenderUnsupportedType(t *testing.T) {
	p := Render(conversation.Attachment{
		MimeType: "application/pdf",
		Content:  []byte("%PDF"),
	})
	require.Equal(t, KindUnsupported, p.Kind)
	require.Equal(t, "File type: application/pdf", p.Body)
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("some notes"), 0644))

	attachment, err := FromFile(path)
	require.NoError(t, err)
	require.Equal(t, "notes.txt", attachment.Name)
	require.Equal(t, int64(10), attachment.Size)
	require.Equal(t, "text/plain", attachment.MimeType)
	require.Equal(t, []byte("some notes"), attachment.Content)
}

func TestFromFileUnknownExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blob.bin")
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3}, 0644))

	attachment, err := FromFile(path)
	require.NoError(t, err)
	require.Equal(t, "application/octet-stream", attachment.MimeType)
}

func TestFromFileMissing(t *testing.T) {
	_, err := FromFile(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
}

func TestMediaTypeFromExtension(t *testing.T) {
	require.Equal(t, "text/markdown", mediaTypeFromExtension(".md"))
	require.Equal(t, "text/x-python", mediaTypeFromExtension(".py"))
	require.Equal(t, "image/jpeg", mediaTypeFromExtension(".JPG"))
	require.Equal(t, "image/webp", mediaTypeFromExtension(".webp"))
}
