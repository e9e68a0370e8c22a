package preview

// Package preview turns raw attachment bytes into something displayable.
// Failures degrade to an "unsupported preview" notice; nothing in here ever
// reaches back into the conversation core or panics on odd input.

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/go-go-golems/minded/pkg/conversation"
)

type Kind string

const (
	KindText        Kind = "text"
	KindImage       Kind = "image"
	KindUnsupported Kind = "unsupported"
)

// textPreviewLimit is the number of characters of a text attachment shown
// before truncation.
const textPreviewLimit = 500

const maxAttachmentSize = 20 * 1024 * 1024

type Preview struct {
	Kind Kind
	// Body is the truncated text, the data URI for images, or the
	// unsupported-preview notice.
	Body string
}

// Render produces a displayable form of the attachment. Text content is
// decoded as UTF-8 and truncated, images become a base64 data URI, everything
// else gets a notice naming the declared media type.
func Render(att conversation.Attachment) Preview {
	switch {
	case strings.HasPrefix(att.MimeType, "text/") || att.MimeType == "application/json":
		body := string(att.Content)
		runes := []rune(body)
		if len(runes) > textPreviewLimit {
			body = string(runes[:textPreviewLimit]) + "..."
		}
		return Preview{Kind: KindText, Body: body}

	case strings.HasPrefix(att.MimeType, "image/"):
		return Preview{
			Kind: KindImage,
			Body: fmt.Sprintf("data:%s;base64,%s", att.MimeType, base64.StdEncoding.EncodeToString(att.Content)),
		}

	default:
		return Preview{Kind: KindUnsupported, Body: fmt.Sprintf("File type: %s", att.MimeType)}
	}
}

// FromFile builds an attachment from a local file, deriving the media type
// from the extension.
func FromFile(path string) (conversation.Attachment, error) {
	file, err := os.Open(path)
	if err != nil {
		return conversation.Attachment{}, errors.Wrap(err, "failed to open file")
	}
	defer func(file *os.File) {
		_ = file.Close()
	}(file)

	fileInfo, err := file.Stat()
	if err != nil {
		return conversation.Attachment{}, errors.Wrap(err, "failed to get file info")
	}
	if fileInfo.Size() > maxAttachmentSize {
		return conversation.Attachment{}, errors.Errorf("attachment size exceeds %d byte limit", maxAttachmentSize)
	}

	content, err := io.ReadAll(file)
	if err != nil {
		return conversation.Attachment{}, errors.Wrap(err, "failed to read file content")
	}

	return conversation.Attachment{
		Name:     fileInfo.Name(),
		Size:     fileInfo.Size(),
		MimeType: mediaTypeFromExtension(filepath.Ext(path)),
		Content:  content,
	}, nil
}

func mediaTypeFromExtension(ext string) string {
	switch strings.ToLower(ext) {
	case ".txt":
		return "text/plain"
	case ".md":
		return "text/markdown"
	case ".py":
		return "text/x-python"
	case ".csv":
		return "text/csv"
	case ".json":
		return "application/json"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}
