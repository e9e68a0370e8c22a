package respond

// Package respond holds the response-generator collaborators the chat session
// calls to produce assistant replies. The only built-in generator is Echo,
// which quotes the user's message back; anything smarter plugs in through the
// conversation.Responder interface.

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-go-golems/minded/pkg/conversation"
)

// quoteLimit is the number of characters of the user message quoted back
// before the reply switches to the truncated form.
const quoteLimit = 50

// Echo is the canned default responder. The exact reply strings are part of
// the export compatibility surface; existing transcripts depend on them.
type Echo struct{}

func NewEcho() *Echo {
	return &Echo{}
}

var _ conversation.Responder = (*Echo)(nil)

func (e *Echo) Generate(_ context.Context, text string, attachments []conversation.Attachment) (string, error) {
	var reply string

	runes := []rune(text)
	if len(runes) > quoteLimit {
		reply = fmt.Sprintf("Thank you for your message! I received: '%s...'", string(runes[:quoteLimit]))
	} else {
		reply = fmt.Sprintf("Thank you for your message: '%s'", text)
	}

	if len(attachments) > 0 {
		names := make([]string, 0, len(attachments))
		for _, a := range attachments {
			names = append(names, a.Name)
		}
		reply += fmt.Sprintf("\n\nI also received %d file(s): %s", len(attachments), strings.Join(names, ", "))
	}

	return reply, nil
}
