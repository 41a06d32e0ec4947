// ABOUTME: Session transcript export to standalone HTML
// ABOUTME: Renders assistant markdown with goldmark inside a minimal page shell

package export

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/2389/solace-client/internal/api"
)

const pageHeader = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; }
.message { margin: 1rem 0; padding: 0.75rem 1rem; border-radius: 8px; }
.user { background: #eef2ff; }
.assistant { background: #f4f4f5; }
.meta { color: #71717a; font-size: 0.8rem; margin-bottom: 0.25rem; }
</style>
</head>
<body>
<h1>%s</h1>
`

const pageFooter = "</body>\n</html>\n"

// WriteHTML renders the session transcript as a standalone HTML page.
// Assistant messages are treated as markdown; user messages are escaped
// verbatim, since they are raw input, not authored markup.
func WriteHTML(w io.Writer, s *api.ChatSession) error {
	title := s.Title
	if title == "" {
		title = "Chat session"
	}
	if _, err := fmt.Fprintf(w, pageHeader, html.EscapeString(title), html.EscapeString(title)); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, msg := range s.Messages {
		if err := writeMessage(w, &msg); err != nil {
			return err
		}
	}

	if _, err := io.WriteString(w, pageFooter); err != nil {
		return fmt.Errorf("writing footer: %w", err)
	}
	return nil
}

func writeMessage(w io.Writer, msg *api.ChatMessage) error {
	var body string
	switch msg.Role {
	case api.RoleAssistant:
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(msg.Content), &buf); err != nil {
			return fmt.Errorf("rendering markdown: %w", err)
		}
		body = buf.String()
	default:
		body = "<p>" + strings.ReplaceAll(html.EscapeString(msg.Content), "\n", "<br>") + "</p>"
	}

	stamp := ""
	if !msg.Timestamp.IsZero() {
		stamp = msg.Timestamp.Format(time.RFC1123)
	}

	_, err := fmt.Fprintf(w, "<div class=\"message %s\">\n<div class=\"meta\">%s · %s</div>\n%s</div>\n",
		html.EscapeString(msg.Role), html.EscapeString(msg.Role), stamp, body)
	if err != nil {
		return fmt.Errorf("writing message: %w", err)
	}
	return nil
}
