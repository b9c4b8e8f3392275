package render

import (
	"bytes"
	"html/template"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer produces the HTML fragments the wire contract ships alongside raw
// content. The server owns markup: polling clients insert these fragments
// verbatim and never build their own.
type Renderer struct {
	md goldmark.Markdown
}

func New() *Renderer {
	return &Renderer{
		// Raw HTML in user content stays escaped; only markdown-generated
		// markup survives.
		md: goldmark.New(
			goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
	}
}

// Body renders markdown content to HTML.
func (r *Renderer) Body(content string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var messageTmpl = template.Must(template.New("message").Parse(
	`<div class="message" data-id="{{.ID}}"><span class="message-sender">{{.Sender}}</span><span class="message-time">{{.SentAt}}</span><div class="message-body">{{.Body}}</div></div>`,
))

var commentTmpl = template.Must(template.New("comment").Parse(
	`<div class="comment" data-id="{{.ID}}"><span class="comment-author">{{.Sender}}</span><div class="comment-body">{{.Body}}</div></div>`,
))

type fragmentData struct {
	ID     uint
	Sender string
	SentAt string
	Body   template.HTML
}

// Message renders the full per-message fragment. The body passes through
// markdown first; sender name and timestamp are template-escaped.
func (r *Renderer) Message(id uint, sender string, sentAt time.Time, content string) (string, error) {
	body, err := r.Body(content)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	err = messageTmpl.Execute(&buf, fragmentData{
		ID:     id,
		Sender: sender,
		SentAt: sentAt.UTC().Format(time.RFC3339),
		Body:   template.HTML(body),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Comment renders a comment fragment.
func (r *Renderer) Comment(id uint, author string, content string) (string, error) {
	body, err := r.Body(content)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	err = commentTmpl.Execute(&buf, fragmentData{
		ID:     id,
		Sender: author,
		Body:   template.HTML(body),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
