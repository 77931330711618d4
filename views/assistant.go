// Package views holds the transient accumulators that buffer partial
// assistant text and partial function-call arguments while a response
// streams, until a boundary signal flushes them into finished messages.
package views

import (
	"strings"

	"github.com/sashabaranov/go-openai"

	"chatlab/display"
)

// AssistantMessageView buffers streamed assistant text. Each appended
// delta is also teed to the attached renderer so output appears as it is
// generated.
type AssistantMessageView struct {
	buffer   strings.Builder
	renderer display.Renderer
}

// NewAssistantMessageView creates a view rendering into r. A nil renderer
// buffers silently.
func NewAssistantMessageView(r display.Renderer) *AssistantMessageView {
	if r == nil {
		r = display.Discard{}
	}
	return &AssistantMessageView{renderer: r}
}

// Append buffers a content delta and forwards it to the renderer.
func (v *AssistantMessageView) Append(delta string) {
	v.buffer.WriteString(delta)
	v.renderer.Append(delta)
}

// InProgress reports whether any content has accumulated since the last
// flush.
func (v *AssistantMessageView) InProgress() bool {
	return v.buffer.Len() > 0
}

// Content returns the text accumulated so far without flushing.
func (v *AssistantMessageView) Content() string {
	return v.buffer.String()
}

// Flush finalizes the buffered text into an assistant message, tells the
// renderer the message is complete, and resets the view for the next one.
func (v *AssistantMessageView) Flush() openai.ChatCompletionMessage {
	content := v.buffer.String()
	v.buffer.Reset()
	v.renderer.Finish()

	return openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleAssistant,
		Content: content,
	}
}
