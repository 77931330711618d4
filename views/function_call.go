package views

import (
	"strings"

	"github.com/sashabaranov/go-openai"

	"chatlab/display"
)

// FunctionCallView accumulates a single in-flight function call: the name
// arrives first, then argument fragments until the finish boundary.
type FunctionCallView struct {
	name string
	args strings.Builder
	cr   display.CallRenderer
}

// NewFunctionCallView starts a view for a call to name. The renderer is
// optional; when it implements display.CallRenderer, call progress is shown.
func NewFunctionCallView(name string, r display.Renderer) *FunctionCallView {
	v := &FunctionCallView{name: name}
	if cr, ok := r.(display.CallRenderer); ok {
		v.cr = cr
		cr.CallStarted(name)
		cr.CallState(display.StateGenerating)
	}
	return v
}

// AppendArguments buffers an argument fragment.
func (v *FunctionCallView) AppendArguments(fragment string) {
	v.args.WriteString(fragment)
	if v.cr != nil {
		v.cr.CallArguments(fragment)
	}
}

// Name returns the called function's name.
func (v *FunctionCallView) Name() string {
	return v.name
}

// Arguments returns the argument JSON accumulated so far.
func (v *FunctionCallView) Arguments() string {
	return v.args.String()
}

// Message returns the assistant message recording the attempted call.
func (v *FunctionCallView) Message() openai.ChatCompletionMessage {
	return openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleAssistant,
		FunctionCall: &openai.FunctionCall{
			Name:      v.name,
			Arguments: v.args.String(),
		},
	}
}

// SetState forwards a lifecycle transition to the display, if any.
func (v *FunctionCallView) SetState(state display.State) {
	if v.cr != nil {
		v.cr.CallState(state)
	}
}

// ShowResult forwards the executed call's result to the display, if any.
func (v *FunctionCallView) ShowResult(result string) {
	if v.cr != nil {
		v.cr.CallResult(result)
	}
}
