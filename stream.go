package chatlab

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sashabaranov/go-openai"

	"chatlab/display"
	"chatlab/internal/logger"
	"chatlab/views"
)

// streamResult is what the reducer hands back once a finish boundary
// arrives: why generation stopped, plus whichever accumulator was active.
type streamResult struct {
	finishReason openai.FinishReason
	functionCall *views.FunctionCallView
	toolCalls    *views.ToolCallBuilder
}

// processStream folds the delta stream into finished messages. Assistant
// text flushes into the history as soon as a function-call delta or the
// end of the stream closes it; function-call fragments accumulate in their
// views until the caller decides what to do with them.
func (c *Chat) processStream(stream *openai.ChatCompletionStream) (streamResult, error) {
	assistantView := views.NewAssistantMessageView(c.renderer)
	toolCalls := views.NewToolCallBuilder()

	var functionCall *views.FunctionCallView
	var finishReason openai.FinishReason

	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return streamResult{}, fmt.Errorf("chatlab: stream receive failed: %w", err)
		}

		if len(chunk.Choices) == 0 {
			logger.Warnf("Chunk has no choices: %s", chunk.ID)
			continue
		}
		choice := chunk.Choices[0]
		delta := choice.Delta

		switch {
		case delta.Content != "":
			assistantView.Append(delta.Content)

		case delta.FunctionCall != nil:
			fc := delta.FunctionCall
			if fc.Name != "" {
				// The model moved on from prose to a call; wrap up the
				// finished assistant message.
				if assistantView.InProgress() {
					c.messages = append(c.messages, assistantView.Flush())
				}
				functionCall = views.NewFunctionCallView(fc.Name, c.renderer)
			}
			if fc.Arguments != "" {
				if functionCall == nil {
					return streamResult{}, ErrArgumentsBeforeName
				}
				functionCall.AppendArguments(fc.Arguments)
			}

		case len(delta.ToolCalls) > 0:
			if assistantView.InProgress() && !toolCalls.InProgress() {
				c.messages = append(c.messages, assistantView.Flush())
			}
			toolCalls.Update(delta.ToolCalls...)
		}

		if choice.FinishReason != "" && choice.FinishReason != openai.FinishReasonNull {
			finishReason = choice.FinishReason
			break
		}
	}

	// Wrap up trailing assistant text. This also closes out messages the
	// model truncated when it ran out of tokens.
	if assistantView.InProgress() {
		c.messages = append(c.messages, assistantView.Flush())
	}

	if finishReason == "" {
		return streamResult{}, ErrNoFinishReason
	}

	return streamResult{
		finishReason: finishReason,
		functionCall: functionCall,
		toolCalls:    toolCalls,
	}, nil
}

// runFunctionCall executes a legacy function call and appends its result
// to the history. Execution failures are reported back to the model as the
// function result rather than aborting the conversation.
func (c *Chat) runFunctionCall(ctx context.Context, call *views.FunctionCallView) {
	call.SetState(display.StateRunning)

	content, err := c.registry.Call(ctx, call.Name(), call.Arguments())
	if err != nil {
		logger.Errorf("Function %s failed: %v", call.Name(), err)
		call.SetState(display.StateErrored)
		content = fmt.Sprintf("Error: %v", err)
	} else {
		call.SetState(display.StateRan)
	}
	call.ShowResult(content)

	c.messages = append(c.messages, FunctionResult(call.Name(), content))
}

// runToolCall executes one reassembled tool call and appends its result,
// keyed by the call ID the model assigned.
func (c *Chat) runToolCall(ctx context.Context, call openai.ToolCall) {
	view := views.NewFunctionCallView(call.Function.Name, c.renderer)
	view.AppendArguments(call.Function.Arguments)
	view.SetState(display.StateRunning)

	content, err := c.registry.Call(ctx, call.Function.Name, call.Function.Arguments)
	if err != nil {
		logger.Errorf("Tool call %s (%s) failed: %v", call.Function.Name, call.ID, err)
		view.SetState(display.StateErrored)
		content = fmt.Sprintf("Error: %v", err)
	} else {
		view.SetState(display.StateRan)
	}
	view.ShowResult(content)

	c.messages = append(c.messages, ToolResult(call.ID, call.Function.Name, content))
}
