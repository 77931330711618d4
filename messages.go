package chatlab

import (
	"github.com/sashabaranov/go-openai"
)

// Message constructors. The history rides on go-openai's wire types
// directly, so these are thin helpers that keep call sites readable.

// System creates a system instruction message.
func System(content string) openai.ChatCompletionMessage {
	return openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: content,
	}
}

// User creates a message from the user.
func User(content string) openai.ChatCompletionMessage {
	return openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: content,
	}
}

// Assistant creates a message from the assistant.
func Assistant(content string) openai.ChatCompletionMessage {
	return openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleAssistant,
		Content: content,
	}
}

// AssistantFunctionCall records the assistant requesting a function call.
func AssistantFunctionCall(name, arguments string) openai.ChatCompletionMessage {
	return openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleAssistant,
		FunctionCall: &openai.FunctionCall{
			Name:      name,
			Arguments: arguments,
		},
	}
}

// AssistantToolCalls records the assistant requesting one or more tool calls.
func AssistantToolCalls(calls ...openai.ToolCall) openai.ChatCompletionMessage {
	return openai.ChatCompletionMessage{
		Role:      openai.ChatMessageRoleAssistant,
		ToolCalls: calls,
	}
}

// FunctionResult carries the output of an executed function back to the model.
func FunctionResult(name, content string) openai.ChatCompletionMessage {
	return openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleFunction,
		Name:    name,
		Content: content,
	}
}

// ToolResult carries the output of an executed tool call back to the model,
// keyed by the tool call ID the model assigned.
func ToolResult(toolCallID, name, content string) openai.ChatCompletionMessage {
	return openai.ChatCompletionMessage{
		Role:       openai.ChatMessageRoleTool,
		Name:       name,
		Content:    content,
		ToolCallID: toolCallID,
	}
}

// Aliases kept for transcript readability.
var (
	Narrate = System
	Human   = User
	AI      = Assistant
)
