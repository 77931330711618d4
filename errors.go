package chatlab

import "errors"

var (
	// ErrMissingAPIKey is returned by NewChat when no client was supplied
	// and OPENAI_API_KEY is not set.
	ErrMissingAPIKey = errors.New("chatlab: OPENAI_API_KEY is not set; " +
		"generate a key at https://platform.openai.com/account/api-keys or pass WithClient")

	// ErrArgumentsBeforeName indicates the stream produced function-call
	// argument fragments before any function name was announced.
	ErrArgumentsBeforeName = errors.New("chatlab: function arguments provided without function name")

	// ErrNoFinishReason indicates the stream ended without the API ever
	// reporting why generation stopped.
	ErrNoFinishReason = errors.New("chatlab: stream ended without a finish reason")

	// ErrIncompleteFunctionCall indicates a function_call finish reason
	// arrived without a complete function call to execute.
	ErrIncompleteFunctionCall = errors.New("chatlab: function_call finish without a complete function call")
)
