package views

import (
	"sort"

	"github.com/sashabaranov/go-openai"
)

// ToolCallBuilder reassembles parallel tool calls from a delta stream. The
// id, type, and name arrive on the first fragment for a given index; later
// fragments only carry argument pieces, keyed by index.
type ToolCallBuilder struct {
	calls map[int]*openai.ToolCall
}

// NewToolCallBuilder creates an empty builder.
func NewToolCallBuilder() *ToolCallBuilder {
	return &ToolCallBuilder{calls: make(map[int]*openai.ToolCall)}
}

// Update folds one or more tool-call deltas into the builder.
func (b *ToolCallBuilder) Update(deltas ...openai.ToolCall) {
	for _, delta := range deltas {
		index := 0
		if delta.Index != nil {
			index = *delta.Index
		}

		existing, ok := b.calls[index]
		if !ok {
			call := delta
			b.calls[index] = &call
			continue
		}

		if delta.ID != "" {
			existing.ID = delta.ID
		}
		if delta.Type != "" {
			existing.Type = delta.Type
		}
		if delta.Function.Name != "" {
			existing.Function.Name = delta.Function.Name
		}
		existing.Function.Arguments += delta.Function.Arguments
	}
}

// InProgress reports whether any call fragments have arrived.
func (b *ToolCallBuilder) InProgress() bool {
	return len(b.calls) > 0
}

// Finalize returns the reassembled calls in index order and resets the
// builder.
func (b *ToolCallBuilder) Finalize() []openai.ToolCall {
	indexes := make([]int, 0, len(b.calls))
	for index := range b.calls {
		indexes = append(indexes, index)
	}
	sort.Ints(indexes)

	calls := make([]openai.ToolCall, 0, len(indexes))
	for _, index := range indexes {
		call := *b.calls[index]
		if call.Type == "" {
			call.Type = openai.ToolTypeFunction
		}
		calls = append(calls, call)
	}

	b.calls = make(map[int]*openai.ToolCall)
	return calls
}
