package display

import (
	"fmt"
	"strings"
	"sync"
)

// Buffer is a Renderer that accumulates everything in memory. It records
// function-call events as transcript lines, which makes it useful both for
// embedding and for asserting on rendered output in tests.
type Buffer struct {
	mu     sync.Mutex
	sb     strings.Builder
	events []string
}

// NewBuffer creates an empty Buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

func (b *Buffer) Append(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sb.WriteString(text)
}

func (b *Buffer) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sb.WriteString("\n")
}

func (b *Buffer) CallStarted(name string) {
	b.recordEvent(fmt.Sprintf("call %s", name))
}

func (b *Buffer) CallArguments(fragment string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sb.WriteString(fragment)
}

func (b *Buffer) CallState(state State) {
	b.recordEvent(fmt.Sprintf("state %s", state))
}

func (b *Buffer) CallResult(result string) {
	b.recordEvent(fmt.Sprintf("result %s", result))
}

func (b *Buffer) recordEvent(line string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, line)
}

// String returns the accumulated text.
func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.String()
}

// Events returns the recorded function-call events in order.
func (b *Buffer) Events() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.events))
	copy(out, b.events)
	return out
}

// Reset clears the buffer for reuse.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sb.Reset()
	b.events = nil
}
