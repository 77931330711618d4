// Package display provides the output surfaces a conversation renders
// into: a colored terminal, an in-memory buffer, or any custom adapter.
package display

// Renderer receives assistant text as it streams in. Append is called once
// per delta; Finish marks the end of one assistant message.
type Renderer interface {
	Append(text string)
	Finish()
}

// State tracks the lifecycle of a displayed function call.
type State string

const (
	StateGenerating State = "Generating"
	StateRunning    State = "Running"
	StateRan        State = "Ran"
	StateErrored    State = "Errored"
)

// CallRenderer is an optional upgrade interface for surfaces that can show
// function-call progress alongside assistant text. A Renderer that does not
// implement it simply never sees call events.
type CallRenderer interface {
	CallStarted(name string)
	CallArguments(fragment string)
	CallState(state State)
	CallResult(result string)
}

// Discard is a Renderer that drops everything. It is the default surface
// for headless use where only the message history matters.
type Discard struct{}

func (Discard) Append(string) {}
func (Discard) Finish()       {}

// Func adapts a plain callback into a Renderer.
type Func func(text string)

func (f Func) Append(text string) { f(text) }
func (Func) Finish()              {}
