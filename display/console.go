package display

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Console renders a conversation to a terminal. Assistant text streams
// through unstyled; function-call progress and notices are colorized.
type Console struct {
	w        io.Writer
	argsOpen bool

	callName  func(a ...interface{}) string
	callState map[State]func(a ...interface{}) string
	result    func(a ...interface{}) string
}

// NewConsole creates a Console writing to stdout.
func NewConsole() *Console {
	return NewConsoleWriter(os.Stdout)
}

// NewConsoleWriter creates a Console writing to w.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{
		w:        w,
		callName: color.New(color.FgCyan, color.Bold).SprintFunc(),
		callState: map[State]func(a ...interface{}) string{
			StateGenerating: color.New(color.FgBlue).SprintFunc(),
			StateRunning:    color.New(color.FgYellow).SprintFunc(),
			StateRan:        color.New(color.FgGreen).SprintFunc(),
			StateErrored:    color.New(color.FgRed).SprintFunc(),
		},
		result: color.New(color.FgHiBlack).SprintFunc(),
	}
}

func (c *Console) Append(text string) {
	fmt.Fprint(c.w, text)
}

func (c *Console) Finish() {
	fmt.Fprintln(c.w)
}

func (c *Console) CallStarted(name string) {
	fmt.Fprintf(c.w, "%s %s(", c.callName("ƒ"), c.callName(name))
	c.argsOpen = true
}

func (c *Console) CallArguments(fragment string) {
	fmt.Fprint(c.w, fragment)
}

func (c *Console) CallState(state State) {
	fn, ok := c.callState[state]
	if !ok {
		fn = fmt.Sprint
	}
	if state != StateGenerating && c.argsOpen {
		// Close the argument list the first time the call leaves Generating.
		fmt.Fprint(c.w, ") ")
		c.argsOpen = false
	}
	fmt.Fprintf(c.w, "[%s] ", fn(string(state)))
}

func (c *Console) CallResult(result string) {
	fmt.Fprintf(c.w, "\n%s\n", c.result(result))
}
