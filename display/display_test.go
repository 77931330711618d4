package display

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferAccumulates(t *testing.T) {
	b := NewBuffer()
	b.Append("I am ")
	b.Append("a large bird.")
	b.Finish()

	assert.Equal(t, "I am a large bird.\n", b.String())

	b.Reset()
	assert.Empty(t, b.String())
}

func TestBufferRecordsCallEvents(t *testing.T) {
	b := NewBuffer()
	b.CallStarted("lookup")
	b.CallArguments(`{"q":"birds"}`)
	b.CallState(StateRunning)
	b.CallState(StateRan)
	b.CallResult("3 birds")

	assert.Equal(t, []string{
		"call lookup",
		"state Running",
		"state Ran",
		"result 3 birds",
	}, b.Events())
	assert.Equal(t, `{"q":"birds"}`, b.String())
}

func TestFuncRenderer(t *testing.T) {
	var got strings.Builder
	f := Func(func(text string) { got.WriteString(text) })
	f.Append("hello")
	f.Append(" world")
	f.Finish()

	assert.Equal(t, "hello world", got.String())
}

func TestConsoleWritesThrough(t *testing.T) {
	var out strings.Builder
	c := NewConsoleWriter(&out)

	c.Append("streamed text")
	c.Finish()
	assert.Contains(t, out.String(), "streamed text")

	out.Reset()
	c.CallStarted("lookup")
	c.CallArguments(`{"q":"x"}`)
	c.CallState(StateRunning)
	c.CallState(StateRan)
	c.CallResult("done")

	rendered := out.String()
	assert.Contains(t, rendered, "lookup")
	assert.Contains(t, rendered, `{"q":"x"}`)
	assert.Contains(t, rendered, "Running")
	assert.Contains(t, rendered, "Ran")
	assert.Contains(t, rendered, "done")
}

func TestConsoleClosesArgumentsOnFirstStateChange(t *testing.T) {
	var out strings.Builder
	c := NewConsoleWriter(&out)

	// A call can fail before it ever reaches Running.
	c.CallStarted("lookup")
	c.CallArguments(`{"q":"x"}`)
	c.CallState(StateErrored)
	c.CallState(StateErrored)

	rendered := out.String()
	assert.Equal(t, 1, strings.Count(rendered, "("))
	assert.Equal(t, 1, strings.Count(rendered, ")"))
	assert.Contains(t, rendered, "Errored")
}

func TestDiscard(t *testing.T) {
	var d Discard
	d.Append("nothing")
	d.Finish()
}
