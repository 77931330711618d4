// Package registry maps function names to local callables and the JSON
// schemas advertised to the model, letting a chat model request in-process
// code execution.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"chatlab/internal/logger"
)

var (
	// ErrDuplicateFunction is returned when registering a name that is
	// already taken.
	ErrDuplicateFunction = errors.New("registry: function name already registered")

	// ErrFunctionNotFound is returned by Call for names the model invented
	// when no hallucination handler is installed.
	ErrFunctionNotFound = errors.New("registry: function not found")

	// ErrInvalidArguments is returned when the model supplied arguments
	// that are not valid JSON.
	ErrInvalidArguments = errors.New("registry: arguments are not valid JSON")
)

// Func is the shape of a registered callable. It receives the raw JSON
// argument string the model produced and returns the payload fed back to
// the model as the function result.
type Func func(ctx context.Context, arguments string) (string, error)

// UnknownFunc handles calls to names that were never registered, mirroring
// a model hallucinating a function it wishes existed.
type UnknownFunc func(ctx context.Context, name, arguments string) (string, error)

// FunctionDef couples a callable with the schema the model sees.
type FunctionDef struct {
	Name        string
	Description string
	Parameters  jsonschema.Definition
	Fn          Func
}

// FunctionRegistry is a thread-safe name to FunctionDef mapping.
type FunctionRegistry struct {
	mu             sync.RWMutex
	functions      map[string]FunctionDef
	unknownHandler UnknownFunc
}

// New creates an empty registry.
func New() *FunctionRegistry {
	return &FunctionRegistry{
		functions: make(map[string]FunctionDef),
	}
}

// Register adds a function definition. Unlike tool tables that silently
// replace entries, a duplicate name is an error: the manifest sent to the
// model must be unambiguous.
func (r *FunctionRegistry) Register(def FunctionDef) error {
	if def.Name == "" {
		return fmt.Errorf("registry: function name must not be empty")
	}
	if def.Fn == nil {
		return fmt.Errorf("registry: function %q has no callable", def.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.functions[def.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateFunction, def.Name)
	}

	r.functions[def.Name] = def
	logger.Debugf("Registered function: %s", def.Name)
	return nil
}

// RegisterFunc is shorthand for Register with an explicit schema.
func (r *FunctionRegistry) RegisterFunc(name, description string, parameters jsonschema.Definition, fn Func) error {
	return r.Register(FunctionDef{
		Name:        name,
		Description: description,
		Parameters:  parameters,
		Fn:          fn,
	})
}

// SetUnknownHandler installs a fallback invoked when the model calls a name
// that is not registered. Passing nil removes it.
func (r *FunctionRegistry) SetUnknownHandler(fn UnknownFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unknownHandler = fn
}

// Get returns a definition by name.
func (r *FunctionRegistry) Get(name string) (FunctionDef, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, exists := r.functions[name]
	if !exists {
		return FunctionDef{}, fmt.Errorf("%w: %s", ErrFunctionNotFound, name)
	}
	return def, nil
}

// Names returns the registered function names in sorted order.
func (r *FunctionRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.functions))
	for name := range r.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports how many functions are registered.
func (r *FunctionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.functions)
}

// Tools converts the registry to the tool-call request manifest.
func (r *FunctionRegistry) Tools() []openai.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]openai.Tool, 0, len(r.functions))
	for _, def := range r.functions {
		params := def.Parameters
		tools = append(tools, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  params,
			},
		})
	}
	return tools
}

// Functions converts the registry to the legacy function-call manifest.
func (r *FunctionRegistry) Functions() []openai.FunctionDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]openai.FunctionDefinition, 0, len(r.functions))
	for _, def := range r.functions {
		defs = append(defs, openai.FunctionDefinition{
			Name:        def.Name,
			Description: def.Description,
			Parameters:  def.Parameters,
		})
	}
	return defs
}

// Call executes a named function with the JSON argument string the model
// produced. Unknown names fall through to the hallucination handler when
// one is installed.
func (r *FunctionRegistry) Call(ctx context.Context, name, arguments string) (string, error) {
	r.mu.RLock()
	def, exists := r.functions[name]
	unknown := r.unknownHandler
	r.mu.RUnlock()

	if !exists {
		if unknown != nil {
			logger.Debugf("Dispatching hallucinated function %q to unknown handler", name)
			return unknown(ctx, name, arguments)
		}
		return "", fmt.Errorf("%w: %s", ErrFunctionNotFound, name)
	}

	if arguments != "" {
		var probe any
		if err := json.Unmarshal([]byte(arguments), &probe); err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrInvalidArguments, name, err)
		}
	}

	logger.Debugf("Executing function %s with args: %s", name, arguments)
	result, err := def.Fn(ctx, arguments)
	if err != nil {
		logger.Errorf("Function execution error: %s: %v", name, err)
		return "", fmt.Errorf("registry: function %s failed: %w", name, err)
	}
	return result, nil
}
