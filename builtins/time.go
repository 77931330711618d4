package builtins

import (
	"context"
	"time"

	"chatlab/registry"
)

// CurrentTime returns a zero-argument function definition reporting the
// host's current date and time. Models are notoriously unsure what day it
// is.
func CurrentTime() registry.FunctionDef {
	return registry.FunctionDef{
		Name:        "currentTime",
		Description: "Get the current local date and time",
		Parameters:  registry.NoParams(),
		Fn: func(ctx context.Context, arguments string) (string, error) {
			return time.Now().Format("Monday, 2006-01-02 15:04:05 MST"), nil
		},
	}
}

// RegisterAll registers every builtin on the given registry.
func RegisterAll(r *registry.FunctionRegistry) error {
	defs := []registry.FunctionDef{
		WebPage(),
		CurrentTime(),
	}
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			return err
		}
	}
	return nil
}
