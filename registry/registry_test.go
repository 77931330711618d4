package registry

import (
	"context"
	"fmt"
	"testing"

	"github.com/sashabaranov/go-openai/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoFn(ctx context.Context, arguments string) (string, error) {
	return arguments, nil
}

func TestRegisterAndCall(t *testing.T) {
	r := New()
	require.NoError(t, r.RegisterFunc("echo", "echoes arguments", NoParams(), echoFn))

	assert.Equal(t, 1, r.Len())
	assert.Equal(t, []string{"echo"}, r.Names())

	out, err := r.Call(context.Background(), "echo", `{"a":1}`)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, out)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := New()
	require.NoError(t, r.RegisterFunc("echo", "first", NoParams(), echoFn))

	err := r.RegisterFunc("echo", "second", NoParams(), echoFn)
	require.ErrorIs(t, err, ErrDuplicateFunction)
	assert.Equal(t, 1, r.Len())
}

func TestRegisterValidation(t *testing.T) {
	r := New()
	assert.Error(t, r.RegisterFunc("", "no name", NoParams(), echoFn))
	assert.Error(t, r.Register(FunctionDef{Name: "noop"}))
}

func TestCallUnknownFunction(t *testing.T) {
	r := New()
	_, err := r.Call(context.Background(), "ghost", "{}")
	require.ErrorIs(t, err, ErrFunctionNotFound)
}

func TestCallUnknownHandler(t *testing.T) {
	r := New()
	r.SetUnknownHandler(func(ctx context.Context, name, arguments string) (string, error) {
		return fmt.Sprintf("hallucinated %s with %s", name, arguments), nil
	})

	out, err := r.Call(context.Background(), "python", `{"code":"1+1"}`)
	require.NoError(t, err)
	assert.Equal(t, `hallucinated python with {"code":"1+1"}`, out)

	r.SetUnknownHandler(nil)
	_, err = r.Call(context.Background(), "python", "{}")
	require.ErrorIs(t, err, ErrFunctionNotFound)
}

func TestCallRejectsMalformedArguments(t *testing.T) {
	r := New()
	require.NoError(t, r.RegisterFunc("echo", "echo", NoParams(), echoFn))

	_, err := r.Call(context.Background(), "echo", `{"a":`)
	require.ErrorIs(t, err, ErrInvalidArguments)
}

func TestCallWrapsFunctionError(t *testing.T) {
	r := New()
	require.NoError(t, r.RegisterFunc("fail", "fails", NoParams(),
		func(ctx context.Context, arguments string) (string, error) {
			return "", fmt.Errorf("boom")
		}))

	_, err := r.Call(context.Background(), "fail", "{}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Contains(t, err.Error(), "fail")
}

func TestManifests(t *testing.T) {
	r := New()
	params := jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"q": {Type: jsonschema.String, Description: "query"},
		},
		Required: []string{"q"},
	}
	require.NoError(t, r.RegisterFunc("lookup", "find things", params, echoFn))

	tools := r.Tools()
	require.Len(t, tools, 1)
	assert.Equal(t, "lookup", tools[0].Function.Name)
	assert.Equal(t, "find things", tools[0].Function.Description)

	fns := r.Functions()
	require.Len(t, fns, 1)
	assert.Equal(t, "lookup", fns[0].Name)
}

type lookupParams struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

func TestSchemaFor(t *testing.T) {
	schema, err := SchemaFor(lookupParams{})
	require.NoError(t, err)
	assert.Equal(t, jsonschema.Object, schema.Type)
	require.Contains(t, schema.Properties, "query")
	assert.Equal(t, jsonschema.String, schema.Properties["query"].Type)
	require.Contains(t, schema.Properties, "limit")
	assert.Equal(t, jsonschema.Integer, schema.Properties["limit"].Type)
}

func TestRegisterStruct(t *testing.T) {
	r := New()
	require.NoError(t, r.RegisterStruct("lookup", "find things", lookupParams{}, echoFn))

	def, err := r.Get("lookup")
	require.NoError(t, err)
	assert.Contains(t, def.Parameters.Properties, "query")
}
