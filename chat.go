package chatlab

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"

	"chatlab/config"
	"chatlab/display"
	"chatlab/internal/logger"
	"chatlab/registry"
)

// Chat is an interactive conversation against OpenAI's chat-completion
// API. Responses stream in as they are generated. History is tracked and
// used to continue the conversation; function calls requested by the model
// are dispatched through the attached registry.
//
// A Chat is not safe for concurrent use; drive one conversation turn at a
// time.
type Chat struct {
	id       string
	client   *openai.Client
	renderer display.Renderer
	registry *registry.FunctionRegistry

	model           string
	temperature     float32
	maxTokens       int
	apiBaseURL      string
	autoContinue    bool
	maxContinues    int
	retryDelay      time.Duration
	requestTimeout  time.Duration
	legacyFunctions bool

	messages []openai.ChatCompletionMessage
}

// Option configures a Chat under construction.
type Option func(*Chat)

// WithModel sets the model. Friendly aliases are resolved at request time.
func WithModel(model string) Option {
	return func(c *Chat) { c.model = model }
}

// WithClient supplies a preconfigured API client, bypassing the
// OPENAI_API_KEY lookup.
func WithClient(client *openai.Client) Option {
	return func(c *Chat) { c.client = client }
}

// WithRegistry attaches a function registry. Without one the chat has no
// callable functions.
func WithRegistry(r *registry.FunctionRegistry) Option {
	return func(c *Chat) { c.registry = r }
}

// WithRenderer sets the display surface. The default discards output and
// only the history is kept.
func WithRenderer(r display.Renderer) Option {
	return func(c *Chat) { c.renderer = r }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float32) Option {
	return func(c *Chat) { c.temperature = t }
}

// WithMaxResponseTokens caps each response's length. Zero leaves the cap
// to the API.
func WithMaxResponseTokens(n int) Option {
	return func(c *Chat) { c.maxTokens = n }
}

// WithAutoContinue controls whether the conversation resubmits itself
// after a function result so the model can react to it.
func WithAutoContinue(enabled bool) Option {
	return func(c *Chat) { c.autoContinue = enabled }
}

// WithMaxAutoContinues bounds how many automatic continuations a single
// Submit may trigger.
func WithMaxAutoContinues(n int) Option {
	return func(c *Chat) { c.maxContinues = n }
}

// WithRetryDelay sets the wait before the single rate-limit retry.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Chat) { c.retryDelay = d }
}

// WithRequestTimeout bounds each API call when the submitted context has
// no deadline of its own.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Chat) { c.requestTimeout = d }
}

// WithLegacyFunctions advertises the registry through the deprecated
// functions field instead of tools. Useful against older models that only
// emit function_call finishes.
func WithLegacyFunctions() Option {
	return func(c *Chat) { c.legacyFunctions = true }
}

// WithInitialContext seeds the history. Strings become user messages;
// openai.ChatCompletionMessage values are appended as-is.
func WithInitialContext(items ...any) Option {
	return func(c *Chat) {
		msgs, err := coerceMessages(items)
		if err != nil {
			logger.Warnf("Ignoring initial context: %v", err)
			return
		}
		c.messages = append(c.messages, msgs...)
	}
}

// WithConfig applies settings loaded from a config file. Options given
// after it override individual fields.
func WithConfig(cfg *config.Config) Option {
	return func(c *Chat) {
		c.model = cfg.Model
		c.temperature = cfg.Temperature
		c.maxTokens = cfg.MaxResponseTokens
		c.autoContinue = cfg.AutoContinue
		c.maxContinues = cfg.MaxAutoContinues
		c.retryDelay = time.Duration(cfg.RetryDelaySec) * time.Second
		c.requestTimeout = time.Duration(cfg.RequestTimeoutSec) * time.Second
		c.apiBaseURL = cfg.APIBaseURL
		if cfg.SystemPrompt != "" {
			c.messages = append(c.messages, System(cfg.SystemPrompt))
		}
	}
}

// NewChat builds a conversation. Unless WithClient is given, the API key
// is read from OPENAI_API_KEY and its absence is an error.
func NewChat(opts ...Option) (*Chat, error) {
	defaults := config.Default()

	c := &Chat{
		id:           uuid.NewString(),
		renderer:     display.Discard{},
		registry:     registry.New(),
		model:        defaults.Model,
		temperature:  defaults.Temperature,
		autoContinue: defaults.AutoContinue,
		maxContinues: defaults.MaxAutoContinues,
		retryDelay:   time.Duration(defaults.RetryDelaySec) * time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.client == nil {
		apiKey := config.APIKey()
		if apiKey == "" {
			return nil, ErrMissingAPIKey
		}
		if c.apiBaseURL != "" {
			clientCfg := openai.DefaultConfig(apiKey)
			clientCfg.BaseURL = c.apiBaseURL
			c.client = openai.NewClientWithConfig(clientCfg)
		} else {
			c.client = openai.NewClient(apiKey)
		}
	}

	logger.Debugf("Chat %s created (model=%s)", c.id, c.model)
	return c, nil
}

// ID returns the session identifier used in log lines.
func (c *Chat) ID() string {
	return c.id
}

// Registry returns the attached function registry.
func (c *Chat) Registry() *registry.FunctionRegistry {
	return c.registry
}

// RegisterFunction registers a callable on the attached registry.
func (c *Chat) RegisterFunction(def registry.FunctionDef) error {
	return c.registry.Register(def)
}

// Append adds messages to the history without sending them. Strings become
// user messages.
func (c *Chat) Append(items ...any) error {
	msgs, err := coerceMessages(items)
	if err != nil {
		return err
	}
	c.messages = append(c.messages, msgs...)
	return nil
}

// History returns a copy of the conversation so far.
func (c *Chat) History() []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

// ClearHistory empties the conversation.
func (c *Chat) ClearHistory() {
	c.messages = nil
}

// String summarizes the session.
func (c *Chat) String() string {
	if len(c.messages) == 1 {
		return "<Chat 1 message>"
	}
	return fmt.Sprintf("<Chat %d messages>", len(c.messages))
}

// Submit sends messages to the model, streams the response through the
// renderer, updates the history, and dispatches any requested function
// call. With auto-continue on, the conversation resubmits itself after a
// function result so the model can react to it.
func (c *Chat) Submit(ctx context.Context, items ...any) error {
	msgs, err := coerceMessages(items)
	if err != nil {
		return err
	}
	return c.submit(ctx, msgs, 0)
}

func (c *Chat) submit(ctx context.Context, newMessages []openai.ChatCompletionMessage, depth int) error {
	full := make([]openai.ChatCompletionMessage, 0, len(c.messages)+len(newMessages))
	full = append(full, c.messages...)
	full = append(full, newMessages...)

	// The request context covers the whole turn: the call, the stream, and
	// the one rate-limit retry.
	reqCtx, cancel := c.requestContext(ctx)
	if cancel != nil {
		defer cancel()
	}

	stream, err := c.openStream(reqCtx, full)
	if err != nil {
		return err
	}
	defer stream.Close()

	// The request was accepted, so the submitted messages are now part of
	// the conversation.
	c.messages = append(c.messages, newMessages...)

	result, err := c.processStream(stream)
	if err != nil {
		return err
	}

	switch result.finishReason {
	case openai.FinishReasonFunctionCall:
		if result.functionCall == nil {
			return ErrIncompleteFunctionCall
		}
		c.messages = append(c.messages, result.functionCall.Message())
		c.runFunctionCall(ctx, result.functionCall)
		return c.continueConversation(ctx, depth)

	case openai.FinishReasonToolCalls:
		calls := result.toolCalls.Finalize()
		if len(calls) == 0 {
			return ErrIncompleteFunctionCall
		}
		c.messages = append(c.messages, AssistantToolCalls(calls...))
		for _, call := range calls {
			c.runToolCall(ctx, call)
		}
		return c.continueConversation(ctx, depth)

	case openai.FinishReasonStop:
		return nil

	case openai.FinishReasonLength, openai.FinishReason("max_tokens"):
		c.renderer.Append("\n...MAX TOKENS REACHED...\n")
		return nil

	case openai.FinishReasonContentFilter:
		c.renderer.Append("\n...CONTENT OMITTED BY CONTENT FILTER...\n")
		return nil

	default:
		logger.Warnf("Unknown finish reason: %q", result.finishReason)
		c.renderer.Append(fmt.Sprintf("\n...UNKNOWN FINISH REASON: %q...\n", result.finishReason))
		return nil
	}
}

// openStream starts the streaming request, retrying exactly once after a
// fixed delay when the API reports a rate limit.
func (c *Chat) openStream(ctx context.Context, messages []openai.ChatCompletionMessage) (*openai.ChatCompletionStream, error) {
	request := c.buildRequest(messages)

	stream, err := c.client.CreateChatCompletionStream(ctx, request)
	if err == nil {
		return stream, nil
	}

	if !isRateLimited(err) {
		return nil, fmt.Errorf("chatlab: chat completion request failed: %w", err)
	}

	logger.Warnf("Rate limited: %v. Waiting %s and trying again.", err, c.retryDelay)
	select {
	case <-time.After(c.retryDelay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	stream, err = c.client.CreateChatCompletionStream(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("chatlab: chat completion request failed after retry: %w", err)
	}
	return stream, nil
}

func (c *Chat) buildRequest(messages []openai.ChatCompletionMessage) openai.ChatCompletionRequest {
	request := openai.ChatCompletionRequest{
		Model:       config.ResolveModel(c.model),
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	// Don't advertise functions when there are none.
	if c.registry.Len() > 0 {
		if c.legacyFunctions {
			request.Functions = c.registry.Functions()
			request.FunctionCall = "auto"
		} else {
			request.Tools = c.registry.Tools()
		}
	}

	return request
}

func (c *Chat) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.requestTimeout <= 0 {
		return ctx, nil
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, nil
	}
	return context.WithTimeout(ctx, c.requestTimeout)
}

func (c *Chat) continueConversation(ctx context.Context, depth int) error {
	if !c.autoContinue {
		return nil
	}
	if c.maxContinues > 0 && depth >= c.maxContinues {
		logger.Warnf("Reached maximum auto-continues (%d); stopping", c.maxContinues)
		return nil
	}
	return c.submit(ctx, nil, depth+1)
}

func isRateLimited(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	return false
}

func coerceMessages(items []any) ([]openai.ChatCompletionMessage, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			msgs = append(msgs, User(v))
		case openai.ChatCompletionMessage:
			msgs = append(msgs, v)
		case *openai.ChatCompletionMessage:
			msgs = append(msgs, *v)
		default:
			return nil, fmt.Errorf("chatlab: message must be a string or openai.ChatCompletionMessage, got %T", item)
		}
	}
	return msgs, nil
}
