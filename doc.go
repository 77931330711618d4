// Package chatlab is a conversational client for OpenAI's chat-completion
// API. Responses stream in as they are generated; assistant text and
// function-call arguments are folded into discrete history messages, and
// function calls requested by the model are dispatched through a local
// registry, with the conversation automatically continued from the result.
//
//	chat, err := chatlab.NewChat(
//		chatlab.WithModel(openai.GPT4o),
//		chatlab.WithInitialContext(chatlab.System("You are a very large bird.")),
//	)
//	if err != nil {
//		// ...
//	}
//	err = chat.Submit(ctx, "What are you?")
//
// Output goes through a display.Renderer, so the same conversation can
// drive a colored terminal, an in-memory buffer, or any custom surface.
package chatlab
