package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"

	"chatlab"
	"chatlab/builtins"
	"chatlab/config"
	"chatlab/display"
	"chatlab/internal/logger"
	"chatlab/registry"
)

func main() {
	config.LoadEnv()

	cfg, err := config.LoadOrDefault()
	if err != nil {
		logger.Errorf("Configuration error: %v", err)
		os.Exit(1)
	}

	reg := registry.New()
	if err := builtins.RegisterAll(reg); err != nil {
		logger.Errorf("Failed to register builtin functions: %v", err)
		os.Exit(1)
	}

	chat, err := chatlab.NewChat(
		chatlab.WithConfig(cfg),
		chatlab.WithRegistry(reg),
		chatlab.WithRenderer(display.NewConsole()),
	)
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}

	// Cancel in-flight requests on Ctrl-C instead of dying mid-stream.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		logger.Infof("Shutdown signal received, exiting...")
		cancel()
	}()

	logger.Successf("chatlab ready (model=%s, functions=%d)", cfg.Model, reg.Len())
	fmt.Println("Type a message, or /help for commands.")

	prompt := color.New(color.FgHiGreen, color.Bold).SprintFunc()
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Printf("%s ", prompt(">"))
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if done := runCommand(chat, line); done {
				return
			}
			continue
		}

		if err := chat.Submit(ctx, line); err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Errorf("Submit failed: %v", err)
		}
	}
}

// runCommand handles slash commands; returns true when the REPL should exit.
func runCommand(chat *chatlab.Chat, line string) bool {
	switch line {
	case "/quit", "/exit":
		return true
	case "/clear":
		chat.ClearHistory()
		logger.Infof("History cleared")
	case "/history":
		for _, msg := range chat.History() {
			content := msg.Content
			if msg.FunctionCall != nil {
				content = fmt.Sprintf("%s(%s)", msg.FunctionCall.Name, msg.FunctionCall.Arguments)
			}
			fmt.Printf("  [%s] %s\n", msg.Role, content)
		}
		fmt.Println(chat)
	case "/help":
		fmt.Println("  /history  show the conversation so far")
		fmt.Println("  /clear    forget the conversation")
		fmt.Println("  /quit     exit")
	default:
		logger.Warnf("Unknown command: %s", line)
	}
	return false
}
