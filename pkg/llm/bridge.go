package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/agrilend/agrilend-engine/pkg/prompts"
)

// ChatRequest is a chat turn forwarded to the LLM. Functions defaults to
// the full lending tool schema when empty.
type ChatRequest struct {
	Messages     []openai.ChatCompletionMessage
	Functions    []openai.FunctionDefinition
	FunctionCall any
}

// ChatResult is the bridge's answer: the final assistant message plus the
// name and raw result of the tool call that produced it, if any.
type ChatResult struct {
	Message        openai.ChatCompletionMessage `json:"message"`
	FunctionCalled string                       `json:"function_called,omitempty"`
	FunctionResult string                       `json:"function_result,omitempty"`
	Usage          openai.Usage                 `json:"usage"`
}

// Bridge runs the two-phase function-calling loop: send the conversation
// plus the tool schema, dispatch any function call through the executor,
// then re-prompt with the tool result for a natural-language reply.
type Bridge struct {
	client   ChatCompleter
	executor ToolExecutor
	model    string
	logger   *zap.Logger
}

// NewBridge creates a chat bridge over the given client and tool executor.
func NewBridge(client ChatCompleter, executor ToolExecutor, model string, logger *zap.Logger) *Bridge {
	return &Bridge{
		client:   client,
		executor: executor,
		model:    model,
		logger:   logger.Named("openai-bridge"),
	}
}

// Chat runs one user turn. A failed tool dispatch becomes an error-shaped
// tool result rather than aborting: the second LLM call is always made so
// the caller gets a natural-language answer even on internal failure.
func (b *Bridge) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("messages are required")
	}

	messages := req.Messages
	if messages[0].Role != openai.ChatMessageRoleSystem {
		messages = append([]openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleSystem,
			Content: prompts.LendingAssistantSystemPrompt(prompts.AssistantContext{}),
		}}, messages...)
	}

	functions := req.Functions
	if len(functions) == 0 {
		functions = FunctionDefinitions(GetLendingTools())
	}

	first, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:        b.model,
		Messages:     messages,
		Functions:    functions,
		FunctionCall: req.FunctionCall,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(first.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	reply := first.Choices[0].Message
	if reply.FunctionCall == nil {
		return &ChatResult{Message: reply, Usage: first.Usage}, nil
	}

	call := reply.FunctionCall
	b.logger.Debug("LLM requested function call",
		zap.String("function", call.Name),
		zap.String("arguments", call.Arguments))

	toolResult, execErr := b.executor.ExecuteTool(ctx, call.Name, call.Arguments)
	if execErr != nil {
		b.logger.Warn("Tool execution failed",
			zap.String("function", call.Name),
			zap.Error(execErr))
		encoded, _ := json.Marshal(map[string]any{
			"error":   true,
			"message": execErr.Error(),
		})
		toolResult = string(encoded)
	}

	transcript := append(append([]openai.ChatCompletionMessage{}, messages...),
		reply,
		openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleFunction,
			Name:    call.Name,
			Content: toolResult,
		},
	)

	second, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    b.model,
		Messages: transcript,
	})
	if err != nil {
		return nil, fmt.Errorf("follow-up completion failed: %w", err)
	}
	if len(second.Choices) == 0 {
		return nil, fmt.Errorf("no choices in follow-up response")
	}

	usage := second.Usage
	usage.PromptTokens += first.Usage.PromptTokens
	usage.CompletionTokens += first.Usage.CompletionTokens
	usage.TotalTokens += first.Usage.TotalTokens

	return &ChatResult{
		Message:        second.Choices[0].Message,
		FunctionCalled: call.Name,
		FunctionResult: toolResult,
		Usage:          usage,
	}, nil
}
