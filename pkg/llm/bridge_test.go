package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func userMessage(content string) []openai.ChatCompletionMessage {
	return []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: content},
	}
}

func assistantResponse(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: content,
			}},
		},
	}
}

func functionCallResponse(name, arguments string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{
				Role:         openai.ChatMessageRoleAssistant,
				FunctionCall: &openai.FunctionCall{Name: name, Arguments: arguments},
			}},
		},
	}
}

func TestBridge_Chat_PlainAnswer(t *testing.T) {
	client := &MockChatCompleter{Responses: []openai.ChatCompletionResponse{
		assistantResponse("Hello, how can I help with your portfolio?"),
	}}
	executor := &MockToolExecutor{}
	bridge := NewBridge(client, executor, "gpt-4o", zap.NewNop())

	result, err := bridge.Chat(context.Background(), &ChatRequest{Messages: userMessage("hi")})
	require.NoError(t, err)
	assert.Equal(t, "Hello, how can I help with your portfolio?", result.Message.Content)
	assert.Empty(t, result.FunctionCalled)
	assert.Empty(t, executor.Calls)

	// The tool schema defaults to the full lending tool set, and a system
	// prompt is prepended when the caller did not supply one.
	require.Len(t, client.Requests, 1)
	assert.Len(t, client.Requests[0].Functions, len(GetLendingTools()))
	sent := client.Requests[0].Messages
	require.Len(t, sent, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, sent[0].Role)
	assert.Contains(t, sent[0].Content, "loan portfolio assistant")
}

func TestBridge_Chat_FunctionCallLoop(t *testing.T) {
	client := &MockChatCompleter{Responses: []openai.ChatCompletionResponse{
		functionCallResponse("get_loan_details", `{"loan_id":"L001"}`),
		assistantResponse("Loan L001 is a $50,000 active loan at 3.5%."),
	}}
	executor := &MockToolExecutor{Result: `{"loan_id":"L001","loan_amount":50000}`}
	bridge := NewBridge(client, executor, "gpt-4o", zap.NewNop())

	result, err := bridge.Chat(context.Background(), &ChatRequest{Messages: userMessage("tell me about loan L001")})
	require.NoError(t, err)
	assert.Equal(t, "get_loan_details", result.FunctionCalled)
	assert.Equal(t, "Loan L001 is a $50,000 active loan at 3.5%.", result.Message.Content)

	require.Len(t, executor.Calls, 1)
	assert.Equal(t, "get_loan_details", executor.Calls[0].Name)

	// Second request carries the function result in the transcript, after
	// the injected system prompt, the user turn, and the assistant call.
	require.Len(t, client.Requests, 2)
	transcript := client.Requests[1].Messages
	require.Len(t, transcript, 4)
	assert.Equal(t, openai.ChatMessageRoleFunction, transcript[3].Role)
	assert.Contains(t, transcript[3].Content, "50000")
}

func TestBridge_Chat_ExecutorErrorStillAnswers(t *testing.T) {
	client := &MockChatCompleter{Responses: []openai.ChatCompletionResponse{
		functionCallResponse("get_loan_details", `{"loan_id":"L999"}`),
		assistantResponse("I could not find that loan."),
	}}
	executor := &MockToolExecutor{Err: errors.New("loan L999: not found")}
	bridge := NewBridge(client, executor, "gpt-4o", zap.NewNop())

	result, err := bridge.Chat(context.Background(), &ChatRequest{Messages: userMessage("loan L999?")})
	require.NoError(t, err)
	// Second LLM call is still made; the error travels as tool-result text.
	require.Len(t, client.Requests, 2)
	assert.Contains(t, result.FunctionResult, "not found")
	assert.Contains(t, result.FunctionResult, `"error":true`)
	assert.Equal(t, "I could not find that loan.", result.Message.Content)
}

func TestBridge_Chat_KeepsCallerSystemPrompt(t *testing.T) {
	client := &MockChatCompleter{Responses: []openai.ChatCompletionResponse{
		assistantResponse("ok"),
	}}
	bridge := NewBridge(client, &MockToolExecutor{}, "gpt-4o", zap.NewNop())

	messages := append([]openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: "custom instructions"},
	}, userMessage("hi")...)

	_, err := bridge.Chat(context.Background(), &ChatRequest{Messages: messages})
	require.NoError(t, err)

	sent := client.Requests[0].Messages
	require.Len(t, sent, 2)
	assert.Equal(t, "custom instructions", sent[0].Content)
}

func TestBridge_Chat_EmptyMessages(t *testing.T) {
	bridge := NewBridge(&MockChatCompleter{}, &MockToolExecutor{}, "gpt-4o", zap.NewNop())

	_, err := bridge.Chat(context.Background(), &ChatRequest{})
	require.Error(t, err)
}

func TestBridge_Chat_ClientError(t *testing.T) {
	client := &MockChatCompleter{Err: errors.New("rate limited")}
	bridge := NewBridge(client, &MockToolExecutor{}, "gpt-4o", zap.NewNop())

	_, err := bridge.Chat(context.Background(), &ChatRequest{Messages: userMessage("hi")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}
