package llm

import (
	"context"

	"github.com/sashabaranov/go-openai"
)

// MockChatCompleter is a scripted ChatCompleter for tests. Responses are
// returned in order; requests are recorded for verification.
type MockChatCompleter struct {
	Responses []openai.ChatCompletionResponse
	Err       error

	// Requests records every request received, in order.
	Requests []openai.ChatCompletionRequest
}

var _ ChatCompleter = (*MockChatCompleter)(nil)

// CreateChatCompletion implements ChatCompleter.
func (m *MockChatCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return openai.ChatCompletionResponse{}, m.Err
	}
	if len(m.Responses) == 0 {
		return openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant}},
			},
		}, nil
	}
	resp := m.Responses[0]
	m.Responses = m.Responses[1:]
	return resp, nil
}

// MockToolExecutor is a configurable ToolExecutor for tests.
type MockToolExecutor struct {
	Result string
	Err    error

	// Calls records tool name/argument pairs received, in order.
	Calls []struct{ Name, Arguments string }
}

var _ ToolExecutor = (*MockToolExecutor)(nil)

// ExecuteTool implements ToolExecutor.
func (m *MockToolExecutor) ExecuteTool(_ context.Context, name, arguments string) (string, error) {
	m.Calls = append(m.Calls, struct{ Name, Arguments string }{name, arguments})
	if m.Err != nil {
		return "", m.Err
	}
	return m.Result, nil
}
