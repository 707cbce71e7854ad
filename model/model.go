package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/chatvault-ai/chatvault/core"
)

// Request captures the normalized model input produced by the orchestrator:
// an instruction prompt plus the full conversation history in order.
type Request struct {
	Instructions string         `json:"instructions"`
	Messages     []core.Message `json:"messages"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the completed assistant turn.
type Response struct {
	Content string      `json:"content"`
	Usage   *TokenUsage `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "azure-openai", "anthropic", "mock"
}

// Model is the minimal interface the orchestrator needs to drive generation.
// One call, one completed turn; streaming and tool calling are out of scope
// for this backend.
type Model interface {
	Generate(ctx context.Context, req Request) (Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
// It records every request it receives and replies with canned completions
// keyed by the last user message.
type MockModel struct {
	mu        sync.Mutex
	info      Info
	responses map[string]string
	requests  []Request
	err       error
}

// NewMockModel constructs a MockModel.
func NewMockModel(name string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: "mock"},
		responses: make(map[string]string),
	}
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *MockModel) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[prompt] = response
}

// FailWith makes every subsequent Generate call return err.
func (m *MockModel) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Requests returns a copy of all requests received so far.
func (m *MockModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]Request, len(m.requests))
	copy(cp, m.requests)
	return cp
}

// Generate implements Model.
func (m *MockModel) Generate(ctx context.Context, req Request) (Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if m.err != nil {
		return Response{}, m.err
	}
	var lastUser string
	for _, msg := range req.Messages {
		if msg.Role == core.RoleUser {
			lastUser = msg.Content
		}
	}
	full, ok := m.responses[lastUser]
	if !ok {
		full = fmt.Sprintf("Mock response to: %s", lastUser)
	}
	return Response{Content: full}, nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
