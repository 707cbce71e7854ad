// Package openai provides an implementation of model.Model using the OpenAI
// Chat Completions API, including Azure OpenAI deployments. It adapts
// ChatVault's normalized Request/Response structures into the SDK's message
// format and back.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"

	"github.com/chatvault-ai/chatvault/core"
	"github.com/chatvault-ai/chatvault/model"
)

// Options configure the OpenAI model adapter. Fields mirror the subset of
// Chat Completion parameters the orchestrator uses; the low temperature and
// tight token budget keep the structured-JSON reply contract stable.
type Options struct {
	// Model is the model name, or the deployment name on Azure.
	Model string
	// APIVersion selects the Azure OpenAI API version (Azure only).
	APIVersion  string
	Temperature float64
	MaxTokens   int64
}

// Model wraps the OpenAI Chat Completions API behind the generic model.Model
// interface.
type Model struct {
	client   *openai.Client
	provider string
	opts     Options
}

func defaultOptions() Options {
	return Options{
		Model:       openai.ChatModelGPT4oMini,
		APIVersion:  "2024-10-21",
		Temperature: 0.1,
		MaxTokens:   2000,
	}
}

// NewModel creates an OpenAI model using ambient SDK configuration
// (OPENAI_API_KEY).
func NewModel(optFns ...func(o *Options)) *Model {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	client := openai.NewClient()
	return &Model{client: &client, provider: "openai", opts: opts}
}

// NewAzureModel creates a model talking to an Azure OpenAI deployment.
// The deployment name is passed via Options.Model.
func NewAzureModel(endpoint, apiKey string, optFns ...func(o *Options)) *Model {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	client := openai.NewClient(
		azure.WithEndpoint(endpoint, opts.APIVersion),
		azure.WithAPIKey(apiKey),
	)
	return &Model{client: &client, provider: "azure-openai", opts: opts}
}

// NewModelFromClient creates a model from an existing client.
func NewModelFromClient(client *openai.Client, optFns ...func(o *Options)) *Model {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{client: client, provider: "openai", opts: opts}
}

// Generate performs a single non-streaming completion over the full history.
func (m *Model) Generate(ctx context.Context, req model.Request) (model.Response, error) {
	params := openai.ChatCompletionNewParams{
		Messages:            buildMessages(req),
		Model:               m.opts.Model,
		Temperature:         openai.Float(m.opts.Temperature),
		MaxCompletionTokens: openai.Int(m.opts.MaxTokens),
	}
	resp, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return model.Response{}, fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return model.Response{}, fmt.Errorf("no choices returned")
	}
	return model.Response{
		Content: resp.Choices[0].Message.Content,
		Usage: &model.TokenUsage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
	}, nil
}

// buildMessages converts the normalized request into OpenAI chat messages.
// Instructions lead as a system message, followed by the history in order.
func buildMessages(req model.Request) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+1)
	if req.Instructions != "" {
		messages = append(messages, openai.SystemMessage(req.Instructions))
	}
	for _, msg := range req.Messages {
		switch msg.Role {
		case core.RoleSystem:
			messages = append(messages, openai.SystemMessage(msg.Content))
		case core.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(msg.Content))
		default:
			messages = append(messages, openai.UserMessage(msg.Content))
		}
	}
	return messages
}

// Info returns metadata describing this OpenAI model implementation.
func (m *Model) Info() model.Info {
	return model.Info{Name: m.opts.Model, Provider: m.provider}
}

var _ model.Model = (*Model)(nil)
