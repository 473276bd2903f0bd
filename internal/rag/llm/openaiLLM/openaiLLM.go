package openaiLLM

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/akolanti/ragops/internal/config"
	"github.com/akolanti/ragops/internal/customHttpClient"
	"github.com/akolanti/ragops/internal/domain/commonModels"
	"github.com/akolanti/ragops/internal/rag/llm"
	"github.com/akolanti/ragops/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type llmClient struct {
	api       openai.Client
	modelName string
	logger    *logger_i.Logger
}

func NewProvider(modelName, apiKey string, opts ...option.RequestOption) (llm.Provider, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key is not configured")
	}
	opts = append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(customHttpClient.New(config.QueryJobTimeout)),
	}, opts...)

	log := logger_i.NewLogger("llm_openai")
	log.Info("OpenAI client created", "model", modelName)
	return &llmClient{api: openai.NewClient(opts...), modelName: modelName, logger: log}, nil
}

func (c *llmClient) Model() string {
	return c.modelName
}

func (c *llmClient) Generate(ctx context.Context, req llm.GenerateRequest) (llm.Generation, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.History)+2)
	messages = append(messages, openai.SystemMessage(req.SystemPrompt))
	for _, m := range req.History {
		if m.Role == commonModels.RoleAssistant {
			messages = append(messages, openai.AssistantMessage(m.Content))
		} else {
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}
	messages = append(messages, openai.UserMessage(req.UserPrompt))

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.modelName),
		Messages:    messages,
		Temperature: openai.Float(float64(req.Temperature)),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	resp, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		c.logger.WithTrace(ctx, config.TRACE_ID_KEY).Error("OpenAI generation failed", "error", err)
		var apiErr *openai.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
			return llm.Generation{}, fmt.Errorf("%w: %v", llm.ErrRateLimited, err)
		}
		return llm.Generation{}, fmt.Errorf("openai generate: %w", err)
	}
	if len(resp.Choices) == 0 {
		return llm.Generation{}, errors.New("openai returned no choices")
	}

	return llm.Generation{
		Text:      resp.Choices[0].Message.Content,
		TokensIn:  int(resp.Usage.PromptTokens),
		TokensOut: int(resp.Usage.CompletionTokens),
		Model:     c.modelName,
	}, nil
}
