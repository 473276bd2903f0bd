package gemini

import (
	"context"
	"errors"
	"fmt"

	"github.com/akolanti/ragops/internal/config"
	"github.com/akolanti/ragops/internal/customHttpClient"
	"github.com/akolanti/ragops/internal/domain/commonModels"
	"github.com/akolanti/ragops/internal/rag/llm"
	"github.com/akolanti/ragops/pkg/logger_i"
	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type llmClient struct {
	client    *genai.Client
	modelName string
	logger    *logger_i.Logger
}

func NewProvider(ctx context.Context, modelName, apiKey string) (llm.Provider, error) {
	return newProvider(ctx, modelName, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: customHttpClient.New(config.QueryJobTimeout),
	})
}

func newProvider(ctx context.Context, modelName string, cfg *genai.ClientConfig) (*llmClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key is not configured")
	}
	c, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	log := logger_i.NewLogger("llm_gemini")
	log.Info("Gemini client created", "model", modelName)
	return &llmClient{client: c, modelName: modelName, logger: log}, nil
}

func (c *llmClient) Model() string {
	return c.modelName
}

func (c *llmClient) Generate(ctx context.Context, req llm.GenerateRequest) (llm.Generation, error) {
	log := c.logger.WithTrace(ctx, config.TRACE_ID_KEY)

	contentConfig := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.SystemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr(req.Temperature),
	}
	if req.MaxTokens > 0 {
		contentConfig.MaxOutputTokens = int32(req.MaxTokens)
	}

	contents := historyContents(req.History)
	contents = append(contents, genai.NewContentFromText(req.UserPrompt, genai.RoleUser))

	result, err := c.client.Models.GenerateContent(ctx, c.modelName, contents, contentConfig)
	if err != nil {
		log.Error("Gemini generation failed", "error", err)
		if isRateLimited(err) {
			return llm.Generation{}, fmt.Errorf("%w: %v", llm.ErrRateLimited, err)
		}
		return llm.Generation{}, fmt.Errorf("gemini generate: %w", err)
	}

	gen := llm.Generation{Text: result.Text(), Model: c.modelName}
	if result.UsageMetadata != nil {
		gen.TokensIn = int(result.UsageMetadata.PromptTokenCount)
		gen.TokensOut = int(result.UsageMetadata.CandidatesTokenCount)
	}
	return gen, nil
}

func historyContents(history []commonModels.ChatMessage) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, m := range history {
		role := genai.Role(genai.RoleUser)
		if m.Role == commonModels.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}
	return contents
}

func isRateLimited(err error) bool {
	if code, ok := apiErrorCode(err); ok {
		return code == 429
	}
	if st, ok := status.FromError(err); ok {
		return st.Code() == codes.ResourceExhausted
	}
	return false
}

func apiErrorCode(err error) (int, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, true
	}
	return 0, false
}
