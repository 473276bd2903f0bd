package llm

import (
	"context"
	"errors"

	"github.com/akolanti/ragops/internal/domain/commonModels"
)

// ErrRateLimited marks a provider failure that is worth retrying later.
var ErrRateLimited = errors.New("llm provider rate limited")

type GenerateRequest struct {
	SystemPrompt string
	UserPrompt   string
	// History is prior conversation, oldest first.
	History     []commonModels.ChatMessage
	Temperature float32
	MaxTokens   int
}

type Generation struct {
	Text      string
	TokensIn  int
	TokensOut int
	Model     string
}

// Provider is the answer generator. Vendor response shapes stay inside implementations.
type Provider interface {
	Generate(ctx context.Context, req GenerateRequest) (Generation, error)
	Model() string
}
