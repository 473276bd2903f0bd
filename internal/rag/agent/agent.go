package agent

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/akolanti/ragops/internal/config"
	"github.com/akolanti/ragops/internal/domain/commonModels"
	"github.com/akolanti/ragops/internal/metrics"
	"github.com/akolanti/ragops/internal/rag/llm"
	"github.com/akolanti/ragops/internal/rag/retrieval"
	"github.com/akolanti/ragops/internal/tracing"
	"github.com/akolanti/ragops/pkg/logger_i"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const (
	ToolSearchCorpus = "search_corpus"
	// RefusalPrefix is matched case-insensitively at the start of an answer.
	RefusalPrefix = "i cannot answer"

	NoContextRefusal = "I cannot answer this question based on the available documents. " +
		"The uploaded documents don't appear to contain information relevant to your question. " +
		"Please try uploading relevant documents or asking about topics covered in the existing corpus."
	noContextReason    = "No relevant documents found"
	insufficientReason = "Insufficient context"
)

var citationMarker = regexp.MustCompile(`\[\d+\]`)

type Options struct {
	MaxSources     int
	RelevanceFloor float64
	SystemPrompt   string
	Temperature    float32
	MaxTokens      int
}

func DefaultOptions() Options {
	return Options{
		MaxSources:     config.DefaultRerankTopK,
		RelevanceFloor: config.RelevanceFloor,
		SystemPrompt:   config.ModelContext,
		Temperature:    config.ModelTemperature,
		MaxTokens:      config.ModelMaxTokens,
	}
}

type Request struct {
	Question    string
	MaxSources  int
	DocumentIds []string
	History     []commonModels.ChatMessage
	// QueryVector skips re-embedding when the caller already embedded the question.
	QueryVector []float32
}

// Agent answers a question from retrieved passages only, refusing when no passage clears the relevance floor.
type Agent interface {
	Ask(ctx context.Context, req Request) (commonModels.AgentResponse, error)
}

type agent struct {
	retrieval retrieval.Service
	generator llm.Provider
	opts      Options
	logger    *logger_i.Logger
}

func New(retrievalService retrieval.Service, generator llm.Provider, opts Options) Agent {
	defaults := DefaultOptions()
	if opts.MaxSources <= 0 {
		opts.MaxSources = defaults.MaxSources
	}
	if opts.SystemPrompt == "" {
		opts.SystemPrompt = defaults.SystemPrompt
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = defaults.MaxTokens
	}
	return &agent{
		retrieval: retrievalService,
		generator: generator,
		opts:      opts,
		logger:    logger_i.NewLogger("agent"),
	}
}

func (a *agent) Ask(ctx context.Context, req Request) (commonModels.AgentResponse, error) {
	start := time.Now()
	log := a.logger.WithTrace(ctx, config.TRACE_ID_KEY)
	recorder := tracing.FromContext(ctx)

	ctx, span := otel.Tracer("ragops/agent").Start(ctx, "agent.Ask")
	defer span.End()

	maxSources := req.MaxSources
	if maxSources <= 0 {
		maxSources = a.opts.MaxSources
	}

	results, err := a.search(ctx, recorder, req, maxSources)
	if err != nil {
		recorder.Error("retrieval", err)
		span.RecordError(err)
		return commonModels.AgentResponse{}, err
	}

	if !retrieval.HasUsableContext(results, a.opts.RelevanceFloor) {
		log.Info("Refusing, no usable context", "results", len(results))
		metrics.RecordRefusal()
		span.SetAttributes(attribute.Bool("refusal", true))
		return a.finish(ctx, recorder, start, commonModels.AgentResponse{
			Content:       NoContextRefusal,
			Citations:     []commonModels.Citation{},
			IsRefusal:     true,
			RefusalReason: noContextReason,
			ToolsCalled:   []string{ToolSearchCorpus},
		}), nil
	}

	genStart := time.Now()
	gen, err := a.generator.Generate(ctx, llm.GenerateRequest{
		SystemPrompt: a.opts.SystemPrompt,
		UserPrompt:   fmt.Sprintf("Context:\n%s\n\n---\n\nQuestion: %s", FormatContext(results), req.Question),
		History:      req.History,
		Temperature:  a.opts.Temperature,
		MaxTokens:    a.opts.MaxTokens,
	})
	recorder.ModelCall(a.generator.Model(), gen.TokensIn, gen.TokensOut, gen.Text, time.Since(genStart), err)
	if err != nil {
		recorder.Error("model_call", err)
		span.RecordError(err)
		log.Error("Generation failed", "error", err)
		return commonModels.AgentResponse{}, fmt.Errorf("generating answer: %w", err)
	}

	resp := commonModels.AgentResponse{
		Content:     gen.Text,
		Citations:   []commonModels.Citation{},
		IsRefusal:   IsRefusalText(gen.Text),
		TokensUsed:  gen.TokensIn + gen.TokensOut,
		ToolsCalled: []string{ToolSearchCorpus},
	}
	if resp.IsRefusal {
		resp.RefusalReason = insufficientReason
		metrics.RecordRefusal()
	} else {
		resp.Citations = ToCitations(results)
		cited := citationMarker.MatchString(gen.Text)
		var problems []string
		if !cited {
			problems = append(problems, "answer carries no inline citation marker")
		}
		recorder.Validation("citations", cited, problems)
	}
	span.SetAttributes(attribute.Bool("refusal", resp.IsRefusal), attribute.Int("citations", len(resp.Citations)))
	return a.finish(ctx, recorder, start, resp), nil
}

func (a *agent) search(ctx context.Context, recorder *tracing.Recorder, req Request, topK int) ([]commonModels.RetrievalResult, error) {
	start := time.Now()
	var results []commonModels.RetrievalResult
	var err error
	if len(req.QueryVector) > 0 {
		results, err = a.retrieval.SearchVector(ctx, req.Question, req.QueryVector, topK, req.DocumentIds)
	} else {
		results, err = a.retrieval.Search(ctx, req.Question, topK, req.DocumentIds)
	}
	elapsed := time.Since(start)

	args := map[string]any{"query": req.Question, "top_k": topK}
	if len(req.DocumentIds) > 0 {
		args["document_ids"] = req.DocumentIds
	}
	recorder.ToolCall(ToolSearchCorpus, args, fmt.Sprintf("%d results", len(results)), elapsed, err)
	recorder.Retrieval(req.Question, results, elapsed, err)
	return results, err
}

func (a *agent) finish(ctx context.Context, recorder *tracing.Recorder, start time.Time, resp commonModels.AgentResponse) commonModels.AgentResponse {
	resp.LatencyMs = time.Since(start).Milliseconds()
	if traceId, ok := ctx.Value(config.TRACE_ID_KEY).(string); ok {
		resp.TraceId = traceId
	}
	if recorder != nil {
		summary := recorder.Summary()
		resp.Trace = &summary
	}
	return resp
}

func IsRefusalText(text string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(text)), RefusalPrefix)
}

// FormatContext numbers sources from 1 so the generator can cite them as [n].
func FormatContext(results []commonModels.RetrievalResult) string {
	if len(results) == 0 {
		return "No relevant documents found."
	}
	parts := make([]string, len(results))
	for i, r := range results {
		pageInfo := ""
		if r.PageNumber != nil {
			pageInfo = fmt.Sprintf(" (Page %d)", *r.PageNumber)
		}
		parts[i] = fmt.Sprintf("[Source %d] From '%s'%s:\n%s", i+1, r.DocumentName, pageInfo, r.Content)
	}
	return strings.Join(parts, "\n\n---\n\n")
}

func ToCitations(results []commonModels.RetrievalResult) []commonModels.Citation {
	citations := make([]commonModels.Citation, len(results))
	for i, r := range results {
		content := r.Content
		if runes := []rune(content); len(runes) > config.CitationContentLimit {
			content = string(runes[:config.CitationContentLimit])
		}
		citations[i] = commonModels.Citation{
			DocumentId:     r.DocumentId,
			DocumentName:   r.DocumentName,
			ChunkId:        r.ChunkId,
			ChunkIndex:     r.ChunkIndex,
			Content:        content,
			PageNumber:     r.PageNumber,
			RelevanceScore: r.RelevanceScore,
		}
	}
	return citations
}
