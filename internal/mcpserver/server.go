package mcpserver

import (
	"context"
	"errors"
	"strings"

	"github.com/akolanti/ragops/internal/config"
	"github.com/akolanti/ragops/internal/domain/commonModels"
	"github.com/akolanti/ragops/internal/domain/traceModel"
	"github.com/akolanti/ragops/internal/rag/agent"
	"github.com/akolanti/ragops/internal/rag/retrieval"
	"github.com/akolanti/ragops/internal/tracing"
	"github.com/akolanti/ragops/pkg/logger_i"
	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	maxTopK = 20
	// traceSession groups every tool call made over MCP.
	traceSession = "mcp"
)

var errEmptyQuery = errors.New("query must not be empty")

type SearchInput struct {
	Query       string   `json:"query" jsonschema:"natural language search query"`
	TopK        int      `json:"top_k,omitempty" jsonschema:"number of passages to return (1-20, default 5)"`
	DocumentIds []string `json:"document_ids,omitempty" jsonschema:"restrict the search to these document IDs"`
}

type SearchOutput struct {
	Results []commonModels.RetrievalResult `json:"results"`
}

type AskInput struct {
	Question    string   `json:"question" jsonschema:"question to answer from the indexed documents"`
	DocumentIds []string `json:"document_ids,omitempty" jsonschema:"restrict retrieval to these document IDs"`
}

type tools struct {
	retrieval retrieval.Service
	agent     agent.Agent
	traces    traceModel.TraceStore
	logger    *logger_i.Logger
}

// New exposes the retrieval core as MCP tools. traces may be nil.
func New(r retrieval.Service, a agent.Agent, traces traceModel.TraceStore) *mcp.Server {
	t := &tools{retrieval: r, agent: a, traces: traces, logger: logger_i.NewLogger("mcp")}

	server := mcp.NewServer(&mcp.Implementation{Name: "ragops", Version: config.ServiceVersion}, nil)
	mcp.AddTool(server, &mcp.Tool{
		Name:        agent.ToolSearchCorpus,
		Description: "Search the document corpus and return the most relevant passages with relevance scores.",
	}, t.searchCorpus)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using only the indexed documents. Returns the answer with citations, or a refusal when the corpus has no relevant context.",
	}, t.ask)
	return server
}

func (t *tools) searchCorpus(ctx context.Context, _ *mcp.CallToolRequest, in SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	if strings.TrimSpace(in.Query) == "" {
		return nil, SearchOutput{}, errEmptyQuery
	}
	topK := in.TopK
	if topK <= 0 {
		topK = config.DefaultRerankTopK
	}
	if topK > maxTopK {
		topK = maxTopK
	}

	ctx = withTrace(ctx)
	defer t.flush(ctx)
	results, err := t.retrieval.Search(ctx, in.Query, topK, in.DocumentIds)
	if err != nil {
		t.logger.WithTrace(ctx, config.TRACE_ID_KEY).Error("search_corpus failed", "error", err)
		return nil, SearchOutput{}, err
	}
	if results == nil {
		results = []commonModels.RetrievalResult{}
	}
	return nil, SearchOutput{Results: results}, nil
}

func (t *tools) ask(ctx context.Context, _ *mcp.CallToolRequest, in AskInput) (*mcp.CallToolResult, commonModels.AgentResponse, error) {
	if strings.TrimSpace(in.Question) == "" {
		return nil, commonModels.AgentResponse{}, errEmptyQuery
	}
	ctx = withTrace(ctx)
	defer t.flush(ctx)
	resp, err := t.agent.Ask(ctx, agent.Request{Question: in.Question, DocumentIds: in.DocumentIds})
	if err != nil {
		t.logger.WithTrace(ctx, config.TRACE_ID_KEY).Error("ask failed", "error", err)
		return nil, commonModels.AgentResponse{}, err
	}
	return nil, resp, nil
}

func (t *tools) flush(ctx context.Context) {
	if err := tracing.FromContext(ctx).Flush(context.WithoutCancel(ctx), t.traces, traceSession); err != nil {
		t.logger.WithTrace(ctx, config.TRACE_ID_KEY).Warn("Could not store trace", "error", err)
	}
}

func withTrace(ctx context.Context) context.Context {
	traceId := uuid.NewString()
	ctx = context.WithValue(ctx, config.TRACE_ID_KEY, traceId)
	return tracing.WithRecorder(ctx, tracing.NewRecorder(traceId))
}
