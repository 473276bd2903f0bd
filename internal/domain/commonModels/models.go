package commonModels

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

// RetrievalResult is one ranked passage returned by a search. Order is significant.
type RetrievalResult struct {
	ChunkId        string  `json:"chunk_id"`
	DocumentId     string  `json:"document_id"`
	DocumentName   string  `json:"document_name"`
	Content        string  `json:"content"`
	ChunkIndex     int     `json:"chunk_index"`
	PageNumber     *int    `json:"page_number,omitempty"`
	RelevanceScore float64 `json:"relevance_score"`
}

type Citation struct {
	DocumentId     string  `json:"document_id"`
	DocumentName   string  `json:"document_name"`
	ChunkId        string  `json:"chunk_id"`
	ChunkIndex     int     `json:"chunk_index"`
	Content        string  `json:"content"`
	PageNumber     *int    `json:"page_number,omitempty"`
	RelevanceScore float64 `json:"relevance_score"`
}

type AgentResponse struct {
	Content       string        `json:"content"`
	Citations     []Citation    `json:"citations"`
	IsRefusal     bool          `json:"is_refusal"`
	RefusalReason string        `json:"refusal_reason,omitempty"`
	TokensUsed    int           `json:"tokens_used,omitempty"`
	ToolsCalled   []string      `json:"tools_called,omitempty"`
	LatencyMs     int64         `json:"latency_ms"`
	TraceId       string        `json:"trace_id,omitempty"`
	Trace         *TraceSummary `json:"trace,omitempty"`
}

// TraceSummary is the roll-up of the events recorded while answering one question.
type TraceSummary struct {
	TraceId         string         `json:"trace_id"`
	EventCount      int            `json:"event_count"`
	EventCounts     map[string]int `json:"event_counts,omitempty"`
	TotalDurationMs int64          `json:"total_duration_ms"`
	TokensIn        int            `json:"tokens_in"`
	TokensOut       int            `json:"tokens_out"`
	CostUSD         float64        `json:"cost_usd"`
	HasErrors       bool           `json:"has_errors"`
}

type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

type ChatMessage struct {
	Role      ChatRole   `json:"role"`
	Content   string     `json:"content"`
	Citations []Citation `json:"citations,omitempty"`
	IsRefusal bool       `json:"is_refusal,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type DocType string

var PDF DocType = "PDF"
var DOCX DocType = "DOCX"
var TXT DocType = "TXT"
var ERR DocType = "ERROR"

// Page is a window into a listing.
type Page struct {
	Number int `json:"page"`
	Size   int `json:"page_size"`
}

func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 || p.Size > 100 {
		p.Size = 20
	}
	return p
}

// Bounds returns the [start, end) slice bounds for a listing of total items.
func (p Page) Bounds(total int) (int, int) {
	p = p.Normalize()
	start := (p.Number - 1) * p.Size
	if start > total {
		start = total
	}
	end := start + p.Size
	if end > total {
		end = total
	}
	return start, end
}
