package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/akolanti/ragops/internal/config"
	"github.com/akolanti/ragops/pkg/logger_i"
	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
)

const (
	DocumentCompleted = "document.completed"
	DocumentFailed    = "document.failed"
	DocumentDeleted   = "document.deleted"
	EvalCompleted     = "eval.completed"
	EvalFailed        = "eval.failed"
	EvalCancelled     = "eval.cancelled"
)

// Publisher announces lifecycle changes. Publishing is best effort.
type Publisher interface {
	Publish(ctx context.Context, event string, v any) error
}

type DocumentEvent struct {
	DocumentId string    `json:"document_id"`
	Status     string    `json:"status"`
	ChunkCount int       `json:"chunk_count"`
	Error      string    `json:"error,omitempty"`
	At         time.Time `json:"at"`
}

type EvalEvent struct {
	EvalId            string    `json:"eval_id"`
	Status            string    `json:"status"`
	CompletedCases    int       `json:"completed_cases"`
	TotalCases        int       `json:"total_cases"`
	GroundednessScore float64   `json:"groundedness_score"`
	HallucinationRate float64   `json:"hallucination_rate"`
	Error             string    `json:"error,omitempty"`
	At                time.Time `json:"at"`
}

// natsHeaderCarrier adapts nats.Msg headers for OTel TextMapCarrier.
type natsHeaderCarrier nats.Msg

func (c *natsHeaderCarrier) Get(key string) string {
	if c.Header == nil {
		return ""
	}
	return c.Header.Get(key)
}

func (c *natsHeaderCarrier) Set(key, val string) {
	if c.Header == nil {
		c.Header = make(nats.Header)
	}
	c.Header.Set(key, val)
}

func (c *natsHeaderCarrier) Keys() []string {
	if c.Header == nil {
		return nil
	}
	keys := make([]string, 0, len(c.Header))
	for k := range c.Header {
		keys = append(keys, k)
	}
	return keys
}

type natsPublisher struct {
	nc     *nats.Conn
	prefix string
	logger *logger_i.Logger
}

// Connect dials NATS. Subjects are "<prefix>.<event>".
func Connect(url, prefix string) (*natsPublisher, error) {
	nc, err := nats.Connect(url, nats.Name("ragops"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("connecting to nats at %s: %w", url, err)
	}
	return NewPublisher(nc, prefix), nil
}

func NewPublisher(nc *nats.Conn, prefix string) *natsPublisher {
	if prefix == "" {
		prefix = config.NatsSubjectPrefix
	}
	return &natsPublisher{nc: nc, prefix: prefix, logger: logger_i.NewLogger("events")}
}

// Publish serializes v as JSON. Trace context from ctx is injected into the message headers.
func (p *natsPublisher) Publish(ctx context.Context, event string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	msg := &nats.Msg{
		Subject: p.prefix + "." + event,
		Data:    data,
	}
	otel.GetTextMapPropagator().Inject(ctx, (*natsHeaderCarrier)(msg))
	if err := p.nc.PublishMsg(msg); err != nil {
		p.logger.WithTrace(ctx, config.TRACE_ID_KEY).Warn("Publishing event failed", "subject", msg.Subject, "error", err)
		return err
	}
	return nil
}

// Drain flushes pending messages and closes the connection.
func (p *natsPublisher) Drain() error {
	return p.nc.Drain()
}

// Subscribe registers a handler for one event type. Malformed messages are dropped.
func Subscribe[T any](nc *nats.Conn, subject string, handler func(context.Context, T)) (*nats.Subscription, error) {
	return nc.Subscribe(subject, func(msg *nats.Msg) {
		var v T
		if err := json.Unmarshal(msg.Data, &v); err != nil {
			return
		}
		ctx := otel.GetTextMapPropagator().Extract(context.Background(), (*natsHeaderCarrier)(msg))
		handler(ctx, v)
	})
}

// Nop discards events; used when NATS is not configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
