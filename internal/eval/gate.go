package eval

import (
	"fmt"

	"github.com/akolanti/ragops/internal/domain/evalModel"
)

// Gate is the release bar a completed run has to clear.
type Gate struct {
	MinGroundedness     float64
	MaxHallucination    float64
	MinSchemaCompliance float64
	MaxLatencyP95Ms     float64
}

func DefaultGate() Gate {
	return Gate{
		MinGroundedness:     0.7,
		MaxHallucination:    0.1,
		MinSchemaCompliance: 0.9,
		MaxLatencyP95Ms:     4000,
	}
}

// Check returns one message per missed threshold; empty means the run passes.
func (g Gate) Check(m evalModel.Metrics) []string {
	var failures []string
	if m.GroundednessScore < g.MinGroundedness {
		failures = append(failures, fmt.Sprintf("groundedness %.3f < %.3f", m.GroundednessScore, g.MinGroundedness))
	}
	if m.HallucinationRate > g.MaxHallucination {
		failures = append(failures, fmt.Sprintf("hallucination rate %.3f > %.3f", m.HallucinationRate, g.MaxHallucination))
	}
	if m.SchemaCompliance < g.MinSchemaCompliance {
		failures = append(failures, fmt.Sprintf("schema compliance %.3f < %.3f", m.SchemaCompliance, g.MinSchemaCompliance))
	}
	if m.LatencyP95Ms > g.MaxLatencyP95Ms {
		failures = append(failures, fmt.Sprintf("p95 latency %.0fms > %.0fms", m.LatencyP95Ms, g.MaxLatencyP95Ms))
	}
	return failures
}
