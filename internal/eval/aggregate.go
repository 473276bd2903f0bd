package eval

import (
	"math"
	"slices"

	"github.com/akolanti/ragops/internal/domain/evalModel"
)

// Aggregate rolls up case results. Errored cases are excluded from the mean and
// the latency percentile but still count in the totalCases denominator of rates.
func Aggregate(results []evalModel.EvalResult, totalCases int) evalModel.Metrics {
	var (
		metrics      evalModel.Metrics
		latencies    []float64
		groundedness float64
		scored       int
		halluc       int
		schema       int
		tools        int
	)
	for _, r := range results {
		if r.Status == evalModel.ResultError || r.Status == evalModel.ResultPending {
			continue
		}
		scored++
		groundedness += r.GroundednessScore
		latencies = append(latencies, float64(r.LatencyMs))
		if r.HallucinationDetected {
			halluc++
		}
		if r.SchemaCompliant {
			schema++
		}
		if r.ToolCallsCorrect {
			tools++
		}
	}

	if scored > 0 {
		metrics.GroundednessScore = groundedness / float64(scored)
	}
	metrics.LatencyP95Ms = Percentile(latencies, 95)
	if totalCases > 0 {
		metrics.HallucinationRate = float64(halluc) / float64(totalCases)
		metrics.SchemaCompliance = float64(schema) / float64(totalCases)
		metrics.ToolCorrectness = float64(tools) / float64(totalCases)
	}
	return metrics
}

// Percentile interpolates linearly between the closest ranks, rank = p/100*(n-1).
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (rank-float64(lo))*(sorted[hi]-sorted[lo])
}

// Compare reports both runs' metrics and the difference b minus a.
func Compare(a, b evalModel.EvalRun) evalModel.Comparison {
	return evalModel.Comparison{
		RunA: evalModel.RunSnapshot{EvalId: a.Id, Name: a.Name, Metrics: a.Metrics},
		RunB: evalModel.RunSnapshot{EvalId: b.Id, Name: b.Name, Metrics: b.Metrics},
		Diff: evalModel.Metrics{
			GroundednessScore: b.GroundednessScore - a.GroundednessScore,
			HallucinationRate: b.HallucinationRate - a.HallucinationRate,
			SchemaCompliance:  b.SchemaCompliance - a.SchemaCompliance,
			ToolCorrectness:   b.ToolCorrectness - a.ToolCorrectness,
			LatencyP95Ms:      b.LatencyP95Ms - a.LatencyP95Ms,
		},
	}
}
