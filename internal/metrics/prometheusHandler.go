package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var countJobsInQueue = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "count_jobs_in_queue",
	Help: "Number of jobs in queue",
})

var dispatcherSignalCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "dispatcher_signal_count",
	Help: "How often the dispatcher has signaled to start worker",
})

var activeWorkerCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "active_worker_count",
	Help: "Number of active workers",
})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func IncrementJobsInQueue() {
	countJobsInQueue.Inc()
}

func DecrementJobsInQueue() {
	countJobsInQueue.Dec()
}

func StartDispatcherSignalCount() {
	dispatcherSignalCount.Inc()
}

func IncrementActiveWorkerCount() {
	activeWorkerCount.Inc()
}
func DecrementActiveWorkerCount() {
	activeWorkerCount.Dec()
}

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "process_request_duration_seconds",
	Help:    "Total time spent in ProcessRequest.",
	Buckets: []float64{.1, .5, 1, 2, 5, 10, 30},
}, []string{"status"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"service"})

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CaptureJobMetrics(label string, timeElapsed time.Duration) {
	requestDuration.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

var rerankDegraded = promauto.NewCounter(prometheus.CounterOpts{
	Name: "rerank_degraded_total",
	Help: "Searches served without a relevance model",
})

var refusals = promauto.NewCounter(prometheus.CounterOpts{
	Name: "agent_refusals_total",
	Help: "Questions refused for lack of usable context",
})

var documentsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "documents_ingested_total",
	Help: "Documents processed labelled by final status",
}, []string{"status"})

var embeddedTexts = promauto.NewCounter(prometheus.CounterOpts{
	Name: "embedded_texts_total",
	Help: "Texts sent to the embedding provider",
})

var evalCases = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "eval_cases_total",
	Help: "Evaluation cases scored labelled by result status",
}, []string{"status"})

var tokensUsed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "llm_tokens_total",
	Help: "Tokens consumed labelled by model and direction",
}, []string{"model", "direction"})

func RecordRerankDegraded() {
	rerankDegraded.Inc()
}

func RecordRefusal() {
	refusals.Inc()
}

func RecordDocumentIngested(status string) {
	documentsIngested.WithLabelValues(status).Inc()
}

func RecordEmbeddedTexts(n int) {
	embeddedTexts.Add(float64(n))
}

func RecordEvalCase(status string) {
	evalCases.WithLabelValues(status).Inc()
}

func RecordTokens(model string, in, out int) {
	tokensUsed.WithLabelValues(model, "input").Add(float64(in))
	tokensUsed.WithLabelValues(model, "output").Add(float64(out))
}
