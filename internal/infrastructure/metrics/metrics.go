package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "path"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	HTTPErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total number of HTTP request errors.",
		},
		[]string{"method", "path", "status"},
	)

	// Prompt pipeline
	PromptOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gsheetagent_prompt_outcomes_total",
			Help: "Prompt pipeline results by terminal state",
		},
		[]string{"outcome"}, // succeeded|bad_request|unauthorized|translation_failed|decode_failed|upload_failed
	)
	PromptDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gsheetagent_prompt_duration_seconds",
			Help:    "Histogram of prompt pipeline durations in seconds",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 8), // 0.5s..64s
		},
	)

	// LLM
	LLMRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gsheetagent_llm_requests_total",
			Help: "Number of chat completion requests by provider and result",
		},
		[]string{"provider", "result"}, // result: ok|error
	)

	// Script API
	Uploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gsheetagent_script_uploads_total",
			Help: "Script content updates by result",
		},
		[]string{"result"}, // ok|scope_insufficient|service_disabled|other|manifest
	)
	ManifestFiles = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gsheetagent_manifest_files",
			Help:    "Number of files sent per content update",
			Buckets: prometheus.LinearBuckets(2, 2, 8),
		},
	)

	// Setup
	SetupRenders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gsheetagent_setup_renders_total",
			Help: "Setup script renders by result",
		},
		[]string{"result"},
	)

	// Journal
	JournalWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gsheetagent_journal_writes_total",
			Help: "Generation journal writes by result",
		},
		[]string{"result"},
	)

	// Errors
	Errors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gsheetagent_errors_total",
			Help: "Errors encountered in components",
		},
		[]string{"component", "type"},
	)
)

func init() {
	prometheus.MustRegister(
		// HTTP
		HTTPRequests,
		HTTPDuration,
		HTTPErrors,
		// Prompt
		PromptOutcomes,
		PromptDurationSeconds,
		// LLM
		LLMRequests,
		// Script API
		Uploads,
		ManifestFiles,
		// Setup
		SetupRenders,
		// Journal
		JournalWrites,
		// Errors
		Errors,
	)
}

// NewServer serves /metrics on its own listener.
func NewServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// HTTP
func ObserveHTTP(method, path string, status int, statusStr string, d time.Duration) {
	HTTPRequests.WithLabelValues(method, path).Inc()
	HTTPDuration.WithLabelValues(method, path, statusStr).Observe(d.Seconds())
	if status >= 400 {
		HTTPErrors.WithLabelValues(method, path, statusStr).Inc()
	}
}

// Prompt
func IncPromptOutcome(outcome string) {
	PromptOutcomes.WithLabelValues(outcome).Inc()
}

func ObservePromptDuration(d time.Duration) {
	PromptDurationSeconds.Observe(d.Seconds())
}

// LLM
func IncLLMRequest(provider, result string) {
	LLMRequests.WithLabelValues(provider, result).Inc()
}

// Script API
func IncUpload(result string) {
	Uploads.WithLabelValues(result).Inc()
}

func ObserveManifestFiles(n int) {
	ManifestFiles.Observe(float64(n))
}

// Setup
func IncSetupRender(result string) {
	SetupRenders.WithLabelValues(result).Inc()
}

// Journal
func IncJournalWrite(result string) {
	JournalWrites.WithLabelValues(result).Inc()
}

// Errors
func IncError(component, typ string) {
	Errors.WithLabelValues(component, typ).Inc()
}
