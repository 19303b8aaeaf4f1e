package metrics

import (
	"net/http"
	"time"
)

// NewNoop creates a metrics recorder that discards everything.
// Useful for testing, benchmarking, or when metrics are disabled.
func NewNoop() Metrics {
	return noopMetrics{}
}

type noopMetrics struct{}

func (noopMetrics) ComponentCreated(string, time.Duration) {}
func (noopMetrics) CreationFailed()                        {}
func (noopMetrics) CacheHit()                              {}
func (noopMetrics) PostProcessorFailed(string)             {}
func (noopMetrics) DestroyFailed()                         {}
func (noopMetrics) SetCachedSingletons(int)                {}

func (noopMetrics) Handler() http.Handler {
	return http.NotFoundHandler()
}
