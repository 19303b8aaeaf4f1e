package keel

import "github.com/xraph/keel/internal/metrics"

// Metrics records container activity.
type Metrics = metrics.Metrics

var (
	NewMetrics     = metrics.New
	NewNoopMetrics = metrics.NewNoop
)
