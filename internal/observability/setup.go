package observability

import (
	"context"

	"github.com/laker77/PointsStoreService-main/internal/infrastructure/observability"
)

// Setup initializes logging, metrics and tracing in one place. The returned
// function flushes the trace exporter and must run before the process exits.
func Setup(serviceName string) func(context.Context) error {
	observability.InitLogger()
	observability.InitMetrics()
	return observability.InitTracing(serviceName)
}
