package optimization

import (
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const scopeName = "github.com/EmilioVenegas/hacknation-Falcon270/core"

var (
	tracer = otel.Tracer(scopeName)
	meter  = otel.Meter(scopeName)
	logger = otelslog.NewLogger(scopeName)

	eventsApplied metric.Int64Counter
	framesDropped metric.Int64Counter
)

func init() {
	eventsApplied, _ = meter.Int64Counter("run.events_applied")
	framesDropped, _ = meter.Int64Counter("run.frames_dropped")
}
