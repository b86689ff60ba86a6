package assistant

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"scan-dashboard/internal/common/logger"
	"scan-dashboard/internal/common/metrics"
	"scan-dashboard/internal/common/observability"
	"scan-dashboard/internal/models"
)

// SnapshotSource supplies the data the assistant answers from.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*models.DataSnapshot, error)
}

// Assistant answers dashboard questions from a snapshot source.
type Assistant struct {
	parser *Parser
	source SnapshotSource
	log    logger.Logger
	obs    *observability.Observability
	tracer trace.Tracer
}

type Option func(*Assistant)

func WithParser(p *Parser) Option { return func(a *Assistant) { a.parser = p } }

func WithObservability(o *observability.Observability) Option {
	return func(a *Assistant) { a.obs = o }
}

func New(source SnapshotSource, log logger.Logger, opts ...Option) *Assistant {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	a := &Assistant{
		parser: NewParser(),
		source: source,
		log:    log,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.tracer = a.obs.Tracer("scan-dashboard/assistant")
	return a
}

// Ask classifies query and answers it. A snapshot that cannot be loaded
// degrades the answer instead of failing it.
func (a *Assistant) Ask(ctx context.Context, query string) Answer {
	start := time.Now()
	ctx, span := a.tracer.Start(ctx, "assistant.ask")
	defer span.End()

	var snapshot *models.DataSnapshot
	degraded := false
	if a.source != nil {
		s, err := a.source.Snapshot(ctx)
		if err != nil {
			degraded = true
			metrics.SnapshotFailuresTotal.Inc()
			a.log.Warn("Snapshot unavailable, answering without data", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			snapshot = s
		}
	} else {
		degraded = true
	}

	parsed, response := a.parser.Respond(query, snapshot)

	span.SetAttributes(
		attribute.String("assistant.intent", string(parsed.Intent)),
		attribute.Bool("assistant.degraded", degraded),
	)
	metrics.AssistantQueriesTotal.WithLabelValues(string(parsed.Intent)).Inc()
	a.obs.RecordQuery(ctx, string(parsed.Intent), time.Since(start))

	a.log.Debug("Assistant query answered", map[string]interface{}{
		"intent":    parsed.Intent,
		"timeframe": parsed.Timeframe,
		"category":  parsed.Category,
		"item":      parsed.SpecificItem,
		"metric":    parsed.Metric,
		"degraded":  degraded,
	})

	return Answer{Query: query, Parsed: parsed, Response: response, Degraded: degraded}
}
