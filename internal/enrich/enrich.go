// Package enrich augments loaded records with data from external services.
// Each entity type has an ordered set of (field path, enricher) pairs; the
// orchestrator applies them in order, merging results into the in-memory
// record. Nothing is ever written back to disk.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"almanac/internal/platform/metrics"
	"almanac/internal/record"
	pkgerrors "almanac/pkg/errors"
)

// Func computes a sub-document for one field from the record's raw data.
// Returning (nil, nil) means the triggering input is absent and the field
// must be left untouched.
type Func func(ctx context.Context, data map[string]any) (map[string]any, error)

// Enricher binds a Func to the dotted field path it overwrites.
type Enricher struct {
	Path string
	Fn   Func
}

// Set is an ordered enricher list for one entity type. Sets are assembled
// at startup and passed into the orchestrator explicitly, so tests can swap
// individual enrichers without touching shared state.
type Set []Enricher

// Register appends an enricher, replacing an existing entry for the same
// path in place. Last registration wins; insertion order is preserved.
func (s Set) Register(path string, fn Func) Set {
	for i := range s {
		if s[i].Path == path {
			s[i].Fn = fn
			return s
		}
	}
	return append(s, Enricher{Path: path, Fn: fn})
}

// Orchestrator runs enricher sets against records.
type Orchestrator struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// NewOrchestrator creates an Orchestrator. metrics may be nil.
func NewOrchestrator(logger *slog.Logger, m *metrics.Metrics) *Orchestrator {
	return &Orchestrator{
		logger:  logger,
		metrics: m,
		tracer:  otel.Tracer("almanac/enrich"),
	}
}

// Enrich applies every enricher in set to rec, in order. A failing enricher
// is logged, counted, and collected; the remaining fields are still
// applied. The joined failures come back as a single enrichment_failed
// error, or nil if every field succeeded.
func (o *Orchestrator) Enrich(ctx context.Context, rec *record.Record, set Set) error {
	ctx, span := o.tracer.Start(ctx, "enrich.record", trace.WithAttributes(
		attribute.String("record.type", string(rec.Type)),
		attribute.String("record.slug", rec.Slug),
	))
	defer span.End()

	var failures []error
	for _, e := range set {
		sub, err := o.invoke(ctx, e, rec.Data)
		if err == nil && sub != nil {
			err = apply(rec.Data, e.Path, sub)
		}
		if err != nil {
			wrapped := pkgerrors.Wrap(pkgerrors.CodeEnrichmentFailed,
				fmt.Sprintf("enriching field %q of %s %q", e.Path, rec.Type, rec.Slug), err)
			failures = append(failures, wrapped)
			if o.metrics != nil {
				o.metrics.EnrichmentFailures.WithLabelValues(e.Path).Inc()
			}
			o.logger.WarnContext(ctx, "enricher failed",
				"field", e.Path,
				"record", rec.Slug,
				"error", err,
			)
		}
	}

	if len(failures) > 0 {
		err := errors.Join(failures...)
		span.RecordError(err)
		return err
	}
	return nil
}

// invoke calls the enricher, converting a panic into an error so one broken
// enricher cannot abort the whole pass.
func (o *Orchestrator) invoke(ctx context.Context, e Enricher, data map[string]any) (sub map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return e.Fn(ctx, data)
}

// apply walks the dotted path to the parent of the last segment and
// overwrites that key with sub. Missing intermediate mappings are an error;
// they are never created implicitly.
func apply(data map[string]any, path string, sub map[string]any) error {
	parts := strings.Split(path, ".")
	cur := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := cur[part].(map[string]any)
		if !ok {
			return fmt.Errorf("field path %q: %q is not a mapping", path, part)
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = sub
	return nil
}
