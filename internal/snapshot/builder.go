// Package snapshot renders the full enriched data set to a static tree of
// JSON files suitable for serving without the live application.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"almanac/internal/api"
	"almanac/internal/enrich"
	"almanac/internal/record"
)

// Builder enriches every record and writes the result tree. One artifact
// per record: <entity>/<slug>.json on success, <entity>/<slug>.error on
// load or enrichment failure. A bad record never aborts the pass.
type Builder struct {
	logger      *slog.Logger
	store       *record.Store
	orch        *enrich.Orchestrator
	people      enrich.Set
	projects    enrich.Set
	concurrency int
	tracer      trace.Tracer
}

// NewBuilder creates a Builder. concurrency bounds the number of records
// enriched in parallel; values below 1 mean serial.
func NewBuilder(logger *slog.Logger, store *record.Store, orch *enrich.Orchestrator, people, projects enrich.Set, concurrency int) *Builder {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Builder{
		logger:      logger,
		store:       store,
		orch:        orch,
		people:      people,
		projects:    projects,
		concurrency: concurrency,
		tracer:      otel.Tracer("almanac/snapshot"),
	}
}

// Build renders the snapshot into a temporary directory next to dest, then
// swaps it into place. The previous snapshot at dest survives any failed
// build untouched.
func (b *Builder) Build(ctx context.Context, dest string) error {
	ctx, span := b.tracer.Start(ctx, "snapshot.build",
		trace.WithAttributes(attribute.String("snapshot.dest", dest)))
	defer span.End()

	parent := filepath.Dir(dest)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("creating snapshot parent: %w", err)
	}
	tmp, err := os.MkdirTemp(parent, ".snapshot-")
	if err != nil {
		return fmt.Errorf("creating snapshot staging dir: %w", err)
	}
	if err := os.Chmod(tmp, 0o755); err != nil {
		return err
	}
	defer os.RemoveAll(tmp)

	if err := b.render(ctx, tmp); err != nil {
		span.RecordError(err)
		return err
	}
	if err := swap(tmp, dest); err != nil {
		span.RecordError(err)
		return err
	}
	b.logger.InfoContext(ctx, "snapshot built", "dest", dest)
	return nil
}

func (b *Builder) render(ctx context.Context, dir string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for _, t := range []record.Type{record.TypePerson, record.TypeProject} {
		entityDir := filepath.Join(dir, t.Plural())
		if err := os.MkdirAll(entityDir, 0o755); err != nil {
			return err
		}
		refs, err := b.store.Enumerate(t)
		if err != nil {
			return err
		}
		for _, ref := range refs {
			g.Go(func() error {
				return b.buildOne(ctx, t, ref, entityDir)
			})
		}
	}
	return g.Wait()
}

// buildOne produces the artifact for a single record. Record-level failures
// become .error artifacts; only artifact write failures propagate.
func (b *Builder) buildOne(ctx context.Context, t record.Type, ref record.Ref, entityDir string) error {
	set := b.people
	if t == record.TypeProject {
		set = b.projects
	}

	rec, err := b.store.Load(t, ref)
	if err == nil {
		err = b.orch.Enrich(ctx, rec, set)
	}
	if err != nil {
		b.logger.WarnContext(ctx, "snapshot record failed",
			"type", t,
			"slug", ref.Slug,
			"error", err,
		)
		return os.WriteFile(filepath.Join(entityDir, ref.Slug+".error"), []byte(err.Error()+"\n"), 0o644)
	}

	api.Link(rec)
	data, err := json.MarshalIndent(rec.Data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s %q: %w", t, ref.Slug, err)
	}
	return os.WriteFile(filepath.Join(entityDir, ref.Slug+".json"), append(data, '\n'), 0o644)
}

// swap atomically replaces dest with the staged tree.
func swap(tmp, dest string) error {
	old := dest + ".old"
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	if _, err := os.Stat(dest); err == nil {
		if err := os.Rename(dest, old); err != nil {
			return err
		}
	}
	if err := os.Rename(tmp, dest); err != nil {
		// Put the previous snapshot back rather than leaving nothing.
		if _, statErr := os.Stat(old); statErr == nil {
			_ = os.Rename(old, dest)
		}
		return err
	}
	return os.RemoveAll(old)
}
