package enrich

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"almanac/internal/record"
	pkgerrors "almanac/pkg/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func personRecord(data map[string]any) *record.Record {
	return &record.Record{Type: record.TypePerson, Slug: "jodal", Data: data}
}

func staticEnricher(sub map[string]any) Func {
	return func(ctx context.Context, data map[string]any) (map[string]any, error) {
		return sub, nil
	}
}

func TestEnrichOverwritesTopLevelKey(t *testing.T) {
	o := NewOrchestrator(testLogger(), nil)
	rec := personRecord(map[string]any{"name": "Stein Magnus Jodal"})
	set := Set{}.Register("github", staticEnricher(map[string]any{"username": "jodal"}))

	require.NoError(t, o.Enrich(context.Background(), rec, set))
	assert.Equal(t, map[string]any{"username": "jodal"}, rec.Data["github"])
}

func TestEnrichResolvesDottedPath(t *testing.T) {
	o := NewOrchestrator(testLogger(), nil)
	rec := personRecord(map[string]any{
		"distribution": map[string]any{"github": "mopidy/mopidy"},
	})
	set := Set{}.Register("distribution.github", staticEnricher(map[string]any{"id": "mopidy/mopidy"}))

	require.NoError(t, o.Enrich(context.Background(), rec, set))
	dist := rec.Data["distribution"].(map[string]any)
	assert.Equal(t, map[string]any{"id": "mopidy/mopidy"}, dist["github"])
}

func TestEnrichDoesNotCreateIntermediateStructure(t *testing.T) {
	o := NewOrchestrator(testLogger(), nil)
	rec := personRecord(map[string]any{})
	set := Set{}.Register("distribution.github", staticEnricher(map[string]any{"id": "x"}))

	err := o.Enrich(context.Background(), rec, set)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeEnrichmentFailed))
	assert.NotContains(t, rec.Data, "distribution")
}

func TestEnrichNilResultLeavesRecordUntouched(t *testing.T) {
	o := NewOrchestrator(testLogger(), nil)
	rec := personRecord(map[string]any{"name": "x"})
	set := Set{}.Register("github", func(ctx context.Context, data map[string]any) (map[string]any, error) {
		return nil, nil
	})

	require.NoError(t, o.Enrich(context.Background(), rec, set))
	assert.Equal(t, map[string]any{"name": "x"}, rec.Data)
}

func TestEnrichContinuesPastFailingEnricher(t *testing.T) {
	o := NewOrchestrator(testLogger(), nil)
	rec := personRecord(map[string]any{})
	set := Set{}.
		Register("broken", func(ctx context.Context, data map[string]any) (map[string]any, error) {
			return nil, errors.New("upstream exploded")
		}).
		Register("github", staticEnricher(map[string]any{"username": "jodal"}))

	err := o.Enrich(context.Background(), rec, set)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeEnrichmentFailed))
	// The failure did not stop the remaining enrichers.
	assert.Equal(t, map[string]any{"username": "jodal"}, rec.Data["github"])
}

func TestEnrichRecoversPanickingEnricher(t *testing.T) {
	o := NewOrchestrator(testLogger(), nil)
	rec := personRecord(map[string]any{})
	set := Set{}.Register("boom", func(ctx context.Context, data map[string]any) (map[string]any, error) {
		panic("surprise")
	})

	err := o.Enrich(context.Background(), rec, set)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "surprise")
}

func TestEnrichIsIdempotentPerInvocation(t *testing.T) {
	o := NewOrchestrator(testLogger(), nil)
	rec := personRecord(map[string]any{"email": "alice@example.com"})
	set := Set{}.Register("gravatar", func(ctx context.Context, data map[string]any) (map[string]any, error) {
		email, _ := data["email"].(string)
		return map[string]any{"email": email, "sources": []string{}}, nil
	})

	require.NoError(t, o.Enrich(context.Background(), rec, set))
	first := fmt.Sprintf("%v", rec.Data)
	require.NoError(t, o.Enrich(context.Background(), rec, set))
	assert.Equal(t, first, fmt.Sprintf("%v", rec.Data))
}

func TestRegisterLastRegistrationWins(t *testing.T) {
	set := Set{}.
		Register("github", staticEnricher(map[string]any{"v": "old"})).
		Register("twitter", staticEnricher(map[string]any{"v": "t"})).
		Register("github", staticEnricher(map[string]any{"v": "new"}))

	require.Len(t, set, 2)
	// Replacement keeps insertion order.
	assert.Equal(t, "github", set[0].Path)
	assert.Equal(t, "twitter", set[1].Path)

	sub, err := set[0].Fn(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "new", sub["v"])
}
