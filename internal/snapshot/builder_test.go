package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"almanac/internal/enrich"
	"almanac/internal/record"
	"almanac/internal/schema"
)

const builderPersonSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["name", "email", "profiles"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "email": {"type": "string", "format": "email"},
    "profiles": {"type": "object"}
  }
}`

const builderProjectSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["name", "license", "is_extension", "maintainers", "distribution"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "license": {"type": "string"},
    "is_extension": {"type": "boolean"},
    "maintainers": {"type": "object"},
    "distribution": {"type": "object"}
  }
}`

// newTestBuilder lays out a data tree with two people and one project. The
// person enricher set fails for records carrying a "fail" profile.
func newTestBuilder(t *testing.T) (*Builder, string) {
	t.Helper()
	root := t.TempDir()

	write := func(path, content string) {
		t.Helper()
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	write(filepath.Join(root, "schemas", "person.schema.json"), builderPersonSchema)
	write(filepath.Join(root, "schemas", "project.schema.json"), builderProjectSchema)
	write(filepath.Join(root, "data", "people", "jodal.json"), `{
  "name": "Stein Magnus Jodal",
  "email": "stein.magnus@jodal.no",
  "profiles": {"github": "jodal"}
}`)
	write(filepath.Join(root, "data", "people", "broken.json"), `{
  "name": "Broken Person",
  "email": "broken@example.com",
  "profiles": {"fail": "yes"}
}`)
	write(filepath.Join(root, "data", "projects", "mopidy-spotify", "project.json"), `{
  "name": "Mopidy-Spotify",
  "license": "Apache-2.0",
  "is_extension": true,
  "maintainers": {"jodal": null},
  "distribution": {"github": "mopidy/mopidy-spotify"}
}`)

	store := record.NewStore(filepath.Join(root, "data"), schema.NewValidator(filepath.Join(root, "schemas")))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	orch := enrich.NewOrchestrator(logger, nil)

	people := enrich.Set{}.Register("profiles.github", func(ctx context.Context, data map[string]any) (map[string]any, error) {
		profiles, _ := data["profiles"].(map[string]any)
		if _, bad := profiles["fail"]; bad {
			return nil, errors.New("upstream exploded")
		}
		return map[string]any{"enriched": true}, nil
	})
	projects := enrich.Set{}

	builder := NewBuilder(logger, store, orch, people, projects, 2)
	return builder, root
}

func readJSON(t *testing.T, path string) map[string]any {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	return doc
}

func TestBuildWritesArtifactsPerRecord(t *testing.T) {
	builder, root := newTestBuilder(t)
	dest := filepath.Join(root, "_site", "api")

	require.NoError(t, builder.Build(context.Background(), dest))

	jodal := readJSON(t, filepath.Join(dest, "people", "jodal.json"))
	assert.Equal(t, "jodal", jodal["id"])
	assert.Equal(t, "/api/people/jodal/", jodal["url"])
	profiles := jodal["profiles"].(map[string]any)
	assert.Equal(t, map[string]any{"enriched": true}, profiles["github"])

	project := readJSON(t, filepath.Join(dest, "projects", "mopidy-spotify.json"))
	assert.Equal(t, "/api/projects/mopidy-spotify/", project["url"])
	assert.Equal(t, map[string]any{"jodal": "/api/people/jodal/"}, project["maintainers"])
}

func TestBuildWritesErrorArtifactAndContinues(t *testing.T) {
	builder, root := newTestBuilder(t)
	dest := filepath.Join(root, "_site", "api")

	require.NoError(t, builder.Build(context.Background(), dest))

	errText, err := os.ReadFile(filepath.Join(dest, "people", "broken.error"))
	require.NoError(t, err)
	assert.Contains(t, string(errText), "upstream exploded")

	_, err = os.Stat(filepath.Join(dest, "people", "broken.json"))
	assert.True(t, os.IsNotExist(err))

	// The failure did not take out the neighboring record.
	_, err = os.Stat(filepath.Join(dest, "people", "jodal.json"))
	assert.NoError(t, err)
}

func TestBuildInvalidRecordBecomesErrorArtifact(t *testing.T) {
	builder, root := newTestBuilder(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "data", "people", "garbled.json"), []byte(`{"name": `), 0o644))
	dest := filepath.Join(root, "_site", "api")

	require.NoError(t, builder.Build(context.Background(), dest))

	errText, err := os.ReadFile(filepath.Join(dest, "people", "garbled.error"))
	require.NoError(t, err)
	assert.Contains(t, string(errText), "not valid JSON")
}

func TestBuildReplacesPreviousSnapshot(t *testing.T) {
	builder, root := newTestBuilder(t)
	dest := filepath.Join(root, "_site", "api")

	stale := filepath.Join(dest, "people", "gone.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0o755))
	require.NoError(t, os.WriteFile(stale, []byte(`{}`), 0o644))

	require.NoError(t, builder.Build(context.Background(), dest))

	_, err := os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dest, "people", "jodal.json"))
	assert.NoError(t, err)
	_, err = os.Stat(dest + ".old")
	assert.True(t, os.IsNotExist(err))
}

func TestFailedBuildLeavesPreviousSnapshot(t *testing.T) {
	builder, root := newTestBuilder(t)
	dest := filepath.Join(root, "_site", "api")

	require.NoError(t, builder.Build(context.Background(), dest))

	// A sub-document json cannot encode makes buildOne fail hard, before
	// the staged tree can be swapped in.
	poison := enrich.Set{}.Register("profiles.github", func(ctx context.Context, data map[string]any) (map[string]any, error) {
		return map[string]any{"unencodable": make(chan int)}, nil
	})
	bad := NewBuilder(builder.logger, builder.store, builder.orch, poison, enrich.Set{}, 2)

	err := bad.Build(context.Background(), dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encoding")

	// The previous snapshot is untouched.
	jodal := readJSON(t, filepath.Join(dest, "people", "jodal.json"))
	profiles := jodal["profiles"].(map[string]any)
	assert.Equal(t, map[string]any{"enriched": true}, profiles["github"])

	// No staging or backup residue either.
	leftovers, err := filepath.Glob(filepath.Join(root, "_site", ".snapshot-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
	_, err = os.Stat(dest + ".old")
	assert.True(t, os.IsNotExist(err))
}

func TestBuildOutputIsPrettyPrinted(t *testing.T) {
	builder, root := newTestBuilder(t)
	dest := filepath.Join(root, "_site", "api")

	require.NoError(t, builder.Build(context.Background(), dest))

	raw, err := os.ReadFile(filepath.Join(dest, "people", "jodal.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n  \"name\"")
}
