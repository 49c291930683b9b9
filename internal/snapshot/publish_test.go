package snapshot

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"almanac/internal/blob"
)

func TestPublishUploadsTree(t *testing.T) {
	src := t.TempDir()
	write := func(path, content string) {
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	write(filepath.Join(src, "people", "jodal.json"), `{"id": "jodal"}`)
	write(filepath.Join(src, "people", "broken.error"), "upstream exploded\n")
	write(filepath.Join(src, "projects", "mopidy-spotify.json"), `{}`)

	store, err := blob.NewFilesystem(t.TempDir())
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	count, err := Publish(context.Background(), logger, store, src, "api")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	infos, err := store.List(context.Background(), "api/")
	require.NoError(t, err)
	require.Len(t, infos, 3)
	assert.Equal(t, "api/people/broken.error", infos[0].Key)
	assert.Equal(t, "api/people/jodal.json", infos[1].Key)
	assert.Equal(t, "api/projects/mopidy-spotify.json", infos[2].Key)

	_, rc, err := store.Get(context.Background(), "api/people/jodal.json")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, `{"id": "jodal"}`, string(data))
}

func TestPublishWithoutPrefix(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "index.json"), []byte(`{}`), 0o644))

	store, err := blob.NewFilesystem(t.TempDir())
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	count, err := Publish(context.Background(), logger, store, src, "")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	infos, err := store.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "index.json", infos[0].Key)
}
