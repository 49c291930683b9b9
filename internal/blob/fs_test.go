package blob

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilesystemPutGetRoundTrip(t *testing.T) {
	store, err := NewFilesystem(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	info, err := store.Put(ctx, "api/people/jodal.json", bytes.NewReader([]byte(`{"id": "jodal"}`)), PutOptions{ContentType: "application/json"})
	require.NoError(t, err)
	assert.Equal(t, "api/people/jodal.json", info.Key)
	assert.Equal(t, int64(15), info.Size)

	_, rc, err := store.Get(ctx, "api/people/jodal.json")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, `{"id": "jodal"}`, string(data))
}

func TestFilesystemPutOverwrites(t *testing.T) {
	store, err := NewFilesystem(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Put(ctx, "k", strings.NewReader("old"), PutOptions{})
	require.NoError(t, err)
	_, err = store.Put(ctx, "k", strings.NewReader("new"), PutOptions{})
	require.NoError(t, err)

	_, rc, err := store.Get(ctx, "k")
	require.NoError(t, err)
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "new", string(data))
}

func TestFilesystemListByPrefix(t *testing.T) {
	store, err := NewFilesystem(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, key := range []string{"api/people/b.json", "api/people/a.json", "api/projects/c.json"} {
		_, err := store.Put(ctx, key, strings.NewReader("{}"), PutOptions{})
		require.NoError(t, err)
	}

	infos, err := store.List(ctx, "api/people/")
	require.NoError(t, err)
	require.Len(t, infos, 2)
	// Stable ordering by key.
	assert.Equal(t, "api/people/a.json", infos[0].Key)
	assert.Equal(t, "api/people/b.json", infos[1].Key)
}

func TestFilesystemRejectsEscapingKeys(t *testing.T) {
	store, err := NewFilesystem(t.TempDir())
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "../outside", strings.NewReader("x"), PutOptions{})
	assert.Error(t, err)
}
