package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"almanac/internal/blob"
)

// Publish uploads every artifact under dir to the blob store, keyed by the
// file's slash path relative to dir, under the given key prefix. It returns
// the number of objects written.
func Publish(ctx context.Context, logger *slog.Logger, store blob.Store, dir, prefix string) (int, error) {
	count := 0
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if prefix != "" {
			key = prefix + "/" + key
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if _, err := store.Put(ctx, key, bytes.NewReader(data), blob.PutOptions{ContentType: contentTypeFor(path)}); err != nil {
			return fmt.Errorf("publishing %q: %w", key, err)
		}
		count++
		return nil
	})
	if err != nil {
		return count, err
	}
	logger.InfoContext(ctx, "snapshot published",
		"driver", store.Driver(),
		"objects", count,
	)
	return count, nil
}

func contentTypeFor(path string) string {
	switch filepath.Ext(path) {
	case ".json":
		return "application/json"
	case ".html":
		return "text/html; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}
