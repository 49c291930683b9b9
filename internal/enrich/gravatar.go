package enrich

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"strconv"
	"strings"
)

// Gravatar derives the avatar URL family from a content hash of the
// person's lower-cased email address. No network call; the result is a pure
// function of the input.
func (s *Sources) Gravatar(ctx context.Context, data map[string]any) (map[string]any, error) {
	email, _ := data["email"].(string)
	if email == "" {
		email = "default"
	}

	sum := md5.Sum([]byte(strings.ToLower(email)))
	base := s.GravatarBase + "/" + hex.EncodeToString(sum[:])

	return map[string]any{
		"base":    base,
		"small":   sizedGravatar(base, 80),
		"medium":  sizedGravatar(base, 200),
		"large":   sizedGravatar(base, 460),
		"sources": []string{},
	}, nil
}

// sizedGravatar adds the size and "mystery man" fallback parameters.
func sizedGravatar(base string, size int) string {
	q := url.Values{}
	q.Set("s", strconv.Itoa(size))
	q.Set("d", "mm")
	return base + "?" + q.Encode()
}
