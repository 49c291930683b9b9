package enrich

import "context"

// GitHubProfile links a person to their code-hosting profile. Purely local:
// the canonical URL is derived from the username.
func (s *Sources) GitHubProfile(ctx context.Context, data map[string]any) (map[string]any, error) {
	username := nestedString(data, "profiles", "github")
	if username == "" {
		return nil, nil
	}
	return map[string]any{
		"username": username,
		"url":      s.GitHubWeb + "/" + username,
		"sources":  []string{},
	}, nil
}

// TwitterProfile links a person to their Twitter profile, also without any
// network call.
func (s *Sources) TwitterProfile(ctx context.Context, data map[string]any) (map[string]any, error) {
	username := nestedString(data, "profiles", "twitter")
	if username == "" {
		return nil, nil
	}
	return map[string]any{
		"username": username,
		"url":      s.TwitterWeb + "/" + username,
		"sources":  []string{},
	}, nil
}
