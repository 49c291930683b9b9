package enrich

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// GitHubRepo enriches a project's distribution.github field with repository
// metadata and release tags from the hosting API.
func (s *Sources) GitHubRepo(ctx context.Context, data map[string]any) (map[string]any, error) {
	id := nestedString(data, "distribution", "github")
	if id == "" {
		return nil, nil
	}
	owner, repo, found := strings.Cut(id, "/")
	if !found {
		return nil, fmt.Errorf("distribution.github %q is not in owner/repo form", id)
	}

	result := map[string]any{
		"id":      id,
		"owner":   owner,
		"repo":    repo,
		"url":     s.GitHubWeb + "/" + id,
		"sources": []string{},
	}

	apiURL := s.GitHubAPI + "/repos/" + id
	var meta struct {
		CreatedAt        string  `json:"created_at"`
		PushedAt         string  `json:"pushed_at"`
		UpdatedAt        string  `json:"updated_at"`
		Description      *string `json:"description"`
		Homepage         *string `json:"homepage"`
		Language         *string `json:"language"`
		SubscribersCount int     `json:"subscribers_count"`
		StargazersCount  int     `json:"stargazers_count"`
		ForksCount       int     `json:"forks_count"`
		OpenIssuesCount  int     `json:"open_issues_count"`
	}
	reached, err := s.fetchJSON(ctx, apiURL, &meta)
	if err != nil {
		return nil, err
	}
	if !reached {
		s.degraded("github")
		return result, nil
	}

	result["created_at"] = meta.CreatedAt
	result["pushed_at"] = meta.PushedAt
	result["updated_at"] = meta.UpdatedAt
	result["description"] = meta.Description
	result["homepage"] = meta.Homepage
	result["language"] = meta.Language
	// The API's subscribers are what the UI calls watchers.
	result["watchers_count"] = meta.SubscribersCount
	result["stargazers_count"] = meta.StargazersCount
	result["forks_count"] = meta.ForksCount
	result["open_issues_count"] = meta.OpenIssuesCount

	tagsURL := apiURL + "/tags"
	tags, err := s.githubTags(ctx, tagsURL)
	if err != nil {
		return nil, err
	}
	result["tags"] = tags
	if len(tags) > 0 {
		result["latest_tag"] = tags[0]
	} else {
		result["latest_tag"] = nil
	}
	result["sources"] = []string{apiURL, tagsURL}
	return result, nil
}

// githubTags fetches the repository's tags and keeps only release tags, in
// the order the service returned them (assumed newest-first).
func (s *Sources) githubTags(ctx context.Context, url string) ([]string, error) {
	var raw []struct {
		Name string `json:"name"`
	}
	reached, err := s.fetchJSON(ctx, url, &raw)
	if err != nil {
		return nil, err
	}
	if !reached {
		s.degraded("github")
		return []string{}, nil
	}

	tags := make([]string, 0, len(raw))
	for _, t := range raw {
		if isReleaseTag(t.Name) {
			tags = append(tags, t.Name)
		}
	}
	return tags, nil
}

// isReleaseTag reports whether name parses as a strict MAJOR.MINOR.PATCH
// version after stripping a leading "v". Packaging tags like
// "debian/v1.2.0-1" fall out here.
func isReleaseTag(name string) bool {
	v, err := semver.StrictNewVersion(strings.TrimPrefix(name, "v"))
	if err != nil {
		return false
	}
	return v.Prerelease() == "" && v.Metadata() == ""
}
