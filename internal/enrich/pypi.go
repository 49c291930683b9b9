package enrich

import (
	"context"
	"sort"

	"github.com/maruel/natural"
)

// PyPI enriches a project's distribution.pypi field with package-index
// metadata: author, current version, dependencies, wheel availability, and
// the full release history in natural descending order.
func (s *Sources) PyPI(ctx context.Context, data map[string]any) (map[string]any, error) {
	id := nestedString(data, "distribution", "pypi")
	if id == "" {
		return nil, nil
	}

	result := map[string]any{
		"id":      id,
		"url":     s.PyPIWeb + "/" + id + "/",
		"sources": []string{},
	}

	apiURL := s.PyPIAPI + "/" + id + "/json"
	var payload struct {
		Info struct {
			Author       string         `json:"author"`
			AuthorEmail  string         `json:"author_email"`
			Version      string         `json:"version"`
			Downloads    map[string]any `json:"downloads"`
			RequiresDist []string       `json:"requires_dist"`
		} `json:"info"`
		Releases map[string]any `json:"releases"`
		URLs     []struct {
			PackageType string `json:"packagetype"`
			UploadTime  string `json:"upload_time"`
		} `json:"urls"`
	}
	reached, err := s.fetchJSON(ctx, apiURL, &payload)
	if err != nil {
		return nil, err
	}
	if !reached {
		s.degraded("pypi")
		return result, nil
	}

	result["sources"] = []string{apiURL}
	result["author"] = payload.Info.Author
	result["author_email"] = payload.Info.AuthorEmail
	result["version"] = payload.Info.Version
	result["downloads"] = payload.Info.Downloads
	result["requires_dist"] = payload.Info.RequiresDist

	hasWheel := false
	for _, u := range payload.URLs {
		if u.PackageType == "bdist_wheel" {
			hasWheel = true
			break
		}
	}
	result["has_wheel"] = hasWheel

	// Version strings need alphanumeric-aware ordering: "1.10.0" sorts
	// after "1.9.0", not between "1.1" and "1.2".
	releases := make([]string, 0, len(payload.Releases))
	for version := range payload.Releases {
		releases = append(releases, version)
	}
	sort.Slice(releases, func(i, j int) bool {
		return natural.Less(releases[j], releases[i])
	})
	result["releases"] = releases

	if len(payload.URLs) > 0 {
		// The index reports upload times as naive UTC.
		result["released_at"] = payload.URLs[0].UploadTime + "Z"
	} else {
		result["released_at"] = nil
	}
	return result, nil
}
