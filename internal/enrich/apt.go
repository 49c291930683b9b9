package enrich

import (
	"context"
	"encoding/json"
)

// APT enriches a project's distribution.apt field with the versions
// published per Debian suite. An explicit error marker in the response body
// degrades exactly like an unreachable archive.
func (s *Sources) APT(ctx context.Context, data map[string]any) (map[string]any, error) {
	id := nestedString(data, "distribution", "apt")
	if id == "" {
		return nil, nil
	}

	result := map[string]any{
		"id":      id,
		"sources": []string{},
	}

	apiURL := s.DebianAPI + "/" + id + "/"
	var payload struct {
		Error    json.RawMessage `json:"error"`
		Versions []struct {
			Version string   `json:"version"`
			Suites  []string `json:"suites"`
		} `json:"versions"`
	}
	reached, err := s.fetchJSON(ctx, apiURL, &payload)
	if err != nil {
		return nil, err
	}
	if !reached || len(payload.Error) > 0 {
		s.degraded("debian")
		return result, nil
	}

	result["sources"] = []string{apiURL}
	// A suite can appear under several versions; the later entry wins.
	suites := map[string]any{}
	for _, v := range payload.Versions {
		for _, suite := range v.Suites {
			suites[suite] = map[string]any{"version": v.Version}
		}
	}
	result["suites"] = suites
	return result, nil
}
