package enrich

import (
	"context"
	"net/url"
	"time"
)

// AUR enriches a project's distribution.aur field with metadata from the
// Arch User Repository RPC endpoint.
func (s *Sources) AUR(ctx context.Context, data map[string]any) (map[string]any, error) {
	id := nestedString(data, "distribution", "aur")
	if id == "" {
		return nil, nil
	}

	result := map[string]any{
		"id":      id,
		"url":     s.AURWeb + "/" + id + "/",
		"sources": []string{},
	}

	apiURL := s.AURRPC + "?type=info&arg=" + url.QueryEscape(id)
	var payload struct {
		Results struct {
			Description    string   `json:"Description"`
			URL            string   `json:"URL"`
			Version        string   `json:"Version"`
			OutOfDate      *float64 `json:"OutOfDate"`
			NumVotes       int      `json:"NumVotes"`
			Maintainer     *string  `json:"Maintainer"`
			FirstSubmitted int64    `json:"FirstSubmitted"`
			LastModified   int64    `json:"LastModified"`
		} `json:"results"`
	}
	reached, err := s.fetchJSON(ctx, apiURL, &payload)
	if err != nil {
		return nil, err
	}
	if !reached {
		s.degraded("aur")
		return result, nil
	}

	info := payload.Results
	result["sources"] = []string{apiURL}
	result["description"] = info.Description
	result["homepage"] = info.URL
	result["version"] = info.Version
	result["outdated"] = info.OutOfDate != nil && *info.OutOfDate != 0
	result["vote_count"] = info.NumVotes
	result["maintainer"] = info.Maintainer
	result["created_at"] = unixToISO(info.FirstSubmitted)
	result["updated_at"] = unixToISO(info.LastModified)
	return result, nil
}

func unixToISO(ts int64) string {
	return time.Unix(ts, 0).UTC().Format("2006-01-02T15:04:05Z")
}
