package enrich

import "context"

// DiscussProfile enriches a person's profiles.discuss field with activity
// timestamps from the discussion forum's per-user JSON endpoint.
func (s *Sources) DiscussProfile(ctx context.Context, data map[string]any) (map[string]any, error) {
	username := nestedString(data, "profiles", "discuss")
	if username == "" {
		return nil, nil
	}

	pageURL := s.DiscussWeb + "/users/" + username
	result := map[string]any{
		"username": username,
		"url":      pageURL,
		"sources":  []string{},
	}

	apiURL := pageURL + ".json"
	var payload struct {
		User struct {
			LastPostedAt *string `json:"last_posted_at"`
			LastSeenAt   *string `json:"last_seen_at"`
		} `json:"user"`
	}
	reached, err := s.fetchJSON(ctx, apiURL, &payload)
	if err != nil {
		return nil, err
	}
	if !reached {
		s.degraded("discuss")
		return result, nil
	}

	result["sources"] = []string{apiURL}
	result["last_posted_at"] = payload.User.LastPostedAt
	result["last_seen_at"] = payload.User.LastSeenAt
	return result, nil
}
