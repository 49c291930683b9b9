package enrich

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Doer is the subset of http.Client the enrichers need. Tests substitute a
// client pointed at an httptest server.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewHTTPClient returns the client used for all upstream calls: one bounded
// timeout, no retries. A non-success response degrades the result instead
// of failing the request.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// fetchJSON performs a single GET against url, decoding the body into v.
// It returns false when the upstream is unreachable or answers non-200 (the
// degraded-result case) and an error only when a successful response body
// cannot be decoded.
func (s *Sources) fetchJSON(ctx context.Context, url string, v any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "almanac")

	resp, err := s.Doer.Do(req)
	if err != nil {
		return false, nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return false, err
	}
	return true, nil
}

// degraded records that an upstream call fell back to the minimal result.
func (s *Sources) degraded(service string) {
	if s.Metrics != nil {
		s.Metrics.UpstreamDegraded.WithLabelValues(service).Inc()
	}
}
