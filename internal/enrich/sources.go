package enrich

import (
	"almanac/internal/platform/metrics"
)

// Sources bundles the external services the enrichers talk to. Base URLs
// are fields so tests can point them at local fakes; zero values get the
// production defaults from NewSources.
type Sources struct {
	Doer    Doer
	Metrics *metrics.Metrics

	GitHubAPI    string
	GitHubWeb    string
	TwitterWeb   string
	PyPIWeb      string
	PyPIAPI      string
	AURWeb       string
	AURRPC       string
	DebianAPI    string
	DiscussWeb   string
	GravatarBase string
}

// NewSources creates a Sources with production endpoints. metrics may be
// nil.
func NewSources(doer Doer, m *metrics.Metrics) *Sources {
	return &Sources{
		Doer:         doer,
		Metrics:      m,
		GitHubAPI:    "https://api.github.com",
		GitHubWeb:    "https://github.com",
		TwitterWeb:   "https://twitter.com",
		PyPIWeb:      "https://pypi.org/project",
		PyPIAPI:      "https://pypi.org/pypi",
		AURWeb:       "https://aur.archlinux.org/packages",
		AURRPC:       "https://aur.archlinux.org/rpc.php",
		DebianAPI:    "https://sources.debian.net/api/src",
		DiscussWeb:   "https://discuss.mopidy.com",
		GravatarBase: "https://www.gravatar.com/avatar",
	}
}

// People returns the enricher set for person records, in the order the
// fields appear in the API output.
func (s *Sources) People() Set {
	return Set{}.
		Register("github", s.GitHubProfile).
		Register("twitter", s.TwitterProfile).
		Register("discuss", s.DiscussProfile).
		Register("gravatar", s.Gravatar)
}

// Projects returns the enricher set for project records.
func (s *Sources) Projects() Set {
	return Set{}.
		Register("github", s.GitHubRepo).
		Register("pypi", s.PyPI).
		Register("aur", s.AUR).
		Register("apt", s.APT)
}

// nestedString returns data[outer][key] as a string, or "" when the outer
// mapping or the key is absent or null.
func nestedString(data map[string]any, outer, key string) string {
	m, ok := data[outer].(map[string]any)
	if !ok {
		return ""
	}
	v, _ := m[key].(string)
	return v
}
