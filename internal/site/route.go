package site

import (
	"net/url"
	"strings"

	"github.com/Faultbox/roomfolio/internal/config"
)

// Destination is what following an href leads to.
type Destination int

const (
	// Unknown is a relative href that matches no page.
	Unknown Destination = iota
	// External is an absolute URL, opened in the system browser.
	External
	// Reload is the empty href; the current page is loaded again.
	Reload
	// Page is a configured room.
	Page
)

func (d Destination) String() string {
	switch d {
	case External:
		return "external"
	case Reload:
		return "reload"
	case Page:
		return "page"
	default:
		return "unknown"
	}
}

// Resolve classifies href against the configured pages. Relative hrefs match
// routes regardless of a leading "./" or "/".
func Resolve(cfg *config.Config, href string) (Destination, config.PageConfig) {
	href = strings.TrimSpace(href)
	if href == "" {
		return Reload, config.PageConfig{}
	}
	if u, err := url.Parse(href); err == nil && u.Scheme != "" {
		return External, config.PageConfig{}
	}

	want := normalizeRoute(href)
	for _, p := range cfg.Site.Pages {
		if normalizeRoute(p.Route) == want {
			return Page, p
		}
	}
	return Unknown, config.PageConfig{}
}

func normalizeRoute(r string) string {
	r = strings.TrimPrefix(r, "./")
	return strings.TrimPrefix(r, "/")
}
