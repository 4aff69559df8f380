package content

import (
	"net/http"
	"strings"
)

// DefaultTextClients are the User-Agent substrings treated as terminals.
var DefaultTextClients = []string{"curl"}

// Detector classifies requests as text or browser clients.
// It is a presentation hint only and grants nothing.
type Detector struct {
	needles []string
}

// NewDetector lower-cases and trims names, dropping empties.
// An empty result falls back to DefaultTextClients.
func NewDetector(names []string) Detector {
	var needles []string
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n != "" {
			needles = append(needles, n)
		}
	}
	if len(needles) == 0 {
		needles = append(needles, DefaultTextClients...)
	}
	return Detector{needles: needles}
}

// IsText reports whether the request's User-Agent names a text client.
func (d Detector) IsText(r *http.Request) bool {
	return d.MatchUserAgent(r.Header.Get("User-Agent"))
}

// MatchUserAgent is IsText on a raw header value.
func (d Detector) MatchUserAgent(ua string) bool {
	if ua == "" {
		return false
	}
	ua = strings.ToLower(ua)
	for _, n := range d.needles {
		if strings.Contains(ua, n) {
			return true
		}
	}
	return false
}
