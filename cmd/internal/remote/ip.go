// Package remote extracts the requester's network origin.
package remote

import (
	"net"
	"net/http"
	"strings"
)

// IP returns the client address. Forwarded headers are honored only when
// trustProxy is set; they are client-controlled otherwise.
func IP(r *http.Request, trustProxy bool) net.IP {
	if r == nil {
		return nil
	}
	if trustProxy {
		if ip := parseForwardedIP(r.Header.Get("X-Forwarded-For")); ip != nil {
			return ip
		}
		if ip := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-IP"))); ip != nil {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err != nil {
		host = strings.TrimSpace(r.RemoteAddr)
	}
	return net.ParseIP(host)
}

// String is IP formatted for display, "Unknown" when absent.
func String(r *http.Request, trustProxy bool) string {
	ip := IP(r, trustProxy)
	if ip == nil {
		return "Unknown"
	}
	return ip.String()
}

func parseForwardedIP(raw string) net.IP {
	if raw == "" {
		return nil
	}
	for _, p := range strings.Split(raw, ",") {
		if ip := net.ParseIP(strings.TrimSpace(p)); ip != nil {
			return ip
		}
	}
	return nil
}
