package utils

import (
	"net"
	"net/url"
	"strings"
)

// IsAllowedOrigin reports whether an Origin header should be trusted. The
// dashboard lives on a home LAN, so localhost, private/link-local IPs,
// .local mDNS names, and single-label hostnames are allowed; public internet
// origins are not.
func IsAllowedOrigin(origin string) bool {
	if origin == "" {
		return false
	}

	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}

	hostname := parsed.Hostname()
	if hostname == "localhost" || strings.HasSuffix(hostname, ".local") {
		return true
	}
	if !strings.Contains(hostname, ".") {
		// Single-label LAN hostname.
		return true
	}

	if ip := net.ParseIP(hostname); ip != nil {
		return ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast()
	}
	return false
}
