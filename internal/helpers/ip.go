package helpers

import (
	"net"
	"net/http"
	"strings"
)

// GetClientIP returns the address of the caller. X-Forwarded-For is only
// honoured when the direct peer is one of trustedProxies (IPs or CIDRs); the
// right-most untrusted hop is taken as the client.
func GetClientIP(r *http.Request, trustedProxies []string) string {
	remoteIP := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		remoteIP = host
	}

	if !isTrusted(remoteIP, trustedProxies) {
		return remoteIP
	}

	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded == "" {
		return remoteIP
	}

	hops := strings.Split(forwarded, ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if !isTrusted(hop, trustedProxies) {
			return hop
		}
	}

	return strings.TrimSpace(hops[0])
}

func isTrusted(ip string, trustedProxies []string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}

	for _, proxy := range trustedProxies {
		if strings.Contains(proxy, "/") {
			_, network, err := net.ParseCIDR(proxy)
			if err == nil && network.Contains(parsed) {
				return true
			}
			continue
		}
		if trusted := net.ParseIP(proxy); trusted != nil && trusted.Equal(parsed) {
			return true
		}
	}
	return false
}
