package relay

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
)

// HostHeader returns the Host value a request to rawURL must carry:
// the hostname, plus the port only when it is not the scheme default.
func HostHeader(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing target URL: %w", err)
	}
	host := u.Hostname()
	if host == "" {
		return "", fmt.Errorf("target URL %q has no host", rawURL)
	}

	port := u.Port()
	if port == "" || isDefaultPort(u.Scheme, port) {
		if strings.Contains(host, ":") {
			return "[" + host + "]", nil
		}
		return host, nil
	}
	return net.JoinHostPort(host, port), nil
}

func isDefaultPort(scheme, port string) bool {
	switch strings.ToLower(scheme) {
	case "http":
		return port == "80"
	case "https":
		return port == "443"
	}
	return false
}

// hopHeaders are connection scoped and never forwarded
var hopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Connection",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// forwardHeaders copies src into dst, dropping Host and hop-by-hop headers.
// Accept-Encoding is left to the transport so response bodies arrive decoded.
func forwardHeaders(dst, src http.Header) {
	for name, values := range src {
		if strings.EqualFold(name, "Host") || strings.EqualFold(name, "Accept-Encoding") || isHopHeader(name) {
			continue
		}
		for _, v := range values {
			dst.Add(name, v)
		}
	}
}

func isHopHeader(name string) bool {
	for _, h := range hopHeaders {
		if strings.EqualFold(name, h) {
			return true
		}
	}
	return false
}
