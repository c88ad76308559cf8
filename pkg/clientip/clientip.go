package clientip

import (
	"net"
	"net/http"
	"strings"
)

// Resolver extracts the client address from a request. Forwarding headers
// are honoured only when listed in Headers, in that order; an untrusted header
// would let any client pick its own rate-limit key.
type Resolver struct {
	Headers []string
}

// Config lists the proxy headers set by the deployment's edge. Leave it empty
// when the service is reached directly.
type Config struct {
	TrustedHeaders []string `env:"TRUSTED_PROXY_HEADERS" envSeparator:","`
}

func New(cfg Config) Resolver {
	headers := make([]string, 0, len(cfg.TrustedHeaders))
	for _, h := range cfg.TrustedHeaders {
		if h = strings.TrimSpace(h); h != "" {
			headers = append(headers, http.CanonicalHeaderKey(h))
		}
	}
	return Resolver{Headers: headers}
}

// IP returns the normalised client address, or "" if none can be parsed.
func (res Resolver) IP(r *http.Request) string {
	for _, h := range res.Headers {
		value := r.Header.Get(h)
		if value == "" {
			continue
		}
		// X-Forwarded-For and friends can hold a chain; the first hop is the client
		for ip := range strings.SplitSeq(value, ",") {
			if parsed := parseIP(ip); parsed != "" {
				return parsed
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

// GetIP returns the address stored by Middleware, falling back to RemoteAddr.
func GetIP(r *http.Request) string {
	if ip := FromContext(r.Context()); ip != "" {
		return ip
	}
	return Resolver{}.IP(r)
}

func parseIP(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	ip := net.ParseIP(s)
	if ip == nil {
		return ""
	}
	return ip.String()
}
