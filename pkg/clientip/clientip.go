// Package clientip resolves the client address behind proxies and stores it
// in the request context.
//
// Forwarding headers are honoured only when the direct peer is a trusted
// proxy. With no trusted proxies configured the peer address is used as is.
package clientip

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// ErrInvalidProxy is returned for a trusted proxy entry that is neither an
// IP nor a CIDR.
var ErrInvalidProxy = errors.New("clientip.errors.invalid_proxy")

const forwardedFor = "X-Forwarded-For"

// DefaultHeaders are checked in order when the peer is trusted.
var DefaultHeaders = []string{
	"CF-Connecting-IP",
	"DO-Connecting-IP",
	forwardedFor,
	"X-Real-IP",
}

// Config lists the proxies allowed to set forwarding headers.
type Config struct {
	TrustedProxies []string `env:"CLIENT_IP_TRUSTED_PROXIES" envSeparator:","`
}

// Resolver picks the client IP for a request.
type Resolver struct {
	trusted []netip.Prefix
	headers []string
}

type Option func(*Resolver)

// WithTrustedProxies lets peers inside prefixes set forwarding headers.
func WithTrustedProxies(prefixes ...netip.Prefix) Option {
	return func(rs *Resolver) {
		rs.trusted = append(rs.trusted, prefixes...)
	}
}

// WithHeaders replaces DefaultHeaders.
func WithHeaders(names ...string) Option {
	return func(rs *Resolver) {
		rs.headers = names
	}
}

func New(opts ...Option) *Resolver {
	rs := &Resolver{headers: DefaultHeaders}
	for _, opt := range opts {
		opt(rs)
	}
	return rs
}

// NewFromConfig builds a Resolver trusting cfg.TrustedProxies.
func NewFromConfig(cfg Config, opts ...Option) (*Resolver, error) {
	prefixes, err := ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return nil, err
	}
	return New(append([]Option{WithTrustedProxies(prefixes...)}, opts...)...), nil
}

// ParseTrustedProxies accepts IPs and CIDRs. Blank entries are skipped.
func ParseTrustedProxies(entries []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			p, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrInvalidProxy, entry)
			}
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidProxy, entry)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// IP returns the normalized client IP, or "" when none is valid.
// X-Forwarded-For is read right to left and yields the first hop that is not
// a trusted proxy.
func (rs *Resolver) IP(r *http.Request) string {
	remote := RemoteIP(r)
	if !rs.trusts(remote) {
		return remote
	}

	for _, name := range rs.headers {
		value := r.Header.Get(name)
		if value == "" {
			continue
		}
		if !strings.EqualFold(name, forwardedFor) {
			if ip := parseIP(value); ip != "" {
				return ip
			}
			continue
		}

		hops := strings.Split(value, ",")
		var leftmost string
		for i := len(hops) - 1; i >= 0; i-- {
			ip := parseIP(hops[i])
			if ip == "" {
				continue
			}
			if !rs.trusts(ip) {
				return ip
			}
			leftmost = ip
		}
		if leftmost != "" {
			return leftmost
		}
	}
	return remote
}

// Middleware resolves the client IP once per request.
func (rs *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithIP(r.Context(), rs.IP(r))))
	})
}

func (rs *Resolver) trusts(ip string) bool {
	if ip == "" || len(rs.trusted) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range rs.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// RemoteIP returns the normalized peer address, ignoring headers.
func RemoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

func parseIP(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return ""
	}
	return ip.String()
}

type ctxKey struct{}

// WithIP stores ip in ctx.
func WithIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ctxKey{}, ip)
}

// FromContext returns the IP stored by Middleware.
func FromContext(ctx context.Context) string {
	ip, _ := ctx.Value(ctxKey{}).(string)
	return ip
}
