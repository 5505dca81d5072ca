// Package urlcheck validates outbound URLs before the service fetches
// them. Every IP the hostname resolves to must be public; anything that
// lands on loopback, private, or link-local space is rejected.
package urlcheck

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// Sentinel errors returned by Validate.
var (
	ErrInvalidURL        = errors.New("invalid url")
	ErrSchemeNotAllowed  = errors.New("url scheme not allowed")
	ErrHostNotAllowed    = errors.New("host not allowed")
	ErrHostUnresolvable  = errors.New("host could not be resolved")
)

// Resolver resolves hostnames to IP addresses. *net.Resolver satisfies it.
type Resolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// Checker validates URLs against SSRF-style address restrictions.
type Checker struct {
	resolver Resolver
}

// New returns a Checker backed by the system resolver.
func New() *Checker {
	return &Checker{resolver: net.DefaultResolver}
}

// NewWithResolver returns a Checker using the given resolver.
func NewWithResolver(r Resolver) *Checker {
	return &Checker{resolver: r}
}

// Normalize rewrites shorthand URLs into fetchable form. A URL starting
// with "www." gets an http scheme prepended. Other inputs pass through.
func Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(strings.ToLower(trimmed), "www.") {
		return "http://" + trimmed
	}
	return trimmed
}

// Validate parses the URL, checks the scheme, and resolves the hostname,
// rejecting the URL if any resolved address is non-public. It returns the
// resolved addresses on success so callers can pin the connection to them.
func (c *Checker) Validate(ctx context.Context, raw string) ([]net.IPAddr, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, fmt.Errorf("%w: %q", ErrSchemeNotAllowed, u.Scheme)
	}

	host := u.Hostname()
	if host == "" {
		return nil, fmt.Errorf("%w: empty host", ErrInvalidURL)
	}

	lower := strings.ToLower(host)
	if lower == "localhost" || strings.HasSuffix(lower, ".localhost") {
		return nil, fmt.Errorf("%w: %s", ErrHostNotAllowed, host)
	}

	// Literal IP hosts skip DNS but still get the address check.
	if ip := net.ParseIP(host); ip != nil {
		if IsRestrictedIP(ip) {
			return nil, fmt.Errorf("%w: %s", ErrHostNotAllowed, host)
		}
		return []net.IPAddr{{IP: ip}}, nil
	}

	addrs, err := c.resolver.LookupIPAddr(ctx, host)
	if err != nil || len(addrs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrHostUnresolvable, host)
	}

	for _, addr := range addrs {
		if IsRestrictedIP(addr.IP) {
			return nil, fmt.Errorf("%w: %s resolves to %s", ErrHostNotAllowed, host, addr.IP)
		}
	}

	return addrs, nil
}

// IsRestrictedIP reports whether an IP address must not be fetched.
// Used both at validation time and again at dial time, so a DNS answer
// that changes between the two cannot smuggle in a private address.
func IsRestrictedIP(ip net.IP) bool {
	return ip.IsLoopback() ||
		ip.IsUnspecified() ||
		ip.IsPrivate() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsMulticast()
}
