package probe

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"
	"time"
)

const (
	DNSResolves     = "RESOLVES"
	DNSNXDomain     = "NXDOMAIN"
	DNSNoARecord    = "NO_A_RECORD"
	DNSServFail     = "SERVFAIL_or_TIMEOUT"
	DNSInvalidName  = "INVALID_NAME"
	defaultDNSLimit = 3 * time.Second
)

// Resolver is the subset of *net.Resolver used for diagnostics.
type Resolver interface {
	LookupIP(ctx context.Context, network, host string) ([]net.IP, error)
	LookupNS(ctx context.Context, name string) ([]*net.NS, error)
}

type DNSDiagnoser struct {
	Resolver Resolver
	Timeout  time.Duration
}

func NewDNSDiagnoser() *DNSDiagnoser {
	return &DNSDiagnoser{Resolver: net.DefaultResolver, Timeout: defaultDNSLimit}
}

// Classify explains why a URL's host may be unreachable. It is only
// meaningful after a probe got no HTTP response at all.
func (d *DNSDiagnoser) Classify(ctx context.Context, rawURL string) string {
	host := hostOf(rawURL)
	if host == "" || strings.Contains(host, "://") {
		return DNSInvalidName
	}
	if net.ParseIP(host) != nil {
		return DNSResolves
	}

	limit := d.Timeout
	if limit <= 0 {
		limit = defaultDNSLimit
	}
	ctx, cancel := context.WithTimeout(ctx, limit)
	defer cancel()

	ips, err := d.Resolver.LookupIP(ctx, "ip", host)
	if err == nil && len(ips) > 0 {
		return DNSResolves
	}

	class := DNSServFail
	var de *net.DNSError
	if errors.As(err, &de) && de.IsNotFound {
		class = DNSNXDomain
	} else if err == nil {
		class = DNSNXDomain
	}

	// A delegated zone without address records is a different problem from
	// a name that does not exist at all.
	if ns, nsErr := d.Resolver.LookupNS(ctx, host); nsErr == nil && len(ns) > 0 && class == DNSNXDomain {
		class = DNSNoARecord
	}
	return class
}

func hostOf(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return raw
	}
	return u.Hostname()
}
