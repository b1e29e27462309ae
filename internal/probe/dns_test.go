package probe

import (
	"context"
	"net"
	"testing"
)

type fakeResolver struct {
	ips   []net.IP
	ipErr error
	ns    []*net.NS
}

func (f fakeResolver) LookupIP(context.Context, string, string) ([]net.IP, error) {
	return f.ips, f.ipErr
}

func (f fakeResolver) LookupNS(context.Context, string) ([]*net.NS, error) {
	return f.ns, nil
}

func TestDNSDiagnoser_Classify(t *testing.T) {
	notFound := &net.DNSError{Err: "no such host", Name: "x", IsNotFound: true}
	timeout := &net.DNSError{Err: "i/o timeout", Name: "x", IsTimeout: true}

	cases := []struct {
		name string
		url  string
		res  fakeResolver
		want string
	}{
		{"resolves", "https://example.com/health", fakeResolver{ips: []net.IP{net.IPv4(127, 0, 0, 1)}}, DNSResolves},
		{"literal ip", "http://10.0.0.1:8080/", fakeResolver{}, DNSResolves},
		{"nxdomain", "https://missing.invalid", fakeResolver{ipErr: notFound}, DNSNXDomain},
		{"zone without A", "https://bare.example", fakeResolver{ipErr: notFound, ns: []*net.NS{{Host: "ns1.example."}}}, DNSNoARecord},
		{"timeout", "https://slow.example", fakeResolver{ipErr: timeout}, DNSServFail},
		{"empty", "", fakeResolver{}, DNSInvalidName},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := &DNSDiagnoser{Resolver: tc.res, Timeout: defaultDNSLimit}
			if got := d.Classify(context.Background(), tc.url); got != tc.want {
				t.Fatalf("want %s, got %s", tc.want, got)
			}
		})
	}
}

// ctxResolver answers only while the lookup context is still live.
type ctxResolver struct{}

func (ctxResolver) LookupIP(ctx context.Context, _, _ string) ([]net.IP, error) {
	if err := ctx.Err(); err != nil {
		return nil, &net.DNSError{Err: err.Error(), IsTimeout: true}
	}
	return []net.IP{net.IPv4(127, 0, 0, 1)}, nil
}

func (ctxResolver) LookupNS(context.Context, string) ([]*net.NS, error) { return nil, nil }

func TestDNSDiagnoser_ZeroTimeoutUsesDefault(t *testing.T) {
	d := &DNSDiagnoser{Resolver: ctxResolver{}}
	if got := d.Classify(context.Background(), "https://example.com"); got != DNSResolves {
		t.Fatalf("want %s with an unset timeout, got %s", DNSResolves, got)
	}
}
