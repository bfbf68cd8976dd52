package analyzer

import (
	"net/url"

	"github.com/cockroachdb/errors"
)

// ErrEndpointNotLoopback is returned for any analyzer URL that is not an
// explicit loopback address.
var ErrEndpointNotLoopback = errors.New(
	"analyzer endpoint must be a localhost/loopback address",
)

// loopbackHosts are the only hostnames the client will talk to. DNS names
// that happen to resolve to loopback are deliberately excluded: the analyzer
// is trusted only because it is guaranteed local, and a resolvable name is a
// redirection vector.
var loopbackHosts = map[string]bool{
	"localhost": true,
	"127.0.0.1": true,
	"::1":       true,
}

// CheckEndpoint verifies that raw is an http(s) URL pointing at a loopback
// host. This is the SSRF boundary; it runs at configuration time and again
// before every request.
func CheckEndpoint(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return errors.CombineErrors(ErrEndpointNotLoopback, err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.WithMessagef(ErrEndpointNotLoopback, "scheme %q", parsed.Scheme)
	}

	if !loopbackHosts[parsed.Hostname()] {
		return errors.WithMessagef(ErrEndpointNotLoopback, "host %q", parsed.Hostname())
	}

	return nil
}
