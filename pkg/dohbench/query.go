package dohbench

import (
	"errors"
	"fmt"

	"github.com/miekg/dns"
)

// ErrInvalidDomain is returned for domains that cannot be encoded into a DNS question.
var ErrInvalidDomain = errors.New("invalid domain")

// ValidateDomain checks that domain can be used as a question name of a single A query.
// Empty names, the root name and names with labels longer than 63 bytes are rejected.
func ValidateDomain(domain string) error {
	if domain == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidDomain)
	}
	if domain == "." {
		return fmt.Errorf("%w: root name cannot be queried", ErrInvalidDomain)
	}
	if _, ok := dns.IsDomainName(domain); !ok {
		return fmt.Errorf("%w '%s'", ErrInvalidDomain, domain)
	}
	return nil
}

// NewQuery returns wire format of a recursive A/IN query for the domain with zero ID and no compression.
func NewQuery(domain string) ([]byte, error) {
	if err := ValidateDomain(domain); err != nil {
		return nil, err
	}

	msg := dns.Msg{}
	msg.Id = 0
	msg.RecursionDesired = true
	msg.Compress = false
	msg.Question = []dns.Question{{Name: dns.Fqdn(domain), Qtype: dns.TypeA, Qclass: dns.ClassINET}}

	pack, err := msg.Pack()
	if err != nil {
		return nil, fmt.Errorf("%w '%s': %w", ErrInvalidDomain, domain, err)
	}
	return pack, nil
}
