package dohbench

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/miekg/dns"
	"github.com/tantalor93/doh-go/doh"
)

// maxVerifyBody limits size of the JSON response read by the verification.
const maxVerifyBody = 64 * 1024

// jsonResponse is a subset of the DNS JSON API response.
type jsonResponse struct {
	Status int `json:"Status"`
	Answer []struct {
		Name string `json:"name"`
		Type uint16 `json:"type"`
		TTL  uint32 `json:"TTL"`
		Data string `json:"data"`
	} `json:"Answer"`
}

// Verify resolves the domain on the server and returns the response. Servers in ModePost are queried
// using RFC 8484 DNS wire format, servers in ModeGet using the JSON API, the same way the probes query them.
// Unlike the latency probes, the response is fully read and parsed, so it can be checked that the server
// really answers DNS queries.
func (b *Benchmark) Verify(ctx context.Context, server ServerSpec, domain string) (*dns.Msg, error) {
	if err := b.init(); err != nil {
		return nil, err
	}
	server, err := server.normalize()
	if err != nil {
		return nil, err
	}
	if err := ValidateDomain(domain); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, BaseTimeout)
	defer cancel()

	var resp *dns.Msg
	if server.Mode == ModeGet {
		resp, err = b.verifyJSON(ctx, server, domain)
	} else {
		msg := dns.Msg{}
		msg.SetQuestion(dns.Fqdn(domain), dns.TypeA)
		msg.Id = 0
		resp, err = doh.NewClient(server.URL, doh.WithHTTPClient(b.client)).SendViaPost(ctx, &msg)
	}
	if err != nil {
		return nil, fmt.Errorf("verification of %s failed: %w", server.Name, err)
	}
	return resp, nil
}

// verifyJSON sends the JSON API query and converts the answer into DNS message.
func (b *Benchmark) verifyJSON(ctx context.Context, server ServerSpec, domain string) (*dns.Msg, error) {
	req, err := newProbeRequest(ctx, server, domain)
	if err != nil {
		return nil, err
	}
	httpResp, err := b.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected HTTP status: %s", httpResp.Status)
	}

	var jr jsonResponse
	if err := json.NewDecoder(io.LimitReader(httpResp.Body, maxVerifyBody)).Decode(&jr); err != nil {
		return nil, fmt.Errorf("invalid JSON response: %w", err)
	}

	msg := dns.Msg{}
	msg.SetQuestion(dns.Fqdn(domain), dns.TypeA)
	msg.Response = true
	msg.Rcode = jr.Status
	for _, a := range jr.Answer {
		rr, err := dns.NewRR(fmt.Sprintf("%s %d IN %s %s", dns.Fqdn(a.Name), a.TTL, dns.TypeToString[a.Type], a.Data))
		if err != nil || rr == nil {
			// record types the JSON API presents differently from zone file format are skipped
			continue
		}
		msg.Answer = append(msg.Answer, rr)
	}
	return &msg, nil
}
