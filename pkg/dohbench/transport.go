package dohbench

import (
	"crypto/tls"
	"fmt"
	"net/http"

	"github.com/quic-go/quic-go/http3"
	"golang.org/x/net/http2"
)

// HTTPClient abstracts over *http.Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

func newRoundTripper(protocol string, insecure bool) (http.RoundTripper, error) {
	switch protocol {
	case HTTP3Proto:
		// nolint:gosec
		return &http3.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: insecure}}, nil
	case HTTP2Proto:
		// nolint:gosec
		return &http2.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: insecure}}, nil
	case HTTP1Proto, "":
		// nolint:gosec
		return &http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: insecure}}, nil
	default:
		return nil, fmt.Errorf("unsupported DoH protocol '%s', supported values are 1.1, 2 and 3", protocol)
	}
}

// newHTTPClient creates client without its own timeout, every probe is bounded by its context.
func newHTTPClient(protocol string, insecure bool) (*http.Client, error) {
	tr, err := newRoundTripper(protocol, insecure)
	if err != nil {
		return nil, err
	}
	return &http.Client{Transport: tr}, nil
}

func protocolName(protocol string) string {
	if protocol == "" {
		protocol = HTTP1Proto
	}
	return "http/" + protocol
}
