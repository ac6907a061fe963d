package dohbench

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Mode is the HTTP method used to query a DoH server.
type Mode string

const (
	// ModePost sends the binary DNS query as the request body.
	ModePost Mode = "post"
	// ModeGet sends the query as name and type URL parameters.
	ModeGet Mode = "get"
)

const (
	// HTTP1Proto is a constant for specifying HTTP/1.1 protocol.
	HTTP1Proto = "1.1"
	// HTTP2Proto is a constant for specifying HTTP/2 protocol.
	HTTP2Proto = "2"
	// HTTP3Proto is a constant for specifying HTTP/3 protocol.
	HTTP3Proto = "3"
)

var (
	// ErrNoServers is returned when there is nothing to measure.
	ErrNoServers = errors.New("no servers specified")
	// ErrInvalidServer is returned for a server specification that cannot be probed.
	ErrInvalidServer = errors.New("invalid server")
)

// ParseMode parses HTTP method name, empty string is parsed as ModePost.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ModePost):
		return ModePost, nil
	case string(ModeGet):
		return ModeGet, nil
	default:
		return "", fmt.Errorf("unsupported mode '%s', supported values are get and post", s)
	}
}

// ServerSpec describes a single DoH server under test.
type ServerSpec struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
	Mode Mode   `json:"type,omitempty" yaml:"type,omitempty"`
}

func (s ServerSpec) normalize() (ServerSpec, error) {
	mode, err := ParseMode(string(s.Mode))
	if err != nil {
		return s, fmt.Errorf("%w %s: %w", ErrInvalidServer, s.URL, err)
	}
	s.Mode = mode

	u, err := url.Parse(s.URL)
	if err != nil {
		return s, fmt.Errorf("%w %s: %w", ErrInvalidServer, s.URL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return s, fmt.Errorf("%w '%s': only absolute http and https URLs are supported", ErrInvalidServer, s.URL)
	}

	if s.Name == "" {
		s.Name = s.URL
	}
	return s, nil
}

// queryURL returns URL used for GET probes.
func (s ServerSpec) queryURL(domain string) string {
	sep := "?"
	if strings.Contains(s.URL, "?") {
		sep = "&"
	}
	return s.URL + sep + "name=" + url.QueryEscape(domain) + "&type=A"
}
