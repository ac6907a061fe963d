package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/tantalor93/dohrank/pkg/dohbench"
	"gopkg.in/yaml.v3"
)

var client = http.Client{
	Timeout: 120 * time.Second,
}

// serversValue collects repeatable --server flags in the form name=url[,get|post].
type serversValue []dohbench.ServerSpec

var _ kingpin.Value = (*serversValue)(nil)

func (s *serversValue) Set(value string) error {
	server, err := parseServer(value)
	if err != nil {
		return err
	}
	*s = append(*s, server)
	return nil
}

func (s *serversValue) String() string {
	names := make([]string, 0, len(*s))
	for _, server := range *s {
		names = append(names, server.Name+"="+server.URL)
	}
	return strings.Join(names, ",")
}

func (s *serversValue) IsCumulative() bool {
	return true
}

// parseServer parses server in the form [name=]url[,get|post], the URL is used as a name when the name is missing.
func parseServer(value string) (dohbench.ServerSpec, error) {
	server := dohbench.ServerSpec{}

	if i := strings.LastIndex(value, ","); i >= 0 {
		mode, err := dohbench.ParseMode(value[i+1:])
		if err != nil {
			return server, err
		}
		server.Mode = mode
		value = value[:i]
	}

	// names cannot contain '=', so the first one separates the name from the URL with query parameters
	if name, u, ok := strings.Cut(value, "="); ok && !strings.Contains(name, "/") {
		server.Name = strings.TrimSpace(name)
		value = u
	}
	server.URL = strings.TrimSpace(value)

	if server.URL == "" {
		return server, fmt.Errorf("%w: missing URL in '%s'", dohbench.ErrInvalidServer, value)
	}
	if server.Name == "" {
		server.Name = server.URL
	}
	return server, nil
}

// loadServers loads list of servers from the local file or from HTTP resource, both JSON and YAML are supported.
func loadServers(ctx context.Context, source string) ([]dohbench.ServerSpec, error) {
	data, err := readSource(ctx, source)
	if err != nil {
		return nil, err
	}

	var servers []dohbench.ServerSpec
	if err := yaml.Unmarshal(data, &servers); err != nil {
		return nil, fmt.Errorf("failed to parse servers from '%s': %w", source, err)
	}
	return servers, nil
}

// loadDomains expands the domain arguments. Argument can be a domain, local file referenced using @<file-path>
// or HTTP resource, files contain one domain per line. Empty lines and lines starting with '#' are skipped.
func loadDomains(ctx context.Context, args []string) ([]string, error) {
	var domains []string
	for _, arg := range args {
		source := ""
		switch {
		case strings.HasPrefix(arg, "@"):
			source = arg[1:]
		case isHTTPUrl(arg):
			source = arg
		default:
			domains = append(domains, arg)
			continue
		}

		data, err := readSource(ctx, source)
		if err != nil {
			return nil, err
		}
		scanner := bufio.NewScanner(strings.NewReader(string(data)))
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			domains = append(domains, line)
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read domains from '%s': %w", source, err)
		}
	}
	return domains, nil
}

func readSource(ctx context.Context, source string) ([]byte, error) {
	if !isHTTPUrl(source) {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("failed to read file '%s' with error '%v'", source, err)
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file '%s' with error '%v'", source, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to download file '%s' with status '%s'", source, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to download file '%s' with error '%v'", source, err)
	}
	return data, nil
}

func isHTTPUrl(s string) bool {
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return false
	}
	_, err := url.ParseRequestURI(s)
	return err == nil
}
