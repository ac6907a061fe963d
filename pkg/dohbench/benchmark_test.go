package dohbench

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBenchmark_init(t *testing.T) {
	tests := []struct {
		name        string
		benchmark   Benchmark
		wantServers []ServerSpec
		wantErr     error
	}{
		{
			name:      "no servers",
			benchmark: Benchmark{Domains: []string{"example.org"}},
			wantErr:   ErrNoServers,
		},
		{
			name: "default mode and name",
			benchmark: Benchmark{
				Servers: []ServerSpec{{URL: "https://1.1.1.1/dns-query"}},
				Domains: []string{"example.org"},
			},
			wantServers: []ServerSpec{{Name: "https://1.1.1.1/dns-query", URL: "https://1.1.1.1/dns-query", Mode: ModePost}},
		},
		{
			name: "upper case mode",
			benchmark: Benchmark{
				Servers: []ServerSpec{{Name: "google", URL: "https://dns.google/resolve", Mode: "GET"}},
			},
			wantServers: []ServerSpec{{Name: "google", URL: "https://dns.google/resolve", Mode: ModeGet}},
		},
		{
			name: "unsupported mode",
			benchmark: Benchmark{
				Servers: []ServerSpec{{Name: "test", URL: "https://1.1.1.1/dns-query", Mode: "put"}},
			},
			wantErr: ErrInvalidServer,
		},
		{
			name: "relative URL",
			benchmark: Benchmark{
				Servers: []ServerSpec{{Name: "test", URL: "/dns-query"}},
			},
			wantErr: ErrInvalidServer,
		},
		{
			name: "not HTTP URL",
			benchmark: Benchmark{
				Servers: []ServerSpec{{Name: "test", URL: "quic://dns.adguard-dns.com"}},
			},
			wantErr: ErrInvalidServer,
		},
		{
			name: "invalid domain",
			benchmark: Benchmark{
				Servers: []ServerSpec{{Name: "test", URL: "https://1.1.1.1/dns-query"}},
				Domains: []string{"example.org", strings.Repeat("x", 64) + ".org"},
			},
			wantErr: ErrInvalidDomain,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.benchmark.init()

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantServers, tt.benchmark.Servers)
			assert.NotNil(t, tt.benchmark.prober)
			assert.Equal(t, os.Stdout, tt.benchmark.Writer)
		})
	}
}

func TestBenchmark_init_invalidProtocol(t *testing.T) {
	b := Benchmark{
		Servers:     []ServerSpec{{Name: "test", URL: "https://1.1.1.1/dns-query"}},
		DohProtocol: "4",
	}

	assert.Error(t, b.init())
}

func TestBenchmark_init_requestLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "requests.log")
	b := Benchmark{
		Servers:           []ServerSpec{{Name: "test", URL: "https://1.1.1.1/dns-query"}},
		RequestLogEnabled: true,
		RequestLogPath:    path,
	}

	require.NoError(t, b.init())
	defer b.Close()

	assert.NotNil(t, b.requestLogger)
	assert.FileExists(t, path)
}

func TestBenchmark_Run_customProber(t *testing.T) {
	prober := &fakeProber{probe: latencies(map[string]time.Duration{"a.org": time.Millisecond})}
	buf := bytes.Buffer{}
	b := Benchmark{
		Servers: []ServerSpec{{Name: "test", URL: "https://dns.example/dns-query"}},
		Domains: []string{"a.org"},
		Prober:  prober,
		Writer:  &buf,
	}

	res, err := b.Run(context.Background())

	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, time.Millisecond, res[0].Stats.Mean)
	assert.Equal(t, "Using 1 domains\nBenchmarking 1 servers via http/1.1 \n", buf.String())
}
