package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selimozcann/linktracer/internal/httpclient"
	"github.com/selimozcann/linktracer/internal/trace"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, trace.DefaultMaxRedirects, cfg.Trace.MaxRedirects)
	assert.Equal(t, trace.DefaultTimeout, cfg.Trace.Timeout)
	assert.Equal(t, int64(trace.DefaultMaxBodyBytes), cfg.Trace.MaxBodyBytes)
	assert.Equal(t, httpclient.DefaultUserAgent, cfg.Trace.UserAgent)
	assert.Equal(t, 10, cfg.Runner.Threads)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "linktracer.yaml")
	yaml := []byte(`
trace:
  max_redirects: 4
  timeout: 2s
  headers:
    - "X-Probe: 1"
server:
  addr: "127.0.0.1:9000"
logger:
  format: json
`)
	require.NoError(t, os.WriteFile(path, yaml, 0o600))
	t.Setenv("LINKTRACER_RUNNER_THREADS", "3")
	t.Setenv("LINKTRACER_TRACE_TIMEOUT", "1500ms")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Trace.MaxRedirects)
	assert.Equal(t, 1500*time.Millisecond, cfg.Trace.Timeout)
	assert.Equal(t, []string{"X-Probe: 1"}, cfg.Trace.Headers)
	assert.Equal(t, 3, cfg.Runner.Threads)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, "json", cfg.Logger.Format)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	v := viper.New()
	SetDefaults(v)
	base, err := NewConfigFromViper(v)
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zeroRedirects", func(c *Config) { c.Trace.MaxRedirects = 0 }},
		{"negativeTimeout", func(c *Config) { c.Trace.Timeout = -time.Second }},
		{"zeroBody", func(c *Config) { c.Trace.MaxBodyBytes = 0 }},
		{"zeroThreads", func(c *Config) { c.Runner.Threads = 0 }},
		{"emptyAddr", func(c *Config) { c.Server.Addr = "" }},
		{"badFormat", func(c *Config) { c.Logger.Format = "xml" }},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := *base
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent of testing.T.Chdir on Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
