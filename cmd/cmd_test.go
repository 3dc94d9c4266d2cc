package cmd

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

// executeCommand runs a fresh command tree in a temp dir so no stray
// config.yaml is picked up.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	chdir(t, t.TempDir())

	root := NewRootCommand()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--no-banner", "--log-level", "error"}, args...))
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func upstream(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/meta?utm_source=test&user_id=42", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/meta", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<meta http-equiv="refresh" content="0; url=/done">`))
	})
	mux.HandleFunc("/done", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestTraceCommand(t *testing.T) {
	srv := upstream(t)

	stdout, _, err := executeCommand(t, "trace", srv.URL+"/start")
	require.NoError(t, err)
	assert.Contains(t, stdout, "=== Target 1/1 ===")
	assert.Contains(t, stdout, "Final URL reached: "+srv.URL+"/done")
	assert.Contains(t, stdout, "Redirects: 1 header, 1 content")
	assert.Contains(t, stdout, "Done: 1 targets, 1 redirected")
}

func TestTraceCommandFileAndJSONL(t *testing.T) {
	srv := upstream(t)
	dir := t.TempDir()
	list := filepath.Join(dir, "targets.txt")
	require.NoError(t, os.WriteFile(list, []byte("# comment\n"+srv.URL+"/start\n\n"+srv.URL+"/done\n"), 0o644))
	out := filepath.Join(dir, "res", "out.jsonl")

	stdout, _, err := executeCommand(t, "trace", "-f", list, "-t", "2", "-o", out, "--summary")
	require.NoError(t, err)
	assert.Contains(t, stdout, "[1/2] "+srv.URL+"/start -> "+srv.URL+"/done")
	assert.Contains(t, stdout, "Done: 2 targets")

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()

	var lines int
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &rec))
		assert.Equal(t, true, rec["success"])
		assert.Equal(t, srv.URL+"/done", rec["finalUrl"])
		lines++
	}
	assert.Equal(t, 2, lines)
}

func TestTraceCommandSilent(t *testing.T) {
	srv := upstream(t)

	stdout, _, err := executeCommand(t, "trace", "--silent", srv.URL+"/done")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(stdout, "\n"))
	assert.True(t, strings.HasPrefix(stdout, "Done: 1 targets, 0 redirected"))
}

func TestTraceCommandRejectsBadTargets(t *testing.T) {
	_, _, err := executeCommand(t, "trace")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no targets")

	_, _, err = executeCommand(t, "trace", "ftp://example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Only HTTP(S) URLs are supported")

	_, _, err = executeCommand(t, "trace", "-f", filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}

func TestTraceCommandBadHeader(t *testing.T) {
	_, _, err := executeCommand(t, "trace", "-H", "no-colon", "https://example.com")
	require.Error(t, err)
}

func TestClassifyCommand(t *testing.T) {
	stdout, _, err := executeCommand(t, "classify", "https://www.facebook.com/page?utm_source=news&email=a%40b.c")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Facebook (Social Media)")
	assert.Contains(t, stdout, "utm_source=news")
	assert.Contains(t, stdout, "email=a@b.c")
	assert.Contains(t, stdout, "Contains 1 personal identifier • Campaign attribution tracking")

	_, _, err = executeCommand(t, "classify", "not a url")
	require.Error(t, err)

	_, _, err = executeCommand(t, "classify")
	require.Error(t, err)
}

func TestInvalidConfig(t *testing.T) {
	_, _, err := executeCommand(t, "--log-format", "xml", "classify", "https://example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logger.format")

	_, _, err = executeCommand(t, "--config", "nope.yaml", "classify", "https://example.com")
	require.Error(t, err)
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
