package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/courier/internal/bench"
)

type received struct {
	Method      string
	Path        string
	RawQuery    string
	ContentType string
	TestHeader  string
	Body        string
}

type recorder struct {
	mu       sync.Mutex
	requests []received
}

func (r *recorder) all() []received {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]received(nil), r.requests...)
}

func (r *recorder) last(t *testing.T) received {
	t.Helper()
	all := r.all()
	require.NotEmpty(t, all)
	return all[len(all)-1]
}

// echoServer records each request and answers with a small JSON document.
func echoServer(t *testing.T) (*httptest.Server, *recorder) {
	t.Helper()
	rec := &recorder{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rec.mu.Lock()
		rec.requests = append(rec.requests, received{
			Method:      r.Method,
			Path:        r.URL.Path,
			RawQuery:    r.URL.RawQuery,
			ContentType: r.Header.Get("Content-Type"),
			TestHeader:  r.Header.Get("X-Test"),
			Body:        string(body),
		})
		rec.mu.Unlock()

		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"token":"abc","id":7}`))
	}))
	t.Cleanup(server.Close)
	return server, rec
}

// execute runs the command tree with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func decodeJSON(t *testing.T, raw string, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(raw), v), raw)
}

func TestGetCommand(t *testing.T) {
	server, rec := echoServer(t)

	out, err := execute(t, "get", server.URL+"/users?page=2", "-q", "sort=name", "-q", "active", "-H", "X-Test: yes", "--no-color")
	require.NoError(t, err)

	got := rec.last(t)
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/users", got.Path)
	assert.Equal(t, "page=2&sort=name&active", got.RawQuery)
	assert.Equal(t, "yes", got.TestHeader)

	assert.Contains(t, out, "▶ REQUEST: GET "+server.URL+"/users?page=2&sort=name&active")
	assert.Contains(t, out, "◀ RESPONSE: 200 OK")
	assert.Contains(t, out, `"token": "abc"`)
}

func TestGetCommand_JSONFormat(t *testing.T) {
	server, _ := echoServer(t)

	out, err := execute(t, "get", server.URL+"/missing", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		StatusCode int    `json:"statusCode"`
		Status     string `json:"status"`
	}
	decodeJSON(t, out, &resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "404 Not Found", resp.Status)
}

func TestBodyCommands(t *testing.T) {
	server, rec := echoServer(t)

	tests := []struct {
		name        string
		args        []string
		method      string
		rawQuery    string
		contentType string
		body        string
	}{
		{
			name:        "Post JSON",
			args:        []string{"post", server.URL + "/users", "--json", `{"name":"alice","age":30}`},
			method:      http.MethodPost,
			contentType: "application/json",
			body:        `{"name":"alice","age":30}`,
		},
		{
			name:        "Post form",
			args:        []string{"post", server.URL + "/login", "-f", "user=alice", "-f", "remember"},
			method:      http.MethodPost,
			contentType: "application/x-www-form-urlencoded",
			body:        "user=alice&remember",
		},
		{
			name:     "Post in query string",
			args:     []string{"post", server.URL + "/search", "-f", "q=go", "--query-string"},
			method:   http.MethodPost,
			rawQuery: "q=go",
		},
		{
			name:        "Put JSON",
			args:        []string{"put", server.URL + "/users/7", "--json", `{"name":"bob"}`},
			method:      http.MethodPut,
			contentType: "application/json",
			body:        `{"name":"bob"}`,
		},
		{
			name:        "Patch form",
			args:        []string{"patch", server.URL + "/users/7", "-f", "name=carol"},
			method:      http.MethodPatch,
			contentType: "application/x-www-form-urlencoded",
			body:        "name=carol",
		},
		{
			name:   "Delete",
			args:   []string{"delete", server.URL + "/users/7"},
			method: http.MethodDelete,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, append(tt.args, "--no-color")...)
			require.NoError(t, err)

			got := rec.last(t)
			assert.Equal(t, tt.method, got.Method)
			assert.Equal(t, tt.rawQuery, got.RawQuery)
			assert.Equal(t, tt.contentType, got.ContentType)
			if strings.HasPrefix(tt.body, "{") {
				assert.JSONEq(t, tt.body, got.Body)
			} else {
				assert.Equal(t, tt.body, got.Body)
			}
		})
	}
}

func TestBodyCommands_Errors(t *testing.T) {
	server, rec := echoServer(t)

	_, err := execute(t, "post", server.URL, "--json", `[1,2]`)
	assert.Error(t, err)

	_, err = execute(t, "post", server.URL, "--json", `{"a":1}`, "-f", "a=1")
	assert.Error(t, err)

	_, err = execute(t, "put", server.URL, "--query-string")
	assert.Error(t, err)

	assert.Empty(t, rec.all())
}

func TestGlobalFlagErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "Bad header", args: []string{"get", "example.com", "-H", "nocolon"}},
		{name: "Bad format", args: []string{"get", "example.com", "--format", "xml"}},
		{name: "Bad log level", args: []string{"get", "example.com", "--log-level", "loud"}},
		{name: "Bad transport", args: []string{"get", "example.com", "--transport", "carrier-pigeon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestRestyTransport(t *testing.T) {
	server, rec := echoServer(t)

	out, err := execute(t, "get", server.URL+"/items", "--transport", "resty", "--format", "json")
	require.NoError(t, err)
	assert.Equal(t, "/items", rec.last(t).Path)

	var resp struct {
		StatusCode int `json:"statusCode"`
	}
	decodeJSON(t, out, &resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestEnvOverlay(t *testing.T) {
	server, _ := echoServer(t)
	t.Setenv("COURIER_FORMAT", "json")

	out, err := execute(t, "get", server.URL)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "{"), out)

	// An explicit flag beats the environment
	out, err = execute(t, "get", server.URL, "--format", "text", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "◀ RESPONSE: 200 OK")

	t.Setenv("COURIER_TIMEOUT", "soon")
	_, err = execute(t, "get", server.URL)
	assert.Error(t, err)
}

func TestQueryCommand(t *testing.T) {
	var body []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"viewer":{"login":"octo"}}}`))
	}))
	t.Cleanup(server.Close)

	out, err := execute(t, "query", server.URL+"/graphql", "{ viewer { login } }", "--object", "viewer",
		"--var-json", `{"first":2}`, "--var", "after=x")
	require.NoError(t, err)
	assert.Contains(t, out, `"login": "octo"`)
	assert.JSONEq(t, `{"query":"{ viewer { login } }","variables":{"first":2,"after":"x"}}`, string(body))
}

func TestQueryCommand_FromFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"errors":[{"message":"Cannot query field"}]}`))
	}))
	t.Cleanup(server.Close)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "viewer.graphql"), []byte("{\n  nope\n}\n"), 0o644))

	// Raw mode shows the response whatever it holds
	out, err := execute(t, "query", server.URL, "--file", filepath.Join(dir, "viewer"), "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, "Cannot query field")

	// Object mode turns GraphQL errors into a failure
	_, err = execute(t, "query", server.URL, "--file", filepath.Join(dir, "viewer.graphql"), "--object", "viewer")
	assert.ErrorContains(t, err, "Cannot query field")

	_, err = execute(t, "query", server.URL)
	assert.Error(t, err)
	_, err = execute(t, "query", server.URL, "{ a }", "--file", "x.graphql")
	assert.Error(t, err)
}

const requestFile = `
profiles:
  default:
    baseUrl: "{{base}}"
    headers:
      X-Test: "{{who}}"
    variables:
      who: tester
endpoints:
  a_login:
    method: POST
    path: /login
    json:
      user: "{{who}}"
    extract:
      token: $.token
    schema: login
  b_profile:
    method: GET
    path: /users/{{token}}
    query:
      full: "true"
  c_strict:
    method: GET
    path: /strict
    schema: strict
schemas:
  login:
    type: object
    required: [token]
  strict:
    type: object
    required: [missing]
`

func writeRequestFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "courier.yaml")
	require.NoError(t, os.WriteFile(path, []byte(requestFile), 0o644))
	return path
}

func TestRunCommand(t *testing.T) {
	server, rec := echoServer(t)
	file := writeRequestFile(t)

	out, err := execute(t, "run", "-c", file, "--var", "base="+server.URL, "-e", "a_login", "-e", "b_profile", "--no-color")
	require.NoError(t, err)

	all := rec.all()
	require.Len(t, all, 2)
	assert.Equal(t, "/login", all[0].Path)
	assert.JSONEq(t, `{"user":"tester"}`, all[0].Body)
	assert.Equal(t, "tester", all[0].TestHeader)
	assert.Equal(t, "/users/abc", all[1].Path)
	assert.Equal(t, "full=true", all[1].RawQuery)

	assert.Contains(t, out, "✓ extract token = abc")
	assert.Contains(t, out, "✓ schema login")
}

func TestRunCommand_FailedCheck(t *testing.T) {
	server, rec := echoServer(t)
	file := writeRequestFile(t)

	out, err := execute(t, "run", "-c", file, "--var", "base="+server.URL, "--format", "json")
	assert.ErrorIs(t, err, ErrChecksFailed)

	// All endpoints run, in name order
	paths := []string{}
	for _, r := range rec.all() {
		paths = append(paths, r.Path)
	}
	assert.Equal(t, []string{"/login", "/users/abc", "/strict"}, paths)

	var schemaFailed bool
	dec := json.NewDecoder(strings.NewReader(out))
	for dec.More() {
		var doc struct {
			Checks []struct {
				Type   string `json:"type"`
				Name   string `json:"name"`
				Passed bool   `json:"passed"`
			} `json:"checks"`
		}
		require.NoError(t, dec.Decode(&doc))
		for _, c := range doc.Checks {
			if c.Type == "schema" && c.Name == "strict" {
				schemaFailed = !c.Passed
			}
		}
	}
	assert.True(t, schemaFailed)
}

func TestRunCommand_Errors(t *testing.T) {
	file := writeRequestFile(t)

	_, err := execute(t, "run", "-c", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = execute(t, "run", "-c", file, "-p", "production")
	assert.ErrorContains(t, err, "production")

	_, err = execute(t, "run", "-c", file, "--var", "base=http://127.0.0.1:1", "-e", "nope")
	assert.ErrorContains(t, err, "nope")
}

func TestBenchCommand(t *testing.T) {
	server, rec := echoServer(t)

	out, err := execute(t, "bench", server.URL+"/health", "-n", "6", "-c", "3", "--format", "json")
	require.NoError(t, err)
	assert.Len(t, rec.all(), 6)

	var snap bench.Snapshot
	decodeJSON(t, out, &snap)
	assert.Equal(t, int64(6), snap.TotalRequests)
	assert.Equal(t, int64(6), snap.SuccessRequests)
	assert.Equal(t, int64(6), snap.Latency.Count)
}

func TestBenchCommand_Post(t *testing.T) {
	server, rec := echoServer(t)

	out, err := execute(t, "bench", server.URL+"/missing", "-n", "2", "-c", "1", "-X", "post", "--json", `{"a":1}`, "--no-color")
	require.NoError(t, err)

	for _, r := range rec.all() {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.JSONEq(t, `{"a":1}`, r.Body)
	}
	assert.Contains(t, out, "Requests:   2 (0 ok, 2 failed)")

	_, err = execute(t, "bench", server.URL, "-n", "0")
	assert.ErrorIs(t, err, bench.ErrInvalidOptions)
}
