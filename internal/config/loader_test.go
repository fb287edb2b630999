package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/courier/header"
	"github.com/wesleyorama2/courier/method"
	"github.com/wesleyorama2/courier/params"
)

const yamlFile = `
profiles:
  dev:
    baseUrl: "http://{{host}}/api"
    timeout: 5s
    headers:
      Accept: application/json
      Authorization: "Bearer {{token}}"
    variables:
      host: localhost:8080
      token: dev-token
endpoints:
  listUsers:
    method: get
    path: /users
    query:
      page: "{{page}}"
      limit: "10"
  createUser:
    method: POST
    path: /users
    json:
      name: "{{name}}"
      tags: [a, "{{tag}}"]
      age: 30
    extract:
      userId: $.id
    schema: user
  login:
    method: POST
    path: /login
    form:
      user: ada
  search:
    method: POST
    path: /search
    paramsInQuery: true
    query:
      q: "{{term}}"
schemas:
  user:
    type: object
    required: [id]
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_YAML(t *testing.T) {
	f, err := Load(writeFile(t, "api.yaml", yamlFile))
	require.NoError(t, err)

	assert.Equal(t, []string{"createUser", "listUsers", "login", "search"}, f.EndpointNames())

	p, err := f.Profile("dev")
	require.NoError(t, err)
	assert.Equal(t, "5s", p.Timeout)
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "api.json", `{
		"profiles": {"prod": {"baseUrl": "https://api.example.com"}},
		"endpoints": {"create": {"method": "PUT", "path": "/items/1", "json": {"price": 12.50, "big": 12345678901234567890}}}
	}`)
	f, err := Load(path)
	require.NoError(t, err)

	e, err := f.Endpoint("create")
	require.NoError(t, err)
	ep, err := e.Build(nil)
	require.NoError(t, err)
	assert.Equal(t, method.Put, ep.Method)
	assert.JSONEq(t, `{"big":12345678901234567890,"price":12.50}`, string(ep.Params.Body()))
	assert.Contains(t, string(ep.Params.Body()), "12345678901234567890")
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = Load(writeFile(t, "bad.yaml", "profiles: [unclosed"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "empty.yaml", "{}"))
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "profiles: at least one profile is required")
}

func TestParse_UnsupportedFormat(t *testing.T) {
	_, err := Parse([]byte("x"), "toml")
	assert.Error(t, err)
}

func TestFile_Lookups(t *testing.T) {
	f, err := Parse([]byte(yamlFile), "yaml")
	require.NoError(t, err)

	_, err = f.Profile("prod")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.Endpoint("nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.Schema("nope")
	assert.ErrorIs(t, err, ErrNotFound)

	schema, err := f.Schema("user")
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"object","required":["id"]}`, string(schema))
}

func TestProfile_HostConfig(t *testing.T) {
	f, err := Parse([]byte(yamlFile), "yaml")
	require.NoError(t, err)
	p, _ := f.Profile("dev")

	cfg, err := p.HostConfig(p.Variables)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api", cfg.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)

	auth, ok := cfg.Headers.Get(header.FieldAuthorization)
	require.True(t, ok)
	assert.Equal(t, "Bearer dev-token", auth)

	_, err = Profile{BaseURL: "http://x", Timeout: "soon"}.HostConfig(nil)
	assert.Error(t, err)
}

func TestEndpoint_Build(t *testing.T) {
	f, err := Parse([]byte(yamlFile), "yaml")
	require.NoError(t, err)
	vars := map[string]string{"page": "2", "name": "Ada", "tag": "b", "term": "go lang"}

	t.Run("Query", func(t *testing.T) {
		e, _ := f.Endpoint("listUsers")
		ep, err := e.Build(vars)
		require.NoError(t, err)
		assert.Equal(t, method.Get, ep.Method)
		assert.Equal(t, []params.QueryItem{params.Item("limit", "10"), params.Item("page", "2")}, ep.Params.Query())
	})

	t.Run("JSON", func(t *testing.T) {
		e, _ := f.Endpoint("createUser")
		ep, err := e.Build(vars)
		require.NoError(t, err)
		assert.Equal(t, method.Post, ep.Method)
		assert.Equal(t, params.ContentTypeJSON, ep.Params.ContentType())
		assert.JSONEq(t, `{"age":30,"name":"Ada","tags":["a","b"]}`, string(ep.Params.Body()))
	})

	t.Run("Form", func(t *testing.T) {
		e, _ := f.Endpoint("login")
		ep, err := e.Build(vars)
		require.NoError(t, err)
		assert.Equal(t, "user=ada", string(ep.Params.Body()))
	})

	t.Run("ParamsInQuery", func(t *testing.T) {
		e, _ := f.Endpoint("search")
		ep, err := e.Build(vars)
		require.NoError(t, err)
		assert.Equal(t, method.PostQuery, ep.Method)
		assert.Equal(t, []params.QueryItem{params.Item("q", "go lang")}, ep.Params.Query())
	})
}

func TestSubstitute(t *testing.T) {
	vars := map[string]string{"a": "1", "b.c": "2"}
	assert.Equal(t, "1-2", Substitute("{{a}}-{{ b.c }}", vars))
	assert.Equal(t, "{{missing}}", Substitute("{{missing}}", vars))
	assert.Equal(t, "plain", Substitute("plain", nil))
	assert.Equal(t, []string{"a", "b"}, Placeholders("{{a}}/{{b}}"))
	assert.Nil(t, SubstituteMap(nil, vars))
}

func TestMergeVariables(t *testing.T) {
	got := MergeVariables(map[string]string{"a": "1", "b": "1"}, nil, map[string]string{"b": "2"})
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, got)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("COURIER_TIMEOUT", "3s")
	t.Setenv("COURIER_NO_COLOR", "true")
	t.Setenv("COURIER_LOG_LEVEL", "debug")
	t.Setenv("COURIER_PROFILE", "staging")

	env, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, env.Timeout)
	assert.True(t, env.NoColor)
	assert.Equal(t, "debug", env.LogLevel)
	assert.Equal(t, "staging", env.Profile)

	t.Setenv("COURIER_TIMEOUT", "later")
	_, err = LoadEnv()
	assert.Error(t, err)
}
