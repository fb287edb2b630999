package graphql

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/courier/header"
	"github.com/wesleyorama2/courier/host"
	"github.com/wesleyorama2/courier/jsonvalue"
	"github.com/wesleyorama2/courier/status"
	"github.com/wesleyorama2/courier/transport/transporttest"
)

func TestFoldQuery(t *testing.T) {
	assert.Equal(t, "query { user { id } }", FoldQuery("query {\n user {\r\n id } }"))
	assert.Equal(t, "plain", FoldQuery("plain"))
}

func TestEnvelope(t *testing.T) {
	env := Envelope("query {\n me(name: \"x\") }", jsonvalue.Object{})
	assert.Equal(t, []string{"query"}, env.Keys())
	assert.Equal(t, `{"query":"query {  me(name: \"x\") }"}`, string(jsonvalue.Marshal(env.Value())))

	vars := jsonvalue.NewObject(jsonvalue.Member{Key: "id", Value: jsonvalue.Int(7)})
	env = Envelope("query($id: Int) { u(id: $id) }", vars)
	assert.Equal(t, []string{"query", "variables"}, env.Keys())
	assert.Equal(t,
		`{"query":"query($id: Int) { u(id: $id) }","variables":{"id":7}}`,
		string(jsonvalue.Marshal(env.Value())))
}

func mustObject(t *testing.T, raw string) jsonvalue.Object {
	t.Helper()
	obj, err := jsonvalue.ParseObject([]byte(raw))
	require.NoError(t, err)
	return obj
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected error
		message  string
		keys     []string
	}{
		{name: "Object", body: `{"data":{"user":{"id":1,"name":"a"}}}`, keys: []string{"id", "name"}},
		{name: "Execution error", body: `{"data":{"user":null},"errors":[{"message":"resolver failed"}]}`, expected: ErrExecution, message: "resolver failed"},
		{name: "Syntax error", body: `{"errors":[{"message":"bad syntax"},{"message":"ignored"}]}`, expected: ErrSyntaxOrValidation, message: "bad syntax"},
		{name: "Validation error with empty data", body: `{"data":{},"errors":[{"message":"no field"}]}`, expected: ErrSyntaxOrValidation, message: "no field"},
		{name: "Missing object", body: `{"data":{"other":{}}}`, expected: ErrUnknown},
		{name: "Object not an object", body: `{"data":{"user":[1]}}`, expected: ErrUnknown},
		{name: "Errors without message", body: `{"errors":[{"code":1}]}`, expected: ErrUnknown},
		{name: "Empty envelope", body: `{}`, expected: ErrUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := Decode(mustObject(t, tt.body), "user")
			if tt.expected == nil {
				require.NoError(t, err)
				assert.Equal(t, tt.keys, obj.Keys())
				return
			}
			assert.ErrorIs(t, err, tt.expected)
			if tt.message != "" {
				var gqlErr *Error
				require.ErrorAs(t, err, &gqlErr)
				assert.Equal(t, tt.message, gqlErr.Message)
			}
		})
	}
}

func TestError_IsOnlyItsKind(t *testing.T) {
	err := &Error{Kind: ErrExecution, Message: "x"}
	assert.ErrorIs(t, err, ErrExecution)
	assert.NotErrorIs(t, err, ErrSyntaxOrValidation)
	assert.Equal(t, "graphql: execution error: x", err.Error())
}

type seen struct {
	method      string
	path        string
	contentType string
	auth        string
	body        []byte
}

func graphServer(t *testing.T, code int, reply string) (*httptest.Server, *seen) {
	t.Helper()
	got := &seen{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.method = r.Method
		got.path = r.URL.Path
		got.contentType = r.Header.Get("Content-Type")
		got.auth = r.Header.Get("Authorization")
		got.body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		w.Write([]byte(reply))
	}))
	t.Cleanup(server.Close)
	return server, got
}

func newClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	h, err := host.New(host.Config{BaseURL: baseURL})
	require.NoError(t, err)
	return NewClient(h, header.New("Authorization", "Bearer t0k"))
}

func TestClient_Object(t *testing.T) {
	server, got := graphServer(t, http.StatusOK, `{"data":{"viewer":{"login":"octo"}}}`)
	client := newClient(t, server.URL+"/api/graphql")

	vars := jsonvalue.NewObject(jsonvalue.Member{Key: "first", Value: jsonvalue.Int(2)})
	obj, err := client.Object(context.Background(), "query {\n viewer { login } }", vars, "viewer")
	require.NoError(t, err)

	login, ok := obj.Get("login")
	require.True(t, ok)
	assert.Equal(t, "octo", login.Text())

	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/api/graphql", got.path)
	assert.Equal(t, "application/json", got.contentType)
	assert.Equal(t, "Bearer t0k", got.auth)
	assert.JSONEq(t, `{"query":"query {  viewer { login } }","variables":{"first":2}}`, string(got.body))
}

func TestClient_StatusError(t *testing.T) {
	server, _ := graphServer(t, http.StatusBadGateway, `upstream down`)
	client := newClient(t, server.URL)

	_, err := client.Object(context.Background(), "{ viewer { login } }", jsonvalue.Object{}, "viewer")
	assert.ErrorIs(t, err, ErrStatus)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, status.BadGateway, statusErr.Code)
	assert.Equal(t, "upstream down", string(statusErr.Body))
}

func TestClient_GraphErrors(t *testing.T) {
	server, _ := graphServer(t, http.StatusOK, `{"errors":[{"message":"Cannot query field"}]}`)
	client := newClient(t, server.URL)

	_, err := client.Object(context.Background(), "{ nope }", jsonvalue.Object{}, "viewer")
	assert.ErrorIs(t, err, ErrSyntaxOrValidation)
	assert.Contains(t, err.Error(), "Cannot query field")
}

func TestClient_MalformedBody(t *testing.T) {
	server, _ := graphServer(t, http.StatusOK, `{"data":`)
	client := newClient(t, server.URL)

	_, err := client.Object(context.Background(), "{ viewer { login } }", jsonvalue.Object{}, "viewer")
	assert.ErrorIs(t, err, jsonvalue.ErrParse)
}

func TestClient_Data(t *testing.T) {
	server, _ := graphServer(t, http.StatusInternalServerError, `{"errors":[]}`)
	client := newClient(t, server.URL)

	d, err := client.Data(context.Background(), "{ viewer { login } }", jsonvalue.Object{})
	require.NoError(t, err)
	assert.Equal(t, status.InternalServerError, d.Status)
	assert.Equal(t, `{"errors":[]}`, string(d.Body))
}

func TestClient_Into(t *testing.T) {
	server, _ := graphServer(t, http.StatusOK, `{"data":{"viewer":{"login":"octo","id":42}}}`)
	client := newClient(t, server.URL)

	var viewer struct {
		Login string `json:"login"`
		ID    int    `json:"id"`
	}
	err := client.Into(context.Background(), "{ viewer { login id } }", jsonvalue.Object{}, "viewer", &viewer)
	require.NoError(t, err)
	assert.Equal(t, "octo", viewer.Login)
	assert.Equal(t, 42, viewer.ID)
}

func TestLoadQuery(t *testing.T) {
	fsys := fstest.MapFS{
		"viewer.graphql":    {Data: []byte("\nquery { viewer { login } }\n\n")},
		"queries/repos.gql": {Data: []byte("query { repos }")},
	}

	q, err := LoadQuery(fsys, "viewer")
	require.NoError(t, err)
	assert.Equal(t, "query { viewer { login } }", q)

	q, err = LoadQuery(fsys, "queries/repos.gql")
	require.NoError(t, err)
	assert.Equal(t, "query { repos }", q)

	_, err = LoadQuery(fsys, "missing")
	assert.ErrorIs(t, err, ErrQueryNotFound)
	assert.Contains(t, err.Error(), "missing.graphql")
}

func TestClient_ObjectCancelled(t *testing.T) {
	tr := transporttest.New().Always(transporttest.JSON(`{"data":{"viewer":{"login":"octo"}}}`).After(time.Second))
	h, err := host.New(host.Config{BaseURL: "https://api.example/graphql", Transport: tr})
	require.NoError(t, err)
	client := NewClient(h, header.Headers{})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = client.Object(ctx, "{ viewer { login } }", jsonvalue.Object{}, "viewer")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}
