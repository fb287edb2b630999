package output

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/courier/endpoint"
	"github.com/wesleyorama2/courier/header"
	"github.com/wesleyorama2/courier/host"
	"github.com/wesleyorama2/courier/internal/bench"
	"github.com/wesleyorama2/courier/jsonvalue"
	"github.com/wesleyorama2/courier/method"
	"github.com/wesleyorama2/courier/params"
	"github.com/wesleyorama2/courier/status"
	"github.com/wesleyorama2/courier/transport"
)

func descriptor(t *testing.T) endpoint.Descriptor {
	t.Helper()
	obj := jsonvalue.NewObject(
		jsonvalue.Member{Key: "name", Value: jsonvalue.String("John Doe")},
		jsonvalue.Member{Key: "age", Value: jsonvalue.Int(30)},
	)
	d, err := endpoint.New(method.Post, "/users").
		WithParams(params.JSON(obj)).
		WithHeader("Authorization", "Bearer token123").
		Build(endpoint.MustParse("https://api.example.com"), header.New("Accept", "application/json"))
	require.NoError(t, err)
	return d
}

func response() Response {
	meta := &transport.Metadata{
		StatusCode: 201,
		Header:     http.Header{"Content-Type": {"application/json"}, "X-Request-Id": {"abc"}},
		Proto:      "HTTP/1.1",
		Timing: transport.Timing{
			DNSLookupTime:   2 * time.Millisecond,
			TimeToFirstByte: 40 * time.Millisecond,
			TotalTime:       45 * time.Millisecond,
		},
	}
	data := host.Data{Status: status.Created, ContentType: "application/json", Body: []byte(`{"id":7,"tags":["a","b"]}`)}
	return NewResponse(data, meta)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]OutputFormat{"": FormatText, "text": FormatText, "JSON": FormatJSON, "yaml": FormatYAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("junit")
	assert.Error(t, err)
}

func TestFormatter_FormatRequest(t *testing.T) {
	out := NewFormatter(false, true).FormatRequest(descriptor(t))

	expectedParts := []string{
		"REQUEST: POST https://api.example.com/users",
		"Headers:",
		"Accept: application/json",
		"Authorization: Bearer token123",
		"Content-Type: application/json",
		`"name": "John Doe"`,
	}
	for _, part := range expectedParts {
		assert.Contains(t, out, part)
	}
	assert.NotContains(t, out, "\x1b[")
}

func TestFormatter_FormatResponse(t *testing.T) {
	out := NewFormatter(false, true).FormatResponse(response())
	assert.Contains(t, out, "RESPONSE: 201 Created (45ms)")
	assert.Contains(t, out, `"id": 7`)
	assert.NotContains(t, out, "Timing:")
	assert.NotContains(t, out, "X-Request-Id")

	verbose := NewFormatter(true, true).FormatResponse(response())
	assert.Contains(t, verbose, "Timing:")
	assert.Contains(t, verbose, "DNS Lookup:         2ms")
	assert.Contains(t, verbose, "Time to First Byte: 40ms")
	assert.Contains(t, verbose, "X-Request-Id: abc")
}

func TestFormatter_PlainBodyVerbatim(t *testing.T) {
	resp := NewResponse(host.Data{Status: status.OK, Body: []byte("plain {text")}, nil)
	out := NewFormatter(false, false).FormatResponse(resp)
	assert.Contains(t, out, "plain {text")
}

func TestFormatter_FormatChecks(t *testing.T) {
	out := NewFormatter(false, true).FormatChecks([]Check{
		{Type: "extract", Name: "token", Value: "abc", Passed: true},
		{Type: "schema", Passed: false, Message: "missing property id"},
	})
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "✓ extract token = abc", lines[0])
	assert.Equal(t, "✗ schema: missing property id", lines[1])
}

func TestFormatter_FormatBench(t *testing.T) {
	rec := bench.NewRecorder()
	rec.Record(5*time.Millisecond, true, 10, 200)
	rec.Record(9*time.Millisecond, false, 0, 500)

	out := NewFormatter(false, true).FormatBench(rec.Snapshot())
	assert.Contains(t, out, "Requests:   2 (1 ok, 1 failed)")
	assert.Contains(t, out, "Error rate: 50.00%")
	assert.Contains(t, out, "200: 1")
	assert.Contains(t, out, "500: 1")
}

func TestJSONFormatter(t *testing.T) {
	f := &JSONFormatter{Pretty: false}

	var req RequestData
	require.NoError(t, json.Unmarshal([]byte(f.FormatRequest(descriptor(t))), &req))
	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "https://api.example.com/users", req.URL)
	assert.Equal(t, "Bearer token123", req.Headers["Authorization"])
	assert.Equal(t, map[string]any{"name": "John Doe", "age": float64(30)}, req.Body)

	var resp ResponseData
	require.NoError(t, json.Unmarshal([]byte(f.FormatResponse(response())), &resp))
	assert.Equal(t, 201, resp.StatusCode)
	assert.Equal(t, "201 Created", resp.Status)
	assert.Equal(t, int64(45), resp.Timing.Total)
	assert.Equal(t, "abc", resp.Headers["X-Request-Id"])
	assert.Equal(t, map[string]any{"id": float64(7), "tags": []any{"a", "b"}}, resp.Body)
}

func TestJSONFormatter_NonJSONBody(t *testing.T) {
	resp := NewResponse(host.Data{Status: status.OK, Body: []byte("hello")}, nil)
	var data ResponseData
	require.NoError(t, json.Unmarshal([]byte((&JSONFormatter{}).FormatResponse(resp)), &data))
	assert.Equal(t, "hello", data.Body)
}

func TestYAMLFormatter_KeepsKeyOrder(t *testing.T) {
	resp := NewResponse(host.Data{Status: status.OK, Body: []byte(`{"zeta":1,"alpha":{"b":true,"a":null},"pi":3.14}`)}, nil)
	out := (&YAMLFormatter{}).FormatResponse(resp)

	assert.Less(t, strings.Index(out, "zeta"), strings.Index(out, "alpha"))
	assert.Less(t, strings.Index(out, "b: true"), strings.Index(out, "a: null"))

	var decoded map[string]map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	body := decoded["response"]["body"].(map[string]any)
	assert.Equal(t, 1, body["zeta"])
	assert.Equal(t, 3.14, body["pi"])
}

func TestGetFormatter(t *testing.T) {
	assert.IsType(t, &Formatter{}, GetFormatter(FormatText, false, true))
	assert.IsType(t, &JSONFormatter{}, GetFormatter(FormatJSON, false, true))
	assert.IsType(t, &YAMLFormatter{}, GetFormatter(FormatYAML, false, true))
}

func TestColorDisabled(t *testing.T) {
	assert.True(t, ColorDisabled(&bytes.Buffer{}, false))
	assert.True(t, ColorDisabled(&bytes.Buffer{}, true))
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}

func TestColorScheme_Status(t *testing.T) {
	s := DefaultColorScheme()
	assert.Same(t, s.StatusOK, s.Status(status.OK))
	assert.Same(t, s.StatusWarn, s.Status(status.Code(301)))
	assert.Same(t, s.StatusError, s.Status(status.Code(404)))
}
