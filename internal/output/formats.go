package output

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/courier/endpoint"
	"github.com/wesleyorama2/courier/host"
	"github.com/wesleyorama2/courier/internal/bench"
	"github.com/wesleyorama2/courier/jsonvalue"
	"github.com/wesleyorama2/courier/status"
	"github.com/wesleyorama2/courier/transport"
)

// OutputFormat represents the available output formats
type OutputFormat string

const (
	// FormatText is the default human-readable text format
	FormatText OutputFormat = "text"
	// FormatJSON outputs in JSON format
	FormatJSON OutputFormat = "json"
	// FormatYAML outputs in YAML format
	FormatYAML OutputFormat = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
	}
}

// FormatProvider is an interface for different output formatters
type FormatProvider interface {
	FormatRequest(d endpoint.Descriptor) string
	FormatResponse(resp Response) string
	FormatChecks(checks []Check) string
	FormatBench(snap bench.Snapshot) string
}

// Response is a resolved response together with what the transport saw.
type Response struct {
	Status      status.Code
	ContentType string
	Proto       string
	Header      http.Header
	Body        []byte
	Timing      transport.Timing
}

// NewResponse combines decoded data with transport metadata. meta may be
// nil.
func NewResponse(d host.Data, meta *transport.Metadata) Response {
	resp := Response{Status: d.Status, ContentType: d.ContentType, Body: d.Body}
	if meta != nil {
		resp.Header = meta.Header
		resp.Proto = meta.Proto
		resp.Timing = meta.Timing
	}
	return resp
}

// Check is the outcome of one post-response check, such as a schema
// validation or a value extraction.
type Check struct {
	Type    string `json:"type" yaml:"type"`
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Value   any    `json:"value,omitempty" yaml:"value,omitempty"`
	Passed  bool   `json:"passed" yaml:"passed"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// RequestData represents the structured data of an HTTP request
type RequestData struct {
	Method    string            `json:"method" yaml:"method"`
	URL       string            `json:"url" yaml:"url"`
	Headers   map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body      any               `json:"body,omitempty" yaml:"body,omitempty"`
	Timestamp string            `json:"timestamp" yaml:"timestamp"`
}

// TimingData represents detailed timing information for an HTTP request
type TimingData struct {
	DNSLookup       int64 `json:"dnsLookupMs,omitempty" yaml:"dnsLookupMs,omitempty"`
	TCPConnection   int64 `json:"tcpConnectionMs,omitempty" yaml:"tcpConnectionMs,omitempty"`
	TLSHandshake    int64 `json:"tlsHandshakeMs,omitempty" yaml:"tlsHandshakeMs,omitempty"`
	TimeToFirstByte int64 `json:"timeToFirstByteMs,omitempty" yaml:"timeToFirstByteMs,omitempty"`
	ContentTransfer int64 `json:"contentTransferMs,omitempty" yaml:"contentTransferMs,omitempty"`
	Total           int64 `json:"totalMs" yaml:"totalMs"`
}

// ResponseData represents the structured data of an HTTP response
type ResponseData struct {
	StatusCode  int               `json:"statusCode" yaml:"statusCode"`
	Status      string            `json:"status" yaml:"status"`
	ContentType string            `json:"contentType,omitempty" yaml:"contentType,omitempty"`
	Headers     map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body        any               `json:"body,omitempty" yaml:"body,omitempty"`
	Timing      TimingData        `json:"timing" yaml:"timing"`
	Timestamp   string            `json:"timestamp" yaml:"timestamp"`
}

func requestData(d endpoint.Descriptor, structured func([]byte) any) RequestData {
	data := RequestData{
		Method:    d.Method.String(),
		Headers:   d.Headers.Map(),
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if d.URL != nil {
		data.URL = d.URL.String()
	}
	if len(d.Body) > 0 {
		data.Body = structured(d.Body)
	}
	return data
}

func responseData(resp Response, structured func([]byte) any) ResponseData {
	headers := make(map[string]string, len(resp.Header))
	for key, values := range resp.Header {
		if len(values) > 0 {
			headers[key] = values[0]
		}
	}

	data := ResponseData{
		StatusCode:  resp.Status.Int(),
		Status:      resp.Status.String(),
		ContentType: resp.ContentType,
		Headers:     headers,
		Timing:      timingData(resp.Timing),
		Timestamp:   time.Now().Format(time.RFC3339),
	}
	if len(resp.Body) > 0 {
		data.Body = structured(resp.Body)
	}
	return data
}

func timingData(t transport.Timing) TimingData {
	return TimingData{
		DNSLookup:       t.DNSLookupTime.Milliseconds(),
		TCPConnection:   t.TCPConnectTime.Milliseconds(),
		TLSHandshake:    t.TLSHandshakeTime.Milliseconds(),
		TimeToFirstByte: t.TimeToFirstByte.Milliseconds(),
		ContentTransfer: t.ContentTransferTime.Milliseconds(),
		Total:           t.TotalTime.Milliseconds(),
	}
}

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Pretty bool
}

// jsonBody embeds a JSON body as-is and anything else as a string.
func jsonBody(body []byte) any {
	if gjson.ValidBytes(body) {
		return json.RawMessage(body)
	}
	return string(body)
}

func (f *JSONFormatter) marshal(v any) string {
	var out []byte
	var err error
	if f.Pretty {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Sprintf(`{"error":%q}`, "failed to marshal output: "+err.Error())
	}
	return string(out) + "\n"
}

// FormatRequest formats a request as JSON
func (f *JSONFormatter) FormatRequest(d endpoint.Descriptor) string {
	return f.marshal(requestData(d, jsonBody))
}

// FormatResponse formats a response as JSON
func (f *JSONFormatter) FormatResponse(resp Response) string {
	return f.marshal(responseData(resp, jsonBody))
}

// FormatChecks formats check results as JSON
func (f *JSONFormatter) FormatChecks(checks []Check) string {
	return f.marshal(map[string]any{"checks": checks})
}

// FormatBench formats a benchmark summary as JSON
func (f *JSONFormatter) FormatBench(snap bench.Snapshot) string {
	return f.marshal(snap)
}

// YAMLFormatter formats output as YAML
type YAMLFormatter struct{}

// yamlBody renders a JSON body as a YAML node, keeping object key order.
// Anything that is not JSON stays a string.
func yamlBody(body []byte) any {
	v, err := jsonvalue.Parse(body)
	if err != nil {
		return string(body)
	}
	return yamlNode(v)
}

func yamlNode(v jsonvalue.Value) *yaml.Node {
	switch v.Kind() {
	case jsonvalue.KindObject:
		obj, _ := v.AsObject()
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, m := range obj.Members() {
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: m.Key},
				yamlNode(m.Value))
		}
		return node
	case jsonvalue.KindArray:
		items, _ := v.AsArray()
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range items {
			node.Content = append(node.Content, yamlNode(item))
		}
		return node
	case jsonvalue.KindString:
		s, _ := v.AsString()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	case jsonvalue.KindNumber:
		lit, _ := v.NumberLiteral()
		tag := "!!int"
		if strings.ContainsAny(lit, ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: lit}
	case jsonvalue.KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: v.Text()}
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

func (f *YAMLFormatter) marshal(v any) string {
	out, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: failed to marshal output: %v\n", err)
	}
	return string(out)
}

// FormatRequest formats a request as YAML
func (f *YAMLFormatter) FormatRequest(d endpoint.Descriptor) string {
	return f.marshal(map[string]any{"request": requestData(d, yamlBody)})
}

// FormatResponse formats a response as YAML
func (f *YAMLFormatter) FormatResponse(resp Response) string {
	return f.marshal(map[string]any{"response": responseData(resp, yamlBody)})
}

// FormatChecks formats check results as YAML
func (f *YAMLFormatter) FormatChecks(checks []Check) string {
	return f.marshal(map[string]any{"checks": checks})
}

// FormatBench formats a benchmark summary as YAML
func (f *YAMLFormatter) FormatBench(snap bench.Snapshot) string {
	return f.marshal(map[string]any{"bench": snap})
}

// GetFormatter returns the appropriate formatter for the given format
func GetFormatter(format OutputFormat, verbose bool, noColor bool) FormatProvider {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Pretty: true}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return NewFormatter(verbose, noColor)
	}
}

func sortedKeys(h http.Header) []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
