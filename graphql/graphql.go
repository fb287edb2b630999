// Package graphql sends GraphQL-over-HTTP requests through a host.Host and
// unpacks the {"data": ..., "errors": [...]} response envelope.
//
// Every query is a POST of {"query": "...", "variables": {...}} to the host's
// base URL, so point the Host at the GraphQL endpoint itself.
package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/wesleyorama2/courier/header"
	"github.com/wesleyorama2/courier/host"
	"github.com/wesleyorama2/courier/jsonvalue"
	"github.com/wesleyorama2/courier/result"
	"github.com/wesleyorama2/courier/status"
)

var (
	// ErrSyntaxOrValidation means the server rejected the query before
	// running it: the requested object is missing and errors were reported.
	ErrSyntaxOrValidation = errors.New("graphql: syntax or validation error")

	// ErrExecution means the query ran but resolving the object failed.
	ErrExecution = errors.New("graphql: execution error")

	// ErrUnknown means the envelope held neither the object nor an error.
	ErrUnknown = errors.New("graphql: unrecognised response")

	// ErrStatus means the server answered with something other than 200.
	ErrStatus = errors.New("graphql: unexpected HTTP status")
)

// Error carries the first message from a response's "errors" list.
type Error struct {
	// Kind is ErrSyntaxOrValidation or ErrExecution.
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s", e.Kind, e.Message)
}

// Is matches the error's Kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// StatusError is returned for non-200 responses.
type StatusError struct {
	Code status.Code
	Body []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("graphql: expected %q but got %q", status.OK.String(), e.Code.String())
}

// Is matches ErrStatus.
func (e *StatusError) Is(target error) bool {
	return target == ErrStatus
}

// FoldQuery puts a multi-line query on one line. Quotes and backslashes are
// escaped later, when the query is embedded as a JSON string.
func FoldQuery(query string) string {
	query = strings.ReplaceAll(query, "\r\n", " ")
	return strings.ReplaceAll(query, "\n", " ")
}

// Envelope builds the request body. Empty variables are left out.
func Envelope(query string, variables jsonvalue.Object) jsonvalue.Object {
	env := jsonvalue.NewObject(jsonvalue.Member{Key: "query", Value: jsonvalue.String(FoldQuery(query))})
	if variables.Len() > 0 {
		env = env.With("variables", variables.Value())
	}
	return env
}

// Decode extracts data.<objectName> from a response envelope.
//
// The first entry of "errors" decides the failure kind: when data still
// names the object the query ran and failed (ErrExecution), otherwise it
// never ran (ErrSyntaxOrValidation). A response with the object and no
// errors succeeds; anything else is ErrUnknown.
func Decode(resp jsonvalue.Object, objectName string) (jsonvalue.Object, error) {
	var data jsonvalue.Object
	if v, ok := resp.Get("data"); ok {
		data, _ = v.AsObject()
	}
	objValue, hasObject := data.Get(objectName)
	obj, isObject := objValue.AsObject()
	message, hasMessage := firstErrorMessage(resp)

	switch {
	case hasObject && hasMessage:
		return jsonvalue.Object{}, &Error{Kind: ErrExecution, Message: message}
	case !hasObject && hasMessage:
		return jsonvalue.Object{}, &Error{Kind: ErrSyntaxOrValidation, Message: message}
	case hasObject && isObject:
		return obj, nil
	default:
		return jsonvalue.Object{}, fmt.Errorf("%w: no %q object in data", ErrUnknown, objectName)
	}
}

func firstErrorMessage(resp jsonvalue.Object) (string, bool) {
	v, ok := resp.Get("errors")
	if !ok {
		return "", false
	}
	list, ok := v.AsArray()
	if !ok || len(list) == 0 {
		return "", false
	}
	first, ok := list[0].AsObject()
	if !ok {
		return "", false
	}
	msg, ok := first.Get("message")
	if !ok {
		return "", false
	}
	return msg.AsString()
}

// Client issues GraphQL queries against one host.
type Client struct {
	host    *host.Host
	headers header.Headers
}

// NewClient creates a client. headers are sent with every query on top of
// the host's defaults.
func NewClient(h *host.Host, headers header.Headers) *Client {
	return &Client{host: h, headers: headers}
}

// Request builds the POST for query without executing it.
func (c *Client) Request(query string, variables jsonvalue.Object) *host.Request {
	return c.host.PostJSON("", Envelope(query, variables), c.headers)
}

// OnData runs query and delivers the raw response, whatever its status.
func (c *Client) OnData(ctx context.Context, query string, variables jsonvalue.Object, fn func(result.Result[host.Data])) {
	c.Request(query, variables).OnData(ctx, fn)
}

// Data runs query and waits for the raw response.
func (c *Client) Data(ctx context.Context, query string, variables jsonvalue.Object) (host.Data, error) {
	return c.Request(query, variables).Data(ctx)
}

// OnObject runs query and delivers data.<objectName>. Non-200 responses fail
// with a *StatusError before the body is looked at.
func (c *Client) OnObject(ctx context.Context, query string, variables jsonvalue.Object, objectName string, fn func(result.Result[jsonvalue.Object])) {
	c.OnData(ctx, query, variables, result.FlatRoute(fn, func(d host.Data) result.Result[jsonvalue.Object] {
		if d.Status != status.OK {
			return result.Failure[jsonvalue.Object](&StatusError{Code: d.Status, Body: d.Body})
		}
		resp := jsonvalue.NewObject()
		if len(d.Body) > 0 {
			parsed, err := jsonvalue.ParseObject(d.Body)
			if err != nil {
				return result.Failure[jsonvalue.Object](err)
			}
			resp = parsed
		}
		obj, err := Decode(resp, objectName)
		return result.Of(obj, err)
	}))
}

// Object runs query and waits for data.<objectName>.
func (c *Client) Object(ctx context.Context, query string, variables jsonvalue.Object, objectName string) (jsonvalue.Object, error) {
	return result.Await(ctx, func(ctx context.Context, fn func(result.Result[jsonvalue.Object])) {
		c.OnObject(ctx, query, variables, objectName, fn)
	})
}

// Into runs query and decodes data.<objectName> into v with encoding/json.
func (c *Client) Into(ctx context.Context, query string, variables jsonvalue.Object, objectName string, v any) error {
	obj, err := c.Object(ctx, query, variables, objectName)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(jsonvalue.Marshal(obj.Value()), v); err != nil {
		return fmt.Errorf("graphql: decode %q: %w", objectName, err)
	}
	return nil
}
