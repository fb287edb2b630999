package host

import (
	"errors"
	"fmt"

	"github.com/wesleyorama2/courier/jsonvalue"
	"github.com/wesleyorama2/courier/result"
	"github.com/wesleyorama2/courier/status"
	"github.com/wesleyorama2/courier/transport"
)

var (
	// ErrMalformedResponse means the transport delivered a body with response
	// metadata that carries no recognisable HTTP status.
	ErrMalformedResponse = errors.New("the response was not in the expected format")

	// ErrUnexpectedTransportState means the transport broke its contract: it
	// completed with neither an error nor both a body and metadata.
	ErrUnexpectedTransportState = errors.New("transport completed in an impossible state")

	// ErrRequestSpent is returned when a Request is executed a second time.
	ErrRequestSpent = errors.New("request has already been executed")
)

// State is the classification of one exchange.
type State int

const (
	StateFailure State = iota
	StateEmpty
	StateBody
)

func (s State) String() string {
	switch s {
	case StateFailure:
		return "failure"
	case StateEmpty:
		return "empty"
	case StateBody:
		return "body"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Resolved is the classified outcome of one exchange: a failure, an empty
// success, or a success with a body.
type Resolved struct {
	state       State
	err         error
	status      status.Code
	contentType string
	body        []byte
}

// Failed builds a failure outcome.
func Failed(err error) Resolved {
	return Resolved{state: StateFailure, err: err}
}

// Resolve classifies the transport triad.
//
//   - err set: Failure(err), whatever else came with it.
//   - body and meta set: Failure(ErrMalformedResponse) when meta has no
//     status, Failure wrapping status.ErrUnknownCode when the status is not a
//     registered code, Empty(status) for a zero-length body, otherwise
//     Body(body, status, Content-Type).
//   - anything else: Failure(ErrUnexpectedTransportState).
func Resolve(body []byte, meta *transport.Metadata, err error) Resolved {
	switch {
	case err != nil:
		return Failed(err)

	case body != nil && meta != nil:
		if meta.StatusCode <= 0 {
			return Failed(ErrMalformedResponse)
		}
		code, err := status.Parse(meta.StatusCode)
		if err != nil {
			return Failed(err)
		}
		if len(body) == 0 {
			return Resolved{state: StateEmpty, status: code}
		}
		return Resolved{state: StateBody, status: code, contentType: meta.ContentType(), body: body}

	default:
		return Failed(fmt.Errorf("%w: body present=%t, metadata present=%t",
			ErrUnexpectedTransportState, body != nil, meta != nil))
	}
}

// State reports the classification.
func (r Resolved) State() State {
	return r.state
}

// Err returns the failure, or nil.
func (r Resolved) Err() error {
	return r.err
}

// Status returns the HTTP status of a successful exchange.
func (r Resolved) Status() status.Code {
	return r.status
}

// Data is a response decoded as raw bytes.
type Data struct {
	Status      status.Code
	ContentType string
	Body        []byte
}

// JSONObject is a response decoded as a JSON object.
type JSONObject struct {
	Status status.Code
	Object jsonvalue.Object
}

// JSONArray is a response decoded as a JSON array.
type JSONArray struct {
	Status status.Code
	Array  []jsonvalue.Value
}

// Text is a response decoded as a string.
type Text struct {
	Status status.Code
	Text   string
}

// AsData returns status, content type and body. An empty response yields an
// empty, non-nil body.
func (r Resolved) AsData() result.Result[Data] {
	switch r.state {
	case StateEmpty:
		return result.Success(Data{Status: r.status, Body: []byte{}})
	case StateBody:
		return result.Success(Data{Status: r.status, ContentType: r.contentType, Body: r.body})
	default:
		return result.Failure[Data](r.err)
	}
}

// AsJSONObject parses the body as an object. An empty response decodes to
// {} without parsing. A body holding some other JSON value fails with
// jsonvalue.ErrNotObject, which is distinct from jsonvalue.ErrParse.
func (r Resolved) AsJSONObject() result.Result[JSONObject] {
	return result.FlatMap(r.AsData(), func(d Data) result.Result[JSONObject] {
		if len(d.Body) == 0 {
			return result.Success(JSONObject{Status: d.Status, Object: jsonvalue.NewObject()})
		}
		obj, err := jsonvalue.ParseObject(d.Body)
		if err != nil {
			return result.Failure[JSONObject](err)
		}
		return result.Success(JSONObject{Status: d.Status, Object: obj})
	})
}

// AsJSONArray parses the body as an array. An empty response decodes to []
// without parsing.
func (r Resolved) AsJSONArray() result.Result[JSONArray] {
	return result.FlatMap(r.AsData(), func(d Data) result.Result[JSONArray] {
		if len(d.Body) == 0 {
			return result.Success(JSONArray{Status: d.Status, Array: []jsonvalue.Value{}})
		}
		arr, err := jsonvalue.ParseArray(d.Body)
		if err != nil {
			return result.Failure[JSONArray](err)
		}
		return result.Success(JSONArray{Status: d.Status, Array: arr})
	})
}

// AsText returns the body as a string.
func (r Resolved) AsText() result.Result[Text] {
	return result.Map(r.AsData(), func(d Data) Text {
		return Text{Status: d.Status, Text: string(d.Body)}
	})
}
