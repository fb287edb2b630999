// Package status models registered HTTP status codes and their classes.
package status

import (
	"errors"
	"fmt"
)

// Code is a registered HTTP status code. Build one with Parse to be sure it
// is registered; the constants below are always valid.
type Code int

// Registered status codes.
const (
	Continue           Code = 100
	SwitchingProtocols Code = 101
	Processing         Code = 102
	EarlyHints         Code = 103

	OK                   Code = 200
	Created              Code = 201
	Accepted             Code = 202
	NonAuthoritativeInfo Code = 203
	NoContent            Code = 204
	ResetContent         Code = 205
	PartialContent       Code = 206
	MultiStatus          Code = 207
	AlreadyReported      Code = 208
	IMUsed               Code = 226

	MultipleChoices   Code = 300
	MovedPermanently  Code = 301
	Found             Code = 302
	SeeOther          Code = 303
	NotModified       Code = 304
	UseProxy          Code = 305
	TemporaryRedirect Code = 307
	PermanentRedirect Code = 308

	BadRequest                   Code = 400
	Unauthorized                 Code = 401
	PaymentRequired              Code = 402
	Forbidden                    Code = 403
	NotFound                     Code = 404
	MethodNotAllowed             Code = 405
	NotAcceptable                Code = 406
	ProxyAuthRequired            Code = 407
	RequestTimeout               Code = 408
	Conflict                     Code = 409
	Gone                         Code = 410
	LengthRequired               Code = 411
	PreconditionFailed           Code = 412
	RequestEntityTooLarge        Code = 413
	RequestURITooLong            Code = 414
	UnsupportedMediaType         Code = 415
	RequestedRangeNotSatisfiable Code = 416
	ExpectationFailed            Code = 417
	Teapot                       Code = 418
	MisdirectedRequest           Code = 421
	UnprocessableEntity          Code = 422
	Locked                       Code = 423
	FailedDependency             Code = 424
	TooEarly                     Code = 425
	UpgradeRequired              Code = 426
	PreconditionRequired         Code = 428
	TooManyRequests              Code = 429
	RequestHeaderFieldsTooLarge  Code = 431
	UnavailableForLegalReasons   Code = 451

	InternalServerError           Code = 500
	NotImplemented                Code = 501
	BadGateway                    Code = 502
	ServiceUnavailable            Code = 503
	GatewayTimeout                Code = 504
	HTTPVersionNotSupported       Code = 505
	VariantAlsoNegotiates         Code = 506
	InsufficientStorage           Code = 507
	LoopDetected                  Code = 508
	NotExtended                   Code = 510
	NetworkAuthenticationRequired Code = 511
)

var reasons = map[Code]string{
	Continue:           "Continue",
	SwitchingProtocols: "Switching Protocols",
	Processing:         "Processing",
	EarlyHints:         "Early Hints",

	OK:                   "OK",
	Created:              "Created",
	Accepted:             "Accepted",
	NonAuthoritativeInfo: "Non-Authoritative Information",
	NoContent:            "No Content",
	ResetContent:         "Reset Content",
	PartialContent:       "Partial Content",
	MultiStatus:          "Multi-Status",
	AlreadyReported:      "Already Reported",
	IMUsed:               "IM Used",

	MultipleChoices:   "Multiple Choices",
	MovedPermanently:  "Moved Permanently",
	Found:             "Found",
	SeeOther:          "See Other",
	NotModified:       "Not Modified",
	UseProxy:          "Use Proxy",
	TemporaryRedirect: "Temporary Redirect",
	PermanentRedirect: "Permanent Redirect",

	BadRequest:                   "Bad Request",
	Unauthorized:                 "Unauthorized",
	PaymentRequired:              "Payment Required",
	Forbidden:                    "Forbidden",
	NotFound:                     "Not Found",
	MethodNotAllowed:             "Method Not Allowed",
	NotAcceptable:                "Not Acceptable",
	ProxyAuthRequired:            "Proxy Authentication Required",
	RequestTimeout:               "Request Timeout",
	Conflict:                     "Conflict",
	Gone:                         "Gone",
	LengthRequired:               "Length Required",
	PreconditionFailed:           "Precondition Failed",
	RequestEntityTooLarge:        "Request Entity Too Large",
	RequestURITooLong:            "Request URI Too Long",
	UnsupportedMediaType:         "Unsupported Media Type",
	RequestedRangeNotSatisfiable: "Requested Range Not Satisfiable",
	ExpectationFailed:            "Expectation Failed",
	Teapot:                       "I'm a teapot",
	MisdirectedRequest:           "Misdirected Request",
	UnprocessableEntity:          "Unprocessable Entity",
	Locked:                       "Locked",
	FailedDependency:             "Failed Dependency",
	TooEarly:                     "Too Early",
	UpgradeRequired:              "Upgrade Required",
	PreconditionRequired:         "Precondition Required",
	TooManyRequests:              "Too Many Requests",
	RequestHeaderFieldsTooLarge:  "Request Header Fields Too Large",
	UnavailableForLegalReasons:   "Unavailable For Legal Reasons",

	InternalServerError:           "Internal Server Error",
	NotImplemented:                "Not Implemented",
	BadGateway:                    "Bad Gateway",
	ServiceUnavailable:            "Service Unavailable",
	GatewayTimeout:                "Gateway Timeout",
	HTTPVersionNotSupported:       "HTTP Version Not Supported",
	VariantAlsoNegotiates:         "Variant Also Negotiates",
	InsufficientStorage:           "Insufficient Storage",
	LoopDetected:                  "Loop Detected",
	NotExtended:                   "Not Extended",
	NetworkAuthenticationRequired: "Network Authentication Required",
}

// ErrUnknownCode is matched by every error Parse returns.
var ErrUnknownCode = errors.New("unknown HTTP status code")

// UnknownCodeError carries the integer that failed to parse.
type UnknownCodeError struct {
	Code int
}

func (e *UnknownCodeError) Error() string {
	return fmt.Sprintf("the code %d is not a valid HTTP status", e.Code)
}

func (e *UnknownCodeError) Is(target error) bool {
	return target == ErrUnknownCode
}

// Parse converts an integer into a registered Code.
func Parse(code int) (Code, error) {
	c := Code(code)
	if _, ok := reasons[c]; !ok {
		return 0, &UnknownCodeError{Code: code}
	}
	return c, nil
}

// Int returns the numeric code.
func (c Code) Int() int {
	return int(c)
}

// Reason returns the registered reason phrase, or "" for unregistered values.
func (c Code) Reason() string {
	return reasons[c]
}

// String returns "200 OK" style text.
func (c Code) String() string {
	if r, ok := reasons[c]; ok {
		return fmt.Sprintf("%d %s", int(c), r)
	}
	return fmt.Sprintf("%d", int(c))
}

// Class is the first-digit grouping of a status code.
type Class int

const (
	ClassInformational Class = iota + 1
	ClassSuccess
	ClassRedirection
	ClassClientError
	ClassServerError
)

func (c Class) String() string {
	switch c {
	case ClassInformational:
		return "informational"
	case ClassSuccess:
		return "success"
	case ClassRedirection:
		return "redirection"
	case ClassClientError:
		return "client error"
	case ClassServerError:
		return "server error"
	default:
		return "unknown"
	}
}

// Class returns the code's class. Every registered code has exactly one.
func (c Code) Class() Class {
	switch {
	case c >= 100 && c < 200:
		return ClassInformational
	case c >= 200 && c < 300:
		return ClassSuccess
	case c >= 300 && c < 400:
		return ClassRedirection
	case c >= 400 && c < 500:
		return ClassClientError
	case c >= 500 && c < 600:
		return ClassServerError
	default:
		return 0
	}
}

// IsInformational returns true for 1xx codes
func (c Code) IsInformational() bool { return c.Class() == ClassInformational }

// IsSuccess returns true for 2xx codes
func (c Code) IsSuccess() bool { return c.Class() == ClassSuccess }

// IsRedirection returns true for 3xx codes
func (c Code) IsRedirection() bool { return c.Class() == ClassRedirection }

// IsClientError returns true for 4xx codes
func (c Code) IsClientError() bool { return c.Class() == ClassClientError }

// IsServerError returns true for 5xx codes
func (c Code) IsServerError() bool { return c.Class() == ClassServerError }

// IsError returns true for 4xx and 5xx codes
func (c Code) IsError() bool { return c.IsClientError() || c.IsServerError() }

// All returns every registered code in ascending order.
func All() []Code {
	out := make([]Code, 0, len(reasons))
	for c := Code(100); c < 600; c++ {
		if _, ok := reasons[c]; ok {
			out = append(out, c)
		}
	}
	return out
}
