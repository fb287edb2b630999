// Package header models HTTP header names as a closed set of well-known
// fields plus an escape case for everything else, and provides an immutable,
// case-insensitive header set built on top of them.
package header

import (
	"net/textproto"
	"strings"
)

// Kind enumerates the header names the library knows by name.
type Kind int

const (
	// Other is any header name not listed below. Its spelling is kept verbatim.
	Other Kind = iota
	Accept
	AcceptCharset
	AcceptEncoding
	AcceptLanguage
	AcceptVersion
	Authorization
	CacheControl
	Connection
	Cookie
	ContentLength
	ContentMD5
	ContentType
	Date
	Host
	Origin
	Referer
	UserAgent
)

var canonicalNames = map[Kind]string{
	Accept:         "Accept",
	AcceptCharset:  "Accept-Charset",
	AcceptEncoding: "Accept-Encoding",
	AcceptLanguage: "Accept-Language",
	AcceptVersion:  "Accept-Version",
	Authorization:  "Authorization",
	CacheControl:   "Cache-Control",
	Connection:     "Connection",
	Cookie:         "Cookie",
	ContentLength:  "Content-Length",
	ContentMD5:     "Content-MD5",
	ContentType:    "Content-Type",
	Date:           "Date",
	Host:           "Host",
	Origin:         "Origin",
	Referer:        "Referer",
	UserAgent:      "User-Agent",
}

var kindsByKey = func() map[string]Kind {
	m := make(map[string]Kind, len(canonicalNames))
	for k, name := range canonicalNames {
		m[strings.ToLower(name)] = k
	}
	return m
}()

// Field is a single HTTP header name.
//
// Fields compare case-insensitively through Equal and Key; use those rather
// than == when one side may be an Other field.
type Field struct {
	kind Kind
	raw  string
}

// Well-known fields, ready to use.
var (
	FieldAccept         = Field{kind: Accept}
	FieldAuthorization  = Field{kind: Authorization}
	FieldCacheControl   = Field{kind: CacheControl}
	FieldContentLength  = Field{kind: ContentLength}
	FieldContentType    = Field{kind: ContentType}
	FieldUserAgent      = Field{kind: UserAgent}
	FieldAcceptEncoding = Field{kind: AcceptEncoding}
)

// Parse maps a header name onto a Field. Recognised names map to their kind
// regardless of case; anything else becomes an Other field holding name as
// given.
func Parse(name string) Field {
	if k, ok := kindsByKey[strings.ToLower(name)]; ok {
		return Field{kind: k}
	}
	return Field{kind: Other, raw: name}
}

// Of returns the Field for a known kind. Passing Other yields an empty name.
func Of(k Kind) Field {
	return Field{kind: k}
}

// Kind reports which well-known header this is, or Other.
func (f Field) Kind() Kind {
	return f.kind
}

// String returns the wire spelling of the header name.
func (f Field) String() string {
	if f.kind == Other {
		return f.raw
	}
	return canonicalNames[f.kind]
}

// Key returns the normalised (lower-case) name used for equality and hashing.
func (f Field) Key() string {
	return strings.ToLower(f.String())
}

// Equal reports whether two fields name the same header, ignoring case.
func (f Field) Equal(other Field) bool {
	return f.Key() == other.Key()
}

// Canonical returns the MIME canonical form of the name, as net/http uses it.
func (f Field) Canonical() string {
	return textproto.CanonicalMIMEHeaderKey(f.String())
}
