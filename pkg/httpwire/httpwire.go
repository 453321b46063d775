// Package httpwire reads and parses raw HTTP/1.x requests off a TCP byte
// stream, and writes wire-exact responses back. It deliberately avoids
// net/http: requests are accumulated into one fixed-capacity buffer, the
// header terminator is located across partial reads, and only the single
// header the relay needs (Content-Length) is interpreted.
//
// Each connection carries exactly one request/response cycle. There is no
// keep-alive reuse, no chunked transfer-encoding, and no pipelining.
package httpwire

import "errors"

// Protocol tokens used in response status lines.
const (
	ProtoHTTP10 = "HTTP/1.0"
	ProtoHTTP11 = "HTTP/1.1"
)

// crlfcrlf is the header terminator.
var crlfcrlf = []byte("\r\n\r\n")

// Parse and read errors. The server maps each to a status response or a
// silent close.
var (
	// ErrRequestTooLarge means the request buffer filled before the head
	// or body was complete.
	ErrRequestTooLarge = errors.New("httpwire: request exceeds buffer capacity")

	// ErrIncompleteRequest means the peer closed the connection before
	// the head or body was complete.
	ErrIncompleteRequest = errors.New("httpwire: peer closed mid-request")

	// ErrBadRequest means the request line or a needed header could not
	// be parsed.
	ErrBadRequest = errors.New("httpwire: malformed request")

	// ErrUpgradeRequired means the peer spoke HTTP/0.9.
	ErrUpgradeRequired = errors.New("httpwire: HTTP/0.9 not served")

	// ErrVersionNotSupported means the version token is not an HTTP/1.x
	// token this server understands.
	ErrVersionNotSupported = errors.New("httpwire: unsupported protocol version")

	// ErrNotImplemented means the request requires transfer semantics
	// this server does not implement (Transfer-Encoding).
	ErrNotImplemented = errors.New("httpwire: transfer encoding not implemented")
)
