package httpwire

import (
	"fmt"
	"strconv"
	"strings"
)

// Head is the parsed request head. It is constructed once per request after
// the header terminator is found and read-only afterward.
type Head struct {
	// Method is the request method token, e.g. "GET".
	Method string

	// Target is the request target path.
	Target string

	// Proto is the raw protocol token, empty when the request line had no
	// version. Map it with ResponseProto before responding.
	Proto string

	// ContentLength is the parsed Content-Length value, -1 when absent.
	ContentLength int64
}

// ParseHead parses the head block returned by ReadHead: a request line,
// then zero or more header lines, CRLF separated.
//
// Header lines split once on ": "; unknown keys are ignored. Content-Length
// must parse as an unsigned integer or the whole request fails with
// ErrBadRequest. A Transfer-Encoding header fails with ErrNotImplemented
// rather than letting a chunked body be misread as literal bytes.
func ParseHead(block []byte) (Head, error) {
	line, rest, _ := strings.Cut(string(block), "\r\n")

	head := Head{ContentLength: -1}

	method, remainder, ok := strings.Cut(line, " ")
	if !ok || method == "" {
		return Head{}, fmt.Errorf("%w: request line %q", ErrBadRequest, line)
	}
	head.Method = method
	// A missing version token leaves the whole remainder as the target.
	head.Target, head.Proto, _ = strings.Cut(remainder, " ")

	for _, hline := range strings.Split(rest, "\r\n") {
		key, value, ok := strings.Cut(hline, ": ")
		if !ok {
			continue
		}
		switch key {
		case "Content-Length":
			n, err := strconv.ParseUint(value, 10, 63)
			if err != nil {
				return Head{}, fmt.Errorf("%w: Content-Length %q", ErrBadRequest, value)
			}
			head.ContentLength = int64(n)
		case "Transfer-Encoding":
			return Head{}, fmt.Errorf("%w: Transfer-Encoding %q", ErrNotImplemented, value)
		}
	}
	return head, nil
}

// ResponseProto maps the request's protocol token to the token used on the
// response status line.
//
//	HTTP/0.9        -> ErrUpgradeRequired (respond 426)
//	HTTP/1.0        -> HTTP/1.0
//	HTTP/1.z, HTTP/x -> HTTP/1.1
//	anything else   -> ErrVersionNotSupported (respond 505)
func ResponseProto(token string) (string, error) {
	switch {
	case token == "HTTP/0.9":
		return "", ErrUpgradeRequired
	case token == "HTTP/1.0":
		return ProtoHTTP10, nil
	case strings.HasPrefix(token, "HTTP/1."):
		return ProtoHTTP11, nil
	case strings.HasPrefix(token, "HTTP/"):
		return ProtoHTTP11, nil
	default:
		return "", ErrVersionNotSupported
	}
}
