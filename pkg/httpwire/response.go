package httpwire

import (
	"fmt"
	"io"
	"strings"
)

// Status lines used by the relay.
const (
	StatusOK                  = "200 OK"
	StatusNoContent           = "204 No Content"
	StatusBadRequest          = "400 Bad Request"
	StatusNotFound            = "404 Not Found"
	StatusMethodNotAllowed    = "405 Method Not Allowed"
	StatusLengthRequired      = "411 Length Required"
	StatusPayloadTooLarge     = "413 Payload Too Large"
	StatusUpgradeRequired     = "426 Upgrade Required"
	StatusNotImplemented      = "501 Not Implemented"
	StatusVersionNotSupported = "505 HTTP Version Not Supported"
)

// Header is one response header. Headers are kept ordered so responses are
// byte-reproducible.
type Header struct {
	Key   string
	Value string
}

// Response is one HTTP response to be written verbatim to the wire.
type Response struct {
	Proto   string
	Status  string
	Headers []Header
	Body    []byte
}

// Write writes the response as exact wire bytes: status line, headers,
// blank line, body.
func (r *Response) Write(w io.Writer) error {
	var sb strings.Builder
	sb.WriteString(r.Proto)
	sb.WriteByte(' ')
	sb.WriteString(r.Status)
	sb.WriteString("\r\n")
	for _, h := range r.Headers {
		sb.WriteString(h.Key)
		sb.WriteString(": ")
		sb.WriteString(h.Value)
		sb.WriteString("\r\n")
	}
	sb.WriteString("\r\n")

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("write response head: %w", err)
	}
	if len(r.Body) > 0 {
		if _, err := w.Write(r.Body); err != nil {
			return fmt.Errorf("write response body: %w", err)
		}
	}
	return nil
}

// WriteStatusLine writes a bare response with no headers and no body, e.g.
// "HTTP/1.0 400 Bad Request\r\n\r\n". Used for failures where nothing about
// the request can be trusted.
func WriteStatusLine(w io.Writer, proto, status string) error {
	r := Response{Proto: proto, Status: status}
	return r.Write(w)
}
