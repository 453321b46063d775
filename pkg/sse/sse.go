// Package sse implements the server-sent events wire encoding used by the
// chat relay. See https://html.spec.whatwg.org/multipage/server-sent-events.html
package sse

// Field prefixes per the event-stream format.
const (
	fieldEvent = "event: "
	fieldData  = "data: "
)

// ContentType is the MIME type sent with every event stream response.
const ContentType = "text/event-stream; charset=UTF-8"

// PingFrame is the keep-alive frame written to idle streams. EventSource
// clients without a "ping" listener ignore it.
const PingFrame = fieldEvent + "ping\n" + fieldData + "ping\n\n"

// Frame is one fully encoded event-stream frame. It is immutable once built
// and safe to share across any number of subscribers.
type Frame string
