package server

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/getchatd/chatd/pkg/httpwire"
	"github.com/getchatd/chatd/pkg/sse"
	"github.com/getchatd/chatd/pkg/stats"
)

// serveConn runs the single request/response cycle for one connection:
// read the head, parse it, negotiate the response protocol, dispatch.
//
// Responses for failures that happen before the request line can be trusted
// always use an HTTP/1.0 prefix, whatever the peer claimed.
func (s *Server) serveConn(conn net.Conn) error {
	r := httpwire.NewRequestReader(conn, s.cfg.MaxRequestBytes, s.cfg.ReadTimeout)
	w := bufio.NewWriter(conn)

	headBlock, bodyOffset, err := r.ReadHead()
	if err != nil {
		switch {
		case errors.Is(err, httpwire.ErrRequestTooLarge):
			return s.writeStatus(conn, w, httpwire.ProtoHTTP11, httpwire.StatusPayloadTooLarge)
		case errors.Is(err, httpwire.ErrIncompleteRequest):
			return s.writeStatus(conn, w, httpwire.ProtoHTTP10, httpwire.StatusBadRequest)
		default:
			// Timeout or transport failure; the connection is not
			// worth a response.
			return err
		}
	}

	head, err := httpwire.ParseHead(headBlock)
	if err != nil {
		if errors.Is(err, httpwire.ErrNotImplemented) {
			return s.writeStatus(conn, w, httpwire.ProtoHTTP11, httpwire.StatusNotImplemented)
		}
		return s.writeStatus(conn, w, httpwire.ProtoHTTP10, httpwire.StatusBadRequest)
	}

	s.log.Debug("request",
		"remote", conn.RemoteAddr().String(),
		"method", head.Method, "target", head.Target, "proto", head.Proto)

	proto, err := httpwire.ResponseProto(head.Proto)
	if err != nil {
		if errors.Is(err, httpwire.ErrUpgradeRequired) {
			return s.writeResponse(conn, w, &httpwire.Response{
				Proto:   httpwire.ProtoHTTP10,
				Status:  httpwire.StatusUpgradeRequired,
				Headers: []httpwire.Header{{Key: "Upgrade", Value: "HTTP/1.1, HTTP/1.0"}},
			})
		}
		return s.writeStatus(conn, w, httpwire.ProtoHTTP10, httpwire.StatusVersionNotSupported)
	}

	switch head.Target {
	case "/":
		return s.serveRoot(conn, w, head.Method, proto)
	case "/chat":
		return s.serveChat(conn, w, r, head, proto, bodyOffset)
	default:
		return s.writeStatus(conn, w, httpwire.ProtoHTTP10, httpwire.StatusNotFound)
	}
}

// serveRoot serves the embedded chat page.
func (s *Server) serveRoot(conn net.Conn, w *bufio.Writer, method, proto string) error {
	headers := []httpwire.Header{
		{Key: "Server", Value: serverName},
		{Key: "Content-Type", Value: "text/html; charset=UTF-8"},
		{Key: "Content-Length", Value: strconv.Itoa(len(indexHTML))},
	}

	switch method {
	case "GET":
		return s.writeResponse(conn, w, &httpwire.Response{
			Proto: proto, Status: httpwire.StatusOK, Headers: headers, Body: indexHTML,
		})
	case "HEAD":
		return s.writeResponse(conn, w, &httpwire.Response{
			Proto: proto, Status: httpwire.StatusOK, Headers: headers,
		})
	default:
		return s.writeResponse(conn, w, &httpwire.Response{
			Proto: proto, Status: httpwire.StatusMethodNotAllowed,
			Headers: []httpwire.Header{{Key: "Allow", Value: "GET, HEAD"}},
		})
	}
}

// serveChat dispatches the /chat endpoint: HEAD for stream headers only,
// GET to stream, POST to ingest.
func (s *Server) serveChat(conn net.Conn, w *bufio.Writer, r *httpwire.RequestReader,
	head httpwire.Head, proto string, bodyOffset int) error {

	streamHeaders := []httpwire.Header{
		{Key: "Server", Value: serverName},
		{Key: "Cache-Control", Value: "no-store"},
		{Key: "Content-Type", Value: sse.ContentType},
	}

	switch head.Method {
	case "HEAD":
		return s.writeResponse(conn, w, &httpwire.Response{
			Proto: proto, Status: httpwire.StatusOK, Headers: streamHeaders,
		})
	case "GET":
		return s.streamLoop(conn, w, &httpwire.Response{
			Proto: proto, Status: httpwire.StatusOK, Headers: streamHeaders,
		})
	case "POST":
		return s.ingest(conn, w, r, head, proto, bodyOffset)
	default:
		return s.writeResponse(conn, w, &httpwire.Response{
			Proto: proto, Status: httpwire.StatusMethodNotAllowed,
			Headers: []httpwire.Header{{Key: "Allow", Value: "GET, HEAD, POST"}},
		})
	}
}

// ingest reads the posted body, frames it, and hands it to the hub.
//
// A POST without Content-Length is rejected with 411 rather than read until
// close; a body the buffer cannot hold is rejected with 413 exactly like an
// oversized head.
func (s *Server) ingest(conn net.Conn, w *bufio.Writer, r *httpwire.RequestReader,
	head httpwire.Head, proto string, bodyOffset int) error {

	if head.ContentLength < 0 {
		return s.writeStatus(conn, w, proto, httpwire.StatusLengthRequired)
	}
	if head.ContentLength > int64(s.cfg.MaxRequestBytes) {
		return s.writeStatus(conn, w, httpwire.ProtoHTTP11, httpwire.StatusPayloadTooLarge)
	}

	body, err := r.ReadBody(bodyOffset, int(head.ContentLength))
	if err != nil {
		switch {
		case errors.Is(err, httpwire.ErrRequestTooLarge):
			return s.writeStatus(conn, w, httpwire.ProtoHTTP11, httpwire.StatusPayloadTooLarge)
		case errors.Is(err, httpwire.ErrIncompleteRequest):
			// Short body: drop the connection without a 204.
			return err
		default:
			return err
		}
	}

	s.hub.Broadcast(sse.EncodeMessage(body))
	s.st.Incr(stats.FramesPublished, 1)

	return s.writeResponse(conn, w, &httpwire.Response{
		Proto: proto, Status: httpwire.StatusNoContent,
		Headers: []httpwire.Header{{Key: "Server", Value: serverName}},
	})
}

// writeResponse writes resp under the configured write deadline and flushes.
func (s *Server) writeResponse(conn net.Conn, w *bufio.Writer, resp *httpwire.Response) error {
	if err := conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout)); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}
	if err := resp.Write(w); err != nil {
		return err
	}
	return w.Flush()
}

func (s *Server) writeStatus(conn net.Conn, w *bufio.Writer, proto, status string) error {
	return s.writeResponse(conn, w, &httpwire.Response{Proto: proto, Status: status})
}
