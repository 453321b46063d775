// Package server accepts TCP connections and serves the chat relay's three
// endpoints over hand-parsed HTTP/1.x: the static page at /, the event
// stream at GET /chat, and message ingestion at POST /chat.
//
// Each accepted connection is handled by its own goroutine and carries
// exactly one request/response cycle. Failures are connection-local: they
// are logged and the connection dropped, with no effect on other
// connections or on the hub.
package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net"

	"golang.org/x/net/netutil"

	"github.com/getchatd/chatd/pkg/config"
	"github.com/getchatd/chatd/pkg/hub"
	"github.com/getchatd/chatd/pkg/stats"
)

// serverName is the value of the Server response header.
const serverName = "chatd"

// Server owns the listener, the broadcast hub, and the per-connection
// workers.
type Server struct {
	cfg *config.Config
	hub *hub.Hub
	log *slog.Logger
	st  *stats.Stats
	ln  net.Listener
}

// New creates a Server around an injected hub. The hub is shared by
// reference with every connection worker.
func New(cfg *config.Config, h *hub.Hub, logger *slog.Logger, st *stats.Stats) *Server {
	return &Server{cfg: cfg, hub: h, log: logger, st: st}
}

// Listen binds the TCP listener. When cfg.MaxConns is set the listener is
// wrapped so Accept blocks once the cap is reached.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", s.cfg.Addr, err)
	}
	if s.cfg.MaxConns > 0 {
		ln = netutil.LimitListener(ln, s.cfg.MaxConns)
	}
	s.ln = ln
	s.log.Info("listener bound", "addr", ln.Addr().String())
	return nil
}

// Addr returns the bound listener address. Only valid after Listen.
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// Serve accepts connections until the listener is closed, spawning one
// worker goroutine per connection.
func (s *Server) Serve() error {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		go s.handleConn(conn)
	}
}

// ListenAndServe is Listen followed by Serve.
func (s *Server) ListenAndServe() error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve()
}

// Close stops accepting. In-flight workers are not drained; they end on
// their own deadlines or when their peers disconnect.
func (s *Server) Close() error {
	if s.ln == nil {
		return nil
	}
	return s.ln.Close()
}

// handleConn runs one connection's request/response cycle and maps its
// outcome to a log line. No error escapes the worker.
func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	s.st.Incr(stats.ConnsAccepted, 1)
	s.st.Incr(stats.ConnsActive, 1)
	defer s.st.Decr(stats.ConnsActive, 1)

	err := s.serveConn(conn)
	if err == nil {
		return
	}

	s.st.Incr(stats.ConnErrors, 1)
	var ne net.Error
	switch {
	case errors.As(err, &ne) && ne.Timeout():
		s.log.Info("connection timed out", "remote", conn.RemoteAddr().String())
	case isDisconnect(err):
		s.log.Info("peer disconnected", "remote", conn.RemoteAddr().String())
	default:
		s.log.Warn("error handling connection",
			"remote", conn.RemoteAddr().String(), "error", err)
	}
}

// isDisconnect reports whether err is the ordinary end of a peer that went
// away: a reset, a broken pipe, or a write to a closed socket.
func isDisconnect(err error) bool {
	if errors.Is(err, net.ErrClosed) {
		return true
	}
	var oe *net.OpError
	return errors.As(err, &oe)
}
