package server

import (
	"bufio"
	"fmt"
	"net"
	"time"

	"github.com/getchatd/chatd/pkg/httpwire"
	"github.com/getchatd/chatd/pkg/sse"
	"github.com/getchatd/chatd/pkg/stats"
)

// streamLoop services one GET /chat subscriber until the peer goes away or
// the hub prunes it. It subscribes first, then writes the stream header
// block, so no broadcast that happens after the headers hit the wire can be
// missed.
//
// Bursts are batched: after one frame arrives, any frames already queued are
// written too, then everything is flushed once. An idle period produces a
// ping frame, which doubles as dead-peer detection since the next write to a
// vanished peer fails.
func (s *Server) streamLoop(conn net.Conn, w *bufio.Writer, header *httpwire.Response) error {
	sub := s.hub.Subscribe()
	defer sub.Close()

	if err := s.writeResponse(conn, w, header); err != nil {
		return err
	}

	s.log.Debug("stream opened", "remote", conn.RemoteAddr().String(), "subscriber", sub.ID())

	idle := time.NewTimer(s.cfg.KeepaliveInterval)
	defer idle.Stop()

	for {
		if !idle.Stop() {
			select {
			case <-idle.C:
			default:
			}
		}
		idle.Reset(s.cfg.KeepaliveInterval)

		select {
		case frame, ok := <-sub.Frames():
			if !ok {
				// Pruned by the hub; not an error.
				s.log.Debug("stream closed by hub", "subscriber", sub.ID())
				return nil
			}
			closed, err := s.writeBatch(conn, w, sub, frame)
			if err != nil {
				return err
			}
			if closed {
				return nil
			}
		case <-idle.C:
			if err := s.writeFrame(conn, w, sse.PingFrame); err != nil {
				return err
			}
			if err := w.Flush(); err != nil {
				return err
			}
			s.st.Incr(stats.Pings, 1)
		}
	}
}

// writeBatch writes frame plus everything else already queued, then flushes
// once. Returns closed=true if the frame channel closed mid-drain.
func (s *Server) writeBatch(conn net.Conn, w *bufio.Writer, sub subscriber, frame sse.Frame) (closed bool, err error) {
	if err := s.writeFrame(conn, w, frame); err != nil {
		return false, err
	}

drain:
	for {
		select {
		case queued, ok := <-sub.Frames():
			if !ok {
				closed = true
				break drain
			}
			if err := s.writeFrame(conn, w, queued); err != nil {
				return false, err
			}
		default:
			break drain
		}
	}
	return closed, w.Flush()
}

// subscriber is the slice of hub.Subscriber the writer loop needs.
type subscriber interface {
	Frames() <-chan sse.Frame
}

func (s *Server) writeFrame(conn net.Conn, w *bufio.Writer, frame sse.Frame) error {
	if err := conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout)); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}
	if _, err := w.WriteString(string(frame)); err != nil {
		return err
	}
	return nil
}
