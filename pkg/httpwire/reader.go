package httpwire

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"time"
)

// RequestReader accumulates one request from a connection into a single
// fixed-capacity buffer. The head and body share the buffer; overflowing it
// is a protocol error (ErrRequestTooLarge), never a reallocation.
type RequestReader struct {
	conn        net.Conn
	buf         []byte
	filled      int
	readTimeout time.Duration
}

// NewRequestReader creates a reader over conn with a maxBytes request cap.
// Every read is bounded by readTimeout.
func NewRequestReader(conn net.Conn, maxBytes int, readTimeout time.Duration) *RequestReader {
	return &RequestReader{
		conn:        conn,
		buf:         make([]byte, maxBytes),
		readTimeout: readTimeout,
	}
}

// ReadHead reads until the header terminator is found. It returns the head
// block (request line plus header lines, without the terminator) and the
// buffer offset where the body begins.
//
// Fails with ErrRequestTooLarge if the buffer fills first, and with
// ErrIncompleteRequest if the peer closes first. Deadline errors from the
// connection pass through unchanged.
func (r *RequestReader) ReadHead() (head []byte, bodyOffset int, err error) {
	for {
		prev := r.filled
		if err := r.fill(); err != nil {
			return nil, 0, err
		}

		// The terminator spans at most 3 bytes of already-scanned data,
		// so each pass only re-scans that much of the old prefix.
		from := prev - 3
		if from < 0 {
			from = 0
		}
		if i := bytes.Index(r.buf[from:r.filled], crlfcrlf); i >= 0 {
			end := from + i
			return r.buf[:end], end + len(crlfcrlf), nil
		}
	}
}

// ReadBody returns length body bytes starting at offset, reading more from
// the connection if fewer are buffered. The returned slice aliases the
// request buffer and is only valid until the reader is discarded.
func (r *RequestReader) ReadBody(offset, length int) ([]byte, error) {
	for r.filled-offset < length {
		if err := r.fill(); err != nil {
			return nil, err
		}
	}
	return r.buf[offset : offset+length], nil
}

// fill performs one bounded read into the remaining buffer capacity.
func (r *RequestReader) fill() error {
	if r.filled == len(r.buf) {
		return ErrRequestTooLarge
	}
	if err := r.conn.SetReadDeadline(time.Now().Add(r.readTimeout)); err != nil {
		return fmt.Errorf("set read deadline: %w", err)
	}
	n, err := r.conn.Read(r.buf[r.filled:])
	r.filled += n
	if n > 0 {
		// A read that made progress counts even if it also hit EOF;
		// the next fill reports the close.
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		return ErrIncompleteRequest
	}
	return err
}
