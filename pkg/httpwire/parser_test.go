package httpwire

import (
	"errors"
	"testing"
)

func TestParseHead_Basic(t *testing.T) {
	head, err := ParseHead([]byte("GET /chat HTTP/1.1\r\nHost: localhost\r\nAccept: */*"))
	if err != nil {
		t.Fatalf("ParseHead: %v", err)
	}
	if head.Method != "GET" || head.Target != "/chat" || head.Proto != "HTTP/1.1" {
		t.Errorf("head = %+v", head)
	}
	if head.ContentLength != -1 {
		t.Errorf("ContentLength = %d, want -1 when absent", head.ContentLength)
	}
}

func TestParseHead_ContentLength(t *testing.T) {
	head, err := ParseHead([]byte("POST /chat HTTP/1.1\r\nContent-Length: 42"))
	if err != nil {
		t.Fatalf("ParseHead: %v", err)
	}
	if head.ContentLength != 42 {
		t.Errorf("ContentLength = %d, want 42", head.ContentLength)
	}
}

func TestParseHead_BadContentLength(t *testing.T) {
	tests := []string{"abc", "-1", "4.5", ""}
	for _, v := range tests {
		_, err := ParseHead([]byte("POST /chat HTTP/1.1\r\nContent-Length: " + v))
		if !errors.Is(err, ErrBadRequest) {
			t.Errorf("Content-Length %q: err = %v, want ErrBadRequest", v, err)
		}
	}
}

func TestParseHead_TransferEncodingRejected(t *testing.T) {
	_, err := ParseHead([]byte("POST /chat HTTP/1.1\r\nTransfer-Encoding: chunked"))
	if !errors.Is(err, ErrNotImplemented) {
		t.Errorf("err = %v, want ErrNotImplemented", err)
	}
}

func TestParseHead_UnknownHeadersIgnored(t *testing.T) {
	head, err := ParseHead([]byte("GET / HTTP/1.0\r\nX-Whatever: yes\r\nCookie: a=b"))
	if err != nil {
		t.Fatalf("ParseHead: %v", err)
	}
	if head.Proto != "HTTP/1.0" {
		t.Errorf("Proto = %q", head.Proto)
	}
}

func TestParseHead_MalformedHeaderLineIgnored(t *testing.T) {
	// No ": " separator; the line is skipped, not fatal.
	head, err := ParseHead([]byte("GET / HTTP/1.1\r\ngarbage-no-separator\r\nContent-Length: 3"))
	if err != nil {
		t.Fatalf("ParseHead: %v", err)
	}
	if head.ContentLength != 3 {
		t.Errorf("ContentLength = %d, want 3", head.ContentLength)
	}
}

func TestParseHead_NoVersionToken(t *testing.T) {
	head, err := ParseHead([]byte("GET /"))
	if err != nil {
		t.Fatalf("ParseHead: %v", err)
	}
	if head.Target != "/" || head.Proto != "" {
		t.Errorf("head = %+v", head)
	}
}

func TestParseHead_MalformedRequestLine(t *testing.T) {
	for _, line := range []string{"GET", "", "\r\nHost: x"} {
		_, err := ParseHead([]byte(line))
		if !errors.Is(err, ErrBadRequest) {
			t.Errorf("line %q: err = %v, want ErrBadRequest", line, err)
		}
	}
}

func TestResponseProto(t *testing.T) {
	tests := []struct {
		token   string
		want    string
		wantErr error
	}{
		{"HTTP/1.0", ProtoHTTP10, nil},
		{"HTTP/1.1", ProtoHTTP11, nil},
		{"HTTP/1.9", ProtoHTTP11, nil},
		{"HTTP/2", ProtoHTTP11, nil},
		{"HTTP/0.9", "", ErrUpgradeRequired},
		{"", "", ErrVersionNotSupported},
		{"SPDY/3", "", ErrVersionNotSupported},
		{"http/1.1", "", ErrVersionNotSupported},
	}
	for _, tt := range tests {
		got, err := ResponseProto(tt.token)
		if got != tt.want || !errors.Is(err, tt.wantErr) {
			t.Errorf("ResponseProto(%q) = (%q, %v), want (%q, %v)",
				tt.token, got, err, tt.want, tt.wantErr)
		}
	}
}
