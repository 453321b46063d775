package sse

import (
	"strings"
	"unicode/utf8"
)

// replacement substitutes invalid UTF-8 sequences in posted bodies. Bad
// bytes are never fatal; the message is relayed with them replaced.
const replacement = string(utf8.RuneError)

// EncodeMessage builds the frame for one posted chat message. Each line of
// the message becomes its own "data:" field and the frame is terminated by a
// blank line, so a multi-line post is dispatched as a single event.
func EncodeMessage(body []byte) Frame {
	text := strings.ToValidUTF8(string(body), replacement)

	var sb strings.Builder
	for _, line := range splitLines(text) {
		sb.WriteString(fieldData)
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')
	return Frame(sb.String())
}

// splitLines splits at "\n" or "\r\n" line endings. A final line ending does
// not produce an empty trailing line; a bare "\r" is kept as data.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s, terminated := strings.CutSuffix(s, "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if i < len(lines)-1 || terminated {
			lines[i] = strings.TrimSuffix(line, "\r")
		}
	}
	return lines
}
