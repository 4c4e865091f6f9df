// Package sub turns a raw subscription payload into individual link lines.
//
// Subscriptions come in two shapes: one base64 blob covering the whole list,
// or plain newline-separated URIs. Detection is heuristic and documented in
// DecodeLinks.
package sub

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"
)

// DecodeLinks interprets a subscription payload.
//
// The payload is first treated as base64: all whitespace is stripped and the
// result decoded (padding-tolerant, standard and URL-safe alphabets). The
// decode is accepted only if at least one decoded line contains "://" —
// that is what tells a real base64 subscription apart from plain text that
// merely happens to be valid base64. On decode failure, invalid UTF-8, or a
// rejected heuristic, the original input is treated as newline-separated
// plain text. Blank and whitespace-only input yields an empty list, not an
// error.
//
// Plain text that is valid base64 and coincidentally decodes to lines
// containing "://" is decoded; that ambiguity is inherent to the format and
// accepted.
func DecodeLinks(content string) []string {
	s := stripUTF8BOM(content)
	if strings.TrimSpace(s) == "" {
		return nil
	}

	if decoded, ok := tryBase64(s); ok {
		lines := splitLines(decoded)
		for _, line := range lines {
			if strings.Contains(line, "://") {
				return lines
			}
		}
	}

	return splitLines(s)
}

func tryBase64(s string) (string, bool) {
	b, err := DecodeBase64Loose(removeSpaceTabCRLF(s))
	if err != nil {
		return "", false
	}
	if !utf8.Valid(b) {
		return "", false
	}
	return string(b), true
}

// splitLines splits on \n, trims each line (dropping trailing \r from CRLF
// input) and discards empties.
func splitLines(s string) []string {
	raw := strings.Split(s, "\n")
	out := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// DecodeBase64Loose decodes base64 the way subscription tooling emits it:
// possibly unpadded, standard or URL-safe alphabet. Input is padded to a
// multiple of 4 before the padded alphabets are tried.
func DecodeBase64Loose(s string) ([]byte, error) {
	padded := s
	if n := len(s) % 4; n != 0 {
		padded = s + strings.Repeat("=", 4-n)
	}
	encodings := []struct {
		enc *base64.Encoding
		in  string
	}{
		{base64.StdEncoding, padded},
		{base64.URLEncoding, padded},
		{base64.RawStdEncoding, s},
		{base64.RawURLEncoding, s},
	}
	var lastErr error
	for _, e := range encodings {
		b, err := e.enc.DecodeString(e.in)
		if err == nil {
			return b, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func removeSpaceTabCRLF(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\r', '\n':
			continue
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func stripUTF8BOM(s string) string {
	return strings.TrimPrefix(s, "\uFEFF")
}
