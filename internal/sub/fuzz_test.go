package sub

import (
	"strings"
	"testing"
)

func FuzzDecodeLinks(f *testing.F) {
	seed := []string{
		"",
		"   \r\n",
		"vless://uuid@host:443?security=tls#A\n",
		"dmxlc3M6Ly91dWlkQGhvc3Q6NDQzI0E=",
		"dmxlc3M6Ly91dWlkQGhvc3Q6NDQzI0E",
		"abcd",
		"\uFEFFss://x@h:1#n",
	}
	for _, s := range seed {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, content string) {
		lines := DecodeLinks(content)
		for _, line := range lines {
			if line == "" {
				t.Fatalf("empty line in result")
			}
			if line != strings.TrimSpace(line) {
				t.Fatalf("untrimmed line: %q", line)
			}
		}
		if strings.TrimSpace(content) == "" && len(lines) != 0 {
			t.Fatalf("blank input produced %d lines", len(lines))
		}
	})
}
