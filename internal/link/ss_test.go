package link

import (
	"encoding/base64"
	"errors"
	"testing"
)

func TestDecodeSS_UserinfoForm(t *testing.T) {
	// base64 of "aes-256-gcm:password"
	p, err := Parse("ss://YWVzLTI1Ni1nY206cGFzc3dvcmQ=@1.2.3.4:8388#Test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Cipher != "aes-256-gcm" {
		t.Fatalf("cipher=%q, want=aes-256-gcm", p.Cipher)
	}
	if p.Password != "password" {
		t.Fatalf("password=%q, want=password", p.Password)
	}
	if p.Server != "1.2.3.4" || p.Port != 8388 {
		t.Fatalf("server/port=%q/%d, want 1.2.3.4/8388", p.Server, p.Port)
	}
	if p.Name != "Test" {
		t.Fatalf("name=%q, want=Test", p.Name)
	}
}

func TestDecodeSS_UserinfoForm_UnpaddedBase64(t *testing.T) {
	// Same credential without trailing "=" padding.
	p, err := Parse("ss://YWVzLTI1Ni1nY206cGFzc3dvcmQ@1.2.3.4:8388#Test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Cipher != "aes-256-gcm" || p.Password != "password" {
		t.Fatalf("cipher/password=%q/%q", p.Cipher, p.Password)
	}
}

func TestDecodeSS_WholeBlobForm(t *testing.T) {
	blob := base64.StdEncoding.EncodeToString([]byte("aes-128-gcm:p@ss@ex.com:443"))
	p, err := Parse("ss://" + blob + "#old")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The last "@" separates credentials from host:port, so passwords may
	// contain "@".
	if p.Cipher != "aes-128-gcm" || p.Password != "p@ss" {
		t.Fatalf("cipher/password=%q/%q, want aes-128-gcm/p@ss", p.Cipher, p.Password)
	}
	if p.Server != "ex.com" || p.Port != 443 {
		t.Fatalf("server/port=%q/%d, want ex.com/443", p.Server, p.Port)
	}
	if p.Name != "old" {
		t.Fatalf("name=%q, want=old", p.Name)
	}
}

func TestDecodeSS_DefaultName(t *testing.T) {
	p, err := Parse("ss://YWVzLTI1Ni1nY206cGFzc3dvcmQ=@1.2.3.4:8388")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "SS_Node" {
		t.Fatalf("name=%q, want=SS_Node", p.Name)
	}
}

func TestDecodeSS_TrailingPluginQueryIgnored(t *testing.T) {
	p, err := Parse("ss://YWVzLTI1Ni1nY206cGFzc3dvcmQ=@1.2.3.4:8388/?plugin=obfs-local%3Bobfs%3Dhttp#x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Server != "1.2.3.4" || p.Port != 8388 {
		t.Fatalf("server/port=%q/%d", p.Server, p.Port)
	}
}

func TestDecodeSS_IPv6Host(t *testing.T) {
	p, err := Parse("ss://YWVzLTI1Ni1nY206cGFzc3dvcmQ=@[::1]:8388#v6")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Server != "::1" || p.Port != 8388 {
		t.Fatalf("server/port=%q/%d, want ::1/8388", p.Server, p.Port)
	}
}

func TestDecodeSS_Malformed(t *testing.T) {
	for _, line := range []string{
		"ss://",
		"ss://@host:1",
		"ss://!!!@host:1",
		"ss://YWVzLTI1Ni1nY20=@host:1", // no colon in credential
		"ss://" + base64.StdEncoding.EncodeToString([]byte("no-at-sign")), // blob without @
		"ss://YWVzLTI1Ni1nY206cGFzc3dvcmQ=@host:notaport",
	} {
		_, err := Parse(line)
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("Parse(%q): expected *ParseError, got %T: %v", line, err, err)
		}
	}
}
