package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

const runConfig = `# base config
port: 7890
proxies:
  - name: old
    type: ss
    server: old.example
    port: 1
    cipher: aes-128-gcm
    password: p
proxy-groups:
  - name: PROXY
    type: select
    proxies:
      - DIRECT
rules:
  - MATCH,PROXY
`

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestRun_MergeEndToEnd(t *testing.T) {
	dir := t.TempDir()
	cfg := writeTemp(t, dir, "config.yaml", runConfig)
	sub := writeTemp(t, dir, "sub.txt", strings.Join([]string{
		"trojan://pw@a.example:443#A",
		"bogus-line",
		"ss://YWVzLTI1Ni1nY206cGFzc3dvcmQ=@1.2.3.4:8388#B",
	}, "\n"))

	paths, err := Run(Options{
		Subscription: sub,
		ConfigPath:   cfg,
		AddToManual:  true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := filepath.Join(dir, "config_merged.yaml")
	if len(paths) != 1 || paths[0] != want {
		t.Fatalf("paths=%v, want=[%s]", paths, want)
	}

	out, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var parsed struct {
		Proxies []map[string]any `yaml:"proxies"`
		Groups  []struct {
			Name    string   `yaml:"name"`
			Proxies []string `yaml:"proxies"`
		} `yaml:"proxy-groups"`
	}
	if err := yaml.Unmarshal(out, &parsed); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	if len(parsed.Proxies) != 3 {
		t.Fatalf("proxies=%d, want=3", len(parsed.Proxies))
	}
	if strings.Join(parsed.Groups[0].Proxies, ",") != "DIRECT,A,B" {
		t.Fatalf("group members=%v, want [DIRECT A B]", parsed.Groups[0].Proxies)
	}
	if !strings.Contains(string(out), "# base config") {
		t.Fatalf("output lost comments:\n%s", out)
	}

	// Original untouched.
	orig, _ := os.ReadFile(cfg)
	if string(orig) != runConfig {
		t.Fatalf("input config was modified")
	}
}

func TestRun_InlineSubscription(t *testing.T) {
	dir := t.TempDir()
	cfg := writeTemp(t, dir, "config.yaml", runConfig)

	paths, err := Run(Options{
		Subscription: "trojan://pw@a.example:443#A",
		ConfigPath:   cfg,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(paths) != 1 {
		t.Fatalf("paths=%v", paths)
	}
}

func TestRun_NoLinksFound(t *testing.T) {
	dir := t.TempDir()
	cfg := writeTemp(t, dir, "config.yaml", runConfig)
	sub := writeTemp(t, dir, "sub.txt", "   \n\n")

	_, err := Run(Options{Subscription: sub, ConfigPath: cfg})
	var re *RunError
	if !errors.As(err, &re) {
		t.Fatalf("expected *RunError, got %T: %v", err, err)
	}
	if re.AppError.Code != "NO_VALID_LINKS" {
		t.Fatalf("code=%q, want=NO_VALID_LINKS", re.AppError.Code)
	}
}

func TestRun_NoSupportedProxies(t *testing.T) {
	dir := t.TempDir()
	cfg := writeTemp(t, dir, "config.yaml", runConfig)

	_, err := Run(Options{
		Subscription: "socks5://u:p@h:1080\nhttp://example.com\n",
		ConfigPath:   cfg,
	})
	var re *RunError
	if !errors.As(err, &re) {
		t.Fatalf("expected *RunError, got %T: %v", err, err)
	}
	if re.AppError.Code != "NO_SUPPORTED_PROXIES" {
		t.Fatalf("code=%q, want=NO_SUPPORTED_PROXIES", re.AppError.Code)
	}
}

func TestRun_StructureViolationLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	cfg := writeTemp(t, dir, "config.yaml", "proxy-groups: nope\n")

	_, err := Run(Options{
		Subscription: "trojan://pw@a.example:443#A",
		ConfigPath:   cfg,
		AddToManual:  true,
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if _, statErr := os.Stat(filepath.Join(dir, "config_merged.yaml")); !os.IsNotExist(statErr) {
		t.Fatalf("output file must not exist after a failed merge")
	}
	// No stray temp files either.
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".submerge-") {
			t.Fatalf("leftover temp file: %s", e.Name())
		}
	}
}

func TestRun_MissingConfigFile(t *testing.T) {
	_, err := Run(Options{
		Subscription: "trojan://pw@a.example:443#A",
		ConfigPath:   filepath.Join(t.TempDir(), "nope.yaml"),
	})
	var re *RunError
	if !errors.As(err, &re) {
		t.Fatalf("expected *RunError, got %T: %v", err, err)
	}
	if re.AppError.Code != "IO_ERROR" {
		t.Fatalf("code=%q, want=IO_ERROR", re.AppError.Code)
	}
}

func TestRun_SplitMode(t *testing.T) {
	dir := t.TempDir()
	cfg := writeTemp(t, dir, "config.yaml", runConfig)
	outDir := filepath.Join(dir, "out")

	paths, err := Run(Options{
		Subscription: "trojan://pw@a.example:443#Node A/1\ntrojan://pw@b.example:443#Node A/1",
		ConfigPath:   cfg,
		SplitDir:     outDir,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("paths=%v, want 2 files", paths)
	}
	if filepath.Base(paths[0]) != "Node_A1.yaml" {
		t.Fatalf("first file=%q, want Node_A1.yaml", filepath.Base(paths[0]))
	}
	// Same sanitized name: second file gets a numeric suffix.
	if filepath.Base(paths[1]) != "Node_A1_1.yaml" {
		t.Fatalf("second file=%q, want Node_A1_1.yaml", filepath.Base(paths[1]))
	}

	out, err := os.ReadFile(paths[0])
	if err != nil {
		t.Fatalf("read split output: %v", err)
	}
	var parsed struct {
		Proxies []map[string]any `yaml:"proxies"`
	}
	if err := yaml.Unmarshal(out, &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(parsed.Proxies) != 1 {
		t.Fatalf("split doc proxies=%d, want=1", len(parsed.Proxies))
	}
}

func TestDeriveOutputPath(t *testing.T) {
	tests := []struct {
		config   string
		explicit string
		want     string
	}{
		{"config.yaml", "", "config_merged.yaml"},
		{"/etc/clash/config.yml", "", "/etc/clash/config_merged.yml"},
		{"config", "", "config_merged.yaml"},
		{"config.yaml", "out.yaml", "out.yaml"},
	}
	for _, tt := range tests {
		got := DeriveOutputPath(tt.config, tt.explicit)
		if got != tt.want {
			t.Fatalf("DeriveOutputPath(%q,%q)=%q, want=%q", tt.config, tt.explicit, got, tt.want)
		}
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Node A/1", "Node_A1"},
		{"香港 01", "01"},
		{"***", ""},
		{"a-b_c", "a-b_c"},
	}
	for _, tt := range tests {
		if got := sanitizeFileName(tt.in); got != tt.want {
			t.Fatalf("sanitizeFileName(%q)=%q, want=%q", tt.in, got, tt.want)
		}
	}
}
