package profiles

import (
	"os"
	"path/filepath"
	"testing"
)

func writeProfiles(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	file := filepath.Join(dir, "profiles.yaml")
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write profiles file: %v", err)
	}
	return file
}

func TestLoadProfilesYAML(t *testing.T) {
	file := writeProfiles(t, `
profiles:
  - id: local
    name: Local Dev
    base_url: http://localhost:8000
    default: true
    config:
      user_agent: rolodex/1.0
  - id: staging
    name: Staging
    base_url: https://contacts-stg.example.com/
`)

	if err := LoadProfiles(file); err != nil {
		t.Fatalf("LoadProfiles returned error: %v", err)
	}

	all := Profiles()
	if len(all) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(all))
	}

	p, ok := ProfileByID("staging")
	if !ok {
		t.Fatal("expected profile id staging to be loaded")
	}
	if p.BaseURL != "https://contacts-stg.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", p.BaseURL)
	}

	def, ok := DefaultProfile()
	if !ok || def.ID != "local" {
		t.Fatalf("expected default profile local, got %+v ok=%v", def, ok)
	}
}

func TestLoadProfilesDuplicateID(t *testing.T) {
	file := writeProfiles(t, `
profiles:
  - id: dup
    name: One
    base_url: http://one.example
  - id: dup
    name: Two
    base_url: http://two.example
`)

	if err := LoadProfiles(file); err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestLoadProfilesRejectsBadBaseURL(t *testing.T) {
	file := writeProfiles(t, `
profiles:
  - id: broken
    name: Broken
    base_url: localhost:8000
`)

	if err := LoadProfiles(file); err == nil {
		t.Fatal("expected base_url validation error")
	}
}

func TestLoadProfilesRejectsMultipleDefaults(t *testing.T) {
	file := writeProfiles(t, `
profiles:
  - id: a
    name: A
    base_url: http://a.example
    default: true
  - id: b
    name: B
    base_url: http://b.example
    default: true
`)

	if err := LoadProfiles(file); err == nil {
		t.Fatal("expected multiple-defaults error")
	}
}

func TestHeadersSkipsEmptyValues(t *testing.T) {
	p := Profile{
		ID: "x",
		Config: map[string]any{
			ConfigUserAgentKey:      "rolodex/1.0",
			ConfigAcceptKey:         "   ",
			ConfigAcceptLanguageKey: 42, // non-string values are ignored
		},
	}

	headers := Headers(p)
	if headers["User-Agent"] != "rolodex/1.0" {
		t.Fatalf("expected user agent header, got %v", headers)
	}
	if _, ok := headers["Accept"]; ok {
		t.Error("blank accept value must be skipped")
	}
	if _, ok := headers["Accept-Language"]; ok {
		t.Error("non-string accept_language must be skipped")
	}
	if len(headers) != 1 {
		t.Fatalf("expected exactly one header, got %v", headers)
	}
}

func TestConfigStringFallback(t *testing.T) {
	p := Profile{ID: "x"}
	if got := ConfigString(p, ConfigUserAgentKey, "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
}
