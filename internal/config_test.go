package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	pkgconfig "github.com/starford/vaultgen/pkg/config"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Output.CommandsDir() != filepath.Join("output", "Commands") {
		t.Errorf("commands dir = %q", cfg.Output.CommandsDir())
	}
	if cfg.Output.IndexPath() != filepath.Join("output", "Index.md") {
		t.Errorf("index path = %q", cfg.Output.IndexPath())
	}
	if cfg.Output.SiteFilesDir() != filepath.Join("output", "site files") {
		t.Errorf("site files dir = %q", cfg.Output.SiteFilesDir())
	}
	if cfg.Hierarchy.Root != "m" || cfg.Hierarchy.CalloutDepth != 4 {
		t.Errorf("hierarchy = %+v", cfg.Hierarchy)
	}
}

func TestOutputConfig_RequiresSubdirs(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Output.CommandsSubdir = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty commands subdir should fail validation")
	}
}

func TestHierarchyConfig_DepthBounds(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Hierarchy.CalloutDepth = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("zero callout depth should fail validation")
	}
}

func TestLoadLayered_LocalOverrides(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "config.yaml")
	local := filepath.Join(dir, "config.local.yaml")
	t.Setenv("VAULTGEN_TEST_DB", "/data/responses.db")

	if err := os.WriteFile(base, []byte("database:\n  path: ${VAULTGEN_TEST_DB}\noutput:\n  base_dir: vault\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(local, []byte("output:\n  base_dir: /tmp/local-vault\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	if err := pkgconfig.LoadLayered(base, cfg); err != nil {
		t.Fatalf("LoadLayered: %v", err)
	}
	if cfg.Database.Path != "/data/responses.db" {
		t.Errorf("database path = %q", cfg.Database.Path)
	}
	if cfg.Output.BaseDir != "/tmp/local-vault" {
		t.Errorf("base dir = %q, want local override", cfg.Output.BaseDir)
	}
	if cfg.Output.CommandsSubdir != "Commands" {
		t.Errorf("unset keys should keep defaults, got %q", cfg.Output.CommandsSubdir)
	}
}
