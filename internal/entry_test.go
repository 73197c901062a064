package internal

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/starford/vaultgen/internal/apperr"
	"github.com/starford/vaultgen/internal/testutil"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	cfg := NewDefaultConfig()
	cfg.Database.Path = testutil.TestDB(t, testutil.LabEntries()...)
	cfg.Output.BaseDir = filepath.Join(t.TempDir(), "output")
	return cfg
}

func run(t *testing.T, cfg *Config, opts ...Option) error {
	t.Helper()
	clock := func() time.Time { return time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC) }
	base := []Option{WithConfig(cfg), WithLogOutput(io.Discard), WithClock(clock)}
	return Run(context.Background(), append(base, opts...)...)
}

func TestRun_RequiresConfig(t *testing.T) {
	if err := Run(context.Background()); err == nil {
		t.Fatal("expected error without config")
	}
}

func TestRun_Generate(t *testing.T) {
	cfg := testConfig(t)
	if err := run(t, cfg); err != nil {
		t.Fatalf("Run: %v", err)
	}

	idx, err := os.ReadFile(cfg.Output.IndexPath())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(string(idx), "*Generated on 2025-03-14 09:26:53 from responses.db*\n") {
		t.Errorf("index footer:\n%s", idx)
	}
	if _, err := os.Stat(filepath.Join(cfg.Output.CommandsDir(), "tools.md")); err != nil {
		t.Errorf("entry document missing: %v", err)
	}
}

func TestRun_GenerateIndexOnly(t *testing.T) {
	cfg := testConfig(t)
	if err := run(t, cfg, WithTargets(false, true)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := os.Stat(cfg.Output.CommandsDir()); !os.IsNotExist(err) {
		t.Error("index-only run should not create entry documents")
	}
	if _, err := os.Stat(cfg.Output.IndexPath()); err != nil {
		t.Errorf("index missing: %v", err)
	}
}

func TestRun_ConflictingTargets(t *testing.T) {
	cfg := testConfig(t)
	err := run(t, cfg, WithTargets(true, true))
	if !errors.Is(err, apperr.ErrConflictingTarget) {
		t.Fatalf("err = %v, want ErrConflictingTarget", err)
	}
	if _, statErr := os.Stat(cfg.Output.IndexPath()); !os.IsNotExist(statErr) {
		t.Error("nothing should be written when targets conflict")
	}
}

func TestRun_MissingDatabase(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Path = filepath.Join(t.TempDir(), "missing.db")
	if err := run(t, cfg); err == nil {
		t.Fatal("expected error for missing database")
	}
}

func TestRun_CustomHierarchy(t *testing.T) {
	cfg := testConfig(t)
	cfg.Hierarchy.Title = "Lab Index"
	cfg.Hierarchy.Root = "tools"
	if err := run(t, cfg, WithTargets(false, true)); err != nil {
		t.Fatal(err)
	}
	idx, _ := os.ReadFile(cfg.Output.IndexPath())
	s := string(idx)
	if !strings.Contains(s, "# Lab Index\n") || !strings.Contains(s, ">[!note]+ [[spin]]\n") {
		t.Errorf("custom hierarchy not applied:\n%s", s)
	}
}

func TestRun_Publish(t *testing.T) {
	cfg := testConfig(t)
	cfg.Assets.Dir = t.TempDir()
	for _, name := range cfg.Assets.Files {
		if err := os.WriteFile(filepath.Join(cfg.Assets.Dir, name), []byte(name), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := run(t, cfg, WithMode(ModePublish)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Output.SiteFilesDir(), "publish.js")); err != nil {
		t.Errorf("publish.js not copied: %v", err)
	}
}

func TestRun_PublishMissingAsset(t *testing.T) {
	cfg := testConfig(t)
	cfg.Assets.Dir = t.TempDir()
	if err := run(t, cfg, WithMode(ModePublish)); err == nil {
		t.Fatal("expected error for missing asset")
	}
}

func TestRun_ImportThenGenerate(t *testing.T) {
	cfg := NewDefaultConfig()
	dir := t.TempDir()
	cfg.Database.Path = filepath.Join(dir, "responses.db")
	cfg.Output.BaseDir = filepath.Join(dir, "output")

	src := filepath.Join(dir, "entries.yaml")
	doc := "entries:\n  - id: m\n  - id: a\n    up: [m]\n  - id: lone\n"
	if err := os.WriteFile(src, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := run(t, cfg, WithMode(ModeImport), WithImportFile(src)); err != nil {
		t.Fatalf("import: %v", err)
	}
	if err := run(t, cfg); err != nil {
		t.Fatalf("generate: %v", err)
	}
	idx, _ := os.ReadFile(cfg.Output.IndexPath())
	if !strings.Contains(string(idx), ">[!note]+ [[a]]\n>No sub-entries found.\n") {
		t.Errorf("index:\n%s", idx)
	}
	if !strings.Contains(string(idx), "- [[lone]]\n") {
		t.Errorf("orphan missing:\n%s", idx)
	}
}

func TestRun_ImportRequiresFile(t *testing.T) {
	cfg := testConfig(t)
	if err := run(t, cfg, WithMode(ModeImport)); err == nil {
		t.Fatal("expected error without import file")
	}
}

func TestRun_UnknownMode(t *testing.T) {
	cfg := testConfig(t)
	if err := run(t, cfg, WithMode("explode")); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}
