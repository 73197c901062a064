package sitefiles

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/starford/vaultgen/internal/testutil"
)

func writeAsset(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestPublish_DefaultFiles(t *testing.T) {
	src := t.TempDir()
	writeAsset(t, src, "publish.css", "body{}")
	writeAsset(t, src, "publish.js", "console.log(1)")
	vault, store := testutil.TestVault(t)

	p := &Publisher{SourceDir: src, TargetDir: "site files", Store: store}
	written, err := p.Publish()
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if !slices.Equal(written, []string{"site files/publish.css", "site files/publish.js"}) {
		t.Errorf("written = %v", written)
	}
	got, err := os.ReadFile(filepath.Join(vault, "site files", "publish.css"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "body{}" {
		t.Errorf("css = %q", got)
	}
}

func TestPublish_OverwritesExisting(t *testing.T) {
	src := t.TempDir()
	writeAsset(t, src, "theme.css", "new")
	vault, store := testutil.TestVault(t)
	if err := store.Write("site files/theme.css", []byte("old")); err != nil {
		t.Fatal(err)
	}

	p := &Publisher{SourceDir: src, TargetDir: "site files", Files: []string{"theme.css"}, Store: store}
	if _, err := p.Publish(); err != nil {
		t.Fatal(err)
	}
	got, _ := os.ReadFile(filepath.Join(vault, "site files", "theme.css"))
	if string(got) != "new" {
		t.Errorf("theme.css = %q", got)
	}
}

func TestPublish_MissingSource(t *testing.T) {
	src := t.TempDir()
	writeAsset(t, src, "publish.css", "body{}")
	_, store := testutil.TestVault(t)

	p := &Publisher{SourceDir: src, TargetDir: "site files", Store: store}
	written, err := p.Publish()
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("err = %v, want not-exist", err)
	}
	if len(written) != 1 {
		t.Errorf("written = %v", written)
	}
}
