package web

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetAssets(t *testing.T) {
	assets := GetAssets("")
	if assets == nil {
		t.Fatal("GetAssets returned nil")
	}

	for _, name := range []string{"index.html", "app.js", "style.css"} {
		stat, err := fs.Stat(assets, name)
		if err != nil {
			t.Fatalf("failed to stat %s: %v", name, err)
		}
		if stat.IsDir() {
			t.Errorf("%s is a directory, expected file", name)
		}
		if stat.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}

func TestIndexLoadsScript(t *testing.T) {
	data, err := fs.ReadFile(GetAssets(""), "index.html")
	if err != nil {
		t.Fatalf("failed to read index.html: %v", err)
	}
	for _, want := range []string{`src="app.js"`, `id="response"`, `data-action="create"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("index.html missing %q", want)
		}
	}
}

func TestScriptUsesConsoleEndpoints(t *testing.T) {
	data, err := fs.ReadFile(GetAssets(""), "app.js")
	if err != nil {
		t.Fatalf("failed to read app.js: %v", err)
	}
	for _, want := range []string{"/api/console", "/api/actions/"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("app.js missing %q", want)
		}
	}
}

func TestGetAssetsWithBase(t *testing.T) {
	// A missing development copy falls back to the embedded assets
	assets := GetAssetsWithBase("/nonexistent/path")
	if _, err := fs.Stat(assets, "index.html"); err != nil {
		t.Fatalf("failed to open index.html: %v", err)
	}
}

func TestGetAssetsPrefersDevelopmentCopy(t *testing.T) {
	base := t.TempDir()
	dist := filepath.Join(base, "web", "dist")
	if err := os.MkdirAll(dist, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dist, "index.html"), []byte("dev"), 0o644); err != nil {
		t.Fatal(err)
	}

	data, err := fs.ReadFile(GetAssetsWithBase(base), "index.html")
	if err != nil {
		t.Fatalf("failed to read index.html: %v", err)
	}
	if string(data) != "dev" {
		t.Errorf("got %q, want the development copy", data)
	}
}
