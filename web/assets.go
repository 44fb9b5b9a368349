// Package web provides the embedded browser console.
//
// The dist/ directory is embedded at build time. During development, if
// dist/ exists on the filesystem it is served instead, so page edits show
// up without rebuilding the binary.
package web

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
)

// assets holds the browser console files from dist/.
//
//go:embed dist/*
var assets embed.FS

// GetAssets returns a filesystem containing the browser console.
// When devPath names an existing directory it is returned as a live
// filesystem; otherwise the embedded copy is used.
//
// If devPath is empty, it defaults to "./web/dist" (relative to the working
// directory).
func GetAssets(devPath string) fs.FS {
	if devPath == "" {
		devPath = "./web/dist"
	}

	if stat, err := os.Stat(devPath); err == nil && stat.IsDir() {
		return os.DirFS(devPath)
	}

	// The embedded FS has a "dist/" prefix.
	subFS, err := fs.Sub(assets, "dist")
	if err != nil {
		panic("failed to access embedded web assets: " + err.Error())
	}
	return subFS
}

// GetAssetsWithBase returns the console assets, checking for a development
// copy under baseDir/web/dist.
func GetAssetsWithBase(baseDir string) fs.FS {
	return GetAssets(filepath.Join(baseDir, "web", "dist"))
}
