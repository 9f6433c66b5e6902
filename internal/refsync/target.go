package refsync

import (
	"os"
	"path/filepath"

	"github.com/radiopartizan/theia/internal/workspace"
)

// Target is one build manifest the synchronizer owns: the package it
// belongs to, the manifest's absolute path, and the directory reference
// paths are computed relative to. The synthetic root package flows through
// the same shape; only its manifest location differs.
type Target struct {
	Pkg          workspace.Package
	ManifestPath string
	BaseDir      string
}

// Targets lists every build manifest of the workspace in deterministic
// order: real packages sorted by name, the synthetic root last.
func Targets(ws *workspace.Context) []Target {
	names := ws.Graph.Names()
	targets := make([]Target, 0, len(names)+1)
	for _, name := range names {
		targets = append(targets, newTarget(ws, ws.Graph[name]))
	}
	targets = append(targets, newTarget(ws, ws.Graph.Root()))
	return targets
}

func newTarget(ws *workspace.Context, p workspace.Package) Target {
	return Target{
		Pkg:          p,
		ManifestPath: ws.BuildManifestPath(p),
		BaseDir:      ws.PackageDir(p),
	}
}

// relPath renders an absolute path workspace-relative in posix form for
// display.
func relPath(ws *workspace.Context, abs string) string {
	rel, err := filepath.Rel(ws.Root, abs)
	if err != nil {
		return filepath.ToSlash(abs)
	}
	return filepath.ToSlash(rel)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
