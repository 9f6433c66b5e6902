package testutil

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// PackageSpec describes one fixture package.
type PackageSpec struct {
	Name     string
	Location string
	Deps     []string
	Manifest string // tsconfig.json content, empty means none
	SrcDir   bool   // create Location/src
}

// WriteWorkspace lays out a yarn-style fixture workspace in a temp
// directory: a root package.json declaring the package globs, and one
// package.json per package carrying its name and workspace dependencies.
// Returns the workspace root.
func WriteWorkspace(t *testing.T, packages []PackageSpec) string {
	t.Helper()
	root := t.TempDir()

	seen := make(map[string]bool)
	var globs []string
	for _, p := range packages {
		g := path.Dir(p.Location) + "/*"
		if path.Dir(p.Location) == "." {
			g = "*"
		}
		if !seen[g] {
			seen[g] = true
			globs = append(globs, g)
		}
	}
	sort.Strings(globs)

	quoted := make([]string, len(globs))
	for i, g := range globs {
		quoted[i] = fmt.Sprintf("%q", g)
	}
	rootPkg := fmt.Sprintf("{\n  \"name\": \"fixture\",\n  \"private\": true,\n  \"workspaces\": [%s]\n}\n", strings.Join(quoted, ", "))
	WriteFile(t, root, "package.json", rootPkg)

	for _, p := range packages {
		WritePackage(t, root, p)
	}
	return root
}

// WritePackage creates one package directory with its package.json and,
// when requested, its manifest and source directory.
func WritePackage(t *testing.T, root string, p PackageSpec) {
	t.Helper()
	var deps []string
	for _, d := range p.Deps {
		deps = append(deps, fmt.Sprintf("%q: %q", d, "*"))
	}
	meta := fmt.Sprintf("{\n  \"name\": %q,\n  \"dependencies\": {%s}\n}\n", p.Name, strings.Join(deps, ", "))
	WriteFile(t, root, path.Join(p.Location, "package.json"), meta)
	if p.Manifest != "" {
		WriteFile(t, root, path.Join(p.Location, "tsconfig.json"), p.Manifest)
	}
	if p.SrcDir {
		dir := filepath.Join(root, filepath.FromSlash(p.Location), "src")
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
	}
}

// WriteFile writes a file under root, creating parent directories.
func WriteFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil { //nolint:gosec // test file
		t.Fatal(err)
	}
}

// ReadFile reads a file under root.
func ReadFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}
