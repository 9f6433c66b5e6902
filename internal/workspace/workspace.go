package workspace

import (
	"fmt"
	"path/filepath"

	"github.com/radiopartizan/theia/internal/config"
)

// Context holds the resolved root, the effective settings, and the declared
// dependency graph for a workspace.
type Context struct {
	Root     string
	Settings config.Settings
	Graph    Graph
}

// New resolves the workspace root and builds the dependency graph from the
// discovered packages.
func New(root string, settings config.Settings, packages []Package) (*Context, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving workspace root: %w", err)
	}
	g, err := NewGraph(packages, settings.ConfigsDir)
	if err != nil {
		return nil, err
	}
	return &Context{Root: abs, Settings: settings, Graph: g}, nil
}

// PackageDir returns the absolute directory for a package.
func (c *Context) PackageDir(p Package) string {
	return filepath.Join(c.Root, filepath.FromSlash(p.Location))
}

// BuildManifestPath returns the absolute path of the build manifest owned
// by a package. The synthetic root package keeps its manifest under the
// configs directory with a distinct name, so it cannot clash with the
// navigation manifest at the workspace root.
func (c *Context) BuildManifestPath(p Package) string {
	if p.Name == RootPseudoName {
		return filepath.Join(c.PackageDir(p), c.Settings.RootManifestName)
	}
	return filepath.Join(c.PackageDir(p), c.Settings.ManifestName)
}

// NavigationManifestPath returns the absolute path of the root navigation
// manifest.
func (c *Context) NavigationManifestPath() string {
	return filepath.Join(c.Root, c.Settings.NavigationManifest)
}

// ConfigsDir returns the absolute directory holding the synthetic root
// package's manifest.
func (c *Context) ConfigsDir() string {
	return filepath.Join(c.Root, filepath.FromSlash(c.Settings.ConfigsDir))
}
