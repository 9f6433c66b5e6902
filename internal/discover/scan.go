package discover

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/radiopartizan/theia/internal/workspace"
	"gopkg.in/yaml.v3"
)

// ScanProvider discovers packages by reading the workspace glob
// declaration (pnpm-workspace.yaml, or the workspaces field of the root
// package.json) and probing every matching directory for a package.json.
type ScanProvider struct{}

func (p *ScanProvider) Discover(root string) ([]workspace.Package, error) {
	globs, err := workspaceGlobs(root)
	if err != nil {
		return nil, err
	}
	dirs, err := matchPackageDirs(root, globs)
	if err != nil {
		return nil, err
	}

	type entry struct {
		meta packageJSON
		dir  string
	}
	var entries []entry
	names := make(map[string]bool)
	for _, dir := range dirs {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(dir), "package.json"))
		if errors.Is(err, os.ErrNotExist) {
			// A matched directory without a package.json is not a package.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path.Join(dir, "package.json"), err)
		}
		var meta packageJSON
		if err := json.Unmarshal(data, &meta); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path.Join(dir, "package.json"), err)
		}
		if meta.Name == "" {
			return nil, fmt.Errorf("%s: package name is required", path.Join(dir, "package.json"))
		}
		entries = append(entries, entry{meta, dir})
		names[meta.Name] = true
	}

	packages := make([]workspace.Package, 0, len(entries))
	for _, e := range entries {
		packages = append(packages, workspace.Package{
			Name:         e.meta.Name,
			Location:     e.dir,
			Dependencies: e.meta.workspaceDeps(names),
		})
	}
	return packages, nil
}

type packageJSON struct {
	Name                 string            `json:"name"`
	Dependencies         map[string]string `json:"dependencies"`
	DevDependencies      map[string]string `json:"devDependencies"`
	OptionalDependencies map[string]string `json:"optionalDependencies"`
	PeerDependencies     map[string]string `json:"peerDependencies"`
}

// workspaceDeps returns the union of all dependency sections, filtered to
// names that belong to the workspace. Self-references are dropped.
func (p *packageJSON) workspaceDeps(names map[string]bool) []string {
	seen := make(map[string]bool)
	var deps []string
	for _, section := range []map[string]string{
		p.Dependencies, p.DevDependencies, p.OptionalDependencies, p.PeerDependencies,
	} {
		for name := range section {
			if name == p.Name || !names[name] || seen[name] {
				continue
			}
			seen[name] = true
			deps = append(deps, name)
		}
	}
	sort.Strings(deps)
	return deps
}

// workspaceGlobs reads the package glob declaration. pnpm-workspace.yaml
// wins over the workspaces field of the root package.json.
func workspaceGlobs(root string) ([]string, error) {
	pnpmPath := filepath.Join(root, "pnpm-workspace.yaml")
	if data, err := os.ReadFile(pnpmPath); err == nil {
		var doc struct {
			Packages []string `yaml:"packages"`
		}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing pnpm-workspace.yaml: %w", err)
		}
		if len(doc.Packages) == 0 {
			return nil, fmt.Errorf("pnpm-workspace.yaml declares no packages")
		}
		return doc.Packages, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading pnpm-workspace.yaml: %w", err)
	}

	data, err := os.ReadFile(filepath.Join(root, "package.json"))
	if err != nil {
		return nil, fmt.Errorf("no workspace declaration found: %w", err)
	}
	var doc struct {
		Workspaces json.RawMessage `json:"workspaces"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing package.json: %w", err)
	}
	globs, err := parseWorkspacesField(doc.Workspaces)
	if err != nil {
		return nil, fmt.Errorf("package.json: %w", err)
	}
	if len(globs) == 0 {
		return nil, fmt.Errorf("package.json declares no workspaces")
	}
	return globs, nil
}

// parseWorkspacesField accepts both declaration shapes: a plain array of
// globs, or an object with a packages array.
func parseWorkspacesField(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var obj struct {
		Packages []string `json:"packages"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Packages, nil
	}
	return nil, fmt.Errorf("unsupported workspaces declaration")
}

// matchPackageDirs expands the globs against the workspace tree and
// returns the matching directories as sorted posix paths. Globs prefixed
// with ! subtract from the match set, and node_modules is never entered.
func matchPackageDirs(root string, globs []string) ([]string, error) {
	var positive, negative []string
	for _, g := range globs {
		if neg, ok := strings.CutPrefix(g, "!"); ok {
			negative = append(negative, neg)
		} else {
			positive = append(positive, g)
		}
	}

	fsys := os.DirFS(root)
	seen := make(map[string]bool)
	var dirs []string
	for _, g := range positive {
		matches, err := doublestar.Glob(fsys, g)
		if err != nil {
			return nil, fmt.Errorf("workspace glob %q: %w", g, err)
		}
	match:
		for _, m := range matches {
			// The workspace root itself is never a member.
			if m == "." || seen[m] || underNodeModules(m) {
				continue
			}
			info, err := fs.Stat(fsys, m)
			if err != nil || !info.IsDir() {
				continue
			}
			for _, n := range negative {
				if ok, _ := doublestar.Match(n, m); ok {
					continue match
				}
			}
			seen[m] = true
			dirs = append(dirs, m)
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

func underNodeModules(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if seg == "node_modules" {
			return true
		}
	}
	return false
}
