package workspace

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// RootPseudoName identifies the synthetic package standing in for the whole
// repository. Parentheses are illegal in npm package names, so it can never
// collide with a real workspace package.
const RootPseudoName = "(root)"

// Package is one unit of the workspace: a published name, a root-relative
// location in posix form, and the names of the workspace packages it
// depends on.
type Package struct {
	Name         string
	Location     string
	Dependencies []string
}

// Graph is the declared dependency graph keyed by package name, including
// the synthetic root package that depends on every other one.
type Graph map[string]Package

// NewGraph validates the declared packages, installs the synthetic root
// package at configsDir, and rejects dependency cycles. Dependency lists
// are deduplicated and sorted, so every later walk is deterministic.
func NewGraph(packages []Package, configsDir string) (Graph, error) {
	g := make(Graph, len(packages)+1)
	locations := make(map[string]string, len(packages))
	for i, p := range packages {
		if p.Name == "" {
			return nil, fmt.Errorf("graph: packages[%d].name is required", i)
		}
		if p.Name == RootPseudoName {
			return nil, fmt.Errorf("graph: package name %q is reserved", RootPseudoName)
		}
		if _, ok := g[p.Name]; ok {
			return nil, fmt.Errorf("graph: duplicate package name %q", p.Name)
		}
		if p.Location == "" {
			return nil, fmt.Errorf("graph: package %s: location is required", p.Name)
		}
		if err := validateLocation(p.Location, p.Name); err != nil {
			return nil, err
		}
		p.Location = path.Clean(p.Location)
		if other, ok := locations[p.Location]; ok {
			return nil, fmt.Errorf("graph: packages %s and %s share location %s", other, p.Name, p.Location)
		}
		locations[p.Location] = p.Name
		p.Dependencies = normalizeDeps(p.Dependencies)
		g[p.Name] = p
	}

	root := Package{
		Name:     RootPseudoName,
		Location: path.Clean(filepath.ToSlash(configsDir)),
	}
	for name := range g {
		root.Dependencies = append(root.Dependencies, name)
	}
	sort.Strings(root.Dependencies)
	g[RootPseudoName] = root

	if err := g.detectCycle(); err != nil {
		return nil, err
	}
	return g, nil
}

// Names returns the real package names in sorted order, excluding the
// synthetic root.
func (g Graph) Names() []string {
	names := make([]string, 0, len(g)-1)
	for name := range g {
		if name != RootPseudoName {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Root returns the synthetic whole-repository package.
func (g Graph) Root() Package {
	return g[RootPseudoName]
}

// detectCycle walks the declared edges depth-first and reports the first
// cycle found with its member path spelled out. Edges to names outside the
// graph are not edges.
func (g Graph) detectCycle() error {
	done := make(map[string]bool, len(g))
	inPath := make(map[string]bool, len(g))
	var stack []string

	var visit func(name string) error
	visit = func(name string) error {
		if done[name] {
			return nil
		}
		if inPath[name] {
			start := 0
			for i, n := range stack {
				if n == name {
					start = i
					break
				}
			}
			cycle := append(append([]string{}, stack[start:]...), name)
			return fmt.Errorf("dependency cycle: %s", strings.Join(cycle, " -> "))
		}
		inPath[name] = true
		stack = append(stack, name)
		for _, dep := range g[name].Dependencies {
			if _, ok := g[dep]; !ok {
				continue
			}
			if err := visit(dep); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		inPath[name] = false
		done[name] = true
		return nil
	}

	for _, name := range g.Names() {
		if err := visit(name); err != nil {
			return err
		}
	}
	return nil
}

func normalizeDeps(deps []string) []string {
	seen := make(map[string]bool, len(deps))
	out := make([]string, 0, len(deps))
	for _, d := range deps {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Strings(out)
	return out
}

// validateLocation ensures a location is relative and does not escape the
// workspace.
func validateLocation(loc, name string) error {
	if path.IsAbs(loc) {
		return fmt.Errorf("graph: package %s: absolute location is not allowed: %s", name, loc)
	}
	cleaned := path.Clean(loc)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return fmt.Errorf("graph: package %s: location must not escape workspace (contains ..): %s", name, loc)
	}
	return nil
}
