package refsync

import (
	"fmt"
	"path"
	"path/filepath"

	"github.com/radiopartizan/theia/internal/tsconfig"
	"github.com/radiopartizan/theia/internal/workspace"
)

// NavResult is the outcome of the navigation-manifest pass.
type NavResult struct {
	Manifest  string   `json:"manifest"`
	Updated   []string `json:"updated,omitempty"`
	Changed   bool     `json:"changed"`
	Rewritten bool     `json:"rewritten,omitempty"`
}

// syncNavigation rebuilds the alias table of the root navigation manifest
// from the whole-repository dependency set. Aliases the tool does not own
// are never pruned, and an alias slot holding several targets only has its
// first one synchronized. Unlike build manifests, a missing or malformed
// navigation manifest is fatal.
func syncNavigation(ws *workspace.Context, opts Options) (NavResult, error) {
	manifestPath := ws.NavigationManifestPath()
	res := NavResult{Manifest: relPath(ws, manifestPath)}

	cfg, err := tsconfig.Load(manifestPath)
	if err != nil {
		return res, fmt.Errorf("navigation manifest: %w", err)
	}

	changed := false
	if cfg.CompilerOptions == nil {
		cfg.CompilerOptions = &tsconfig.CompilerOptions{
			BaseURL: ".",
			Paths:   map[string][]string{},
		}
		changed = true
	} else if cfg.CompilerOptions.Paths == nil {
		cfg.CompilerOptions.Paths = map[string][]string{}
		changed = true
	}

	aliases := cfg.CompilerOptions.Paths
	for _, name := range ws.Graph.Root().Dependencies {
		pattern, value := AliasFor(ws, ws.Graph[name])
		slot := aliases[pattern]
		switch {
		case len(slot) == 0:
			aliases[pattern] = []string{value}
		case slot[0] != value:
			slot[0] = value
		default:
			continue
		}
		res.Updated = append(res.Updated, pattern)
		changed = true
	}

	res.Changed = changed
	if (changed || opts.ForceRewrite) && !opts.DryRun {
		if err := tsconfig.Save(manifestPath, cfg); err != nil {
			return res, err
		}
		res.Rewritten = true
	}
	return res, nil
}

// AliasFor computes the alias pair for one package. A buildable package
// (manifest plus source directory on disk) gets its compiled-output import
// prefix mapped back to live source; anything else gets a package-root
// fallback.
func AliasFor(ws *workspace.Context, pkg workspace.Package) (pattern, value string) {
	s := ws.Settings
	manifest := ws.BuildManifestPath(pkg)
	srcDir := filepath.Join(ws.PackageDir(pkg), filepath.FromSlash(s.RootDir))
	if fileExists(manifest) && dirExists(srcDir) {
		return path.Join(pkg.Name, s.OutDir) + "/*", path.Join(pkg.Location, s.RootDir) + "/*"
	}
	return pkg.Name + "/*", pkg.Location + "/*"
}
