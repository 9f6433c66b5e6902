package refsync

import (
	"fmt"
	"path/filepath"

	"github.com/radiopartizan/theia/internal/logging"
	"github.com/radiopartizan/theia/internal/workspace"
)

// Resolve computes the reference paths a target's manifest should declare:
// one per direct dependency that has a build manifest on disk, relative to
// the target's directory, in the graph's normalized name order. Transitive
// dependencies are not expanded; each dependency's own reference chain
// carries build ordering further down.
func Resolve(ws *workspace.Context, t Target) ([]string, error) {
	log := logging.GetLogger("resolver")
	var refs []string
	for _, dep := range t.Pkg.Dependencies {
		depPkg, ok := ws.Graph[dep]
		if !ok {
			log.Debug().Str("package", t.Pkg.Name).Str("dependency", dep).
				Msg("dependency not in workspace, skipped")
			continue
		}
		manifest := ws.BuildManifestPath(depPkg)
		if !fileExists(manifest) {
			log.Debug().Str("package", t.Pkg.Name).Str("dependency", dep).
				Msg("dependency has no manifest, not buildable")
			continue
		}
		rel, err := filepath.Rel(t.BaseDir, manifest)
		if err != nil {
			return nil, fmt.Errorf("computing reference path %s -> %s: %w", t.Pkg.Name, dep, err)
		}
		refs = append(refs, filepath.ToSlash(rel))
	}
	return refs, nil
}
