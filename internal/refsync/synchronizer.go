package refsync

import (
	"path/filepath"

	"github.com/radiopartizan/theia/internal/config"
	"github.com/radiopartizan/theia/internal/tsconfig"
	"github.com/radiopartizan/theia/internal/workspace"
)

// State classifies a build manifest after a pass.
type State string

const (
	// StateAbsent means the package has no manifest; it opted out and was
	// skipped.
	StateAbsent State = "absent"
	// StateClean means the manifest already matched the declared graph.
	StateClean State = "clean"
	// StateDrift means the manifest needed changes.
	StateDrift State = "drift"
)

// DroppedReference records a reference removed from a manifest and why.
type DroppedReference struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// TargetResult is the outcome of one build-manifest pass. State reflects
// what the manifest needed; Rewritten reflects what happened on disk, and
// the two disagree under dry-run and force-rewrite.
type TargetResult struct {
	Package        string             `json:"package"`
	Manifest       string             `json:"manifest"`
	State          State              `json:"state"`
	Added          []string           `json:"added,omitempty"`
	Dropped        []DroppedReference `json:"dropped,omitempty"`
	CompositeFixed bool               `json:"compositeFixed,omitempty"`
	Rewritten      bool               `json:"rewritten,omitempty"`
}

// syncTarget folds the resolver output into one build manifest. The
// manifest is rewritten whole on drift; a missing manifest is a silent
// skip, a malformed one is fatal.
func syncTarget(ws *workspace.Context, t Target, desired []string, opts Options) (TargetResult, error) {
	res := TargetResult{
		Package:  t.Pkg.Name,
		Manifest: relPath(ws, t.ManifestPath),
		State:    StateAbsent,
	}
	if !fileExists(t.ManifestPath) {
		return res, nil
	}
	cfg, err := tsconfig.Load(t.ManifestPath)
	if err != nil {
		return res, err
	}

	res.CompositeFixed = ensureComposite(cfg, ws.Settings)
	kept, canon, dropped := filterReferences(t, cfg.References, ws.Settings.ManifestName)
	additions := missingReferences(t, canon, desired)

	res.Dropped = dropped
	for _, a := range additions {
		res.Added = append(res.Added, a.Path)
	}
	if res.CompositeFixed || len(dropped) > 0 || len(additions) > 0 {
		res.State = StateDrift
	} else {
		res.State = StateClean
	}

	if len(dropped) > 0 || len(additions) > 0 {
		cfg.SetReferences(append(kept, additions...))
	}
	if (res.State == StateDrift || opts.ForceRewrite) && !opts.DryRun {
		if err := tsconfig.Save(t.ManifestPath, cfg); err != nil {
			return res, err
		}
		res.Rewritten = true
	}
	return res, nil
}

// ensureComposite forces incremental compilation on. A missing options
// block is synthesized from the workspace defaults; an existing block only
// has its composite flag corrected. Returns whether anything changed.
func ensureComposite(cfg *tsconfig.Config, s config.Settings) bool {
	on := true
	if cfg.CompilerOptions == nil {
		cfg.CompilerOptions = &tsconfig.CompilerOptions{
			Composite: &on,
			RootDir:   s.RootDir,
			OutDir:    s.OutDir,
		}
		return true
	}
	if cfg.CompilerOptions.Composite == nil || !*cfg.CompilerOptions.Composite {
		cfg.CompilerOptions.Composite = &on
		return true
	}
	return false
}

// filterReferences validates the existing reference list. Each kept entry
// retains its original spelling; validity and dedup both work on the
// resolved manifest path, so a directory-form and a file-form reference to
// the same dependency count as one.
func filterReferences(t Target, refs []tsconfig.Reference, manifestName string) (kept []tsconfig.Reference, canon map[string]bool, dropped []DroppedReference) {
	canon = make(map[string]bool, len(refs))
	for _, ref := range refs {
		target, reason := resolveReference(t.BaseDir, ref.Path, manifestName)
		if reason != "" {
			dropped = append(dropped, DroppedReference{Path: ref.Path, Reason: reason})
			continue
		}
		if canon[target] {
			dropped = append(dropped, DroppedReference{Path: ref.Path, Reason: "duplicate reference"})
			continue
		}
		canon[target] = true
		kept = append(kept, ref)
	}
	return kept, canon, dropped
}

// missingReferences returns the desired references not already covered by
// the kept set, as manifest-relative entries in resolver order.
func missingReferences(t Target, canon map[string]bool, desired []string) []tsconfig.Reference {
	var additions []tsconfig.Reference
	for _, d := range desired {
		key := canonicalTarget(t.BaseDir, d)
		if canon[key] {
			continue
		}
		canon[key] = true
		additions = append(additions, tsconfig.Reference{Path: d})
	}
	return additions
}

// resolveReference resolves one reference string against the manifest
// directory. An empty reason means the reference is valid and target holds
// its canonical manifest path.
func resolveReference(baseDir, ref, manifestName string) (target, reason string) {
	abs := filepath.Join(baseDir, filepath.FromSlash(ref))
	switch {
	case fileExists(abs):
		return filepath.Clean(abs), ""
	case dirExists(abs):
		nested := filepath.Join(abs, manifestName)
		if fileExists(nested) {
			return filepath.Clean(nested), ""
		}
		return "", "no manifest in target directory"
	default:
		return "", "target does not exist"
	}
}

func canonicalTarget(baseDir, ref string) string {
	return filepath.Clean(filepath.Join(baseDir, filepath.FromSlash(ref)))
}
