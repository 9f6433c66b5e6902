package refsync

import (
	"errors"
	"fmt"

	"github.com/radiopartizan/theia/internal/logging"
	"github.com/radiopartizan/theia/internal/workspace"
)

// ErrDrift signals that manifests needed changes. Commands return it so
// the process can exit with the dedicated drift status.
var ErrDrift = errors.New("manifests out of sync")

// Options control a synchronizer run. The two flags are independent:
// DryRun suppresses every write while keeping the reported state, and
// ForceRewrite writes even clean manifests to normalize their form.
type Options struct {
	DryRun       bool
	ForceRewrite bool
}

// Result aggregates every pass of a run.
type Result struct {
	Targets    []TargetResult `json:"targets"`
	Navigation NavResult      `json:"navigation"`
}

// Changed reports whether any manifest needed changes, independent of
// whether anything was written.
func (r *Result) Changed() bool {
	for _, t := range r.Targets {
		if t.State == StateDrift {
			return true
		}
	}
	return r.Navigation.Changed
}

// Run synchronizes every build manifest and then the navigation manifest,
// strictly in order. The first fatal error aborts the run; files already
// rewritten stay rewritten, later ones stay untouched.
func Run(ws *workspace.Context, opts Options) (*Result, error) {
	log := logging.GetLogger("refsync")
	res := &Result{}
	for _, t := range Targets(ws) {
		desired, err := Resolve(ws, t)
		if err != nil {
			return nil, err
		}
		tr, err := syncTarget(ws, t, desired, opts)
		if err != nil {
			return nil, fmt.Errorf("package %s: %w", t.Pkg.Name, err)
		}
		log.Debug().Str("package", tr.Package).Str("state", string(tr.State)).
			Int("added", len(tr.Added)).Int("dropped", len(tr.Dropped)).
			Bool("rewritten", tr.Rewritten).Msg("manifest pass")
		res.Targets = append(res.Targets, tr)
	}

	nav, err := syncNavigation(ws, opts)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("manifest", nav.Manifest).Bool("changed", nav.Changed).
		Int("aliases", len(nav.Updated)).Msg("navigation pass")
	res.Navigation = nav
	return res, nil
}
