package refsync

import (
	"reflect"
	"testing"

	"github.com/radiopartizan/theia/internal/config"
	"github.com/radiopartizan/theia/internal/testutil"
	"github.com/radiopartizan/theia/internal/workspace"
)

const starterManifest = `{
  "compilerOptions": {
    "composite": true,
    "rootDir": "src",
    "outDir": "lib"
  },
  "references": []
}
`

// fixture lays the packages out on disk and builds the workspace context
// over them.
func fixture(t *testing.T, specs []testutil.PackageSpec) *workspace.Context {
	t.Helper()
	root := testutil.WriteWorkspace(t, specs)
	pkgs := make([]workspace.Package, 0, len(specs))
	for _, s := range specs {
		pkgs = append(pkgs, workspace.Package{Name: s.Name, Location: s.Location, Dependencies: s.Deps})
	}
	ws, err := workspace.New(root, config.Default(), pkgs)
	if err != nil {
		t.Fatalf("building workspace: %v", err)
	}
	return ws
}

func targetFor(t *testing.T, ws *workspace.Context, name string) Target {
	t.Helper()
	for _, tt := range Targets(ws) {
		if tt.Pkg.Name == name {
			return tt
		}
	}
	t.Fatalf("no target for package %s", name)
	return Target{}
}

func TestResolve_directDeps(t *testing.T) {
	ws := fixture(t, []testutil.PackageSpec{
		{Name: "a", Location: "packages/a", Manifest: starterManifest},
		{Name: "b", Location: "packages/b", Deps: []string{"a"}, Manifest: starterManifest},
	})
	refs, err := Resolve(ws, targetFor(t, ws, "b"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"../a/tsconfig.json"}; !reflect.DeepEqual(refs, want) {
		t.Errorf("refs = %v, want %v", refs, want)
	}
}

func TestResolve_skipsManifestlessDep(t *testing.T) {
	ws := fixture(t, []testutil.PackageSpec{
		{Name: "a", Location: "packages/a"},
		{Name: "b", Location: "packages/b", Deps: []string{"a"}, Manifest: starterManifest},
	})
	refs, err := Resolve(ws, targetFor(t, ws, "b"))
	if err != nil {
		t.Fatal(err)
	}
	if len(refs) != 0 {
		t.Errorf("a dependency without a manifest must not produce a reference, got %v", refs)
	}
}

func TestResolve_skipsUnknownDep(t *testing.T) {
	ws := fixture(t, []testutil.PackageSpec{
		{Name: "b", Location: "packages/b", Deps: []string{"lodash"}, Manifest: starterManifest},
	})
	refs, err := Resolve(ws, targetFor(t, ws, "b"))
	if err != nil {
		t.Fatal(err)
	}
	if len(refs) != 0 {
		t.Errorf("registry dependencies must not produce references, got %v", refs)
	}
}

func TestResolve_rootPseudoPackage(t *testing.T) {
	ws := fixture(t, []testutil.PackageSpec{
		{Name: "a", Location: "packages/a", Manifest: starterManifest},
		{Name: "b", Location: "packages/b", Manifest: starterManifest},
	})
	refs, err := Resolve(ws, targetFor(t, ws, workspace.RootPseudoName))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"../packages/a/tsconfig.json", "../packages/b/tsconfig.json"}
	if !reflect.DeepEqual(refs, want) {
		t.Errorf("root refs = %v, want %v", refs, want)
	}
}

func TestResolve_deterministicOrder(t *testing.T) {
	ws := fixture(t, []testutil.PackageSpec{
		{Name: "zeta", Location: "packages/zeta", Manifest: starterManifest},
		{Name: "alpha", Location: "packages/alpha", Manifest: starterManifest},
		{Name: "mid", Location: "packages/mid", Manifest: starterManifest},
		{Name: "app", Location: "packages/app", Deps: []string{"zeta", "mid", "alpha"}, Manifest: starterManifest},
	})
	want := []string{"../alpha/tsconfig.json", "../mid/tsconfig.json", "../zeta/tsconfig.json"}
	for range 3 {
		refs, err := Resolve(ws, targetFor(t, ws, "app"))
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(refs, want) {
			t.Errorf("refs = %v, want sorted %v", refs, want)
		}
	}
}
