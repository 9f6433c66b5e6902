package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/radiopartizan/theia/internal/refsync"
	"github.com/radiopartizan/theia/internal/testutil"
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

// setupWorkspace lays out an a/b/c package chain with starter manifests,
// the root compilation manifest, and the navigation manifest, so the first
// sync has reference edges to add everywhere.
func setupWorkspace(t *testing.T) string {
	t.Helper()
	root := testutil.WriteWorkspace(t, []testutil.PackageSpec{
		{Name: "a", Location: "packages/a", Manifest: starterManifest, SrcDir: true},
		{Name: "b", Location: "packages/b", Deps: []string{"a"}, Manifest: starterManifest, SrcDir: true},
		{Name: "c", Location: "packages/c", Deps: []string{"a", "b"}, Manifest: starterManifest, SrcDir: true},
	})
	testutil.WriteFile(t, root, "configs/root-compilation.tsconfig.json", `{
  "compilerOptions": {
    "composite": true
  },
  "files": [],
  "references": []
}
`)
	testutil.WriteFile(t, root, "tsconfig.json", `{
  "compilerOptions": {
    "baseUrl": ".",
    "paths": {}
  }
}
`)
	return root
}

// execute runs the CLI with captured streams.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	root := newRootCmd()
	var out, errBuf bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errBuf)
	root.SetArgs(args)
	err = root.Execute()
	return out.String(), errBuf.String(), err
}

func TestRunSync_firstRunRepairsDrift(t *testing.T) {
	root := setupWorkspace(t)

	stdout, _, err := execute(t, "--root", root, "sync")
	if !errors.Is(err, refsync.ErrDrift) {
		t.Fatalf("first sync should report drift, got %v", err)
	}
	if !strings.Contains(stdout, "4 manifests updated") {
		t.Errorf("summary = %q", stdout)
	}

	b := testutil.ReadFile(t, root, "packages/b/tsconfig.json")
	if !strings.Contains(b, `"path": "../a/tsconfig.json"`) {
		t.Errorf("b manifest missing reference to a:\n%s", b)
	}
	nav := testutil.ReadFile(t, root, "tsconfig.json")
	if !strings.Contains(nav, `"c/lib/*"`) || !strings.Contains(nav, `"packages/c/src/*"`) {
		t.Errorf("navigation manifest missing alias for c:\n%s", nav)
	}
}

func TestRunSync_secondRunIsClean(t *testing.T) {
	root := setupWorkspace(t)

	if _, _, err := execute(t, "--root", root, "sync"); !errors.Is(err, refsync.ErrDrift) {
		t.Fatalf("first sync: %v", err)
	}
	stdout, _, err := execute(t, "--root", root, "sync")
	if err != nil {
		t.Fatalf("second sync should be clean, got %v", err)
	}
	if !strings.Contains(stdout, "all manifests in sync (3 packages)") {
		t.Errorf("summary = %q", stdout)
	}
}

func TestRunSync_dryRunWritesNothing(t *testing.T) {
	root := setupWorkspace(t)

	stdout, _, err := execute(t, "--root", root, "sync", "--dry-run")
	if !errors.Is(err, refsync.ErrDrift) {
		t.Fatalf("dry run should preserve the drift signal, got %v", err)
	}
	if !strings.Contains(stdout, "dry run, nothing written") {
		t.Errorf("summary = %q", stdout)
	}
	if got := testutil.ReadFile(t, root, "packages/b/tsconfig.json"); got != starterManifest {
		t.Errorf("dry run mutated b's manifest:\n%s", got)
	}
}

func TestRunSync_dropsInvalidReference(t *testing.T) {
	root := setupWorkspace(t)
	testutil.WriteFile(t, root, "packages/a/tsconfig.json", `{
  "compilerOptions": {
    "composite": true,
    "rootDir": "src",
    "outDir": "lib"
  },
  "references": [{ "path": "../ghost" }]
}
`)

	_, stderr, err := execute(t, "--root", root, "sync")
	if !errors.Is(err, refsync.ErrDrift) {
		t.Fatalf("sync: %v", err)
	}
	if !strings.Contains(stderr, "dropping reference ../ghost") {
		t.Errorf("stderr = %q", stderr)
	}
	if got := testutil.ReadFile(t, root, "packages/a/tsconfig.json"); strings.Contains(got, "ghost") {
		t.Errorf("invalid reference survived the rewrite:\n%s", got)
	}
}

func TestRunSync_forceRewriteKeepsExitZero(t *testing.T) {
	root := setupWorkspace(t)
	if _, _, err := execute(t, "--root", root, "sync"); !errors.Is(err, refsync.ErrDrift) {
		t.Fatalf("first sync: %v", err)
	}

	// Mangle a clean manifest's formatting without changing its meaning.
	testutil.WriteFile(t, root, "packages/a/tsconfig.json",
		`{"references":[],"compilerOptions":{"outDir":"lib","rootDir":"src","composite":true}}`)

	stdout, stderr, err := execute(t, "--root", root, "sync", "--force-rewrite")
	if err != nil {
		t.Fatalf("force rewrite of a clean workspace should exit zero, got %v", err)
	}
	if !strings.Contains(stdout, "all manifests in sync") {
		t.Errorf("summary = %q", stdout)
	}
	if !strings.Contains(stderr, "rewritten in canonical form") {
		t.Errorf("stderr = %q", stderr)
	}
	if got := testutil.ReadFile(t, root, "packages/a/tsconfig.json"); got != starterManifest {
		t.Errorf("manifest not normalized:\n%s", got)
	}
}

func TestRunSync_parseErrorIsFatal(t *testing.T) {
	root := setupWorkspace(t)
	testutil.WriteFile(t, root, "packages/b/tsconfig.json", "{ not json")

	_, _, err := execute(t, "--root", root, "sync")
	if err == nil || errors.Is(err, refsync.ErrDrift) {
		t.Fatalf("err = %v, want a fatal parse error", err)
	}
	if !strings.Contains(err.Error(), "package b") {
		t.Errorf("error should name the package: %v", err)
	}
}
