package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/radiopartizan/theia/internal/testutil"
)

func TestRunDoctor_allChecksPass(t *testing.T) {
	root := setupWorkspace(t)

	stdout, _, err := execute(t, "--root", root, "doctor")
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, stdout)
	}
	if !strings.Contains(stdout, "All checks passed.") {
		t.Errorf("output = %q", stdout)
	}
}

func TestRunDoctor_missingNavigationManifest(t *testing.T) {
	root := setupWorkspace(t)
	if err := os.Remove(filepath.Join(root, "tsconfig.json")); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := execute(t, "--root", root, "doctor")
	if err == nil {
		t.Fatal("doctor should fail without the navigation manifest")
	}
	if !strings.Contains(stdout, "MISSING") {
		t.Errorf("output = %q", stdout)
	}
}

func TestRunDoctor_malformedManifest(t *testing.T) {
	root := setupWorkspace(t)
	testutil.WriteFile(t, root, "packages/a/tsconfig.json", "{ not json")

	stdout, _, err := execute(t, "--root", root, "doctor")
	if err == nil {
		t.Fatal("doctor should fail on a malformed manifest")
	}
	if !strings.Contains(stdout, "PARSE ERROR") {
		t.Errorf("output = %q", stdout)
	}
}

func TestRunDoctor_absentManifestIsOptOut(t *testing.T) {
	root := setupWorkspace(t)
	if err := os.Remove(filepath.Join(root, "packages", "a", "tsconfig.json")); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := execute(t, "--root", root, "doctor")
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, stdout)
	}
	if !strings.Contains(stdout, "absent (package opted out)") {
		t.Errorf("output = %q", stdout)
	}
}

func TestRunDoctor_danglingDependencyIsANote(t *testing.T) {
	root := setupWorkspace(t)
	testutil.WriteFile(t, root, ".theia.toml", `[discovery]
mode = "command"
command = ["echo", "{\"a\": {\"location\": \"packages/a\", \"workspaceDependencies\": []}, \"b\": {\"location\": \"packages/b\", \"workspaceDependencies\": [\"a\", \"left-pad\"]}}"]
`)

	stdout, _, err := execute(t, "--root", root, "doctor")
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, stdout)
	}
	if !strings.Contains(stdout, "left-pad") {
		t.Errorf("dangling dependency not noted: %q", stdout)
	}
}
