package main

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/radiopartizan/theia/internal/testutil"
)

func TestRunGraph_table(t *testing.T) {
	root := setupWorkspace(t)

	stdout, _, err := execute(t, "--root", root, "graph")
	if err != nil {
		t.Fatalf("graph: %v", err)
	}
	if !strings.Contains(stdout, "PACKAGE") {
		t.Errorf("missing header: %q", stdout)
	}
	if !strings.Contains(stdout, "a, b") {
		t.Errorf("c's dependencies not rendered: %q", stdout)
	}
}

func TestRunGraph_json(t *testing.T) {
	root := setupWorkspace(t)

	stdout, _, err := execute(t, "--root", root, "graph", "--json")
	if err != nil {
		t.Fatalf("graph --json: %v", err)
	}
	var nodes []graphNode
	if jerr := json.Unmarshal([]byte(stdout), &nodes); jerr != nil {
		t.Fatalf("invalid JSON: %v", jerr)
	}
	if len(nodes) != 3 {
		t.Fatalf("nodes = %d, want 3", len(nodes))
	}
	if nodes[2].Name != "c" || len(nodes[2].Dependencies) != 2 {
		t.Errorf("c = %+v", nodes[2])
	}
}

func TestRunGraph_cycleIsFatal(t *testing.T) {
	root := testutil.WriteWorkspace(t, []testutil.PackageSpec{
		{Name: "a", Location: "packages/a", Deps: []string{"b"}},
		{Name: "b", Location: "packages/b", Deps: []string{"a"}},
	})

	_, _, err := execute(t, "--root", root, "graph")
	if err == nil || !strings.Contains(err.Error(), "dependency cycle") {
		t.Fatalf("err = %v, want cycle error", err)
	}
}
