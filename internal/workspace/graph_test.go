package workspace

import (
	"reflect"
	"strings"
	"testing"
)

func TestNewGraph_valid(t *testing.T) {
	g, err := NewGraph([]Package{
		{Name: "@theia/core", Location: "packages/core"},
		{Name: "@theia/editor", Location: "packages/editor", Dependencies: []string{"@theia/core"}},
	}, "configs")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(g) != 3 {
		t.Errorf("graph size = %d, want 3 (two packages plus root)", len(g))
	}
	want := []string{"@theia/core", "@theia/editor"}
	if got := g.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestNewGraph_syntheticRoot(t *testing.T) {
	g, err := NewGraph([]Package{
		{Name: "b", Location: "packages/b"},
		{Name: "a", Location: "packages/a"},
	}, "configs")
	if err != nil {
		t.Fatal(err)
	}
	root := g.Root()
	if root.Name != RootPseudoName {
		t.Errorf("root name = %q", root.Name)
	}
	if root.Location != "configs" {
		t.Errorf("root location = %q, want %q", root.Location, "configs")
	}
	if want := []string{"a", "b"}; !reflect.DeepEqual(root.Dependencies, want) {
		t.Errorf("root dependencies = %v, want %v", root.Dependencies, want)
	}
}

func TestNewGraph_normalizesDeps(t *testing.T) {
	g, err := NewGraph([]Package{
		{Name: "a", Location: "packages/a"},
		{Name: "b", Location: "packages/b"},
		{Name: "c", Location: "packages/c", Dependencies: []string{"b", "a", "b"}},
	}, "configs")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"a", "b"}; !reflect.DeepEqual(g["c"].Dependencies, want) {
		t.Errorf("dependencies = %v, want sorted deduplicated %v", g["c"].Dependencies, want)
	}
}

func TestNewGraph_invalid(t *testing.T) {
	tests := []struct {
		name     string
		packages []Package
		wantErr  string
	}{
		{"empty name", []Package{{Location: "packages/a"}}, "name is required"},
		{"reserved name", []Package{{Name: RootPseudoName, Location: "x"}}, "reserved"},
		{"duplicate name", []Package{
			{Name: "a", Location: "packages/a"},
			{Name: "a", Location: "packages/a2"},
		}, "duplicate package name"},
		{"empty location", []Package{{Name: "a"}}, "location is required"},
		{"absolute location", []Package{{Name: "a", Location: "/tmp/a"}}, "absolute"},
		{"escaping location", []Package{{Name: "a", Location: "../outside"}}, "escape"},
		{"shared location", []Package{
			{Name: "a", Location: "packages/x"},
			{Name: "b", Location: "packages/x/"},
		}, "share location"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGraph(tt.packages, "configs")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestNewGraph_cycle(t *testing.T) {
	_, err := NewGraph([]Package{
		{Name: "a", Location: "packages/a", Dependencies: []string{"b"}},
		{Name: "b", Location: "packages/b", Dependencies: []string{"a"}},
	}, "configs")
	if err == nil {
		t.Fatal("expected cycle error")
	}
	if !strings.Contains(err.Error(), "dependency cycle: a -> b -> a") {
		t.Errorf("error = %v, want cycle path", err)
	}
}

func TestNewGraph_selfCycle(t *testing.T) {
	_, err := NewGraph([]Package{
		{Name: "a", Location: "packages/a", Dependencies: []string{"a"}},
	}, "configs")
	if err == nil {
		t.Fatal("expected cycle error")
	}
	if !strings.Contains(err.Error(), "a -> a") {
		t.Errorf("error = %v, want self cycle path", err)
	}
}

func TestNewGraph_diamondIsNotACycle(t *testing.T) {
	_, err := NewGraph([]Package{
		{Name: "app", Location: "packages/app", Dependencies: []string{"ui", "data"}},
		{Name: "ui", Location: "packages/ui", Dependencies: []string{"core"}},
		{Name: "data", Location: "packages/data", Dependencies: []string{"core"}},
		{Name: "core", Location: "packages/core"},
	}, "configs")
	if err != nil {
		t.Fatalf("diamond should be fine: %v", err)
	}
}

func TestNewGraph_unknownDepIsNotAnEdge(t *testing.T) {
	g, err := NewGraph([]Package{
		{Name: "a", Location: "packages/a", Dependencies: []string{"lodash"}},
	}, "configs")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(g["a"].Dependencies, []string{"lodash"}) {
		t.Errorf("unknown dependency names should be kept for later diagnostics, got %v", g["a"].Dependencies)
	}
}
