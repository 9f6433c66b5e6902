package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/radiopartizan/theia/internal/config"
	"github.com/radiopartizan/theia/internal/discover"
	"github.com/radiopartizan/theia/internal/refsync"
	"github.com/radiopartizan/theia/internal/tsconfig"
	"github.com/radiopartizan/theia/internal/workspace"
	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the workspace for common issues",
		RunE:  runDoctor,
	}
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	root, _ := cmd.Flags().GetString("root")
	ok := true

	// Check settings.
	fmt.Fprint(out, "Checking settings... ")
	settings, err := config.Load(root)
	if err != nil {
		fmt.Fprintf(out, "INVALID\n  %v\n", err)
		return failDoctor(out)
	}
	if path := config.Path(root); path != "" {
		fmt.Fprintf(out, "OK (%s)\n", path)
	} else {
		fmt.Fprintln(out, "OK (defaults)")
	}

	// Check the discovery command is runnable before running it.
	if settings.Discovery.Mode == config.ModeCommand {
		tool := settings.Discovery.Command[0]
		fmt.Fprintf(out, "Checking discovery command %q... ", tool)
		if path, lerr := exec.LookPath(tool); lerr != nil {
			fmt.Fprintln(out, "NOT FOUND")
			ok = false
		} else {
			fmt.Fprintf(out, "found at %s\n", path)
		}
	}

	// Check package discovery.
	fmt.Fprint(out, "Discovering packages... ")
	packages, err := discover.ForSettings(settings).Discover(root)
	if err != nil {
		fmt.Fprintf(out, "FAILED\n  %v\n", err)
		return failDoctor(out)
	}
	fmt.Fprintf(out, "%d found\n", len(packages))

	// Check the graph loads, which also rejects cycles and duplicates.
	fmt.Fprint(out, "Building dependency graph... ")
	ws, err := workspace.New(root, settings, packages)
	if err != nil {
		fmt.Fprintf(out, "FAILED\n  %v\n", err)
		return failDoctor(out)
	}
	fmt.Fprintln(out, "OK")

	reportDanglingDeps(out, ws)
	if !checkAliasCollisions(out, ws) {
		ok = false
	}

	// Check every build manifest parses. Absence is an opt-out, not an error.
	for _, t := range refsync.Targets(ws) {
		fmt.Fprintf(out, "Checking %s... ", wsRel(ws, t.ManifestPath))
		if _, serr := os.Stat(t.ManifestPath); serr != nil {
			fmt.Fprintln(out, "absent (package opted out)")
			continue
		}
		if _, perr := tsconfig.Load(t.ManifestPath); perr != nil {
			fmt.Fprintf(out, "PARSE ERROR\n  %v\n", perr)
			ok = false
			continue
		}
		fmt.Fprintln(out, "OK")
	}

	// The navigation manifest is the one file sync refuses to run without.
	navPath := ws.NavigationManifestPath()
	fmt.Fprintf(out, "Checking %s... ", wsRel(ws, navPath))
	switch {
	case !statOK(navPath):
		fmt.Fprintln(out, "MISSING")
		fmt.Fprintln(out, "  The navigation manifest is required; run `theia init` to create it.")
		ok = false
	default:
		if _, perr := tsconfig.Load(navPath); perr != nil {
			fmt.Fprintf(out, "PARSE ERROR\n  %v\n", perr)
			ok = false
		} else {
			fmt.Fprintln(out, "OK")
		}
	}

	if !ok {
		return failDoctor(out)
	}
	fmt.Fprintln(out, "\nAll checks passed.")
	return nil
}

func failDoctor(out io.Writer) error {
	fmt.Fprintln(out, "\nSome checks failed. See above for details.")
	return fmt.Errorf("doctor checks failed")
}

func statOK(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// reportDanglingDeps notes dependency declarations naming something that is
// not a workspace package. They are not graph edges and never produce
// references.
func reportDanglingDeps(out io.Writer, ws *workspace.Context) {
	for _, name := range ws.Graph.Names() {
		for _, dep := range ws.Graph[name].Dependencies {
			if _, known := ws.Graph[dep]; !known {
				fmt.Fprintf(out, "  Note: %s depends on %s, which is not a workspace package\n", name, dep)
			}
		}
	}
}

// checkAliasCollisions verifies no two packages map to the same navigation
// alias. A collision would leave one package's alias silently overwritten
// on every sync.
func checkAliasCollisions(out io.Writer, ws *workspace.Context) bool {
	ok := true
	patterns := make(map[string]string, len(ws.Graph))
	for _, name := range ws.Graph.Names() {
		pattern, _ := refsync.AliasFor(ws, ws.Graph[name])
		if other, dup := patterns[pattern]; dup {
			fmt.Fprintf(out, "  Alias collision: %s and %s both map to %s\n", other, name, pattern)
			ok = false
			continue
		}
		patterns[pattern] = name
	}
	return ok
}
