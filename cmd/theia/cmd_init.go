package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/radiopartizan/theia/internal/config"
	"github.com/radiopartizan/theia/internal/tsconfig"
	"github.com/radiopartizan/theia/internal/workspace"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the manifests sync maintains but never creates",
		RunE:  runInit,
	}
	cmd.Flags().Bool("yes", false, "Create starter manifests for every package without prompting")
	cmd.Flags().Bool("force", false, "Overwrite existing root-level manifests with starters")
	return cmd
}

func runInit(cmd *cobra.Command, _ []string) error {
	root, _ := cmd.Flags().GetString("root")
	yes, _ := cmd.Flags().GetBool("yes")
	force, _ := cmd.Flags().GetBool("force")

	interactive := !yes && term.IsTerminal(int(os.Stdin.Fd()))
	if interactive && config.Path(root) == "" {
		if err := maybeWriteSettings(cmd, root); err != nil {
			return err
		}
	}

	ws, err := loadWorkspace(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	created := 0

	// Navigation manifest at the workspace root.
	navPath := ws.NavigationManifestPath()
	wrote, err := writeStarter(navPath, navigationStarter(), force)
	if err != nil {
		return err
	}
	if wrote {
		created++
		fmt.Fprintf(out, "Created %s\n", wsRel(ws, navPath))
	}

	// Whole-repository compilation manifest under the configs directory.
	rootPath := ws.BuildManifestPath(ws.Graph.Root())
	wrote, err = writeStarter(rootPath, rootCompilationStarter(), force)
	if err != nil {
		return err
	}
	if wrote {
		created++
		fmt.Fprintf(out, "Created %s\n", wsRel(ws, rootPath))
	}

	// Per-package starters. Packages opt in to reference syncing by having
	// a manifest, so these are never created without consent.
	missing := packagesWithoutManifest(ws)
	switch {
	case len(missing) == 0:
	case yes:
		for _, name := range missing {
			n, werr := createStarter(cmd, ws, name)
			if werr != nil {
				return werr
			}
			created += n
		}
	case interactive:
		for _, name := range missing {
			confirmed, perr := promptConfirm(fmt.Sprintf("Create %s for %s?", ws.Settings.ManifestName, name))
			if perr != nil {
				return perr
			}
			if !confirmed {
				continue
			}
			n, werr := createStarter(cmd, ws, name)
			if werr != nil {
				return werr
			}
			created += n
		}
	default:
		fmt.Fprintf(out, "%d packages have no %s; rerun with --yes to create starters\n",
			len(missing), ws.Settings.ManifestName)
	}

	if created == 0 {
		fmt.Fprintln(out, "Nothing to create.")
		return nil
	}
	fmt.Fprintln(out, "Run `theia sync` to populate references.")
	return nil
}

// packagesWithoutManifest lists packages whose build manifest is missing.
func packagesWithoutManifest(ws *workspace.Context) []string {
	var missing []string
	for _, name := range ws.Graph.Names() {
		if statOK(ws.BuildManifestPath(ws.Graph[name])) {
			continue
		}
		missing = append(missing, name)
	}
	return missing
}

func createStarter(cmd *cobra.Command, ws *workspace.Context, name string) (int, error) {
	path := ws.BuildManifestPath(ws.Graph[name])
	wrote, err := writeStarter(path, packageStarter(ws.Settings), false)
	if err != nil {
		return 0, err
	}
	if !wrote {
		return 0, nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", wsRel(ws, path))
	return 1, nil
}

// writeStarter writes a manifest unless one already exists. Returns whether
// a file was written.
func writeStarter(path string, cfg *tsconfig.Config, force bool) (bool, error) {
	if statOK(path) && !force {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil { //nolint:gosec // manifest dirs are world-readable
		return false, fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := tsconfig.Save(path, cfg); err != nil {
		return false, err
	}
	return true, nil
}

// navigationStarter is the minimal navigation manifest: the alias table is
// present but empty, filled by the first sync.
func navigationStarter() *tsconfig.Config {
	return &tsconfig.Config{
		CompilerOptions: &tsconfig.CompilerOptions{
			BaseURL: ".",
			Paths:   map[string][]string{},
		},
	}
}

// rootCompilationStarter is the whole-repository manifest: it compiles
// nothing itself and exists to carry references to every package.
func rootCompilationStarter() *tsconfig.Config {
	on := true
	cfg := &tsconfig.Config{
		CompilerOptions: &tsconfig.CompilerOptions{Composite: &on},
		Extra:           map[string]json.RawMessage{"files": json.RawMessage("[]")},
	}
	cfg.SetReferences(nil)
	return cfg
}

func packageStarter(s config.Settings) *tsconfig.Config {
	on := true
	cfg := &tsconfig.Config{
		CompilerOptions: &tsconfig.CompilerOptions{
			Composite: &on,
			RootDir:   s.RootDir,
			OutDir:    s.OutDir,
		},
	}
	cfg.SetReferences(nil)
	return cfg
}
