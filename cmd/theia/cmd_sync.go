package main

import (
	"github.com/radiopartizan/theia/internal/refsync"
	"github.com/radiopartizan/theia/internal/ui"
	"github.com/spf13/cobra"
)

func newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Repair build manifests to match the dependency graph",
		RunE:  runSync,
	}
	cmd.Flags().Bool("dry-run", false, "Report drift without writing any file")
	cmd.Flags().Bool("force-rewrite", false, "Rewrite manifests that are already in sync")
	return cmd
}

func runSync(cmd *cobra.Command, _ []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	force, _ := cmd.Flags().GetBool("force-rewrite")

	ws, err := loadWorkspace(cmd)
	if err != nil {
		return err
	}

	res, err := refsync.Run(ws, refsync.Options{DryRun: dryRun, ForceRewrite: force})
	if err != nil {
		return err
	}

	diag := ui.NewReporter(cmd.ErrOrStderr(), dryRun)
	drifted := 0
	for _, t := range res.Targets {
		for _, d := range t.Dropped {
			diag.Dropped(t.Package, d.Path, d.Reason)
		}
		switch {
		case t.State == refsync.StateDrift:
			drifted++
			diag.ManifestChanged(t.Package, t.Manifest, len(t.Added), len(t.Dropped), t.CompositeFixed)
		case t.Rewritten:
			diag.Rewritten(t.Manifest)
		}
	}
	if res.Navigation.Changed {
		drifted++
		diag.NavigationChanged(res.Navigation.Manifest, len(res.Navigation.Updated))
	} else if res.Navigation.Rewritten {
		diag.Rewritten(res.Navigation.Manifest)
	}

	sum := ui.NewReporter(cmd.OutOrStdout(), dryRun)
	if !res.Changed() {
		sum.InSync(len(ws.Graph.Names()))
		return nil
	}
	sum.OutOfSync(drifted)
	return refsync.ErrDrift
}
