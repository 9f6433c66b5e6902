package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/radiopartizan/theia/internal/refsync"
	"github.com/radiopartizan/theia/internal/ui"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show per-package manifest drift without writing files",
		RunE:  runStatus,
	}
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

func runStatus(cmd *cobra.Command, _ []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	ws, err := loadWorkspace(cmd)
	if err != nil {
		return err
	}

	res, err := refsync.Run(ws, refsync.Options{DryRun: true})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
	} else {
		tbl := ui.NewTable(out, "PACKAGE", "MANIFEST", "STATE", "DRIFT")
		for _, t := range res.Targets {
			tbl.Row(t.Package, t.Manifest, string(t.State), driftSummary(t))
		}
		nav := res.Navigation
		navState, navDrift := "clean", ""
		if nav.Changed {
			navState = "drift"
			navDrift = fmt.Sprintf("%d aliases", len(nav.Updated))
		}
		tbl.Row("(navigation)", nav.Manifest, navState, navDrift)
		if err := tbl.Flush(); err != nil {
			return err
		}
	}

	if res.Changed() {
		return refsync.ErrDrift
	}
	return nil
}

// driftSummary compresses a target's pending changes into a short cell.
func driftSummary(t refsync.TargetResult) string {
	if t.State != refsync.StateDrift {
		return ""
	}
	var parts []string
	if n := len(t.Added); n > 0 {
		parts = append(parts, fmt.Sprintf("+%d refs", n))
	}
	if n := len(t.Dropped); n > 0 {
		parts = append(parts, fmt.Sprintf("-%d refs", n))
	}
	if t.CompositeFixed {
		parts = append(parts, "composite")
	}
	return strings.Join(parts, ", ")
}
