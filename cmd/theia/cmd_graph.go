package main

import (
	"encoding/json"
	"strings"

	"github.com/radiopartizan/theia/internal/ui"
	"github.com/spf13/cobra"
)

func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Show the declared package dependency graph",
		RunE:  runGraph,
	}
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

type graphNode struct {
	Name         string   `json:"name"`
	Location     string   `json:"location"`
	Dependencies []string `json:"dependencies"`
}

func runGraph(cmd *cobra.Command, _ []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	ws, err := loadWorkspace(cmd)
	if err != nil {
		return err
	}

	nodes := make([]graphNode, 0, len(ws.Graph))
	for _, name := range ws.Graph.Names() {
		p := ws.Graph[name]
		nodes = append(nodes, graphNode{Name: p.Name, Location: p.Location, Dependencies: p.Dependencies})
	}

	out := cmd.OutOrStdout()

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(nodes)
	}

	tbl := ui.NewTable(out, "PACKAGE", "LOCATION", "DEPENDS ON")
	for _, n := range nodes {
		tbl.Row(n.Name, n.Location, strings.Join(n.Dependencies, ", "))
	}
	return tbl.Flush()
}
