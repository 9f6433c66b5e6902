package main

import (
	"path/filepath"

	"github.com/radiopartizan/theia/internal/config"
	"github.com/radiopartizan/theia/internal/discover"
	"github.com/radiopartizan/theia/internal/logging"
	"github.com/radiopartizan/theia/internal/workspace"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var verbosity int

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "theia",
		Short:   "Keep build manifests in sync with the workspace dependency graph",
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logging.Setup(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("root", ".", "Workspace root directory")
	cmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (repeatable)")

	cmd.AddCommand(
		newInitCmd(),
		newSyncCmd(),
		newStatusCmd(),
		newGraphCmd(),
		newDoctorCmd(),
	)

	return cmd
}

// loadWorkspace reads the settings, enumerates the workspace packages, and
// assembles the dependency graph. Every command starts here.
func loadWorkspace(cmd *cobra.Command) (*workspace.Context, error) {
	root, _ := cmd.Flags().GetString("root")

	settings, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	packages, err := discover.ForSettings(settings).Discover(root)
	if err != nil {
		return nil, err
	}
	return workspace.New(root, settings, packages)
}

// wsRel renders an absolute path workspace-relative in posix form for
// display.
func wsRel(ws *workspace.Context, abs string) string {
	rel, err := filepath.Rel(ws.Root, abs)
	if err != nil {
		return filepath.ToSlash(abs)
	}
	return filepath.ToSlash(rel)
}
