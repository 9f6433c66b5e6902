package discover

import (
	"github.com/radiopartizan/theia/internal/config"
	"github.com/radiopartizan/theia/internal/workspace"
)

// Provider enumerates the workspace packages of a repository.
type Provider interface {
	Discover(root string) ([]workspace.Package, error)
}

// ForSettings returns the provider selected by the discovery settings.
func ForSettings(s config.Settings) Provider {
	if s.Discovery.Mode == config.ModeCommand {
		return &CommandProvider{Argv: s.Discovery.Command}
	}
	return &ScanProvider{}
}
