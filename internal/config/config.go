// Package config loads the optional tool settings file from the workspace
// root. All settings have defaults matching plain yarn/TypeScript
// monorepo layouts, so most workspaces need no file at all.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Discovery modes.
const (
	ModeScan    = "scan"
	ModeCommand = "command"
)

// fileNames are probed in the workspace root, first match wins.
var fileNames = []string{".theia.toml", "theia.toml"}

// defaultDiscoveryCommand emits the workspaces info document command mode
// parses. Used when command mode is selected without an explicit command.
var defaultDiscoveryCommand = []string{"yarn", "--silent", "workspaces", "info"}

// Discovery selects how workspace packages are enumerated.
type Discovery struct {
	Mode    string   `toml:"mode"`
	Command []string `toml:"command"`
}

// Settings holds every knob the synchronizer honors.
type Settings struct {
	ManifestName       string    `toml:"manifest_name"`
	ConfigsDir         string    `toml:"configs_dir"`
	RootManifestName   string    `toml:"root_manifest_name"`
	NavigationManifest string    `toml:"navigation_manifest"`
	RootDir            string    `toml:"root_dir"`
	OutDir             string    `toml:"out_dir"`
	Discovery          Discovery `toml:"discovery"`
}

// Default returns the settings used when no file overrides them.
func Default() Settings {
	return Settings{
		ManifestName:       "tsconfig.json",
		ConfigsDir:         "configs",
		RootManifestName:   "root-compilation.tsconfig.json",
		NavigationManifest: "tsconfig.json",
		RootDir:            "src",
		OutDir:             "lib",
		Discovery:          Discovery{Mode: ModeScan},
	}
}

// Path returns the settings file present at root, or "" when the workspace
// runs on defaults.
func Path(root string) string {
	for _, name := range fileNames {
		p := filepath.Join(root, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Load reads the settings file from root if one exists and merges it over
// the defaults.
func Load(root string) (Settings, error) {
	s := Default()
	for _, name := range fileNames {
		path := filepath.Join(root, name)
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return s, fmt.Errorf("reading %s: %w", name, err)
		}
		if err := toml.Unmarshal(data, &s); err != nil {
			return s, fmt.Errorf("parsing %s: %w", name, err)
		}
		break
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// Validate checks the settings for errors.
func (s *Settings) Validate() error {
	if err := validateFileName(s.ManifestName, "manifest_name"); err != nil {
		return err
	}
	if err := validateFileName(s.RootManifestName, "root_manifest_name"); err != nil {
		return err
	}
	if err := validateFileName(s.NavigationManifest, "navigation_manifest"); err != nil {
		return err
	}
	for _, p := range []struct{ val, label string }{
		{s.ConfigsDir, "configs_dir"},
		{s.RootDir, "root_dir"},
		{s.OutDir, "out_dir"},
	} {
		if p.val == "" {
			return fmt.Errorf("settings: %s is required", p.label)
		}
		if err := validatePath(p.val, p.label); err != nil {
			return err
		}
	}
	switch s.Discovery.Mode {
	case "", ModeScan:
		s.Discovery.Mode = ModeScan
	case ModeCommand:
		if len(s.Discovery.Command) == 0 {
			s.Discovery.Command = append([]string(nil), defaultDiscoveryCommand...)
		}
	default:
		return fmt.Errorf("settings: unknown discovery.mode: %q (must be %s or %s)", s.Discovery.Mode, ModeScan, ModeCommand)
	}
	return nil
}

func validateFileName(v, label string) error {
	if v == "" {
		return fmt.Errorf("settings: %s is required", label)
	}
	if strings.ContainsAny(v, `/\`) {
		return fmt.Errorf("settings: %s must be a bare file name: %s", label, v)
	}
	return nil
}

// validatePath ensures a path is relative and does not escape the workspace.
func validatePath(p, label string) error {
	if filepath.IsAbs(p) {
		return fmt.Errorf("settings: %s: absolute path is not allowed: %s", label, p)
	}
	cleaned := filepath.Clean(p)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return fmt.Errorf("settings: %s: path must not escape workspace (contains ..): %s", label, p)
	}
	return nil
}
