package discover

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/radiopartizan/theia/internal/workspace"
)

// CommandProvider runs a configured command in the workspace root and
// parses its stdout as a workspaces info document, the JSON shape printed
// by yarn workspaces info.
type CommandProvider struct {
	Argv []string
}

func (p *CommandProvider) Discover(root string) ([]workspace.Package, error) {
	if len(p.Argv) == 0 {
		return nil, fmt.Errorf("discovery command is empty")
	}
	out, err := output(root, p.Argv[0], p.Argv[1:]...)
	if err != nil {
		return nil, err
	}
	return ParseWorkspacesInfo([]byte(out))
}

// ParseWorkspacesInfo parses a {name: {location, workspaceDependencies}}
// document. Output wrapped in yarn's --json log envelope, with the real
// document serialized into the data field, is unwrapped first.
func ParseWorkspacesInfo(data []byte) ([]workspace.Package, error) {
	var envelope struct {
		Type string `json:"type"`
		Data string `json:"data"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Type == "log" && envelope.Data != "" {
		data = []byte(envelope.Data)
	}

	var raw map[string]struct {
		Location              string   `json:"location"`
		WorkspaceDependencies []string `json:"workspaceDependencies"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing workspaces info: %w", err)
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	packages := make([]workspace.Package, 0, len(raw))
	for _, name := range names {
		info := raw[name]
		packages = append(packages, workspace.Package{
			Name:         name,
			Location:     filepath.ToSlash(info.Location),
			Dependencies: info.WorkspaceDependencies,
		})
	}
	return packages, nil
}

// output executes the command in dir and returns its stdout. Stderr is
// captured and included in the error message on failure.
func output(dir, name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s: %w: %s", strings.Join(append([]string{name}, args...), " "), err, stderr.String())
	}
	return stdout.String(), nil
}
