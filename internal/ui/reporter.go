package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	driftStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

// Reporter prints synchronizer findings as human-readable lines with
// severity coloring. Verb choice follows the mode: a dry run says what
// would happen, a real run says what happened.
type Reporter struct {
	out    io.Writer
	dryRun bool
}

// NewReporter creates a reporter writing to out.
func NewReporter(out io.Writer, dryRun bool) *Reporter {
	return &Reporter{out: out, dryRun: dryRun}
}

// Dropped reports a reference removed from a manifest and why.
func (r *Reporter) Dropped(pkg, ref, reason string) {
	r.println(driftStyle.Render(fmt.Sprintf("%s: dropping reference %s (%s)", pkg, ref, reason)))
}

// ManifestChanged reports a build manifest that drifted from the declared
// graph.
func (r *Reporter) ManifestChanged(pkg, rel string, added, dropped int, compositeFixed bool) {
	details := changeDetails(added, dropped, compositeFixed)
	r.println(driftStyle.Render(fmt.Sprintf("%s: %s %s (%s)", pkg, rel, r.verb(), details)))
}

// NavigationChanged reports alias drift in the root navigation manifest.
func (r *Reporter) NavigationChanged(rel string, updated int) {
	r.println(driftStyle.Render(fmt.Sprintf("%s: %d aliases %s", rel, updated, r.verb())))
}

// Rewritten reports a clean manifest rewritten only to normalize its
// formatting.
func (r *Reporter) Rewritten(rel string) {
	r.println(fmt.Sprintf("%s: rewritten in canonical form", rel))
}

// InSync prints the closing line for a clean workspace.
func (r *Reporter) InSync(packages int) {
	r.println(okStyle.Render(fmt.Sprintf("all manifests in sync (%d packages)", packages)))
}

// OutOfSync prints the closing line for a drifted workspace.
func (r *Reporter) OutOfSync(manifests int) {
	msg := fmt.Sprintf("%d manifests updated", manifests)
	if r.dryRun {
		msg = fmt.Sprintf("%d manifests out of sync (dry run, nothing written)", manifests)
	}
	r.println(driftStyle.Render(msg))
}

func (r *Reporter) verb() string {
	if r.dryRun {
		return "out of sync"
	}
	return "updated"
}

func (r *Reporter) println(line string) {
	_, _ = fmt.Fprintln(r.out, line)
}

func changeDetails(added, dropped int, compositeFixed bool) string {
	var parts []string
	if added > 0 {
		parts = append(parts, fmt.Sprintf("+%d references", added))
	}
	if dropped > 0 {
		parts = append(parts, fmt.Sprintf("-%d references", dropped))
	}
	if compositeFixed {
		parts = append(parts, "composite enforced")
	}
	if len(parts) == 0 {
		return "changed"
	}
	return strings.Join(parts, ", ")
}
