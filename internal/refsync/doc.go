// Package refsync keeps the per-package build manifests and the root
// navigation manifest consistent with the declared dependency graph. It
// computes the project references each manifest must carry, detects and
// repairs drift, and preserves every user-authored option it does not own.
package refsync
