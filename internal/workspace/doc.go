// Package workspace models the declared dependency graph of a multi-package
// repository. It provides the Context type that holds the resolved root,
// effective settings, and validated graph, plus the path helpers the
// synchronizer builds on.
package workspace
