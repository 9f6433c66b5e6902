// Package discover enumerates the packages of a multi-package repository.
// Scan mode reads the workspace glob declaration and walks the tree;
// command mode shells out to a configured tool and parses its workspaces
// info output.
package discover
