package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/radiopartizan/theia/internal/refsync"
)

// Set via -ldflags at build time.
var version = "dev"

// Exit status: 0 when every manifest is in sync, 1 when drift was detected
// (and, outside dry runs, repaired), 2 on fatal errors.
func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, refsync.ErrDrift) {
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}
