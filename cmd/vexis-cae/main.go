// Command vexis-cae drives the mesh-swap + set-reconstruction pipeline
// over one or more job directories (SPEC_FULL.md §6 "[FULL] CLI / batch
// runner").
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
