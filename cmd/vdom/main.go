// Command vdom replays scene files through the reconciler and inspects
// recorded traces.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/vdom/cmd/vdom/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
