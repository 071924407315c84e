// Command testagent analyzes remote codebases and drafts automated tests.
package main

import (
	"fmt"
	"os"

	"github.com/Ponnammaah123/test-agent/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
