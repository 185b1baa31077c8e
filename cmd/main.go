package main

// Main entry point of the dashboard
// Executes the Cobra command tree and exits non-zero on failure

import (
	"fmt"
	"os"

	"survival-dashboard/cmd/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
