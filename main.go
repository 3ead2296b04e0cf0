// ABOUTME: Entry point for the catalog console
// ABOUTME: Serves the admin console over HTTP or browses the catalog from a terminal

package main

import (
	"fmt"
	"os"

	"github.com/storeops/catalog-console/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
