// Command catsync performs one-way incremental synchronisation from a
// Google Drive account to a document catalog.
package main

import (
	"os"

	"github.com/meridian-labs/catsync-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
