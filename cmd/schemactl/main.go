// Package main is the entry point for the schemactl CLI.
package main

import (
	"os"

	"github.com/highergov/schemactl/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
