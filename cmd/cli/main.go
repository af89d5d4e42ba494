// Package main is the entry point for the gradeplane CLI.
// The CLI is the teacher's terminal tool for interacting with the gradeplane API.
package main

import (
	"os"

	"gradeplane/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
