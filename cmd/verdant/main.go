// Package main provides the entry point for the verdant CLI.
package main

import "github.com/verdantlabs/verdant/cmd/verdant/cmd"

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
