// Package main provides the entry point for the divrec CLI tool.
package main

import (
	"github.com/fjordledger/divrec/cmd/divrec/cmd"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
