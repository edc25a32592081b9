// Package main provides the entry point for the wbkit CLI tool.
package main

import (
	"github.com/entitykit/wikibase/cmd/wbkit/cmd"
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
