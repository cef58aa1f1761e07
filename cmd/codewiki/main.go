package main

import (
	"fmt"
	"os"
)

// Set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "codewiki: %v\n", err)
		os.Exit(1)
	}
}
