// Package main is the entry point for the markmin CLI.
package main

import (
	"os"

	"github.com/jmylchreest/markmin/cmd/markmin/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
