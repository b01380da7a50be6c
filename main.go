package main

import (
	"os"

	"github.com/fprime-community/fprime-fppm/internal/cli"
	"github.com/fprime-community/fprime-fppm/internal/ui"
)

// version, commit, and date are set via ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := cli.Execute(version, commit, date); err != nil {
		ui.New(os.Stderr).Error("%v", err)
		os.Exit(1)
	}
}
