package main

import (
	"os"

	"github.com/livefir/imovel/cmd/imovel/commands"
)

// Version information (can be overridden at build time with -ldflags)
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	root := commands.NewRoot(commands.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
