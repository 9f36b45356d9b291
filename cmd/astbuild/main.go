package main

import (
	"os"

	"github.com/teranos/astbuild/cmd/astbuild/commands"
	"github.com/teranos/astbuild/logger"
)

func main() {
	err := commands.NewRootCommand().Execute()
	logger.Cleanup()
	if err != nil {
		commands.ReportError(os.Stderr, err)
		os.Exit(1)
	}
}
