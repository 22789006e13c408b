package main

import (
	"os"

	"github.com/potmover/potmover/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
