package main

import (
	"os"

	"github.com/JonMunkholm/PropCompare/cmd/propctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
