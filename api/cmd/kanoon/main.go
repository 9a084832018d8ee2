package main

import (
	"os"

	"kanoon-saral/api/cmd/kanoon/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
