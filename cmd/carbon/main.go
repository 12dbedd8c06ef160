package main

import (
	"os"

	"github.com/wonny/carbon-portfolio/cmd/carbon/commands"
)

// main is the entry point for the carbon CLI: go run ./cmd/carbon [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
