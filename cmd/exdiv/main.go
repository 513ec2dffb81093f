package main

import (
	"os"

	"github.com/wonny/exdiv/cmd/exdiv/commands"
)

// main is the entry point for the exdiv CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/exdiv [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
