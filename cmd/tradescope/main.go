package main

import (
	"os"

	"github.com/wonny/tradescope/cmd/tradescope/commands"
)

// main is the entry point for the tradescope CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/tradescope [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
