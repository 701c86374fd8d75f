// main is the entry point for the deeptime CLI.
package main

import (
	"os"

	"github.com/huangsam/deeptime/cmd"
	"github.com/huangsam/deeptime/internal/contract"
	"github.com/huangsam/deeptime/internal/eventstore"
)

func main() {
	err := cmd.Execute()

	// Deferred work does not run after os.Exit, so clean up explicitly.
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	eventstore.CloseStore()

	if err != nil {
		contract.LogFatal("Command failed", err)
	}
}
