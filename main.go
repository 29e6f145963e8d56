// main is the entrypoint for the airank CLI.
package main

import (
	"os"

	"github.com/Dark-Matter98/ai-repository-leaderboard/cmd"
	"github.com/Dark-Matter98/ai-repository-leaderboard/internal/contract"
	"github.com/Dark-Matter98/ai-repository-leaderboard/internal/iocache"
)

func main() {
	err := cmd.Execute()

	iocache.CloseStores()
	if profErr := cmd.StopProfiling(); profErr != nil {
		contract.LogWarn("Could not stop profiling", profErr)
	}

	if err != nil {
		contract.LogWarn("Command failed", err)
		os.Exit(1)
	}
}
