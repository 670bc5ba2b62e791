// Command werewolf validates rulesets, collapses tag sets and plays
// scripted games.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/werewolf/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		// formatted output has already been written; keep stderr for the cause
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
