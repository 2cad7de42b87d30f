// Command montesniere composes logical forms for dependency-parsed sentences.
package main

import (
	"os"

	"github.com/roach88/montesniere/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
