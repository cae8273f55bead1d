// Command primegl is a demo shell for the primegl engine.
//
// Usage:
//
//	primegl primes 100_000_000
//	primegl render --color green --out frame.png
//	primegl demo --out-dir frames
package main

import (
	"fmt"
	"os"

	"github.com/gogpu/primegl/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
