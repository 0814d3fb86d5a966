// rotorwerk simulates a rotor-based polyalphabetic cipher machine.
//
// Usage:
//
//	rotorwerk transform --settings <file> [--positions R,M,L] [--trace-db <path>] <message>
//	rotorwerk validate <settings-file>
//	rotorwerk test <scenario-dir>
//	rotorwerk trace list|show --db <path>
package main

import (
	"fmt"
	"os"

	"github.com/roach88/rotorwerk/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
