// Command kanonizo prioritizes regression test suites so likely failures
// surface earlier.
package main

import (
	"fmt"
	"os"

	"github.com/zjbreeze/kanonizo/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
