// Command heliosbench is a small CLI harness over the helios package:
// compile a rule file into a model summary, replay an event file against a
// compiled rule file, or run a throughput benchmark. It exists to give the
// library a shell-drivable surface for manual testing and demos, the way
// spec §2 describes consumers reaching the engine through "HTTP/REST/CLI/
// etc." — coregex itself ships no CLI, so this borrows spf13/cobra, the
// pack's established command-line library.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "heliosbench",
		Short: "compile, replay, and benchmark helios rule corpora",
	}

	root.AddCommand(newCompileCmd())
	root.AddCommand(newReplayCmd())
	root.AddCommand(newBenchCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
